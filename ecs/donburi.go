package ecs

import (
	"github.com/phanxgames/tide"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// WorldEventType is the Donburi event type for tide world events.
// Subscribe to this in your ECS systems to receive transitions, spawns and
// hovers.
var WorldEventType = events.NewEventType[tide.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// World events are published to WorldEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) tide.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event tide.Event) {
	WorldEventType.Publish(s.world, event)
}
