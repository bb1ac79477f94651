// Package ecs provides ECS adapters for tide's world events.
//
// The primary adapter is [NewDonburiSink], which bridges tide world events
// (sequencer transitions, bubble spawns and hovers) into a [Donburi] world as
// typed events. Subscribe to [WorldEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	tideWorld.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
