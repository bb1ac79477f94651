package tide

import (
	"reflect"
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Key is one leg of a keyframed track: the values to reach, the time to take,
// and the easing curve. Only the first n values are used for a track bound to
// n fields.
type Key struct {
	To       [4]float64
	Duration float64
	Ease     ease.TweenFunc
}

// Key1 builds a single-channel key.
func Key1(to, duration float64, fn ease.TweenFunc) Key {
	return Key{To: [4]float64{to}, Duration: duration, Ease: fn}
}

// Key3 builds a key for a Vec3-bound track.
func Key3(to Vec3, duration float64, fn ease.TweenFunc) Key {
	return Key{To: [4]float64{to.X, to.Y, to.Z}, Duration: duration, Ease: fn}
}

type loopMode uint8

const (
	loopNone     loopMode = iota
	loopRelative          // adds Key.To every period, forever
	loopYoyo              // swings between the start value and Key.To, forever
)

// Track animates up to 4 float64 fields of one handle through a list of keys
// played back to back, starting at a fixed offset on its timeline's clock.
// Start values are captured when the track begins, not when it is scheduled.
type Track struct {
	target any
	fields [4]*float64
	count  int
	keys   []Key
	start  float64
	loop   loopMode

	started  bool
	done     bool
	killed   bool
	leg      int
	legStart float64
	legFrom  [4]float64
	legClock *gween.Tween

	onUpdate func()
}

// OnUpdate registers fn to run after every write the track makes. It may adjust
// the fields (for example to clamp them); the next leg starts from whatever
// values fn leaves behind.
func (tr *Track) OnUpdate(fn func()) *Track {
	tr.onUpdate = fn
	return tr
}

// Done reports whether the track has written its final key.
func (tr *Track) Done() bool { return tr.done }

// Target returns the handle the track is bound to.
func (tr *Track) Target() any { return tr.target }

func (tr *Track) read() [4]float64 {
	var v [4]float64
	for i := 0; i < tr.count; i++ {
		v[i] = *tr.fields[i]
	}
	return v
}

func (tr *Track) write(v [4]float64) {
	for i := 0; i < tr.count; i++ {
		*tr.fields[i] = v[i]
	}
	if tr.onUpdate != nil {
		tr.onUpdate()
	}
}

func (tr *Track) beginLeg() {
	k := tr.keys[tr.leg]
	fn := k.Ease
	if fn == nil {
		fn = ease.Linear
	}
	tr.legFrom = tr.read()
	if k.Duration > 0 {
		tr.legClock = gween.New(0, 1, float32(k.Duration), fn)
	}
}

// fraction returns the eased [0, 1] position of the current leg.
func (tr *Track) fraction(elapsed float64) float64 {
	if tr.legClock == nil {
		return 1
	}
	f, _ := tr.legClock.Set(float32(elapsed))
	return float64(f)
}

// update evaluates the track at timeline clock t.
func (tr *Track) update(t float64) {
	local := t - tr.start
	if local < 0 || tr.done || tr.killed {
		return
	}
	if !tr.started {
		tr.started = true
		tr.beginLeg()
	}
	if tr.loop != loopNone {
		tr.updateLoop(local)
		return
	}

	for {
		k := tr.keys[tr.leg]
		elapsed := local - tr.legStart
		if elapsed < k.Duration {
			f := tr.fraction(elapsed)
			var v [4]float64
			for i := 0; i < tr.count; i++ {
				v[i] = lerp(tr.legFrom[i], k.To[i], f)
			}
			tr.write(v)
			return
		}

		// Leg finished: land exactly on the authored values.
		tr.write(k.To)
		tr.leg++
		if tr.leg == len(tr.keys) {
			tr.done = true
			return
		}
		tr.legStart += k.Duration
		tr.beginLeg()
	}
}

// updateLoop evaluates an infinite track in closed form so long runs do not
// accumulate drift.
func (tr *Track) updateLoop(local float64) {
	k := tr.keys[0]
	if k.Duration <= 0 {
		return
	}
	cycles := int(local / k.Duration)
	phase := local - float64(cycles)*k.Duration
	f := tr.fraction(phase)

	var v [4]float64
	for i := 0; i < tr.count; i++ {
		from := tr.legFrom[i]
		switch tr.loop {
		case loopRelative:
			v[i] = from + k.To[i]*(float64(cycles)+f)
		case loopYoyo:
			if cycles%2 == 0 {
				v[i] = lerp(from, k.To[i], f)
			} else {
				v[i] = lerp(k.To[i], from, f)
			}
		}
	}
	tr.write(v)
}

type cue struct {
	at    float64
	fn    func()
	fired bool
}

// Timeline schedules tracks and callbacks against one local clock that starts
// at zero. Call Update(dt) each frame, or register it with an Animator.
type Timeline struct {
	clock      float64
	tracks     []*Track
	cues       []cue
	onComplete func()
	done       bool
	stopped    bool
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// To schedules a keyframed track on fields of target starting at offset at.
// Kill matches target by identity and the fields by address. At most 4 fields
// are used.
func (tl *Timeline) To(target any, fields []*float64, at float64, keys ...Key) *Track {
	tr := &Track{target: target, keys: keys, start: at}
	tr.count = copy(tr.fields[:], fields)
	if len(keys) == 0 {
		tr.done = true
	}
	tl.tracks = append(tl.tracks, tr)
	return tr
}

// ToVec3 schedules a keyframed track on all three components of v.
func (tl *Timeline) ToVec3(v *Vec3, at float64, keys ...Key) *Track {
	return tl.To(v, v.fields(), at, keys...)
}

// ToValue schedules a single-key track on one field of target.
func (tl *Timeline) ToValue(target any, field *float64, at float64, key Key) *Track {
	return tl.To(target, []*float64{field}, at, key)
}

// Spin schedules an endless track that adds delta to field every period.
func (tl *Timeline) Spin(target any, field *float64, delta, period float64, fn ease.TweenFunc) *Track {
	tr := tl.ToValue(target, field, 0, Key1(delta, period, fn))
	tr.loop = loopRelative
	return tr
}

// Yoyo schedules an endless track that swings field between its start value
// and to, one direction per period.
func (tl *Timeline) Yoyo(target any, field *float64, to, period float64, fn ease.TweenFunc) *Track {
	tr := tl.ToValue(target, field, 0, Key1(to, period, fn))
	tr.loop = loopYoyo
	return tr
}

// Call schedules fn to run once when the clock reaches at.
func (tl *Timeline) Call(at float64, fn func()) {
	i := len(tl.cues)
	for i > 0 && tl.cues[i-1].at > at {
		i--
	}
	tl.cues = slices.Insert(tl.cues, i, cue{at: at, fn: fn})
}

// OnComplete registers fn to run once every track has finished and every cue
// has fired. Timelines holding an endless track never complete.
func (tl *Timeline) OnComplete(fn func()) {
	tl.onComplete = fn
}

// Clock returns the time elapsed on the timeline.
func (tl *Timeline) Clock() float64 { return tl.clock }

// Done reports whether the timeline completed or was stopped.
func (tl *Timeline) Done() bool { return tl.done || tl.stopped }

// Stop halts the timeline without completing it. Pending cues and the
// completion callback never run. Safe to call more than once.
func (tl *Timeline) Stop() {
	tl.stopped = true
}

// Kill removes every track that writes into the memory of one of targets and
// returns how many were removed. A target is a pointer: a *Vec3 kills tracks
// on any of its components, a pointer to a whole handle kills tracks on any
// field inside it, whatever target the track was scheduled under. Non-pointer
// targets match nothing. Cues are unaffected. Safe on stopped or finished
// timelines.
func (tl *Timeline) Kill(targets ...any) int {
	spans := make([]span, 0, len(targets))
	for _, t := range targets {
		if sp, ok := spanOf(t); ok {
			spans = append(spans, sp)
		}
	}
	n := 0
	for _, tr := range tl.tracks {
		if !tr.killed && tr.within(spans) {
			tr.killed = true
			n++
		}
	}
	return n
}

// span is the address range [lo, hi) a pointer target covers.
type span struct {
	target any
	lo, hi uintptr
}

func spanOf(target any) (span, bool) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return span{}, false
	}
	lo := v.Pointer()
	return span{target: target, lo: lo, hi: lo + v.Type().Elem().Size()}, true
}

func (sp span) contains(addr uintptr) bool {
	return addr == sp.lo || (addr > sp.lo && addr < sp.hi)
}

// within reports whether the track was scheduled under one of spans' targets
// or writes a field inside one of them.
func (tr *Track) within(spans []span) bool {
	for _, sp := range spans {
		// sp.target is a pointer, so == cannot panic.
		if tr.target == sp.target {
			return true
		}
		for _, f := range tr.fields[:tr.count] {
			if f != nil && sp.contains(reflect.ValueOf(f).Pointer()) {
				return true
			}
		}
	}
	return false
}

// Update advances the clock by dt, writes every started track, fires due cues
// in time order, and completes the timeline when nothing is left to play.
func (tl *Timeline) Update(dt float64) {
	if tl.Done() {
		return
	}
	tl.clock += dt

	for i := 0; i < len(tl.tracks); i++ {
		tl.tracks[i].update(tl.clock)
	}
	for i := 0; i < len(tl.cues); i++ {
		c := &tl.cues[i]
		if c.fired || c.at > tl.clock {
			continue
		}
		c.fired = true
		c.fn()
		if tl.stopped {
			return
		}
	}

	tl.tracks = slices.DeleteFunc(tl.tracks, func(tr *Track) bool { return tr.killed })
	if tl.pending() {
		return
	}
	tl.done = true
	if tl.onComplete != nil {
		tl.onComplete()
	}
}

// pending reports whether any track or cue still has work to do.
func (tl *Timeline) pending() bool {
	for _, tr := range tl.tracks {
		if !tr.done {
			return true
		}
	}
	for _, c := range tl.cues {
		if !c.fired {
			return true
		}
	}
	return false
}

// Animator owns every running timeline. Because all of them advance from one
// place, cancelling a handle's animation is a matter of removing its tracks
// wherever they live, including timelines started by other code.
type Animator struct {
	timelines []*Timeline
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// NewTimeline creates a timeline and registers it.
func (a *Animator) NewTimeline() *Timeline {
	return a.Add(NewTimeline())
}

// Add registers tl. Timelines added during Update are first advanced on the
// following Update.
func (a *Animator) Add(tl *Timeline) *Timeline {
	a.timelines = append(a.timelines, tl)
	return tl
}

// Update advances every registered timeline and drops finished ones.
func (a *Animator) Update(dt float64) {
	n := len(a.timelines)
	for i := 0; i < n && i < len(a.timelines); i++ {
		a.timelines[i].Update(dt)
	}
	a.timelines = slices.DeleteFunc(a.timelines, (*Timeline).Done)
}

// KillTweensOf removes every track bound to one of targets from every
// registered timeline.
func (a *Animator) KillTweensOf(targets ...any) {
	for _, tl := range a.timelines {
		tl.Kill(targets...)
	}
}

// StopAll stops and drops every timeline.
func (a *Animator) StopAll() {
	for _, tl := range a.timelines {
		tl.Stop()
	}
	clear(a.timelines)
	a.timelines = a.timelines[:0]
}

// Len returns the number of registered timelines.
func (a *Animator) Len() int {
	return len(a.timelines)
}
