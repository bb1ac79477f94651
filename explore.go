package tide

import "github.com/tanema/gween/ease"

// Explore recenters the camera, turns the primary object to face the viewer,
// then ramps the bloom up and fires OnExploreReady. Only valid while revealed
// and not reversing; gestures are ignored until Return.
func (s *Sequencer) Explore() {
	if s.state != StateRevealed || s.exploring || s.reverse != nil {
		return
	}
	s.exploring = true
	if b := s.handles.Bloom; b != nil {
		s.bloomRest = *b
		s.hasBloom = true
	}
	if s.callbacks.OnExplore != nil {
		s.callbacks.OnExplore()
	}

	cfg := &s.config.Explore
	s.anim.KillTweensOf(&s.camera.Position, &s.camera.LookAt)
	s.stop(&s.detour)
	tl := s.anim.NewTimeline()
	s.detour = tl

	tl.ToValue(&s.camera.Position, &s.camera.Position.X, 0, Key1(0, recenterDuration, ease.InOutCubic))
	tl.ToValue(&s.camera.LookAt, &s.camera.LookAt.X, 0, Key1(0, recenterDuration, ease.InOutCubic))

	pr := s.handles.Primary
	if pr == nil {
		s.rampBloom(tl, 0, cfg)
		return
	}

	s.spinWanted = false
	s.stopLoop()
	s.anim.KillTweensOf(&pr.Position, &pr.Rotation)
	unwindAngles(&pr.Rotation, Vec3{})
	tl.ToVec3(&pr.Position, 0, Key3(Vec3{Y: cfg.PrimaryY}, faceFrontDuration, ease.InOutCubic))
	tl.ToVec3(&pr.Rotation, 0, Key3(Vec3{}, faceFrontDuration, ease.OutCubic))
	s.rampBloom(tl, faceFrontDuration, cfg)
}

func (s *Sequencer) rampBloom(tl *Timeline, at float64, cfg *ExploreConfig) {
	ready := func() {
		if s.callbacks.OnExploreReady != nil {
			s.callbacks.OnExploreReady()
		}
	}
	b := s.handles.Bloom
	if b == nil {
		tl.Call(at, ready)
		return
	}
	s.anim.KillTweensOf(b)
	tl.ToValue(b, &b.Levels, at, Key1(cfg.BloomLevels, bloomLevelsDuration, ease.InOutCubic))
	tl.ToValue(b, &b.Intensity, at, Key1(cfg.BloomIntensity, bloomRampDuration, ease.InOutCubic))
	tl.Call(at+bloomRampDuration, ready)
}

// Return undoes Explore: the bloom snaps back, the camera and primary object
// tween back to the composition captured at reveal, and the spin loop resumes.
func (s *Sequencer) Return() {
	if !s.exploring {
		return
	}
	s.exploring = false
	s.stop(&s.detour)
	if b := s.handles.Bloom; b != nil {
		s.anim.KillTweensOf(b)
		if s.hasBloom {
			*b = s.bloomRest
		}
	}
	if s.callbacks.OnReturn != nil {
		s.callbacks.OnReturn()
	}

	snap := s.revealed
	if snap == nil {
		snap = s.initial
	}
	if snap == nil {
		return
	}

	tl := s.anim.NewTimeline()
	s.detour = tl
	s.anim.KillTweensOf(&s.camera.Position, &s.camera.LookAt)
	tl.ToVec3(&s.camera.Position, 0, Key3(snap.camera.Position, returnCameraDuration, ease.InOutCubic))
	tl.ToVec3(&s.camera.LookAt, 0, Key3(snap.camera.LookAt, returnCameraDuration, ease.InOutCubic))

	if pr := s.handles.Primary; pr != nil {
		s.anim.KillTweensOf(&pr.Position, &pr.Rotation)
		if snap.hasPrimary {
			tl.ToVec3(&pr.Position, 0, Key3(snap.primary.Position, returnBodyDuration, ease.InOutCubic))
			pr.Rotation = snap.primary.Rotation
		}
	}
	s.spinWanted = true
	s.startLoop()
}
