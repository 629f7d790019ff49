package player

import (
	"math"
	"testing"

	"github.com/vovakirdan/pingu-runner/internal/config"
	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/sched"
)

const dt = 1.0 / 60

type rig struct {
	s      *sched.Scheduler
	p      *Locomotion
	events []Event
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{s: sched.New()}
	r.p = New(config.DefaultRunnerConfig().Player, r.s, nil)
	r.p.Subscribe(func(e Event) { r.events = append(r.events, e) })
	r.p.Run()
	return r
}

// step runs one tick the way the engine does: deferred actions first.
func (r *rig) step(g core.Gestures) {
	r.s.Advance(dt)
	r.p.Tick(dt, g, 1)
}

func (r *rig) steps(n int) {
	for i := 0; i < n; i++ {
		r.step(core.Gestures{})
	}
}

func (r *rig) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestIdleIgnoresInput(t *testing.T) {
	s := sched.New()
	p := New(config.DefaultRunnerConfig().Player, s, nil)
	p.Tick(dt, core.Gestures{SwipeLeft: true, SwipeUp: true}, 1)
	if p.Lane() != 1 || p.Position() != (core.Vec3{}) || p.Movement() != MoveIdle {
		t.Errorf("idle player moved: lane %d pos %+v movement %s", p.Lane(), p.Position(), p.Movement())
	}
}

func TestRunForward(t *testing.T) {
	r := newRig(t)
	r.steps(60)
	if z := r.p.Position().Z; math.Abs(z-7) > 1e-6 {
		t.Errorf("after 1s at speed 7, z = %v", z)
	}
	if !r.p.Grounded() || r.p.Position().Y != 0 {
		t.Errorf("runner should stay on the ground, y = %v", r.p.Position().Y)
	}
}

func TestDifficultyScalesSpeed(t *testing.T) {
	r := newRig(t)
	for i := 0; i < 60; i++ {
		r.s.Advance(dt)
		r.p.Tick(dt, core.Gestures{}, 1.5)
	}
	if z := r.p.Position().Z; math.Abs(z-10.5) > 1e-6 {
		t.Errorf("z = %v, expected 10.5", z)
	}
}

func TestLaneChange(t *testing.T) {
	tests := []struct {
		name  string
		swipe []core.Gestures
		lane  int
	}{
		{"left", []core.Gestures{{SwipeLeft: true}}, 0},
		{"right", []core.Gestures{{SwipeRight: true}}, 2},
		{"clamped left", []core.Gestures{{SwipeLeft: true}, {SwipeLeft: true}, {SwipeLeft: true}}, 0},
		{"clamped right", []core.Gestures{{SwipeRight: true}, {SwipeRight: true}}, 2},
		{"back to centre", []core.Gestures{{SwipeLeft: true}, {SwipeRight: true}}, 1},
		{"left wins over right", []core.Gestures{{SwipeLeft: true, SwipeRight: true}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			for _, g := range tt.swipe {
				r.step(g)
			}
			if r.p.Lane() != tt.lane {
				t.Errorf("lane = %d, expected %d", r.p.Lane(), tt.lane)
			}
			r.steps(60)
			if x := r.p.Position().X; math.Abs(x-r.p.LaneX()) > 1e-9 {
				t.Errorf("x = %v, expected lane centre %v", x, r.p.LaneX())
			}
		})
	}
}

func TestLaneChangeSnapsWithoutOvershoot(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeRight: true})
	for i := 0; i < 120; i++ {
		r.step(core.Gestures{})
		if x := r.p.Position().X; x > 3+1e-9 {
			t.Fatalf("overshot lane centre: x = %v", x)
		}
	}
	if x := r.p.Position().X; x != 3 {
		t.Errorf("x = %v, expected exactly 3", x)
	}
}

func TestJumpArc(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeUp: true})
	if r.p.Movement() != MoveAirborne || r.p.Grounded() {
		t.Fatalf("after jump: movement %s grounded %v", r.p.Movement(), r.p.Grounded())
	}

	peak := 0.0
	landedAt := -1
	for i := 0; i < 120; i++ {
		r.step(core.Gestures{})
		peak = math.Max(peak, r.p.Position().Y)
		if r.p.Movement() == MoveRunning {
			landedAt = i
			break
		}
	}
	if landedAt < 0 {
		t.Fatal("player never landed")
	}
	// v^2 / 2g = 16 / 24
	if math.Abs(peak-2.0/3) > 0.05 {
		t.Errorf("peak height = %v, expected about 0.667", peak)
	}
	if r.count(EventJumped) != 1 || r.count(EventLanded) != 1 {
		t.Errorf("jumped %d landed %d, expected 1 each", r.count(EventJumped), r.count(EventLanded))
	}
}

func TestJumpIgnoredWhileAirborne(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeUp: true})
	r.steps(5)
	r.step(core.Gestures{SwipeUp: true})
	if r.count(EventJumped) != 1 {
		t.Errorf("jumped %d times mid-air", r.count(EventJumped))
	}
}

func TestFastFall(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeUp: true})
	r.steps(3)
	r.step(core.Gestures{SwipeDown: true})
	if vy := r.p.VerticalSpeed(); vy >= 0 {
		t.Errorf("vertical speed after fast fall = %v, expected negative", vy)
	}
	if r.count(EventFastFall) != 1 || r.count(EventSlideStarted) != 0 {
		t.Error("swipe down mid-air should fast fall, not slide")
	}
}

func TestSlideLifecycle(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeDown: true})
	if r.p.Movement() != MoveSliding {
		t.Fatalf("movement = %s, expected sliding", r.p.Movement())
	}
	if h := r.p.Hitbox(); h.Height != 1 || h.CenterY != 0.5 {
		t.Errorf("sliding hitbox = %+v, expected height 1 centre 0.5", h)
	}
	box := r.p.Box()
	if box.Min.Y != 0 || box.Max.Y != 1 {
		t.Errorf("sliding box spans y [%v, %v]", box.Min.Y, box.Max.Y)
	}

	r.steps(58)
	if r.p.Movement() != MoveSliding {
		t.Fatal("slide ended early")
	}
	r.steps(3)
	if r.p.Movement() != MoveRunning {
		t.Errorf("movement = %s after slide duration", r.p.Movement())
	}
	if h := r.p.Hitbox(); h.Height != 2 || h.CenterY != 1 {
		t.Errorf("hitbox not restored: %+v", h)
	}
}

func TestSlideRestartIgnoredWhileSliding(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeDown: true})
	due, _ := r.s.Due(slideEndKind)
	r.steps(10)
	r.step(core.Gestures{SwipeDown: true})
	if again, _ := r.s.Due(slideEndKind); again != due {
		t.Errorf("slide end moved from %v to %v", due, again)
	}
}

func TestSlideThenJump(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeDown: true})
	r.steps(12) // 0.2s into the slide
	r.step(core.Gestures{SwipeUp: true})

	if r.p.Movement() != MoveAirborne {
		t.Fatalf("movement = %s, expected airborne", r.p.Movement())
	}
	if h := r.p.Hitbox(); h.Height != 2 {
		t.Errorf("hitbox height = %v, expected full height", h.Height)
	}
	if r.s.Pending(slideEndKind) {
		t.Error("slide end should be cancelled")
	}
	if r.count(EventSlideEnded) != 1 {
		t.Errorf("slide ended %d times, expected 1", r.count(EventSlideEnded))
	}

	// The cancelled action must not interfere once the old deadline passes.
	r.steps(60)
	if r.count(EventSlideEnded) != 1 {
		t.Errorf("stale slide end fired, %d events", r.count(EventSlideEnded))
	}
}

type pickup struct {
	available bool
	taken     int
}

func (p *pickup) CanPickUp() bool { return p.available }
func (p *pickup) PickUp()         { p.available = false; p.taken++ }

func TestCrashOnce(t *testing.T) {
	r := newRig(t)
	r.steps(10)

	if !r.p.OnObstacleContact() {
		t.Fatal("first contact should crash")
	}
	if r.p.OnObstacleContact() {
		t.Error("second contact in the same tick must be ignored")
	}
	if r.p.State() != StateDead || r.p.Movement() != MoveIdle {
		t.Errorf("after crash: state %s movement %s", r.p.State(), r.p.Movement())
	}
	if r.count(EventCrashed) != 1 {
		t.Errorf("crashed %d times, expected 1", r.count(EventCrashed))
	}

	z := r.p.Position().Z
	r.steps(10)
	if r.p.Position().Z != z {
		t.Error("dead player kept moving")
	}

	p := &pickup{available: true}
	if r.p.OnPickupContact(p) || p.taken != 0 {
		t.Error("dead player collected a pickup")
	}
}

func TestPickupContact(t *testing.T) {
	r := newRig(t)
	p := &pickup{available: true}
	if !r.p.OnPickupContact(p) {
		t.Fatal("running player should collect")
	}
	if r.p.OnPickupContact(p) {
		t.Error("collected pickup should not be taken twice")
	}
	if p.taken != 1 {
		t.Errorf("taken %d times", p.taken)
	}
}

func TestCrashWhileSlidingRestoresIdle(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeDown: true})
	r.p.OnObstacleContact()
	if r.s.Pending(slideEndKind) {
		t.Error("crash should cancel the slide end")
	}
	if h := r.p.Hitbox(); h.Height != 2 {
		t.Errorf("hitbox height = %v after crash", h.Height)
	}
}

func TestTeleportAndIdle(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeLeft: true})
	r.steps(30)
	r.p.TeleportToStart()
	r.p.Idle()
	if r.p.Position() != (core.Vec3{}) || r.p.Lane() != 1 || r.p.Facing() != core.Forward {
		t.Errorf("pos %+v lane %d facing %+v", r.p.Position(), r.p.Lane(), r.p.Facing())
	}
	if r.p.State() != StateIdle {
		t.Errorf("state = %s", r.p.State())
	}
}

func TestFacingFollowsVelocity(t *testing.T) {
	r := newRig(t)
	r.step(core.Gestures{SwipeRight: true})
	if f := r.p.Facing(); f.X <= 0 {
		t.Errorf("facing %+v should turn toward the lane change", f)
	}
	if f := r.p.Facing(); math.Abs(f.Len()-1) > 1e-9 {
		t.Errorf("facing not normalised: %+v", f)
	}
	r.steps(120)
	if f := r.p.Facing(); f.X > 0.05 {
		t.Errorf("facing %+v should settle forward", f)
	}
}

type steppedGround struct{ from, height float64 }

func (g steppedGround) SurfaceHeight(x, z float64) float64 {
	if z >= g.from {
		return g.height
	}
	return 0
}

func (g steppedGround) Raycast(origin core.Vec3, length float64) bool {
	h := g.SurfaceHeight(origin.X, origin.Z)
	return origin.Y >= h && origin.Y-h <= length
}

func TestStepUpSmallLedge(t *testing.T) {
	r := newRig(t)
	r.p.SetGround(steppedGround{from: 1, height: 0.3})
	r.steps(30)
	if y := r.p.Position().Y; y != 0.3 {
		t.Errorf("y = %v, expected to step up to 0.3", y)
	}
	if !r.p.Grounded() {
		t.Error("player should be grounded on the ledge")
	}
}

func TestNoStepUpTallLedge(t *testing.T) {
	r := newRig(t)
	r.p.SetGround(steppedGround{from: 1, height: 2.5})
	r.steps(30)
	if y := r.p.Position().Y; y >= 2.5 {
		t.Errorf("y = %v, player climbed a wall", y)
	}
	r.steps(120)
	if y := r.p.Position().Y; y != 0 {
		t.Errorf("y = %v, player should stay on the base ground under a wall", y)
	}
}
