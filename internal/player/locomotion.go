// Package player implements the runner's locomotion state machine:
// lane changes, jumping, sliding, ground sensing and crash handling.
package player

import (
	"math"

	"github.com/vovakirdan/pingu-runner/internal/config"
	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/sched"
)

const slideEndKind = "player:slide-end"

// Ground is the world geometry the player senses and stands on.
type Ground interface {
	SurfaceHeight(x, z float64) float64
	Raycast(origin core.Vec3, length float64) bool
}

// FlatGround is an endless plane at height zero.
type FlatGround struct{}

func (FlatGround) SurfaceHeight(x, z float64) float64 { return 0 }

func (FlatGround) Raycast(origin core.Vec3, length float64) bool {
	return origin.Y >= 0 && origin.Y <= length
}

// Pickup is a collectible the player can touch.
type Pickup interface {
	CanPickUp() bool
	PickUp()
}

// State is the coarse lifecycle of the player.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Movement is the locomotion sub-state while the player is alive.
type Movement int

const (
	MoveIdle Movement = iota
	MoveRunning
	MoveSliding
	MoveAirborne
)

func (m Movement) String() string {
	switch m {
	case MoveIdle:
		return "idle"
	case MoveRunning:
		return "running"
	case MoveSliding:
		return "sliding"
	case MoveAirborne:
		return "airborne"
	default:
		return "unknown"
	}
}

// Hitbox is the vertical profile of the player's collision volume.
type Hitbox struct {
	Height  float64
	CenterY float64
}

// Locomotion moves the player along the track.
type Locomotion struct {
	cfg    config.PlayerConfig
	sched  *sched.Scheduler
	ground Ground

	state       State
	movement    Movement
	lane        int
	grounded    bool
	wasGrounded bool
	vy          float64
	speed       float64
	pos         core.Vec3
	velocity    core.Vec3
	facing      core.Vec3
	hitbox      Hitbox

	events core.Observers[Event]
}

// New creates an idle player at the track origin.
func New(cfg config.PlayerConfig, s *sched.Scheduler, ground Ground) *Locomotion {
	if ground == nil {
		ground = FlatGround{}
	}
	l := &Locomotion{cfg: cfg, sched: s, ground: ground}
	l.TeleportToStart()
	l.Idle()
	return l
}

// Subscribe registers an event observer.
func (l *Locomotion) Subscribe(fn func(Event)) {
	l.events.Subscribe(fn)
}

// SetGround swaps the geometry the player senses.
func (l *Locomotion) SetGround(g Ground) {
	l.ground = g
}

// Idle stops the player on the centre lane, grounded, with a standing hitbox.
func (l *Locomotion) Idle() {
	l.sched.Cancel(slideEndKind)
	l.state = StateIdle
	l.movement = MoveIdle
	l.lane = 1
	l.grounded = true
	l.wasGrounded = true
	l.vy = 0
	l.velocity = core.Vec3{}
	l.regularHitbox()
}

// Run starts running.
func (l *Locomotion) Run() {
	l.state = StateRunning
	l.movement = MoveRunning
}

// Die stops the player. Contacts are ignored until the next Run.
func (l *Locomotion) Die() {
	l.Idle()
	l.state = StateDead
}

// TeleportToStart moves the player back to the origin facing down the track.
func (l *Locomotion) TeleportToStart() {
	l.pos = core.Vec3{}
	l.facing = core.Forward
	l.velocity = core.Vec3{}
}

// Tick advances locomotion by dt seconds. modifier scales the base speed.
func (l *Locomotion) Tick(dt float64, g core.Gestures, modifier float64) {
	if l.state != StateRunning || l.movement == MoveIdle {
		return
	}
	l.speed = l.cfg.BaseSpeed * modifier

	if g.SwipeLeft {
		l.changeLane(-1)
	} else if g.SwipeRight {
		l.changeLane(1)
	}

	if !l.wasGrounded && l.grounded {
		l.land()
	}

	if l.grounded {
		if g.SwipeUp {
			if l.movement == MoveSliding {
				l.cancelSlide()
			}
			l.jump()
		} else if g.SwipeDown && l.movement != MoveSliding {
			l.startSlide()
		}
	} else if g.SwipeDown {
		l.fastFall()
	}

	l.move(dt)

	l.wasGrounded = l.grounded
	l.grounded = l.senseGround()

	l.updateFacing()
}

func (l *Locomotion) changeLane(dir int) {
	next := l.lane + dir
	if next < 0 || next > 2 {
		return
	}
	l.lane = next
	l.events.Emit(Event{Kind: EventLaneChanged, Lane: next})
}

func (l *Locomotion) land() {
	if l.movement == MoveAirborne {
		l.movement = MoveRunning
	}
	l.events.Emit(Event{Kind: EventLanded, Movement: l.movement})
}

func (l *Locomotion) jump() {
	l.grounded = false
	l.vy = l.cfg.JumpForce
	l.movement = MoveAirborne
	l.events.Emit(Event{Kind: EventJumped})
}

func (l *Locomotion) fastFall() {
	l.vy = -l.cfg.JumpForce
	l.events.Emit(Event{Kind: EventFastFall})
}

func (l *Locomotion) startSlide() {
	l.movement = MoveSliding
	l.slidingHitbox()
	l.sched.Schedule(slideEndKind, l.cfg.SlideDuration, l.stopSliding)
	l.events.Emit(Event{Kind: EventSlideStarted})
}

func (l *Locomotion) cancelSlide() {
	l.sched.Cancel(slideEndKind)
	l.stopSliding()
}

func (l *Locomotion) stopSliding() {
	l.regularHitbox()
	if l.state != StateRunning || l.movement != MoveSliding {
		return
	}
	if l.grounded {
		l.movement = MoveRunning
	} else {
		l.movement = MoveAirborne
	}
	l.events.Emit(Event{Kind: EventSlideEnded, Movement: l.movement})
}

func (l *Locomotion) move(dt float64) {
	if dt <= 0 {
		return
	}

	if l.grounded {
		l.vy = l.cfg.GroundedVelocity
	} else {
		l.vy -= l.cfg.Gravity * dt
	}
	next := l.pos.Add(core.V3(0, l.vy, l.speed).Scale(dt))

	// Lateral: head for the lane centre, arriving exactly instead of overshooting.
	laneX := l.LaneX()
	dx := laneX - l.pos.X
	if math.Abs(dx) <= l.speed*dt {
		next.X = laneX
	} else {
		next.X += core.Sign(dx) * l.speed * dt
	}

	surface := l.ground.SurfaceHeight(next.X, next.Z)
	switch {
	case next.Y < surface && surface-next.Y <= l.cfg.StepHeight:
		// Step onto surfaces no higher than StepHeight above the feet.
		next.Y = surface
	case l.grounded && next.Y > surface && next.Y-surface <= l.cfg.GroundRayThreshold:
		// Stick to the ground while it stays within sensing range.
		next.Y = surface
	}
	if next.Y < 0 {
		// The base ground plane holds wherever no obstacle does.
		next.Y = 0
	}

	l.velocity = next.Sub(l.pos).Scale(1 / dt)
	l.pos = next
}

// senseGround casts the ground ray. Contacts while ascending are ignored so a
// jump is not cancelled on the tick it starts.
func (l *Locomotion) senseGround() bool {
	if l.vy > 0 {
		return false
	}
	origin := l.pos.Add(core.V3(0, l.cfg.GroundRayOffset, 0))
	return l.ground.Raycast(origin, l.cfg.GroundRayOffset+l.cfg.GroundRayThreshold)
}

func (l *Locomotion) updateFacing() {
	dir := l.velocity.Flat()
	if dir.IsZero() {
		return
	}
	f := core.Lerp(l.facing, dir.Normalized(), l.cfg.FacingBlend)
	if !f.IsZero() {
		l.facing = f.Normalized()
	}
}

func (l *Locomotion) regularHitbox() {
	l.hitbox = Hitbox{Height: l.cfg.HitboxHeight, CenterY: l.cfg.HitboxCenterY}
}

func (l *Locomotion) slidingHitbox() {
	m := l.cfg.SlideHitboxMultiplier
	l.hitbox = Hitbox{Height: l.cfg.HitboxHeight * m, CenterY: l.cfg.HitboxCenterY * m}
}

// OnObstacleContact crashes the player. It returns true only for the contact
// that caused the crash; later contacts are ignored.
func (l *Locomotion) OnObstacleContact() bool {
	if l.movement == MoveIdle {
		return false
	}
	l.Die()
	l.events.Emit(Event{Kind: EventCrashed})
	return true
}

// OnPickupContact collects p if the player is moving and p is collectible.
func (l *Locomotion) OnPickupContact(p Pickup) bool {
	if l.movement == MoveIdle || !p.CanPickUp() {
		return false
	}
	p.PickUp()
	return true
}

// Box returns the world-space collision volume.
func (l *Locomotion) Box() core.Box {
	base := l.pos.Add(core.V3(0, l.hitbox.CenterY-l.hitbox.Height/2, 0))
	return core.BoxAt(base, l.cfg.HitboxWidth, l.hitbox.Height, l.cfg.HitboxDepth)
}

// LaneX returns the lateral target of the current lane.
func (l *Locomotion) LaneX() float64 {
	return float64(l.lane-1) * l.cfg.LaneDistance
}

func (l *Locomotion) State() State           { return l.state }
func (l *Locomotion) Movement() Movement     { return l.movement }
func (l *Locomotion) Lane() int              { return l.lane }
func (l *Locomotion) Grounded() bool         { return l.grounded }
func (l *Locomotion) Position() core.Vec3    { return l.pos }
func (l *Locomotion) Velocity() core.Vec3    { return l.velocity }
func (l *Locomotion) Facing() core.Vec3      { return l.facing }
func (l *Locomotion) Hitbox() Hitbox         { return l.hitbox }
func (l *Locomotion) Speed() float64         { return l.speed }
func (l *Locomotion) VerticalSpeed() float64 { return l.vy }
