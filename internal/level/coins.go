package level

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/sched"
)

// Coin pickup volume, a cube centred on the coin.
const coinSize = 0.6

// CoinSink receives the value of collected coins.
type CoinSink interface {
	AddCoins(n int)
}

// Pickups carries what a coin needs when it is collected.
type Pickups struct {
	Sched     *sched.Scheduler
	Sink      CoinSink
	HideDelay float64 // seconds a collected coin stays visible
	Value     int
}

// Coin is one collectible slot of a coin spawner.
type Coin struct {
	id        int
	Pos       core.Vec3
	active    bool
	canPickUp bool
	pickups   *Pickups
}

func (c *Coin) hideKind() string {
	return fmt.Sprintf("coin-hide:%d", c.id)
}

// ID is stable for the lifetime of the streamer.
func (c *Coin) ID() int { return c.id }

// Active reports whether the coin is visible.
func (c *Coin) Active() bool { return c.active }

// Box returns the pickup volume.
func (c *Coin) Box() core.Box {
	return core.BoxAt(c.Pos.Sub(core.V3(0, coinSize/2, 0)), coinSize, coinSize, coinSize)
}

// CanPickUp reports whether the coin is visible and not yet collected.
func (c *Coin) CanPickUp() bool {
	return c.active && c.canPickUp
}

// PickUp awards the coin and hides it after the configured delay.
func (c *Coin) PickUp() {
	if !c.CanPickUp() {
		return
	}
	c.canPickUp = false
	p := c.pickups
	if p == nil {
		c.active = false
		return
	}
	if p.Sink != nil {
		p.Sink.AddCoins(p.Value)
	}
	if p.Sched == nil || p.HideDelay <= 0 {
		c.active = false
		return
	}
	p.Sched.Schedule(c.hideKind(), p.HideDelay, func() { c.active = false })
}

func (c *Coin) show() {
	c.cancelHide()
	c.active = true
	c.canPickUp = true
}

func (c *Coin) hide() {
	c.cancelHide()
	c.active = false
	c.canPickUp = false
}

func (c *Coin) cancelHide() {
	if c.pickups != nil && c.pickups.Sched != nil {
		c.pickups.Sched.Cancel(c.hideKind())
	}
}

// CoinSpawner owns a fixed row of coin slots inside a segment.
type CoinSpawner struct {
	placement CoinPlacement
	coins     []*Coin
}

func newCoinSpawner(p CoinPlacement, origin core.Vec3, ids *int, pickups *Pickups) *CoinSpawner {
	s := &CoinSpawner{placement: p}
	for i := 0; i < p.Slots; i++ {
		*ids++
		s.coins = append(s.coins, &Coin{
			id:      *ids,
			Pos:     origin.Add(core.V3(0, 0, float64(i)*p.Spacing)),
			pickups: pickups,
		})
	}
	return s
}

// Coins returns the spawner's slots, active or not.
func (s *CoinSpawner) Coins() []*Coin {
	return s.coins
}

// Spawn rolls ChanceToSpawn; on success it shows either MaxCoin coins
// (ForceSpawnAll) or a random count in [1, MaxCoin), clamped to the slots.
// It returns the number of coins shown.
func (s *CoinSpawner) Spawn(rng *rand.Rand) int {
	for _, c := range s.coins {
		c.hide()
	}
	if len(s.coins) == 0 || rng.Float64() >= s.placement.ChanceToSpawn {
		return 0
	}

	count := s.placement.MaxCoin
	if !s.placement.ForceSpawnAll {
		count = 1
		if s.placement.MaxCoin > 1 {
			count = 1 + rng.Intn(s.placement.MaxCoin-1)
		}
	}
	count = max(0, min(count, len(s.coins)))
	for _, c := range s.coins[:count] {
		c.show()
	}
	return count
}

// Despawn hides every slot and drops pending hide actions.
func (s *CoinSpawner) Despawn() {
	for _, c := range s.coins {
		c.hide()
	}
}
