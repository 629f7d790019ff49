// Package profile holds the persistent player profile: name, best score,
// coin balance, selected skin and daily reward progress.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/pingu-runner/internal/config"
)

// UserData is the persisted profile summary.
type UserData struct {
	Username  string
	Highscore int
	Coins     int
}

// Store persists profile data.
type Store interface {
	LoadUserData() (UserData, error)
	SaveUsername(name string) error
	SaveHighscore(score int) error
	SaveCoins(coins int) error
	SaveSelectedSkin(id string) error
	LoadSelectedSkinID() (string, error)
}

// RunRecord describes one finished run.
type RunRecord struct {
	ID         string
	Username   string
	Score      int
	Coins      int
	Difficulty float64 // modifier reached at the end of the run
	Duration   float64 // seconds of play
	Seed       int64
	EndedAt    time.Time
}

// RunRecorder is implemented by stores that keep a run history.
type RunRecorder interface {
	RecordRun(r RunRecord) error
}

// ClaimStore is implemented by stores that remember daily reward claims.
type ClaimStore interface {
	LoadLastClaim() (day string, streak int, err error)
	SaveLastClaim(day string, streak int) error
}

// ErrAlreadyClaimed is returned when today's reward was already collected.
var ErrAlreadyClaimed = errors.New("daily reward already claimed today")

// ErrUnknownSkin is returned when selecting a skin that is not configured.
var ErrUnknownSkin = errors.New("unknown skin")

// Profile is the in-memory view of a player's persisted data.
type Profile struct {
	store   Store
	skins   []config.SkinConfig
	rewards []int

	data UserData
	skin int
}

// Load reads the profile from store. A skin id that no longer exists falls
// back to the first configured skin.
func Load(store Store, cfg config.ProfileConfig) (*Profile, error) {
	data, err := store.LoadUserData()
	if err != nil {
		return nil, fmt.Errorf("profile: load user data: %w", err)
	}
	p := &Profile{store: store, skins: cfg.Skins, rewards: cfg.DailyRewards, data: data}

	id, err := store.LoadSelectedSkinID()
	if err != nil {
		return nil, fmt.Errorf("profile: load skin: %w", err)
	}
	for i, s := range p.skins {
		if s.ID == id {
			p.skin = i
		}
	}
	return p, nil
}

func (p *Profile) Username() string { return p.data.Username }
func (p *Profile) Highscore() int   { return p.data.Highscore }
func (p *Profile) Coins() int       { return p.data.Coins }
func (p *Profile) Data() UserData   { return p.data }

// SetUsername persists a new display name.
func (p *Profile) SetUsername(name string) error {
	if name == "" {
		return errors.New("profile: username cannot be empty")
	}
	p.data.Username = name
	return p.store.SaveUsername(name)
}

// RecordRun folds a finished run into the profile. The highscore is raised
// if beaten and the run's coins are added to the balance. The run is stored
// in the history when the store keeps one. The in-memory profile is updated
// even if persisting fails.
func (p *Profile) RecordRun(r RunRecord) (newHighscore bool, err error) {
	var errs []error

	if r.Score > p.data.Highscore {
		newHighscore = true
		p.data.Highscore = r.Score
		if err := p.store.SaveHighscore(r.Score); err != nil {
			errs = append(errs, fmt.Errorf("save highscore: %w", err))
		}
	}
	if r.Coins > 0 {
		p.data.Coins += r.Coins
		if err := p.store.SaveCoins(p.data.Coins); err != nil {
			errs = append(errs, fmt.Errorf("save coins: %w", err))
		}
	}
	if rec, ok := p.store.(RunRecorder); ok {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Username == "" {
			r.Username = p.data.Username
		}
		if r.EndedAt.IsZero() {
			r.EndedAt = time.Now()
		}
		if err := rec.RecordRun(r); err != nil {
			errs = append(errs, fmt.Errorf("record run: %w", err))
		}
	}

	if len(errs) > 0 {
		return newHighscore, fmt.Errorf("profile: %w", errors.Join(errs...))
	}
	return newHighscore, nil
}

// Skin returns the selected skin.
func (p *Profile) Skin() config.SkinConfig {
	if len(p.skins) == 0 {
		return config.SkinConfig{}
	}
	return p.skins[p.skin]
}

// Skins returns every configured skin.
func (p *Profile) Skins() []config.SkinConfig {
	return p.skins
}

// NextSkin cycles forward through the skins and persists the choice.
func (p *Profile) NextSkin() error {
	return p.cycleSkin(1)
}

// PreviousSkin cycles backward through the skins and persists the choice.
func (p *Profile) PreviousSkin() error {
	return p.cycleSkin(-1)
}

func (p *Profile) cycleSkin(dir int) error {
	if len(p.skins) == 0 {
		return ErrUnknownSkin
	}
	p.skin = (p.skin + dir + len(p.skins)) % len(p.skins)
	return p.store.SaveSelectedSkin(p.skins[p.skin].ID)
}

// SelectSkin selects a skin by id and persists the choice.
func (p *Profile) SelectSkin(id string) error {
	for i, s := range p.skins {
		if s.ID == id {
			p.skin = i
			return p.store.SaveSelectedSkin(id)
		}
	}
	return fmt.Errorf("profile: %w: %q", ErrUnknownSkin, id)
}

// ClaimDailyReward grants the reward for the current streak day, once per
// calendar day of now. Consecutive days advance the streak; a missed day
// restarts it. Stores without claim tracking allow every claim.
func (p *Profile) ClaimDailyReward(now time.Time) (int, error) {
	if len(p.rewards) == 0 {
		return 0, nil
	}

	today := now.Format(time.DateOnly)
	streak := 0
	cs, tracked := p.store.(ClaimStore)
	if tracked {
		last, prev, err := cs.LoadLastClaim()
		if err != nil {
			return 0, fmt.Errorf("profile: load claim: %w", err)
		}
		switch last {
		case today:
			return 0, ErrAlreadyClaimed
		case now.AddDate(0, 0, -1).Format(time.DateOnly):
			streak = prev
		}
	}

	reward := p.rewards[streak%len(p.rewards)]
	p.data.Coins += reward
	if err := p.store.SaveCoins(p.data.Coins); err != nil {
		return reward, fmt.Errorf("profile: save coins: %w", err)
	}
	if tracked {
		if err := cs.SaveLastClaim(today, streak+1); err != nil {
			return reward, fmt.Errorf("profile: save claim: %w", err)
		}
	}
	return reward, nil
}
