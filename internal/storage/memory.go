package storage

import (
	"cmp"
	"slices"
	"sync"

	"github.com/vovakirdan/pingu-runner/internal/profile"
)

// Memory is an in-process profile store for headless runs and tests.
// Setting Fail makes every save return it.
type Memory struct {
	mu     sync.Mutex
	data   profile.UserData
	skin   string
	claim  string
	streak int
	runs   []profile.RunRecord

	Fail error
}

var (
	_ profile.Store       = (*Memory)(nil)
	_ profile.RunRecorder = (*Memory)(nil)
	_ profile.ClaimStore  = (*Memory)(nil)
)

// NewMemory creates an empty store for the named user.
func NewMemory(username string) *Memory {
	return &Memory{data: profile.UserData{Username: username}}
}

func (m *Memory) LoadUserData() (profile.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *Memory) SaveUsername(name string) error {
	return m.save(func() { m.data.Username = name })
}

func (m *Memory) SaveHighscore(score int) error {
	return m.save(func() { m.data.Highscore = score })
}

func (m *Memory) SaveCoins(coins int) error {
	return m.save(func() { m.data.Coins = coins })
}

func (m *Memory) SaveSelectedSkin(id string) error {
	return m.save(func() { m.skin = id })
}

func (m *Memory) LoadSelectedSkinID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skin, nil
}

func (m *Memory) RecordRun(r profile.RunRecord) error {
	return m.save(func() { m.runs = append(m.runs, r) })
}

func (m *Memory) LoadLastClaim() (string, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claim, m.streak, nil
}

func (m *Memory) SaveLastClaim(day string, streak int) error {
	return m.save(func() { m.claim, m.streak = day, streak })
}

// TopRuns returns the best runs, highest score first.
func (m *Memory) TopRuns(limit int) []profile.RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := slices.Clone(m.runs)
	slices.SortStableFunc(runs, func(a, b profile.RunRecord) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}

func (m *Memory) save(apply func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	apply()
	return nil
}
