package level

import (
	"errors"
	"testing"

	"github.com/vovakirdan/pingu-runner/internal/config"
)

func testLevelConfig() config.LevelConfig {
	return config.DefaultRunnerConfig().Level
}

func newTestStreamer(t *testing.T, c *Catalog, lc config.LevelConfig, seed int64) *Streamer {
	t.Helper()
	s, err := NewStreamer(c, Options{Level: lc, LaneDistance: 3, Seed: seed})
	if err != nil {
		t.Fatalf("NewStreamer: %v", err)
	}
	return s
}

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := ParseCatalog(config.DefaultCatalogYAML())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

type placementRecord struct {
	id         int
	transition bool
}

// run advances a reference point through the track and records placements.
func run(t *testing.T, s *Streamer, ticks int, step float64) []placementRecord {
	t.Helper()
	var got []placementRecord
	s.OnPlacement(func(p Placement) {
		got = append(got, placementRecord{p.Segment.TemplateID, p.Segment.IsTransition})
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	z := 0.0
	for i := 0; i < ticks; i++ {
		z += step
		if err := s.Tick(z); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	return got
}

func TestStreamerAdjacency(t *testing.T) {
	s := newTestStreamer(t, defaultCatalog(t), testLevelConfig(), 42)
	count := 0
	s.OnPlacement(func(p Placement) {
		count++
		if !p.Segment.Begin.MatchesAny(p.PrevExit) {
			t.Errorf("placement %d: %s begins %s after exit %s",
				count, p.Segment.Name, p.Segment.Begin, p.PrevExit)
		}
	})
	run(t, s, 3000, 0.5)
	if count < 50 {
		t.Errorf("only %d placements, expected the stream to keep up", count)
	}
}

func TestStreamerWindowBound(t *testing.T) {
	lc := testLevelConfig()
	s := newTestStreamer(t, defaultCatalog(t), lc, 7)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	z := 0.0
	for i := 0; i < 2000; i++ {
		z += 1
		if err := s.Tick(z); err != nil {
			t.Fatal(err)
		}
		if n := s.ActiveCount(); n > lc.MaxSegmentsOnScreen {
			t.Fatalf("tick %d: %d active segments, bound is %d", i, n, lc.MaxSegmentsOnScreen)
		}
	}
	seen := map[*Segment]bool{}
	active := 0
	for _, seg := range s.RecycleList() {
		if seen[seg] {
			t.Fatal("segment listed twice in the recycle list")
		}
		seen[seg] = true
		if seg.Active() {
			active++
		}
	}
	if active != s.ActiveCount() {
		t.Errorf("recycle list has %d active segments, streamer reports %d", active, s.ActiveCount())
	}
}

func TestStreamerDespawnsOldestFirst(t *testing.T) {
	lc := testLevelConfig()
	lc.MaxSegmentsOnScreen = 4
	lc.InitialSegments = 3
	lc.InitialTransitionSegments = 0
	s := newTestStreamer(t, defaultCatalog(t), lc, 3)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		before := append([]*Segment(nil), s.Active()...)
		if err := s.Tick(s.Frontier()); err != nil {
			t.Fatal(err)
		}
		after := s.Active()
		if len(before) >= lc.MaxSegmentsOnScreen-1 && len(after) == len(before) {
			if after[0] != before[1] {
				t.Fatalf("tick %d: head after despawn is not the second-oldest segment", i)
			}
			if before[0].Active() {
				t.Fatalf("tick %d: oldest segment still active", i)
			}
		}
		for j := 1; j < len(after); j++ {
			if after[j].Z < after[j-1].Z {
				t.Fatalf("tick %d: active list out of placement order", i)
			}
		}
	}
}

func TestStreamerDeterministic(t *testing.T) {
	a := run(t, newTestStreamer(t, defaultCatalog(t), testLevelConfig(), 99), 1500, 0.7)
	b := run(t, newTestStreamer(t, defaultCatalog(t), testLevelConfig(), 99), 1500, 0.7)
	if len(a) != len(b) {
		t.Fatalf("placement count %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := run(t, newTestStreamer(t, defaultCatalog(t), testLevelConfig(), 100), 1500, 0.7)
	same := len(a) == len(c)
	for i := 0; same && i < len(a); i++ {
		same = a[i] == c[i]
	}
	if same {
		t.Error("different seeds produced identical layouts")
	}
}

func TestStreamerStrictAlternation(t *testing.T) {
	c := mustParse(t, `
start: [0, 0, 0]
segments:
  - { name: a, length: 10, begin: [0, 0, 0], end: [1, 1, 1] }
  - { name: b, length: 10, begin: [1, 1, 1], end: [0, 0, 0] }
`)
	lc := testLevelConfig()
	lc.InitialTransitionSegments = 0
	got := run(t, newTestStreamer(t, c, lc, 1), 500, 1)
	if len(got) < 20 {
		t.Fatalf("only %d placements", len(got))
	}
	for i, p := range got {
		if p.transition {
			t.Fatalf("placement %d is a transition with an empty transition catalog", i)
		}
		if want := i % 2; p.id != want {
			t.Fatalf("placement %d is template %d, expected %d", i, p.id, want)
		}
	}
}

func TestStreamerOrMatchedPairNeverFails(t *testing.T) {
	// Both templates connect to either exit key on some lane.
	c := mustParse(t, `
start: [0, 0, 0]
segments:
  - { name: a, length: 10, begin: [0, 0, 0], end: [1, 0, 0] }
  - { name: b, length: 10, begin: [1, 0, 0], end: [0, 0, 0] }
`)
	s := newTestStreamer(t, c, testLevelConfig(), 5)
	s.OnPlacement(func(p Placement) {
		if !p.Segment.Begin.MatchesAny(p.PrevExit) {
			t.Errorf("%s placed after %s", p.Segment.Name, p.PrevExit)
		}
	})
	run(t, s, 500, 1)
}

func TestStreamerInitialTransitions(t *testing.T) {
	lc := testLevelConfig()
	got := run(t, newTestStreamer(t, defaultCatalog(t), lc, 11), 0, 0)
	if len(got) != lc.InitialSegments {
		t.Fatalf("placed %d initial segments, expected %d", len(got), lc.InitialSegments)
	}
	for i := 0; i < lc.InitialTransitionSegments; i++ {
		if !got[i].transition {
			t.Errorf("initial placement %d should be a transition", i)
		}
	}
}

func TestStreamerTransitionsFollowRoll(t *testing.T) {
	lc := testLevelConfig()
	lc.InitialTransitionSegments = 0
	got := run(t, newTestStreamer(t, defaultCatalog(t), lc, 21), 3000, 0.5)

	sawTransition := false
	for i, p := range got {
		if !p.transition {
			continue
		}
		sawTransition = true
		if i == 0 {
			t.Fatal("first placement cannot be a rolled transition")
		}
		if got[i-1].transition {
			t.Fatalf("placements %d and %d are both transitions", i-1, i)
		}
	}
	if !sawTransition {
		t.Error("rising transition chance never produced a transition")
	}
}

func TestStreamerEmptyTransitionCatalog(t *testing.T) {
	c := mustParse(t, `
start: [0, 0, 0]
segments:
  - { name: only, length: 10, begin: [0, 0, 0], end: [0, 0, 0] }
`)
	got := run(t, newTestStreamer(t, c, testLevelConfig(), 2), 400, 1)
	for i, p := range got {
		if p.transition {
			t.Fatalf("placement %d is a transition", i)
		}
	}
}

func TestStreamerRejectsDeadEndCatalog(t *testing.T) {
	c := mustParse(t, `
start: [0, 0, 0]
segments:
  - { name: a, length: 10, begin: [1, 1, 1], end: [0, 0, 0] }
`)
	_, err := NewStreamer(c, Options{Level: testLevelConfig(), LaneDistance: 3})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestStreamerRecyclesSegments(t *testing.T) {
	c := mustParse(t, `
start: [0, 0, 0]
segments:
  - { name: only, length: 10, begin: [0, 0, 0], end: [0, 0, 0] }
`)
	lc := testLevelConfig()
	lc.MaxSegmentsOnScreen = 3
	lc.InitialSegments = 2
	lc.InitialTransitionSegments = 0
	s := newTestStreamer(t, c, lc, 1)

	reused := 0
	s.OnPlacement(func(p Placement) {
		if p.Reused {
			reused++
			if s.RecycleList()[0] != p.Segment {
				t.Error("reused segment should move to the front of the recycle list")
			}
		}
	})
	run(t, s, 200, 2)

	if n := len(s.RecycleList()); n != lc.MaxSegmentsOnScreen {
		t.Errorf("built %d segments, expected %d", n, lc.MaxSegmentsOnScreen)
	}
	if reused == 0 {
		t.Error("no segment was reused")
	}
}

func TestStreamerReset(t *testing.T) {
	lc := testLevelConfig()
	s := newTestStreamer(t, defaultCatalog(t), lc, 8)
	first := run(t, s, 400, 1)

	var second []placementRecord
	s.OnPlacement(func(p Placement) {
		second = append(second, placementRecord{p.Segment.TemplateID, p.Segment.IsTransition})
	})
	if err := s.Reset(8); err != nil {
		t.Fatal(err)
	}
	if s.Frontier() == 0 || s.ActiveCount() != lc.InitialSegments {
		t.Errorf("after reset: frontier %v, %d active", s.Frontier(), s.ActiveCount())
	}
	for i := range second {
		if second[i] != first[i] {
			t.Fatalf("reset with the same seed diverged at placement %d", i)
		}
	}
	if s.Pool().ActiveCount() == 0 {
		t.Error("reset should place obstacles again")
	}

	fresh := newTestStreamer(t, defaultCatalog(t), lc, 8)
	if err := fresh.Start(); err != nil {
		t.Fatal(err)
	}
	if got, want := s.Pool().ActiveCount(), fresh.Pool().ActiveCount(); got != want {
		t.Errorf("active obstacles after reset = %d, expected %d as on a fresh start", got, want)
	}
}
