package game

import (
	"testing"

	"github.com/vovakirdan/pingu-runner/internal/player"
	"github.com/vovakirdan/pingu-runner/internal/session"
)

const barCatalog = `
start: [0, 0, 0]
obstacles:
  slide: { variants: 1, length: 1, height: 1.8, elevation: 1.2 }
segments:
  - name: bars
    length: 20
    begin: [0, 0, 0]
    end: [0, 0, 0]
    obstacles:
      - { type: slide, lane: 0, z: 10 }
      - { type: slide, lane: 1, z: 10 }
      - { type: slide, lane: 2, z: 10 }
`

const blockCatalog = `
start: [0, 0, 0]
obstacles:
  longblock: { variants: 1, length: 8, height: 2.5 }
segments:
  - name: block
    length: 30
    begin: [0, 0, 0]
    end: [0, 0, 0]
    obstacles:
      - { type: longblock, lane: 1, z: 10 }
`

func TestAutopilot(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		want    player.EventKind
	}{
		{"jumps barriers", wallCatalog, player.EventJumped},
		{"slides under bars", barCatalog, player.EventSlideStarted},
		{"dodges blocks", blockCatalog, player.EventLaneChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(t, 9, mustCatalog(t, tt.catalog))
			e.session.LeaveMainMenu()

			seen := false
			e.Player().Subscribe(func(ev player.Event) {
				if ev.Kind == tt.want {
					seen = true
				}
			})

			var pilot Autopilot
			for i := 0; i < 60*2; i++ {
				if err := e.Tick(dt, pilot.Decide(e)); err != nil {
					t.Fatal(err)
				}
			}
			if e.Session().State() != session.StatePlaying {
				t.Errorf("autopilot crashed at z=%v", e.Player().Position().Z)
			}
			if !seen {
				t.Errorf("expected a %v event", tt.want)
			}
		})
	}
}

func TestAutopilotTapsFromIdle(t *testing.T) {
	e, _ := newEngine(t, 9, nil)
	var pilot Autopilot
	if g := pilot.Decide(e); g.Any() {
		t.Errorf("no gestures expected in the main menu, got %v", g)
	}
	e.session.LeaveMainMenu()
	if g := pilot.Decide(e); !g.Tap {
		t.Errorf("expected a tap in idle, got %v", g)
	}
}
