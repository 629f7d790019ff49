package core

import "testing"

func TestObserversEmitInOrder(t *testing.T) {
	var obs Observers[int]
	var got []int

	obs.Subscribe(func(e int) { got = append(got, e*10) })
	obs.Subscribe(nil)
	obs.Subscribe(func(e int) { got = append(got, e*100) })

	obs.Emit(2)

	if obs.Len() != 2 {
		t.Errorf("Len() = %d, expected 2 (nil ignored)", obs.Len())
	}
	if len(got) != 2 || got[0] != 20 || got[1] != 200 {
		t.Errorf("handlers called out of order: %v", got)
	}
}
