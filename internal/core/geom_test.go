package core

import (
	"math"
	"testing"
)

func TestBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{
			name:     "overlapping boxes",
			a:        BoxAt(V3(0, 0, 0), 1, 2, 1),
			b:        BoxAt(V3(0.5, 1, 0.5), 1, 2, 1),
			expected: true,
		},
		{
			name:     "different lanes",
			a:        BoxAt(V3(0, 0, 0), 1, 2, 1),
			b:        BoxAt(V3(3, 0, 0), 1, 2, 1),
			expected: false,
		},
		{
			name:     "standing on top (touching faces)",
			a:        BoxAt(V3(0, 1, 0), 1, 2, 1),
			b:        BoxAt(V3(0, 0, 0), 1, 1, 1),
			expected: false,
		},
		{
			name:     "sliding under a barrier",
			a:        BoxAt(V3(0, 0, 0), 1, 1, 1),
			b:        BoxAt(V3(0, 1, 0), 1, 2, 1),
			expected: false,
		},
		{
			name:     "ahead on the track",
			a:        BoxAt(V3(0, 0, 0), 1, 2, 1),
			b:        BoxAt(V3(0, 0, 5), 1, 2, 1),
			expected: false,
		},
		{
			name:     "contained",
			a:        BoxAt(V3(0, 0, 0), 4, 4, 4),
			b:        BoxAt(V3(0, 1, 0), 1, 1, 1),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	v := V3(3, 0, 4).Normalized()
	if math.Abs(v.Len()-1) > 1e-9 {
		t.Errorf("Normalized length = %f, expected 1", v.Len())
	}
	if math.Abs(v.X-0.6) > 1e-9 || math.Abs(v.Z-0.8) > 1e-9 {
		t.Errorf("Normalized = %+v, expected (0.6, 0, 0.8)", v)
	}

	zero := Vec3{}.Normalized()
	if !zero.IsZero() {
		t.Errorf("Normalized zero vector = %+v, expected zero", zero)
	}
}

func TestLerp(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(10, 20, 30)

	mid := Lerp(a, b, 0.5)
	if mid != V3(5, 10, 15) {
		t.Errorf("Lerp(0.5) = %+v", mid)
	}
	if Lerp(a, b, 0) != a {
		t.Error("Lerp(0) should return a")
	}
	if Lerp(a, b, 1) != b {
		t.Error("Lerp(1) should return b")
	}
}

func TestFlat(t *testing.T) {
	if got := V3(1, 2, 3).Flat(); got != V3(1, 0, 3) {
		t.Errorf("Flat() = %+v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{1, 0, 2, 1},  // within range
		{-1, 0, 2, 0}, // below min
		{3, 0, 2, 2},  // above max
		{0, 0, 2, 0},  // at min
		{2, 0, 2, 2},  // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestSign(t *testing.T) {
	if Sign(-2) != -1 || Sign(0) != 0 || Sign(0.1) != 1 {
		t.Error("Sign returned unexpected values")
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}
