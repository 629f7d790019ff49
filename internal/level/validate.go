package level

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a catalog that cannot stream forever.
type ConfigurationError struct {
	Code    string
	Key     Key
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("level: %s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is(err, ErrNoMatchingSegment) see dead-end keys.
func (e *ConfigurationError) Unwrap() error {
	if e.Code == "dead_end" || e.Code == "dead_end_transition" {
		return ErrNoMatchingSegment
	}
	return nil
}

// Validate checks template geometry and walks every exit key reachable from
// the start key, requiring at least one regular segment (and, when the
// transition catalog is non-empty, one transition) to continue from it.
// All problems are reported together.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Segments) == 0 {
		errs = append(errs, &ConfigurationError{Code: "empty", Message: "catalog has no regular segments"})
	}
	for _, list := range [][]Template{c.Segments, c.Transitions} {
		for _, t := range list {
			errs = append(errs, c.validateTemplate(t)...)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	seen := map[Key]bool{c.Start: true}
	frontier := []Key{c.Start}
	for len(frontier) > 0 {
		key := frontier[0]
		frontier = frontier[1:]

		next := c.Matching(key, false)
		if len(next) == 0 {
			errs = append(errs, &ConfigurationError{
				Code:    "dead_end",
				Key:     key,
				Message: fmt.Sprintf("no segment begins with a key matching %s", key),
			})
		}
		if len(c.Transitions) > 0 {
			tr := c.Matching(key, true)
			if len(tr) == 0 {
				errs = append(errs, &ConfigurationError{
					Code:    "dead_end_transition",
					Key:     key,
					Message: fmt.Sprintf("no transition begins with a key matching %s", key),
				})
			}
			next = append(next, tr...)
		}
		for _, t := range next {
			if !seen[t.End] {
				seen[t.End] = true
				frontier = append(frontier, t.End)
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ReachableKeys lists every exit key the stream can arrive at, start included.
func (c *Catalog) ReachableKeys() []Key {
	seen := map[Key]bool{c.Start: true}
	out := []Key{c.Start}
	for i := 0; i < len(out); i++ {
		next := append(c.Matching(out[i], false), c.Matching(out[i], true)...)
		for _, t := range next {
			if !seen[t.End] {
				seen[t.End] = true
				out = append(out, t.End)
			}
		}
	}
	return out
}

func (c *Catalog) validateTemplate(t Template) []error {
	kind := "segment"
	if t.IsTransition {
		kind = "transition"
	}
	name := fmt.Sprintf("%s %d (%s)", kind, t.ID, t.Name)

	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, &ConfigurationError{
			Code:    "invalid_template",
			Key:     t.Begin,
			Message: name + ": " + fmt.Sprintf(format, args...),
		})
	}

	if t.Length <= 0 {
		bad("length must be positive, got %d", t.Length)
	}
	for _, o := range t.Obstacles {
		if o.Lane < 0 || o.Lane >= Lanes {
			bad("obstacle lane %d out of range", o.Lane)
		}
		if o.Z < 0 || o.Z >= float64(t.Length) {
			bad("obstacle z %.2f outside segment", o.Z)
		}
		spec, ok := c.Obstacles[o.Type]
		if !ok || spec.Variants < 1 {
			bad("obstacle type %s has no variants", o.Type)
		} else if spec.Length <= 0 || spec.Height <= 0 {
			bad("obstacle type %s has empty geometry", o.Type)
		}
	}
	for _, cp := range t.Coins {
		if cp.Lane < 0 || cp.Lane >= Lanes {
			bad("coin lane %d out of range", cp.Lane)
		}
		if cp.Slots < 1 {
			bad("coin spawner needs at least one slot")
		}
		if cp.ChanceToSpawn < 0 || cp.ChanceToSpawn > 1 {
			bad("coin chance %.2f outside [0, 1]", cp.ChanceToSpawn)
		}
	}
	return errs
}
