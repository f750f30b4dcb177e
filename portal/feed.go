package portal

// Feed is the ordered list of waves on screen. A bulk load replaces the
// whole list; live events are appended unless their key is already present.
type Feed struct {
	waves []Wave
	seen  map[string]struct{}
}

// Replace swaps in a freshly loaded history, keeping the contract's order
func (f *Feed) Replace(waves []Wave) {
	f.waves = make([]Wave, len(waves))
	copy(f.waves, waves)
	f.seen = make(map[string]struct{}, len(waves))
	for _, w := range waves {
		f.seen[w.Key()] = struct{}{}
	}
}

// Append adds w to the end of the feed. It reports false when w was already
// delivered, by a bulk load or an earlier event.
func (f *Feed) Append(w Wave) bool {
	if f.seen == nil {
		f.seen = make(map[string]struct{})
	}
	key := w.Key()
	if _, dup := f.seen[key]; dup {
		return false
	}
	f.seen[key] = struct{}{}
	f.waves = append(f.waves, w)
	return true
}

// Len returns the number of waves
func (f *Feed) Len() int { return len(f.waves) }

// At returns the i-th wave
func (f *Feed) At(i int) Wave { return f.waves[i] }

// Waves returns a copy of the waves in arrival order
func (f *Feed) Waves() []Wave {
	out := make([]Wave, len(f.waves))
	copy(out, f.waves)
	return out
}
