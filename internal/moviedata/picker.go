package moviedata

import "math/rand/v2"

// Picker chooses movies uniformly at random.
type Picker struct {
	rng *rand.Rand
}

// NewPicker returns a picker drawing from rng. A nil rng uses a randomly
// seeded generator.
func NewPicker(rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Picker{rng: rng}
}

// NewSeededPicker returns a deterministic picker.
func NewSeededPicker(seed uint64) *Picker {
	return NewPicker(rand.New(rand.NewPCG(seed, seed)))
}

// Pick returns one eligible movie from src.
func (p *Picker) Pick(src Source) (Movie, error) {
	eligible := src.Eligible()
	if len(eligible) == 0 {
		return Movie{}, ErrNoEligibleMovies
	}
	return eligible[p.rng.IntN(len(eligible))], nil
}
