package gym

import "math/rand"

// MaskedDiscrete is a discrete action space of size N where only the masked
// subset is legal at any instant. The mask is rewritten on every reset and
// step; Sample draws uniformly from the legal subset.
type MaskedDiscrete struct {
	N    int
	mask []bool
}

func NewMaskedDiscrete(n int) *MaskedDiscrete {
	return &MaskedDiscrete{N: n, mask: make([]bool, n)}
}

// SetMask marks exactly the given actions legal.
func (s *MaskedDiscrete) SetMask(legal []int) {
	for i := range s.mask {
		s.mask[i] = false
	}
	for _, a := range legal {
		if a >= 0 && a < s.N {
			s.mask[a] = true
		}
	}
}

// Mask returns a copy of the legality mask.
func (s *MaskedDiscrete) Mask() []bool {
	return append([]bool(nil), s.mask...)
}

// Contains reports whether action a is currently legal.
func (s *MaskedDiscrete) Contains(a int) bool {
	return a >= 0 && a < s.N && s.mask[a]
}

// Sample draws a uniformly random legal action, or -1 when none is legal.
func (s *MaskedDiscrete) Sample(rng *rand.Rand) int {
	count := 0
	for _, ok := range s.mask {
		if ok {
			count++
		}
	}
	if count == 0 {
		return -1
	}
	pick := rng.Intn(count)
	for i, ok := range s.mask {
		if !ok {
			continue
		}
		if pick == 0 {
			return i
		}
		pick--
	}
	return -1
}
