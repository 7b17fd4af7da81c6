package systems

import (
	"fmt"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/swirl/config"
)

// Noise3 is a continuous 3D scalar noise function returning values in about [-1, 1].
type Noise3 func(x, y, z float64) float64

// Simplex skew and unskew factors for three dimensions.
const (
	skew3   = 1.0 / 3.0
	unskew3 = 1.0 / 6.0
)

// grad3 holds the 12 edge-midpoint gradient directions of a cube.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// SimplexNoise generates 3D simplex noise from a seeded permutation table.
type SimplexNoise struct {
	perm [512]uint8
}

// NewSimplexNoise builds a simplex generator. seed must return uniform values in [0, 1);
// it is only consulted while the permutation table is shuffled.
func NewSimplexNoise(seed func() float64) *SimplexNoise {
	s := &SimplexNoise{}
	for i := 0; i < 256; i++ {
		s.perm[i] = uint8(i)
	}

	// Fisher-Yates
	for i := 255; i > 0; i-- {
		j := int(seed() * float64(i+1))
		s.perm[i], s.perm[j] = s.perm[j], s.perm[i]
	}

	// Duplicate so corner lookups never wrap
	for i := 256; i < 512; i++ {
		s.perm[i] = s.perm[i-256]
	}
	return s
}

// Noise3D returns a noise value for 3D coordinates.
func (s *SimplexNoise) Noise3D(x, y, z float64) float64 {
	// Skew into simplex space to find the cell. Truncation, not floor.
	sk := (x + y + z) * skew3
	i := int(x + sk)
	j := int(y + sk)
	k := int(z + sk)

	t := float64(i+j+k) * unskew3
	x0 := x - float64(i) + t
	y0 := y - float64(j) + t
	z0 := z - float64(k) + t

	// Pick the tetrahedron by ranking the offsets
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	ii := i & 255
	jj := j & 255
	kk := k & 255
	p := &s.perm

	gi0 := p[ii+int(p[jj+int(p[kk])])] % 12
	gi1 := p[ii+i1+int(p[jj+j1+int(p[kk+k1])])] % 12
	gi2 := p[ii+i2+int(p[jj+j2+int(p[kk+k2])])] % 12
	gi3 := p[ii+1+int(p[jj+1+int(p[kk+1])])] % 12

	x1 := x0 - float64(i1) + unskew3
	y1 := y0 - float64(j1) + unskew3
	z1 := z0 - float64(k1) + unskew3
	x2 := x0 - float64(i2) + 2*unskew3
	y2 := y0 - float64(j2) + 2*unskew3
	z2 := z0 - float64(k2) + 2*unskew3
	x3 := x0 - 1 + 3*unskew3
	y3 := y0 - 1 + 3*unskew3
	z3 := z0 - 1 + 3*unskew3

	return 32 * (corner(x0, y0, z0, gi0) +
		corner(x1, y1, z1, gi1) +
		corner(x2, y2, z2, gi2) +
		corner(x3, y3, z3, gi3))
}

// corner returns one vertex contribution: (0.6 - d²)⁴ · (g · d), or 0 outside the kernel.
func corner(x, y, z float64, gi uint8) float64 {
	t := 0.6 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	g := &grad3[gi]
	t2 := t * t
	return t2 * t2 * (g[0]*x + g[1]*y + g[2]*z)
}

// NewNoise constructs the configured noise backend from rng.
func NewNoise(backend string, rng *rand.Rand) (Noise3, error) {
	switch backend {
	case config.NoiseSimplex, "":
		return NewSimplexNoise(rng.Float64).Noise3D, nil
	case config.NoiseOpenSimplex:
		n := opensimplex.New(rng.Int63())
		return n.Eval3, nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
}
