package surface

import opensimplex "github.com/ojrac/opensimplex-go"

// fbm samples fractal Brownian motion: octaves of opensimplex noise with
// frequency scaled by lacunarity and amplitude by gain, normalized so the
// result stays in roughly [-1, 1].
func fbm(n opensimplex.Noise, x, y float64, octaves int, lacunarity, gain float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := 1.0
	for o := 0; o < octaves; o++ {
		sum += n.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
