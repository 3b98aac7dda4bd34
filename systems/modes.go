package systems

import "math"

// PlateMode identifies a standing-wave pattern on a square plate by its
// two mode indices.
type PlateMode struct {
	M, N uint32
}

// NewPlateMode creates a plate mode.
func NewPlateMode(m, n uint32) PlateMode {
	return PlateMode{M: m, N: n}
}

// Frequency returns the eigenfrequency for a square plate:
// f_mn = C * (m^2 + n^2).
func (p PlateMode) Frequency(plateConstant float32) float32 {
	return plateConstant * float32(p.M*p.M+p.N*p.N)
}

// modeSearchMax bounds the grid search in FrequencyToMode.
const modeSearchMax = 20

// FrequencyToMode maps a frequency to the nearest plate mode by
// inverting the eigenfrequency law: it searches m, n in [1, 20] for the
// pair minimizing |(m^2+n^2) - freq/C|. Ties keep the first pair found
// in row-major order.
func FrequencyToMode(freq, plateConstant float32) PlateMode {
	target := freq / plateConstant

	bestM, bestN := uint32(1), uint32(1)
	bestDiff := float32(math.Inf(1))

	for m := uint32(1); m <= modeSearchMax; m++ {
		for n := uint32(1); n <= modeSearchMax; n++ {
			modeValue := float32(m*m + n*n)
			diff := absFloat(modeValue - target)
			if diff < bestDiff {
				bestDiff = diff
				bestM = m
				bestN = n
			}
		}
	}

	return PlateMode{M: bestM, N: bestN}
}

// ResonanceQuality scores how closely freq matches an eigenfrequency.
// It is 1 at an exact match and falls to 0 once the relative error
// reaches 20%, which gives a sharply peaked tuning response.
func ResonanceQuality(freq, eigenFreq float32) float32 {
	if eigenFreq < 1e-6 {
		eigenFreq = 1e-6
	}
	freqError := absFloat(freq-eigenFreq) / eigenFreq
	return clamp01(1 - freqError*5)
}

// CalculatePlateConstant derives the eigenfrequency constant from
// physical plate properties. For a square plate with fixed edges:
//
//	C = (pi^2 / L^2) * sqrt(D / (rho*h))
//
// with flexural rigidity D = E*h^3 / (12*(1-nu^2)).
func CalculatePlateConstant(plateSize, youngsModulus, thickness, density, poissonRatio float32) float32 {
	l := plateSize
	h := thickness
	e := youngsModulus
	rho := density
	nu := poissonRatio

	d := (e * h * h * h) / (12.0 * (1.0 - nu*nu))

	const pi = float32(math.Pi)
	return (pi * pi / (l * l)) * sqrtFloat(d/(rho*h))
}
