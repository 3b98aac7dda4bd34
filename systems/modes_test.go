package systems

import "testing"

func TestPlateModeFrequency(t *testing.T) {
	tests := []struct {
		m, n     uint32
		constant float32
		want     float32
	}{
		{1, 1, 1.0, 2.0},
		{2, 3, 1.0, 13.0},
		{3, 2, 50.0, 650.0},
		{4, 3, 50.0, 1250.0},
	}

	for _, tt := range tests {
		mode := NewPlateMode(tt.m, tt.n)
		if got := mode.Frequency(tt.constant); got != tt.want {
			t.Errorf("Frequency(%d,%d, C=%v) = %v, want %v", tt.m, tt.n, tt.constant, got, tt.want)
		}
	}
}

func TestFrequencyToModeExactMatch(t *testing.T) {
	const c = 50.0
	tests := []struct {
		freq  float32
		wantM uint32
		wantN uint32
	}{
		{c * 2, 1, 1},     // sum 2
		{c * 5, 1, 2},     // sum 5: (1,2) precedes (2,1) in row-major order
		{c * 13, 2, 3},    // sum 13: (2,3) precedes (3,2)
		{c * 25, 3, 4},    // sum 25: (3,4) precedes (4,3) and (5,0 invalid)
		{c * 800, 20, 20}, // sum 800 is the search ceiling
	}

	for _, tt := range tests {
		got := FrequencyToMode(tt.freq, c)
		if got.M != tt.wantM || got.N != tt.wantN {
			t.Errorf("FrequencyToMode(%v) = (%d,%d), want (%d,%d)",
				tt.freq, got.M, got.N, tt.wantM, tt.wantN)
		}
	}
}

func TestFrequencyToModeRoundTrip(t *testing.T) {
	// Every mode's own eigenfrequency must map back to a mode with the
	// same eigenvalue sum (degenerate pairs share a frequency).
	const c = 50.0
	for m := uint32(1); m <= 10; m++ {
		for n := uint32(1); n <= 10; n++ {
			freq := NewPlateMode(m, n).Frequency(c)
			got := FrequencyToMode(freq, c)
			if got.M*got.M+got.N*got.N != m*m+n*n {
				t.Errorf("round trip (%d,%d): got (%d,%d) with different eigenvalue sum",
					m, n, got.M, got.N)
			}
		}
	}
}

func TestResonanceQuality(t *testing.T) {
	tests := []struct {
		name  string
		freq  float32
		eigen float32
		want  float32
	}{
		{"exact match", 650, 650, 1.0},
		{"10 percent off", 715, 650, 0.5},
		{"20 percent off", 780, 650, 0.0},
		{"far off clamps to zero", 1300, 650, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResonanceQuality(tt.freq, tt.eigen)
			if absFloat(got-tt.want) > 1e-5 {
				t.Errorf("ResonanceQuality(%v, %v) = %v, want %v", tt.freq, tt.eigen, got, tt.want)
			}
		})
	}
}

func TestResonanceQualityMonotone(t *testing.T) {
	// Quality is non-increasing in |freq - eigen|
	const eigen = 650.0
	prev := float32(2)
	for _, errPct := range []float32{0, 0.05, 0.1, 0.15, 0.2, 0.5, 1.0} {
		q := ResonanceQuality(eigen*(1+errPct), eigen)
		if q > prev {
			t.Errorf("quality increased with error: %v at %v%% > %v", q, errPct*100, prev)
		}
		prev = q
	}
}

func TestResonanceQualityZeroEigenGuard(t *testing.T) {
	// Must not divide by zero
	q := ResonanceQuality(100, 0)
	if q != 0 {
		t.Errorf("quality with zero eigenfrequency = %v, want 0", q)
	}
}

func TestCalculatePlateConstant(t *testing.T) {
	// 30cm aluminum plate, 1mm thick
	c := CalculatePlateConstant(0.3, 69e9, 0.001, 2700, 0.33)
	if c <= 0 {
		t.Fatalf("plate constant = %v, want positive", c)
	}

	// C scales linearly with thickness (D ~ h^3, divided by h under the root)
	c2 := CalculatePlateConstant(0.3, 69e9, 0.002, 2700, 0.33)
	ratio := c2 / c
	if absFloat(ratio-2.0) > 0.01 {
		t.Errorf("doubling thickness: ratio = %v, want 2", ratio)
	}

	// C scales with 1/L^2
	c3 := CalculatePlateConstant(0.6, 69e9, 0.001, 2700, 0.33)
	ratio = c / c3
	if absFloat(ratio-4.0) > 0.01 {
		t.Errorf("doubling size: ratio = %v, want 4", ratio)
	}
}
