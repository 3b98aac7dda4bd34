package systems

import "testing"

func TestMotionGridFill(t *testing.T) {
	g := NewMotionGrid(4)
	velocity := []float32{
		0, -1, 2, -3,
		4, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, -5,
	}
	g.Fill(velocity)

	if got := g.At(1, 0); got != 1 {
		t.Errorf("At(1,0) = %v, want |−1| = 1", got)
	}
	if got := g.At(3, 3); got != 5 {
		t.Errorf("At(3,3) = %v, want 5", got)
	}
}

func TestMotionGridAtClamps(t *testing.T) {
	g := NewMotionGrid(4)
	cells := make([]float32, 16)
	cells[0] = 7
	cells[15] = 9
	g.Fill(cells)

	if got := g.At(-10, -10); got != 7 {
		t.Errorf("At(-10,-10) = %v, want clamped corner 7", got)
	}
	if got := g.At(100, 100); got != 9 {
		t.Errorf("At(100,100) = %v, want clamped corner 9", got)
	}
}

func TestMotionGridGradient(t *testing.T) {
	// Motion increasing along x gives a positive x gradient
	g := NewMotionGrid(8)
	cells := make([]float32, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			cells[y*8+x] = float32(x)
		}
	}
	g.Fill(cells)

	gx, gy := g.GradientAt(4, 4)
	if gx <= 0 {
		t.Errorf("gx = %v, want > 0 for motion increasing in x", gx)
	}
	if gy != 0 {
		t.Errorf("gy = %v, want 0 for motion constant in y", gy)
	}
}

func TestMotionGridFillLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Fill with wrong length did not panic")
		}
	}()
	g := NewMotionGrid(4)
	g.Fill(make([]float32, 3))
}
