package machine

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Pixel returns whether the pixel at the given position is on.
// Positions wrap around the display edges.
func (s *State) Pixel(x, y int) bool {
	return s.display[pixelIndex(x, y)]
}

// TogglePixel flips the pixel at the given position and returns whether
// it was on before, which signals a collision. Positions wrap around the
// display edges.
func (s *State) TogglePixel(x, y int) bool {
	i := pixelIndex(x, y)
	wasOn := s.display[i]
	s.display[i] = !wasOn
	return wasOn
}

// ClearDisplay turns all pixels off.
func (s *State) ClearDisplay() {
	s.display = [DisplayWidth * DisplayHeight]bool{}
}

// Display returns a copy of the display buffer, addressed as y*DisplayWidth+x.
func (s *State) Display() []bool {
	buf := make([]bool, len(s.display))
	copy(buf, s.display[:])
	return buf
}

func pixelIndex(x, y int) int {
	x %= DisplayWidth
	if x < 0 {
		x += DisplayWidth
	}
	y %= DisplayHeight
	if y < 0 {
		y += DisplayHeight
	}
	return y*DisplayWidth + x
}
