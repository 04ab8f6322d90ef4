package rain

// Particle is one falling stroke
type Particle struct {
	X, Y    float64
	Length  float64
	Speed   float64
	Opacity float64
}

// Tail returns the stroke end point, offset along the drift direction
func (p Particle) Tail(drift float64) (float64, float64) {
	return p.X + p.Length*drift, p.Y + p.Length
}
