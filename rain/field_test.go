package rain

import (
	"math"
	"testing"

	"github.com/lixenwraith/audwanee/parameter"
)

// recordingCanvas captures strokes and clear calls in order
type recordingCanvas struct {
	clears  int
	strokes []Stroke
	ops     []string
}

func (c *recordingCanvas) Clear() {
	c.clears++
	c.ops = append(c.ops, "clear")
}

func (c *recordingCanvas) StrokeLine(s Stroke) {
	c.strokes = append(c.strokes, s)
	c.ops = append(c.ops, "stroke")
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func checkLook(t *testing.T, i int, p Particle) {
	t.Helper()
	if !inRange(p.Length, parameter.RainLengthMin, parameter.RainLengthMax) {
		t.Errorf("drop %d length %v out of range", i, p.Length)
	}
	if !inRange(p.Speed, parameter.RainSpeedMin, parameter.RainSpeedMax) {
		t.Errorf("drop %d speed %v out of range", i, p.Speed)
	}
	if !inRange(p.Opacity, parameter.RainOpacityMin, parameter.RainOpacityMax) {
		t.Errorf("drop %d opacity %v out of range", i, p.Opacity)
	}
}

func TestResetCount(t *testing.T) {
	cases := []struct {
		width float64
		want  int
	}{
		{0, 0},
		{3.9, 0},
		{4, 1},
		{401, 100},
		{800, 200},
		{4000, 1000},
		{-20, 0},
	}

	f := NewField(1)
	for _, tc := range cases {
		f.Reset(tc.width, 600)
		if f.Len() != tc.want {
			t.Errorf("Reset(%v): count = %d, want %d", tc.width, f.Len(), tc.want)
		}
	}
}

func TestResetBounds(t *testing.T) {
	f := NewField(12345)
	w, h := 1920.0, 1080.0
	f.Reset(w, h)

	for i, p := range f.Drops {
		if p.X < 0 || p.X >= w {
			t.Errorf("drop %d x %v not in [0,%v)", i, p.X, w)
		}
		if p.Y < -h || p.Y > 0 {
			t.Errorf("drop %d y %v not in [-%v,0]", i, p.Y, h)
		}
		checkLook(t, i, p)
	}
}

func TestResetDiscardsPrevious(t *testing.T) {
	f := NewField(5)
	f.Reset(400, 300)
	first := f.Drops
	f.Reset(800, 300)
	if len(f.Drops) != 200 {
		t.Fatalf("count after resize = %d, want 200", len(f.Drops))
	}
	if &first[0] == &f.Drops[0] {
		t.Error("resize reused the previous particle slice")
	}
}

func TestAdvanceBelowBoundary(t *testing.T) {
	f := NewField(9)
	f.Reset(800, 600)

	p := Particle{X: 100, Y: 50, Length: 20, Speed: 3, Opacity: 0.5}
	f.Advance(&p)

	if p.Y != 53 {
		t.Errorf("y = %v, want 53", p.Y)
	}
	if math.Abs(p.X-100.9) > 1e-9 {
		t.Errorf("x = %v, want 100.9 (drift = speed*0.3)", p.X)
	}
	if p.Length != 20 || p.Speed != 3 || p.Opacity != 0.5 {
		t.Error("attributes changed without respawn")
	}
}

func TestAdvanceRespawn(t *testing.T) {
	f := NewField(77)
	f.Reset(800, 600)

	p := Particle{X: 100, Y: 619, Length: 20, Speed: 3, Opacity: 0.5}
	f.Advance(&p)

	if p.Y != -p.Length {
		t.Errorf("respawn y = %v, want -length %v", p.Y, -p.Length)
	}
	if p.X < 0 || p.X >= 800 {
		t.Errorf("respawn x = %v, want [0,800)", p.X)
	}
	checkLook(t, 0, p)
}

func TestAdvanceWrap(t *testing.T) {
	f := NewField(3)
	f.Reset(800, 600)

	p := Particle{X: 819, Y: 100, Length: 20, Speed: 4, Opacity: 0.7}
	f.Advance(&p)

	if p.X != -20 {
		t.Errorf("wrap x = %v, want -20", p.X)
	}
	if p.Y != 104 {
		t.Errorf("wrap y = %v, want 104 (unchanged by wrap)", p.Y)
	}
	if p.Length != 20 || p.Speed != 4 || p.Opacity != 0.7 {
		t.Error("wrap altered attributes")
	}
}

func TestAdvanceRechecksWrapAfterRespawn(t *testing.T) {
	// A drop far past both edges respawns first; the wrap check then sees
	// the respawned x, which lies in [0,W) and so is left alone.
	f := NewField(11)
	f.Reset(200, 100)

	for i := 0; i < 50; i++ {
		p := Particle{X: 500, Y: 200, Length: 20, Speed: 3, Opacity: 0.5}
		f.Advance(&p)

		if p.Y != -p.Length {
			t.Fatalf("run %d: expected respawn, y = %v", i, p.Y)
		}
		if p.X < 0 || p.X >= f.Width {
			t.Fatalf("run %d: respawned x %v was wrapped or left out of [0,%v)", i, p.X, f.Width)
		}
		checkLook(t, i, p)
	}
}

func TestAdvanceWrapAfterRespawnedDropDrifts(t *testing.T) {
	// Wrap applies to a respawned drop on the tick it drifts past the edge
	f := NewField(13)
	f.Reset(100, 1000)

	p := Particle{X: 50, Y: 2000, Length: 20, Speed: 3, Opacity: 0.5}
	f.Advance(&p)
	if p.Y != -p.Length {
		t.Fatalf("expected respawn, y = %v", p.Y)
	}

	p.X = f.Width + p.Length
	y := p.Y
	f.Advance(&p)
	if p.X != -p.Length {
		t.Errorf("wrap x = %v, want %v", p.X, -p.Length)
	}
	if p.Y != y+p.Speed {
		t.Errorf("wrap moved y to %v, want %v", p.Y, y+p.Speed)
	}
}

func TestAdvanceLongRun(t *testing.T) {
	f := NewField(2024)
	f.Reset(800, 600)
	if f.Len() != 200 {
		t.Fatalf("count = %d, want 200", f.Len())
	}

	p := Particle{X: 100, Y: -20, Length: 30, Speed: 3, Opacity: 0.6}
	for i := 0; i < 1000; i++ {
		preY := p.Y
		preSpeed := p.Speed
		preLen := p.Length
		f.Advance(&p)

		if preY+preSpeed <= f.Height+preLen && p.Y != preY+preSpeed {
			t.Fatalf("tick %d: y = %v, want %v", i, p.Y, preY+preSpeed)
		}
		if p.Y < -parameter.RainLengthMax || p.Y > f.Height+p.Length {
			t.Fatalf("tick %d: y %v escaped bounds", i, p.Y)
		}
		if p.X < -parameter.RainLengthMax || p.X > f.Width+p.Length {
			t.Fatalf("tick %d: x %v escaped bounds", i, p.X)
		}
		checkLook(t, i, p)
	}
}

func TestStrokeGeometry(t *testing.T) {
	f := NewField(8)
	p := Particle{X: 10, Y: 20, Length: 30, Speed: 2, Opacity: 0.8}

	s := f.Stroke(p)
	if s.X0 != 10 || s.Y0 != 20 {
		t.Errorf("start = (%v,%v), want (10,20)", s.X0, s.Y0)
	}
	if math.Abs(s.X1-19) > 1e-9 || s.Y1 != 50 {
		t.Errorf("end = (%v,%v), want (19,50)", s.X1, s.Y1)
	}
	if s.Width < parameter.RainStrokeWidthMin || s.Width >= parameter.RainStrokeWidthMax {
		t.Errorf("width %v out of range", s.Width)
	}

	wantAlpha := []float64{0.8, 0.72, 0.48}
	for i, stop := range s.Gradient {
		if math.Abs(stop.Alpha-wantAlpha[i]) > 1e-9 {
			t.Errorf("stop %d alpha = %v, want %v", i, stop.Alpha, wantAlpha[i])
		}
		if stop.Color != DefaultPalette[i] {
			t.Errorf("stop %d color = %v, want %v", i, stop.Color, DefaultPalette[i])
		}
	}
}

func TestStrokeWidthNotPersisted(t *testing.T) {
	f := NewField(21)
	p := Particle{X: 0, Y: 0, Length: 20, Speed: 2, Opacity: 0.5}

	seen := make(map[float64]bool)
	for i := 0; i < 20; i++ {
		seen[f.Stroke(p).Width] = true
	}
	if len(seen) < 2 {
		t.Error("stroke width did not vary across render calls")
	}
}

func TestFrameClearsThenDrawsEveryDrop(t *testing.T) {
	f := NewField(4)
	f.Reset(40, 100)
	before := append([]Particle(nil), f.Drops...)

	c := &recordingCanvas{}
	f.Frame(c)

	if c.clears != 1 || c.ops[0] != "clear" {
		t.Fatalf("frame must clear once first, ops = %v", c.ops)
	}
	if len(c.strokes) != len(before) {
		t.Fatalf("strokes = %d, want %d", len(c.strokes), len(before))
	}
	// Drawn at pre-advance position
	for i, s := range c.strokes {
		if s.X0 != before[i].X || s.Y0 != before[i].Y {
			t.Errorf("drop %d drawn at (%v,%v), want (%v,%v)", i, s.X0, s.Y0, before[i].X, before[i].Y)
		}
	}
	for i := range f.Drops {
		if f.Drops[i].Y == before[i].Y {
			t.Errorf("drop %d did not advance", i)
		}
	}
}

func TestGradientAt(t *testing.T) {
	g := NewField(1).Stroke(Particle{Opacity: 0.5, Length: 20}).Gradient

	c, a := g.At(0)
	if c != DefaultPalette[0] || a != 0.5 {
		t.Errorf("At(0) = %v,%v", c, a)
	}
	_, a = g.At(0.25)
	if math.Abs(a-0.475) > 1e-9 {
		t.Errorf("At(0.25) alpha = %v, want 0.475", a)
	}
	c, a = g.At(1)
	if c != DefaultPalette[2] || math.Abs(a-0.3) > 1e-9 {
		t.Errorf("At(1) = %v,%v", c, a)
	}
}
