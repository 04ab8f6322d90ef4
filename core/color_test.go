package core

import "testing"

func TestBlendEndpoints(t *testing.T) {
	dst := RGB{10, 20, 30}
	src := RGB{200, 100, 50}
	if got := dst.Blend(src, 0); got != dst {
		t.Errorf("alpha 0 = %v, want %v", got, dst)
	}
	if got := dst.Blend(src, 1); got != src {
		t.Errorf("alpha 1 = %v, want %v", got, src)
	}
}

func TestLerpMidpoint(t *testing.T) {
	got := RGB{0, 0, 0}.Lerp(RGB{200, 100, 50}, 0.5)
	want := RGB{100, 50, 25}
	if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 || absDiff(got.B, want.B) > 1 {
		t.Errorf("Lerp midpoint = %v, want ~%v", got, want)
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := RGB{88, 28, 135}
	if c.Hex() != "#581c87" {
		t.Fatalf("Hex = %s", c.Hex())
	}
	parsed, err := ParseHex(c.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != c {
		t.Errorf("ParseHex = %v, want %v", parsed, c)
	}
	if _, err := ParseHex("purple"); err == nil {
		t.Error("expected error for non-hex color")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
