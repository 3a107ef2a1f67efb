package pixel

import "testing"

func TestHashRange(t *testing.T) {
	for r := 0; r < 256; r += 37 {
		for g := 0; g < 256; g += 41 {
			for b := 0; b < 256; b += 43 {
				for a := 0; a < 256; a += 47 {
					p := Pixel{uint8(r), uint8(g), uint8(b), uint8(a)}
					h := Hash(p)
					if h > 0x7F {
						t.Fatalf("Hash(%+v) = %d, out of range", p, h)
					}
				}
			}
		}
	}
}

func TestHashKnownValues(t *testing.T) {
	// H(0,0,0,0) = ((88^0)*13^0)*13^0)*13^0 & 0x7F = 88*13*13*13 & 0x7F
	got := Hash(Pixel{0, 0, 0, 0})
	want := uint8((uint32(88) * 13 * 13 * 13) & 0x7F)
	if got != want {
		t.Errorf("Hash(0,0,0,0) = %d, want %d", got, want)
	}
}

func TestXOR(t *testing.T) {
	a := Pixel{10, 20, 30, 40}
	b := Pixel{1, 2, 3, 4}
	got := a.XOR(b)
	want := Pixel{10 ^ 1, 20 ^ 2, 30 ^ 3, 40 ^ 4}
	if got != want {
		t.Errorf("XOR = %+v, want %+v", got, want)
	}
}

func TestEquality(t *testing.T) {
	a := Pixel{1, 2, 3, 4}
	b := Pixel{1, 2, 3, 4}
	c := Pixel{1, 2, 3, 5}
	if a != b {
		t.Errorf("expected equal pixels to compare equal")
	}
	if a == c {
		t.Errorf("expected differing pixels to compare unequal")
	}
}

func TestIsSmallDiff(t *testing.T) {
	cases := []struct {
		d    Pixel
		want bool
	}{
		{Pixel{0, 0, 0, 0}, true},
		{Pixel{3, 3, 3, 3}, true},
		{Pixel{4, 0, 0, 0}, false},
		{Pixel{0, 0, 0, 4}, false},
		{Pixel{0xFF, 0, 0, 0}, false},
	}
	for _, c := range cases {
		if got := IsSmallDiff(c.d); got != c.want {
			t.Errorf("IsSmallDiff(%+v) = %v, want %v", c.d, got, c.want)
		}
	}
}

func TestIsMediumDiff(t *testing.T) {
	cases := []struct {
		d    Pixel
		want bool
	}{
		{Pixel{0, 0, 0, 0}, true},
		{Pixel{0x1F, 0x3F, 0x1F, 0}, true},
		{Pixel{0x20, 0, 0, 0}, false},
		{Pixel{0, 0x40, 0, 0}, false},
		{Pixel{0, 0, 0x20, 0}, false},
		{Pixel{0, 0, 0, 1}, false},
		// A small diff with no alpha change is also a medium diff, which is
		// what lets Rule B hold a type-2 run open across it.
		{Pixel{3, 3, 3, 0}, true},
		// A small diff that also changes alpha is NOT representable as
		// type 2 (type 2 never perturbs alpha); inside an open type-2 run it
		// forces a type-3 literal.
		{Pixel{3, 3, 3, 3}, false},
	}
	for _, c := range cases {
		if got := IsMediumDiff(c.d); got != c.want {
			t.Errorf("IsMediumDiff(%+v) = %v, want %v", c.d, got, c.want)
		}
	}
}
