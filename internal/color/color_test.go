package color

import "testing"

func TestFromHexRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Color
	}{
		{"3-digit", "#abc", Color{R: 0xAA, G: 0xBB, B: 0xCC, A: 255}},
		{"6-digit", "#112233", Color{R: 0x11, G: 0x22, B: 0x33, A: 255}},
		{"8-digit", "#11223344", Color{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
		{"no hash", "ffffff", Color{R: 255, G: 255, B: 255, A: 255}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromHex(tc.in)
			if err != nil {
				t.Fatalf("FromHex(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("FromHex(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFromHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#zz", "#1234", "#12", "#1122334455"} {
		if _, err := FromHex(in); err == nil {
			t.Fatalf("FromHex(%q) expected error, got nil", in)
		}
	}
}

func TestToHexRoundTrip(t *testing.T) {
	c := Color{R: 0x10, G: 0x20, B: 0x30, A: 0x40}

	got, err := FromHex(ToHex(c, false))
	if err != nil {
		t.Fatalf("FromHex error: %v", err)
	}
	if got.R != c.R || got.G != c.G || got.B != c.B || got.A != 255 {
		t.Fatalf("round trip without alpha = %+v", got)
	}

	got, err = FromHex(ToHex(c, true))
	if err != nil {
		t.Fatalf("FromHex error: %v", err)
	}
	if got != c {
		t.Fatalf("round trip with alpha = %+v, want %+v", got, c)
	}
}

func TestRGBToHSVPrimaries(t *testing.T) {
	cases := []struct {
		name string
		in   Color
		h    float32
		s    float32
		v    float32
	}{
		{"red", Color{R: 255, A: 255}, 0, 1, 1},
		{"green", Color{G: 255, A: 255}, 120, 1, 1},
		{"blue", Color{B: 255, A: 255}, 240, 1, 1},
		{"white", Color{R: 255, G: 255, B: 255, A: 255}, 0, 0, 1},
		{"black", Color{A: 255}, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RGBToHSV(tc.in)
			if !approxEq(got.H, tc.h) || !approxEq(got.S, tc.s) || !approxEq(got.V, tc.v) {
				t.Fatalf("RGBToHSV(%+v) = %+v, want H=%v S=%v V=%v", tc.in, got, tc.h, tc.s, tc.v)
			}
		})
	}
}

func TestHSVToRGBRoundTrip(t *testing.T) {
	samples := []Color{
		{R: 200, G: 50, B: 80, A: 255},
		{R: 10, G: 240, B: 30, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	}

	for _, c := range samples {
		hsv := RGBToHSV(c)
		got := HSVToRGB(hsv)
		if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
			t.Fatalf("round trip %+v -> %+v -> %+v exceeds tolerance", c, hsv, got)
		}
	}
}

func TestARGBRoundTrip(t *testing.T) {
	c := Color{R: 1, G: 2, B: 3, A: 4}
	if got := FromARGB(c.ARGB()); got != c {
		t.Fatalf("ARGB round trip = %+v, want %+v", got, c)
	}
}

func approxEq(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.01
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
