package conv

import "testing"

func TestItoa(t *testing.T) {
	var buf [20]byte
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-53, "-53"},
		{231, "231"},
		{9223372036854775807, "9223372036854775807"},
	}
	for _, tc := range cases {
		if got := string(Itoa(buf[:], tc.n)); got != tc.want {
			t.Errorf("Itoa(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestUtoa(t *testing.T) {
	var buf [20]byte
	if got := string(Utoa(buf[:], 0)); got != "0" {
		t.Errorf("Utoa(0) = %q", got)
	}
	if got := string(Utoa(buf[:], 14400)); got != "14400" {
		t.Errorf("Utoa(14400) = %q", got)
	}
}

func TestPad2(t *testing.T) {
	var buf [2]byte
	if got := string(Pad2(buf[:], 5)); got != "05" {
		t.Errorf("Pad2(5) = %q", got)
	}
	if got := string(Pad2(buf[:], 42)); got != "42" {
		t.Errorf("Pad2(42) = %q", got)
	}
}
