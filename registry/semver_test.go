package registry

import "testing"

func TestParseVersion(t *testing.T) {
	good := map[string]string{
		"0.0.0":    "0.0.0",
		"1.2.3":    "1.2.3",
		"10.20.30": "10.20.30",
	}
	for in, want := range good {
		v, err := parseVersion(in)
		if err != nil {
			t.Fatalf("parseVersion(%q): %v", in, err)
		}
		if v.String() != want {
			t.Fatalf("parseVersion(%q): got %q", in, v.String())
		}
	}

	bad := []string{"", "1", "1.2", "1.2.3.4", "1.2.x", "01.2.3", "1.2.-3", "v1.2.3", "1.2.3-rc1"}
	for _, in := range bad {
		if _, err := parseVersion(in); err == nil {
			t.Fatalf("parseVersion(%q): expected error", in)
		}
	}
}

func TestVersionCompareAndBump(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"0.9.0", "1.0.0", -1},
	}
	for _, tc := range cases {
		a, _ := parseVersion(tc.a)
		b, _ := parseVersion(tc.b)
		if got := a.compare(b); got != tc.want {
			t.Fatalf("compare(%s, %s): got %d want %d", tc.a, tc.b, got, tc.want)
		}
	}

	v, _ := parseVersion("1.2.3")
	if got := v.patchIncrement().String(); got != "1.2.4" {
		t.Fatalf("patchIncrement: got %q", got)
	}

	lo, _ := parseVersion("1.2.4")
	hi, _ := parseVersion("2.0.0")
	if got := maxVersion(lo, hi).String(); got != "2.0.0" {
		t.Fatalf("maxVersion: got %q", got)
	}
	if got := maxVersion(hi, lo).String(); got != "2.0.0" {
		t.Fatalf("maxVersion reversed: got %q", got)
	}
}
