package authz

import "testing"

func TestRequiredQuorum(t *testing.T) {
	cases := []struct {
		guardians int
		want      int
	}{
		{0, 0},
		{1, 1},
		// Two guardians still require only one confirmation: a lone
		// co-guardian must not be able to block its own removal.
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{6, 3},
		{7, 4},
		{-1, 0},
	}
	for _, tc := range cases {
		if got := RequiredQuorum(tc.guardians); got != tc.want {
			t.Fatalf("RequiredQuorum(%d) = %d, want %d", tc.guardians, got, tc.want)
		}
	}
}
