package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Versions are plain MAJOR.MINOR.PATCH. No pre-release or build metadata;
// published configurations never carry them.
type version struct {
	major, minor, patch uint64
}

func parseVersion(s string) (version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return version{}, fmt.Errorf("version %q is not MAJOR.MINOR.PATCH", s)
	}
	var nums [3]uint64
	for i, p := range parts {
		if p == "" || (len(p) > 1 && p[0] == '0') {
			return version{}, fmt.Errorf("version %q has a malformed component %q", s, p)
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return version{}, fmt.Errorf("version %q has a non-numeric component %q", s, p)
		}
		nums[i] = n
	}
	return version{major: nums[0], minor: nums[1], patch: nums[2]}, nil
}

func (v version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// compare returns -1, 0, or 1.
func (v version) compare(o version) int {
	for _, d := range [][2]uint64{{v.major, o.major}, {v.minor, o.minor}, {v.patch, o.patch}} {
		if d[0] < d[1] {
			return -1
		}
		if d[0] > d[1] {
			return 1
		}
	}
	return 0
}

func (v version) patchIncrement() version {
	return version{major: v.major, minor: v.minor, patch: v.patch + 1}
}

func maxVersion(a, b version) version {
	if a.compare(b) >= 0 {
		return a
	}
	return b
}
