// Package registry models published wallet module configurations: module
// sets, their canonical documents and fingerprints, the bounded version
// history, and the upgrade planner that bridges historical configurations to
// a new target.
package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ModuleRecord names one registered module and its on-chain address.
type ModuleRecord struct {
	Name    string
	Address common.Address
}

// ModuleSet is one published registry configuration: an unordered set of
// module records plus a semantic version and creation timestamp.
//
// Within one set, names are unique and addresses are unique. A set is
// immutable once constructed; its fingerprint depends only on the (name,
// address) pairs, never on Version or CreatedAt.
type ModuleSet struct {
	version   string
	createdAt time.Time
	records   []ModuleRecord // sorted by name
}

// NewModuleSet validates records and constructs an immutable set.
// version must be a MAJOR.MINOR.PATCH semver string.
func NewModuleSet(version string, createdAt time.Time, records []ModuleRecord) (*ModuleSet, error) {
	if _, err := parseVersion(version); err != nil {
		return nil, wrapError(KindValidation, "REG-VAL-001", fmt.Sprintf("invalid version %q", version), err)
	}
	sorted := make([]ModuleRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	seenName := make(map[string]bool, len(sorted))
	seenAddr := make(map[common.Address]bool, len(sorted))
	for _, r := range sorted {
		if err := checkRecord(r); err != nil {
			return nil, err
		}
		if seenName[r.Name] {
			return nil, newError(KindValidation, "REG-VAL-102", fmt.Sprintf("duplicate module name %q", r.Name))
		}
		if seenAddr[r.Address] {
			return nil, newError(KindValidation, "REG-VAL-103", fmt.Sprintf("duplicate module address %s", r.Address.Hex()))
		}
		seenName[r.Name] = true
		seenAddr[r.Address] = true
	}
	return &ModuleSet{version: version, createdAt: createdAt.UTC().Truncate(time.Second), records: sorted}, nil
}

func checkRecord(r ModuleRecord) error {
	if r.Name == "" {
		return newError(KindValidation, "REG-VAL-101", "empty module name")
	}
	for _, c := range r.Name {
		if c < 0x21 || c > 0x7e || c == ':' {
			return newError(KindValidation, "REG-VAL-101", fmt.Sprintf("module name %q contains forbidden character", r.Name))
		}
	}
	if r.Address == (common.Address{}) {
		return newError(KindValidation, "REG-VAL-104", fmt.Sprintf("module %q has zero address", r.Name))
	}
	return nil
}

// Version returns the set's semantic version string.
func (s *ModuleSet) Version() string { return s.version }

// CreatedAt returns the set's creation time (UTC, second precision).
func (s *ModuleSet) CreatedAt() time.Time { return s.createdAt }

// Records returns a copy of the records, sorted by name.
func (s *ModuleSet) Records() []ModuleRecord {
	out := make([]ModuleRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *ModuleSet) Len() int { return len(s.records) }

// ContainsName reports whether the set has a record with the given name.
func (s *ModuleSet) ContainsName(name string) bool {
	for _, r := range s.records {
		if r.Name == name {
			return true
		}
	}
	return false
}

// ContainsAddress reports whether the set has a record at the given address.
func (s *ModuleSet) ContainsAddress(addr common.Address) bool {
	for _, r := range s.records {
		if r.Address == addr {
			return true
		}
	}
	return false
}
