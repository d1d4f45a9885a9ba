package grpcreg

import (
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"xdao.co/warden/admin"
)

// Registrar is the in-memory name/address book of registered modules and
// upgraders. Entries are write-once: re-registering an existing name with a
// different address is rejected; re-registering the identical pair is a
// no-op.
type Registrar struct {
	mu       sync.RWMutex
	byKind   map[string]map[string]common.Address
	moduleAt map[common.Address]bool
}

// NewRegistrar returns an empty registrar.
func NewRegistrar() *Registrar {
	return &Registrar{
		byKind: map[string]map[string]common.Address{
			admin.KindModule:   {},
			admin.KindUpgrader: {},
		},
		moduleAt: map[common.Address]bool{},
	}
}

// Add records an entry. kind is admin.KindModule or admin.KindUpgrader.
func (r *Registrar) Add(kind, name string, addr common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, ok := r.byKind[kind]
	if !ok {
		return errUnknownKind
	}
	if existing, dup := entries[name]; dup {
		if existing == addr {
			return nil
		}
		return ErrAlreadyRegistered
	}
	entries[name] = addr
	if kind == admin.KindModule {
		r.moduleAt[addr] = true
	}
	return nil
}

// Lookup returns the address registered under (kind, name).
func (r *Registrar) Lookup(kind, name string) (common.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries, ok := r.byKind[kind]
	if !ok {
		return common.Address{}, false
	}
	addr, ok := entries[name]
	return addr, ok
}

// IsModule reports whether addr is a registered module address. This lets a
// registrar stand in as a relay target filter.
func (r *Registrar) IsModule(addr common.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.moduleAt[addr]
}

// Names returns registered names for a kind, sorted.
func (r *Registrar) Names(kind string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.byKind[kind]
	out := make([]string, 0, len(entries))
	for name := range entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
