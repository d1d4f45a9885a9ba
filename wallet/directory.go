package wallet

import (
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Clock supplies the directory's notion of now.
//
// Injected so the security-delay window is testable without waiting.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Directory tracks the guardians of exactly one wallet.
//
// Contract:
//   - A Pending guardian becomes Active only after the security delay has
//     elapsed and a party other than the guardian itself confirms.
//   - EOA and contract guardians count identically toward ActiveCount.
//   - The directory is owned by the wallet it protects; callers serialize
//     access (there is no internal locking, matching the single-threaded
//     state-transition model of the wallet).
type Directory struct {
	wallet    common.Address
	delay     time.Duration
	clock     Clock
	guardians map[common.Address]*Guardian
}

// NewDirectory constructs an empty directory for wallet with the given
// pending-addition security delay. A nil clock defaults to SystemClock.
func NewDirectory(wallet common.Address, securityDelay time.Duration, clock Clock) *Directory {
	if clock == nil {
		clock = SystemClock()
	}
	return &Directory{
		wallet:    wallet,
		delay:     securityDelay,
		clock:     clock,
		guardians: make(map[common.Address]*Guardian),
	}
}

// Wallet returns the address of the wallet this directory protects.
func (d *Directory) Wallet() common.Address { return d.wallet }

// SecurityDelay returns the configured pending-addition delay.
func (d *Directory) SecurityDelay() time.Duration { return d.delay }

// AddGuardian inserts addr as a Pending guardian at the current clock time.
//
// A previously Removed guardian may be re-added; it restarts as Pending.
func (d *Directory) AddGuardian(addr common.Address, kind Kind) error {
	if g, ok := d.guardians[addr]; ok {
		switch g.Status {
		case StatusPending:
			return stateErr(CodeAlreadyPending, addr, "addition already pending")
		case StatusActive:
			return stateErr(CodeAlreadyActive, addr, "already an active guardian")
		}
	}
	d.guardians[addr] = &Guardian{
		Address:      addr,
		Kind:         kind,
		Status:       StatusPending,
		PendingSince: d.clock.Now(),
	}
	return nil
}

// ConfirmAddition transitions a Pending guardian to Active.
//
// confirmer must be a party other than the pending guardian itself; the
// security delay must have elapsed since the guardian became Pending.
func (d *Directory) ConfirmAddition(confirmer, addr common.Address) error {
	g, ok := d.guardians[addr]
	if !ok || g.Status != StatusPending {
		return stateErr(CodeNotPending, addr, "no pending addition")
	}
	if confirmer == addr {
		return stateErr(CodeSelfConfirmation, addr, "pending guardian cannot confirm itself")
	}
	now := d.clock.Now()
	if now.Sub(g.PendingSince) < d.delay {
		return stateErr(CodeTooEarly, addr, "security delay has not elapsed")
	}
	g.Status = StatusActive
	g.ActiveSince = now
	return nil
}

// RevokeGuardian transitions an Active guardian to Removed.
func (d *Directory) RevokeGuardian(addr common.Address) error {
	g, ok := d.guardians[addr]
	if !ok || g.Status != StatusActive {
		return stateErr(CodeNotActive, addr, "not an active guardian")
	}
	g.Status = StatusRemoved
	return nil
}

// IsActive reports whether addr is an Active guardian.
func (d *Directory) IsActive(addr common.Address) bool {
	g, ok := d.guardians[addr]
	return ok && g.Status == StatusActive
}

// KindOf returns the kind of a tracked guardian.
func (d *Directory) KindOf(addr common.Address) (Kind, bool) {
	g, ok := d.guardians[addr]
	if !ok {
		return 0, false
	}
	return g.Kind, true
}

// ActiveCount returns the number of Active guardians. Contract guardians
// carry no extra weight.
func (d *Directory) ActiveCount() int {
	n := 0
	for _, g := range d.guardians {
		if g.Status == StatusActive {
			n++
		}
	}
	return n
}

// Guardians returns a copy of all tracked guardians sorted by address.
func (d *Directory) Guardians() []Guardian {
	out := make([]Guardian, 0, len(d.guardians))
	for _, g := range d.guardians {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address.Cmp(out[j].Address) < 0
	})
	return out
}
