package relay

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"xdao.co/warden/authz"
	"xdao.co/warden/wallet"
)

// Invoker performs the wrapped action once authorization has been granted.
// The implementation (contract call plumbing, ledger submission) is an
// external collaborator.
type Invoker interface {
	Invoke(action Action) error
}

// RegistryView answers whether an address is an authorized module of the
// wallet's active configuration. Used to fence call targets.
type RegistryView interface {
	IsModule(addr common.Address) bool
}

// Config is the immutable wiring of one executor. It is threaded through
// construction explicitly; the executor holds no ambient state.
type Config struct {
	Wallet   common.Address
	Registry RegistryView
}

// Receipt reports the outcome of an authorized, executed relay.
//
// Success=false means the wrapped action itself failed after the nonce was
// consumed; the authorization was valid and the payload cannot be replayed.
type Receipt struct {
	MessageHash common.Hash    `json:"messageHash"`
	Wallet      common.Address `json:"wallet"`
	Nonce       uint64         `json:"nonce"`
	Success     bool           `json:"success"`
	Reason      string         `json:"reason,omitempty"`
}

// Executor relays pre-signed actions for one wallet with at-most-once
// semantics.
//
// The per-wallet nonce is the serialization point: concurrent callers may
// race Relay, but only the request carrying the expected nonce proceeds;
// the rest fail with NonceMismatch or NonceAlreadyUsed. A rejected
// authorization leaves the nonce untouched so the client can resubmit a
// corrected signature set for the same nonce. Once authorized, the nonce is
// consumed before execution: a failing downstream action is not retried.
type Executor struct {
	mu    sync.Mutex
	nonce uint64

	cfg     Config
	auth    *authz.Authorizer
	dir     *wallet.Directory
	invoker Invoker
}

// NewExecutor wires an executor from its collaborators.
func NewExecutor(cfg Config, auth *authz.Authorizer, dir *wallet.Directory, invoker Invoker) *Executor {
	return &Executor{cfg: cfg, auth: auth, dir: dir, invoker: invoker}
}

// Nonce returns the next expected nonce.
func (x *Executor) Nonce() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.nonce
}

// Relay validates and executes one pre-signed action.
//
// The error is non-nil iff the action did not execute: authorization
// rejections (*authz.Error, nonce untouched), replay rejections and
// forbidden targets (*Error). A non-nil Receipt with Success=false reports
// an execution failure after the nonce was consumed.
func (x *Executor) Relay(action Action, nonce uint64, set *authz.SignatureSet) (*Receipt, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if nonce < x.nonce {
		return nil, relayErr(CodeNonceAlreadyUsed, "nonce %d already consumed (next is %d)", nonce, x.nonce)
	}
	if nonce > x.nonce {
		return nil, relayErr(CodeNonceMismatch, "nonce %d does not match expected %d", nonce, x.nonce)
	}

	// Target fencing happens before signature validation: a forbidden
	// target fails closed no matter who signed.
	if err := x.checkTarget(action); err != nil {
		return nil, err
	}

	hash := MessageHash(x.cfg.Wallet, action, nonce)
	if err := x.auth.Validate(set, x.dir, hash); err != nil {
		return nil, err
	}

	// Authorized: consume the nonce before executing so a failing action
	// cannot be replayed.
	x.nonce++

	receipt := &Receipt{
		MessageHash: hash,
		Wallet:      x.cfg.Wallet,
		Nonce:       nonce,
		Success:     true,
	}
	if err := x.invoker.Invoke(action); err != nil {
		receipt.Success = false
		receipt.Reason = err.Error()
	}
	return receipt, nil
}

// checkTarget fences contract-call style actions: the wallet itself and its
// authorized modules are never legitimate external call targets.
func (x *Executor) checkTarget(action Action) error {
	switch action.Selector {
	case SelCallContract, SelApproveAndCall:
	default:
		return nil
	}
	target := callee(action)
	if target == x.cfg.Wallet {
		return relayErr(CodeForbiddenTarget, "call target is the wallet itself")
	}
	if x.cfg.Registry != nil && x.cfg.Registry.IsModule(target) {
		return relayErr(CodeForbiddenTarget, "call target %s is an authorized module", target.Hex())
	}
	return nil
}

// callee extracts the address that will be invoked: the first argument for a
// plain call, the spender (second argument) for approve-and-call.
func callee(action Action) common.Address {
	if action.Selector == SelApproveAndCall {
		if len(action.Args) < 2*common.AddressLength {
			return common.Address{}
		}
		return common.BytesToAddress(action.Args[common.AddressLength : 2*common.AddressLength])
	}
	return action.Target()
}
