// Package authz validates guardian-quorum signature sets for wallet actions.
package authz

import (
	"github.com/ethereum/go-ethereum/common"
)

// Signature pairs a declared signer with its signature bytes.
//
// For EOA signers the bytes are a 65-byte [R || S || V] recoverable secp256k1
// signature and the effective signer is the recovered address. For contract
// signers the bytes are opaque and validated by the guardian contract itself.
type Signature struct {
	Signer common.Address
	Bytes  []byte
}

// SignatureSet is the ordered authorization for one wallet action.
//
// The owner signature is always position 0 and exempt from the ordering rule.
// Guardian signer addresses must be strictly increasing; the canonical sort
// makes duplicate counting impossible and keeps validation deterministic.
type SignatureSet struct {
	Owner     Signature
	Guardians []Signature
}

// GuardianSigners returns the declared guardian addresses in set order.
func (s *SignatureSet) GuardianSigners() []common.Address {
	out := make([]common.Address, len(s.Guardians))
	for i, g := range s.Guardians {
		out[i] = g.Signer
	}
	return out
}

// sortedStrictly reports whether guardian signer addresses are strictly
// increasing.
func (s *SignatureSet) sortedStrictly() bool {
	for i := 1; i < len(s.Guardians); i++ {
		if s.Guardians[i-1].Signer.Cmp(s.Guardians[i].Signer) >= 0 {
			return false
		}
	}
	return true
}
