package authz

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"xdao.co/warden/keys"
	"xdao.co/warden/wallet"
)

// ContractValidator is the signature-validation entry point of a
// contract-wallet guardian. The implementation is the guardian's own
// contract and is opaque to this package; its boolean answer is trusted
// as-is.
type ContractValidator interface {
	ValidSignature(messageHash common.Hash, sig []byte) (bool, error)
}

// Authorizer validates SignatureSets against one wallet's guardian
// directory.
//
// Contract guardians are resolved through validators registered by address;
// a contract guardian without a registered validator contributes no valid
// signature.
type Authorizer struct {
	owner      common.Address
	validators map[common.Address]ContractValidator
}

// NewAuthorizer constructs an Authorizer for the wallet owned by owner.
func NewAuthorizer(owner common.Address) *Authorizer {
	return &Authorizer{
		owner:      owner,
		validators: make(map[common.Address]ContractValidator),
	}
}

// Owner returns the wallet owner address.
func (a *Authorizer) Owner() common.Address { return a.owner }

// RegisterContractValidator registers the validation entry point for a
// contract guardian address.
func (a *Authorizer) RegisterContractValidator(addr common.Address, v ContractValidator) {
	a.validators[addr] = v
}

// Validate checks set against dir for messageHash. A nil return means the
// action is authorized.
//
// Rejections are *Error values whose Code distinguishes the failure:
// owner-signature, signer ordering, unknown/inactive signer, or quorum.
// Signatures that merely fail to verify (bad recovery, contract validator
// answering false) are not fatal on their own; they simply do not count
// toward the quorum.
func (a *Authorizer) Validate(set *SignatureSet, dir *wallet.Directory, messageHash common.Hash) error {
	if set == nil {
		return reject(CodeInvalidOwnerSignature, "missing signature set")
	}

	recovered, err := keys.RecoverSigner(messageHash, set.Owner.Bytes)
	if err != nil || recovered != a.owner {
		return reject(CodeInvalidOwnerSignature, "owner signature does not recover to wallet owner")
	}

	if !set.sortedStrictly() {
		return reject(CodeDuplicateOrUnsortedSigner, "guardian signers must be strictly increasing by address")
	}

	valid := 0
	for _, sig := range set.Guardians {
		if !dir.IsActive(sig.Signer) {
			return reject(CodeUnknownOrInactiveGuardian,
				fmt.Sprintf("signer %s is not an active guardian", sig.Signer.Hex()))
		}
		kind, _ := dir.KindOf(sig.Signer)
		switch kind {
		case wallet.KindEOA:
			got, err := keys.RecoverSigner(messageHash, sig.Bytes)
			if err == nil && got == sig.Signer {
				valid++
			}
		case wallet.KindContract:
			v, ok := a.validators[sig.Signer]
			if !ok {
				continue
			}
			ok, err := v.ValidSignature(messageHash, sig.Bytes)
			if err == nil && ok {
				valid++
			}
		}
	}

	required := RequiredQuorum(dir.ActiveCount())
	if valid < required {
		return reject(CodeQuorumNotMet,
			fmt.Sprintf("%d valid guardian signatures, quorum is %d", valid, required))
	}
	return nil
}
