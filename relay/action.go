// Package relay executes pre-signed wallet actions at most once.
package relay

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Selector is the stable 4-byte identifier of an authorizable action,
// derived from the action's canonical signature string.
type Selector [4]byte

// SelectorFor derives the selector for a canonical action signature such as
// "transferToken(address,address,uint256)".
func SelectorFor(signature string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(signature))[:4])
	return s
}

func (s Selector) Hex() string { return fmt.Sprintf("0x%x", s[:]) }

var (
	SelTransferToken  = SelectorFor("transferToken(address,address,uint256)")
	SelCallContract   = SelectorFor("callContract(address,uint256,bytes)")
	SelApproveToken   = SelectorFor("approveToken(address,address,uint256)")
	SelApproveAndCall = SelectorFor("approveTokenAndCallContract(address,address,uint256,bytes)")
)

// Action is one authorizable wallet operation: a selector plus positionally
// encoded arguments.
type Action struct {
	Selector Selector
	Args     []byte
}

// Target returns the address the action ultimately interacts with. Every
// supported encoding places it in the first argument slot.
func (a Action) Target() common.Address {
	if len(a.Args) < common.AddressLength {
		return common.Address{}
	}
	return common.BytesToAddress(a.Args[:common.AddressLength])
}

// TransferToken moves amount of token to recipient.
func TransferToken(token, to common.Address, amount *uint256.Int) Action {
	return Action{Selector: SelTransferToken, Args: packArgs(token, addrWord(to), amountWord(amount))}
}

// CallContract invokes target with value and calldata.
func CallContract(target common.Address, value *uint256.Int, data []byte) Action {
	return Action{Selector: SelCallContract, Args: packArgs(target, amountWord(value), lengthPrefixed(data))}
}

// ApproveToken sets spender's allowance on token.
func ApproveToken(token, spender common.Address, amount *uint256.Int) Action {
	return Action{Selector: SelApproveToken, Args: packArgs(token, addrWord(spender), amountWord(amount))}
}

// ApproveAndCall approves spender on token and then invokes spender with
// calldata in one authorized action.
func ApproveAndCall(token, spender common.Address, amount *uint256.Int, data []byte) Action {
	return Action{Selector: SelApproveAndCall, Args: packArgs(token, addrWord(spender), amountWord(amount), lengthPrefixed(data))}
}

func packArgs(first common.Address, rest ...[]byte) []byte {
	out := append([]byte(nil), first.Bytes()...)
	for _, r := range rest {
		out = append(out, r...)
	}
	return out
}

func addrWord(a common.Address) []byte { return a.Bytes() }

func amountWord(v *uint256.Int) []byte {
	if v == nil {
		v = uint256.NewInt(0)
	}
	w := v.Bytes32()
	return w[:]
}

func lengthPrefixed(data []byte) []byte {
	out := make([]byte, 8, 8+len(data))
	binary.BigEndian.PutUint64(out, uint64(len(data)))
	return append(out, data...)
}

// MessageHash binds an action to one wallet and one nonce. Signatures over
// this hash cannot be replayed across wallets, actions, or nonces.
func MessageHash(walletAddr common.Address, action Action, nonce uint64) common.Hash {
	packed := make([]byte, 0, common.AddressLength+len(action.Selector)+common.HashLength+8)
	packed = append(packed, walletAddr.Bytes()...)
	packed = append(packed, action.Selector[:]...)
	packed = append(packed, crypto.Keccak256(action.Args)...)
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	packed = append(packed, n[:]...)
	return crypto.Keccak256Hash(packed)
}
