package relay

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	tokenAddr  = common.HexToAddress("0xaaaa000000000000000000000000000000000001")
	targetAddr = common.HexToAddress("0xbbbb000000000000000000000000000000000002")
	walletA    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	walletB    = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func TestSelectorFor_Deterministic(t *testing.T) {
	a := SelectorFor("transferToken(address,address,uint256)")
	b := SelectorFor("transferToken(address,address,uint256)")
	if a != b {
		t.Fatalf("selector not deterministic")
	}
	if a != SelTransferToken {
		t.Fatalf("SelTransferToken mismatch")
	}
	if SelTransferToken == SelCallContract || SelCallContract == SelApproveToken || SelApproveToken == SelApproveAndCall {
		t.Fatalf("selectors must be distinct")
	}
}

func TestMessageHash_BindsAllInputs(t *testing.T) {
	action := TransferToken(tokenAddr, targetAddr, uint256.NewInt(100))
	base := MessageHash(walletA, action, 0)

	if got := MessageHash(walletA, action, 0); got != base {
		t.Fatalf("hash not deterministic")
	}
	if got := MessageHash(walletB, action, 0); got == base {
		t.Fatalf("hash must bind wallet address")
	}
	if got := MessageHash(walletA, action, 1); got == base {
		t.Fatalf("hash must bind nonce")
	}
	other := TransferToken(tokenAddr, targetAddr, uint256.NewInt(101))
	if got := MessageHash(walletA, other, 0); got == base {
		t.Fatalf("hash must bind arguments")
	}
	approve := ApproveToken(tokenAddr, targetAddr, uint256.NewInt(100))
	if got := MessageHash(walletA, approve, 0); got == base {
		t.Fatalf("hash must bind the action selector")
	}
}

func TestActionTarget(t *testing.T) {
	if got := TransferToken(tokenAddr, targetAddr, uint256.NewInt(1)).Target(); got != tokenAddr {
		t.Fatalf("Target = %s, want token", got.Hex())
	}
	if got := CallContract(targetAddr, uint256.NewInt(0), []byte("data")).Target(); got != targetAddr {
		t.Fatalf("Target = %s, want call target", got.Hex())
	}
	if got := (Action{}).Target(); got != (common.Address{}) {
		t.Fatalf("empty action must have zero target")
	}
}

func TestCallee(t *testing.T) {
	call := CallContract(targetAddr, uint256.NewInt(0), nil)
	if got := callee(call); got != targetAddr {
		t.Fatalf("callee = %s, want target", got.Hex())
	}
	aac := ApproveAndCall(tokenAddr, targetAddr, uint256.NewInt(5), []byte("x"))
	if got := callee(aac); got != targetAddr {
		t.Fatalf("callee = %s, want spender", got.Hex())
	}
}
