// Package wallet tracks the guardian set protecting a single smart-contract
// wallet, including the pending-addition security delay.
package wallet

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Kind distinguishes how a guardian's signatures are validated.
//
// EOA guardians sign locally recoverable secp256k1 signatures. Contract
// guardians delegate validation to their own on-chain entry point.
type Kind uint8

const (
	KindEOA Kind = iota
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindEOA:
		return "eoa"
	case KindContract:
		return "contract"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of a guardian within one directory.
type Status uint8

const (
	StatusPending Status = iota
	StatusActive
	StatusRemoved
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Guardian is one tracked address.
type Guardian struct {
	Address      common.Address
	Kind         Kind
	Status       Status
	PendingSince time.Time
	ActiveSince  time.Time
}
