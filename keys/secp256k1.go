package keys

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// OwnerKeyFromHex parses a secp256k1 private key from a hex string, with or
// without a 0x prefix. Used for wallet owners and EOA guardians alike.
func OwnerKeyFromHex(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid secp256k1 private key: %w", err)
	}
	return key, nil
}

// AddressOf returns the EOA address controlled by key.
func AddressOf(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// SignHash produces a 65-byte [R || S || V] recoverable signature over a
// 32-byte message hash.
func SignHash(key *ecdsa.PrivateKey, hash common.Hash) ([]byte, error) {
	return crypto.Sign(hash[:], key)
}

// RecoverSigner recovers the EOA address that produced a 65-byte
// [R || S || V] signature over hash.
func RecoverSigner(hash common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
