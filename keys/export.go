package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// MemberKeyFromPublicKey encodes an Ed25519 public key into the admin
// member-key string.
func MemberKeyFromPublicKey(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return "ed25519:" + base64.StdEncoding.EncodeToString(pub), nil
}

// MemberKeyFromDilithium3PublicKey encodes a Dilithium3 public key into the
// admin member-key string ("dilithium3:" + base64(pubkey)).
func MemberKeyFromDilithium3PublicKey(pub *mode3.PublicKey) (string, error) {
	if pub == nil {
		return "", fmt.Errorf("missing public key")
	}
	return "dilithium3:" + base64.StdEncoding.EncodeToString(pub.Bytes()), nil
}

// ParseMemberKey splits a member-key string into its algorithm label and raw
// public key bytes. Supported algorithms: "ed25519", "dilithium3".
func ParseMemberKey(memberKey string) (alg string, pub []byte, err error) {
	alg, b64, ok := strings.Cut(memberKey, ":")
	if !ok {
		return "", nil, fmt.Errorf("member key missing algorithm prefix")
	}
	switch alg {
	case "ed25519", "dilithium3":
	default:
		return "", nil, fmt.Errorf("unsupported member key algorithm: %q", alg)
	}
	pub, err = base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("member key not valid base64: %w", err)
	}
	switch alg {
	case "ed25519":
		if len(pub) != ed25519.PublicKeySize {
			return "", nil, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
		}
	case "dilithium3":
		if len(pub) != mode3.PublicKeySize {
			return "", nil, fmt.Errorf("dilithium3 public key must be %d bytes, got %d", mode3.PublicKeySize, len(pub))
		}
	}
	return alg, pub, nil
}
