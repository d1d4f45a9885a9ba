// Package admin implements the fixed administrative multisignature group that
// authorizes registry submissions. The group is M-of-N over named member keys
// and is distinct from wallet guardian quorum.
package admin

import (
	"crypto/ed25519"
	"fmt"
	"sort"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/warden/keys"
)

// Member is one key holder in the administrative group.
// Key is a member key string as produced by the keys package:
// "ed25519:<base64>" or "dilithium3:<base64>".
type Member struct {
	KeyID string
	Key   string
}

// MemberSignature is one member's signature over a submission.
type MemberSignature struct {
	KeyID string
	Sig   []byte
}

type parsedMember struct {
	alg string
	pub []byte
}

// Group verifies M-of-N member signatures. The member set and threshold are
// fixed at construction.
type Group struct {
	threshold int
	members   map[string]parsedMember
}

// NewGroup constructs a group requiring threshold valid member signatures.
func NewGroup(threshold int, members []Member) (*Group, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("admin: threshold must be positive")
	}
	if threshold > len(members) {
		return nil, fmt.Errorf("admin: threshold %d exceeds member count %d", threshold, len(members))
	}
	parsed := make(map[string]parsedMember, len(members))
	for _, m := range members {
		if m.KeyID == "" {
			return nil, fmt.Errorf("admin: member key id is required")
		}
		if _, dup := parsed[m.KeyID]; dup {
			return nil, fmt.Errorf("admin: duplicate member key id %q", m.KeyID)
		}
		alg, pub, err := keys.ParseMemberKey(m.Key)
		if err != nil {
			return nil, fmt.Errorf("admin: member %q: %w", m.KeyID, err)
		}
		parsed[m.KeyID] = parsedMember{alg: alg, pub: pub}
	}
	return &Group{threshold: threshold, members: parsed}, nil
}

// Threshold returns the number of valid signatures required.
func (g *Group) Threshold() int { return g.threshold }

// Size returns the number of members in the group.
func (g *Group) Size() int { return len(g.members) }

// KeyIDs returns the member key ids, sorted.
func (g *Group) KeyIDs() []string {
	ids := make([]string, 0, len(g.members))
	for id := range g.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Verify checks that at least Threshold distinct members signed message.
//
// A signature naming an unknown member, or the same member twice, rejects the
// whole submission. A signature that merely fails to verify does not count
// toward the threshold.
func (g *Group) Verify(message []byte, sigs []MemberSignature) error {
	seen := make(map[string]bool, len(sigs))
	valid := 0
	for _, s := range sigs {
		m, ok := g.members[s.KeyID]
		if !ok {
			return groupErr(CodeUnknownMember, "unknown member key id %q", s.KeyID)
		}
		if seen[s.KeyID] {
			return groupErr(CodeDuplicateMember, "duplicate signature from member %q", s.KeyID)
		}
		seen[s.KeyID] = true
		if g.verifyOne(m, message, s.Sig) {
			valid++
		}
	}
	if valid < g.threshold {
		return groupErr(CodeThresholdNotMet, "%d valid signatures, need %d", valid, g.threshold)
	}
	return nil
}

func (g *Group) verifyOne(m parsedMember, message, sig []byte) bool {
	switch m.alg {
	case "ed25519":
		return keys.VerifyEd25519SHA256(message, ed25519.PublicKey(m.pub), sig)
	case "dilithium3":
		var pub mode3.PublicKey
		if err := pub.UnmarshalBinary(m.pub); err != nil {
			return false
		}
		return keys.VerifyDilithium3(message, "sha3-256", &pub, sig)
	default:
		return false
	}
}
