// Package storage defines the persisted-configuration interface: published
// module-set documents are stored immutably, keyed by their fingerprint.
package storage

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Store is a minimal content-addressed store for canonical configuration
// documents.
//
// Contract:
//   - Put MUST be idempotent.
//   - Stored documents MUST be immutable.
//   - Keys MUST be derived from the bytes written; callers are responsible
//     for supplying canonical bytes so the key equals the configuration
//     fingerprint.
//   - Get MUST return ErrNotFound when the fingerprint is absent.
type Store interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// Journal is the append-only record of published configuration fingerprints,
// newest last. The upgrade planner only ever reads it; publication appends.
type Journal interface {
	Append(id cid.Cid) error

	// Latest returns up to n most recently appended fingerprints, newest
	// first.
	Latest(n int) ([]cid.Cid, error)
}

// SumCID returns the fingerprint CID for a document: CIDv1 with the raw
// multicodec over a sha2-256 multihash.
func SumCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// SumString returns the string form of SumCID, or "" for invalid input.
// multihash.Sum only errors for invalid inputs; with SHA2_256 and default
// length this is unreachable for ordinary documents.
func SumString(data []byte) string {
	id, err := SumCID(data)
	if err != nil {
		return ""
	}
	return id.String()
}
