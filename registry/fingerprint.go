package registry

import (
	"github.com/ipfs/go-cid"

	"xdao.co/warden/storage"
)

// Fingerprint derives the content fingerprint of a set: a CIDv1 (raw,
// sha2-256) over the sorted (name, address) tuple stream.
//
// The fingerprint is independent of record insertion order and of Version
// and CreatedAt; it changes if and only if the set of (name, address) pairs
// changes. Two sets with identical fingerprints are identical configurations.
func Fingerprint(s *ModuleSet) (cid.Cid, error) {
	if s == nil {
		return cid.Undef, newError(KindValidation, "REG-VAL-001", "nil module set")
	}
	id, err := storage.SumCID(renderRecords(s.records))
	if err != nil {
		return cid.Undef, wrapError(KindValidation, "REG-VAL-002", "fingerprint computation failed", err)
	}
	return id, nil
}

// FingerprintString returns the string form of Fingerprint.
func FingerprintString(s *ModuleSet) (string, error) {
	id, err := Fingerprint(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
