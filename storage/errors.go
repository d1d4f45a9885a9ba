package storage

import "errors"

var (
	// ErrNotFound reports that a fingerprint is absent from the store.
	ErrNotFound = errors.New("storage: fingerprint not found")

	// ErrInvalidFingerprint reports a key that is not a valid CID.
	ErrInvalidFingerprint = errors.New("storage: invalid fingerprint")

	// ErrFingerprintMismatch reports stored bytes that no longer hash to
	// their key. It indicates on-disk corruption or tampering.
	ErrFingerprintMismatch = errors.New("storage: fingerprint mismatch")

	// ErrImmutable reports an attempt to overwrite an existing document
	// with different bytes.
	ErrImmutable = errors.New("storage: documents are immutable")
)

// IsNotFound reports whether err indicates an absent fingerprint.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
