package grpcreg

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/warden/storage"
)

var (
	// ErrUnauthorized reports a registration whose admin group signatures
	// did not verify.
	ErrUnauthorized = errors.New("grpcreg: registration not authorized")

	// ErrAlreadyRegistered reports a name already bound to a different
	// address.
	ErrAlreadyRegistered = errors.New("grpcreg: name already registered")

	errUnknownKind = errors.New("grpcreg: unknown registration kind")
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.InvalidArgument:
		// Server uses InvalidArgument for malformed fingerprints and requests.
		return storage.ErrInvalidFingerprint
	case codes.DataLoss:
		// Server uses DataLoss when bytes do not match the requested fingerprint.
		return storage.ErrFingerprintMismatch
	case codes.PermissionDenied:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return ErrAlreadyRegistered
	default:
		// Best-effort: if the server sent a known sentinel message, preserve it.
		switch st.Message() {
		case storage.ErrNotFound.Error():
			return storage.ErrNotFound
		case storage.ErrInvalidFingerprint.Error():
			return storage.ErrInvalidFingerprint
		case storage.ErrFingerprintMismatch.Error():
			return storage.ErrFingerprintMismatch
		case storage.ErrImmutable.Error():
			return storage.ErrImmutable
		default:
			return err
		}
	}
}
