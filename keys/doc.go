// Package keys provides key helpers for warden.
//
// Two key families are supported:
//
//   - secp256k1 keys for wallet owners and EOA guardians, producing the
//     65-byte recoverable signatures consumed by the authorization core;
//   - ed25519 (default) and dilithium3 keys for members of the fixed
//     administrative multisignature group that authorizes registry
//     submissions.
//
// Stable:
//   - Pure, deterministic primitives for member-key formatting, role-seed
//     derivation, signing and verification.
//
// Experimental:
//   - Filesystem-backed key storage (KeyStore and related functions). These
//     are local-first utilities, not part of the long-term contract.
package keys
