package admin

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Submission kinds accepted by the registry.
const (
	KindModule   = "module"
	KindUpgrader = "upgrader"
)

const submissionPreamble = "warden registry submission v1"

// SubmissionBytes renders the canonical byte string that group members sign
// to authorize a registry entry. The encoding is line-oriented and
// deterministic so independently produced signatures agree.
func SubmissionBytes(kind, name string, addr common.Address) []byte {
	return []byte(fmt.Sprintf("%s\nKind: %s\nName: %s\nAddress: %s\n",
		submissionPreamble, kind, name, addr.Hex()))
}
