package registry

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Canonical module-set document markers.
const (
	Preamble  = "-----BEGIN WARDEN MODULE SET-----"
	Postamble = "-----END WARDEN MODULE SET-----"
)

const createdAtLayout = time.RFC3339

// Render produces the canonical document bytes for a set.
//
// Layout: preamble line, CreatedAt and Version header lines, one blank line,
// then Name/Address line pairs sorted by name, then the postamble. Addresses
// are checksum hex. Rendered bytes are always canonical; Parse rejects
// anything Render would not emit.
func Render(s *ModuleSet) ([]byte, error) {
	if s == nil {
		return nil, newError(KindValidation, "REG-VAL-001", "nil module set")
	}
	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")
	sb.WriteString("CreatedAt: ")
	sb.WriteString(s.createdAt.Format(createdAtLayout))
	sb.WriteString("\n")
	sb.WriteString("Version: ")
	sb.WriteString(s.version)
	sb.WriteString("\n\n")
	sb.Write(renderRecords(s.records))
	sb.WriteString(Postamble)
	return []byte(sb.String()), nil
}

// renderRecords serializes the sorted (name, address) tuple stream. This is
// the exact byte stream the fingerprint covers.
func renderRecords(records []ModuleRecord) []byte {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString("Name: ")
		sb.WriteString(r.Name)
		sb.WriteString("\n")
		sb.WriteString("Address: ")
		sb.WriteString(r.Address.Hex())
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// Parse reads a canonical document back into a ModuleSet.
//
// Parsing is strict: the input must be byte-identical to what Render emits
// for the parsed set, otherwise the document is rejected as non-canonical.
func Parse(data []byte) (*ModuleSet, error) {
	lines := strings.Split(string(data), "\n")
	if len(lines) < 5 {
		return nil, newError(KindParse, "REG-STR-001", "document too short")
	}
	if lines[0] != Preamble {
		return nil, newError(KindParse, "REG-STR-002", "missing or inexact preamble")
	}

	createdAtVal, ok := strings.CutPrefix(lines[1], "CreatedAt: ")
	if !ok {
		return nil, newError(KindParse, "REG-STR-003", "missing CreatedAt header")
	}
	createdAt, err := time.Parse(createdAtLayout, createdAtVal)
	if err != nil {
		return nil, wrapError(KindParse, "REG-STR-004", "malformed CreatedAt", err)
	}

	versionVal, ok := strings.CutPrefix(lines[2], "Version: ")
	if !ok {
		return nil, newError(KindParse, "REG-STR-005", "missing Version header")
	}
	if lines[3] != "" {
		return nil, newError(KindParse, "REG-STR-006", "missing blank line after header")
	}

	i := 4
	var records []ModuleRecord
	for i < len(lines) && lines[i] != Postamble {
		name, ok := strings.CutPrefix(lines[i], "Name: ")
		if !ok {
			return nil, newError(KindParse, "REG-STR-007", fmt.Sprintf("expected Name line, got %q", lines[i]))
		}
		i++
		if i >= len(lines) {
			return nil, newError(KindParse, "REG-STR-008", "Name line without Address line")
		}
		addrVal, ok := strings.CutPrefix(lines[i], "Address: ")
		if !ok {
			return nil, newError(KindParse, "REG-STR-008", fmt.Sprintf("expected Address line, got %q", lines[i]))
		}
		if !common.IsHexAddress(addrVal) {
			return nil, newError(KindParse, "REG-STR-009", fmt.Sprintf("malformed address %q", addrVal))
		}
		records = append(records, ModuleRecord{Name: name, Address: common.HexToAddress(addrVal)})
		i++
	}
	if i >= len(lines) {
		return nil, newError(KindParse, "REG-STR-010", "missing postamble")
	}

	set, err := NewModuleSet(versionVal, createdAt, records)
	if err != nil {
		return nil, err
	}

	// Canonicalization is enforced by round-trip: re-render and compare.
	// This rejects CRLF, unsorted records, non-checksum addresses, trailing
	// data, and any other deviation in one place.
	canon, err := Render(set)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(canon, data) {
		return nil, newError(KindCanonical, "REG-CANON-001", "document is not in canonical form")
	}
	return set, nil
}
