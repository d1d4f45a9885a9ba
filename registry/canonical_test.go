package registry

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var testCreatedAt = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func mustSet(t *testing.T, version string, records ...ModuleRecord) *ModuleSet {
	t.Helper()
	s, err := NewModuleSet(version, testCreatedAt, records)
	if err != nil {
		t.Fatalf("NewModuleSet: %v", err)
	}
	return s
}

func rec(name string, addrByte byte) ModuleRecord {
	return ModuleRecord{Name: name, Address: common.BytesToAddress(bytes.Repeat([]byte{addrByte}, 20))}
}

func TestRenderParse_RoundTrip(t *testing.T) {
	set := mustSet(t, "1.2.3", rec("TransferModule", 0x01), rec("GuardianModule", 0x02))
	doc, err := Render(set)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Version() != "1.2.3" {
		t.Fatalf("Version: got %q", got.Version())
	}
	if !got.CreatedAt().Equal(testCreatedAt) {
		t.Fatalf("CreatedAt: got %v", got.CreatedAt())
	}
	if got.Len() != 2 || got.Records()[0].Name != "GuardianModule" {
		t.Fatalf("records not sorted by name: %+v", got.Records())
	}

	again, err := Render(got)
	if err != nil {
		t.Fatalf("re-Render: %v", err)
	}
	if !bytes.Equal(doc, again) {
		t.Fatalf("round-trip not byte identical:\n%s\n---\n%s", doc, again)
	}
}

func TestRender_Deterministic(t *testing.T) {
	a := mustSet(t, "0.1.0", rec("B", 0x02), rec("A", 0x01), rec("C", 0x03))
	b := mustSet(t, "0.1.0", rec("C", 0x03), rec("A", 0x01), rec("B", 0x02))
	da, err := Render(a)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	db, err := Render(b)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(da, db) {
		t.Fatalf("insertion order leaked into canonical bytes")
	}
}

func TestParse_RejectsNonCanonical(t *testing.T) {
	set := mustSet(t, "1.0.0", rec("A", 0x01), rec("B", 0x02))
	doc, err := Render(set)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	canon := string(doc)

	cases := []struct {
		name  string
		mut   func(string) string
		kinds []Kind
	}{
		{"crlf line endings", func(s string) string {
			return strings.ReplaceAll(s, "\n", "\r\n")
		}, []Kind{KindParse, KindCanonical}},
		{"trailing newline", func(s string) string {
			return s + "\n"
		}, []Kind{KindParse, KindCanonical}},
		{"unsorted records", func(s string) string {
			lines := strings.Split(s, "\n")
			// Swap the two Name/Address pairs.
			lines[4], lines[5], lines[6], lines[7] = lines[6], lines[7], lines[4], lines[5]
			return strings.Join(lines, "\n")
		}, []Kind{KindCanonical}},
		{"lowercase address", func(s string) string {
			return strings.ToLower(s)
		}, []Kind{KindParse, KindCanonical}},
		{"missing blank line", func(s string) string {
			return strings.Replace(s, "\n\nName:", "\nName:", 1)
		}, []Kind{KindParse}},
		{"missing postamble", func(s string) string {
			return strings.TrimSuffix(s, Postamble)
		}, []Kind{KindParse}},
		{"garbage preamble", func(s string) string {
			return "-----BEGIN SOMETHING ELSE-----" + strings.TrimPrefix(s, Preamble)
		}, []Kind{KindParse}},
		{"non-utc created at", func(s string) string {
			return strings.Replace(s, "Z\n", "+02:00\n", 1)
		}, []Kind{KindCanonical}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.mut(canon)))
			if err == nil {
				t.Fatalf("expected rejection")
			}
			for _, k := range tc.kinds {
				if IsKind(err, k) {
					return
				}
			}
			t.Fatalf("unexpected error kind: %v", err)
		})
	}
}

func TestNewModuleSet_Rejects(t *testing.T) {
	dup := rec("A", 0x01)
	cases := []struct {
		name    string
		version string
		records []ModuleRecord
	}{
		{"duplicate name", "1.0.0", []ModuleRecord{rec("A", 0x01), rec("A", 0x02)}},
		{"duplicate address", "1.0.0", []ModuleRecord{rec("A", 0x01), {Name: "B", Address: dup.Address}}},
		{"empty name", "1.0.0", []ModuleRecord{{Name: "", Address: dup.Address}}},
		{"name with colon", "1.0.0", []ModuleRecord{{Name: "A:B", Address: dup.Address}}},
		{"name with space", "1.0.0", []ModuleRecord{{Name: "A B", Address: dup.Address}}},
		{"zero address", "1.0.0", []ModuleRecord{{Name: "A"}}},
		{"bad version", "1.0", []ModuleRecord{dup}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewModuleSet(tc.version, testCreatedAt, tc.records); !IsKind(err, KindValidation) {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
}
