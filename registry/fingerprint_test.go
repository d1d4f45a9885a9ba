package registry

import (
	"testing"
	"time"
)

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := mustSet(t, "1.0.0", rec("A", 0x01), rec("B", 0x02), rec("C", 0x03))
	b := mustSet(t, "1.0.0", rec("C", 0x03), rec("B", 0x02), rec("A", 0x01))

	fa, err := FingerprintString(a)
	if err != nil {
		t.Fatalf("FingerprintString: %v", err)
	}
	fb, err := FingerprintString(b)
	if err != nil {
		t.Fatalf("FingerprintString: %v", err)
	}
	if fa != fb {
		t.Fatalf("fingerprint depends on insertion order: %s vs %s", fa, fb)
	}
}

func TestFingerprint_IgnoresVersionAndCreatedAt(t *testing.T) {
	a := mustSet(t, "1.0.0", rec("A", 0x01))
	b, err := NewModuleSet("9.9.9", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), []ModuleRecord{rec("A", 0x01)})
	if err != nil {
		t.Fatalf("NewModuleSet: %v", err)
	}

	fa, _ := FingerprintString(a)
	fb, _ := FingerprintString(b)
	if fa != fb {
		t.Fatalf("fingerprint must cover only (name, address) pairs")
	}
}

func TestFingerprint_ChangesWithPairs(t *testing.T) {
	base := mustSet(t, "1.0.0", rec("A", 0x01), rec("B", 0x02))
	fBase, _ := FingerprintString(base)

	variants := []*ModuleSet{
		mustSet(t, "1.0.0", rec("A", 0x01)),                            // record removed
		mustSet(t, "1.0.0", rec("A", 0x01), rec("B", 0x03)),            // address changed
		mustSet(t, "1.0.0", rec("A", 0x01), rec("B2", 0x02)),           // name changed
		mustSet(t, "1.0.0", rec("A", 0x01), rec("B", 0x02), rec("C", 0x03)), // record added
	}
	for i, v := range variants {
		fv, _ := FingerprintString(v)
		if fv == fBase {
			t.Fatalf("variant %d should change the fingerprint", i)
		}
	}
}
