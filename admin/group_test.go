package admin

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"xdao.co/warden/keys"
)

type testMember struct {
	id   string
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func makeMembers(t *testing.T, n int) []testMember {
	t.Helper()
	out := make([]testMember, 0, n)
	for i := 0; i < n; i++ {
		seed := bytes.Repeat([]byte{byte(i + 1)}, ed25519.SeedSize)
		priv := ed25519.NewKeyFromSeed(seed)
		out = append(out, testMember{
			id:   string(rune('a' + i)),
			pub:  priv.Public().(ed25519.PublicKey),
			priv: priv,
		})
	}
	return out
}

func makeGroup(t *testing.T, threshold int, members []testMember) *Group {
	t.Helper()
	gm := make([]Member, 0, len(members))
	for _, m := range members {
		key, err := keys.MemberKeyFromPublicKey(m.pub)
		if err != nil {
			t.Fatalf("MemberKeyFromPublicKey: %v", err)
		}
		gm = append(gm, Member{KeyID: m.id, Key: key})
	}
	g, err := NewGroup(threshold, gm)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	return g
}

func sign(t *testing.T, m testMember, msg []byte) MemberSignature {
	t.Helper()
	sig, err := base64.StdEncoding.DecodeString(keys.SignEd25519SHA256(msg, m.priv))
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	return MemberSignature{KeyID: m.id, Sig: sig}
}

func TestGroup_TwoOfThree(t *testing.T) {
	members := makeMembers(t, 3)
	g := makeGroup(t, 2, members)
	msg := SubmissionBytes(KindModule, "TransferModule", common.HexToAddress("0x01"))

	if err := g.Verify(msg, []MemberSignature{sign(t, members[0], msg), sign(t, members[2], msg)}); err != nil {
		t.Fatalf("2-of-3 should verify: %v", err)
	}

	err := g.Verify(msg, []MemberSignature{sign(t, members[1], msg)})
	if CodeOf(err) != CodeThresholdNotMet {
		t.Fatalf("1-of-3: got %v want %s", err, CodeThresholdNotMet)
	}
}

func TestGroup_InvalidSignatureDoesNotCount(t *testing.T) {
	members := makeMembers(t, 3)
	g := makeGroup(t, 2, members)
	msg := SubmissionBytes(KindModule, "TransferModule", common.HexToAddress("0x01"))
	other := SubmissionBytes(KindModule, "DrainModule", common.HexToAddress("0x02"))

	// Member 1 signed a different submission; only member 0 counts.
	err := g.Verify(msg, []MemberSignature{sign(t, members[0], msg), sign(t, members[1], other)})
	if CodeOf(err) != CodeThresholdNotMet {
		t.Fatalf("stale signature counted: got %v want %s", err, CodeThresholdNotMet)
	}
}

func TestGroup_UnknownAndDuplicateMembers(t *testing.T) {
	members := makeMembers(t, 3)
	g := makeGroup(t, 2, members)
	msg := SubmissionBytes(KindUpgrader, "up-1", common.HexToAddress("0x03"))

	outsider := sign(t, members[0], msg)
	outsider.KeyID = "zz"
	err := g.Verify(msg, []MemberSignature{sign(t, members[0], msg), outsider})
	if CodeOf(err) != CodeUnknownMember {
		t.Fatalf("unknown member: got %v want %s", err, CodeUnknownMember)
	}

	err = g.Verify(msg, []MemberSignature{sign(t, members[0], msg), sign(t, members[0], msg)})
	if CodeOf(err) != CodeDuplicateMember {
		t.Fatalf("duplicate member: got %v want %s", err, CodeDuplicateMember)
	}
}

func TestGroup_Dilithium3Member(t *testing.T) {
	members := makeMembers(t, 2)
	pub, priv, err := keys.GenerateDilithium3Keypair(nil)
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}
	dKey, err := keys.MemberKeyFromDilithium3PublicKey(pub)
	if err != nil {
		t.Fatalf("MemberKeyFromDilithium3PublicKey: %v", err)
	}
	edKey, err := keys.MemberKeyFromPublicKey(members[0].pub)
	if err != nil {
		t.Fatalf("MemberKeyFromPublicKey: %v", err)
	}
	g, err := NewGroup(2, []Member{
		{KeyID: "ed", Key: edKey},
		{KeyID: "pq", Key: dKey},
	})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}

	msg := SubmissionBytes(KindModule, "GuardianModule", common.HexToAddress("0x04"))
	b64, err := keys.SignDilithium3(msg, "sha3-256", priv)
	if err != nil {
		t.Fatalf("SignDilithium3: %v", err)
	}
	pqSig, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	edSig := sign(t, members[0], msg)
	edSig.KeyID = "ed"
	sigs := []MemberSignature{
		edSig,
		{KeyID: "pq", Sig: pqSig},
	}
	if err := g.Verify(msg, sigs); err != nil {
		t.Fatalf("mixed-algorithm group should verify: %v", err)
	}
}

func TestNewGroup_Rejects(t *testing.T) {
	members := makeMembers(t, 2)
	key, err := keys.MemberKeyFromPublicKey(members[0].pub)
	if err != nil {
		t.Fatalf("MemberKeyFromPublicKey: %v", err)
	}

	if _, err := NewGroup(0, []Member{{KeyID: "a", Key: key}}); err == nil {
		t.Fatalf("expected error for zero threshold")
	}
	if _, err := NewGroup(2, []Member{{KeyID: "a", Key: key}}); err == nil {
		t.Fatalf("expected error for threshold above member count")
	}
	if _, err := NewGroup(1, []Member{{KeyID: "a", Key: key}, {KeyID: "a", Key: key}}); err == nil {
		t.Fatalf("expected error for duplicate key id")
	}
	if _, err := NewGroup(1, []Member{{KeyID: "a", Key: "rsa:AAAA"}}); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}
