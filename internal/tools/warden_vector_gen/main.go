package main

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"xdao.co/warden/admin"
	"xdao.co/warden/keys"
	"xdao.co/warden/registry"
	"xdao.co/warden/relay"
	"xdao.co/warden/storage"
)

func mustKeypair(seedByte byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := bytes.Repeat([]byte{seedByte}, ed25519.SeedSize)
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(ed25519.PublicKey), priv
}

func addr(b byte) common.Address {
	return common.BytesToAddress(bytes.Repeat([]byte{b}, 20))
}

func main() {
	createdAt := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	set, err := registry.NewModuleSet("1.2.3", createdAt, []registry.ModuleRecord{
		{Name: "Treasury", Address: addr(0x11)},
		{Name: "Voting", Address: addr(0x22)},
		{Name: "ModuleManager", Address: addr(0x33)},
	})
	if err != nil {
		panic(err)
	}
	doc, err := registry.Render(set)
	if err != nil {
		panic(err)
	}
	fp, err := registry.FingerprintString(set)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Fingerprint=%s\n", fp)
	fmt.Printf("DocCID=%s\n", storage.SumString(doc))
	fmt.Printf("---BEGIN---\n%s---END---\n", string(doc))

	pub, priv := mustKeypair(0xA1)
	memberKey, err := keys.MemberKeyFromPublicKey(pub)
	if err != nil {
		panic(err)
	}
	submission := admin.SubmissionBytes(admin.KindModule, "Treasury", addr(0x11))
	fmt.Printf("MemberKey=%s\n", memberKey)
	fmt.Printf("Submission=%q\n", string(submission))
	fmt.Printf("Signature=%s\n", keys.SignEd25519SHA256(submission, priv))

	action := relay.TransferToken(addr(0x44), addr(0x55), uint256.NewInt(1_000_000))
	hash := relay.MessageHash(addr(0x66), action, 7)
	fmt.Printf("TransferSelector=%s\n", relay.SelTransferToken.Hex())
	fmt.Printf("MessageHash=%s\n", hash.Hex())
}
