package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// KeyStore is a simple local-first key store.
//
// EXPERIMENTAL: this filesystem-backed storage surface may change in MINOR
// releases.
//
// Layout under Directory:
//
//	<member>/root.key          admin root seed (ed25519, hex)
//	<member>/roles/<role>.key  derived role seed (ed25519, hex)
//	<member>/wallet.key        secp256k1 private key (hex)
type KeyStore struct {
	Directory string
}

type KeyEntry struct {
	Identifier string
	Roles      []string
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".warden", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) rootKeyPath(identifier string) string {
	return filepath.Join(ks.Directory, identifier, "root.key")
}

func (ks *KeyStore) roleKeyPath(identifier, role string) string {
	return filepath.Join(ks.Directory, identifier, "roles", role+".key")
}

func (ks *KeyStore) walletKeyPath(identifier string) string {
	return filepath.Join(ks.Directory, identifier, "wallet.key")
}

func CheckKeyName(identifier string) error {
	if identifier == "" {
		return errors.New("identifier cannot be empty")
	}
	for _, char := range identifier {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in identifier", char)
	}
	return nil
}

func CheckRole(role string) error {
	if role == "" {
		return errors.New("role cannot be empty")
	}
	for _, char := range role {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in role", char)
	}
	return nil
}

func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(data))
	}
	return data, nil
}

func (ks *KeyStore) saveHexToFile(filePath, value string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(value + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func (ks *KeyStore) loadSeedFromFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(strings.TrimSpace(string(data)))
}

// InitializeRootKey stores an admin root seed and returns its member key.
func (ks *KeyStore) InitializeRootKey(identifier string, seed []byte, overwrite bool) (memberKey string, filePath string, err error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", "", err
	}
	if len(seed) != ed25519.SeedSize {
		return "", "", fmt.Errorf("expected seed length of %d bytes", ed25519.SeedSize)
	}
	filePath = ks.rootKeyPath(identifier)
	if err := ks.saveHexToFile(filePath, hex.EncodeToString(seed), overwrite); err != nil {
		return "", "", err
	}
	return MemberKeyFromSeed(seed), filePath, nil
}

// DeriveKeyFromRole derives and stores a role-scoped admin subkey.
func (ks *KeyStore) DeriveKeyFromRole(from, role string, overwrite bool) (memberKey string, filePath string, err error) {
	if err := CheckKeyName(from); err != nil {
		return "", "", err
	}
	if err := CheckRole(role); err != nil {
		return "", "", err
	}
	rootSeed, err := ks.loadSeedFromFile(ks.rootKeyPath(from))
	if err != nil {
		return "", "", err
	}
	roleSeed, err := DeriveRoleSeed(rootSeed, role)
	if err != nil {
		return "", "", err
	}
	filePath = ks.roleKeyPath(from, role)
	if err := ks.saveHexToFile(filePath, hex.EncodeToString(roleSeed), overwrite); err != nil {
		return "", "", err
	}
	return MemberKeyFromSeed(roleSeed), filePath, nil
}

// InitializeWalletKey stores a secp256k1 key and returns its address hex.
func (ks *KeyStore) InitializeWalletKey(identifier string, key *ecdsa.PrivateKey, overwrite bool) (addressHex string, filePath string, err error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", "", err
	}
	if key == nil {
		return "", "", errors.New("missing private key")
	}
	filePath = ks.walletKeyPath(identifier)
	if err := ks.saveHexToFile(filePath, hex.EncodeToString(crypto.FromECDSA(key)), overwrite); err != nil {
		return "", "", err
	}
	return AddressOf(key).Hex(), filePath, nil
}

// LoadWalletKey loads a stored secp256k1 key.
func (ks *KeyStore) LoadWalletKey(identifier string) (*ecdsa.PrivateKey, error) {
	if err := CheckKeyName(identifier); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ks.walletKeyPath(identifier))
	if err != nil {
		return nil, err
	}
	return OwnerKeyFromHex(string(data))
}

// LoadSeed resolves an admin seed from, in order: a literal hex seed, an
// explicit key file, or a stored member/role key.
func (ks *KeyStore) LoadSeed(seedHex, memberName, memberRole, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return ks.loadSeedFromFile(keyFile)
	}
	if memberName != "" {
		if err := CheckKeyName(memberName); err != nil {
			return nil, err
		}
		if memberRole == "" {
			return ks.loadSeedFromFile(ks.rootKeyPath(memberName))
		}
		if err := CheckRole(memberRole); err != nil {
			return nil, err
		}
		return ks.loadSeedFromFile(ks.roleKeyPath(memberName, memberRole))
	}
	return nil, errors.New("no signer provided")
}

// ExportKey returns the member key for a stored root seed, or for a derived
// role seed when role is non-empty.
func (ks *KeyStore) ExportKey(identifier, role string) (string, error) {
	seed, err := ks.LoadSeed("", identifier, role, "")
	if err != nil {
		return "", err
	}
	return MemberKeyFromSeed(seed), nil
}

// ListKeys lists stored members and their derived roles, sorted.
func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var identifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			identifiers = append(identifiers, entry.Name())
		}
	}
	sort.Strings(identifiers)

	var result []KeyEntry
	for _, identifier := range identifiers {
		rolesDir := filepath.Join(ks.Directory, identifier, "roles")
		roleEntries, rerr := os.ReadDir(rolesDir)
		var roles []string
		if rerr == nil {
			for _, roleEntry := range roleEntries {
				if roleEntry.IsDir() {
					continue
				}
				if strings.HasSuffix(roleEntry.Name(), ".key") {
					roles = append(roles, strings.TrimSuffix(roleEntry.Name(), ".key"))
				}
			}
			sort.Strings(roles)
		}
		result = append(result, KeyEntry{Identifier: identifier, Roles: roles})
	}
	return result, nil
}
