package main

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ipfs/go-cid"

	"xdao.co/warden/admin"
	"xdao.co/warden/keys"
	"xdao.co/warden/model"
	"xdao.co/warden/registry"
	"xdao.co/warden/storage"
	"xdao.co/warden/storage/grpcreg"
	"xdao.co/warden/storage/localfs"
	"xdao.co/warden/storage/storereg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "plan":
		return cmdPlan(args[1:], out, errOut)
	case "publish":
		return cmdPublish(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "fingerprint":
		return cmdFingerprint(args[1:], out, errOut)
	case "doc-cid":
		return cmdDocCID(args[1:], out, errOut)
	case "register":
		return cmdRegister(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "warden: module registry planning and key tooling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  warden plan (--history <file> ... | --backend <b> --journal <path>) --deploy Name=0xaddr [--deploy ...] [--disable <name> ...] [--min-version <semver>]")
	fmt.Fprintln(w, "  warden publish --backend <b> [--journal <path>] <file>")
	fmt.Fprintln(w, "  warden get --backend <b> <cid>")
	fmt.Fprintln(w, "  warden fingerprint <file>")
	fmt.Fprintln(w, "  warden doc-cid <file>")
	fmt.Fprintln(w, "  warden register --target <host:port> --kind module|upgrader --name <name> --address <0xaddr> --signer <keyid>=<member>[/<role>] [--signer ...]")
	fmt.Fprintln(w, "  warden key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  warden key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  warden key list")
	fmt.Fprintln(w, "  warden key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  warden key wallet-init --name <name> [--key-hex <64hex>] [--force]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - plan history files are canonical module-set documents, newest first")
	fmt.Fprintln(w, "  - fingerprint prints the configuration fingerprint (records only)")
	fmt.Fprintln(w, "  - doc-cid prints the storage key of the raw document bytes")
	fmt.Fprintln(w, "  - keys are stored under ~/.warden/keys/<name> (0600 private key files)")
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func parseDeploy(items []string) ([]registry.ModuleRecord, error) {
	records := make([]registry.ModuleRecord, 0, len(items))
	for _, item := range items {
		name, addr, ok := strings.Cut(item, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed --deploy %q (want Name=0xaddr)", item)
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("malformed address in --deploy %q", item)
		}
		records = append(records, registry.ModuleRecord{Name: name, Address: common.HexToAddress(addr)})
	}
	return records, nil
}

func cmdPlan(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var historyFiles, deploys, disables stringList
	var journalPath, minVersion, backend string

	fs.Var(&historyFiles, "history", "Canonical module-set document, newest first (repeatable)")
	fs.Var(&deploys, "deploy", "Newly deployed module as Name=0xaddr (repeatable)")
	fs.Var(&disables, "disable", "Module name to disable (repeatable)")
	fs.StringVar(&minVersion, "min-version", "", "Minimum target version")
	fs.StringVar(&backend, "backend", "", "Store backend to hydrate history from")
	fs.StringVar(&journalPath, "journal", "", "Publication journal path (with --backend)")
	storereg.RegisterFlags(fs, storereg.UsageCLI)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var history registry.History
	switch {
	case len(historyFiles) > 0:
		docs := make([][]byte, 0, len(historyFiles))
		for _, path := range historyFiles {
			b, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(errOut, "read history: %v\n", err)
				return 1
			}
			docs = append(docs, b)
		}
		var err error
		history, err = registry.HistoryFromDocuments(docs)
		if err != nil {
			fmt.Fprintf(errOut, "history: %v\n", err)
			return 1
		}
	case backend != "" && journalPath != "":
		store, closeFn, err := storereg.Open(backend, storereg.UsageCLI)
		if err != nil {
			fmt.Fprintf(errOut, "open backend: %v\n", err)
			return 1
		}
		if closeFn != nil {
			defer closeFn()
		}
		journal, err := localfs.NewJournal(journalPath)
		if err != nil {
			fmt.Fprintf(errOut, "open journal: %v\n", err)
			return 1
		}
		history, err = registry.LoadHistory(store, journal)
		if err != nil {
			fmt.Fprintf(errOut, "load history: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintln(errOut, "need --history files or --backend with --journal")
		return 2
	}

	deploy, err := parseDeploy(deploys)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	planner := registry.NewPlanner(time.Now)
	plan, err := planner.ComputePlan(registry.PlanRequest{
		History:        history,
		Deploy:         deploy,
		DisableNames:   disables,
		MinimumVersion: minVersion,
	})
	if err != nil {
		fmt.Fprintf(errOut, "plan: %v\n", err)
		return 1
	}

	resp := model.PlanResponse{
		TargetFingerprint: plan.TargetFingerprint,
		TargetVersion:     plan.Target.Version(),
		Actions:           make([]model.UpgradeAction, 0, len(plan.Actions)),
	}
	for _, a := range plan.Actions {
		resp.Actions = append(resp.Actions, model.UpgradeAction{
			FromFingerprint: a.FromFingerprint,
			ToFingerprint:   a.ToFingerprint,
			Add:             wireRecords(a.Add),
			Remove:          wireRecords(a.Remove),
			Mechanism:       string(a.Mechanism),
			UpgraderName:    a.UpgraderName,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	return 0
}

func wireRecords(records []registry.ModuleRecord) []model.ModuleRecord {
	out := make([]model.ModuleRecord, 0, len(records))
	for _, r := range records {
		out = append(out, model.ModuleRecord{Name: r.Name, Address: r.Address.Hex()})
	}
	return out
}

func cmdPublish(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var backend, journalPath string
	fs.StringVar(&backend, "backend", "localfs", "Store backend name")
	fs.StringVar(&journalPath, "journal", "", "Publication journal path (omit when the daemon journals)")
	storereg.RegisterFlags(fs, storereg.UsageCLI)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: warden publish --backend <b> [--journal <path>] <file>")
		return 2
	}

	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read document: %v\n", err)
		return 1
	}
	set, err := registry.Parse(b)
	if err != nil {
		fmt.Fprintf(errOut, "invalid document: %v\n", err)
		return 1
	}

	store, closeFn, err := storereg.Open(backend, storereg.UsageCLI)
	if err != nil {
		fmt.Fprintf(errOut, "open backend: %v\n", err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	var key string
	if journalPath != "" {
		journal, jerr := localfs.NewJournal(journalPath)
		if jerr != nil {
			fmt.Fprintf(errOut, "open journal: %v\n", jerr)
			return 1
		}
		key, err = registry.Publish(store, journal, set)
	} else {
		id, perr := store.Put(b)
		if perr == nil {
			key = id.String()
		}
		err = perr
	}
	if err != nil {
		fmt.Fprintf(errOut, "publish: %v\n", err)
		return 1
	}

	fp, err := registry.FingerprintString(set)
	if err != nil {
		fmt.Fprintf(errOut, "fingerprint: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Stored: %s\n", key)
	fmt.Fprintf(out, "Fingerprint: %s\n", fp)
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var backend string
	fs.StringVar(&backend, "backend", "localfs", "Store backend name")
	storereg.RegisterFlags(fs, storereg.UsageCLI)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: warden get --backend <b> <cid>")
		return 2
	}

	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid fingerprint: %v\n", err)
		return 2
	}

	store, closeFn, err := storereg.Open(backend, storereg.UsageCLI)
	if err != nil {
		fmt.Fprintf(errOut, "open backend: %v\n", err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	b, err := store.Get(id)
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdFingerprint(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fingerprint", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: warden fingerprint <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read document: %v\n", err)
		return 1
	}
	set, err := registry.Parse(b)
	if err != nil {
		fmt.Fprintf(errOut, "invalid document: %v\n", err)
		return 1
	}
	fp, err := registry.FingerprintString(set)
	if err != nil {
		fmt.Fprintf(errOut, "fingerprint: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, fp)
	return 0
}

func cmdDocCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("doc-cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: warden doc-cid <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read file: %v\n", err)
		return 1
	}
	id, err := storage.SumCID(b)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}

func cmdRegister(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var target, kind, name, address string
	var signers stringList
	var dialTimeout time.Duration

	fs.StringVar(&target, "target", "", "warden-registryd host:port")
	fs.StringVar(&kind, "kind", "module", "Entry kind: module or upgrader")
	fs.StringVar(&name, "name", "", "Entry name")
	fs.StringVar(&address, "address", "", "Entry address (0x hex)")
	fs.Var(&signers, "signer", "Admin signer as <keyid>=<member>[/<role>] (repeatable)")
	fs.DurationVar(&dialTimeout, "dial-timeout", 5*time.Second, "Dial timeout")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if target == "" || name == "" {
		fmt.Fprintln(errOut, "missing --target or --name")
		return 2
	}
	if kind != admin.KindModule && kind != admin.KindUpgrader {
		fmt.Fprintf(errOut, "invalid --kind %q\n", kind)
		return 2
	}
	if !common.IsHexAddress(address) {
		fmt.Fprintln(errOut, "missing or malformed --address")
		return 2
	}
	if len(signers) == 0 {
		fmt.Fprintln(errOut, "need at least one --signer")
		return 2
	}
	addr := common.HexToAddress(address)

	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	msg := admin.SubmissionBytes(kind, name, addr)
	sigs := make([]model.MemberSignature, 0, len(signers))
	for _, arg := range signers {
		keyID, source, ok := strings.Cut(arg, "=")
		if !ok || keyID == "" {
			fmt.Fprintf(errOut, "malformed --signer %q\n", arg)
			return 2
		}
		member, role, _ := strings.Cut(source, "/")
		seed, err := ks.LoadSeed("", member, role, "")
		if err != nil {
			fmt.Fprintf(errOut, "load signer %q: %v\n", arg, err)
			return 1
		}
		priv := ed25519.NewKeyFromSeed(seed)
		sigs = append(sigs, model.MemberSignature{
			KeyID: keyID,
			Sig:   keys.SignEd25519SHA256(msg, priv),
		})
	}

	client, err := grpcreg.Dial(target, grpcreg.DialOptions{Timeout: dialTimeout})
	if err != nil {
		fmt.Fprintf(errOut, "dial: %v\n", err)
		return 1
	}
	defer client.Close()

	if kind == admin.KindModule {
		err = client.RegisterModule(addr, name, sigs)
	} else {
		err = client.RegisterUpgrader(addr, name, sigs)
	}
	if err != nil {
		fmt.Fprintf(errOut, "register: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Registered %s %q at %s\n", kind, name, addr.Hex())
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "wallet-init":
		return cmdKeyWalletInit(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "warden key: minimal local key management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  warden key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  warden key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  warden key list")
	fmt.Fprintln(w, "  warden key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  warden key wallet-init --name <name> [--key-hex <64hex>] [--force]")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var seedHex string
	var force bool

	fs.StringVar(&name, "name", "", "Key name (directory under ~/.warden/keys)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible setups)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	} else {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	memberKey, rootPath, err := ks.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", memberKey)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var from string
	var role string
	var force bool

	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&role, "role", "", "Role identifier (e.g. ops, release)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if role == "" {
		fmt.Fprintln(errOut, "missing --role")
		return 2
	}
	if err := keys.CheckKeyName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckRole(role); err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	memberKey, rolePath, err := ks.DeriveKeyFromRole(from, role, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive role key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created role key: %s\n", memberKey)
	fmt.Fprintf(out, "Stored at: %s\n", rolePath)
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var role string

	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&role, "role", "", "Optional role (if set, exports derived role key)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if role != "" {
		if err := keys.CheckRole(role); err != nil {
			fmt.Fprintf(errOut, "invalid --role: %v\n", err)
			return 2
		}
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	memberKey, err := ks.ExportKey(name, role)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, memberKey)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Identifier)
		for _, r := range e.Roles {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	return 0
}

func cmdKeyWalletInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key wallet-init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var keyHex string
	var force bool

	fs.StringVar(&name, "name", "", "Key name (directory under ~/.warden/keys)")
	fs.StringVar(&keyHex, "key-hex", "", "Optional secp256k1 private key as 64 hex chars")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var key *ecdsa.PrivateKey
	if keyHex != "" {
		key, err = keys.OwnerKeyFromHex(keyHex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --key-hex: %v\n", err)
			return 2
		}
	} else {
		key, err = crypto.GenerateKey()
		if err != nil {
			fmt.Fprintf(errOut, "generate key: %v\n", err)
			return 1
		}
	}

	addrHex, path, err := ks.InitializeWalletKey(name, key, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created wallet key for address: %s\n", addrHex)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}
