package localfs

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"

	"xdao.co/warden/storage"
)

// Journal is a file-backed append-only log of published fingerprints, one CID
// string per line, oldest first on disk.
type Journal struct {
	path string
}

// NewJournal opens (or creates) a journal file at path.
func NewJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("localfs: journal path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	return &Journal{path: path}, nil
}

func (j *Journal) Append(id cid.Cid) error {
	if !id.Defined() {
		return storage.ErrInvalidFingerprint
	}
	f, err := os.OpenFile(j.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(id.String() + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Latest returns up to n most recently appended fingerprints, newest first.
func (j *Journal) Latest(n int) ([]cid.Cid, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var all []cid.Cid
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		id, err := cid.Decode(line)
		if err != nil || !id.Defined() {
			return nil, storage.ErrInvalidFingerprint
		}
		all = append(all, id)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]cid.Cid, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
