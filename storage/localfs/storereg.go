package localfs

import (
	"flag"
	"fmt"

	"xdao.co/warden/storage"
	"xdao.co/warden/storage/storereg"
)

var (
	flagLocalDir string
)

func init() {
	storereg.MustRegister(storereg.Backend{
		Name:        "localfs",
		Description: "Local filesystem configuration store (directory)",
		Usage:       storereg.UsageCLI | storereg.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagLocalDir, "localfs-dir", "", "LocalFS store directory (for --backend=localfs)")
		},
		Open: func() (storage.Store, func() error, error) {
			if flagLocalDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			store, err := New(flagLocalDir)
			return store, nil, err
		},
	})
}
