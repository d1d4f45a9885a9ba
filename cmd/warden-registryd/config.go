package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"xdao.co/warden/admin"
)

// warden-registryd config.toml key mapping.
type fileConfig struct {
	Listen         string             `toml:"listen"`
	JournalPath    string             `toml:"journal_path"`
	AdminThreshold int                `toml:"admin_threshold"`
	AdminMembers   []fileMemberConfig `toml:"admin_member"`
}

type fileMemberConfig struct {
	KeyID string `toml:"key_id"`
	Key   string `toml:"key"`
}

type serviceConfig struct {
	Listen      string
	JournalPath string
	Group       *admin.Group
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{Listen: "127.0.0.1:7878"}
}

// loadServiceConfig overlays config file values onto defaults. An absent
// admin group disables the registration endpoints; the store endpoints still
// serve.
func loadServiceConfig(path string) (serviceConfig, error) {
	cfg := defaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serviceConfig{}, fmt.Errorf("load registryd config: %w", err)
	}

	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("journal_path") {
		cfg.JournalPath = strings.TrimSpace(raw.JournalPath)
	}

	if len(raw.AdminMembers) > 0 {
		threshold := raw.AdminThreshold
		if !meta.IsDefined("admin_threshold") {
			return serviceConfig{}, fmt.Errorf("load registryd config: admin_threshold is required when admin_member entries are present")
		}
		members := make([]admin.Member, 0, len(raw.AdminMembers))
		for _, m := range raw.AdminMembers {
			members = append(members, admin.Member{
				KeyID: strings.TrimSpace(m.KeyID),
				Key:   strings.TrimSpace(m.Key),
			})
		}
		group, err := admin.NewGroup(threshold, members)
		if err != nil {
			return serviceConfig{}, fmt.Errorf("load registryd config: %w", err)
		}
		cfg.Group = group
	} else if meta.IsDefined("admin_threshold") {
		return serviceConfig{}, fmt.Errorf("load registryd config: admin_threshold set without admin_member entries")
	}

	return cfg, nil
}
