package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"xdao.co/warden/storage/grpcreg"
	"xdao.co/warden/storage/localfs"
	"xdao.co/warden/storage/storereg"
)

func main() {
	fs := flag.NewFlagSet("warden-registryd", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML config path (listen, journal, admin group)")
	listen := fs.String("listen", "", "listen address (overrides config)")
	backend := fs.String("backend", "localfs", "configuration store backend name")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	storereg.RegisterFlags(fs, storereg.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range storereg.List(storereg.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "warden-registryd").Logger()

	cfg := defaultServiceConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadServiceConfig(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load config")
		}
		logger.Info().Str("path", *configPath).Msg("loaded config")
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	store, closeFn, err := storereg.Open(*backend, storereg.UsageDaemon)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", *backend).Msg("failed to open store backend")
	}
	if closeFn != nil {
		defer closeFn()
	}

	srv := &grpcreg.Server{
		Store:   store,
		Entries: grpcreg.NewRegistrar(),
		Group:   cfg.Group,
	}
	if cfg.JournalPath != "" {
		journal, err := localfs.NewJournal(cfg.JournalPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("failed to open journal")
		}
		srv.Journal = journal
	}
	if cfg.Group == nil {
		logger.Warn().Msg("no admin group configured; registration endpoints disabled")
	} else {
		logger.Info().Int("members", cfg.Group.Size()).Int("threshold", cfg.Group.Threshold()).Msg("admin group loaded")
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		logger.Fatal().Err(err).Str("listen", cfg.Listen).Msg("failed to listen")
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcreg.RegisterRegistryServer(s, srv)

	logger.Info().Str("listen", lis.Addr().String()).Str("backend", *backend).Msg("registry daemon listening")
	if err := s.Serve(lis); err != nil {
		logger.Fatal().Err(err).Msg("serve failed")
	}
}
