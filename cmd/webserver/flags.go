package main

import (
	"flag"
	"io"

	"github.com/utkarsh5026/webpool/internal/config"
)

// loadConfig builds the configuration from an optional file and the
// command line. Flags given explicitly win over file values.
func loadConfig(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("webserver", flag.ContinueOnError)
	fs.SetOutput(stderr)

	path := fs.String("config", "", "path to a YAML or JSON config file")
	host := fs.String("host", "", "host to bind (default 127.0.0.1)")
	port := fs.Int("port", 0, "port to bind (default 7878)")
	workers := fs.Int("workers", 0, "number of pool workers (default 4)")
	root := fs.String("root", "", "document root (default current directory)")
	level := fs.String("log-level", "", "debug, info, warn or error")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.LoadFile(*path); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "workers":
			cfg.Workers = *workers
		case "root":
			cfg.Root = *root
		case "log-level":
			cfg.LogLevel = *level
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	return cfg, cfg.Validate()
}
