// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package main provides the combined-models command. It reads a provider
// listing, adds a "combined" provider whose models fall back across every
// provider offering the same model, and writes the resulting listing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/traylinx/combined-models/internal/buildinfo"
	"github.com/traylinx/combined-models/internal/combined"
	"github.com/traylinx/combined-models/internal/config"
	"github.com/traylinx/combined-models/internal/logging"
	"github.com/traylinx/combined-models/internal/registry"
	"github.com/traylinx/combined-models/internal/watcher"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

// options holds parsed command-line flags.
type options struct {
	registryPath   string
	outPath        string
	optionsPath    string
	hostConfigPath string
	watch          bool
	debounce       time.Duration
	pretty         bool
	debug          bool
	logToFile      bool
	logDir         string
	version        bool
}

func parseFlags(args []string, errOut io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("combined-models", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&o.registryPath, "registry", "-", "Provider listing JSON file (- for stdin)")
	fs.StringVar(&o.outPath, "out", "-", "Output file (- for stdout)")
	fs.StringVar(&o.optionsPath, "config", "", "Combined-models options JSON file (default $"+config.OptionsPathEnv+" or ~/.config/opencode/combined-models.json)")
	fs.StringVar(&o.hostConfigPath, "host-config", "", "Host YAML config with a combined-models section")
	fs.BoolVar(&o.watch, "watch", false, "Recombine whenever a config file changes (requires -registry file)")
	fs.DurationVar(&o.debounce, "debounce", watcher.DefaultDebounce, "Settle delay before recombining in -watch mode")
	fs.BoolVar(&o.pretty, "pretty", false, "Indent output JSON")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.logToFile, "log-to-file", false, "Write logs to a rotating file instead of stderr")
	fs.StringVar(&o.logDir, "log-dir", "logs", "Directory for log files")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.watch && o.registryPath == "-" {
		return nil, errors.New("-watch needs -registry to name a file")
	}
	return o, nil
}

func main() {
	// Load environment variables from .env if present.
	if wd, err := os.Getwd(); err == nil {
		if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil && !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if o.version {
		fmt.Println(buildinfo.String())
		return
	}

	logging.SetDebug(o.debug)
	if err := logging.ConfigureLogOutput(o.logToFile, o.logDir); err != nil {
		log.Errorf("failed to configure log output: %v", err)
	}

	loader := newLoader(o)
	plugin := combined.NewPlugin(loader)

	if err := runOnce(o, plugin, os.Stdin, os.Stdout); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	if !o.watch {
		return
	}

	w, err := watcher.New(loader.Paths(), func() {
		if err := runOnce(o, plugin, nil, os.Stdout); err != nil {
			log.Errorf("recombine failed: %v", err)
		}
	})
	if err != nil {
		log.Errorf("failed to create watcher: %v", err)
		os.Exit(1)
	}
	w.SetDebounce(o.debounce)
	if err := w.Start(); err != nil {
		log.Errorf("failed to start watcher: %v", err)
		os.Exit(1)
	}
	log.Infof("Watching %v for changes", loader.Paths())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	w.Stop()
}

func newLoader(o *options) *config.Loader {
	loader := config.NewLoader(o.hostConfigPath)
	if o.optionsPath != "" {
		loader.OptionsPath = o.optionsPath
	}
	return loader
}

// runOnce performs one provider-listing pass: read, combine, write.
func runOnce(o *options, plugin *combined.Plugin, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(o.registryPath, stdin)
	if err != nil {
		return err
	}
	reg, err := registry.Parse(data)
	if err != nil {
		return err
	}

	log.Debugf("Read %d models from providers %v", reg.ModelCount(), reg.ProviderIDs())
	if reg.Has(registry.CombinedProviderID) {
		log.Debugf("Input already lists a %q provider; it is replaced when models combine", registry.CombinedProviderID)
	}

	out := plugin.ProviderList(reg)
	if out == reg {
		log.Infof("No model is offered by enough providers to combine")
	} else {
		p := out.Provider(registry.CombinedProviderID)
		log.Infof("Combined %d models across %d providers", len(p.Models), reg.Len())
		for _, m := range p.Models {
			if fb, ok := combined.FallbackOf(m); ok {
				log.Debugf("%s -> %v", m.ID, fb.Models)
			}
		}
	}

	var rendered []byte
	if o.pretty {
		rendered, err = out.MarshalIndent("", "  ")
	} else {
		rendered, err = out.MarshalJSON()
	}
	if err != nil {
		return err
	}
	rendered = append(rendered, '\n')
	return writeOutput(o.outPath, rendered, stdout)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			return nil, errors.New("stdin already consumed")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read registry from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	return data, nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
