// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Extract scans template files for translation call-sites and writes one POT
template file per message domain.

Usage:

	extract [-c config.yaml] [-o dir] [-d dialect] file.tt...

Without a config file, a single domain named "messages" bound to the "loc"
function is scanned in dialect 2.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/tmplgettext/po"
	"codeberg.org/pixivfe/tmplgettext/scan"
)

// config is the YAML extraction configuration.
type config struct {
	// Dialect is the template tag dialect, 1 or 2.
	Dialect int `yaml:"dialect"`

	// Output is the directory POT files are written to.
	Output string `yaml:"output"`

	Domains []domainConfig `yaml:"domains"`
}

type domainConfig struct {
	// Name is the message domain; the output file is <name>.pot.
	Name string `yaml:"name"`

	// Function is the translation function name searched for in templates.
	Function string `yaml:"function"`
}

func defaultConfig() config {
	return config{
		Dialect: int(scan.DialectV2),
		Output:  "po",
		Domains: []domainConfig{{Name: "messages", Function: "loc"}},
	}
}

func main() {
	log.Logger = log.Output(consoleWriter(os.Stderr))

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
}

func run() error {
	cfgPath := flag.String("c", "", "YAML config file")
	outDir := flag.String("o", "", "output directory (overrides config)")
	dialect := flag.Int("d", 0, "template dialect, 1 or 2 (overrides config)")
	flag.Parse()

	if flag.NArg() == 0 {
		return errors.New("no template files given")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	if *outDir != "" {
		cfg.Output = *outDir
	}

	if *dialect != 0 {
		cfg.Dialect = *dialect
	}

	// Scanner construction validates the dialect before any file is read.
	scanners := make(map[string]*scan.Scanner, len(cfg.Domains))

	for _, dom := range cfg.Domains {
		s, err := scan.NewScanner(scan.Dialect(cfg.Dialect), dom.Function)
		if err != nil {
			return fmt.Errorf("domain %s: %w", dom.Name, err)
		}

		scanners[dom.Name] = s
	}

	acc := scan.NewAccumulator()
	failed := 0

	// One file at a time, fully consumed before the next. A syntax error
	// aborts that file only; the accumulated records of clean files are
	// still flushed at the end.
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path) // #nosec:G304
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read template")

			failed++

			continue
		}

		text := string(data)

		for _, dom := range cfg.Domains {
			sites, err := scanners[dom.Name].ScanFile(path, text)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("Scan aborted for file")

				failed++

				break
			}

			for _, cs := range sites {
				acc.Add(dom.Name, cs)
			}
		}
	}

	writer := po.NewWriter(cfg.Output)

	if err := acc.Flush(writer); err != nil {
		return err
	}

	for domain, entries := range writer.Stats() {
		log.Info().
			Str("domain", domain).
			Int("entries", entries).
			Msg("Wrote catalog template")
	}

	log.Info().
		Int("callSites", acc.Found()).
		Int("files", flag.NArg()).
		Msg("Extraction finished")

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}

	return nil
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec:G304
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Domains) == 0 {
		cfg.Domains = defaultConfig().Domains
	}

	return cfg, nil
}

// consoleWriter returns a zerolog console writer with color only when f is
// a terminal.
func consoleWriter(f *os.File) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    !isatty.IsTerminal(f.Fd()),
		TimeFormat: time.DateTime,
	}
}
