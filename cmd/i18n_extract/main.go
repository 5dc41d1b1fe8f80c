// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_extract collects the message keys passed to the i18n package
// and writes them as a gettext template. With -check it instead reports keys
// missing from a catalogue.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/selfossfe/selfossfe/core/audit"
)

func main() {
	outPath := flag.String("o", "po/selfossfe.pot", "output file")
	checkPath := flag.String("check", "", "report keys missing from this .po file instead of writing the template")
	flag.Parse()

	audit.SetDefaultLogger()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax}, "./...")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal().Msg("Failed to load packages due to errors")
	}

	refs := extractRefs(pkgs, findProjectRoot(wd), findI18nPkgPaths(pkgs))

	if *checkPath != "" {
		po := gotext.NewPo()
		po.ParseFile(*checkPath)

		missing := missingKeys(refs, po.IsTranslated)
		for _, k := range missing {
			log.Error().Str("key", k).Strs("refs", refs[k].positions()).Msg("Missing translation")
		}

		if len(missing) > 0 {
			os.Exit(1)
		}

		log.Info().Int("keys", len(refs)).Str("catalogue", *checkPath).Msg("All keys translated")

		return
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	if err := os.WriteFile(*outPath, []byte(renderPOT(refs, detectVersion())), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to write template")
	}

	log.Info().Int("keys", len(refs)).Str("path", *outPath).Msg("Wrote template")
}

// detectVersion resolves a version string using git describe, or "dev".
func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// findProjectRoot prefers the git toplevel, then the nearest go.mod, then wd.
func findProjectRoot(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	if out, err := cmd.Output(); err == nil {
		if root := strings.TrimSpace(string(out)); root != "" {
			return filepath.Clean(root)
		}
	}

	for dir := filepath.Clean(wd); ; dir = filepath.Dir(dir) {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		if filepath.Dir(dir) == dir {
			return wd
		}
	}
}

func (rs refList) positions() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = fmt.Sprintf("%s:%d", r.file, r.line)
	}

	return out
}
