// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/selfossfe/selfossfe/server/assets"
)

// PoDomain is the gettext domain loaded for each locale.
const PoDomain = "selfossfe"

const poDir = "po"

var errNoAssets = errors.New("embedded assets are not set")

var (
	// localesByTag maps canonical BCP 47 tags to their catalogue.
	localesByTag map[string]*gotext.Locale

	// supportedTags lists the loaded tags in matcher order, base locale first.
	supportedTags []language.Tag

	matcher language.Matcher
)

// Setup loads the gettext catalogues from po/<locale>.po in the embedded
// assets and builds the language matcher. Calling it again reloads.
func Setup() error {
	if assets.FS == nil {
		return errNoAssets
	}

	return setupFS(assets.FS)
}

func setupFS(fsys fs.FS) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	loaded, all, err := loadCatalogues(fsys)
	if err != nil {
		return err
	}

	localesByTag = loaded
	supportedTags = all
	matcher = language.NewMatcher(all)

	Logger.Info().Int("count", len(all)).Msg("Loaded locales")

	return nil
}

// loadCatalogues parses every po/<locale>.po. The returned tags start with
// the base locale, which must be present.
func loadCatalogues(fsys fs.FS) (map[string]*gotext.Locale, []language.Tag, error) {
	entries, err := fs.ReadDir(fsys, poDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read po directory: %w", err)
	}

	loaded := make(map[string]*gotext.Locale, len(entries))
	tags := make([]language.Tag, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".po") {
			continue
		}

		t, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(name, ".po"), "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", name).Msg("Skipping invalid locale file")

			continue
		}

		canonical := t.String()

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(poDir, name))

		loc := gotext.NewLocale("", canonical)
		loc.AddTranslator(PoDomain, po)

		loaded[canonical] = loc

		if t != baseTag {
			tags = append(tags, t)
		}

		Logger.Debug().
			Str("locale", canonical).
			Str("domain", PoDomain).
			Msg("Loaded locale")
	}

	if _, ok := loaded[BaseLocale]; !ok {
		return nil, nil, fmt.Errorf("missing catalogue for base locale %q", BaseLocale)
	}

	slices.SortFunc(tags, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	// the first tag is the matcher's default
	return loaded, append([]language.Tag{baseTag}, tags...), nil
}
