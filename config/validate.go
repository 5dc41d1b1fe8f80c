// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"

	"aidanwoods.dev/go-paseto"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/selfossfe/selfossfe/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errSecretInvalid                = errors.New("basic.secret is not a valid v4 secret key")
	errInvalidItemsPerPage          = errors.New("backend.itemsPerPage must be positive")
	errInvalidMaxSessions           = errors.New("session.maxSessions must be positive")
	errInvalidLanguage              = errors.New("internationalization.language is not a valid language tag")
	errInvalidLimiterRate           = errors.New("limiter rate and burst must be positive")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	backendURL, err := utils.ParseURL(cfg.Backend.RawURL, "Backend")
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}

	cfg.Backend.URL = *backendURL

	if cfg.Backend.ItemsPerPage <= 0 {
		return errInvalidItemsPerPage
	}

	if cfg.Session.MaxSessions <= 0 {
		return errInvalidMaxSessions
	}

	if cfg.Basic.Secret != "" {
		if _, err := paseto.NewV4AsymmetricSecretKeyFromHex(cfg.Basic.Secret); err != nil {
			log.Error().
				Str("suggestion", paseto.NewV4AsymmetricSecretKey().ExportHex()).
				Msg("basic.secret is invalid; a freshly generated key is suggested above")

			return fmt.Errorf("%w: %w", errSecretInvalid, err)
		}
	} else {
		log.Warn().Msg("basic.secret is not set; sessions will not survive a restart")
	}

	if cfg.Internationalization.Language != "" {
		if _, err := language.Parse(cfg.Internationalization.Language); err != nil {
			return fmt.Errorf("%w: %w", errInvalidLanguage, err)
		}
	}

	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 || cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8282"
		}

		return nil
	}

	// the defaults are only meaningful for TCP
	if cfg.Basic.Host == "localhost" && cfg.Basic.Port == "8282" {
		cfg.Basic.Host, cfg.Basic.Port = "", ""
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseFileMode(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if u := cfg.Basic.UnixSocketUser; u != "" {
		if digitsRegexp.MatchString(u) {
			_, err = user.LookupId(u)
		} else {
			_, err = user.Lookup(u)
		}

		if err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if g := cfg.Basic.UnixSocketGroup; g != "" {
		if digitsRegexp.MatchString(g) {
			_, err = user.LookupGroupId(g)
		} else {
			_, err = user.LookupGroup(g)
		}

		if err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// parseFileMode accepts "660", "0660" or "rw-rw----".
func parseFileMode(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil
	case fileModeOctalRegexp.MatchString(raw):
		n, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(n), nil
	case fileModeStringRegexp.MatchString(raw):
		var mode os.FileMode

		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (8 - i)
			}
		}

		return mode, nil
	default:
		return 0, errUnixSocketInvalidPermissions
	}
}
