// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnv(t *testing.T) {
	t.Setenv("SELFOSSFE_PORT", "9000")
	t.Setenv("SELFOSSFE_BACKEND_TIMEOUT", "3s")
	t.Setenv("SELFOSSFE_LOG_OUTPUTS", " /dev/stdout , ,/tmp/x.log")
	t.Setenv("SELFOSSFE_LIMITER_RATE", "1.5")
	t.Setenv("SELFOSSFE_UNIXSOCKET", "/run/other.sock")

	cfg := &ServerConfig{}
	cfg.SetDefaults()
	cfg.Basic.UnixSocket = "/run/selfossfe.sock"

	require.NoError(t, readEnv(cfg))

	assert.Equal(t, "9000", cfg.Basic.Port)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"/dev/stdout", "/tmp/x.log"}, cfg.Log.Outputs)
	assert.InDelta(t, 1.5, cfg.Limiter.Rate, 0.0001)
	// no overwrite option: the already set value is kept
	assert.Equal(t, "/run/selfossfe.sock", cfg.Basic.UnixSocket)
}

func TestReadEnvInvalid(t *testing.T) {
	t.Setenv("SELFOSSFE_BACKEND_TIMEOUT", "soon")

	cfg := &ServerConfig{}
	assert.Error(t, readEnv(cfg))
	assert.Error(t, readEnv(*cfg))
}

func TestValidateAndSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(cfg *ServerConfig)
		wantErr error
		anyErr  bool
	}{
		{
			name:   "defaults",
			modify: func(*ServerConfig) {},
		},
		{
			name:   "backend url without scheme",
			modify: func(cfg *ServerConfig) { cfg.Backend.RawURL = "selfoss.local" },
			anyErr: true,
		},
		{
			name:    "unix socket with host",
			modify:  func(cfg *ServerConfig) { cfg.Basic.UnixSocket = "/tmp/s.sock"; cfg.Basic.Host = "0.0.0.0" },
			wantErr: errUnixSocketWithHostPort,
		},
		{
			name:    "bad secret",
			modify:  func(cfg *ServerConfig) { cfg.Basic.Secret = "abcd" },
			wantErr: errSecretInvalid,
		},
		{
			name:    "bad language",
			modify:  func(cfg *ServerConfig) { cfg.Internationalization.Language = "not a tag!" },
			wantErr: errInvalidLanguage,
		},
		{
			name:    "bad ipv6 prefix",
			modify:  func(cfg *ServerConfig) { cfg.Limiter.IPv6Prefix = 129 },
			wantErr: errInvalidIPv6Prefix,
		},
		{
			name:    "zero page size",
			modify:  func(cfg *ServerConfig) { cfg.Backend.ItemsPerPage = 0 },
			wantErr: errInvalidItemsPerPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &ServerConfig{}
			cfg.SetDefaults()
			tt.modify(cfg)

			err := cfg.validateAndSet()

			switch {
			case tt.anyErr:
				assert.Error(t, err)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "localhost:8000", cfg.Backend.URL.Host)
			}
		})
	}
}

func TestParseFileMode(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]os.FileMode{
		"":          0o666,
		"660":       0o660,
		"0600":      0o600,
		"rw-rw----": 0o660,
		"rwxr-x---": 0o750,
	} {
		got, err := parseFileMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := parseFileMode("999")
	assert.ErrorIs(t, err, errUnixSocketInvalidPermissions)
}

func TestReadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  url: https://rss.example.org/selfoss
  itemsPerPage: 20
internationalization:
  language: de
`), 0o600))

	cfg := &ServerConfig{}
	cfg.SetDefaults()

	require.NoError(t, cfg.readYAML(path))
	assert.Equal(t, "https://rss.example.org/selfoss", cfg.Backend.RawURL)
	assert.Equal(t, 20, cfg.Backend.ItemsPerPage)
	assert.Equal(t, "de", cfg.Internationalization.Language)

	require.NoError(t, cfg.readYAML(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestRedactedAndBackendURL(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}
	cfg.SetDefaults()
	require.NoError(t, cfg.validateAndSet())

	cfg.Basic.Secret = "s3cr3t"

	assert.Equal(t, redactedValue, cfg.Redacted().Basic.Secret)
	assert.Equal(t, "s3cr3t", cfg.Basic.Secret)
	assert.Equal(t, "http://localhost:8000/items", cfg.BackendURL("/items"))
}

func TestBuildRevision(t *testing.T) {
	t.Parallel()

	b := buildInfo{}
	assert.Equal(t, "unknown", b.Revision())

	b = buildInfo{VcsRevision: "0123456789abcdef", VcsTime: "2025-03-01T10:00:00Z", VcsModified: true}
	assert.Equal(t, "2025-03-01-01234567+dirty", b.Revision())
}
