// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example .env and config.yaml files from the
// defaults of config.ServerConfig.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# SelfossFE configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# SelfossFE configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	proxySettingsComment = `## Network proxy settings for reaching the backend
## ref: https://pkg.go.dev/net/http#ProxyFromEnvironment
# HTTPS_PROXY=
# HTTP_PROXY=`

	backendURLComment = `  # -- Base URL of the selfoss installation, with a trailing slash`
)

// uncommentedEnv are the variables every deployment has to look at.
var uncommentedEnv = map[string]bool{
	"SELFOSSFE_HOST":        true,
	"SELFOSSFE_PORT":        true,
	"SELFOSSFE_BACKEND_URL": true,
}

func main() {
	audit.SetDefaultLogger()

	write(envOutputFile, renderEnv(exampleConfig()))
	write(yamlOutputFile, renderYAML(exampleConfig()))
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example configuration")
	}

	log.Info().Str("path", path).Msg("Generated example configuration")
}

func exampleConfig() *config.ServerConfig {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	return cfg
}

// renderEnv lists one variable per env-tagged field, grouped by section.
func renderEnv(cfg *config.ServerConfig) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		section := val.Field(i)
		if section.Kind() != reflect.Struct || typ.Field(i).Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", typ.Field(i).Name)

		for j := range section.NumField() {
			tag, ok := section.Type().Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")
			value := section.Field(j)

			switch {
			case uncommentedEnv[name]:
				fmt.Fprintf(&sb, "%s=\"%v\"\n", name, value.Interface())
			case value.Kind() == reflect.Slice || (value.Kind() == reflect.String && value.Len() == 0):
				// empty values prompt for input
				fmt.Fprintf(&sb, "# %s=\n", name)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", name, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString(proxySettingsComment + "\n")

	return sb.String()
}

// renderYAML marshals cfg and comments out every value except the backend URL.
func renderYAML(cfg *config.ServerConfig) string {
	var encoded strings.Builder

	enc := yaml.NewEncoder(&encoded, config.GetDurationEncoderOption(), yaml.Indent(2))
	if err := enc.Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	section := ""

	for line := range strings.SplitSeq(encoded.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(line, " ") {
			section = strings.TrimSuffix(trimmed, ":")
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		if section == "backend" && strings.HasPrefix(trimmed, "url:") {
			sb.WriteString(backendURLComment + "\n")
			sb.WriteString(line + "\n")

			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indent), trimmed)
	}

	return sb.String()
}
