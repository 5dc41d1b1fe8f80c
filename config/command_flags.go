// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

const defaultConfigPath = "./config.yaml"

// parseCommandLineArgs registers the -config flag once and returns its value.
func parseCommandLineArgs() string {
	f := flag.Lookup("config")
	if f == nil {
		flag.String("config", defaultConfigPath, "Path to a SelfossFE configuration file in YAML format.")
		f = flag.Lookup("config")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	return f.Value.String()
}
