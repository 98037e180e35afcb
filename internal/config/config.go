// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config // import "sub2utf.app/v2/internal/config"

// Opts holds parsed configuration options.
var Opts = NewOptions()

// Load loads settings from a YAML file (if yamlFile isn't empty), then
// configuration values from a .env file (if envFile isn't empty) and from
// environment variables after that.
func Load(yamlFile, envFile string) error {
	cfg := NewParser()
	if yamlFile != "" {
		if err := cfg.ParseYAML(yamlFile); err != nil {
			return err
		}
	}

	var opts *Options
	var err error
	if envFile != "" {
		opts, err = cfg.ParseEnvFile(envFile)
	} else {
		opts, err = cfg.ParseEnvironmentVariables()
	}
	if err != nil {
		return err
	}
	Opts = opts
	return nil
}
