// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config // import "sub2utf.app/v2/internal/config"

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

// Parser handles configuration parsing.
type Parser struct {
	opts *Options
}

// NewParser returns a new Parser.
func NewParser() *Parser { return &Parser{opts: NewOptions()} }

// ParseEnvironmentVariables loads configuration values from environment
// variables.
func (p *Parser) ParseEnvironmentVariables() (*Options, error) {
	if err := env.Parse(p.env()); err != nil {
		return nil, fmt.Errorf("config: failed parse env vars: %w", err)
	} else if err := p.opts.init(); err != nil {
		return nil, fmt.Errorf("failed parse env vars: %w", err)
	}
	return p.opts, nil
}

func (p *Parser) env() *EnvOptions { return &p.opts.env }

// ParseEnvFile loads configuration values from a local file and from
// environment variables after that.
func (p *Parser) ParseEnvFile(filename string) (*Options, error) {
	envMap, err := godotenv.Read(filename)
	if err != nil {
		return nil, fmt.Errorf("config: failed parse %q: %w", filename, err)
	}

	err = env.ParseWithOptions(p.env(), env.Options{Environment: envMap})
	if err != nil {
		return nil, fmt.Errorf("config: failed parse %q: %w", filename, err)
	}
	return p.ParseEnvironmentVariables()
}

// ParseYAML loads settings from a YAML file. Lists defined in the file
// replace the defaults.
func (p *Parser) ParseYAML(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("config: failed read %q: %w", filename, err)
	}

	if err := yaml.Unmarshal(b, p.opts); err != nil {
		return fmt.Errorf("config: failed parse %q: %w", filename, err)
	}
	return nil
}
