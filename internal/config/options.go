// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config // import "sub2utf.app/v2/internal/config"

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const defaultListenAddr = "127.0.0.1:8420"

// Option contains a key to value map of a single option. It may be used to
// output debug strings.
type Option struct {
	Key   string
	Value any
}

// Options contains configuration options.
type Options struct {
	// Encodings offered to the user for manual selection.
	Encodings []string `yaml:"encodings" validate:"dive,required"`
	// Languages used as output file suffixes: movie.srt → movie.sr.srt.
	Languages []Language `yaml:"languages" validate:"dive"`

	env EnvOptions
}

type Language struct {
	Code string `yaml:"code" json:"code" validate:"required,bcp47_language_tag"`
	Name string `yaml:"name" json:"name" validate:"required"`
}

type EnvOptions struct {
	Debug               bool    `env:"DEBUG"`
	Logging             []Log   `envPrefix:"LOG" validate:"dive,required"`
	LogFile             string  `env:"LOG_FILE" validate:"required"`
	LogDateTime         bool    `env:"LOG_DATE_TIME"`
	LogFormat           string  `env:"LOG_FORMAT" validate:"required,oneof=human json text"`
	LogLevel            string  `env:"LOG_LEVEL" validate:"required,oneof=debug info warning error"`
	ListenAddr          string  `env:"LISTEN_ADDR" validate:"required,hostname_port|startswith=/"`
	HttpServerTimeout   int     `env:"HTTP_SERVER_TIMEOUT" validate:"min=1"`
	MetricsCollector    bool    `env:"METRICS_COLLECTOR"`
	WorkerPoolSize      int     `env:"WORKER_POOL_SIZE" validate:"min=1"`
	DefaultLanguage     string  `env:"DEFAULT_LANGUAGE" validate:"required,bcp47_language_tag"`
	ConfidenceThreshold float64 `env:"CONFIDENCE_THRESHOLD" validate:"min=0,max=1"`
}

type Log struct {
	LogFile     string `env:"FILE" validate:"required"`
	LogDateTime bool   `env:"DATE_TIME"`
	LogFormat   string `env:"FORMAT" validate:"required,oneof=human json text"`
	LogLevel    string `env:"LEVEL" validate:"required,oneof=debug info warning error"`
}

// NewOptions returns Options with default values.
func NewOptions() *Options {
	return &Options{
		Encodings: []string{
			"UTF-8",
			"windows-1250",
			"windows-1251",
			"windows-1252",
			"ISO-8859-1",
			"ISO-8859-2",
			"ISO-8859-5",
			"ISO-8859-15",
			"KOI8-R",
			"KOI8-U",
		},
		Languages: []Language{
			{Code: "sr", Name: "Serbian"},
			{Code: "hr", Name: "Croatian"},
			{Code: "bs", Name: "Bosnian"},
			{Code: "sl", Name: "Slovenian"},
			{Code: "mk", Name: "Macedonian"},
			{Code: "bg", Name: "Bulgarian"},
			{Code: "ru", Name: "Russian"},
			{Code: "uk", Name: "Ukrainian"},
			{Code: "pl", Name: "Polish"},
			{Code: "cs", Name: "Czech"},
			{Code: "sk", Name: "Slovak"},
			{Code: "hu", Name: "Hungarian"},
		},

		env: EnvOptions{
			LogFile:             "stderr",
			LogFormat:           "text",
			LogLevel:            "info",
			ListenAddr:          defaultListenAddr,
			HttpServerTimeout:   60,
			WorkerPoolSize:      4,
			DefaultLanguage:     "sr",
			ConfidenceThreshold: 0.7,
		},
	}
}

func (o *Options) init() error {
	o.Encodings = uniqStringList(o.Encodings)
	if err := o.validate(); err != nil {
		return err
	}
	return nil
}

func (o *Options) validate() error {
	if err := Validator().Struct(o); err != nil {
		return fmt.Errorf("config: failed validate: %w", err)
	} else if err := Validator().Struct(&o.env); err != nil {
		return fmt.Errorf("config: failed validate: %w", err)
	}
	return nil
}

func uniqStringList(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	for i, s := range items {
		s = strings.TrimSpace(s)
		if s != "" {
			if _, found := seen[s]; !found {
				seen[s] = struct{}{}
			} else {
				s = ""
			}
		}
		items[i] = s
	}
	if len(seen) < len(items) {
		items = slices.DeleteFunc(items, func(s string) bool { return s == "" })
	}
	return items
}

func Validator() *validator.Validate {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if s := fld.Tag.Get("env"); s != "" {
				name, _, _ := strings.Cut(s, ",")
				if name == "-" {
					return ""
				}
				return name
			}
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
	return validate
}

var validate *validator.Validate

func (o *Options) Debug() bool { return o.env.Debug }

// SetDebug turns on the debug mode, as requested by the command line.
func (o *Options) SetDebug() { o.env.Debug = true }

func (o *Options) LogFile() string { return o.env.LogFile }

// LogDateTime returns true if the date/time should be logged.
func (o *Options) LogDateTime() bool { return o.env.LogDateTime }

// LogFormat returns the log format.
func (o *Options) LogFormat() string { return o.env.LogFormat }

// LogLevel returns the log level.
func (o *Options) LogLevel() string { return o.env.LogLevel }

// Logging returns configured log outputs. LOG_0_FILE, LOG_1_FILE and so on
// take priority over LOG_FILE.
func (o *Options) Logging() []Log {
	if len(o.env.Logging) == 0 {
		return []Log{{
			LogFile:     o.LogFile(),
			LogDateTime: o.LogDateTime(),
			LogFormat:   o.LogFormat(),
			LogLevel:    o.LogLevel(),
		}}
	}
	return slices.Clone(o.env.Logging)
}

// ListenAddr returns the listen address of the IPC server. A value starting
// with "/" is a Unix socket path.
func (o *Options) ListenAddr() string { return o.env.ListenAddr }

func (o *Options) HTTPServerTimeout() time.Duration {
	return time.Duration(o.env.HttpServerTimeout) * time.Second
}

func (o *Options) HasMetricsCollector() bool { return o.env.MetricsCollector }

func (o *Options) WorkerPoolSize() int { return o.env.WorkerPoolSize }

func (o *Options) DefaultLanguage() string { return o.env.DefaultLanguage }

// ConfidenceThreshold returns the confidence under which a detected encoding
// should be confirmed by the user.
func (o *Options) ConfidenceThreshold() float64 {
	return o.env.ConfidenceThreshold
}

func (o *Options) LanguageCodes() []string {
	codes := make([]string, len(o.Languages))
	for i := range o.Languages {
		codes[i] = o.Languages[i].Code
	}
	return codes
}

// SortedOptions returns options as a list of key value pairs, sorted by keys.
func (o *Options) SortedOptions() []Option {
	keyValues := map[string]any{
		"CONFIDENCE_THRESHOLD": o.ConfidenceThreshold(),
		"DEBUG":                o.Debug(),
		"DEFAULT_LANGUAGE":     o.DefaultLanguage(),
		"ENCODINGS":            strings.Join(o.Encodings, ","),
		"HTTP_SERVER_TIMEOUT":  o.env.HttpServerTimeout,
		"LANGUAGES":            strings.Join(o.LanguageCodes(), ","),
		"LISTEN_ADDR":          o.ListenAddr(),
		"LOG_DATE_TIME":        o.LogDateTime(),
		"LOG_FILE":             o.LogFile(),
		"LOG_FORMAT":           o.LogFormat(),
		"LOG_LEVEL":            o.LogLevel(),
		"METRICS_COLLECTOR":    o.HasMetricsCollector(),
		"WORKER_POOL_SIZE":     o.WorkerPoolSize(),
	}

	sortedKeys := slices.Sorted(maps.Keys(keyValues))
	sortedOptions := make([]Option, len(sortedKeys))
	for i, key := range sortedKeys {
		sortedOptions[i] = Option{Key: key, Value: keyValues[key]}
	}
	return sortedOptions
}

func (o *Options) String() string {
	var builder strings.Builder
	for _, option := range o.SortedOptions() {
		fmt.Fprintf(&builder, "%s=%v\n", option.Key, option.Value)
	}
	return builder.String()
}
