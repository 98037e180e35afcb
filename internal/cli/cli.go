// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "sub2utf.app/v2/internal/cli"

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sub2utf.app/v2/internal/app"
	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/version"
)

var (
	flagConfigFile string
	flagConfigYAML string
	flagDebugMode  bool

	application *app.App
)

var Cmd = cobra.Command{
	Use:   "sub2utf",
	Short: "Convert subtitles in legacy code pages to UTF-8",
	Long: `Convert subtitles in legacy code pages to UTF-8.

Without a subcommand it starts the IPC server used by the desktop front-end.`,
	Version: version.Version,
	Args:    cobra.ExactArgs(0),

	SilenceErrors:     true,
	PersistentPreRunE: persistentPreRunE,

	RunE: func(cmd *cobra.Command, args []string) error {
		return NewDaemon(application).Run(cmd.Context())
	},
}

var configDumpCmd = cobra.Command{
	Use:   "config-dump",
	Short: "Print parsed configuration values",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), config.Opts)
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&flagConfigFile, "config-file", "c", "",
		"Path to .env configuration file")
	Cmd.PersistentFlags().StringVarP(&flagConfigYAML, "config-yaml", "", "",
		"Path to YAML settings file")
	Cmd.PersistentFlags().BoolVarP(&flagDebugMode, "debug", "d", false,
		"Enable logging")

	Cmd.AddCommand(&batchCmd)
	Cmd.AddCommand(&configDumpCmd)
	Cmd.AddCommand(&convertCmd)
	Cmd.AddCommand(&detectCmd)
	Cmd.AddCommand(&encodingsCmd)
	Cmd.AddCommand(&healthCmd)
	Cmd.AddCommand(&infoCmd)
	Cmd.AddCommand(&saveCmd)
	Cmd.AddCommand(&serveCmd)
}

var serveCmd = cobra.Command{
	Use:   "serve",
	Short: "Start the IPC server (default)",
	Args:  cobra.ExactArgs(0),
	RunE:  Cmd.RunE,
}

func persistentPreRunE(cmd *cobra.Command, args []string) error {
	// Don't show usage on app errors.
	// https://github.com/spf13/cobra/issues/340#issuecomment-378726225
	cmd.SilenceUsage = true

	if err := config.Load(flagConfigYAML, flagConfigFile); err != nil {
		return err
	} else if flagDebugMode {
		config.Opts.SetDebug()
	}

	a, err := app.New(app.Options{
		Debug:   config.Opts.Debug(),
		Logging: config.Opts.Logging(),
	})
	if err != nil {
		return err
	}
	application = a
	cmd.SetContext(a.Context(cmd.Context()))
	return nil
}

func printErrorAndExit(w io.Writer, err error) {
	fmt.Fprintf(w, "sub2utf: %v\n", err)
	os.Exit(1)
}

func Execute() {
	err := execute()
	if err != nil {
		printErrorAndExit(os.Stderr, err)
	}
}

// execute runs the command line and closes the application afterwards,
// whether the command succeeded or not.
func execute() error {
	err := Cmd.Execute()
	if application != nil {
		_ = application.Close()
		application = nil
	}
	return err
}
