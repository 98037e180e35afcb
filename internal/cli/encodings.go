package cli // import "sub2utf.app/v2/internal/cli"

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/encoding"
)

var encodingsCmd = cobra.Command{
	Use:   "encodings",
	Short: "List configured encodings",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listEncodings(cmd.OutOrStdout(), config.Opts.Encodings)
	},
}

func listEncodings(w io.Writer, labels []string) error {
	for _, label := range labels {
		_, name := encoding.Lookup(label)
		if name == "" {
			name = "unsupported"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", label, name); err != nil {
			return err //nolint:wrapcheck // stdout
		}
	}
	return nil
}
