package cli // import "sub2utf.app/v2/internal/cli"

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"sub2utf.app/v2/internal/command"
	"sub2utf.app/v2/internal/logging"
	"sub2utf.app/v2/internal/storage"
)

var (
	flagEncoding string
	flagOutput   string
)

var convertCmd = cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a file to UTF-8",
	Long: `Convert a file to UTF-8.

The encoding is detected, unless it's given by --encoding. Converted text is
printed to stdout, unless --output is given.`,
	Example: `
$ sub2utf convert -e windows-1251 movie.srt
$ sub2utf convert -o movie.sr.srt movie.srt`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(cmd.Context(), cmd.OutOrStdout(), args[0],
			flagEncoding, flagOutput)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&flagEncoding, "encoding", "e", "",
		"Encoding of FILE (default: detected)")
	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", "",
		"Save converted text into this file")
}

func convertFile(ctx context.Context, w io.Writer, path, label, output string,
) error {
	data, err := storage.ReadFile(path)
	if err != nil {
		return err
	}

	if label == "" {
		d, err := detectData(ctx, data)
		if err != nil {
			return err
		}
		label = d.Encoding
		logging.FromContext(ctx).Info("encoding detected",
			slog.String("path", path), slog.String("encoding", label))
	}

	v, err := application.Invoke(ctx, command.ConvertToUTF8,
		command.ConvertToUTF8Args{Data: data, Encoding: label})
	if err != nil {
		return err //nolint:wrapcheck // command error
	}
	text := v.(string)

	if output == "" {
		_, err = io.WriteString(w, text)
		return err //nolint:wrapcheck // stdout
	}

	_, err = application.Invoke(ctx, command.SaveFile,
		command.SaveFileArgs{Path: output, Content: text})
	return err //nolint:wrapcheck // command error
}
