package cli // import "sub2utf.app/v2/internal/cli"

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"sub2utf.app/v2/internal/command"
	"sub2utf.app/v2/internal/model"
	"sub2utf.app/v2/internal/storage"
)

var detectCmd = cobra.Command{
	Use:   "detect FILE",
	Short: "Detect encoding of a file",
	Example: `
$ sub2utf detect movie.srt
windows-1250	1`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return detectFile(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func detectFile(ctx context.Context, w io.Writer, path string) error {
	d, err := detect(ctx, path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%s\n", d.Encoding,
		strconv.FormatFloat(d.Confidence, 'f', -1, 64))
	return err //nolint:wrapcheck // stdout
}

func detect(ctx context.Context, path string) (model.Detection, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		return model.Detection{}, err
	}
	return detectData(ctx, data)
}

func detectData(ctx context.Context, data []byte) (model.Detection, error) {
	v, err := application.Invoke(ctx, command.DetectEncoding,
		command.DetectEncodingArgs{Data: data})
	if err != nil {
		return model.Detection{}, err //nolint:wrapcheck // command error
	}
	return v.(model.Detection), nil
}
