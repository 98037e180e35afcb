package cli // import "sub2utf.app/v2/internal/cli"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sub2utf.app/v2/internal/command"
)

var flagContent string

var saveCmd = cobra.Command{
	Use:   "save PATH",
	Short: "Write text to a file",
	Long: `Write text to a file, replacing its content.

The text is given by --content or read from stdin.`,
	Example: `
$ sub2utf save --content "Здраво" hello.txt
$ iconv -f cp1251 -t utf-8 movie.srt | sub2utf save movie.sr.srt`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := flagContent
		if !cmd.Flags().Changed("content") {
			b, err := readStdin(cmd.InOrStdin())
			if err != nil {
				return err
			}
			content = string(b)
		}
		return saveFile(cmd.Context(), args[0], content)
	},
}

func init() {
	saveCmd.Flags().StringVarP(&flagContent, "content", "", "",
		"Text to write (default: read from stdin)")
}

var errTerminal = errors.New(
	"refusing to read content from a terminal, use --content or a pipe")

func readStdin(r io.Reader) ([]byte, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errTerminal
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return b, nil
}

func saveFile(ctx context.Context, path, content string) error {
	_, err := application.Invoke(ctx, command.SaveFile,
		command.SaveFileArgs{Path: path, Content: content})
	return err //nolint:wrapcheck // command error
}
