package cli // import "sub2utf.app/v2/internal/cli"

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/model"
	"sub2utf.app/v2/internal/worker"
)

var flagLanguage string

var batchCmd = cobra.Command{
	Use:   "batch FILE...",
	Short: "Convert files to UTF-8, saving them next to originals",
	Long: `Convert files to UTF-8, saving them next to originals.

Every FILE is saved as name.LANG.srt. Files in UTF-8 already are skipped.`,
	Example: `
$ sub2utf batch -l sr *.srt
done	movie.srt	movie.sr.srt
skipped	other.srt	UTF-8`,

	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := flagLanguage
		if lang == "" {
			lang = config.Opts.DefaultLanguage()
		}
		return batch(cmd.Context(), cmd.OutOrStdout(),
			makeJobs(args, flagBatchEncoding, lang))
	},
}

var flagBatchEncoding string

func init() {
	batchCmd.Flags().StringVarP(&flagLanguage, "language", "l", "",
		"Language suffix of output files (default: DEFAULT_LANGUAGE)")
	batchCmd.Flags().StringVarP(&flagBatchEncoding, "encoding", "e", "",
		"Encoding of all files (default: detected)")
}

func makeJobs(paths []string, label, lang string) []model.Job {
	jobs := make([]model.Job, len(paths))
	for i, path := range paths {
		jobs[i] = model.Job{Path: path, Encoding: label, Language: lang}
	}
	return jobs
}

func batch(ctx context.Context, w io.Writer, jobs []model.Job) error {
	pool := worker.NewPool(application.Registry(),
		config.Opts.WorkerPoolSize()).
		WithConfidenceThreshold(config.Opts.ConfidenceThreshold())

	var failed int
	for _, r := range pool.Run(ctx, jobs) {
		var detail string
		switch r.Status {
		case model.StatusDone:
			detail = r.Output
		case model.StatusSkipped:
			detail = r.Detected
		default:
			failed++
			detail = r.Error()
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.Status, r.Path, detail); err != nil {
			return err //nolint:wrapcheck // stdout
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(jobs))
	}
	return nil
}
