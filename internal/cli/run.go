package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/annolab/labelconv/internal/config"
	"github.com/annolab/labelconv/internal/pipeline"
	"github.com/annolab/labelconv/internal/types"
)

func run(cmd *cobra.Command, videos []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	explicit := cfgPath != ""
	if !explicit {
		cfgPath = config.DefaultFile
	}
	cfg, err := config.Load(cfgPath, explicit)
	if err != nil {
		return err
	}

	labelRoot := firstNonEmpty(flagString(cmd, "labels"), os.Getenv("LABELCONV_LABELS"), cfg.Labels)
	outDir := firstNonEmpty(flagString(cmd, "out"), os.Getenv("LABELCONV_OUT"), cfg.Out)
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = cfg.Workers
	}

	if labelRoot == "" {
		return fmt.Errorf("label root is required (--labels, LABELCONV_LABELS, or %s)", config.DefaultFile)
	}

	// Ctrl-C stops between videos; CSVs already written stay in place.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	pcfg := pipeline.Config{
		Videos:    videos,
		LabelRoot: labelRoot,
		OutDir:    outDir,
		Workers:   workers,
		Delimiter: cfg.Delimiter,
		LabelExt:  cfg.LabelExt,
		OnProgress: func(p types.Progress) {
			fmt.Fprintf(stderr, "[%d/%d] %s: %s\n", p.Done, p.Total, p.Result.Video.Stem, describe(p.Result))
		},
		Logf: func(format string, args ...any) {
			fmt.Fprintf(stderr, format+"\n", args...)
		},
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	res, err := pipeline.Run(ctx, pcfg)
	if err != nil {
		return err
	}
	printSummary(stderr, res)

	if res.Count(types.StatusConverted) == 0 && len(res.Results) > 0 && !res.Cancelled {
		return fmt.Errorf("no videos converted")
	}
	return nil
}

func describe(r types.ConversionResult) string {
	switch r.Status {
	case types.StatusConverted:
		s := fmt.Sprintf("%d row(s) -> %s", r.Rows, r.Output)
		if n := len(r.Warnings); n > 0 {
			s += fmt.Sprintf(" (%d warning(s))", n)
		}
		return s
	case types.StatusNotFound:
		return "no labels found, skipped"
	case types.StatusCancelled:
		return "cancelled"
	default:
		return "failed: " + r.Err
	}
}

func printSummary(w io.Writer, res types.BatchResult) {
	fmt.Fprintf(w, "done: %d converted, %d without labels, %d failed",
		res.Count(types.StatusConverted),
		res.Count(types.StatusNotFound),
		res.Count(types.StatusFailed))
	if res.Cancelled {
		fmt.Fprintf(w, ", %d cancelled", res.Count(types.StatusCancelled))
	}
	fmt.Fprintln(w)

	for _, r := range res.Results {
		for _, wrn := range r.Warnings {
			if wrn.Line > 0 {
				fmt.Fprintf(w, "warning: %s:%d: %s\n", wrn.File, wrn.Line, wrn.Reason)
			} else {
				fmt.Fprintf(w, "warning: %s: %s\n", wrn.File, wrn.Reason)
			}
		}
		if r.Status == types.StatusFailed {
			fmt.Fprintf(w, "failed: %s: %s\n", r.Video.Stem, r.Err)
		}
	}
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
