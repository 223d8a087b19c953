package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/annolab/labelconv/internal/domain/labels"
	"github.com/annolab/labelconv/internal/domain/match"
	"github.com/annolab/labelconv/internal/types"
)

type Config struct {
	// Videos are the selected video paths, in user order. Only the filename
	// stem is used; content is never read.
	Videos []string
	// LabelRoot is the directory holding one label file or folder per video.
	LabelRoot string
	// OutDir receives one <stem>.csv per video. Created if missing.
	OutDir string

	// Workers bounds concurrent conversions. 1 (the default) processes
	// videos sequentially in selection order; higher values relax the
	// ordering of progress callbacks.
	Workers int

	// Delimiter separates fields in label lines. Defaults to a tab.
	Delimiter string
	// LabelExt is the label file extension. Defaults to ".txt".
	LabelExt string

	// OnProgress is invoked after each video completes, success or not.
	// With Workers > 1 it may be called from multiple goroutines; Done is
	// the completion count, not the selection index.
	OnProgress func(types.Progress)

	Logf func(format string, args ...any)
}

func (c Config) Validate() error {
	if len(c.Videos) == 0 {
		return errors.New("no input videos")
	}
	if c.LabelRoot == "" {
		return errors.New("label root is empty")
	}
	fi, err := os.Stat(c.LabelRoot)
	if err != nil {
		return fmt.Errorf("stat label root: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("label root %s is not a directory", c.LabelRoot)
	}
	if c.OutDir == "" {
		return errors.New("output dir is empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 1")
	}
	return nil
}

// Run converts every configured video and reports per-video outcomes. A
// single video failing (unreadable labels, unwritable CSV, no match) never
// stops the batch; only the Validate preconditions and an uncreatable
// output directory abort before processing starts.
//
// Cancellation is checked between videos: already-written CSVs stay on
// disk and the remaining videos are reported as cancelled.
func Run(ctx context.Context, cfg Config) (types.BatchResult, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	if err := cfg.Validate(); err != nil {
		return types.BatchResult{}, err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return types.BatchResult{}, fmt.Errorf("create output dir: %w", err)
	}

	delim := cfg.Delimiter
	if delim == "" {
		delim = labels.DefaultDelimiter
	}
	ext := cfg.LabelExt
	if ext == "" {
		ext = ".txt"
	}

	refs := make([]types.VideoRef, len(cfg.Videos))
	for i, p := range cfg.Videos {
		refs[i] = types.VideoRef{Path: p, Stem: stem(p)}
	}
	logf("converting %d video(s), labels from %s", len(refs), cfg.LabelRoot)

	if cfg.Workers > 1 {
		return runParallel(ctx, cfg, refs, delim, ext)
	}
	return runSequential(ctx, cfg, refs, delim, ext)
}

func runSequential(ctx context.Context, cfg Config, refs []types.VideoRef, delim, ext string) (types.BatchResult, error) {
	out := types.BatchResult{Results: make([]types.ConversionResult, len(refs))}
	done := 0
	for i, ref := range refs {
		if ctx.Err() != nil {
			cancelRemaining(&out, refs, i)
			return out, nil
		}
		res := convertOne(cfg, ref, delim, ext)
		out.Results[i] = res
		done++
		if cfg.OnProgress != nil {
			cfg.OnProgress(types.Progress{Done: done, Total: len(refs), Result: res})
		}
	}
	return out, nil
}

func runParallel(ctx context.Context, cfg Config, refs []types.VideoRef, delim, ext string) (types.BatchResult, error) {
	out := types.BatchResult{Results: make([]types.ConversionResult, len(refs))}

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if gctx.Err() != nil {
				mu.Lock()
				out.Results[i] = cancelledResult(ref)
				mu.Unlock()
				return nil
			}
			res := convertOne(cfg, ref, delim, ext)

			mu.Lock()
			out.Results[i] = res
			done++
			p := types.Progress{Done: done, Total: len(refs), Result: res}
			mu.Unlock()

			if cfg.OnProgress != nil {
				cfg.OnProgress(p)
			}
			return nil
		})
	}
	_ = g.Wait() // workers only report, they never fail the group

	for i := range out.Results {
		if out.Results[i].Status == types.StatusCancelled {
			out.Cancelled = true
		}
	}
	if ctx.Err() != nil {
		out.Cancelled = true
	}
	return out, nil
}

func convertOne(cfg Config, ref types.VideoRef, delim, ext string) types.ConversionResult {
	res := types.ConversionResult{Video: ref}

	m, err := match.Find(cfg.LabelRoot, ref.Stem, ext)
	if errors.Is(err, match.ErrNoMatch) {
		res.Status = types.StatusNotFound
		res.Err = fmt.Sprintf("no label source for %q in %s", ref.Stem, cfg.LabelRoot)
		return res
	}
	if err != nil {
		res.Status = types.StatusFailed
		res.Err = err.Error()
		return res
	}
	for _, extra := range m.Extra {
		res.Warnings = append(res.Warnings, types.ParseWarning{
			File:   extra,
			Reason: "additional match ignored (first match wins)",
		})
	}

	set := types.LabelSet{Video: ref.Stem}
	for _, src := range m.Sources {
		recs, warns, err := labels.ParseFile(src, delim)
		if err != nil {
			res.Status = types.StatusFailed
			res.Err = err.Error()
			return res
		}
		set.Records = append(set.Records, recs...)
		res.Warnings = append(res.Warnings, warns...)
	}

	outPath := filepath.Join(cfg.OutDir, ref.Stem+".csv")
	if err := labels.WriteFile(outPath, set); err != nil {
		res.Status = types.StatusFailed
		res.Err = err.Error()
		return res
	}

	res.Status = types.StatusConverted
	res.Output = outPath
	res.Rows = len(set.Records)
	return res
}

func cancelRemaining(out *types.BatchResult, refs []types.VideoRef, from int) {
	out.Cancelled = true
	for i := from; i < len(refs); i++ {
		out.Results[i] = cancelledResult(refs[i])
	}
}

func cancelledResult(ref types.VideoRef) types.ConversionResult {
	return types.ConversionResult{Video: ref, Status: types.StatusCancelled, Err: "batch cancelled"}
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
