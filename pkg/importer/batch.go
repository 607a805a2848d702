package importer

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/observability"
)

// BatchStats summarizes an ImportDir run.
type BatchStats struct {
	Files      int
	Created    int
	Reselected int
	Skipped    int
	Duration   time.Duration
}

type batchJob struct {
	index int
	path  string
}

type batchResult struct {
	batchJob
	src *Source
	err error
}

// ImportDir imports every SVG file directly inside dir, skipping the config
// file and files already loaded as library fonts.
//
// Files are read and prepared by a pool of workers. Prepared sources are
// applied one at a time by the calling goroutine, in file name order, so the
// result does not depend on scheduling. The call returns once every
// dispatched file has been applied or skipped. Unreadable and unparseable
// files are logged and skipped; only errors from applying a source (such as
// running out of codes) abort the batch.
func (im *Importer) ImportDir(ctx context.Context, dir string) (BatchStats, error) {
	start := time.Now()
	hooks := observability.Build()
	hooks.OnImportStart(ctx, dir)

	stats, err := im.importDir(ctx, dir)
	stats.Duration = time.Since(start)

	hooks.OnImportComplete(ctx, dir, stats.Created, stats.Skipped, stats.Duration, err)
	return stats, err
}

func (im *Importer) importDir(ctx context.Context, dir string) (BatchStats, error) {
	var stats BatchStats

	files, err := SourceFiles(dir)
	if err != nil {
		return stats, err
	}
	files = slices.DeleteFunc(files, im.isLibraryFile)
	stats.Files = len(files)
	if len(files) == 0 {
		return stats, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan batchJob)
	results := make(chan batchResult, im.workers)

	var wg sync.WaitGroup
	for range min(im.workers, len(files)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- im.prepareFile(ctx, j)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, path := range files {
			select {
			case jobs <- batchJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Apply in dispatch order; early arrivals wait in pending.
	pending := make(map[int]batchResult)
	next := 0
	var applyErr error
	for r := range results {
		if applyErr != nil {
			continue // drain
		}
		pending[r.index] = r
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := im.applyResult(r, &stats); err != nil {
				applyErr = err
				cancel()
				break
			}
		}
	}
	if applyErr != nil {
		return stats, applyErr
	}
	if next != len(files) {
		return stats, ctx.Err()
	}
	return stats, nil
}

func (im *Importer) prepareFile(ctx context.Context, j batchJob) batchResult {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return batchResult{batchJob: j, err: errors.Wrap(errors.ErrCodeInvalidSource, err, "read file")}
	}
	src, err := im.Prepare(ctx, j.path, data)
	return batchResult{batchJob: j, src: src, err: err}
}

func (im *Importer) applyResult(r batchResult, stats *BatchStats) error {
	name := filepath.Base(r.path)
	if r.err != nil {
		im.logger.Warn("skipping source", "file", name, "err", errors.UserMessage(r.err))
		stats.Skipped++
		return nil
	}
	res, err := im.Apply(r.src)
	stats.Created += res.Created
	stats.Reselected += res.Reselected
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return errors.Wrap(code, err, "apply %s", name)
	}
	im.logger.Debug("imported source", "file", name, "kind", r.src.Kind, "created", res.Created, "reselected", res.Reselected)
	return nil
}

func (im *Importer) isLibraryFile(path string) bool {
	abs, err := filepath.Abs(path)
	return err == nil && im.libraryFiles[abs]
}

// SourceFiles lists the SVG files directly inside dir in name order,
// excluding the config file.
func SourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read source dir %s", dir)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == config.FileName || !strings.EqualFold(filepath.Ext(name), ".svg") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
