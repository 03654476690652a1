package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/intune/internal/formatter"
	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
)

// AllFormats lists every format [BulkExport] writes by default.
var AllFormats = []formatter.Format{formatter.JSON, formatter.CSV, formatter.Text, formatter.Markdown}

// BulkExportOpts configures [BulkExport].
type BulkExportOpts struct {
	Formats    []formatter.Format                        // Formats to write (default: AllFormats)
	OutputDir  string                                    // Base output directory (default: intune_export_{epoch})
	NumWorkers int                                       // Concurrent workers (default: 2, max: 4)
	Story      func(ctx context.Context) ([]byte, error) // Optional story image source for markdown
}

// FormatResult is the outcome of writing one format.
type FormatResult struct {
	Format  formatter.Format `json:"format"`
	Files   []string         `json:"files,omitempty"`
	Success bool             `json:"success"`
	Error   error            `json:"-"`
	Message string           `json:"error,omitempty"`
}

// BulkExportResult summarizes a [BulkExport] run.
type BulkExportResult struct {
	OutputDirectory   string         `json:"output_directory"`
	ManifestPath      string         `json:"-"`
	Cards             int            `json:"cards"`
	SuccessfulExports int            `json:"successful_exports"`
	FailedExports     int            `json:"failed_exports"`
	Results           []FormatResult `json:"results"`
	ExportedAt        time.Time      `json:"exported_at"`
}

// BulkExport writes export in every requested format concurrently.
//
// The story is fetched once before the workers start. A story failure is reported as progress and the
// markdown export continues without the image.
func BulkExport(ctx context.Context, prog chan<- ProgressUpdate, export *models.BoardExport, opts BulkExportOpts) (*BulkExportResult, error) {
	if export == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}

	if len(opts.Formats) == 0 {
		opts.Formats = AllFormats
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("intune_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.NumWorkers > 4 {
		opts.NumWorkers = 4
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var story []byte
	if opts.Story != nil && slices.Contains(opts.Formats, formatter.Markdown) {
		var err error
		story, err = opts.Story(ctx)
		sendProgress(prog, fetchStoryUpdate(err))
	}

	jobs := make(chan formatter.Format, len(opts.Formats))
	results := make(chan FormatResult, len(opts.Formats))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, export, opts.OutputDir, story)
	}

	for _, f := range opts.Formats {
		jobs <- f
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	result := &BulkExportResult{
		OutputDirectory: opts.OutputDir,
		Cards:           len(export.Populated()),
		Results:         make([]FormatResult, 0, len(opts.Formats)),
		ExportedAt:      export.ExportedAt,
	}

	completed := 0
	for res := range results {
		completed++
		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(opts.Formats), res))
		} else {
			result.FailedExports++
			res.Message = res.Error.Error()
			sendProgress(prog, exportFailedUpdate(completed, len(opts.Formats), res))
		}
		result.Results = append(result.Results, res)
	}

	// Workers finish in any order.
	slices.SortFunc(result.Results, func(a, b FormatResult) int {
		return slices.Index(opts.Formats, a.Format) - slices.Index(opts.Formats, b.Format)
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan formatter.Format,
	results chan<- FormatResult,
	export *models.BoardExport,
	dir string,
	story []byte,
) {
	defer wg.Done()

	for f := range jobs {
		if err := ctx.Err(); err != nil {
			results <- FormatResult{Format: f, Error: err}
			continue
		}
		results <- exportFormat(export, f, dir, story)
	}
}

func exportFormat(export *models.BoardExport, f formatter.Format, dir string, story []byte) FormatResult {
	result := FormatResult{Format: f}

	if f == formatter.Markdown {
		md, err := formatter.WriteMarkdownExport(export, filepath.Join(dir, "markdown"), story)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = md.Files
		result.Success = true
		return result
	}

	path, err := formatter.WriteExport(export, f, filepath.Join(dir, formatter.DefaultFilename(f)))
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", f, err)
		return result
	}
	result.Files = []string{path}
	result.Success = true
	return result
}
