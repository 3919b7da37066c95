package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlpath/internal/cli/output"
)

// BatchResult summarizes one file of a batch run.
type BatchResult struct {
	File        string `json:"file" yaml:"file"`
	Tables      int    `json:"tables" yaml:"tables"`
	Columns     int    `json:"columns" yaml:"columns"`
	Joins       int    `json:"joins" yaml:"joins"`
	Parameters  int    `json:"parameters" yaml:"parameters"`
	Skipped     int    `json:"skipped" yaml:"skipped"`
	Diagnostics int    `json:"diagnostics" yaml:"diagnostics"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchReport is the serializable result of the batch command.
type BatchReport struct {
	Files  []BatchResult `json:"files" yaml:"files"`
	Failed int           `json:"failed" yaml:"failed"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file|dir>...",
		Short: "Parse many SQL files concurrently",
		Long: `Parse every given file, and every .sql file under each given directory,
using a bounded pool of workers. Each worker owns its parser.

The summary lists per-file counts. The command fails when any file does not
parse, after reporting all of them.`,
		Example: `  # Parse a directory of queries
  sqlpath batch queries/

  # Eight workers, JSON summary
  sqlpath batch queries/ --concurrency 8 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args)
		},
	}

	cmd.Flags().Int("concurrency", 0, "Number of files parsed at once")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	files, err := collectSQLFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cc.Renderer.Warning("no .sql files found")
		return nil
	}

	rep, err := parseFiles(cmd.Context(), cc, files)
	if err != nil {
		return err
	}
	if err := renderBatch(cc.Renderer, rep); err != nil {
		return err
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", rep.Failed, len(rep.Files))
	}
	return nil
}

// parseFiles parses files with at most Batch.Concurrency workers. Results
// keep the order of files.
func parseFiles(ctx context.Context, cc *CommandContext, files []string) (*BatchReport, error) {
	results := make([]BatchResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cc.Cfg.Batch.Concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(cc, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &BatchReport{Files: results}
	for _, r := range results {
		if r.Error != "" {
			rep.Failed++
		}
	}
	return rep, nil
}

func parseFile(cc *CommandContext, file string) BatchResult {
	res := BatchResult{File: file}

	data, err := os.ReadFile(file)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	stmt, err := cc.NewParser().Parse(string(data))
	if err != nil {
		cc.Logger.Debug("batch parse failed", "file", file, "error", err)
		res.Error = err.Error()
		return res
	}

	res.Tables = len(stmt.Tables())
	res.Columns = len(stmt.Columns)
	res.Joins = len(stmt.Joins)
	res.Parameters = len(stmt.Parameters)
	res.Skipped = len(stmt.SkippedExpressions)
	res.Diagnostics = len(stmt.Diagnostics)
	return res
}

// collectSQLFiles expands directories to the .sql files beneath them.
func collectSQLFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".sql") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}
	return files, nil
}

func renderBatch(r *output.Renderer, rep *BatchReport) error {
	if handled, err := r.Structured(rep); handled {
		return err
	}

	r.Header(1, "Batch")
	if r.EffectiveMode() == output.ModeText {
		r.Println()
	}

	rows := make([][]string, 0, len(rep.Files))
	for _, f := range rep.Files {
		status := "ok"
		if f.Error != "" {
			status = f.Error
		}
		rows = append(rows, []string{
			f.File,
			strconv.Itoa(f.Tables),
			strconv.Itoa(f.Columns),
			strconv.Itoa(f.Joins),
			strconv.Itoa(f.Skipped),
			status,
		})
	}
	r.Table([]string{"File", "Tables", "Columns", "Joins", "Skipped", "Status"}, rows)
	r.Println()

	summary := fmt.Sprintf("%d files, %d failed", len(rep.Files), rep.Failed)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Total", summary))
		return nil
	}
	if rep.Failed == 0 {
		r.Success(summary)
	} else {
		r.Println(r.Styles().Error.Render(summary))
	}
	return nil
}
