package compile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrianmusante/descriptor-tools/internal/descriptor"
	"github.com/adrianmusante/descriptor-tools/internal/fieldtable"
	"github.com/adrianmusante/descriptor-tools/internal/fs"
	"github.com/adrianmusante/descriptor-tools/internal/logging"
	"github.com/adrianmusante/descriptor-tools/internal/run"
)

const (
	DefaultInputDir   = "fields"
	DefaultOutputPath = "descriptors.csv"
)

var (
	ErrDirectoryNotFound = errors.New("fields directory not found")
	ErrInputFileMissing  = errors.New("field table not found")
)

// Options configures a compile pass. Empty paths take the defaults.
type Options struct {
	InputDir   string
	OutputPath string
	DryRun     bool
	WorkDir    string
}

// Result summarizes a compile pass.
type Result struct {
	// WrittenPath is OutputPath, or the temporary file in dry-run mode.
	WrittenPath string
	Records     int
	// SkippedFiles lists field tables that could not be read; no record was
	// written for them.
	SkippedFiles  []string
	MalformedRows int
	// Unchanged is set when the existing output already had the same content.
	Unchanged bool
}

// Run compiles every field table of opts.InputDir into one descriptor file.
//
// A missing input directory is the only content error returned; unreadable
// field tables and malformed rows are logged and skipped. Nothing is written to
// opts.OutputPath until all records are compiled.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.InputDir == "" {
		opts.InputDir = DefaultInputDir
	}
	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputPath
	}
	if opts.WorkDir == "" {
		return Result{}, errors.New("workdir is required (create one with run.NewWorkdir)")
	}
	log := logging.FromContext(ctx)

	inputs, err := ListFieldTables(opts.InputDir, opts.OutputPath)
	if err != nil {
		return Result{}, err
	}
	log.Debug("found field tables", "dir", opts.InputDir, "count", len(inputs))

	if !opts.DryRun {
		if err := fs.ValidatePathWritable(opts.OutputPath); err != nil {
			return Result{}, fmt.Errorf("invalid output path %s: %w", opts.OutputPath, err)
		}
	}

	tmpOutputPath := run.NewTempNamer(opts.WorkDir, opts.OutputPath).Step("compile")
	res, err := writeDescriptors(ctx, tmpOutputPath, inputs)
	if err != nil {
		return res, err
	}

	if opts.DryRun {
		res.WrittenPath = tmpOutputPath
		return res, nil
	}
	res.WrittenPath = opts.OutputPath

	// Leave an identical output alone so watchers downstream don't fire.
	if equal, _ := fs.FilesEqual(opts.OutputPath, tmpOutputPath); equal {
		log.Debug("output identical to existing file; not overwriting", "path", opts.OutputPath)
		res.Unchanged = true
		_ = os.Remove(tmpOutputPath)
		return res, nil
	}
	if err := fs.ReplaceFile(tmpOutputPath, opts.OutputPath); err != nil {
		return res, err
	}
	return res, nil
}

// ListFieldTables returns the paths of the field tables in dir, sorted by file
// name. Directories and the file at exclude (the output, when it lives in dir)
// are left out.
func ListFieldTables(dir, exclude string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("read fields directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !fieldtable.IsFieldTable(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if exclude != "" && fs.SameFilePath(p, exclude) {
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeDescriptors(ctx context.Context, outputPath string, inputs []string) (Result, error) {
	var res Result

	out, err := os.Create(outputPath)
	if err != nil {
		return res, err
	}
	w := bufio.NewWriter(out)
	if err := writeRecords(ctx, w, inputs, &res); err != nil {
		fs.CloseOrLog(out, outputPath)
		return res, err
	}
	if err := w.Flush(); err != nil {
		fs.CloseOrLog(out, outputPath)
		return res, err
	}
	if err := out.Close(); err != nil {
		return res, err
	}
	return res, nil
}

func writeRecords(ctx context.Context, w *bufio.Writer, inputs []string, res *Result) error {
	log := logging.FromContext(ctx)
	for _, p := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		table, err := readFieldTable(p)
		if err != nil {
			log.Warn("skipping field table", "path", p, "err", err)
			res.SkippedFiles = append(res.SkippedFiles, p)
			continue
		}
		if table.MalformedRows > 0 {
			log.Warn("skipping rows with missing columns", "path", p, "rows", table.MalformedRows)
			res.MalformedRows += table.MalformedRows
		}

		if err := descriptor.WriteOne(w, descriptor.FromTable(table)); err != nil {
			return err
		}
		res.Records++
		log.Debug("compiled field table", "path", p, "name", table.Name, "fields", len(table.Fields))
	}
	return nil
}

func readFieldTable(path string) (*fieldtable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputFileMissing, path)
		}
		return nil, err
	}
	defer fs.CloseOrLog(f, path)

	table, err := fieldtable.Read(f, fieldtable.BaseName(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}
