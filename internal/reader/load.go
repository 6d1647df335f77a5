package reader

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"semantic-mapper/internal/resource"
)

// Format identifies how a resource file is decoded.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsValid returns true if the format is supported.
func (f Format) IsValid() bool {
	return f == FormatCSV || f == FormatJSON || f == FormatYAML
}

// Source describes a resource file to load.
type Source struct {
	ID     string
	Format Format
	Path   string
}

// FromJSON decodes a JSON document. Numbers stay exact: integral values
// become Int and the rest Float.
func FromJSON(r io.Reader) (*Tree, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	root, err := resource.FromAny(raw)
	if err != nil {
		return nil, err
	}

	return NewTree(root), nil
}

// FromYAML decodes a YAML document.
func FromYAML(r io.Reader) (*Tree, error) {
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}

	root, err := resource.FromAny(raw)
	if err != nil {
		return nil, err
	}

	return NewTree(root), nil
}

// FromCSV decodes a CSV table into an array of rows, each an array of
// strings. Rows may have different lengths; the header row is kept.
func FromCSV(r io.Reader) (*Tree, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	rows := make([]resource.Value, len(records))
	for i, rec := range records {
		rows[i] = resource.Strings(rec...)
	}

	return NewTree(resource.Array(rows)), nil
}

// Decode reads r with the given format.
func Decode(format Format, r io.Reader) (*Tree, error) {
	switch format {
	case FormatCSV:
		return FromCSV(r)
	case FormatJSON:
		return FromJSON(r)
	case FormatYAML:
		return FromYAML(r)
	default:
		return nil, fmt.Errorf("unsupported resource format %q", format)
	}
}

// LoadFile opens and decodes one source. Relative paths are resolved
// against baseDir.
func LoadFile(baseDir string, src Source) (*Tree, error) {
	path := src.Path
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource %s: %w", src.ID, err)
	}
	defer f.Close()

	format := src.Format
	if format == "" {
		format = FormatFromExt(path)
	}

	t, err := Decode(format, f)
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", src.ID, err)
	}

	return t, nil
}

// FormatFromExt guesses the format from a file extension.
func FormatFromExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadAll loads every source concurrently. The first failure cancels the
// remaining loads.
func LoadAll(ctx context.Context, baseDir string, sources []Source) (Set, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex

	set := make(Set, len(sources))

	for _, src := range sources {
		src := src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			t, err := LoadFile(baseDir, src)
			if err != nil {
				return err
			}

			mu.Lock()
			set[src.ID] = t
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return set, nil
}
