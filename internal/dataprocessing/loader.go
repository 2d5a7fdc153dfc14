package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// Encoding names a supported source character encoding.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1251 Encoding = "windows-1251"
)

// Dialect is one (encoding, delimiter) combination the loader tries.
type Dialect struct {
	Encoding  Encoding
	Delimiter rune
}

func (d Dialect) String() string {
	return fmt.Sprintf("%s/%q", d.Encoding, d.Delimiter)
}

// DefaultDialects is the fixed priority order of read attempts.
var DefaultDialects = []Dialect{
	{Encoding: EncodingUTF8, Delimiter: ';'},
	{Encoding: EncodingUTF8, Delimiter: ','},
	{Encoding: EncodingWindows1251, Delimiter: ';'},
	{Encoding: EncodingWindows1251, Delimiter: ','},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads delimited transaction logs into canonical raw tables.
type Loader struct {
	logger   *slog.Logger
	dialects []Dialect
}

// NewLoader creates a loader that tries DefaultDialects in order.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		dialects: DefaultDialects,
	}
}

// LoadFile reads the file at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*domain.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(path, err)
	}
	return l.LoadBytes(ctx, path, data)
}

// Load reads all of r; name is used in diagnostics only.
func (l *Loader) Load(ctx context.Context, name string, r io.Reader) (*domain.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(name, err)
	}
	return l.LoadBytes(ctx, name, data)
}

// LoadBytes decodes data with the first dialect that parses, drops
// placeholder columns, canonicalizes headers and checks the required schema.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*domain.RawTable, error) {
	var lastErr error
	for _, dialect := range l.dialects {
		records, err := parseDialect(data, dialect)
		if err != nil {
			l.logger.DebugContext(ctx, "dialect rejected",
				slog.String("source", name),
				slog.String("dialect", dialect.String()),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		l.logger.InfoContext(ctx, "file decoded",
			slog.String("source", name),
			slog.String("encoding", string(dialect.Encoding)),
			slog.String("delimiter", string(dialect.Delimiter)),
			slog.Int("rows", len(records)-1))

		return l.buildTable(ctx, name, dialect, records)
	}
	return nil, apperrors.NewUnreadableFileError(name, lastErr)
}

func (l *Loader) buildTable(ctx context.Context, name string, dialect Dialect, records [][]string) (*domain.RawTable, error) {
	header := records[0]
	keep := make([]int, 0, len(header))
	columns := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))

	for i, h := range header {
		if IsPlaceholderColumn(h) {
			l.logger.DebugContext(ctx, "dropping placeholder column",
				slog.String("source", name),
				slog.Int("index", i))
			continue
		}
		canonical := CanonicalHeader(h)
		if seen[canonical] {
			l.logger.WarnContext(ctx, "duplicate column ignored",
				slog.String("source", name),
				slog.String("column", canonical))
			continue
		}
		seen[canonical] = true
		keep = append(keep, i)
		columns = append(columns, canonical)
	}

	if missing := MissingRequired(columns); len(missing) > 0 {
		return nil, apperrors.NewMissingColumnsError(name, missing)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(rec) {
				row[j] = rec[idx]
			}
		}
		rows = append(rows, row)
	}

	return &domain.RawTable{
		Source:    name,
		Encoding:  string(dialect.Encoding),
		Delimiter: dialect.Delimiter,
		Columns:   columns,
		Rows:      rows,
	}, nil
}

// parseDialect decodes and splits data. A result with a single header column
// means the delimiter did not occur and counts as a failed attempt. Rows may
// have any number of fields.
func parseDialect(data []byte, dialect Dialect) ([][]string, error) {
	decoded, err := decode(data, dialect.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = dialect.Delimiter
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	// Short or long rows are kept; missing cells are left for the cleaner.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse: no header row")
	}
	if len(records[0]) < 2 {
		return nil, fmt.Errorf("parse: delimiter %q not found in header", dialect.Delimiter)
	}
	return records, nil
}

func decode(data []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("decode: invalid %s byte sequence", enc)
		}
		return data, nil
	case EncodingWindows1251:
		out, err := charmap.Windows1251.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", enc, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("decode: unsupported encoding %s", enc)
	}
}

// Concat stacks raw tables on the canonical schema. Required columns come
// first, followed by any extra columns in first-seen order; cells absent from
// a source table are left empty.
func Concat(tables ...*domain.RawTable) *domain.RawTable {
	columns := append([]string(nil), RequiredColumns...)
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}

	var sources []string
	var first *domain.RawTable
	for _, t := range tables {
		if t == nil {
			continue
		}
		if first == nil {
			first = t
		}
		sources = append(sources, t.Source)
		for _, col := range t.Columns {
			if _, ok := index[col]; !ok {
				index[col] = len(columns)
				columns = append(columns, col)
			}
		}
	}

	out := &domain.RawTable{Columns: columns}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, src := range t.Rows {
			row := make([]string, len(columns))
			for j, col := range t.Columns {
				if j < len(src) {
					row[index[col]] = src[j]
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	if len(sources) == 1 {
		out.Source = first.Source
		out.Encoding = first.Encoding
		out.Delimiter = first.Delimiter
	} else {
		out.Source = fmt.Sprintf("%d files", len(sources))
	}
	return out
}
