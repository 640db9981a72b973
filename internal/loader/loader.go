package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shivam-909/bidtree/internal/index"
)

// ErrShortRow is returned when a row lacks one of the mapped columns.
var ErrShortRow = errors.New("row has too few fields")

// Columns maps record fields to 0-based CSV column positions.
type Columns struct {
	Title  int
	ID     int
	Amount int
	Fund   int
}

// DefaultColumns matches the eBid monthly sales export.
var DefaultColumns = Columns{Title: 0, ID: 1, Amount: 4, Fund: 8}

func (c Columns) width() int {
	return max(c.Title, c.ID, c.Amount, c.Fund) + 1
}

// ParseAmount strips every symbol and digit-grouping comma from s and
// parses what is left, so "$1,234.50" becomes 1234.5.
func ParseAmount(s string, symbol rune) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == symbol || r == ',' {
			return -1
		}
		return r
	}, s)
	return strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
}

// Loader maps CSV rows to records and inserts them into an index.
type Loader struct {
	Columns Columns
	Symbol  rune
	Log     *slog.Logger
}

// New returns a Loader with the default column mapping and a "$" symbol.
func New(log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		Columns: DefaultColumns,
		Symbol:  '$',
		Log:     log,
	}
}

// Record builds a record from one row.
func (l *Loader) Record(row []string) (index.Record, error) {
	if len(row) < l.Columns.width() {
		return index.Record{}, fmt.Errorf("%w: got %d, need %d", ErrShortRow, len(row), l.Columns.width())
	}

	r := index.Record{
		ID:    row[l.Columns.ID],
		Title: row[l.Columns.Title],
		Fund:  row[l.Columns.Fund],
	}
	amount, err := ParseAmount(row[l.Columns.Amount], l.Symbol)
	if err != nil {
		l.Log.Warn("unparseable amount, using 0", "id", r.ID, "amount", row[l.Columns.Amount], "err", err)
	} else {
		r.Amount = amount
	}
	return r, nil
}

// Load inserts every row of src into ix and returns how many records were
// inserted. A malformed row stops the load; records inserted before it stay
// in ix.
func (l *Loader) Load(ctx context.Context, src *Source, ix index.Index) (int, error) {
	l.Log.Debug("csv header", "columns", strings.Join(src.Header(), " | "))

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		row, err := src.Next()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("reading csv: %w", err)
		}

		r, err := l.Record(row)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", src.Line(), err)
		}
		l.Log.Debug("loaded bid", "id", r.ID, "title", r.Title, "fund", r.Fund, "amount", r.Amount)

		ix.Insert(r)
		count++
	}
}

// LoadFile opens path and loads it into ix.
func (l *Loader) LoadFile(ctx context.Context, path string, ix index.Index) (int, error) {
	l.Log.Info("loading csv file", "path", path)

	src, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	return l.Load(ctx, src, ix)
}
