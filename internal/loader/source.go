package loader

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

var stdin io.Reader = os.Stdin

// Source yields the rows of a delimited file after its header row.
type Source struct {
	header  []string
	reader  *csv.Reader
	closers []io.Closer
	line    int
}

// Open opens the CSV file at path. "-" reads stdin and a ".gz" suffix is
// decompressed on the fly. The header row is consumed immediately.
func Open(path string) (*Source, error) {
	var (
		fin     io.Reader
		closers []io.Closer
	)
	if path == "-" {
		fin = stdin
	} else {
		osin, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: could not open csv, %w", path, err)
		}
		closers = append(closers, osin)
		fin = osin
		if strings.HasSuffix(path, ".gz") {
			gzin, err := gzip.NewReader(osin)
			if err != nil {
				osin.Close()
				return nil, fmt.Errorf("%s: could not open csv, %w", path, err)
			}
			closers = append(closers, gzin)
			fin = gzin
		}
	}

	src, err := NewSource(fin)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.closers = closers
	return src, nil
}

// NewSource reads the header row from r and returns a Source over the rest.
func NewSource(r io.Reader) (*Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	return &Source{header: header, reader: reader, line: 1}, nil
}

func (s *Source) Header() []string {
	return s.header
}

// Next returns the next row, or io.EOF once the file is exhausted.
func (s *Source) Next() ([]string, error) {
	row, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	s.line++
	return row, nil
}

// Line is the 1-based line number of the last row returned, the header
// being line 1.
func (s *Source) Line() int {
	return s.line
}

func (s *Source) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
