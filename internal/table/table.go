package table

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

const byteOrderMark = "\ufeff"

// Table is a CSV file read into memory. The first record holds the headers.
type Table struct {
	Path    string
	Headers []string
	Rows    []*Row
}

// Row is a single record addressed by column header.
type Row struct {
	headers []string
	index   map[string]int
	values  []string
}

// NewRow returns a row for the headers and values. Missing values are empty.
func NewRow(headers []string, values []string) *Row {
	return newRow(headers, headerIndex(headers), values)
}

func newRow(headers []string, index map[string]int, values []string) *Row {
	if len(values) < len(headers) {
		padded := make([]string, len(headers))
		copy(padded, values)
		values = padded
	}
	return &Row{headers: headers, index: index, values: values[:len(headers)]}
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	return index
}

// Headers returns the column headers in file order.
func (r *Row) Headers() []string {
	return r.headers
}

// Lookup returns the cell for the header and whether the column exists.
func (r *Row) Lookup(header string) (string, bool) {
	i, ok := r.index[header]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Get returns the cell for the header or an empty string.
func (r *Row) Get(header string) string {
	val, _ := r.Lookup(header)
	return val
}

// Parse reads a CSV table from r.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "error parsing csv")
	}
	if len(records) == 0 {
		return nil, errors.New("csv is empty")
	}
	headers := records[0]
	headers[0] = strings.TrimPrefix(headers[0], byteOrderMark)
	index := headerIndex(headers)
	t := &Table{
		Headers: headers,
		Rows:    make([]*Row, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		t.Rows = append(t.Rows, newRow(headers, index, record))
	}
	return t, nil
}

// Read reads the CSV file at path.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}
	t.Path = path
	return t, nil
}

// ReadAll reads the files concurrently and returns the tables in the order of paths.
// The first error aborts the read.
func ReadAll(ctx context.Context, paths ...string) ([]*Table, error) {
	tables := make([]*Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Read(path)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
