// Package csvio reads transaction events from CSV and writes account snapshots back as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/payments-engine/internal/domain/transaction"
)

var (
	ErrMissingColumn = errors.New("header is missing a required column")
	ErrColumnCount   = errors.New("wrong number of fields")
)

var requiredColumns = []string{"type", "client", "tx"}

// Reader yields one transaction.Event per data row. Rows that cannot be parsed
// come back as *transaction.MalformedError and the caller may keep reading.
type Reader struct {
	csv     *csv.Reader
	trim    bool
	columns map[string]int
	started bool
}

type Option func(*Reader)

// WithTrimSpaces controls whether surrounding whitespace is stripped from every field
func WithTrimSpaces(trim bool) Option {
	return func(r *Reader) {
		r.trim = trim
	}
}

func NewReader(r io.Reader, opts ...Option) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // reference rows may omit the trailing amount column
	cr.ReuseRecord = true

	reader := &Reader{csv: cr, trim: true}
	for _, opt := range opts {
		opt(reader)
	}
	cr.TrimLeadingSpace = reader.trim
	return reader
}

// FileReader is a Reader over an opened file
type FileReader struct {
	*Reader
	file *os.File
}

// Open opens path for reading. Failure here is the only fatal input error.
func Open(path string, opts ...Option) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %s: %w", path, err)
	}
	return &FileReader{Reader: NewReader(f, opts...), file: f}, nil
}

func (f *FileReader) Close() error {
	return f.file.Close()
}

// Next returns the next event, io.EOF when the input is exhausted, a
// *transaction.MalformedError for a bad row, or any other error when the
// input can no longer be read at all.
func (r *Reader) Next() (transaction.Event, error) {
	if !r.started {
		if err := r.readHeader(); err != nil {
			return transaction.Event{}, err
		}
		r.started = true
	}

	for {
		record, err := r.csv.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && !errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return transaction.Event{}, &transaction.MalformedError{Row: parseErr.Line, Err: parseErr.Err}
			}
			return transaction.Event{}, err
		}

		line, _ := r.csv.FieldPos(0)
		r.normalize(record)
		if blank(record) {
			continue
		}

		event, err := r.parse(record)
		if err != nil {
			return transaction.Event{}, &transaction.MalformedError{Row: line, Err: err}
		}
		return event, nil
	}
}

func (r *Reader) readHeader() error {
	for {
		record, err := r.csv.Read()
		if err != nil {
			return err
		}
		r.normalize(record)
		if blank(record) {
			continue
		}

		r.columns = make(map[string]int, len(record))
		for i, name := range record {
			r.columns[strings.ToLower(strings.TrimSpace(name))] = i
		}
		for _, name := range requiredColumns {
			if _, ok := r.columns[name]; !ok {
				return fmt.Errorf("%w: %q", ErrMissingColumn, name)
			}
		}
		return nil
	}
}

func (r *Reader) parse(record []string) (transaction.Event, error) {
	if len(record) < len(requiredColumns) || len(record) > len(r.columns) {
		return transaction.Event{}, fmt.Errorf("%w: got %d", ErrColumnCount, len(record))
	}

	typ, err := transaction.ParseType(record[r.columns["type"]])
	if err != nil {
		return transaction.Event{}, err
	}

	client, err := strconv.ParseUint(record[r.columns["client"]], 10, 16)
	if err != nil {
		return transaction.Event{}, fmt.Errorf("client: %w", err)
	}

	tx, err := strconv.ParseUint(record[r.columns["tx"]], 10, 32)
	if err != nil {
		return transaction.Event{}, fmt.Errorf("tx: %w", err)
	}

	event := transaction.Event{Type: typ, Client: uint16(client), Tx: uint32(tx)}

	if idx, ok := r.columns["amount"]; ok && idx < len(record) && record[idx] != "" {
		amount, err := transaction.ParseAmount(record[idx])
		if err != nil {
			return transaction.Event{}, fmt.Errorf("amount: %w", err)
		}
		event.Amount = &amount
	}

	if !event.FormatValid() {
		return transaction.Event{}, transaction.ErrInconsistentAmount
	}
	return event, nil
}

func (r *Reader) normalize(record []string) {
	if !r.trim {
		return
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
}

func blank(record []string) bool {
	for _, field := range record {
		if field != "" {
			return false
		}
	}
	return true
}
