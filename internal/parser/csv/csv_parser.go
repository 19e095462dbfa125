// Package csv reads a delimited file into a table.Table and writes one back.
//
// The reader loads the whole input into memory. Every non-missing field is
// kept as a Text cell, verbatim; typing and cleanup are left to the
// transform chain. Fields equal to one of the missing tokens (after
// trimming) load as Missing cells.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// ErrEmptyInput is returned when the input has no header row.
var ErrEmptyInput = errors.New("csv: empty input, header row required")

// DefaultMissingTokens lists the field values read as missing. It mirrors
// the NA vocabulary of common dataframe tooling so files exported by such
// tools round-trip.
var DefaultMissingTokens = []string{
	"",
	"#N/A", "#N/A N/A", "#NA",
	"-1.#IND", "-1.#QNAN", "1.#IND", "1.#QNAN",
	"-NaN", "-nan", "NaN", "nan",
	"<NA>", "N/A", "NA", "n/a",
	"NULL", "null", "None",
}

// Options configures the reader. The zero value reads comma-separated UTF-8
// with DefaultMissingTokens.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding is the input character set label (e.g. "utf-8",
	// "windows-1252", "latin1"). Empty means UTF-8.
	Encoding string

	// MissingTokens overrides DefaultMissingTokens when non-nil.
	MissingTokens []string
}

// Parser reads delimited input according to Options. It is safe to reuse
// across inputs but not for concurrent use.
type Parser struct {
	opt     Options
	missing map[string]struct{}
}

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	tokens := opt.MissingTokens
	if tokens == nil {
		tokens = DefaultMissingTokens
	}
	missing := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		missing[strings.TrimSpace(tok)] = struct{}{}
	}
	return &Parser{opt: opt, missing: missing}
}

// Read consumes all of r and returns the table. The first record is the
// header. Blank lines are skipped; records shorter than the header are
// padded with Missing cells and records longer than the header are an error.
func (p *Parser) Read(r io.Reader) (*table.Table, error) {
	dr, err := decodeReader(r, p.opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dr)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := p.checkUTF8(header, 1); err != nil {
		return nil, err
	}

	t := table.New(header)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) > len(header) {
			return nil, fmt.Errorf("read csv: line %d: expected at most %d fields, got %d", line, len(header), len(rec))
		}
		if err := p.checkUTF8(rec, line); err != nil {
			return nil, err
		}

		row := make(table.Row, len(rec), len(header))
		for i, val := range rec {
			row[i] = p.cell(val)
		}
		t.Append(row)
	}
	return t, nil
}

func (p *Parser) cell(val string) table.Cell {
	if _, ok := p.missing[strings.TrimSpace(val)]; ok {
		return table.Missing()
	}
	return table.Text(val)
}

// checkUTF8 rejects undecodable bytes instead of silently replacing them.
// Only relevant for UTF-8 input; single-byte charmaps always decode.
func (p *Parser) checkUTF8(rec []string, line int) error {
	for i, v := range rec {
		if !utf8.ValidString(v) {
			return fmt.Errorf("read csv: line %d field %d: invalid UTF-8 (set the input encoding, e.g. windows-1252)", line, i+1)
		}
	}
	return nil
}
