package hosts

import (
	"bufio"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"
)

// maxLineSize bounds a single hosts line. Longer lines abort the parse with
// an *OpenError.
const maxLineSize = 1 << 20

// Drop describes a line that was discarded because it was not valid UTF-8,
// its address did not parse or was refused by NewRecord. Comments and blank
// lines are not drops.
type Drop struct {
	Line int    // 1-based line number
	Text string // raw line without its line ending
	Err  error  // ErrInvalidEncoding, *AddressError or *RecordError
}

// Option configures a Parser.
type Option func(*Parser)

// WithDropHandler registers fn to be called for every discarded line.
func WithDropHandler(fn func(Drop)) Option {
	return func(p *Parser) { p.onDrop = fn }
}

// Parser extracts Records from hosts formatted text. Lines whose address
// does not parse, or is neither loopback nor private, are skipped; only a
// failure to read the input aborts a parse.
//
// A Parser is meant to be used for a single parse. Parsing twice with the
// same Parser appends to the records of the first parse.
type Parser struct {
	line    int
	records []Record
	onDrop  func(Drop)
}

// NewParser returns a Parser configured with opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the hosts file at path and returns its records in file order.
// The file is closed before Parse returns. If the file cannot be opened or
// read the returned error matches ErrCouldNotOpen and no records are returned.
func (p *Parser) Parse(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	records, err := p.ParseReader(f)
	if err != nil {
		var oe *OpenError
		if errors.As(err, &oe) {
			oe.Path = path
		}
		return nil, err
	}
	return records, nil
}

// ParseReader is like Parse but reads hosts formatted text from r.
func (p *Parser) ParseReader(r io.Reader) ([]Record, error) {
	mark := len(p.records)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		p.line++
		text := scanner.Text()

		record, ok, err := parseLine(text)
		if err != nil {
			if p.onDrop != nil {
				p.onDrop(Drop{Line: p.line, Text: text, Err: err})
			}
			continue
		}
		if ok {
			p.records = append(p.records, record)
		}
	}
	if err := scanner.Err(); err != nil {
		p.records = p.records[:mark]
		return nil, &OpenError{Err: err}
	}

	return slices.Clone(p.records), nil
}

// Line returns the number of lines consumed by p across all of its parses.
func (p *Parser) Line() int { return p.line }

// parseLine turns a single line into a Record. ok is false for blank lines,
// comments and lines without tokens; err is set when the line was dropped.
func parseLine(text string) (record Record, ok bool, err error) {
	if text == "" || text[0] == '#' {
		return Record{}, false, nil
	}
	if !utf8.ValidString(text) {
		return Record{}, false, ErrInvalidEncoding
	}

	fields := tokenize(text)
	if len(fields) == 0 {
		return Record{}, false, nil
	}

	addr, err := ParseAddress(fields[0])
	if err != nil {
		return Record{}, false, err
	}
	record, err = NewRecord(addr, fields[1:])
	if err != nil {
		return Record{}, false, err
	}
	return record, true, nil
}

// tokenize splits a line on spaces and tabs, dropping empty tokens.
// Other whitespace is part of a token.
func tokenize(text string) []string {
	text = strings.ReplaceAll(text, "\t", " ")
	return strings.FieldsFunc(text, func(r rune) bool { return r == ' ' })
}
