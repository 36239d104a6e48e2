package fieldtable

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Ext is the file extension of a field table.
const Ext = ".csv"

// CommentPrefix marks a comment row when it starts the (trimmed) first cell.
const CommentPrefix = "#"

// MinColumns is the minimum number of cells of a well-formed row: an ignored
// leading cell, the field name and the field type.
const MinColumns = 3

const (
	nameColumn = 1
	typeColumn = 2
)

// Field is a named, typed entry of a field table.
type Field struct {
	Name string
	Type string
}

// Token returns the "name:type" form used in descriptor records.
func (f Field) Token() string { return f.Name + ":" + f.Type }

// Table is a parsed field table. Name is the file's base name.
type Table struct {
	Name   string
	Fields []Field
	// MalformedRows counts rows skipped because they had fewer than
	// MinColumns cells or could not be parsed.
	MalformedRows int
}

// IsFieldTable reports whether fileName has the field table extension.
// The match is case-sensitive.
func IsFieldTable(fileName string) bool {
	return strings.HasSuffix(fileName, Ext)
}

// BaseName strips the directory and the trailing extension from a field table
// file name. A name that is only the extension (".csv") is kept as is, the same
// way hidden files keep their name.
func BaseName(fileName string) string {
	fileName = filepath.Base(fileName)
	base := strings.TrimSuffix(fileName, Ext)
	if base == "" {
		return fileName
	}
	return base
}

// IsComment reports whether row is blank or a comment.
func IsComment(row []string) bool {
	return len(row) == 0 || strings.HasPrefix(strings.TrimSpace(row[0]), CommentPrefix)
}

// ParseRow extracts the field described by a row. ok is false for comments and
// rows with fewer than MinColumns cells.
func ParseRow(row []string) (f Field, ok bool) {
	if IsComment(row) || len(row) < MinColumns {
		return Field{}, false
	}
	return Field{
		Name: strings.TrimSpace(row[nameColumn]),
		Type: strings.TrimSpace(row[typeColumn]),
	}, true
}

// newReader returns a strict reader: a malformed quote fails only its own
// line, and reading resumes on the next one. Lines starting with '#' are
// dropped before parsing so quotes inside comments are never reported.
func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	return reader
}

// Read parses a field table named name from r.
//
// Comment rows are skipped silently. Short rows and lines with malformed quotes
// are skipped and counted in MalformedRows. Any other read error is returned.
func Read(r io.Reader, name string) (*Table, error) {
	t := &Table{Name: name}
	reader := newReader(r)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				t.MalformedRows++
				continue
			}
			return nil, err
		}
		if IsComment(row) {
			continue
		}
		f, ok := ParseRow(row)
		if !ok {
			t.MalformedRows++
			continue
		}
		t.Fields = append(t.Fields, f)
	}
}

// Tokens returns the "name:type" tokens of t in row order.
func (t *Table) Tokens() []string {
	tokens := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		tokens = append(tokens, f.Token())
	}
	return tokens
}
