package descriptor

import (
	"io"
	"strings"

	"github.com/adrianmusante/descriptor-tools/internal/fieldtable"
)

// Separator joins the name and tokens of a record.
const Separator = ","

// Record is one compressed line of a descriptor file: the field table name
// followed by its "name:type" tokens.
type Record struct {
	Name   string
	Tokens []string
}

// FromTable builds the record of a parsed field table.
func FromTable(t *fieldtable.Table) Record {
	return Record{Name: t.Name, Tokens: t.Tokens()}
}

// String joins the name and tokens with Separator, without a line terminator.
func (r Record) String() string {
	parts := make([]string, 0, len(r.Tokens)+1)
	parts = append(parts, r.Name)
	parts = append(parts, r.Tokens...)
	return strings.Join(parts, Separator)
}

// WriteOne writes r as a single newline-terminated line.
func WriteOne(w io.Writer, r Record) error {
	_, err := io.WriteString(w, r.String()+"\n")
	return err
}
