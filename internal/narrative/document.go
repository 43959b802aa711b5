package narrative

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Document is an ordered list of numbered sections.
type Document struct {
	Sections []*Section
}

// Section is a titled run of paragraphs. A paragraph is a group of lines and
// tables printed without blank lines between them.
type Section struct {
	Title      string
	paragraphs [][]block
}

type block struct {
	line  string
	table *Table
}

// Table is a header row plus data rows, printed left-aligned and
// pipe-delimited.
type Table struct {
	Header []string
	Rows   [][]string
}

// TableFrom builds a table from records whose first row is the header.
func TableFrom(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}
	return &Table{Header: records[0], Rows: records[1:]}
}

// AddSection appends a section and returns it for filling.
func (d *Document) AddSection(title string) *Section {
	s := &Section{Title: title}
	d.Sections = append(d.Sections, s)
	return s
}

// Para starts a new paragraph with one formatted line.
func (s *Section) Para(format string, args ...any) *Section {
	s.paragraphs = append(s.paragraphs, []block{{line: fmt.Sprintf(format, args...)}})
	return s
}

// Line appends a formatted line to the current paragraph.
func (s *Section) Line(format string, args ...any) *Section {
	s.add(block{line: fmt.Sprintf(format, args...)})
	return s
}

// Table appends a table to the current paragraph.
func (s *Section) Table(t *Table) *Section {
	s.add(block{table: t})
	return s
}

func (s *Section) add(b block) {
	if len(s.paragraphs) == 0 {
		s.paragraphs = append(s.paragraphs, nil)
	}
	last := len(s.paragraphs) - 1
	s.paragraphs[last] = append(s.paragraphs[last], b)
}

// WriteTo renders the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for i, s := range d.Sections {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "--- %d. %s ---\n", i+1, s.Title)
		for _, p := range s.paragraphs {
			buf.WriteString("\n")
			for _, b := range p {
				if b.table != nil {
					renderTable(&buf, b.table)
					continue
				}
				buf.WriteString(b.line)
				buf.WriteString("\n")
			}
		}
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// String renders the document to a string.
func (d *Document) String() string {
	var b strings.Builder
	_, _ = d.WriteTo(&b)
	return b.String()
}

// Bytes renders the document to a byte slice.
func (d *Document) Bytes() []byte { return []byte(d.String()) }

func renderTable(w io.Writer, t *Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	tw.AppendBulk(t.Rows)
	tw.Render()
}
