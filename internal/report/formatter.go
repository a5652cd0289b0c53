package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/camlsize/internal/constants"
)

// DefaultWidth is the default width of the module name column in text output.
const DefaultWidth = constants.DefaultWidth

// Formatter renders reports.
type Formatter interface {
	FormatSingle(w io.Writer, r *Single) error
	FormatComparison(w io.Writer, c *Comparison) error
}

// NewFormatter creates a Formatter for the given format. width applies to
// the text format only; values below 1 select DefaultWidth.
func NewFormatter(format Format, width int) (Formatter, error) {
	switch format {
	case FormatText, "":
		if width < 1 {
			width = DefaultWidth
		}
		return &TextFormatter{Width: width}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// TextFormatter writes the `# `-commented tables. Names are left-justified
// in a Width wide column; longer names widen the line.
type TextFormatter struct {
	Width int
}

func (f *TextFormatter) FormatSingle(w io.Writer, r *Single) error {
	p := &printer{w: w}
	p.printf("# modules in %s (size in Kb)\n", r.Binary)
	for _, row := range r.Modules {
		p.printf("%-*s %6.1f\n", f.Width, row.Name, row.Size)
	}
	return p.err
}

func (f *TextFormatter) FormatComparison(w io.Writer, c *Comparison) error {
	p := &printer{w: w}

	p.printf("# modules in %s %s (size in Kb)\n", c.Left, c.Right)
	for _, row := range c.Shared {
		p.printf("%-*s %6.1f %6.1f\n", f.Width, row.Name, row.Left, row.Right)
	}
	p.printf("# totals: %6.1f %6.1f\n", c.SharedLeftTotal, c.SharedRightTotal)

	f.section(p, c.Left, c.LeftOnly, c.LeftOnlyTotal)
	f.section(p, c.Right, c.RightOnly, c.RightOnlyTotal)

	return p.err
}

func (f *TextFormatter) section(p *printer, binary string, rows []Row, total float64) {
	p.printf("\n# modules only in %s (size in Kb)\n", binary)
	for _, row := range rows {
		p.printf("%-*s %6.1f\n", f.Width, row.Name, row.Size)
	}
	p.printf("# total: %6.1f\n", total)
}

// printer remembers the first write error and skips writes after it.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// JSONFormatter writes indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatSingle(w io.Writer, r *Single) error {
	return f.encode(w, r)
}

func (f *JSONFormatter) FormatComparison(w io.Writer, c *Comparison) error {
	return f.encode(w, c)
}

func (f *JSONFormatter) encode(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// YAMLFormatter writes YAML documents.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatSingle(w io.Writer, r *Single) error {
	return f.encode(w, r)
}

func (f *YAMLFormatter) FormatComparison(w io.Writer, c *Comparison) error {
	return f.encode(w, c)
}

func (f *YAMLFormatter) encode(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// CSVFormatter writes one record per module. Sizes keep full precision.
type CSVFormatter struct{}

func (f *CSVFormatter) FormatSingle(w io.Writer, r *Single) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"module", "size_kb"}); err != nil {
		return err
	}
	for _, row := range r.Modules {
		if err := cw.Write([]string{row.Name, formatKB(row.Size)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (f *CSVFormatter) FormatComparison(w io.Writer, c *Comparison) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"group", "module", "left_kb", "right_kb"}); err != nil {
		return err
	}
	for _, row := range c.Shared {
		if err := cw.Write([]string{"shared", row.Name, formatKB(row.Left), formatKB(row.Right)}); err != nil {
			return err
		}
	}
	for _, row := range c.LeftOnly {
		if err := cw.Write([]string{"left", row.Name, formatKB(row.Size), ""}); err != nil {
			return err
		}
	}
	for _, row := range c.RightOnly {
		if err := cw.Write([]string{"right", row.Name, "", formatKB(row.Size)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatKB(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}
