package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/clwm/am"
	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/sym"
)

// Printer writes records in one output format.
type Printer struct {
	out    io.Writer
	format string
}

// NewPrinter creates a printer for format (see am.OutputFormats). An empty
// format prints text.
func NewPrinter(out io.Writer, format string) *Printer {
	if format == "" {
		format = am.FormatText
	}
	return &Printer{out: out, format: format}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfigureStyling disables colors when stdout is not a terminal so piped
// output stays plain.
func ConfigureStyling(out io.Writer) {
	if !IsTerminal(out) {
		pterm.DisableStyling()
	}
}

// One prints a single record.
func (p *Printer) One(r Record) error {
	switch p.format {
	case am.FormatText:
		return p.textOne(r)
	case am.FormatJSON:
		return p.json(r.document(true))
	default:
		return p.document(r.Document())
	}
}

// Many prints a list of records of one kind. Documents wrap the list under the
// plural kind, e.g. "nouns".
func (p *Printer) Many(kind string, records []Record) error {
	key := strings.ReplaceAll(kind, "-", "_") + "s"
	switch p.format {
	case am.FormatText:
		return p.textMany(kind, records)
	case am.FormatJSON:
		docs := make([]map[string]interface{}, 0, len(records))
		for _, r := range records {
			docs = append(docs, r.document(true))
		}
		return p.json(map[string]interface{}{key: docs})
	default:
		docs := make([]map[string]interface{}, 0, len(records))
		for _, r := range records {
			docs = append(docs, r.Document())
		}
		return p.document(map[string]interface{}{key: docs})
	}
}

// Success prints a confirmation line in text mode and the record otherwise.
func (p *Printer) Success(action string, r Record) error {
	if p.format != am.FormatText {
		return p.One(r)
	}
	label := text(r.Get("id"))
	if label == "" {
		label = fmt.Sprintf("%s v%s", text(r.Get("name")), text(r.Get("version")))
	}
	fmt.Fprintf(p.out, "%s %s %s %s %s\n", sym.Success, action, r.Glyph(), r.Kind, label)
	return p.textOne(r)
}

func (p *Printer) json(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

func (p *Printer) document(doc map[string]interface{}) error {
	var (
		data []byte
		err  error
	)
	switch p.format {
	case am.FormatTOML:
		data, err = toml.Marshal(doc)
	case am.FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		return errors.Newf("unsupported output format %q", p.format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", p.format)
	}
	_, err = p.out.Write(data)
	return err
}

func (p *Printer) textOne(r Record) error {
	data := pterm.TableData{}
	for _, f := range r.Fields {
		data = append(data, []string{f.Key, text(f.Value)})
	}
	table, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	fmt.Fprintln(p.out, table)

	if len(r.Children) > 0 {
		root := pterm.TreeNode{Text: r.Glyph() + " " + text(r.Get("id"))}
		for _, c := range r.Children {
			root.Children = append(root.Children, treeNode(c))
		}
		rendered, err := pterm.DefaultTree.WithRoot(root).Srender()
		if err != nil {
			return errors.Wrap(err, "render tree")
		}
		fmt.Fprint(p.out, rendered)
	}
	return nil
}

func (p *Printer) textMany(kind string, records []Record) error {
	if len(records) == 0 {
		fmt.Fprintf(p.out, "no %ss found\n", kind)
		return nil
	}

	header := []string{}
	for _, f := range records[0].Fields {
		header = append(header, f.Key)
	}
	data := pterm.TableData{header}
	for _, r := range records {
		row := make([]string, 0, len(r.Fields))
		for _, f := range r.Fields {
			row = append(row, text(f.Value))
		}
		data = append(data, row)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	fmt.Fprintln(p.out, table)
	fmt.Fprintf(p.out, "%s %d %s(s)\n", sym.ForCommand(kind), len(records), kind)
	return nil
}

// treeNode labels an attribute as "#id data".
func treeNode(r Record) pterm.TreeNode {
	node := pterm.TreeNode{Text: fmt.Sprintf("%s #%s %s", r.Glyph(), text(r.Get("id")), text(r.Get("data")))}
	for _, c := range r.Children {
		node.Children = append(node.Children, treeNode(c))
	}
	return node
}
