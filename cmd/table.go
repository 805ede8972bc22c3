package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// column describes one table column. WidthMax of zero leaves the column unbounded.
type column struct {
	Header   string
	Align    columnAlignment
	WidthMax int
}

func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		align := text.AlignLeft
		if col.Align == alignRight {
			align = text.AlignRight
		}
		cc := table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
		if col.WidthMax > 0 {
			cc.WidthMax = col.WidthMax
			cc.WidthMaxEnforcer = text.WrapSoft
		}
		columnConfigs = append(columnConfigs, cc)
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

var matchColors = text.Colors{text.FgHiYellow, text.Bold}

// renderHighlight turns <mark> spans into terminal colour, or *emphasis* when colour is off
func renderHighlight(s string, color bool) string {
	var b strings.Builder
	for {
		start := strings.Index(s, markOpen)
		if start < 0 {
			break
		}
		end := strings.Index(s[start:], markClose)
		if end < 0 {
			break
		}
		match := s[start+len(markOpen) : start+end]
		b.WriteString(s[:start])
		if color {
			b.WriteString(matchColors.Sprint(match))
		} else {
			b.WriteString("*" + match + "*")
		}
		s = s[start+end+len(markClose):]
	}
	b.WriteString(s)
	return b.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
