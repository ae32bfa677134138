// Package report renders tables for humans: plain text dumps, bordered
// previews and per-column histograms.
package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aidanmacnichol/linear-regression/pkg/data"
)

// FormatValue prints v with up to 6 significant digits, dropping trailing
// zeros (5 -> "5", 0.1234567 -> "0.123457").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Render dumps t as one line per row, values separated by single spaces.
func Render(t *data.Table) string {
	var b strings.Builder
	_ = Write(&b, t)
	return b.String()
}

// Write streams the Render output of t to w.
func Write(w io.Writer, t *data.Table) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows(t) {
		for j, v := range row {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(FormatValue(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Preview writes a bordered table of the first n rows of t (all rows when
// n <= 0) with its header, and returns the rendered text.
func Preview(w io.Writer, t *data.Table, n int) string {
	tw := table.NewWriter()
	if w != nil {
		tw.SetOutputMirror(w)
	}
	tw.SetStyle(table.StyleLight)

	cols := t.Cols()
	header := table.Row{"#"}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for j := range cols {
		header = append(header, t.Name(j))
		configs = append(configs, table.ColumnConfig{Number: j + 2, Align: text.AlignRight})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	all := rows(t)
	shown := len(all)
	if n > 0 && n < shown {
		shown = n
	}
	for i := range shown {
		r := table.Row{i}
		for _, v := range all[i] {
			r = append(r, FormatValue(v))
		}
		tw.AppendRow(r)
	}
	if shown < len(all) {
		tw.AppendFooter(table.Row{"", strconv.Itoa(len(all)-shown) + " more rows"})
	}
	return tw.Render()
}

func rows(t *data.Table) [][]float64 {
	if t == nil {
		return nil
	}
	return t.Rows
}
