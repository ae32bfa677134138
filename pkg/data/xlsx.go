package data

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads one sheet of a workbook with the same rules as Load: the
// first non-empty row is the header, "NA" cells are imputed. An empty sheet
// name selects the first sheet.
func LoadXLSX(path, sheet string, opts ...Option) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &Error{
			Kind: FileUnreadable, Op: "load xlsx", Path: path, Row: -1, Col: -1,
			Err: errors.Wrap(err, "open workbook"),
		}
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	// Raw values keep full float precision instead of the display format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &Error{
			Kind: FileUnreadable, Op: "load xlsx", Path: path, Row: -1, Col: -1,
			Err: errors.Wrapf(err, "read sheet %q", sheet),
		}
	}

	b := newBuilder("load xlsx", path, newOptions(opts))
	first := true
	for i, cells := range rows {
		if blank(cells) {
			continue
		}
		if first {
			first = false
			b.header(cells)
			continue
		}
		if err := b.row(pad(cells, len(b.tbl.Header)), i+1); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

// pad restores trailing empty cells that GetRows leaves out.
func pad(cells []string, width int) []string {
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
