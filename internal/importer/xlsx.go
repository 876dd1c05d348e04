package importer

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet of a workbook and feeds its cells
// through the same header resolution as CSV input.
func parseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return buildRows(records), nil
}
