// Package spreadsheet owns the xlsx boundary: parsing uploaded guide sheets
// into raw field-mapping rows and serializing response records back out.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"fbresponse/internal/models"
)

// ErrNoSheet means the workbook could not be interpreted as tabular data at
// all. Zero valid rows in a readable sheet is not this error.
var ErrNoSheet = errors.New("workbook has no readable sheet")

// OutputSheetName is the sheet the response records are written to.
const OutputSheetName = "留言回覆"

// outputHeaders is the fixed, documented column order of the exported file.
var outputHeaders = []string{"貼文連結", "留言者", "留言內容", "時間", "分類", "回覆種類", "建議回覆"}

// ReadRows parses the first sheet of an xlsx workbook into one map per data
// row, keyed by the header row's cell values. Column order is irrelevant to
// callers; header aliasing is the normalizer's concern.
func ReadRows(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoSheet
	}

	headers := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// WriteRecords serializes response records to an xlsx file at path, one row
// per record in the given order.
func WriteRecords(path string, records []models.ResponseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OutputSheetName); err != nil {
		return fmt.Errorf("failed to name output sheet: %w", err)
	}

	header := make([]interface{}, len(outputHeaders))
	for i, h := range outputHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(OutputSheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.PostURL,
			rec.Author,
			rec.CommentText,
			rec.Timestamp.Format(time.RFC3339),
			rec.Category,
			rec.ReplyAction,
			rec.SuggestedReply,
		}
		if err := f.SetSheetRow(OutputSheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write record row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
