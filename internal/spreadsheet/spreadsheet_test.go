package spreadsheet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fbresponse/internal/models"
)

func buildGuideWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestReadRowsMapsHeadersToCells(t *testing.T) {
	r := buildGuideWorkbook(t, [][]interface{}{
		{"類型", "範例", "回覆種類", "回覆範本"},
		{"A", "缺貨嗎", "回覆", "補貨中"},
		{"D", "讚", "回覆", "謝謝支持"},
	})

	rows, err := ReadRows(r)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["類型"])
	assert.Equal(t, "補貨中", rows[0]["回覆範本"])
	assert.Equal(t, "謝謝支持", rows[1]["回覆範本"])
}

func TestReadRowsShortRows(t *testing.T) {
	// Trailing blank cells are simply absent from the row map.
	r := buildGuideWorkbook(t, [][]interface{}{
		{"類型", "範例", "回覆種類", "回覆範本"},
		{"B", "多少錢"},
	})

	rows, err := ReadRows(r)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0]["類型"])
	assert.Empty(t, rows[0]["回覆範本"])
}

func TestReadRowsUnreadableInput(t *testing.T) {
	_, err := ReadRows(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestWriteRecordsColumnOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	records := []models.ResponseRecord{
		{
			PostURL:        "https://facebook.com/post/1",
			Author:         "小美",
			CommentText:    "缺貨嗎",
			Timestamp:      ts,
			Category:       "A",
			ReplyAction:    "回覆",
			SuggestedReply: "補貨中",
		},
	}

	require.NoError(t, WriteRecords(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OutputSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"貼文連結", "留言者", "留言內容", "時間", "分類", "回覆種類", "建議回覆"}, rows[0])
	assert.Equal(t, "https://facebook.com/post/1", rows[1][0])
	assert.Equal(t, "A", rows[1][4])
	assert.Equal(t, "補貨中", rows[1][6])
}

func TestWriteRecordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteRecords(path, nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
