package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbresponse/internal/models"
)

func TestNormalizeChineseHeaders(t *testing.T) {
	rows := []map[string]string{
		{"類型": "A", "範例": "缺貨嗎", "回覆種類": "回覆", "回覆範本": "補貨中"},
		{"類型": "D", "範例": "讚", "回覆種類": "回覆", "回覆範本": "謝謝支持"},
	}

	res := Normalize(rows)

	require.Len(t, res.Rules, 2)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, models.Rule{Category: "A", Example: "缺貨嗎", ReplyAction: "回覆", Template: "補貨中"}, res.Rules[0])
	assert.Equal(t, "D", res.Rules[1].Category)
}

func TestNormalizeEnglishAliases(t *testing.T) {
	rows := []map[string]string{
		{"Type": "B", "Example": "how much", "Reply Type": "reply", "Reply Template": "see pinned post"},
		{"category": "C", "sample": "how to join", "response_type": "reply", "response": "rules in bio"},
	}

	res := Normalize(rows)

	require.Len(t, res.Rules, 2)
	assert.Equal(t, "B", res.Rules[0].Category)
	assert.Equal(t, "see pinned post", res.Rules[0].Template)
	assert.Equal(t, "rules in bio", res.Rules[1].Template)
}

func TestNormalizeAliasPriority(t *testing.T) {
	// When both the primary header and a synonym are present, the primary
	// wins.
	rows := []map[string]string{
		{"類型": "A", "category": "Z", "範例": "x", "回覆種類": "回覆", "回覆範本": "t"},
	}

	res := Normalize(rows)

	require.Len(t, res.Rules, 1)
	assert.Equal(t, "A", res.Rules[0].Category)
}

func TestNormalizeDropsPartialRows(t *testing.T) {
	rows := []map[string]string{
		{"類型": "A", "範例": "缺貨嗎", "回覆種類": "回覆", "回覆範本": "補貨中"},
		{"類型": "B", "範例": "多少錢", "回覆種類": "回覆"}, // missing template
		{"類型": "C", "範例": "  ", "回覆種類": "回覆", "回覆範本": "t"}, // example blank after trim
	}

	res := Normalize(rows)

	require.Len(t, res.Rules, 1)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, []string{"template"}, res.Rejected[0].Missing)
	assert.Equal(t, 2, res.Rejected[1].Index)
	assert.Equal(t, []string{"example"}, res.Rejected[1].Missing)
}

func TestNormalizeAllRowsInvalidIsNotAnError(t *testing.T) {
	rows := []map[string]string{
		{},
		{"類型": "A"},
		{"隨便": "x"},
	}

	res := Normalize(rows)

	assert.Empty(t, res.Rules)
	assert.Len(t, res.Rejected, 3)
}

func TestNormalizeEmptyInput(t *testing.T) {
	res := Normalize(nil)
	assert.Empty(t, res.Rules)
	assert.Empty(t, res.Rejected)
}

func TestNormalizePreservesRowOrder(t *testing.T) {
	rows := []map[string]string{
		{"類型": "C", "範例": "e1", "回覆種類": "回覆", "回覆範本": "t1"},
		{"類型": "A", "範例": "e2", "回覆種類": "回覆", "回覆範本": "t2"},
		{"類型": "B", "範例": "e3", "回覆種類": "不回覆", "回覆範本": "t3"},
	}

	res := Normalize(rows)

	require.Len(t, res.Rules, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{res.Rules[0].Category, res.Rules[1].Category, res.Rules[2].Category})
}

func TestNormalizeTrimsValues(t *testing.T) {
	rows := []map[string]string{
		{"類型": " A ", "範例": " 缺貨 ", "回覆種類": " 回覆 ", "回覆範本": " 補貨中 "},
	}

	res := Normalize(rows)

	require.Len(t, res.Rules, 1)
	assert.Equal(t, "A", res.Rules[0].Category)
	assert.Equal(t, "補貨中", res.Rules[0].Template)
}
