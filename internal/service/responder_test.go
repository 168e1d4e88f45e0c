package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fbresponse/internal/models"
	"fbresponse/internal/pipeline"
)

type fakeSource struct {
	results []models.PostComments
	calls   int
}

func (f *fakeSource) ScrapeComments(_ context.Context, urls []string) []models.PostComments {
	f.calls++
	return f.results
}

func newTestResponder(t *testing.T, source *fakeSource) (ResponderService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewResponderService(source, pipeline.New(zap.NewNop(), 2), nil, nil, dir, zap.NewNop())
	return svc, dir
}

var testRules = []models.Rule{
	{Category: "A", Example: "缺貨嗎", ReplyAction: "回覆", Template: "補貨中"},
	{Category: "D", Example: "讚", ReplyAction: "回覆", Template: "謝謝支持"},
}

func TestProcessPostsValidatesBeforeScraping(t *testing.T) {
	source := &fakeSource{}
	svc, _ := newTestResponder(t, source)

	_, err := svc.ProcessPosts(context.Background(), nil, testRules)
	assert.ErrorIs(t, err, ErrNoPostURLs)

	_, err = svc.ProcessPosts(context.Background(), []string{"https://facebook.com/post/1"}, nil)
	assert.ErrorIs(t, err, ErrEmptyRuleSet)

	// Neither validation failure may cost a scrape.
	assert.Zero(t, source.calls)
}

func TestProcessPostsProducesRunAndArtifact(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{results: []models.PostComments{
		{
			PostURL: "https://facebook.com/post/1",
			Comments: []models.Comment{
				{Author: "小美", Text: "缺貨嗎", Timestamp: ts},
				{Author: "小王", Text: "讚讚讚", Timestamp: ts},
			},
		},
		{PostURL: "https://facebook.com/post/2", Comments: []models.Comment{}, Error: "navigation timeout"},
	}}
	svc, dir := newTestResponder(t, source)

	result, err := svc.ProcessPosts(context.Background(),
		[]string{"https://facebook.com/post/1", "https://facebook.com/post/2"}, testRules)

	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	assert.Equal(t, 2, result.Run.TotalComments)
	assert.Equal(t, 2, result.Run.TotalPosts)
	assert.Equal(t, 1, result.Run.FailedPosts)
	assert.Equal(t, "completed", result.Run.Status)
	require.Len(t, result.PostErrors, 1)
	assert.Equal(t, "https://facebook.com/post/2", result.PostErrors[0].PostURL)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "A", result.Records[0].Category)
	assert.Equal(t, "補貨中", result.Records[0].SuggestedReply)
	assert.Equal(t, "D", result.Records[1].Category)

	// The artifact must exist under the output dir with the run's file name.
	_, err = os.Stat(filepath.Join(dir, result.Run.FileName))
	assert.NoError(t, err)
}

func TestParseGuideNormalizesRows(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"類型", "範例", "回覆種類", "回覆範本"},
		{"A", "缺貨嗎", "回覆", "補貨中"},
		{"B", "多少錢", "回覆"}, // missing template, dropped
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	svc, _ := newTestResponder(t, &fakeSource{})
	res, err := svc.ParseGuide(bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	require.Len(t, res.Rules, 1)
	assert.Equal(t, "A", res.Rules[0].Category)
	assert.Len(t, res.Rejected, 1)
}

func TestGetRunWithoutRepository(t *testing.T) {
	svc, _ := newTestResponder(t, &fakeSource{})
	_, err := svc.GetRun("3f2c3c1e-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestParseGuideUnreadableWorkbook(t *testing.T) {
	svc, _ := newTestResponder(t, &fakeSource{})
	_, err := svc.ParseGuide(bytes.NewReader([]byte("garbage")))
	assert.Error(t, err)
}
