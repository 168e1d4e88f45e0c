package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fbresponse/internal/models"
	"fbresponse/internal/ruleset"
)

var testRules = []models.Rule{
	{Category: "A", Example: "缺貨嗎", ReplyAction: "回覆", Template: "補貨中"},
	{Category: "D", Example: "讚", ReplyAction: "回覆", Template: "謝謝支持"},
}

func TestProcessEndToEnd(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.PostComments{
		{
			PostURL: "https://facebook.com/post/1",
			Comments: []models.Comment{
				{Author: "小美", Text: "缺貨嗎", Timestamp: ts},
				{Author: "小王", Text: "讚讚讚", Timestamp: ts},
			},
		},
		{
			PostURL:  "https://facebook.com/post/2",
			Comments: []models.Comment{},
			Error:    "navigation timeout",
		},
	}

	records := New(zap.NewNop(), 4).Process(posts, testRules)

	require.Len(t, records, 2)

	assert.Equal(t, "https://facebook.com/post/1", records[0].PostURL)
	assert.Equal(t, "小美", records[0].Author)
	assert.Equal(t, "A", records[0].Category)
	assert.Equal(t, "補貨中", records[0].SuggestedReply)

	assert.Equal(t, "D", records[1].Category)
	assert.Equal(t, "謝謝支持", records[1].SuggestedReply)
}

func TestProcessFailedPostContributesNothing(t *testing.T) {
	posts := []models.PostComments{
		{PostURL: "https://facebook.com/post/2", Comments: []models.Comment{}, Error: "blocked"},
	}

	records := New(zap.NewNop(), 2).Process(posts, testRules)

	assert.Empty(t, records)
}

func TestProcessEveryCommentYieldsOneRecord(t *testing.T) {
	// Unclassifiable and unmatched comments still produce a record, with the
	// default category and the no-match sentinel.
	posts := []models.PostComments{
		{
			PostURL: "https://facebook.com/post/1",
			Comments: []models.Comment{
				{Author: "a", Text: ""},
				{Author: "b", Text: "今天天氣晴"},
			},
		},
	}

	records := New(zap.NewNop(), 1).Process(posts, testRules)

	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "H", rec.Category)
		assert.Equal(t, ruleset.NoReplyAction, rec.ReplyAction)
		assert.Equal(t, ruleset.NoMatchReply, rec.SuggestedReply)
	}
}

func TestProcessOrderIndependentOfWorkerCount(t *testing.T) {
	texts := []string{"缺貨嗎", "讚讚讚", "hello", "@小明", "", "多少錢", "哈哈哈", "加line聊聊"}
	var posts []models.PostComments
	for p := 0; p < 5; p++ {
		post := models.PostComments{PostURL: fmt.Sprintf("https://facebook.com/post/%d", p)}
		for i, text := range texts {
			post.Comments = append(post.Comments, models.Comment{
				Author: fmt.Sprintf("user-%d-%d", p, i),
				Text:   text,
			})
		}
		posts = append(posts, post)
	}

	sequential := New(zap.NewNop(), 1).Process(posts, testRules)
	parallel := New(zap.NewNop(), 8).Process(posts, testRules)

	require.Len(t, sequential, len(texts)*5)
	assert.Equal(t, sequential, parallel)
}

func TestProcessEmptyInput(t *testing.T) {
	records := New(zap.NewNop(), 4).Process(nil, testRules)
	assert.Empty(t, records)
}
