// Package pipeline feeds scraped comments through the classifier and
// resolver and accumulates one response record per comment.
package pipeline

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fbresponse/internal/classifier"
	"fbresponse/internal/models"
	"fbresponse/internal/ruleset"
)

// Pipeline classifies and resolves comments with bounded parallelism.
type Pipeline struct {
	logger  *zap.Logger
	workers int
}

// New creates a pipeline. workers <= 1 processes sequentially.
func New(logger *zap.Logger, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{logger: logger, workers: workers}
}

type job struct {
	index   int
	postURL string
	comment models.Comment
}

// Process flattens all comments across posts, preserving post-then-comment
// order, and emits exactly one record per comment. Posts whose scrape failed
// contribute zero records and never abort the run. Classification and
// resolution are pure and independent per comment, so the work is fanned out
// across workers; results are written into an index-addressed slice so the
// output order always equals the input order.
func (p *Pipeline) Process(posts []models.PostComments, rules []models.Rule) []models.ResponseRecord {
	var jobs []job
	for _, post := range posts {
		if post.Error != "" {
			p.logger.Warn("Skipping failed post", zap.String("post_url", post.PostURL), zap.String("error", post.Error))
			continue
		}
		for _, c := range post.Comments {
			jobs = append(jobs, job{index: len(jobs), postURL: post.PostURL, comment: c})
		}
	}

	records := make([]models.ResponseRecord, len(jobs))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			category := classifier.Classify(j.comment.Text)
			decision := ruleset.Resolve(category, rules)
			records[j.index] = models.ResponseRecord{
				PostURL:        j.postURL,
				Author:         j.comment.Author,
				CommentText:    j.comment.Text,
				Timestamp:      j.comment.Timestamp,
				Category:       string(category),
				ReplyAction:    decision.ReplyAction,
				SuggestedReply: decision.SuggestedReply,
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; classification is total

	p.logger.Info("Pipeline processed comments",
		zap.Int("posts", len(posts)),
		zap.Int("records", len(records)))

	return records
}
