package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fbresponse/internal/models"
	"fbresponse/internal/pipeline"
	"fbresponse/internal/repository"
	"fbresponse/internal/ruleset"
	"fbresponse/internal/spreadsheet"
)

var (
	ErrNoPostURLs   = errors.New("no post URLs to process")
	ErrEmptyRuleSet = errors.New("rule set contains no valid rules")
	ErrRunNotFound  = errors.New("run not found")
)

// CommentSource is the scraping collaborator: it fetches comments per post
// URL and reports per-post failures inline instead of aborting.
type CommentSource interface {
	ScrapeComments(ctx context.Context, urls []string) []models.PostComments
}

// Notifier is told about finished runs. Implementations must tolerate a nil
// receiver so notifications can be disabled by wiring nothing in.
type Notifier interface {
	NotifyRunCompleted(run *models.Run)
}

// PostError annotates one post whose scrape failed during a run.
type PostError struct {
	PostURL string `json:"post_url"`
	Error   string `json:"error"`
}

// RunResult is what a completed processing run hands back to the caller.
type RunResult struct {
	Run        *models.Run             `json:"run"`
	Records    []models.ResponseRecord `json:"-"`
	PostErrors []PostError             `json:"post_errors,omitempty"`
}

// ResponderService drives the full upload → scrape → classify → export flow.
type ResponderService interface {
	ParseGuide(r io.Reader) (ruleset.Result, error)
	ProcessPosts(ctx context.Context, urls []string, rules []models.Rule) (*RunResult, error)
	GetRun(id string) (*models.Run, error)
	ListRuns() ([]*models.Run, error)
}

type responderService struct {
	source    CommentSource
	pipeline  *pipeline.Pipeline
	runRepo   repository.RunRepository
	notifier  Notifier
	outputDir string
	logger    *zap.Logger
}

func NewResponderService(
	source CommentSource,
	pl *pipeline.Pipeline,
	runRepo repository.RunRepository,
	notifier Notifier,
	outputDir string,
	logger *zap.Logger,
) ResponderService {
	return &responderService{
		source:    source,
		pipeline:  pl,
		runRepo:   runRepo,
		notifier:  notifier,
		outputDir: outputDir,
		logger:    logger,
	}
}

// ParseGuide reads an uploaded xlsx guide into normalized reply rules. An
// unreadable workbook is a hard error; a readable one with zero valid rows is
// a normal result with an empty rule list.
func (s *responderService) ParseGuide(r io.Reader) (ruleset.Result, error) {
	rows, err := spreadsheet.ReadRows(r)
	if err != nil {
		return ruleset.Result{}, err
	}

	res := ruleset.Normalize(rows)
	s.logger.Info("Parsed reply guide",
		zap.Int("rows", len(rows)),
		zap.Int("valid_rules", len(res.Rules)),
		zap.Int("rejected_rows", len(res.Rejected)))
	return res, nil
}

// ProcessPosts validates inputs before any scraping work begins, scrapes each
// post, classifies and resolves every comment, and writes the result sheet.
// Per-post scrape failures are annotated on the result and never abort the
// run.
func (s *responderService) ProcessPosts(ctx context.Context, urls []string, rules []models.Rule) (*RunResult, error) {
	if len(urls) == 0 {
		return nil, ErrNoPostURLs
	}
	if len(rules) == 0 {
		return nil, ErrEmptyRuleSet
	}

	scraped := s.source.ScrapeComments(ctx, urls)
	records := s.pipeline.Process(scraped, rules)

	var postErrors []PostError
	for _, post := range scraped {
		if post.Error != "" {
			postErrors = append(postErrors, PostError{PostURL: post.PostURL, Error: post.Error})
		}
	}

	runID := uuid.NewString()
	fileName := fmt.Sprintf("facebook-responses-%s.xlsx", runID)

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := spreadsheet.WriteRecords(filepath.Join(s.outputDir, fileName), records); err != nil {
		return nil, fmt.Errorf("failed to write result sheet: %w", err)
	}

	run := &models.Run{
		ID:            runID,
		FileName:      fileName,
		TotalComments: len(records),
		TotalPosts:    len(urls),
		FailedPosts:   len(postErrors),
		Status:        "completed",
	}
	if s.runRepo != nil {
		if err := s.runRepo.SaveRun(run); err != nil {
			s.logger.Error("Failed to save run", zap.Error(err), zap.String("run_id", runID))
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyRunCompleted(run)
	}

	s.logger.Info("Processing run completed",
		zap.String("run_id", runID),
		zap.Int("records", len(records)),
		zap.Int("failed_posts", len(postErrors)))

	return &RunResult{Run: run, Records: records, PostErrors: postErrors}, nil
}

func (s *responderService) GetRun(id string) (*models.Run, error) {
	if s.runRepo == nil {
		return nil, ErrRunNotFound
	}
	run, err := s.runRepo.GetRunByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to retrieve run: %w", err)
	}
	return run, nil
}

func (s *responderService) ListRuns() ([]*models.Run, error) {
	if s.runRepo == nil {
		return nil, nil
	}
	return s.runRepo.ListRuns()
}
