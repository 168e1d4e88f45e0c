package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"fbresponse/internal/models"
)

type RunRepository interface {
	SaveRun(run *models.Run) error
	GetRunByID(id string) (*models.Run, error)
	ListRuns() ([]*models.Run, error)
}

type runRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRunRepository(db *sqlx.DB, logger *zap.Logger) RunRepository {
	return &runRepository{db: db, logger: logger}
}

func (r *runRepository) SaveRun(run *models.Run) error {
	query := `INSERT INTO runs (id, file_name, total_comments, total_posts, failed_posts, status)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	return r.db.QueryRowx(query, run.ID, run.FileName, run.TotalComments, run.TotalPosts, run.FailedPosts, run.Status).StructScan(run)
}

func (r *runRepository) GetRunByID(id string) (*models.Run, error) {
	var run models.Run
	query := `SELECT id, file_name, total_comments, total_posts, failed_posts, status, created_at FROM runs WHERE id = $1`
	if err := r.db.Get(&run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepository) ListRuns() ([]*models.Run, error) {
	var runs []*models.Run
	query := `SELECT id, file_name, total_comments, total_posts, failed_posts, status, created_at FROM runs ORDER BY created_at DESC`
	if err := r.db.Select(&runs, query); err != nil {
		return nil, err
	}
	return runs, nil
}
