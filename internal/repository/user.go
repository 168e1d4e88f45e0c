package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"fbresponse/internal/models"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateLastLogin(id int64, at time.Time) error
	UpdatePasswordHash(id int64, hash string) error
	UpdateActive(id int64, active bool) error
	ListUsers() ([]*models.User, error)
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (username, email, password_hash, role, is_active)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.db.QueryRowx(query, user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive).StructScan(user)
}

func (r *userRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, role, is_active, last_login, created_at FROM users WHERE username = $1`
	if err := r.db.Get(&user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, role, is_active, last_login, created_at FROM users WHERE email = $1`
	if err := r.db.Get(&user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateLastLogin(id int64, at time.Time) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	return err
}

func (r *userRepository) UpdatePasswordHash(id int64, hash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	return err
}

func (r *userRepository) UpdateActive(id int64, active bool) error {
	_, err := r.db.Exec(`UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	return err
}

func (r *userRepository) ListUsers() ([]*models.User, error) {
	var users []*models.User
	query := `SELECT id, username, email, password_hash, role, is_active, last_login, created_at FROM users ORDER BY created_at DESC`
	if err := r.db.Select(&users, query); err != nil {
		return nil, err
	}
	return users, nil
}
