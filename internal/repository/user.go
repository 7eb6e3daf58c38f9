package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/offerhub/offerhub-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateToken = errors.New("token already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Email uniqueness is enforced by the uq_users_email constraint.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, username, phone, avatar, newsletter, token, hash, salt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	avatar, err := encodeJSON(user.Account.Avatar)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Account.Username, nullString(user.Account.Phone), avatar,
		user.Newsletter, user.Token, user.Hash, user.Salt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			if strings.Contains(err.Error(), "uq_users_token") {
				return ErrDuplicateToken
			}
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user, including credential material, by exact email match.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, username, phone, avatar, newsletter, token, hash, salt, created_at
		FROM users WHERE email = ?`

	var (
		user   model.User
		phone  sql.NullString
		avatar []byte
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Account.Username, &phone, &avatar,
		&user.Newsletter, &user.Token, &user.Hash, &user.Salt, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}

	user.Account.Phone = phone.String
	if user.Account.Avatar, err = decodeAsset(avatar); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetIdentityByToken resolves a bearer token to the id and username of its owner.
// No other column is read.
func (r *UserRepository) GetIdentityByToken(ctx context.Context, token string) (*model.Identity, error) {
	query := `SELECT id, username FROM users WHERE token = ?`

	identity := &model.Identity{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&identity.ID, &identity.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user by token: %w", err)
	}

	return identity, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
