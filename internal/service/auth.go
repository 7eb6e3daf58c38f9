package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/offerhub/offerhub-go/internal/crypto"
	"github.com/offerhub/offerhub-go/internal/model"
	"github.com/offerhub/offerhub-go/internal/repository"
)

// AuthService handles signup, login, and bearer token resolution.
type AuthService struct {
	users  UserStore
	assets *AssetService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, assets *AssetService) *AuthService {
	return &AuthService{
		users:  users,
		assets: assets,
	}
}

// Signup creates a new user account and returns its bearer token.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.SignupResponse, error) {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return nil, ErrMissingParameters
	}

	// Fast path only; the unique email constraint decides concurrent signups.
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	token, salt, err := crypto.NewCredentialMaterial()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:    uuid.NewString(),
		Email: req.Email,
		Account: model.Account{
			Username: req.Username,
			Phone:    req.Phone,
		},
		Newsletter: req.Newsletter,
		Token:      token,
		Hash:       crypto.HashPassword(req.Password, salt),
		Salt:       salt,
		CreatedAt:  time.Now().UTC(),
	}

	folder := s.assets.UserFolder(user.ID)
	if len(req.Avatar) > 0 {
		avatar, err := s.assets.UploadSingle(ctx, req.Avatar, folder, avatarAssetID)
		if err != nil {
			return nil, err
		}
		user.Account.Avatar = avatar
	}

	if err := s.users.Create(ctx, user); err != nil {
		if user.Account.Avatar != nil {
			s.assets.cleanup(ctx, folder)
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &model.SignupResponse{
		ID:      user.ID,
		Email:   user.Email,
		Token:   user.Token,
		Account: user.Account,
	}, nil
}

// Login verifies the password and returns the user's existing token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingParameters
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !crypto.VerifyPassword(req.Password, user.Salt, user.Hash) {
		return nil, ErrUnauthorized
	}

	return &model.LoginResponse{
		ID:      user.ID,
		Token:   user.Token,
		Account: user.Account,
	}, nil
}

// Authenticate resolves a bearer token to the identity of its owner.
// Every call reads the user store.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	identity, err := s.users.GetIdentityByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return identity, nil
}
