package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// defaultCoverPicture is assigned to new accounts until profile editing
// grows a cover upload.
const defaultCoverPicture = "https://upload.wikimedia.org/wikipedia/commons/thumb/3/36/Tilisunah%C3%BCtte_Panorama.jpg/640px-Tilisunah%C3%BCtte_Panorama.jpg"

// AccountService owns signup and login. Credential hashing and token
// issuance are delegated to the injected collaborators.
type AccountService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAccountService creates an AccountService.
func NewAccountService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens}
}

// Session identifies an authenticated user.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// SignupInput carries the validated signup fields. ProfilePicture is the
// media reference of the already-uploaded image.
type SignupInput struct {
	Name           string
	Email          string
	Password       string
	Description    string
	ProfilePicture string
}

// Signup registers a new account and returns a session for it. The email is
// claimed atomically with the user record; a reused email fails with
// ErrAlreadyExists.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   hash,
		ProfilePicture: in.ProfilePicture,
		CoverPicture:   defaultCoverPicture,
		Description:    in.Description,
		Posts:          []string{},
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{UserID: user.ID, Email: user.Email, Token: token}, nil
}

// Login authenticates an email/password pair and returns a session. Unknown
// emails and wrong passwords both fail with ErrUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	userID, err := s.users.UserIDByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", ErrUnauthorized)
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", ErrUnauthorized)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("login: %w", ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{UserID: user.ID, Email: user.Email, Token: token}, nil
}
