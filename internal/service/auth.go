package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/corpsite/internal/model"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/token"
	"github.com/templui/corpsite/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash keeps the response time of unknown emails close to wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type AuthService struct {
	userRepository repository.UserRepository
	codec          token.Codec
	expiry         time.Duration
	now            func() time.Time
}

func NewAuthService(userRepository repository.UserRepository, codec token.Codec, expiry time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		codec:          codec,
		expiry:         expiry,
		now:            time.Now,
	}
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validation.Invalid("email", "email and password are required")
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	tok, expiresAt, err := s.IssueFor(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: tok, ExpiresAt: expiresAt, User: user}, nil
}

// IssueFor mints a bearer token for user valid for the configured expiry.
func (s *AuthService) IssueFor(user *model.User) (string, time.Time, error) {
	expiresAt := s.now().Add(s.expiry).Truncate(time.Second)

	tok, err := s.codec.Issue(token.Claims{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return tok, expiresAt, nil
}

// BootstrapAdmin creates the first admin account when email is set and no
// user with that email exists yet.
func (s *AuthService) BootstrapAdmin(name, email, password string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	_, err := s.userRepository.ByEmail(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	err = validation.ValidateEmail(email)
	if err != nil {
		return err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	err = s.userRepository.Create(&model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         token.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("bootstrap admin created", "email", email)
	return nil
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
