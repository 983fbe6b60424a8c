// Package auth handles user registration, credential checks, and bearer
// tokens for the HTTP surface.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bolso-dev/bolso/internal/model"
	"github.com/bolso-dev/bolso/internal/store"
)

// ErrInvalidCredentials is returned when the email/password pair does
// not match an active user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// ValidationError describes a bad registration or password field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service issues tokens and manages user accounts.
type Service struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
}

// NewService creates an auth Service. secret signs JWTs; ttl bounds
// their validity.
func NewService(st *store.Store, secret string, ttl time.Duration) *Service {
	return &Service{store: st, secret: []byte(secret), ttl: ttl}
}

// RegisterParams holds the fields of a registration request.
type RegisterParams struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a user and seeds their default categories and
// accounts as one explicit, synchronous step of the registration
// workflow.
func (s *Service) Register(p RegisterParams) (model.User, error) {
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return model.User{}, &ValidationError{Field: "email", Message: "a valid email address is required"}
	}
	if len(p.Password) < 8 {
		return model.User{}, &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	u := model.User{
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: string(hash),
		Currency:     "BRL",
		Timezone:     "America/Sao_Paulo",
		Active:       true,
	}
	if err := s.store.CreateUser(&u); err != nil {
		return model.User{}, err
	}

	if err := s.seedDefaults(u.ID); err != nil {
		return model.User{}, fmt.Errorf("seeding defaults: %w", err)
	}
	return u, nil
}

// seedDefaults creates the starter categories and accounts for a newly
// registered user.
func (s *Service) seedDefaults(userID int64) error {
	for _, c := range DefaultCategories() {
		c.UserID = userID
		c.Active = true
		if err := s.store.CreateCategory(&c); err != nil {
			return err
		}
	}
	for _, a := range DefaultAccounts() {
		a.UserID = userID
		a.Currency = "BRL"
		a.Active = true
		if err := s.store.CreateAccount(&a); err != nil {
			return err
		}
	}
	return nil
}

// Login verifies the credentials and returns the user plus a signed
// bearer token.
func (s *Service) Login(email, password string) (model.User, string, error) {
	u, err := s.store.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, "", err
	}
	if !u.Active {
		return model.User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return model.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return model.User{}, "", err
	}
	return u, token, nil
}

func (s *Service) issueToken(userID int64) (string, error) {
	nowTime := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(nowTime),
		ExpiresAt: jwt.NewNumericDate(nowTime.Add(s.ttl)),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks a bearer token and returns the user ID it names.
func (s *Service) VerifyToken(raw string) (int64, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *Service) ChangePassword(userID int64, oldPassword, newPassword string) error {
	u, err := s.store.GetUser(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return &ValidationError{Field: "new_password", Message: "password must be at least 8 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.store.UpdateUserPassword(userID, string(hash))
}

// Deactivate soft-deletes the user after confirming their password.
func (s *Service) Deactivate(userID int64, password string) error {
	u, err := s.store.GetUser(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return s.store.SetUserActive(userID, false)
}
