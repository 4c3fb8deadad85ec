package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/biosecret/portfolio-api/database"
	"github.com/biosecret/portfolio-api/models"
)

// Claims are carried by every issued token
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type userStore interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, username string) (models.User, error)
}

// Service registers users, checks their passwords and issues HS256 tokens.
type Service struct {
	users  userStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(users userStore, secret string, ttl time.Duration) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Register stores a new user with a bcrypt hash of password (cost 10).
func (s *Service) Register(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	err = s.users.CreateUser(ctx, models.User{
		Username: username,
		Password: string(hashedPassword),
		Email:    strings.TrimSpace(email),
	})
	if errors.Is(err, database.ErrConflict) {
		return ErrUserExists
	}
	return err
}

// Login checks the credentials and returns a signed token for the user.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, models.PublicUser, error) {
	user, err := s.users.GetUser(ctx, strings.TrimSpace(username))
	if errors.Is(err, database.ErrNotFound) {
		return "", models.PublicUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.PublicUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", models.PublicUser{}, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", models.PublicUser{}, err
	}
	return token, user.Public(), nil
}

// IssueToken signs a token embedding the user's name and email
func (s *Service) IssueToken(user models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies signature, algorithm and expiry and returns the claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
