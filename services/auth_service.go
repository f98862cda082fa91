package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"kultivateAPI/internal/user"
)

const bcryptCost = 12

type AuthService struct {
	db       *pgxpool.Pool
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(db *pgxpool.Pool, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		db:       db,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Username: req.Username,
	}

	query := `
	INSERT INTO users (id, email, username, hashed_password, first_name, last_name, role, is_active, is_verified, timezone, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, 'user', true, false, 'UTC', NOW(), NOW())
	RETURNING id, email, username, first_name, last_name, role, is_active, is_verified, timezone, created_at, updated_at
	`

	err = s.db.QueryRow(
		ctx,
		query,
		u.ID,
		req.Email,
		req.Username,
		string(hash),
		req.FirstName,
		req.LastName,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsActive,
		&u.IsVerified,
		&u.Timezone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email or username already taken: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.TokenResponse, error) {
	var userID uuid.UUID
	var hashedPassword string
	var isActive bool

	query := `SELECT id, hashed_password, is_active FROM users WHERE email = $1`
	err := s.db.QueryRow(ctx, query, req.Email).Scan(&userID, &hashedPassword, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same message as a bad password so login does not leak
			// whether the email is registered.
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	if !isActive {
		return nil, fmt.Errorf("account is deactivated: %w", ErrUnauthorized)
	}

	token, err := s.issueToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &user.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken resolves a bearer token to the user id it was issued for.
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("token expired: %w", ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, fmt.Errorf("token missing subject: %w", ErrUnauthorized)
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject: %w", ErrUnauthorized)
	}

	return userID, nil
}
