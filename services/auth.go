package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/fintrack/finance-tracker-api/models"
	"github.com/fintrack/finance-tracker-api/utils"
)

const uniqueViolation = "23505"

// AuthService owns registration, credential verification and token
// issuance. The signing secret is injected from config; the auth
// middleware validates against the same value.
type AuthService struct {
	db        *sql.DB
	jwtSecret []byte
}

func NewAuthService(db *sql.DB, jwtSecret []byte) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

// Register creates a user and returns its public view.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error) {
	if req.Password == "" {
		return nil, invalidInput("password is required")
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, req.Username).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("username is already taken")
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("email is already registered")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		// The EXISTS checks race with concurrent registrations; the
		// unique constraints are the source of truth.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, conflict("username or email is already registered")
		}
		return nil, err
	}

	utils.LogAuthAction("register", user.Username, true)

	resp := user.Response()
	return &resp, nil
}

// Login verifies credentials and returns a signed token. Every failure
// path yields the same generic Unauthorized error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`, req.Username).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		utils.LogAuthAction("login", req.Username, false)
		return "", unauthorized("invalid username or password")
	}
	if err != nil {
		return "", err
	}

	if user.PasswordHash == "" || !utils.CheckPassword(req.Password, user.PasswordHash) {
		utils.LogAuthAction("login", req.Username, false)
		return "", unauthorized("invalid username or password")
	}

	token, err := utils.GenerateToken(s.jwtSecret, &user)
	if err != nil {
		return "", err
	}

	utils.LogAuthAction("login", user.Username, true)
	return token, nil
}
