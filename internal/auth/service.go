package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lmagsino/stride/internal/apierr"
	"github.com/lmagsino/stride/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 128

	uniqueViolation = "23505"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

type Service struct {
	secret   []byte
	ttl      time.Duration
	db       db.Querier
	denylist Denylist
}

// Claims carries the user id plus a jti so a single token can be revoked.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

var (
	hashPasswordFn    = bcrypt.GenerateFromPassword
	parseWithClaimsFn = jwt.ParseWithClaims
	signTokenFn       = (*Service).signToken
)

func NewService(secret string, ttl time.Duration, db db.Querier, denylist Denylist) *Service {
	return &Service{
		secret:   []byte(secret),
		ttl:      ttl,
		db:       db,
		denylist: denylist,
	}
}

// Signup creates a user and signs them in. Field problems come back together
// as a validation_failed error.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (User, string, error) {
	req.Email = normalizeEmail(req.Email)
	details := validateSignup(req)

	if emailPattern.MatchString(req.Email) {
		taken, err := s.emailTaken(ctx, req.Email)
		if err != nil {
			return User{}, "", err
		}
		if taken {
			details = append([]string{"Email has already been taken"}, details...)
		}
	}
	if len(details) > 0 {
		return User{}, "", apierr.Validation("Signup failed", details)
	}

	hash, err := hashPasswordFn(passwordDigest(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.Name, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, "", apierr.Validation("Signup failed", []string{"Email has already been taken"})
		}
		return User{}, "", err
	}

	token, err := signTokenFn(s, user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`, normalizeEmail(req.Email))

	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordDigest(req.Password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := signTokenFn(s, user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Logout revokes token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate parses token and rejects it when revoked. Bad tokens wrap
// ErrTokenInvalid; a denylist that cannot be reached is returned as is.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (CurrentUser, error) {
	row := s.db.QueryRow(ctx, `
		SELECT u.id, u.email, u.name,
		       EXISTS (SELECT 1 FROM runner_profiles p WHERE p.user_id = u.id)
		FROM users u WHERE u.id = $1
	`, userID)

	var user CurrentUser
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.HasProfile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CurrentUser{}, ErrUserNotFound
		}
		return CurrentUser{}, err
	}
	return user, nil
}

func (s *Service) emailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&taken)
	return taken, err
}

func (s *Service) signToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, errors.New("missing claims")
	}
	return claims, nil
}

// IsAuthError reports whether err means the caller is not signed in, as
// opposed to the session store being unavailable.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenRevoked)
}

// passwordDigest fits passwords of any allowed length under bcrypt's
// 72-byte input limit.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(req SignupRequest) []string {
	var details []string
	switch {
	case req.Email == "":
		details = append(details, "Email can't be blank")
	case !emailPattern.MatchString(req.Email):
		details = append(details, "Email is invalid")
	}

	switch {
	case req.Password == "":
		details = append(details, "Password can't be blank")
	case utf8.RuneCountInString(req.Password) < minPasswordLen:
		details = append(details, "Password is too short (minimum is 6 characters)")
	case utf8.RuneCountInString(req.Password) > maxPasswordLen:
		details = append(details, "Password is too long (maximum is 128 characters)")
	}

	if req.PasswordConfirmation != req.Password {
		details = append(details, "Password confirmation doesn't match Password")
	}
	if strings.TrimSpace(req.Name) == "" {
		details = append(details, "Name can't be blank")
	}
	return details
}
