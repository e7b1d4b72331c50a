package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lmagsino/stride/internal/apierr"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func newRedisDenylist(t *testing.T) (*RedisDenylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDenylist(client), mr
}

func fastHash(t *testing.T) {
	t.Helper()
	orig := hashPasswordFn
	hashPasswordFn = func(password []byte, _ int) ([]byte, error) {
		return bcrypt.GenerateFromPassword(password, bcrypt.MinCost)
	}
	t.Cleanup(func() { hashPasswordFn = orig })
}

func TestSignupAndLogin(t *testing.T) {
	fastHash(t)
	mock := newMock(t)
	denylist, _ := newRedisDenylist(t)
	svc := NewService("test-secret", time.Hour, mock, denylist)

	now := time.Now()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users`).
		WithArgs("runner@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "runner@example.com", "Runner One", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user, token, err := svc.Signup(context.Background(), SignupRequest{
		Name:                 "Runner One",
		Email:                "  Runner@Example.com ",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatalf("expected user and token")
	}
	if user.Email != "runner@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}

	mock.ExpectQuery(`SELECT id, email, name, password_hash, created_at, updated_at`).
		WithArgs("runner@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}).
			AddRow(user.ID, user.Email, user.Name, user.PasswordHash, now, now))

	loggedIn, loginToken, err := svc.Login(context.Background(), LoginRequest{Email: "runner@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID || loginToken == "" {
		t.Fatalf("unexpected login result")
	}

	claims, err := svc.Authenticate(context.Background(), loginToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.UserID != user.ID || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSignupCollectsValidationMessages(t *testing.T) {
	svc := NewService("test-secret", time.Hour, newMock(t), nil)

	_, _, err := svc.Signup(context.Background(), SignupRequest{
		Email:                "not-an-email",
		Password:             "abc",
		PasswordConfirmation: "abd",
	})

	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	want := []string{
		"Email is invalid",
		"Password is too short (minimum is 6 characters)",
		"Password confirmation doesn't match Password",
		"Name can't be blank",
	}
	if apiErr.Message != "Signup failed" || apiErr.Code != apierr.CodeValidationFailed {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if len(apiErr.Details) != len(want) {
		t.Fatalf("expected %d details, got %v", len(want), apiErr.Details)
	}
	for i := range want {
		if apiErr.Details[i] != want[i] {
			t.Fatalf("detail %d: expected %q, got %q", i, want[i], apiErr.Details[i])
		}
	}
}

func TestSignupBlankFields(t *testing.T) {
	svc := NewService("test-secret", time.Hour, newMock(t), nil)

	_, _, err := svc.Signup(context.Background(), SignupRequest{})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if apiErr.Details[0] != "Email can't be blank" || apiErr.Details[1] != "Password can't be blank" {
		t.Fatalf("unexpected details: %v", apiErr.Details)
	}
}

func TestSignupPasswordTooLong(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)
	long := string(make([]byte, maxPasswordLen+1))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("a@b.c").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, _, err := svc.Signup(context.Background(), SignupRequest{Name: "A", Email: "a@b.c", Password: long, PasswordConfirmation: long})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Details[0] != "Password is too long (maximum is 128 characters)" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSignupAcceptsPasswordsPastBcryptLimit(t *testing.T) {
	fastHash(t)
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)
	long := strings.Repeat("x", 100)

	now := time.Now()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("a@b.c").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "a@b.c", "A", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user, _, err := svc.Signup(context.Background(), SignupRequest{Name: "A", Email: "a@b.c", Password: long, PasswordConfirmation: long})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	rows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}).
			AddRow(user.ID, user.Email, user.Name, user.PasswordHash, now, now)
	}
	mock.ExpectQuery(`SELECT id, email, name, password_hash`).WithArgs("a@b.c").WillReturnRows(rows())
	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: long}); err != nil {
		t.Fatalf("login: %v", err)
	}

	// differs only past byte 72
	mock.ExpectQuery(`SELECT id, email, name, password_hash`).WithArgs("a@b.c").WillReturnRows(rows())
	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: long[:99] + "y"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestSignupCountsPasswordCharacters(t *testing.T) {
	svc := NewService("test-secret", time.Hour, newMock(t), nil)

	// five characters, ten bytes
	short := "ééééé"
	_, _, err := svc.Signup(context.Background(), SignupRequest{Name: "A", Email: "bad", Password: short, PasswordConfirmation: short})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || len(apiErr.Details) != 2 || apiErr.Details[1] != "Password is too short (minimum is 6 characters)" {
		t.Fatalf("unexpected error: %v", err)
	}

	long := strings.Repeat("é", maxPasswordLen)
	if details := validateSignup(SignupRequest{Name: "A", Email: "a@b.c", Password: long, PasswordConfirmation: long}); len(details) != 0 {
		t.Fatalf("expected 128 characters to pass, got %v", details)
	}
}

func TestSignupEmailTaken(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("runner@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, _, err := svc.Signup(context.Background(), SignupRequest{
		Name: "Runner", Email: "runner@example.com", Password: "password123", PasswordConfirmation: "password123",
	})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || len(apiErr.Details) != 1 || apiErr.Details[0] != "Email has already been taken" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSignupUniqueViolationOnInsert(t *testing.T) {
	fastHash(t)
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("runner@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "runner@example.com", "Runner", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, _, err := svc.Signup(context.Background(), SignupRequest{
		Name: "Runner", Email: "runner@example.com", Password: "password123", PasswordConfirmation: "password123",
	})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Details[0] != "Email has already been taken" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSignupHashError(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	orig := hashPasswordFn
	hashPasswordFn = func([]byte, int) ([]byte, error) { return nil, errors.New("hash fail") }
	defer func() { hashPasswordFn = orig }()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("runner@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	if _, _, err := svc.Signup(context.Background(), SignupRequest{
		Name: "Runner", Email: "runner@example.com", Password: "password123", PasswordConfirmation: "password123",
	}); err == nil {
		t.Fatalf("expected hash error")
	}
}

func TestSignupSignError(t *testing.T) {
	fastHash(t)
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	orig := signTokenFn
	signTokenFn = func(*Service, string) (string, error) { return "", errors.New("sign fail") }
	defer func() { signTokenFn = orig }()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("runner@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "runner@example.com", "Runner", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	if _, _, err := svc.Signup(context.Background(), SignupRequest{
		Name: "Runner", Email: "runner@example.com", Password: "password123", PasswordConfirmation: "password123",
	}); err == nil {
		t.Fatalf("expected sign error")
	}
}

func TestLoginInvalidPassword(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	hash, _ := bcrypt.GenerateFromPassword(passwordDigest("password123"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, email, name, password_hash`).
		WithArgs("runner@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}).
			AddRow("user-1", "runner@example.com", "Runner", string(hash), time.Now(), time.Now()))

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "runner@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	mock.ExpectQuery(`SELECT id, email, name, password_hash`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginQueryError(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	mock.ExpectQuery(`SELECT id, email, name, password_hash`).
		WithArgs("runner@example.com").
		WillReturnError(errors.New("db down"))

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "runner@example.com", Password: "x"})
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	denylist, mr := newRedisDenylist(t)
	svc := NewService("test-secret", time.Hour, nil, denylist)

	token, err := svc.signToken("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !mr.Exists(denylistPrefix + claims.ID) {
		t.Fatalf("expected jti in denylist")
	}
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected revoked, got %v", err)
	}
	if err := svc.Logout(context.Background(), token); err == nil {
		t.Fatalf("expected second logout to fail")
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	denylist, _ := newRedisDenylist(t)
	svc := NewService("test-secret", time.Hour, nil, denylist)

	if _, err := svc.Authenticate(context.Background(), "bad-token"); err == nil {
		t.Fatalf("expected parse error")
	}

	expired := NewService("test-secret", -time.Minute, nil, denylist)
	token, _ := expired.signToken("user-1")
	if _, err := svc.Authenticate(context.Background(), token); err == nil {
		t.Fatalf("expected expired token error")
	}

	other := NewService("other-secret", time.Hour, nil, denylist)
	token, _ = other.signToken("user-1")
	if _, err := svc.Authenticate(context.Background(), token); err == nil {
		t.Fatalf("expected signature error")
	}

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, _ = hs512.SignedString([]byte("test-secret"))
	if _, err := svc.Authenticate(context.Background(), token); err == nil {
		t.Fatalf("expected algorithm error")
	}
}

func TestAuthenticateDenylistUnavailable(t *testing.T) {
	denylist, mr := newRedisDenylist(t)
	svc := NewService("test-secret", time.Hour, nil, denylist)
	token, _ := svc.signToken("user-1")

	mr.Close()
	_, err := svc.Authenticate(context.Background(), token)
	if err == nil || IsAuthError(err) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "bad-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAuthenticateParseSeam(t *testing.T) {
	svc := NewService("test-secret", time.Hour, nil, nil)

	orig := parseWithClaimsFn
	parseWithClaimsFn = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: true}, nil
	}
	defer func() { parseWithClaimsFn = orig }()

	if _, err := svc.Authenticate(context.Background(), "anything"); err == nil {
		t.Fatalf("expected invalid claims error")
	}
}

func TestCurrentUser(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", time.Hour, mock, nil)

	mock.ExpectQuery(`FROM users u WHERE u.id`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "exists"}).
			AddRow("user-1", "runner@example.com", "Runner", true))

	user, err := svc.CurrentUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if !user.HasProfile || user.HasActivePlan {
		t.Fatalf("unexpected flags: %+v", user)
	}

	mock.ExpectQuery(`FROM users u WHERE u.id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	if _, err := svc.CurrentUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
