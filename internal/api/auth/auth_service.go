package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var ErrUnauthenticated = errors.New("invalid username or password")

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Register(ctx context.Context, username, password string) (uuid.UUID, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

type AuthServiceImpl struct {
	logger  *slog.Logger
	repo    AuthRepo
	jwt     config.JWTConfig
	metrics *metrics.AppMetrics
	now     func() time.Time
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, m *metrics.AppMetrics, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:  logger,
		repo:    repo,
		jwt:     jwtCfg,
		metrics: m,
		now:     time.Now,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		s.metrics.RecordRegister(ctx, "error")
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.repo.Register(ctx, username, string(hash))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "register failed")
		if errors.Is(err, ErrDuplicateUsername) {
			s.metrics.RecordRegister(ctx, "duplicate")
		} else {
			s.metrics.RecordRegister(ctx, "error")
		}
		return uuid.Nil, err
	}

	s.logger.InfoContext(ctx, "User registered", slog.String("username", username), slog.String("user_id", id.String()))
	span.SetStatus(codes.Ok, "registered")
	s.metrics.RecordRegister(ctx, "ok")
	return id, nil
}

// Authenticate reports whether password matches the stored hash. An unknown
// username is not an error.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.verify(ctx, username, password)
	return user != nil, err
}

// verify returns the stored user when the credentials match, and nil when the
// user is unknown or the password is wrong.
func (s *AuthServiceImpl) verify(ctx context.Context, username, password string) (*types.UserAuth, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// Login checks the credentials and issues a signed access token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	user, err := s.verify(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return "", time.Time{}, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return "", time.Time{}, ErrUnauthenticated
	}

	now := s.now()
	expiresAt := now.Add(s.jwt.AccessTokenTTL)
	claims := &appMiddleware.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwt.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.SecretKey))
	if err != nil {
		span.RecordError(err)
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	span.SetStatus(codes.Ok, "logged in")
	return token, expiresAt, nil
}
