package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classroll-api/internal/models"
	"github.com/noah-isme/classroll-api/pkg/config"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

type sessionStore interface {
	Save(ctx context.Context, sessionID string, user models.SessionUser, ttl time.Duration) error
	Find(ctx context.Context, sessionID string) (*models.SessionUser, error)
	Delete(ctx context.Context, sessionID string) error
}

type loginGateway interface {
	Enabled() bool
	Login(ctx context.Context, email, password string) (*models.SessionUser, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	Accounts          []config.LocalAccount
}

// AuthService authenticates dashboard users and manages their sessions.
// The session record in the store is the only persisted client state.
type AuthService struct {
	gateway   loginGateway
	sessions  sessionStore
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance. With a nil session
// store tokens are accepted on signature and expiry alone.
func NewAuthService(gateway loginGateway, sessions sessionStore, audit *AuditService, validate *validator.Validate, logger *zap.Logger, cfg AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.AccessTokenExpiry <= 0 {
		cfg.AccessTokenExpiry = 12 * time.Hour
	}
	return &AuthService{
		gateway:   gateway,
		sessions:  sessions,
		audit:     audit,
		validator: validate,
		logger:    logger,
		config:    cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates against the backend when one is configured, otherwise
// against the local accounts, and opens a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var (
		user *models.SessionUser
		err  error
	)
	if s.gateway != nil && s.gateway.Enabled() {
		user, err = s.gateway.Login(ctx, req.Email, req.Password)
	} else {
		user, err = s.localLogin(req.Email, req.Password)
	}
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("email", req.Email))
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, err
	}
	if !user.Role.Valid() {
		if user.TeacherID == "" {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account has no dashboard role")
		}
		user.Role = models.RoleTeacher
	}
	if user.ID == "" {
		user.ID = user.Email
	}

	sessionID := uuid.NewString()
	issuedAt := s.now()
	token, err := s.generateAccessToken(*user, sessionID, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, sessionID, *user, s.config.AccessTokenExpiry); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
		}
	}

	s.audit.Record(ctx, models.Actor{UserID: user.ID, IP: req.IP}, models.AuditActionLogin, "auth", user.ID, nil, map[string]string{"status": "success"})

	public := *user
	public.Token = ""
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		User:        public,
		IssuedAt:    issuedAt,
	}, nil
}

// Logout closes the session bound to claims.
func (s *AuthService) Logout(ctx context.Context, actor models.Actor, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if s.sessions != nil {
		if err := s.sessions.Delete(ctx, claims.ID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close session")
		}
	}
	s.audit.Record(ctx, actor, models.AuditActionLogout, "auth", claims.UserID, nil, map[string]string{"status": "logout"})
	return nil
}

// CurrentUser returns the session record behind claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *models.JWTClaims) (*models.SessionUser, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if s.sessions == nil {
		return &models.SessionUser{
			ID:        claims.UserID,
			Name:      claims.Name,
			Email:     claims.Email,
			Role:      claims.Role,
			TeacherID: claims.TeacherID,
		}, nil
	}
	user, err := s.findSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	user.Token = ""
	return user, nil
}

// ValidateToken checks signature, expiry and that the session is still open.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	if s.sessions != nil {
		if _, err := s.findSession(ctx, claims.ID); err != nil {
			return nil, err
		}
	}
	return claims, nil
}

func (s *AuthService) findSession(ctx context.Context, sessionID string) (*models.SessionUser, error) {
	user, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return user, nil
}

func (s *AuthService) localLogin(email, password string) (*models.SessionUser, error) {
	for _, account := range s.config.Accounts {
		if account.Email != email {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
			return nil, appErrors.ErrInvalidCredentials
		}
		return &models.SessionUser{
			ID:        account.Email,
			Name:      account.Name,
			Email:     account.Email,
			Role:      models.UserRole(account.Role),
			TeacherID: account.TeacherID,
		}, nil
	}
	return nil, appErrors.ErrInvalidCredentials
}

func (s *AuthService) generateAccessToken(user models.SessionUser, sessionID string, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		Name:      user.Name,
		TeacherID: user.TeacherID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}
