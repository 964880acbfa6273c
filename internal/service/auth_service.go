package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medquest/internal/config"
	"medquest/internal/domain"
	"medquest/internal/dto"
	"medquest/internal/logger"
	"medquest/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidJWTToken is wrapped by every token validation failure.
var ErrInvalidJWTToken = domain.NewUnauthorizedError("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, username string) (user *domain.User, accessToken string, refreshToken string, err error)
	Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, user *domain.User, err error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken string, newRefreshToken string, err error)
}

type authServiceImpl struct {
	userRepo    domain.UserRepository
	profileRepo domain.ProfileRepository
	txManager   domain.TransactionManager
	ranking     RankingService
	validator   *validation.Validator
	cfg         config.AuthConfig
	bcryptCost  int
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	txManager domain.TransactionManager,
	ranking RankingService,
	cfg config.AuthConfig,
) (AuthService, error) {
	if len(cfg.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		ranking:     ranking,
		validator:   validation.NewValidator(),
		cfg:         cfg,
		bcryptCost:  bcrypt.DefaultCost,
	}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, email, password, username string) (*domain.User, string, string, error) {
	appLogger := logger.Get()
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if errs := s.validator.ValidateRegisterRequest(email, password, username); len(errs) > 0 {
		return nil, "", "", errs
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", "", domain.NewInternalError("failed to look up email", err)
	}
	if existing != nil {
		return nil, "", "", domain.NewConflictError("email is already registered").WithContext("email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", "", domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{Email: email, Username: username, PasswordHash: string(hash)}
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			return err
		}
		// The new profile row takes part in the re-rank below.
		if err := s.profileRepo.LockRanking(ctx); err != nil {
			return domain.NewInternalError("failed to lock ranking", err)
		}
		if err := s.profileRepo.CreateProfile(ctx, &domain.Profile{UserID: user.ID}); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return s.ranking.UpdateRanks(ctx)
	})
	if err != nil {
		return nil, "", "", err
	}
	s.ranking.InvalidateLeaderboard(ctx)
	appLogger.Info("New user registered", zap.String("userID", user.ID), zap.String("email", user.Email))

	access, refresh, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	if errs := s.validator.ValidateLoginRequest(email, password); len(errs) > 0 {
		return "", "", nil, errs
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return "", "", nil, domain.NewUnauthorizedError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Get().Info("Login rejected", zap.String("userID", user.ID))
		return "", "", nil, domain.NewUnauthorizedError("invalid email or password")
	}

	access, refresh, err := s.issuePair(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	logger.Get().Info("User logged in", zap.String("userID", user.ID))
	return access, refresh, user, nil
}

func (s *authServiceImpl) issuePair(ctx context.Context, user *domain.User) (string, string, error) {
	access, err := s.CreateJWT(ctx, user, s.cfg.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return "", "", domain.NewInternalError("failed to create access token", err)
	}
	refresh, err := s.CreateJWT(ctx, user, s.cfg.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return "", "", domain.NewInternalError("failed to create refresh token", err)
	}
	return access, refresh, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

func snippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWT.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		}
		return nil, domain.NewError(domain.CodeUnauthorized, ErrInvalidJWTToken.Message, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		appLogger.Warn("Refresh token validation failed",
			zap.Error(err),
			zap.String("refresh_token_snippet", snippet(refreshTokenString)))
		return "", "", err
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", "", domain.NewUnauthorizedError("not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", "", domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		appLogger.Error("User not found for refresh token", zap.String("userID", claims.UserID))
		return "", "", domain.NewNotFoundError(fmt.Sprintf("User %s not found for refresh token", claims.UserID))
	}

	newAccessToken, newRefreshToken, err := s.issuePair(ctx, user)
	if err != nil {
		return "", "", err
	}
	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return newAccessToken, newRefreshToken, nil
}
