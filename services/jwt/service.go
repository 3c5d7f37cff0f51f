package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/arman-dehghani/campushub/config"
	"github.com/arman-dehghani/campushub/services/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWrongTokenKind   = errors.New("wrong token kind")
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims carries subject identity, role and token kind. The kind claim is what
// keeps a refresh token from being replayed as an access token and vice versa.
type Claims struct {
	UserID    uint   `json:"user_id"`
	RoleID    uint   `json:"role_id"`
	TokenType string `json:"token_type"`
	JTI       string `json:"jti"`
	jwt.RegisteredClaims
}

// TokenPair is the result of one issuance instant: two independently signed
// tokens sharing subject and role but carrying distinct kinds and expiries.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type Service struct {
	config *config.Config
	logger *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		logger: logger,
	}
}

func (s *Service) GetAccessExpirySeconds() int {
	return int(s.config.JWT.AccessExpiry.Seconds())
}

func (s *Service) GetRefreshExpirySeconds() int {
	return int(s.config.JWT.RefreshExpiry.Seconds())
}

func (s *Service) signingMethod() *jwt.SigningMethodHMAC {
	switch s.config.JWT.Algorithm {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

func (s *Service) generate(userID, roleID uint, kind string, now time.Time, expiry time.Duration) (string, error) {
	jti := uuid.New().String()
	claims := Claims{
		UserID:    userID,
		RoleID:    roleID,
		TokenType: kind,
		JTI:       jti,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.config.JWT.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			Audience:  []string{s.config.JWT.Issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(s.signingMethod(), claims)
	tokenString, err := token.SignedString([]byte(s.config.JWT.SecretKey))
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to sign token", zap.String("kind", kind), zap.Error(err))
		}
		return "", fmt.Errorf("failed to generate %s token: %w", kind, err)
	}

	return tokenString, nil
}

func (s *Service) GenerateAccessToken(userID, roleID uint) (string, error) {
	return s.generate(userID, roleID, KindAccess, time.Now().UTC(), s.config.JWT.AccessExpiry)
}

func (s *Service) GenerateRefreshToken(userID, roleID uint) (string, error) {
	return s.generate(userID, roleID, KindRefresh, time.Now().UTC(), s.config.JWT.RefreshExpiry)
}

// IssuePair mints an access/refresh pair from a single issuance instant.
// Persistence of the pair is the caller's responsibility.
func (s *Service) IssuePair(userID, roleID uint) (*TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.generate(userID, roleID, KindAccess, now, s.config.JWT.AccessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generate(userID, roleID, KindRefresh, now, s.config.JWT.RefreshExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.config.JWT.AccessExpiry),
		RefreshExpiresAt: now.Add(s.config.JWT.RefreshExpiry),
	}, nil
}

// ValidateToken decodes and verifies a token and checks its kind claim against
// the expected use. Kind mismatch is a hard failure, never a fallback.
func (s *Service) ValidateToken(tokenString, expectedKind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}

		if token.Method.Alg() != s.config.JWT.Algorithm {
			return nil, fmt.Errorf("unexpected algorithm: expected %s, got %s", s.config.JWT.Algorithm, token.Method.Alg())
		}

		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid algorithm family: %v", token.Header["alg"])
		}

		return []byte(s.config.JWT.SecretKey), nil
	})

	if err != nil {
		if s.logger != nil {
			s.logger.Warn("token validation failed", zap.Error(err))
		}

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType == "" {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expectedKind {
		if s.logger != nil {
			s.logger.Warn("token kind mismatch",
				zap.String("expected", expectedKind),
				zap.String("got", claims.TokenType))
		}
		return nil, ErrWrongTokenKind
	}

	return claims, nil
}
