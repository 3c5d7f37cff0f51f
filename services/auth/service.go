package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/arman-dehghani/campushub/config"
	"github.com/arman-dehghani/campushub/services/jwt"
	"github.com/arman-dehghani/campushub/services/logging"
	"github.com/arman-dehghani/campushub/services/tokenstore"
	"github.com/mileusna/useragent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPasswordHashingFailed = errors.New("failed to hash password")
	ErrHashFormat            = errors.New("stored password hash is malformed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUsernameTaken         = errors.New("username already exists")
	ErrUserNotFound          = errors.New("user not found")
)

type MailService interface {
	Send(to, subject, body string) error
}

type Service struct {
	config      *config.Config
	db          *gorm.DB
	jwtService  *jwt.Service
	tokenStore  *tokenstore.Service
	mailService MailService
	logger      *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, jwtSvc *jwt.Service, store *tokenstore.Service, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config:     cfg,
		db:         db,
		jwtService: jwtSvc,
		tokenStore: store,
		logger:     logger,
	}
}

func (s *Service) SetMailService(mailService MailService) {
	s.mailService = mailService
}

func (s *Service) ValidatePassword(password string) error {
	if len(password) < s.config.Auth.MinLength {
		return fmt.Errorf("password must be at least %d characters", s.config.Auth.MinLength)
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	var missing []string
	if s.config.Auth.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if s.config.Auth.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if s.config.Auth.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least %s", strings.Join(missing, ", "))
	}

	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("password hashing failed", zap.Error(err))
		}
		return "", ErrPasswordHashingFailed
	}
	return string(hash), nil
}

// VerifyPassword distinguishes a mismatch from a corrupted stored digest: the
// former is a credential failure, the latter signals data corruption and is
// surfaced as a server-side fault.
func (s *Service) VerifyPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		if s.logger != nil {
			s.logger.Warn("password verification failed")
		}
		return ErrInvalidCredentials
	}

	if s.logger != nil {
		s.logger.Error("stored password hash is malformed", zap.Error(err))
	}
	return fmt.Errorf("%w: %v", ErrHashFormat, err)
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

func (s *Service) Register(req RegisterRequest) (*User, error) {
	if err := s.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	var existing User
	err := s.db.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       RoleUser,
		IsActive:     true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The pre-check races with concurrent registrations; a duplicate key
		// here is still a business conflict, not an infrastructure fault.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		if s.logger != nil {
			s.logger.Error("failed to create user", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user registered",
			zap.Uint("user_id", user.ID),
			zap.String("username", user.Username))
	}

	if s.mailService != nil && user.Email != "" {
		if err := s.mailService.Send(user.Email, "Welcome to "+s.config.App.Name,
			fmt.Sprintf("Hi %s, your account has been created.", user.Username)); err != nil && s.logger != nil {
			s.logger.Warn("failed to send welcome mail", zap.Error(err))
		}
	}

	return &user, nil
}

type LoginResult struct {
	User *User
	Pair *jwt.TokenPair
}

// Login verifies the credential, mints a token pair and records the session.
// Unknown username, wrong password and deactivated account all collapse into
// ErrInvalidCredentials so the response does not reveal which check failed.
func (s *Service) Login(username, password, userAgent, ipAddress string) (*LoginResult, error) {
	var user User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logger != nil {
				s.logger.Warn("login failed - unknown username", zap.String("username", username))
			}
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		if s.logger != nil {
			s.logger.Warn("login failed - deactivated account", zap.Uint("user_id", user.ID))
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.IssuePair(user.ID, user.RoleID)
	if err != nil {
		return nil, err
	}

	_, err = s.tokenStore.Record(tokenstore.RecordParams{
		UserID:           user.ID,
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		DeviceInfo:       describeDevice(userAgent),
		IPAddress:        ipAddress,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil && s.logger != nil {
		s.logger.Warn("failed to update last login", zap.Error(err), zap.Uint("user_id", user.ID))
	}
	user.LastLogin = &now

	if s.logger != nil {
		s.logger.Info("login succeeded",
			zap.Uint("user_id", user.ID),
			zap.Uint("role_id", user.RoleID))
	}

	return &LoginResult{User: &user, Pair: pair}, nil
}

type RefreshResult struct {
	AccessToken     string
	AccessExpiresAt time.Time
	UserID          uint
	RoleID          uint
}

// Refresh mints a new access token from a still-valid refresh token. This is
// the only point where revocation is enforced; a revoked session dies here,
// at latest one access-token lifetime after the revoke.
func (s *Service) Refresh(refreshToken string) (*RefreshResult, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, err
	}

	if _, err := s.tokenStore.FindActive(refreshToken); err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.RoleID)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("access token refreshed", zap.Uint("user_id", claims.UserID))
	}

	return &RefreshResult{
		AccessToken:     accessToken,
		AccessExpiresAt: time.Now().UTC().Add(s.config.JWT.AccessExpiry),
		UserID:          claims.UserID,
		RoleID:          claims.RoleID,
	}, nil
}

// Logout revokes the session's refresh token. Idempotent.
func (s *Service) Logout(refreshToken string) error {
	return s.tokenStore.Revoke(refreshToken)
}

func (s *Service) Sessions(userID uint) ([]tokenstore.TokenRecord, error) {
	return s.tokenStore.ActiveTokens(userID)
}

func (s *Service) FindUserByID(id uint) (*User, error) {
	var user User
	err := s.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

func (s *Service) FindUserByUsername(username string) (*User, error) {
	var user User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.FindUserByID(userID)
	if err != nil {
		return err
	}

	if err := s.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return err
	}

	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Model(user).Update("password_hash", hash).Error
}

// Deactivate soft-deletes the account: the row survives for referential
// integrity, the subject can no longer log in.
func (s *Service) Deactivate(userID uint) error {
	result := s.db.Model(&User{}).Where("id = ?", userID).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ElevateRole changes a user's role. Administrative action only; the handler
// gates it behind the super-admin guard.
func (s *Service) ElevateRole(userID, roleID uint) error {
	var role Role
	if err := s.db.Where("id = ?", roleID).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("unknown role id %d", roleID)
		}
		return fmt.Errorf("failed to look up role: %w", err)
	}

	result := s.db.Model(&User{}).Where("id = ?", userID).Update("role_id", roleID)
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	if s.logger != nil {
		s.logger.Info("user role changed",
			zap.Uint("user_id", userID),
			zap.Uint("role_id", roleID))
	}
	return nil
}

func (s *Service) ListUsers() ([]User, error) {
	var users []User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SeedReferenceData creates the role rows and the initial super admin when
// they are absent. Runs once at startup.
func (s *Service) SeedReferenceData() error {
	var roleCount int64
	if err := s.db.Model(&Role{}).Count(&roleCount).Error; err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}

	if roleCount == 0 {
		roles := []Role{
			{ID: RoleUser, Name: "user", Description: "standard user"},
			{ID: RoleAdmin, Name: "admin", Description: "administrator"},
			{ID: RoleSuperAdmin, Name: "superadmin", Description: "owner"},
		}
		if err := s.db.Create(&roles).Error; err != nil {
			return fmt.Errorf("failed to seed roles: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("seeded role reference data", zap.Int("count", len(roles)))
		}
	}

	if s.config.Auth.SuperAdminUsername == "" || s.config.Auth.SuperAdminPassword == "" {
		return nil
	}

	var superAdmin User
	err := s.db.Where("role_id = ?", RoleSuperAdmin).First(&superAdmin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for super admin: %w", err)
	}

	hash, err := s.HashPassword(s.config.Auth.SuperAdminPassword)
	if err != nil {
		return err
	}

	superAdmin = User{
		Username:     s.config.Auth.SuperAdminUsername,
		Email:        s.config.Auth.SuperAdminUsername + "@" + s.config.App.Name,
		PasswordHash: hash,
		RoleID:       RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.db.Create(&superAdmin).Error; err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("created initial super admin", zap.Uint("user_id", superAdmin.ID))
	}
	return nil
}

func describeDevice(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	ua := useragent.Parse(userAgent)
	parts := make([]string, 0, 3)
	if ua.Name != "" {
		parts = append(parts, ua.Name)
	}
	if ua.OS != "" {
		parts = append(parts, ua.OS)
	}
	if ua.Device != "" {
		parts = append(parts, ua.Device)
	}
	if len(parts) == 0 {
		return userAgent
	}
	return strings.Join(parts, " / ")
}
