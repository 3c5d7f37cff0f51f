package tokenstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/arman-dehghani/campushub/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTokenNotFound = errors.New("token record not found")
	ErrTokenRevoked  = errors.New("token has been revoked")
	ErrTokenExpired  = errors.New("token record has expired")
)

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// RecordParams describes one login session to persist.
type RecordParams struct {
	UserID           uint
	AccessToken      string
	RefreshToken     string
	DeviceInfo       string
	IPAddress        string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Record inserts a new token record. Prior sessions for the same user are left
// untouched; multi-device login is permitted.
func (s *Service) Record(params RecordParams) (*TokenRecord, error) {
	record := TokenRecord{
		UserID:           params.UserID,
		AccessToken:      params.AccessToken,
		RefreshToken:     params.RefreshToken,
		DeviceInfo:       params.DeviceInfo,
		IPAddress:        params.IPAddress,
		AccessExpiresAt:  params.AccessExpiresAt,
		RefreshExpiresAt: params.RefreshExpiresAt,
	}

	if err := s.db.Create(&record).Error; err != nil {
		if s.logger != nil {
			s.logger.Error("failed to store token record", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to store token record: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("token record stored",
			zap.Uint("user_id", params.UserID),
			zap.Uint("record_id", record.ID),
			zap.Time("refresh_expires_at", params.RefreshExpiresAt))
	}

	return &record, nil
}

// Revoke marks records matching the refresh token as revoked. A single
// conditional update, so a concurrent or repeated revoke matches zero rows
// and is a no-op rather than an error.
func (s *Service) Revoke(refreshToken string) error {
	now := time.Now().UTC()
	result := s.db.Model(&TokenRecord{}).
		Where("refresh_token = ? AND revoked = ?", refreshToken, false).
		Updates(map[string]any{"revoked": true, "revoked_at": now})

	if result.Error != nil {
		if s.logger != nil {
			s.logger.Error("failed to revoke token record", zap.Error(result.Error))
		}
		return fmt.Errorf("failed to revoke token record: %w", result.Error)
	}

	if s.logger != nil {
		s.logger.Info("token record revoked",
			zap.Int64("affected_rows", result.RowsAffected))
	}

	return nil
}

// ActiveTokens lists the user's non-revoked, non-expired records in issuance
// order. Used for session auditing.
func (s *Service) ActiveTokens(userID uint) ([]TokenRecord, error) {
	var records []TokenRecord
	err := s.db.
		Where("user_id = ? AND revoked = ? AND refresh_expires_at > ?", userID, false, time.Now().UTC()).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to query active token records",
				zap.Error(err),
				zap.Uint("user_id", userID))
		}
		return nil, fmt.Errorf("failed to query active token records: %w", err)
	}

	return records, nil
}

// FindActive resolves a refresh token to its record iff the record is neither
// revoked nor expired. This is the revocation check the refresh path runs.
func (s *Service) FindActive(refreshToken string) (*TokenRecord, error) {
	var record TokenRecord
	err := s.db.Where("refresh_token = ?", refreshToken).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logger != nil {
				s.logger.Warn("refresh token has no record")
			}
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up token record: %w", err)
	}

	if record.Revoked {
		if s.logger != nil {
			s.logger.Warn("refresh token record is revoked",
				zap.Uint("record_id", record.ID),
				zap.Uint("user_id", record.UserID))
		}
		return nil, ErrTokenRevoked
	}

	if time.Now().UTC().After(record.RefreshExpiresAt) {
		return nil, ErrTokenExpired
	}

	return &record, nil
}
