package tokenstore

import (
	"time"
)

// TokenRecord is the persisted trace of one issued refresh token. Records are
// only ever mutated to set the revoked flag, never deleted, so the table
// doubles as a session audit trail.
type TokenRecord struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	UserID           uint       `json:"user_id" gorm:"not null;index"`
	AccessToken      string     `json:"-" gorm:"size:512;not null"`
	RefreshToken     string     `json:"-" gorm:"uniqueIndex;size:512;not null"`
	DeviceInfo       string     `json:"device_info" gorm:"size:500"`
	IPAddress        string     `json:"ip_address" gorm:"size:45"`
	AccessExpiresAt  time.Time  `json:"access_expires_at" gorm:"not null"`
	RefreshExpiresAt time.Time  `json:"refresh_expires_at" gorm:"not null;index"`
	Revoked          bool       `json:"revoked" gorm:"not null;default:false"`
	RevokedAt        *time.Time `json:"revoked_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (TokenRecord) TableName() string {
	return "user_tokens"
}
