package event

import (
	"time"
)

type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:2000"`
	Location    string    `json:"location" gorm:"size:255"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"`
	CreatedBy   uint      `json:"created_by" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

type Participation struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	EventID  uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_user"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_event_user"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

func (Participation) TableName() string {
	return "event_participations"
}
