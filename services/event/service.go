package event

import (
	"errors"
	"fmt"

	"github.com/arman-dehghani/campushub/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrAlreadyJoined  = errors.New("already joined this event")
	ErrEventFull      = errors.New("event has reached capacity")
	ErrNotParticipant = errors.New("not a participant of this event")
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

func (s *Service) Create(event *Event) error {
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("event created",
			zap.Uint("event_id", event.ID),
			zap.Uint("created_by", event.CreatedBy))
	}
	return nil
}

func (s *Service) Get(id uint) (*Event, error) {
	var event Event
	err := s.db.Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to look up event: %w", err)
	}
	return &event, nil
}

func (s *Service) List() ([]Event, error) {
	var events []Event
	if err := s.db.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *Service) Update(event *Event) error {
	result := s.db.Model(&Event{}).Where("id = ?", event.ID).Updates(event)
	if result.Error != nil {
		return fmt.Errorf("failed to update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (s *Service) Delete(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Event{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (s *Service) Join(eventID, userID uint) error {
	event, err := s.Get(eventID)
	if err != nil {
		return err
	}

	if event.Capacity > 0 {
		var count int64
		if err := s.db.Model(&Participation{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count participants: %w", err)
		}
		if count >= int64(event.Capacity) {
			return ErrEventFull
		}
	}

	participation := Participation{EventID: eventID, UserID: userID}
	if err := s.db.Create(&participation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyJoined
		}
		return fmt.Errorf("failed to join event: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user joined event",
			zap.Uint("event_id", eventID),
			zap.Uint("user_id", userID))
	}
	return nil
}

func (s *Service) Leave(eventID, userID uint) error {
	result := s.db.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&Participation{})
	if result.Error != nil {
		return fmt.Errorf("failed to leave event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotParticipant
	}
	return nil
}
