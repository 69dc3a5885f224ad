package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
)

// AlertStateService persists the per-user read/deleted overlay on the shared
// alert stream. Both id sets are append-only; a write that arrives twice
// (rapid taps, multi-device retries) leaves the state unchanged.
type AlertStateService struct {
	db *gorm.DB
}

// NewAlertStateService constructs an AlertStateService.
func NewAlertStateService(db *gorm.DB) (*AlertStateService, error) {
	if db == nil {
		return nil, errors.New("alert state service: db is required")
	}
	return &AlertStateService{db: db}, nil
}

// Get loads the overlay for a user. A user without stored state gets an
// empty overlay, never an error.
func (s *AlertStateService) Get(ctx context.Context, userID string) (*models.UserAlertState, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("alert state service: user id is required")
	}

	var state models.UserAlertState
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserAlertState{
			UserID:          userID,
			ReadAlertIDs:    models.EncodeIDSet(nil),
			DeletedAlertIDs: models.EncodeIDSet(nil),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("alert state service: load state: %w", err)
	}
	return &state, nil
}

// MarkRead adds the alert id to the user's read set. Calling it again for
// the same id is a no-op.
func (s *AlertStateService) MarkRead(ctx context.Context, userID, alertID string) (*models.UserAlertState, error) {
	return s.update(ctx, userID, alertID, func(state *models.UserAlertState, id string) bool {
		ids, changed := appendUnique(decodeIDs(state.ReadAlertIDs), id)
		if changed {
			state.ReadAlertIDs = models.EncodeIDSet(ids)
		}
		return changed
	})
}

// Dismiss adds the alert id to the user's deleted set. A dismissed alert is
// hidden regardless of read status; dismissing does not mark it read.
func (s *AlertStateService) Dismiss(ctx context.Context, userID, alertID string) (*models.UserAlertState, error) {
	return s.update(ctx, userID, alertID, func(state *models.UserAlertState, id string) bool {
		ids, changed := appendUnique(decodeIDs(state.DeletedAlertIDs), id)
		if changed {
			state.DeletedAlertIDs = models.EncodeIDSet(ids)
		}
		return changed
	})
}

func (s *AlertStateService) update(ctx context.Context, userID, alertID string, mutate func(*models.UserAlertState, string) bool) (*models.UserAlertState, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	alertID = strings.TrimSpace(alertID)
	if userID == "" {
		return nil, errors.New("alert state service: user id is required")
	}
	if alertID == "" {
		return nil, errors.New("alert state service: alert id is required")
	}

	var state models.UserAlertState
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		state = models.UserAlertState{
			UserID:          userID,
			ReadAlertIDs:    models.EncodeIDSet(nil),
			DeletedAlertIDs: models.EncodeIDSet(nil),
		}
		if !mutate(&state, alertID) {
			return &state, nil
		}
		if err := s.db.WithContext(ctx).Create(&state).Error; err != nil {
			return nil, fmt.Errorf("alert state service: create state: %w", err)
		}
		return &state, nil
	case err != nil:
		return nil, fmt.Errorf("alert state service: load state: %w", err)
	}

	if !mutate(&state, alertID) {
		return &state, nil
	}

	// Last write wins across devices; acceptable because the sets only grow.
	if err := s.db.WithContext(ctx).Model(&models.UserAlertState{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"read_alert_ids":    state.ReadAlertIDs,
			"deleted_alert_ids": state.DeletedAlertIDs,
		}).Error; err != nil {
		return nil, fmt.Errorf("alert state service: save state: %w", err)
	}

	return &state, nil
}

// CleanupOrphaned removes overlay rows whose owning user no longer exists.
func (s *AlertStateService) CleanupOrphaned(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("user_id NOT IN (?)", s.db.Model(&models.User{}).Select("id")).
		Delete(&models.UserAlertState{})
	if result.Error != nil {
		return 0, fmt.Errorf("alert state service: cleanup orphaned: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// decodeIDs unmarshals an id-set column preserving insertion order.
func decodeIDs(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil
	}
	return ids
}
