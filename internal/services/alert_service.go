package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
	"github.com/lofohq/lofo-server/internal/realtime"
	"github.com/lofohq/lofo-server/pkg/metrics"
)

// AlertService converts newly created item reports into city-scoped alerts
// and serves the shared alert stream.
type AlertService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewAlertService constructs an AlertService.
func NewAlertService(db *gorm.DB, hub *realtime.Hub) (*AlertService, error) {
	if db == nil {
		return nil, errors.New("alert service: db is required")
	}
	return &AlertService{db: db, hub: hub}, nil
}

// EmitForReport creates exactly one CityAlert for a persisted report. A
// report without a city produces no alert and no error. Callers must invoke
// this only after the report write has been acknowledged so an alert can
// never reference an unpersisted report.
func (s *AlertService) EmitForReport(ctx context.Context, report models.ItemReport) (*models.CityAlert, error) {
	ctx = ensureContext(ctx)

	city := strings.TrimSpace(report.City)
	if city == "" {
		return nil, nil
	}

	alert := models.CityAlert{
		Message:        alertMessage(report),
		City:           city,
		Kind:           report.Kind,
		SourceReportID: report.ID,
	}

	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return nil, fmt.Errorf("alert service: create alert: %w", err)
	}

	metrics.AlertsEmitted.WithLabelValues(strings.ToLower(alert.Kind)).Inc()
	s.broadcast("alert.created", alert)
	return &alert, nil
}

// ListAll returns the global alert stream ordered newest first.
func (s *AlertService) ListAll(ctx context.Context) ([]models.CityAlert, error) {
	ctx = ensureContext(ctx)

	var alerts []models.CityAlert
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("alert service: list alerts: %w", err)
	}
	return alerts, nil
}

// ListByCity returns alerts for one city, newest first.
func (s *AlertService) ListByCity(ctx context.Context, city string) ([]models.CityAlert, error) {
	ctx = ensureContext(ctx)

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, nil
	}

	var alerts []models.CityAlert
	if err := s.db.WithContext(ctx).
		Where("city = ?", city).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("alert service: list alerts by city: %w", err)
	}
	return alerts, nil
}

// CleanupOlderThan removes alerts past the retention window. Alerts are
// broadcast events, not user data, so pruning them does not touch any
// per-user overlay state.
func (s *AlertService) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	ctx = ensureContext(ctx)
	if days <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.CityAlert{})
	if result.Error != nil {
		return 0, fmt.Errorf("alert service: cleanup alerts: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *AlertService) broadcast(event string, alert models.CityAlert) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastStream(realtime.StreamAlerts, realtime.Message{
		Event: event,
		Data:  alert,
	})
}

// alertMessage renders the fixed alert template. The sub-type name is
// preferred over the free-form title when the author picked one.
func alertMessage(report models.ItemReport) string {
	subject := strings.TrimSpace(report.SubTypeName)
	if subject == "" {
		subject = strings.TrimSpace(report.Title)
	}

	verb := "found"
	if report.Kind == models.KindLost {
		verb = "lost"
	}

	return fmt.Sprintf("%s %s in %s", subject, verb, strings.TrimSpace(report.City))
}
