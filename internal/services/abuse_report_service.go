package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
	apperrors "github.com/lofohq/lofo-server/pkg/errors"
)

// AbuseReportService records user-vs-user moderation flags and lets admins
// work through the queue.
type AbuseReportService struct {
	db *gorm.DB
}

// NewAbuseReportService constructs an AbuseReportService.
func NewAbuseReportService(db *gorm.DB) (*AbuseReportService, error) {
	if db == nil {
		return nil, errors.New("abuse report service: db is required")
	}
	return &AbuseReportService{db: db}, nil
}

// File records a new abuse report against another user.
func (s *AbuseReportService) File(ctx context.Context, reporterID, reportedUserID, reason string) (*models.AbuseReport, error) {
	ctx = ensureContext(ctx)

	reporterID = strings.TrimSpace(reporterID)
	reportedUserID = strings.TrimSpace(reportedUserID)
	reason = strings.TrimSpace(reason)

	if reporterID == "" || reportedUserID == "" {
		return nil, apperrors.NewBadRequest("reporter and reported user are required")
	}
	if reporterID == reportedUserID {
		return nil, apperrors.NewBadRequest("cannot report yourself")
	}
	if reason == "" {
		return nil, apperrors.NewBadRequest("reason is required")
	}

	var target models.User
	if err := s.db.WithContext(ctx).Where("id = ?", reportedUserID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("abuse report service: load reported user: %w", err)
	}

	report := models.AbuseReport{
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		Reason:         reason,
		Status:         models.AbusePending,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("abuse report service: create report: %w", err)
	}
	return &report, nil
}

// List returns abuse reports, optionally filtered by status, newest first.
func (s *AbuseReportService) List(ctx context.Context, status string) ([]models.AbuseReport, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.AbuseReport{})
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []models.AbuseReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("abuse report service: list reports: %w", err)
	}
	return reports, nil
}

// Resolve marks an abuse report handled. Resolving twice is a no-op.
func (s *AbuseReportService) Resolve(ctx context.Context, id string) (*models.AbuseReport, error) {
	ctx = ensureContext(ctx)

	var report models.AbuseReport
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("abuse report service: load report: %w", err)
	}

	if report.Status == models.AbuseResolved {
		return &report, nil
	}

	if err := s.db.WithContext(ctx).Model(&report).Update("status", models.AbuseResolved).Error; err != nil {
		return nil, fmt.Errorf("abuse report service: resolve report: %w", err)
	}
	report.Status = models.AbuseResolved
	return &report, nil
}
