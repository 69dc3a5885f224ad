package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
	"github.com/lofohq/lofo-server/internal/realtime"
	apperrors "github.com/lofohq/lofo-server/pkg/errors"
	"github.com/lofohq/lofo-server/pkg/logger"
	"github.com/lofohq/lofo-server/pkg/metrics"
)

// CreateReportInput defines attributes required to post a new item report.
type CreateReportInput struct {
	Kind         string
	Title        string
	Description  string
	Category     string
	SubTypeName  string
	City         string
	Area         string
	SubArea      string
	ImageURL     string
	ContactPhone string
}

// UpdateReportInput carries editable report fields. Nil pointers leave the
// stored value untouched.
type UpdateReportInput struct {
	Title        *string
	Description  *string
	Category     *string
	SubTypeName  *string
	City         *string
	Area         *string
	SubArea      *string
	ImageURL     *string
	ContactPhone *string
}

// ListReportsInput defines listing filters.
type ListReportsInput struct {
	Kind     string
	City     string
	Category string
	Status   string
	AuthorID string
	Search   string
	Limit    int
	Offset   int
}

// CreatedReport bundles a persisted report with the instant match hint shown
// right after submission.
type CreatedReport struct {
	Report     models.ItemReport  `json:"report"`
	Suggestion *models.ItemReport `json:"suggestion,omitempty"`
}

// ItemService owns the item report directory: creation, listing, edits and
// the status state machine. Creating a report also drives alert emission
// and the quick match suggestion.
type ItemService struct {
	db      *gorm.DB
	alerts  *AlertService
	matches *MatchService
	catalog *CatalogService
	hub     *realtime.Hub
	log     *zap.Logger

	quickSuggestion bool
}

// NewItemService constructs an ItemService. The alert and match services are
// optional; without them reports are still created but no alerts or
// suggestions are produced.
func NewItemService(db *gorm.DB, alerts *AlertService, matches *MatchService, catalog *CatalogService, hub *realtime.Hub, quickSuggestion bool) (*ItemService, error) {
	if db == nil {
		return nil, errors.New("item service: db is required")
	}
	return &ItemService{
		db:              db,
		alerts:          alerts,
		matches:         matches,
		catalog:         catalog,
		hub:             hub,
		log:             logger.WithModule("items"),
		quickSuggestion: quickSuggestion,
	}, nil
}

// Create persists a new report for the author, then emits the city alert and
// computes the quick match suggestion. Alert emission is fire-and-forget:
// the report is created even when the alert write fails, and the failure is
// only logged.
func (s *ItemService) Create(ctx context.Context, author models.User, input CreateReportInput) (*CreatedReport, error) {
	ctx = ensureContext(ctx)

	kind := strings.ToUpper(strings.TrimSpace(input.Kind))
	if !models.ValidKind(kind) {
		return nil, apperrors.NewBadRequest("kind must be LOST or FOUND")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled"
	}

	if s.catalog != nil {
		if err := s.catalog.ValidateItem(ctx, input.Category, input.SubTypeName); err != nil {
			return nil, err
		}
	}

	report := models.ItemReport{
		Kind:         kind,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Category:     defaultIfEmpty(strings.TrimSpace(input.Category), "Other"),
		SubTypeName:  strings.TrimSpace(input.SubTypeName),
		City:         strings.TrimSpace(input.City),
		Area:         strings.TrimSpace(input.Area),
		SubArea:      strings.TrimSpace(input.SubArea),
		ImageURL:     strings.TrimSpace(input.ImageURL),
		ContactPhone: defaultIfEmpty(strings.TrimSpace(input.ContactPhone), author.Phone),
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		Status:       models.StatusOpen,
	}

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("item service: create report: %w", err)
	}

	// Alert emission runs strictly after the report write was acknowledged.
	if s.alerts != nil {
		if _, err := s.alerts.EmitForReport(ctx, report); err != nil {
			metrics.AlertEmitFailures.Inc()
			s.log.Warn("alert emission failed",
				zap.String("report_id", report.ID),
				zap.Error(err),
			)
		}
	}

	created := &CreatedReport{Report: report}
	if s.quickSuggestion && s.matches != nil {
		created.Suggestion = s.suggestMatch(ctx, report)
	}

	return created, nil
}

func (s *ItemService) suggestMatch(ctx context.Context, report models.ItemReport) *models.ItemReport {
	pool, err := s.matches.openReportsOfKind(ctx, oppositeKind(report.Kind))
	if err != nil {
		s.log.Warn("quick suggestion pool load failed", zap.Error(err))
		return nil
	}

	suggestion := s.matches.QuickSuggestion(report, pool)
	if suggestion != nil && s.hub != nil {
		s.hub.BroadcastToUser(realtime.StreamMatches, report.AuthorID, realtime.Message{
			Event: "match.suggested",
			Data: map[string]any{
				"report_id":  report.ID,
				"matched_id": suggestion.ID,
			},
		})
	}
	return suggestion
}

// List returns reports matching the supplied filters, newest first.
func (s *ItemService) List(ctx context.Context, input ListReportsInput) ([]models.ItemReport, error) {
	ctx = ensureContext(ctx)

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	query := s.db.WithContext(ctx).Model(&models.ItemReport{})
	if kind := strings.ToUpper(strings.TrimSpace(input.Kind)); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if city := strings.TrimSpace(input.City); city != "" {
		query = query.Where("city = ?", city)
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := strings.ToUpper(strings.TrimSpace(input.Status)); status != "" {
		query = query.Where("status = ?", status)
	}
	if authorID := strings.TrimSpace(input.AuthorID); authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}
	if search := strings.TrimSpace(input.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR sub_type_name LIKE ?", pattern, pattern, pattern)
	}

	var reports []models.ItemReport
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("item service: list reports: %w", err)
	}
	return reports, nil
}

// Get loads one report by id.
func (s *ItemService) Get(ctx context.Context, id string) (*models.ItemReport, error) {
	ctx = ensureContext(ctx)

	var report models.ItemReport
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("item service: load report: %w", err)
	}
	return &report, nil
}

// Update edits a report's fields. Only the author or an administrator may
// edit; the status field has its own transition rules and is not editable
// here.
func (s *ItemService) Update(ctx context.Context, actorID string, isAdmin bool, id string, input UpdateReportInput) (*models.ItemReport, error) {
	ctx = ensureContext(ctx)

	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.AuthorID != actorID && !isAdmin {
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]any{}
	assign := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	assign("title", input.Title)
	assign("description", input.Description)
	assign("category", input.Category)
	assign("sub_type_name", input.SubTypeName)
	assign("city", input.City)
	assign("area", input.Area)
	assign("sub_area", input.SubArea)
	assign("image_url", input.ImageURL)
	assign("contact_phone", input.ContactPhone)

	if len(updates) == 0 {
		return report, nil
	}

	if s.catalog != nil {
		category := report.Category
		if input.Category != nil {
			category = strings.TrimSpace(*input.Category)
		}
		subType := report.SubTypeName
		if input.SubTypeName != nil {
			subType = strings.TrimSpace(*input.SubTypeName)
		}
		if err := s.catalog.ValidateItem(ctx, category, subType); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Model(report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("item service: update report: %w", err)
	}
	return s.Get(ctx, id)
}

// UpdateStatus applies the report lifecycle state machine. Authors may
// resolve or deactivate an open report and reopen an inactive one; RESOLVED
// is terminal unless an administrator forces the transition.
func (s *ItemService) UpdateStatus(ctx context.Context, actorID string, isAdmin bool, id, newStatus string) (*models.ItemReport, error) {
	ctx = ensureContext(ctx)

	newStatus = strings.ToUpper(strings.TrimSpace(newStatus))
	if !models.ValidStatus(newStatus) {
		return nil, apperrors.NewBadRequest("status must be OPEN, RESOLVED or INACTIVE")
	}

	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.AuthorID != actorID && !isAdmin {
		return nil, apperrors.ErrForbidden
	}

	if !isAdmin && !allowedTransition(report.Status, newStatus) {
		return nil, apperrors.ErrInvalidTransition
	}

	if report.Status == newStatus {
		return report, nil
	}

	if err := s.db.WithContext(ctx).Model(report).Update("status", newStatus).Error; err != nil {
		return nil, fmt.Errorf("item service: update status: %w", err)
	}
	report.Status = newStatus
	return report, nil
}

// Delete removes a report. Only the author or an administrator may delete.
// Alerts referencing the report stay in place; the back-reference is weak.
func (s *ItemService) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	ctx = ensureContext(ctx)

	report, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if report.AuthorID != actorID && !isAdmin {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&models.ItemReport{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("item service: delete report: %w", err)
	}
	return nil
}

func allowedTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case models.StatusOpen:
		return to == models.StatusResolved || to == models.StatusInactive
	case models.StatusInactive:
		return to == models.StatusOpen
	default: // RESOLVED is terminal for authors
		return false
	}
}
