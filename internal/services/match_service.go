package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
	"github.com/lofohq/lofo-server/pkg/metrics"
)

// DefaultMinMatchScore is the lowest score worth surfacing to a user. A
// single shared dimension is not actionable.
const DefaultMinMatchScore = 2

// MaxMatchScore is the number of scored dimensions.
const MaxMatchScore = 4

// MatchResult describes the outcome of a best-match search. A zero
// MatchedID means no candidate cleared the minimum score.
type MatchResult struct {
	MatchedID string `json:"matched_id,omitempty"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
}

// Matched reports whether the result points at an actual candidate.
func (r MatchResult) Matched() bool {
	return r.MatchedID != ""
}

// NoMatch is the sentinel returned when nothing scores above the threshold.
func NoMatch() MatchResult {
	return MatchResult{Score: 0, Reason: "no match"}
}

// MatchCase pairs one lost report with one found report for the match-cases
// browse screen.
type MatchCase struct {
	Lost  models.ItemReport `json:"lost"`
	Found models.ItemReport `json:"found"`
	Score int               `json:"score"`
}

// MatchService scores candidate lost/found pairs. Scoring is pure in-memory
// computation; only the pool loaders touch the database.
type MatchService struct {
	db       *gorm.DB
	minScore int
}

// NewMatchService constructs a MatchService. A non-positive minScore falls
// back to the default threshold.
func NewMatchService(db *gorm.DB, minScore int) (*MatchService, error) {
	if db == nil {
		return nil, errors.New("match service: db is required")
	}
	if minScore <= 0 {
		minScore = DefaultMinMatchScore
	}
	return &MatchService{db: db, minScore: minScore}, nil
}

// Score counts matching dimensions between two reports: city, category,
// sub-type name and area, one point each. A dimension only scores when both
// sides carry a value, so two reports both missing an area share nothing.
// The function is symmetric: Score(a, b) == Score(b, a).
func (s *MatchService) Score(a, b models.ItemReport) int {
	score := 0
	if bothSet(a.City, b.City) {
		score++
	}
	if bothSet(a.Category, b.Category) {
		score++
	}
	if bothSet(a.SubTypeName, b.SubTypeName) {
		score++
	}
	if bothSet(a.Area, b.Area) {
		score++
	}
	return score
}

// FindBestMatch scans the pool for the highest-scoring OPEN report of the
// opposite kind. Ties go to the oldest candidate so long-unresolved reports
// surface first. Anything below the minimum score is reported as no match
// rather than a low-confidence guess.
func (s *MatchService) FindBestMatch(target models.ItemReport, pool []models.ItemReport) MatchResult {
	var best *models.ItemReport
	bestScore := -1

	for i := range pool {
		candidate := pool[i]
		if candidate.Kind == target.Kind || !candidate.IsOpen() || candidate.ID == target.ID {
			continue
		}

		score := s.Score(target, candidate)
		switch {
		case score > bestScore:
			best = &pool[i]
			bestScore = score
		case score == bestScore && best != nil && candidate.CreatedAt.Before(best.CreatedAt):
			best = &pool[i]
		}
	}

	if best == nil || bestScore < s.minScore {
		return NoMatch()
	}

	return MatchResult{
		MatchedID: best.ID,
		Score:     bestScore,
		Reason:    matchReason(target, *best),
	}
}

// BestMatchForReport loads the target and the candidate pool and runs the
// best-match search.
func (s *MatchService) BestMatchForReport(ctx context.Context, reportID string) (MatchResult, error) {
	ctx = ensureContext(ctx)

	var target models.ItemReport
	if err := s.db.WithContext(ctx).Where("id = ?", reportID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NoMatch(), gorm.ErrRecordNotFound
		}
		return NoMatch(), fmt.Errorf("match service: load report: %w", err)
	}

	if !target.IsOpen() {
		return NoMatch(), nil
	}

	pool, err := s.openReportsOfKind(ctx, oppositeKind(target.Kind))
	if err != nil {
		return NoMatch(), err
	}

	metrics.MatchScans.WithLabelValues("best").Inc()
	return s.FindBestMatch(target, pool), nil
}

// QuickSuggestion returns the first OPEN opposite-kind report sharing city
// and category with the new report. It deliberately trades precision for
// speed: the submit flow wants an instant hint, the explicit match search
// uses the full scorer.
func (s *MatchService) QuickSuggestion(report models.ItemReport, pool []models.ItemReport) *models.ItemReport {
	metrics.MatchScans.WithLabelValues("quick").Inc()

	for i := range pool {
		candidate := pool[i]
		if candidate.Kind == report.Kind || !candidate.IsOpen() || candidate.ID == report.ID {
			continue
		}
		if bothSet(candidate.City, report.City) && bothSet(candidate.Category, report.Category) {
			return &pool[i]
		}
	}
	return nil
}

// ListCases returns every lost/found pair scoring at or above the minimum,
// strongest pairs first.
func (s *MatchService) ListCases(ctx context.Context) ([]MatchCase, error) {
	ctx = ensureContext(ctx)

	lost, err := s.openReportsOfKind(ctx, models.KindLost)
	if err != nil {
		return nil, err
	}
	found, err := s.openReportsOfKind(ctx, models.KindFound)
	if err != nil {
		return nil, err
	}

	metrics.MatchScans.WithLabelValues("cases").Inc()

	cases := make([]MatchCase, 0)
	for _, l := range lost {
		for _, f := range found {
			if score := s.Score(l, f); score >= s.minScore {
				cases = append(cases, MatchCase{Lost: l, Found: f, Score: score})
			}
		}
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Score > cases[j].Score
	})

	return cases, nil
}

func (s *MatchService) openReportsOfKind(ctx context.Context, kind string) ([]models.ItemReport, error) {
	var reports []models.ItemReport
	if err := s.db.WithContext(ctx).
		Where("kind = ? AND status = ?", kind, models.StatusOpen).
		Order("created_at ASC").
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("match service: load %s reports: %w", strings.ToLower(kind), err)
	}
	return reports, nil
}

func oppositeKind(kind string) string {
	if kind == models.KindLost {
		return models.KindFound
	}
	return models.KindLost
}

// matchReason summarises which dimensions matched, e.g. "same city, category and item name".
func matchReason(a, b models.ItemReport) string {
	var dims []string
	if bothSet(a.City, b.City) {
		dims = append(dims, "city")
	}
	if bothSet(a.Category, b.Category) {
		dims = append(dims, "category")
	}
	if bothSet(a.SubTypeName, b.SubTypeName) {
		dims = append(dims, "item name")
	}
	if bothSet(a.Area, b.Area) {
		dims = append(dims, "area")
	}

	switch len(dims) {
	case 0:
		return "no shared details"
	case 1:
		return "same " + dims[0]
	default:
		return "same " + strings.Join(dims[:len(dims)-1], ", ") + " and " + dims[len(dims)-1]
	}
}
