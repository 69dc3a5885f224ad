package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lofohq/lofo-server/internal/database/testutil"
	"github.com/lofohq/lofo-server/internal/models"
)

func report(kind, city, category, subType, area string) models.ItemReport {
	return models.ItemReport{
		Kind:        kind,
		Title:       "test",
		City:        city,
		Category:    category,
		SubTypeName: subType,
		Area:        area,
		Status:      models.StatusOpen,
	}
}

func TestScoreCountsMatchingDimensions(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	lost := report(models.KindLost, "Karachi", "Electronics", "Mobile Phone", "Clifton")
	found := report(models.KindFound, "Karachi", "Electronics", "Mobile Phone", "Clifton")
	require.Equal(t, MaxMatchScore, svc.Score(lost, found))

	found.Area = "Saddar"
	require.Equal(t, 3, svc.Score(lost, found))

	found.SubTypeName = ""
	require.Equal(t, 2, svc.Score(lost, found))

	found.City = "Lahore"
	require.Equal(t, 1, svc.Score(lost, found))

	found.Category = "Documents"
	require.Equal(t, 0, svc.Score(lost, found))
}

func TestScoreRequiresBothSidesPresent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	// Two reports both missing the area share nothing on that dimension.
	a := report(models.KindLost, "Karachi", "", "", "")
	b := report(models.KindFound, "Karachi", "", "", "")
	require.Equal(t, 1, svc.Score(a, b))

	a = report(models.KindLost, "", "", "", "")
	b = report(models.KindFound, "", "", "", "")
	require.Equal(t, 0, svc.Score(a, b))
}

func TestScoreIsSymmetric(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	a := report(models.KindLost, "Karachi", "Electronics", "Laptop", "")
	b := report(models.KindFound, "Karachi", "Electronics", "", "Clifton")
	require.Equal(t, svc.Score(a, b), svc.Score(b, a))
}

func TestFindBestMatchBelowThresholdIsNoMatch(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	target := report(models.KindLost, "Karachi", "Electronics", "", "")
	pool := []models.ItemReport{
		report(models.KindFound, "Karachi", "Documents", "", ""),
	}

	result := svc.FindBestMatch(target, pool)
	require.False(t, result.Matched())
	require.Zero(t, result.Score)
	require.Equal(t, "no match", result.Reason)
}

func TestFindBestMatchPicksHighestScore(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	target := report(models.KindLost, "Karachi", "Electronics", "Mobile Phone", "Clifton")

	weak := report(models.KindFound, "Karachi", "Electronics", "", "")
	weak.ID = "weak"
	strong := report(models.KindFound, "Karachi", "Electronics", "Mobile Phone", "Clifton")
	strong.ID = "strong"

	result := svc.FindBestMatch(target, []models.ItemReport{weak, strong})
	require.True(t, result.Matched())
	require.Equal(t, "strong", result.MatchedID)
	require.Equal(t, MaxMatchScore, result.Score)
	require.Equal(t, "same city, category, item name and area", result.Reason)
}

func TestFindBestMatchTieBreaksOnOldest(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	now := time.Now()
	target := report(models.KindLost, "Karachi", "Electronics", "", "")

	newer := report(models.KindFound, "Karachi", "Electronics", "", "")
	newer.ID = "newer"
	newer.CreatedAt = now

	older := report(models.KindFound, "Karachi", "Electronics", "", "")
	older.ID = "older"
	older.CreatedAt = now.Add(-time.Hour)

	result := svc.FindBestMatch(target, []models.ItemReport{newer, older})
	require.Equal(t, "older", result.MatchedID)
}

func TestFindBestMatchSkipsSameKindNonOpenAndSelf(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	target := report(models.KindLost, "Karachi", "Electronics", "", "")
	target.ID = "target"

	sameKind := report(models.KindLost, "Karachi", "Electronics", "", "")
	sameKind.ID = "same-kind"
	resolved := report(models.KindFound, "Karachi", "Electronics", "", "")
	resolved.ID = "resolved"
	resolved.Status = models.StatusResolved
	self := target

	result := svc.FindBestMatch(target, []models.ItemReport{sameKind, resolved, self})
	require.False(t, result.Matched())
}

func TestBestMatchForReport(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	lost := report(models.KindLost, "Karachi", "Electronics", "Mobile Phone", "")
	require.NoError(t, db.Create(&lost).Error)
	found := report(models.KindFound, "Karachi", "Electronics", "Mobile Phone", "")
	require.NoError(t, db.Create(&found).Error)

	result, err := svc.BestMatchForReport(context.Background(), lost.ID)
	require.NoError(t, err)
	require.True(t, result.Matched())
	require.Equal(t, found.ID, result.MatchedID)
	require.Equal(t, 3, result.Score)
}

func TestBestMatchForNonOpenReportIsNoMatch(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	lost := report(models.KindLost, "Karachi", "Electronics", "", "")
	lost.Status = models.StatusResolved
	require.NoError(t, db.Create(&lost).Error)
	found := report(models.KindFound, "Karachi", "Electronics", "", "")
	require.NoError(t, db.Create(&found).Error)

	result, err := svc.BestMatchForReport(context.Background(), lost.ID)
	require.NoError(t, err)
	require.False(t, result.Matched())
}

func TestQuickSuggestionFirstCityCategoryMatch(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	target := report(models.KindLost, "Karachi", "Electronics", "", "")

	miss := report(models.KindFound, "Lahore", "Electronics", "", "")
	miss.ID = "miss"
	hit := report(models.KindFound, "Karachi", "Electronics", "", "")
	hit.ID = "hit"
	later := report(models.KindFound, "Karachi", "Electronics", "Mobile Phone", "")
	later.ID = "later"

	suggestion := svc.QuickSuggestion(target, []models.ItemReport{miss, hit, later})
	require.NotNil(t, suggestion)
	require.Equal(t, "hit", suggestion.ID)
}

func TestListCasesSortedByScoreDescending(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewMatchService(db, 0)
	require.NoError(t, err)

	lostStrong := report(models.KindLost, "Karachi", "Electronics", "Mobile Phone", "Clifton")
	lostWeak := report(models.KindLost, "Karachi", "Documents", "", "")
	foundStrong := report(models.KindFound, "Karachi", "Electronics", "Mobile Phone", "Clifton")
	foundWeak := report(models.KindFound, "Karachi", "Documents", "", "")
	for _, r := range []*models.ItemReport{&lostStrong, &lostWeak, &foundStrong, &foundWeak} {
		require.NoError(t, db.Create(r).Error)
	}

	cases, err := svc.ListCases(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for i := 1; i < len(cases); i++ {
		require.GreaterOrEqual(t, cases[i-1].Score, cases[i].Score)
	}
	require.Equal(t, foundStrong.ID, cases[0].Found.ID)
	require.Equal(t, MaxMatchScore, cases[0].Score)
	for _, c := range cases {
		require.GreaterOrEqual(t, c.Score, DefaultMinMatchScore)
	}
}
