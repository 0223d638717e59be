package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/expiry"
)

type mockProductSource struct {
	mock.Mock
}

func (m *mockProductSource) ListProducts(ctx context.Context) ([]models.ExpiryRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]models.ExpiryRecord)
	return records, args.Error(1)
}

func ptr(v float64) *float64 { return &v }

func registry() []models.ExpiryRecord {
	return []models.ExpiryRecord{
		{ProductID: "P2", InstallationDate: models.MustParseDate("2020-01-15"), FilmClass: "class-IIs"},
		{ProductID: "P4", InstallationDate: models.MustParseDate("2015-08-15"), FilmClass: "class-2"},
		{ProductID: "P1", QRCode: "QR-1", InstallationDate: models.MustParseDate("2018-01-01"), FilmClass: "class-1", GPSLat: ptr(45.4641), GPSLng: ptr(9.1902)},
		{ProductID: "P3", InstallationDate: models.MustParseDate("2015-06-20"), FilmClass: "class-2", GPSLat: ptr(45.4612), GPSLng: ptr(9.1898)},
	}
}

func newTestService(t *testing.T, records []models.ExpiryRecord, err error) *Service {
	t.Helper()
	source := new(mockProductSource)
	source.On("ListProducts", mock.Anything).Return(records, err)

	svc := NewService(source, expiry.New(), nil)
	svc.now = func() time.Time { return time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func ids(infos []models.ExpiryInfo) []string {
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.ProductID)
	}
	return out
}

func TestReportRanksAndSummarizes(t *testing.T) {
	svc := newTestService(t, registry(), nil)

	report, err := svc.Report(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"P1", "P3", "P4", "P2"}, ids(report.Items))
	assert.Equal(t, 4, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.ExpiredCount)
	assert.Equal(t, 1, report.Summary.CriticalCount)
	assert.Equal(t, 1, report.Summary.WarningCount)
	assert.Equal(t, 1, report.Summary.OKCount)
	assert.Equal(t, "25.0", report.Summary.PercentExpired)
	assert.Equal(t, "50.0", report.Summary.PercentCriticalOrExpired)
}

func TestReportFilterKeepsFullSummary(t *testing.T) {
	svc := newTestService(t, registry(), nil)

	report, err := svc.Report(context.Background(), models.AlertWarning)
	require.NoError(t, err)

	assert.Equal(t, []string{"P4"}, ids(report.Items))
	assert.Equal(t, 75, report.Items[0].DaysRemaining)
	assert.Equal(t, 4, report.Summary.Total)
}

func TestReportWrapsSourceErrors(t *testing.T) {
	boom := errors.New("registry offline")
	svc := newTestService(t, nil, boom)

	_, err := svc.Report(context.Background(), "")
	require.ErrorIs(t, err, boom)

	_, err = svc.Digest(context.Background(), "")
	require.ErrorIs(t, err, boom)
}

func TestAreaPlanSkipsHealthyProducts(t *testing.T) {
	svc := newTestService(t, registry(), nil)

	groups, err := svc.AreaPlan(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"P1", "P3"}, ids(groups[0].Members))
	assert.InDelta(t, 3.5, groups[0].MeanPriority, 1e-9)
	assert.Equal(t, "unlocated", groups[1].AreaKey)
	assert.Equal(t, []string{"P4"}, ids(groups[1].Members))
}

func TestDigestPicksTemplatePerStatus(t *testing.T) {
	svc := newTestService(t, registry(), nil)

	digest, err := svc.Digest(context.Background(), "")
	require.NoError(t, err)

	_, err = uuid.Parse(digest.ID)
	require.NoError(t, err)
	require.Len(t, digest.Messages, 3)

	assert.Equal(t, "P1", digest.Messages[0].ProductID)
	assert.Contains(t, digest.Messages[0].Text, "CRITICO")
	assert.Contains(t, digest.Messages[0].Text, "P1 [QR-1]")
	assert.Contains(t, digest.Messages[1].Text, "Attenzione")
	assert.Contains(t, digest.Messages[2].Text, "Promemoria")
	assert.Equal(t, 4, digest.Summary.Total)
}

func TestDigestWithFixedKind(t *testing.T) {
	svc := newTestService(t, registry(), nil)

	digest, err := svc.Digest(context.Background(), models.NotificationReminder)
	require.NoError(t, err)
	for _, msg := range digest.Messages {
		assert.Contains(t, msg.Text, "Promemoria")
	}
}

func TestDigestOnEmptyRegistry(t *testing.T) {
	svc := newTestService(t, []models.ExpiryRecord{}, nil)

	digest, err := svc.Digest(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, digest.Messages)
	assert.Empty(t, digest.Messages)
	assert.Equal(t, "0.0", digest.Summary.PercentExpired)
}

func TestCompute(t *testing.T) {
	svc := newTestService(t, nil, nil)

	infos := svc.Compute([]models.ExpiryRecord{{ProductID: "X", InstallationDate: models.MustParseDate("2018-01-01"), FilmClass: "class-1"}})
	require.Len(t, infos, 1)
	assert.Equal(t, -151, infos[0].DaysRemaining)
	assert.Equal(t, models.AlertExpired, infos[0].AlertStatus)
}
