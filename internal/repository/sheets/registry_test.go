package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/signcare/internal/config"
	"github.com/mamadbah2/signcare/internal/domain/models"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	args := m.Called(ctx, sheetRange)
	rows, _ := args.Get(0).([][]interface{})
	return rows, args.Error(1)
}

var testSheetsConfig = config.SheetsConfig{ProductsRange: "Prodotti!A2:F", MaintenanceRange: "Interventi!A2:P"}

func TestRegistryListProducts(t *testing.T) {
	reader := new(mockReader)
	reader.On("ReadRange", mock.Anything, "Prodotti!A2:F").Return([][]interface{}{
		{"P1", "QR-1", "15/01/2020", "class-IIs", "45,4642", "9,19"},
		{"P2", "QR-2", "2018-01-01", "class-1"},
		{},
		{"P3", "QR-3", "31/02/2020", "class-2"},
	}, nil)

	registry := NewRegistry(reader, testSheetsConfig, nil)
	records, err := registry.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.NewDate(2020, time.January, 15), records[0].InstallationDate)
	require.NotNil(t, records[0].GPSLat)
	assert.InDelta(t, 45.4642, *records[0].GPSLat, 1e-9)
	assert.Nil(t, records[1].GPSLat)
	assert.Equal(t, models.FilmClass("class-1"), records[1].FilmClass)
	reader.AssertExpectations(t)
}

func TestRegistryListMaintenancesFiltersRange(t *testing.T) {
	reader := new(mockReader)
	reader.On("ReadRange", mock.Anything, "Interventi!A2:P").Return([][]interface{}{
		{"M1", "E1", "Giulia", "P1", "Cartello A", "Via Roma", "verifica", "05/03/2024", "9:00", "09:30", "30", "programmato", "alta", ""},
		{"M2", "E1", "Giulia", "P2", "Cartello B", "Via Po", "sostituzione", "12/03/2024", "10:00", "11:00", "60", "completato", "bassa"},
		{"M3", "E2", "Marco", "P3", "Cartello C", "Via Dante", "manutenzione", "06/03/2024", "10:00", "bad", "60"},
		{"M4", "E2", "Marco", "P3", "Cartello C", "Via Dante", "manutenzione", "07/03/2024", "10:00", "10:00", "0"},
	}, nil)

	from := models.NewDate(2024, time.March, 4)
	registry := NewRegistry(reader, testSheetsConfig, nil)
	records, err := registry.ListMaintenances(context.Background(), from, from.AddDays(6))
	require.NoError(t, err)
	require.Len(t, records, 1)

	m := records[0]
	assert.Equal(t, "M1", m.ID)
	assert.Equal(t, models.MaintenanceVerification, m.MaintenanceType)
	assert.Equal(t, models.StatusScheduled, m.Status)
	assert.Equal(t, models.MaintenancePriorityHigh, m.Priority)
	assert.Equal(t, models.NewClock(9, 0), m.StartTime)
	assert.Equal(t, 30, m.Duration)
}

func TestRegistryPropagatesReadErrors(t *testing.T) {
	reader := new(mockReader)
	reader.On("ReadRange", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	registry := NewRegistry(reader, testSheetsConfig, nil)
	_, err := registry.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestMaintenanceFromRowRejectsBadDuration(t *testing.T) {
	_, err := maintenanceFromRow([]interface{}{"M1", "", "", "", "", "", "verifica", "2024-03-05", "09:00", "09:30", "half hour"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration")
}
