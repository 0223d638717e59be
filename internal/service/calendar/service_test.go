package calendar

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

type mockMaintenanceSource struct {
	mock.Mock
}

func (m *mockMaintenanceSource) ListMaintenances(ctx context.Context, from, to models.Date) ([]models.ScheduledMaintenance, error) {
	args := m.Called(ctx, from, to)
	records, _ := args.Get(0).([]models.ScheduledMaintenance)
	return records, args.Error(1)
}

func entry(id, employee, date, start, end string) models.ScheduledMaintenance {
	return models.ScheduledMaintenance{
		ID:            id,
		EmployeeID:    employee,
		EmployeeName:  "Tech " + employee,
		ScheduledDate: models.MustParseDate(date),
		StartTime:     models.MustParseClock(start),
		EndTime:       models.MustParseClock(end),
		Status:        models.StatusScheduled,
	}
}

func weekRecords() []models.ScheduledMaintenance {
	return []models.ScheduledMaintenance{
		entry("M1", "E1", "2024-03-05", "09:00", "09:30"),
		entry("M2", "E1", "2024-03-05", "09:15", "09:45"),
		entry("M3", "E2", "2024-03-05", "10:00", "11:00"),
		entry("M4", "E1", "2024-03-07", "14:00", "14:30"),
	}
}

func slotAt(t *testing.T, day models.EmployeeDay, clock string) models.SlotView {
	t.Helper()
	want := models.MustParseClock(clock)
	for _, slot := range day.Slots {
		if slot.Time == want {
			return slot
		}
	}
	t.Fatalf("slot %s not found", clock)
	return models.SlotView{}
}

func TestWeekBuildsSlotsAndConflicts(t *testing.T) {
	source := new(mockMaintenanceSource)
	monday := models.MustParseDate("2024-03-04")
	source.On("ListMaintenances", mock.Anything, monday, monday.AddDays(6)).Return(weekRecords(), nil)

	svc := NewService(source, nil, nil)
	week, err := svc.Week(context.Background(), models.MustParseDate("2024-03-06"), "")
	require.NoError(t, err)
	source.AssertExpectations(t)

	require.Len(t, week.Days, 7)
	assert.Equal(t, monday, week.Start)
	assert.Equal(t, models.MustParseDate("2024-03-10"), week.End)
	assert.Empty(t, week.Days[0].Employees)

	tuesday := week.Days[1]
	require.Len(t, tuesday.Employees, 2)
	e1 := tuesday.Employees[0]
	assert.Equal(t, "E1", e1.EmployeeID)
	assert.True(t, e1.Conflict)
	assert.Equal(t, []models.ConflictPair{{FirstID: "M1", SecondID: "M2"}}, e1.Conflicts)
	assert.Len(t, e1.Slots, 21)

	nine := slotAt(t, e1, "09:00")
	assert.Len(t, nine.Records, 2)
	assert.True(t, nine.Conflict)
	assert.InDelta(t, 100.0, nine.Workload, 1e-9)

	nineThirty := slotAt(t, e1, "09:30")
	assert.Empty(t, nineThirty.Records)
	assert.False(t, nineThirty.Conflict)
	assert.InDelta(t, 25.0, nineThirty.Workload, 1e-9)

	e2 := tuesday.Employees[1]
	assert.False(t, e2.Conflict)
	assert.InDelta(t, 100.0, slotAt(t, e2, "10:00").Workload, 1e-9)

	thursday := week.Days[3]
	require.Len(t, thursday.Employees, 1)
	assert.False(t, thursday.Employees[0].Conflict)
}

func TestWeekFiltersEmployee(t *testing.T) {
	source := new(mockMaintenanceSource)
	source.On("ListMaintenances", mock.Anything, mock.Anything, mock.Anything).Return(weekRecords(), nil)

	svc := NewService(source, nil, nil)
	week, err := svc.Week(context.Background(), models.MustParseDate("2024-03-10"), "E2")
	require.NoError(t, err)

	assert.Equal(t, models.MustParseDate("2024-03-04"), week.Start)
	require.Len(t, week.Days[1].Employees, 1)
	assert.Equal(t, "E2", week.Days[1].Employees[0].EmployeeID)
	assert.Empty(t, week.Days[3].Employees)
}

func TestDay(t *testing.T) {
	source := new(mockMaintenanceSource)
	date := models.MustParseDate("2024-03-07")
	source.On("ListMaintenances", mock.Anything, date, date).Return(weekRecords(), nil)

	svc := NewService(source, nil, nil)
	day, err := svc.Day(context.Background(), date, "")
	require.NoError(t, err)

	require.Len(t, day.Employees, 1)
	assert.Equal(t, "M4", slotAt(t, day.Employees[0], "14:00").Records[0].ID)
}

func TestWeekWrapsSourceErrors(t *testing.T) {
	boom := errors.New("timeout")
	source := new(mockMaintenanceSource)
	source.On("ListMaintenances", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	_, err := NewService(source, nil, nil).Week(context.Background(), models.MustParseDate("2024-03-06"), "")
	assert.ErrorIs(t, err, boom)
}

func TestTodayUsesServiceLocation(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	svc := NewService(nil, rome, nil)
	svc.now = func() time.Time { return time.Date(2024, time.March, 5, 23, 30, 0, 0, time.UTC) }
	assert.Equal(t, models.MustParseDate("2024-03-06"), svc.Today())
}

func TestTransitions(t *testing.T) {
	view, err := Transitions("programmato")
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, view.Status)
	assert.Equal(t, []models.MaintenanceStatus{models.StatusInProgress, models.StatusCancelled}, view.Allowed)
	assert.Equal(t, models.StatusInProgress, view.QuickAction)
	assert.False(t, view.Terminal)

	view, err = Transitions("completed")
	require.NoError(t, err)
	assert.Empty(t, view.Allowed)
	assert.NotNil(t, view.Allowed)
	assert.Empty(t, view.QuickAction)
	assert.True(t, view.Terminal)

	_, err = Transitions("paused")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
