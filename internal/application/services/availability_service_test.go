package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
)

// Mocks

type MockOrgRepo struct {
	mock.Mock
}

func (m *MockOrgRepo) Create(ctx context.Context, organization *entities.Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}
func (m *MockOrgRepo) GetByID(ctx context.Context, id string) (*entities.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}
func (m *MockOrgRepo) GetBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Organization), args.Error(1)
}
func (m *MockOrgRepo) Update(ctx context.Context, organization *entities.Organization) error {
	args := m.Called(ctx, organization)
	return args.Error(0)
}
func (m *MockOrgRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOrgRepo) List(ctx context.Context, filter repositories.OrganizationFilter) ([]*entities.Organization, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Organization), args.Error(1)
}
func (m *MockOrgRepo) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Organization, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Organization), args.Error(1)
}
func (m *MockOrgRepo) GetSchedule(ctx context.Context, organizationID string) (*entities.OrganizationSchedule, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OrganizationSchedule), args.Error(1)
}

// fixedNow is Wednesday 2025-06-11 10:00 local time
func fixedNow() time.Time {
	return time.Date(2025, 6, 11, 10, 0, 0, 0, time.Local)
}

func newResolver(now func() time.Time) *AvailabilityService {
	return NewAvailabilityServiceWithClock(nil, nil, now)
}

func mustTime(t *testing.T, s string) entities.TimeOfDay {
	t.Helper()
	parsed, err := entities.ParseTimeOfDay(s)
	require.NoError(t, err)
	return parsed
}

func openDay(t *testing.T, dayOfWeek int, open, close string) entities.WeeklyHours {
	t.Helper()
	return entities.WeeklyHours{
		DayOfWeek: dayOfWeek,
		IsOpen:    true,
		OpenTime:  mustTime(t, open),
		CloseTime: mustTime(t, close),
	}
}

func TestResolveEmptyScheduleYieldsNoSlots(t *testing.T) {
	svc := newResolver(fixedNow)

	slots := svc.Resolve(&entities.OrganizationSchedule{})

	assert.Empty(t, slots)
}

func TestResolveOpenWeekdayReturnsOpeningTime(t *testing.T) {
	svc := newResolver(fixedNow)
	schedule := &entities.OrganizationSchedule{
		// Thursday only; today (Wednesday) stays closed
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, time.Thursday, slots[0].Date.Weekday())
	assert.False(t, slots[0].IsToday)
	assert.Equal(t, "Thu 12", slots[0].Label)
}

func TestResolveSundayUsesIsoWeekday(t *testing.T) {
	svc := newResolver(fixedNow)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 7, "10:00", "16:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	for _, slot := range slots {
		assert.Equal(t, time.Sunday, slot.Date.Weekday())
	}
	assert.Equal(t, "10:00", slots[0].Time)
}

func TestResolveClosedWeekdayEntryIsSkipped(t *testing.T) {
	svc := newResolver(fixedNow)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{
			{DayOfWeek: 4, IsOpen: false},
		},
	}

	slots := svc.Resolve(schedule)

	assert.Empty(t, slots)
}

func TestResolveCapsAtSixSlots(t *testing.T) {
	svc := newResolver(fixedNow)
	weekly := make([]entities.WeeklyHours, 0, 7)
	for day := 1; day <= 7; day++ {
		weekly = append(weekly, openDay(t, day, "08:00", "20:00"))
	}
	schedule := &entities.OrganizationSchedule{WeeklyHours: weekly}

	slots := svc.Resolve(schedule)

	assert.Len(t, slots, 6)
}

func TestResolveChronologicalOrder(t *testing.T) {
	svc := newResolver(fixedNow)
	weekly := make([]entities.WeeklyHours, 0, 7)
	for day := 1; day <= 7; day++ {
		weekly = append(weekly, openDay(t, day, "08:00", "20:00"))
	}
	schedule := &entities.OrganizationSchedule{WeeklyHours: weekly}

	slots := svc.Resolve(schedule)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Date.After(slots[i-1].Date))
	}
}

func TestResolveFullDayBlackoutSuppressesDay(t *testing.T) {
	svc := newResolver(fixedNow)
	thursday := time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		Unavailabilities: []entities.Unavailability{
			{Kind: "holiday", StartDate: thursday, EndDate: thursday},
		},
	}

	slots := svc.Resolve(schedule)

	for _, slot := range slots {
		assert.NotEqual(t, thursday.Day(), slot.Date.Day())
	}
	// The following Thursday is unaffected
	require.NotEmpty(t, slots)
	assert.Equal(t, 19, slots[0].Date.Day())
}

func TestResolvePartialBlackoutShiftsSlotTime(t *testing.T) {
	svc := newResolver(fixedNow)
	thursday := time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local)
	start := mustTime(t, "09:00")
	end := mustTime(t, "11:00")
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		Unavailabilities: []entities.Unavailability{
			{Kind: "maintenance", StartDate: thursday, EndDate: thursday, StartTime: &start, EndTime: &end},
		},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, 12, slots[0].Date.Day())
	assert.Equal(t, "11:00", slots[0].Time)
}

func TestResolvePartialBlackoutOutsideOpeningLeavesTime(t *testing.T) {
	svc := newResolver(fixedNow)
	thursday := time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local)
	start := mustTime(t, "12:00")
	end := mustTime(t, "14:00")
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		Unavailabilities: []entities.Unavailability{
			{Kind: "maintenance", StartDate: thursday, EndDate: thursday, StartTime: &start, EndTime: &end},
		},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0].Time)
}

func TestResolveMultiDayBlackoutCoversRange(t *testing.T) {
	svc := newResolver(fixedNow)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		Unavailabilities: []entities.Unavailability{
			{
				Kind:      "vacation",
				StartDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.Local),
				EndDate:   time.Date(2025, 6, 20, 0, 0, 0, 0, time.Local),
			},
		},
	}

	slots := svc.Resolve(schedule)

	// Both Thursdays inside the range are blocked; the first slot is 26 June
	require.NotEmpty(t, slots)
	assert.Equal(t, 26, slots[0].Date.Day())
}

func TestResolveOnlyFirstBlackoutIsConsulted(t *testing.T) {
	svc := newResolver(fixedNow)
	thursday := time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local)
	firstStart, firstEnd := mustTime(t, "09:00"), mustTime(t, "10:00")
	secondStart, secondEnd := mustTime(t, "10:00"), mustTime(t, "12:00")
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		Unavailabilities: []entities.Unavailability{
			{StartDate: thursday, EndDate: thursday, StartTime: &firstStart, EndTime: &firstEnd},
			{StartDate: thursday, EndDate: thursday, StartTime: &secondStart, EndTime: &secondEnd},
		},
	}

	slots := svc.Resolve(schedule)

	// Overlapping windows are not merged; the second entry is ignored
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:00", slots[0].Time)
}

func TestResolveExceptionOpensClosedDay(t *testing.T) {
	svc := newResolver(fixedNow)
	saturday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		Exceptions: []entities.ExceptionalAvailability{
			{Date: saturday, StartTime: mustTime(t, "14:00"), EndTime: mustTime(t, "17:00"), IsAvailable: true},
		},
	}

	slots := svc.Resolve(schedule)

	require.Len(t, slots, 1)
	assert.Equal(t, 14, slots[0].Date.Day())
	assert.Equal(t, "14:00", slots[0].Time)
}

func TestResolveMultipleExceptionsEarliestStartWins(t *testing.T) {
	svc := newResolver(fixedNow)
	saturday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		// Listed late-first; ordering must not matter
		Exceptions: []entities.ExceptionalAvailability{
			{Date: saturday, StartTime: mustTime(t, "14:00"), EndTime: mustTime(t, "17:00"), IsAvailable: true},
			{Date: saturday, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "12:00"), IsAvailable: true},
		},
	}

	slots := svc.Resolve(schedule)

	require.Len(t, slots, 1)
	assert.Equal(t, 14, slots[0].Date.Day())
	assert.Equal(t, "09:00", slots[0].Time)
}

func TestResolveTodayMultipleExceptionsCloseFollowsEarliest(t *testing.T) {
	// No weekly hours today; exceptions 09:00-12:00 and 14:00-17:00. The
	// earliest window supplies the close, so at 12:10 today is excluded.
	svc := newResolver(func() time.Time {
		return time.Date(2025, 6, 11, 12, 10, 0, 0, time.Local)
	})
	today := time.Date(2025, 6, 11, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		Exceptions: []entities.ExceptionalAvailability{
			{Date: today, StartTime: mustTime(t, "14:00"), EndTime: mustTime(t, "17:00"), IsAvailable: true},
			{Date: today, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "12:00"), IsAvailable: true},
		},
	}

	slots := svc.Resolve(schedule)

	assert.Empty(t, slots)
}

func TestResolveExceptionEarlierStartWins(t *testing.T) {
	svc := newResolver(fixedNow)
	thursday := time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		Exceptions: []entities.ExceptionalAvailability{
			{Date: thursday, StartTime: mustTime(t, "07:30"), EndTime: mustTime(t, "09:00"), IsAvailable: true},
		},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, "07:30", slots[0].Time)
}

func TestResolveExceptionLaterStartDoesNotWin(t *testing.T) {
	svc := newResolver(fixedNow)
	thursday := time.Date(2025, 6, 12, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		Exceptions: []entities.ExceptionalAvailability{
			{Date: thursday, StartTime: mustTime(t, "12:00"), EndTime: mustTime(t, "15:00"), IsAvailable: true},
		},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0].Time)
}

func TestResolveUnavailableExceptionIsIgnored(t *testing.T) {
	svc := newResolver(fixedNow)
	saturday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		Exceptions: []entities.ExceptionalAvailability{
			{Date: saturday, StartTime: mustTime(t, "14:00"), EndTime: mustTime(t, "17:00"), IsAvailable: false},
		},
	}

	slots := svc.Resolve(schedule)

	assert.Empty(t, slots)
}

func TestResolveTodayBeforeOpeningKeepsOpeningTime(t *testing.T) {
	// 08:00, before the 09:00 opening on Wednesday
	svc := newResolver(func() time.Time {
		return time.Date(2025, 6, 11, 8, 0, 0, 0, time.Local)
	})
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 3, "09:00", "18:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.True(t, slots[0].IsToday)
	assert.Equal(t, "09:00", slots[0].Time)
}

func TestResolveTodayAfterOpeningRoundsUpToHalfHour(t *testing.T) {
	// 10:12 rounds up to 10:30
	svc := newResolver(func() time.Time {
		return time.Date(2025, 6, 11, 10, 12, 0, 0, time.Local)
	})
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 3, "09:00", "18:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.True(t, slots[0].IsToday)
	assert.Equal(t, "10:30", slots[0].Time)
}

func TestResolveTodayPastClosingExcludesToday(t *testing.T) {
	// 17:45 rounds up to 18:00, which is not strictly before the 18:00 close
	svc := newResolver(func() time.Time {
		return time.Date(2025, 6, 11, 17, 45, 0, 0, time.Local)
	})
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 3, "09:00", "18:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.False(t, slots[0].IsToday)
	assert.Equal(t, 18, slots[0].Date.Day())
}

func TestResolveTodayExactHalfHourBoundaryIsNotRoundedFurther(t *testing.T) {
	svc := newResolver(func() time.Time {
		return time.Date(2025, 6, 11, 14, 30, 0, 0, time.Local)
	})
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 3, "09:00", "18:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.True(t, slots[0].IsToday)
	assert.Equal(t, "14:30", slots[0].Time)
}

func TestResolveDisplayTimeRoundsDownToHalfHour(t *testing.T) {
	svc := newResolver(fixedNow)
	schedule := &entities.OrganizationSchedule{
		// Opening at 09:45 is displayed as 09:30
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:45", "18:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:30", slots[0].Time)
}

func TestResolveConsultationTypeLabel(t *testing.T) {
	svc := newResolver(fixedNow)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
		ConsultationTypes: []entities.ConsultationTypeDetail{
			{Name: "General checkup"},
			{Name: "Vaccination"},
		},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, "General checkup", slots[0].ConsultationType)
}

func TestResolveConsultationTypeFallback(t *testing.T) {
	svc := newResolver(fixedNow)
	schedule := &entities.OrganizationSchedule{
		WeeklyHours: []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
	}

	slots := svc.Resolve(schedule)

	require.NotEmpty(t, slots)
	assert.Equal(t, "Consultation", slots[0].ConsultationType)
}

func TestResolveTodayExceptionOnlyUsesExceptionEndAsClose(t *testing.T) {
	// Wednesday has no weekly hours; an exception opens 09:00-12:00.
	// At 12:10 the rounded-up time (12:30) is past the exception end, so
	// today is excluded.
	svc := newResolver(func() time.Time {
		return time.Date(2025, 6, 11, 12, 10, 0, 0, time.Local)
	})
	today := time.Date(2025, 6, 11, 0, 0, 0, 0, time.Local)
	schedule := &entities.OrganizationSchedule{
		Exceptions: []entities.ExceptionalAvailability{
			{Date: today, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "12:00"), IsAvailable: true},
		},
	}

	slots := svc.Resolve(schedule)

	assert.Empty(t, slots)
}

func TestGetAvailabilityLoadsScheduleFromRepository(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	svc := NewAvailabilityServiceWithClock(orgRepo, nil, fixedNow)

	schedule := &entities.OrganizationSchedule{
		OrganizationID: "org-1",
		WeeklyHours:    []entities.WeeklyHours{openDay(t, 4, "09:00", "18:00")},
	}
	orgRepo.On("GetSchedule", mock.Anything, "org-1").Return(schedule, nil)

	slots, err := svc.GetAvailability(context.Background(), "org-1")

	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0].Time)
	orgRepo.AssertExpectations(t)
}

func TestIsoWeekdayRemapsSunday(t *testing.T) {
	sunday := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local)

	assert.Equal(t, 7, isoWeekday(sunday))
	assert.Equal(t, 1, isoWeekday(monday))
}

func TestHalfHourRounding(t *testing.T) {
	assert.Equal(t, mustTime(t, "10:30"), roundUpHalfHour(mustTime(t, "10:01")))
	assert.Equal(t, mustTime(t, "11:00"), roundUpHalfHour(mustTime(t, "10:31")))
	assert.Equal(t, mustTime(t, "10:00"), roundUpHalfHour(mustTime(t, "10:00")))
	assert.Equal(t, mustTime(t, "10:00"), roundDownHalfHour(mustTime(t, "10:29")))
	assert.Equal(t, mustTime(t, "10:30"), roundDownHalfHour(mustTime(t, "10:59")))
}
