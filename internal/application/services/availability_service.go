package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/providers"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
)

const (
	// lookaheadDays is the fixed scan horizon
	lookaheadDays = 60

	// maxSlots caps the number of resolved days per organization
	maxSlots = 6

	// fallbackConsultationType labels slots when an organization has no
	// consultation types configured
	fallbackConsultationType = "Consultation"

	availabilityCacheTTL = 120 // seconds
)

// AvailabilityService resolves the next available booking slots of an
// organization from its stored schedule. The clock is injected so results
// are reproducible under test.
type AvailabilityService struct {
	orgRepo repositories.OrganizationRepository
	cache   providers.CacheProvider
	now     func() time.Time
}

// NewAvailabilityService creates a new availability service using the real
// clock
func NewAvailabilityService(orgRepo repositories.OrganizationRepository, cache providers.CacheProvider) *AvailabilityService {
	return &AvailabilityService{
		orgRepo: orgRepo,
		cache:   cache,
		now:     time.Now,
	}
}

// NewAvailabilityServiceWithClock creates an availability service with a
// fixed clock, for tests
func NewAvailabilityServiceWithClock(orgRepo repositories.OrganizationRepository, cache providers.CacheProvider, now func() time.Time) *AvailabilityService {
	return &AvailabilityService{
		orgRepo: orgRepo,
		cache:   cache,
		now:     now,
	}
}

// GetAvailability loads an organization's schedule and resolves its next
// available slots. Resolved lists are cached per half-hour bucket because the
// result depends on the current wall-clock time.
func (s *AvailabilityService) GetAvailability(ctx context.Context, organizationID string) ([]entities.AvailabilitySlot, error) {
	logger := observability.LoggerFromContext(ctx)
	cacheKey := s.cacheKey(organizationID)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var slots []entities.AvailabilitySlot
			if err := json.Unmarshal(data, &slots); err == nil {
				return slots, nil
			}
		}
	}

	schedule, err := s.orgRepo.GetSchedule(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	slots := s.Resolve(schedule)

	if s.cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, availabilityCacheTTL); err != nil {
				logger.Warn().Err(err).Str("organization_id", organizationID).Msg("Failed to cache availability")
			}
		}
	}

	return slots, nil
}

// cacheKey buckets the key by half hour so cached results never outlive the
// clock granularity the resolver rounds to.
func (s *AvailabilityService) cacheKey(organizationID string) string {
	now := s.now()
	bucket := now.Hour()*2 + now.Minute()/30
	return fmt.Sprintf("availability:%s:%s:%d", organizationID, now.Format("2006-01-02"), bucket)
}

// Resolve scans up to 60 calendar days from today and returns the first
// available slot of each qualifying day, capped at 6 entries in ascending
// date order. It is a pure function of the schedule and the injected clock.
func (s *AvailabilityService) Resolve(schedule *entities.OrganizationSchedule) []entities.AvailabilitySlot {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	slots := []entities.AvailabilitySlot{}
	for i := 0; i < lookaheadDays && len(slots) < maxSlots; i++ {
		day := today.AddDate(0, 0, i)
		slot, ok := s.resolveDay(schedule, day, now, i == 0)
		if ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

// resolveDay computes the first available time on one calendar day, or
// reports the day unavailable.
func (s *AvailabilityService) resolveDay(schedule *entities.OrganizationSchedule, day, now time.Time, isToday bool) (entities.AvailabilitySlot, bool) {
	available := false
	hasEarliest := false
	var earliest entities.TimeOfDay
	var closeTime entities.TimeOfDay
	hasClose := false

	weekday := isoWeekday(day)
	for _, wh := range schedule.WeeklyHours {
		if wh.DayOfWeek != weekday {
			continue
		}
		if wh.IsOpen {
			available = true
			earliest = wh.OpenTime
			hasEarliest = true
			closeTime = wh.CloseTime
			hasClose = true
		}
		break
	}

	// Every matching exception is considered and the earliest start wins.
	// When the weekly schedule has no close for this day, the winning
	// exception's end time supplies it.
	weeklyClose := hasClose
	for _, ex := range schedule.Exceptions {
		if !ex.IsAvailable || !sameDate(ex.Date, day) {
			continue
		}
		available = true
		if !hasEarliest || ex.StartTime < earliest {
			earliest = ex.StartTime
			hasEarliest = true
			if !weeklyClose {
				closeTime = ex.EndTime
				hasClose = true
			}
		}
	}

	if !available || !hasEarliest {
		return entities.AvailabilitySlot{}, false
	}

	// Only the first matching blackout is consulted; overlapping windows on
	// the same day are not merged.
	for _, un := range schedule.Unavailabilities {
		if !coversDay(un, day) {
			continue
		}
		if un.StartTime == nil || un.EndTime == nil {
			return entities.AvailabilitySlot{}, false
		}
		if earliest >= *un.StartTime && earliest < *un.EndTime {
			earliest = *un.EndTime
		}
		break
	}

	if isToday {
		nowTime := entities.TimeOfDay(now.Hour()*60 + now.Minute())
		if earliest <= nowTime {
			rounded := roundUpHalfHour(nowTime)
			if !hasClose || rounded >= closeTime {
				return entities.AvailabilitySlot{}, false
			}
			earliest = rounded
		}
	}

	earliest = roundDownHalfHour(earliest)

	return entities.AvailabilitySlot{
		Date:             day,
		Label:            dayLabel(day),
		Time:             earliest.String(),
		IsToday:          isToday,
		ConsultationType: consultationLabel(schedule.ConsultationTypes),
	}, true
}

// isoWeekday maps Go's weekday (Sunday=0) to ISO-8601 (Monday=1, Sunday=7)
func isoWeekday(day time.Time) int {
	wd := int(day.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// coversDay reports whether the blackout's inclusive date range contains the
// day, compared at day granularity.
func coversDay(un entities.Unavailability, day time.Time) bool {
	start := time.Date(un.StartDate.Year(), un.StartDate.Month(), un.StartDate.Day(), 0, 0, 0, 0, day.Location())
	end := time.Date(un.EndDate.Year(), un.EndDate.Month(), un.EndDate.Day(), 0, 0, 0, 0, day.Location())
	return !day.Before(start) && !day.After(end)
}

func roundUpHalfHour(t entities.TimeOfDay) entities.TimeOfDay {
	if t%30 == 0 {
		return t
	}
	return (t/30 + 1) * 30
}

func roundDownHalfHour(t entities.TimeOfDay) entities.TimeOfDay {
	return (t / 30) * 30
}

// dayLabel formats a date as abbreviated weekday plus day of month,
// e.g. "Mon 14"
func dayLabel(day time.Time) string {
	return fmt.Sprintf("%s %d", day.Format("Mon"), day.Day())
}

func consultationLabel(types []entities.ConsultationTypeDetail) string {
	if len(types) == 0 {
		return fallbackConsultationType
	}
	return types[0].Name
}
