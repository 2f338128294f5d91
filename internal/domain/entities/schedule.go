package entities

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a "HH:MM" string into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// String formats the time as 24-hour "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// MarshalJSON encodes the time as a "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

// UnmarshalJSON decodes a "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if _, err := fmt.Sscanf(string(data), "%q", &s); err != nil {
		return fmt.Errorf("invalid time of day %s", data)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WeeklyHours is an organization's recurring schedule entry for one weekday.
// DayOfWeek follows ISO-8601: Monday is 1, Sunday is 7. At most one entry
// exists per weekday; OpenTime and CloseTime are meaningless when IsOpen is
// false.
type WeeklyHours struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	DayOfWeek      int       `json:"day_of_week" db:"day_of_week"`
	IsOpen         bool      `json:"is_open" db:"is_open"`
	OpenTime       TimeOfDay `json:"open_time" db:"open_time"`
	CloseTime      TimeOfDay `json:"close_time" db:"close_time"`
}

// ExceptionalAvailability is a one-off schedule override for a single
// calendar date. When IsAvailable is true it adds an extra open window on a
// day that may otherwise be closed.
type ExceptionalAvailability struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Date           time.Time `json:"date" db:"date"`
	StartTime      TimeOfDay `json:"start_time" db:"start_time"`
	EndTime        TimeOfDay `json:"end_time" db:"end_time"`
	IsAvailable    bool      `json:"is_available" db:"is_available"`
}

// Unavailability is a blackout window. The date range is inclusive at day
// granularity. When StartTime/EndTime are nil the whole day(s) are blocked,
// otherwise only the sub-interval is.
type Unavailability struct {
	ID             string     `json:"id" db:"id"`
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	Kind           string     `json:"kind" db:"kind"`
	StartDate      time.Time  `json:"start_date" db:"start_date"`
	EndDate        time.Time  `json:"end_date" db:"end_date"`
	StartTime      *TimeOfDay `json:"start_time,omitempty" db:"start_time"`
	EndTime        *TimeOfDay `json:"end_time,omitempty" db:"end_time"`
}

// ConsultationTypeDetail is a service an organization offers. It only labels
// resolved slots; it does not affect slot timing.
type ConsultationTypeDetail struct {
	ID              string    `json:"id" db:"id"`
	OrganizationID  string    `json:"organization_id" db:"organization_id"`
	Name            string    `json:"name" db:"name"`
	Prices          []float64 `json:"prices" db:"-"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Color           string    `json:"color" db:"color"`
}

// OrganizationSchedule aggregates the schedule records of one organization.
// It is a read-only input to the availability resolver.
type OrganizationSchedule struct {
	OrganizationID    string                    `json:"organization_id"`
	WeeklyHours       []WeeklyHours             `json:"weekly_hours"`
	Exceptions        []ExceptionalAvailability `json:"exceptions"`
	Unavailabilities  []Unavailability          `json:"unavailabilities"`
	ConsultationTypes []ConsultationTypeDetail  `json:"consultation_types"`
}

// AvailabilitySlot is a single resolved next-available slot for a date.
type AvailabilitySlot struct {
	Date             time.Time `json:"date"`
	Label            string    `json:"label"`
	Time             string    `json:"time"`
	IsToday          bool      `json:"is_today"`
	ConsultationType string    `json:"consultation_type"`
}
