package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// OrganizationEventType represents the type of organization event
type OrganizationEventType string

const (
	OrganizationEventTypeCreated         OrganizationEventType = "created"
	OrganizationEventTypeUpdated         OrganizationEventType = "updated"
	OrganizationEventTypeDeleted         OrganizationEventType = "deleted"
	OrganizationEventTypeScheduleChanged OrganizationEventType = "schedule_changed"
)

// OrganizationEvent represents an update event for an organization, published
// on the event bus so cached reads can be invalidated.
type OrganizationEvent struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organization_id"`
	EventType      OrganizationEventType  `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	ChangedFields  map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewOrganizationEvent creates a new organization event
func NewOrganizationEvent(organizationID string, eventType OrganizationEventType, changedFields map[string]interface{}) *OrganizationEvent {
	return &OrganizationEvent{
		ID:             generateEventID(),
		OrganizationID: organizationID,
		EventType:      eventType,
		Timestamp:      time.Now(),
		ChangedFields:  changedFields,
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
