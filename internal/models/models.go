package models

import "time"

type EventType string

const (
	EventTypeLeaseStart  EventType = "lease_start"
	EventTypeLeaseEnd    EventType = "lease_end"
	EventTypeRentDue     EventType = "rent_due"
	EventTypeInspection  EventType = "inspection"
	EventTypeMaintenance EventType = "maintenance"
	EventTypeCustom      EventType = "custom"
	EventTypeAgreement   EventType = "agreement"
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

type User struct {
	ID          string    `json:"id"`
	OIDCSubject string    `json:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Property struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TimelineEvent is a dated entry on a property's timeline: lease milestones,
// rent due dates, inspections, maintenance and free-form custom entries.
type TimelineEvent struct {
	ID                    string            `json:"id"`
	PropertyID            string            `json:"property_id"`
	UserID                string            `json:"user_id"`
	Title                 string            `json:"title"`
	Description           string            `json:"description,omitempty"`
	EventType             EventType         `json:"event_type"`
	StartDate             time.Time         `json:"start_date"`
	EndDate               *time.Time        `json:"end_date,omitempty"`
	IsAllDay              bool              `json:"is_all_day"`
	RecurrenceType        RecurrenceType    `json:"recurrence_type"`
	RecurrenceEndDate     *time.Time        `json:"recurrence_end_date,omitempty"`
	NotificationDaysBefore *int             `json:"notification_days_before,omitempty"`
	IsCompleted           bool              `json:"is_completed"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// CheckItem is one assignable, completable line within an agreement.
// CompletedBy/CompletedAt are set iff Checked is true.
type CheckItem struct {
	Text                   string     `json:"text"`
	Checked                bool       `json:"checked"`
	AssignedTo             *string    `json:"assigned_to,omitempty"`
	NotificationDaysBefore *int       `json:"notification_days_before,omitempty"`
	CompletedBy            *string    `json:"completed_by,omitempty"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
}

type Agreement struct {
	ID         string      `json:"id"`
	PropertyID string      `json:"property_id"`
	Title      string      `json:"title"`
	CreatedBy  string      `json:"created_by"`
	DueDate    *time.Time  `json:"due_date,omitempty"`
	CheckItems []CheckItem `json:"check_items"`
	CreatedAt  time.Time   `json:"created_at"`
}

type APIToken struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	TokenHash       string     `json:"-"`
	CreatedByUserID string     `json:"created_by_user_id"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Usage resources counted against plan limits.
const (
	ResourceProperties = "properties"
	ResourceEvents     = "events"
)

type UsageCounter struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Used     int    `json:"used"`
}

func ValidRecurrenceType(value RecurrenceType) bool {
	switch value {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}
