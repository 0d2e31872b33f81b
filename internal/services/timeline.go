package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
)

type IconKind string

const (
	IconLease       IconKind = "lease"
	IconPayment     IconKind = "payment"
	IconInspection  IconKind = "inspection"
	IconMaintenance IconKind = "maintenance"
	IconChecklist   IconKind = "checklist"
	IconGeneric     IconKind = "generic"
)

type EventClass struct {
	Icon               IconKind
	SupportsCompletion bool
}

// Classify derives the display category for an event type. Unknown strings
// fall back to the custom classification. Agreement entries are the only kind
// without a completion toggle; their progress lives in their check items.
func Classify(eventType models.EventType) EventClass {
	switch eventType {
	case models.EventTypeLeaseStart, models.EventTypeLeaseEnd:
		return EventClass{Icon: IconLease, SupportsCompletion: true}
	case models.EventTypeRentDue:
		return EventClass{Icon: IconPayment, SupportsCompletion: true}
	case models.EventTypeInspection:
		return EventClass{Icon: IconInspection, SupportsCompletion: true}
	case models.EventTypeMaintenance:
		return EventClass{Icon: IconMaintenance, SupportsCompletion: true}
	case models.EventTypeAgreement:
		return EventClass{Icon: IconChecklist, SupportsCompletion: false}
	default:
		return EventClass{Icon: IconGeneric, SupportsCompletion: true}
	}
}

// truncateToDay zeroes the time-of-day so comparisons work on calendar days
// rather than elapsed hours.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the calendar-day difference from today to the given date;
// negative for past dates.
func DaysUntil(date time.Time, today time.Time) int {
	from := truncateToDay(today)
	to := truncateToDay(date)
	return int(to.Sub(from).Hours() / 24)
}

// RelativeLabel renders the reminder label for an event's start date.
func RelativeLabel(event models.TimelineEvent, today time.Time) string {
	days := DaysUntil(event.StartDate, today)
	switch {
	case days < 0:
		return "Overdue"
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// Upcoming selects the events relevant to a notification surface: events
// starting within [today, today+horizonDays] (date-only comparison) plus
// overdue incomplete events, ascending by start date.
func Upcoming(events []models.TimelineEvent, today time.Time, horizonDays int) []models.TimelineEvent {
	var selected []models.TimelineEvent
	for _, event := range events {
		days := DaysUntil(event.StartDate, today)
		switch {
		case days >= 0 && days <= horizonDays:
			selected = append(selected, event)
		case days < 0 && !event.IsCompleted:
			selected = append(selected, event)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].StartDate.Before(selected[j].StartDate)
	})
	return selected
}

type DayGroup struct {
	Date   time.Time
	Events []models.TimelineEvent
}

// GroupByDay sections an already-ordered event sequence by calendar date,
// preserving the chronological order of groups.
func GroupByDay(events []models.TimelineEvent) []DayGroup {
	var groups []DayGroup
	for _, event := range events {
		day := truncateToDay(event.StartDate)
		if len(groups) > 0 && groups[len(groups)-1].Date.Equal(day) {
			groups[len(groups)-1].Events = append(groups[len(groups)-1].Events, event)
			continue
		}
		groups = append(groups, DayGroup{Date: day, Events: []models.TimelineEvent{event}})
	}
	return groups
}

// EffectiveEnd returns the event's end, defaulting to one hour after the
// start when consumers such as the calendar feed need a bounded interval.
func EffectiveEnd(event models.TimelineEvent) time.Time {
	if event.EndDate != nil {
		return *event.EndDate
	}
	return event.StartDate.Add(time.Hour)
}
