package services

import (
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
)

// Guard against runaway expansion when a caller asks for a huge range of a
// daily event.
const maxOccurrences = 1000

// NextOccurrence steps one recurrence interval from the given occurrence.
// Returns the zero time for non-recurring events.
func NextOccurrence(recurrence models.RecurrenceType, from time.Time) time.Time {
	switch recurrence {
	case models.RecurrenceDaily:
		return from.AddDate(0, 0, 1)
	case models.RecurrenceWeekly:
		return from.AddDate(0, 0, 7)
	case models.RecurrenceMonthly:
		return from.AddDate(0, 1, 0)
	case models.RecurrenceYearly:
		return from.AddDate(1, 0, 0)
	default:
		return time.Time{}
	}
}

// ExpandOccurrences materializes the concrete occurrences of an event inside
// [rangeStart, rangeEnd). Non-recurring events yield themselves when they fall
// in range. Recurrence stops at recurrence_end_date when set. The returned
// copies keep the source event's ID; only StartDate and EndDate shift.
func ExpandOccurrences(event models.TimelineEvent, rangeStart, rangeEnd time.Time) []models.TimelineEvent {
	if event.RecurrenceType == models.RecurrenceNone || event.RecurrenceType == "" {
		if !event.StartDate.Before(rangeStart) && event.StartDate.Before(rangeEnd) {
			return []models.TimelineEvent{event}
		}
		return nil
	}

	var duration *time.Duration
	if event.EndDate != nil {
		d := event.EndDate.Sub(event.StartDate)
		duration = &d
	}

	var occurrences []models.TimelineEvent
	current := seekToRange(event.RecurrenceType, event.StartDate, rangeStart)
	for len(occurrences) < maxOccurrences {
		if !current.Before(rangeEnd) {
			break
		}
		if event.RecurrenceEndDate != nil && current.After(*event.RecurrenceEndDate) {
			break
		}
		occurrence := event
		occurrence.StartDate = current
		if duration != nil {
			end := current.Add(*duration)
			occurrence.EndDate = &end
		}
		occurrences = append(occurrences, occurrence)
		current = NextOccurrence(event.RecurrenceType, current)
	}
	return occurrences
}

// seekToRange advances from the event's start to its first occurrence on or
// after rangeStart. The cap above only counts emitted occurrences, so an old
// daily event still reaches a far-future window. Daily and weekly intervals
// are fixed-width, letting the skip be arithmetic; monthly and yearly step
// through at most a handful of iterations per elapsed year.
func seekToRange(recurrence models.RecurrenceType, start, rangeStart time.Time) time.Time {
	if !start.Before(rangeStart) {
		return start
	}

	switch recurrence {
	case models.RecurrenceDaily, models.RecurrenceWeekly:
		stepDays := 1
		if recurrence == models.RecurrenceWeekly {
			stepDays = 7
		}
		behindDays := int(rangeStart.Sub(start).Hours() / 24)
		current := start.AddDate(0, 0, (behindDays/stepDays)*stepDays)
		for current.Before(rangeStart) {
			current = current.AddDate(0, 0, stepDays)
		}
		return current
	default:
		current := start
		for current.Before(rangeStart) {
			current = NextOccurrence(recurrence, current)
		}
		return current
	}
}
