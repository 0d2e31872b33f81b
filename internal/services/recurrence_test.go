package services_test

import (
	"testing"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
)

func TestNextOccurrence(t *testing.T) {
	from := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		recurrence models.RecurrenceType
		want       time.Time
	}{
		{models.RecurrenceDaily, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)},
		{models.RecurrenceWeekly, time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)},
		{models.RecurrenceMonthly, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)},
		{models.RecurrenceYearly, time.Date(2027, 1, 31, 9, 0, 0, 0, time.UTC)},
		{models.RecurrenceNone, time.Time{}},
	}

	for _, tt := range tests {
		got := services.NextOccurrence(tt.recurrence, from)
		if !got.Equal(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.recurrence, tt.want, got)
		}
	}
}

func TestExpandOccurrences_NonRecurring(t *testing.T) {
	start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	event := models.TimelineEvent{ID: "evt-1", Title: "One-off", StartDate: start}

	rangeStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	occurrences := services.ExpandOccurrences(event, rangeStart, rangeEnd)
	if len(occurrences) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occurrences))
	}
	if occurrences[0].ID != "evt-1" {
		t.Errorf("expected source ID kept, got %s", occurrences[0].ID)
	}

	outOfRange := services.ExpandOccurrences(event, rangeEnd, rangeEnd.AddDate(0, 1, 0))
	if len(outOfRange) != 0 {
		t.Fatalf("expected no occurrences outside range, got %d", len(outOfRange))
	}
}

func TestExpandOccurrences_Monthly(t *testing.T) {
	event := models.TimelineEvent{
		ID:             "rent",
		Title:          "Rent due",
		StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		RecurrenceType: models.RecurrenceMonthly,
	}

	rangeStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	occurrences := services.ExpandOccurrences(event, rangeStart, rangeEnd)
	if len(occurrences) != 3 {
		t.Fatalf("expected 3 occurrences (Mar, Apr, May), got %d", len(occurrences))
	}
	if !occurrences[0].StartDate.Equal(rangeStart) {
		t.Errorf("expected first occurrence on 1 March, got %v", occurrences[0].StartDate)
	}
	for _, occurrence := range occurrences {
		if occurrence.ID != "rent" {
			t.Errorf("expected source ID kept, got %s", occurrence.ID)
		}
	}
}

func TestExpandOccurrences_StopsAtRecurrenceEnd(t *testing.T) {
	recurrenceEnd := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	event := models.TimelineEvent{
		Title:             "Daily reminder",
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		RecurrenceType:    models.RecurrenceDaily,
		RecurrenceEndDate: &recurrenceEnd,
	}

	occurrences := services.ExpandOccurrences(event,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	if len(occurrences) != 15 {
		t.Fatalf("expected 15 occurrences up to the recurrence end, got %d", len(occurrences))
	}
	last := occurrences[len(occurrences)-1]
	if last.StartDate.After(recurrenceEnd) {
		t.Errorf("occurrence after recurrence end: %v", last.StartDate)
	}
}

func TestExpandOccurrences_PreservesDuration(t *testing.T) {
	start := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	event := models.TimelineEvent{
		Title:          "Weekly viewing",
		StartDate:      start,
		EndDate:        &end,
		RecurrenceType: models.RecurrenceWeekly,
	}

	occurrences := services.ExpandOccurrences(event, start, start.AddDate(0, 0, 21))
	if len(occurrences) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occurrences))
	}
	second := occurrences[1]
	if second.EndDate == nil || second.EndDate.Sub(second.StartDate) != 2*time.Hour {
		t.Errorf("expected 2h duration preserved, got %v", second.EndDate)
	}
}

func TestExpandOccurrences_OldDailyEventReachesWindow(t *testing.T) {
	// A daily event several years old must still surface in a current window;
	// occurrences before the window must not consume the expansion bound.
	event := models.TimelineEvent{
		Title:          "Daily walkthrough",
		StartDate:      time.Date(2022, 1, 1, 8, 0, 0, 0, time.UTC),
		RecurrenceType: models.RecurrenceDaily,
	}

	rangeStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	occurrences := services.ExpandOccurrences(event, rangeStart, rangeEnd)
	if len(occurrences) != 59 {
		t.Fatalf("expected 59 daily occurrences in Jan+Feb 2026, got %d", len(occurrences))
	}
	first := occurrences[0].StartDate
	if !first.Equal(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("expected first occurrence on 1 Jan 2026 at the event's hour, got %v", first)
	}
}

func TestExpandOccurrences_OldWeeklyEventKeepsWeekday(t *testing.T) {
	start := time.Date(2022, 1, 5, 18, 0, 0, 0, time.UTC) // a Wednesday
	event := models.TimelineEvent{
		Title:          "Weekly viewing",
		StartDate:      start,
		RecurrenceType: models.RecurrenceWeekly,
	}

	rangeStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	occurrences := services.ExpandOccurrences(event, rangeStart, rangeStart.AddDate(0, 1, 0))
	if len(occurrences) == 0 {
		t.Fatal("expected occurrences inside the window, got none")
	}

	first := occurrences[0].StartDate
	if first.Before(rangeStart) || !first.Before(rangeStart.AddDate(0, 0, 7)) {
		t.Errorf("expected first occurrence in the window's first week, got %v", first)
	}
	if first.Weekday() != start.Weekday() {
		t.Errorf("expected occurrences to stay on %v, got %v", start.Weekday(), first.Weekday())
	}
}

func TestExpandOccurrences_OldMonthlyEventReachesWindow(t *testing.T) {
	event := models.TimelineEvent{
		Title:          "Monthly rent",
		StartDate:      time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
		RecurrenceType: models.RecurrenceMonthly,
	}

	rangeStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	occurrences := services.ExpandOccurrences(event, rangeStart, rangeStart.AddDate(0, 3, 0))
	if len(occurrences) != 3 {
		t.Fatalf("expected 3 monthly occurrences, got %d", len(occurrences))
	}
	if !occurrences[0].StartDate.Equal(rangeStart) {
		t.Errorf("expected first occurrence on 1 Aug 2026, got %v", occurrences[0].StartDate)
	}
}

func TestExpandOccurrences_BoundedExpansion(t *testing.T) {
	event := models.TimelineEvent{
		Title:          "Forever daily",
		StartDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		RecurrenceType: models.RecurrenceDaily,
	}

	occurrences := services.ExpandOccurrences(event,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	if len(occurrences) > 1000 {
		t.Fatalf("expansion unbounded: %d occurrences", len(occurrences))
	}
}
