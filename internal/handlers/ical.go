package handlers

import (
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
)

// Feed window: a month of history plus a year ahead, recurring events
// expanded into concrete occurrences.
const (
	feedLookbackDays = 30
	feedAheadDays    = 365
)

type ICalHandler struct {
	eventRepo    repository.EventRepository
	propertyRepo repository.PropertyRepository
	tokenRepo    repository.APITokenRepository
}

func NewICalHandler(
	eventRepo repository.EventRepository,
	propertyRepo repository.PropertyRepository,
	tokenRepo repository.APITokenRepository,
) *ICalHandler {
	return &ICalHandler{
		eventRepo:    eventRepo,
		propertyRepo: propertyRepo,
		tokenRepo:    tokenRepo,
	}
}

// Feed serves the token owner's timeline as an iCalendar document. Calendar
// apps poll this URL, so auth rides in the query string.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	rawToken := r.URL.Query().Get("token")
	if rawToken == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	token, err := handler.tokenRepo.FindByTokenHash(ctx, repository.HashToken(rawToken))
	if err != nil || (token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now())) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	events, err := handler.eventRepo.FindAll(ctx, repository.EventFilter{UserID: &token.CreatedByUserID})
	if err != nil {
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	properties, err := handler.propertyRepo.FindByOwner(ctx, token.CreatedByUserID)
	if err != nil {
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}
	propertyNames := make(map[string]string, len(properties))
	for _, property := range properties {
		propertyNames[property.ID] = property.Name
	}

	now := time.Now()
	rangeStart := now.AddDate(0, 0, -feedLookbackDays)
	rangeEnd := now.AddDate(0, 0, feedAheadDays)

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//Rental Timeline//EN")
	calendar.SetXWRCalName("Rental Timeline")

	for _, event := range events {
		for index, occurrence := range services.ExpandOccurrences(event, rangeStart, rangeEnd) {
			handler.addVEvent(calendar, occurrence, index, propertyNames[occurrence.PropertyID], now)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=rental-timeline.ics")
	if err := calendar.SerializeTo(w); err != nil {
		http.Error(w, "Error", http.StatusInternalServerError)
	}
}

func (handler *ICalHandler) addVEvent(calendar *ics.Calendar, event models.TimelineEvent, occurrenceIndex int, propertyName string, now time.Time) {
	uid := event.ID + "@rental-timeline"
	if occurrenceIndex > 0 {
		uid = event.ID + "-" + event.StartDate.Format("20060102") + "@rental-timeline"
	}

	vevent := calendar.AddEvent(uid)
	vevent.SetDtStampTime(now)
	vevent.SetSummary(event.Title)

	description := event.Description
	if propertyName != "" {
		if description != "" {
			description += "\n"
		}
		description += "Property: " + propertyName
	}
	if description != "" {
		vevent.SetDescription(description)
	}

	if event.IsAllDay {
		vevent.SetAllDayStartAt(event.StartDate)
		vevent.SetAllDayEndAt(services.EffectiveEnd(event))
		return
	}
	vevent.SetStartAt(event.StartDate)
	vevent.SetEndAt(services.EffectiveEnd(event))
}
