package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/cache"
	"github.com/arvin-shafiei/rental-app-sub001/internal/middleware"
	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
	"github.com/go-chi/chi/v5"
)

const defaultUpcomingDays = 30

type TimelineHandler struct {
	eventRepo    repository.EventRepository
	propertyRepo repository.PropertyRepository
	taskService  *services.TaskService
	limitService *services.LimitService
	summaryCache *cache.Cache
}

func NewTimelineHandler(
	eventRepo repository.EventRepository,
	propertyRepo repository.PropertyRepository,
	taskService *services.TaskService,
	limitService *services.LimitService,
	summaryCache *cache.Cache,
) *TimelineHandler {
	return &TimelineHandler{
		eventRepo:    eventRepo,
		propertyRepo: propertyRepo,
		taskService:  taskService,
		limitService: limitService,
		summaryCache: summaryCache,
	}
}

type CreateEventRequest struct {
	PropertyID             string            `json:"property_id"`
	Title                  string            `json:"title"`
	Description            string            `json:"description"`
	EventType              models.EventType  `json:"event_type"`
	StartDate              time.Time         `json:"start_date"`
	EndDate                *time.Time        `json:"end_date"`
	IsAllDay               bool              `json:"is_all_day"`
	RecurrenceType         models.RecurrenceType `json:"recurrence_type"`
	RecurrenceEndDate      *time.Time        `json:"recurrence_end_date"`
	NotificationDaysBefore *int              `json:"notification_days_before"`
	Metadata               map[string]string `json:"metadata"`
}

func (request CreateEventRequest) validate() error {
	if request.Title == "" {
		return fmt.Errorf("title is required")
	}
	if request.PropertyID == "" {
		return fmt.Errorf("property_id is required")
	}
	if request.StartDate.IsZero() {
		return fmt.Errorf("start_date is required")
	}
	if request.EndDate != nil && request.EndDate.Before(request.StartDate) {
		return fmt.Errorf("end_date must not precede start_date")
	}
	if request.RecurrenceEndDate != nil && request.RecurrenceEndDate.Before(request.StartDate) {
		return fmt.Errorf("recurrence_end_date must not precede start_date")
	}
	if request.NotificationDaysBefore != nil && *request.NotificationDaysBefore < 0 {
		return fmt.Errorf("notification_days_before must not be negative")
	}
	if request.RecurrenceType != "" && !models.ValidRecurrenceType(request.RecurrenceType) {
		return fmt.Errorf("unknown recurrence_type %q", request.RecurrenceType)
	}
	// Unlike recurrence, event_type is not validated: unknown values are
	// stored as-is and classified as generic custom entries.
	return nil
}

// ListPropertyEvents returns all events on one property's timeline.
func (handler *TimelineHandler) ListPropertyEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := handler.propertyRepo.FindByID(ctx, propertyID); err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}

	events, err := handler.eventRepo.FindAll(ctx, repository.EventFilter{PropertyID: &propertyID})
	if err != nil {
		writeServiceError(w, err, "listing property events")
		return
	}
	if events == nil {
		events = []models.TimelineEvent{}
	}
	writeData(w, http.StatusOK, events)
}

// Upcoming returns the requester's notification window: events within the
// horizon plus overdue incomplete ones, grouped client-side by day.
func (handler *TimelineHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	days := defaultUpcomingDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	events, err := handler.eventRepo.FindAll(ctx, repository.EventFilter{UserID: &user.ID})
	if err != nil {
		writeServiceError(w, err, "listing upcoming events")
		return
	}

	upcoming := services.Upcoming(events, time.Now(), days)
	if upcoming == nil {
		upcoming = []models.TimelineEvent{}
	}
	writeData(w, http.StatusOK, upcoming)
}

// List is the filterable event list surface: status tab, event type,
// property and free-text search combine conjunctively.
func (handler *TimelineHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	events, err := handler.eventRepo.FindAll(ctx, repository.EventFilter{UserID: &user.ID})
	if err != nil {
		writeServiceError(w, err, "listing events")
		return
	}

	properties, err := handler.propertyRepo.FindByOwner(ctx, user.ID)
	if err != nil {
		writeServiceError(w, err, "listing properties")
		return
	}
	propertyNames := make(map[string]string, len(properties))
	for _, property := range properties {
		propertyNames[property.ID] = property.Name
	}

	entries := make([]services.EventListEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, services.EventListEntry{
			TimelineEvent: event,
			PropertyName:  propertyNames[event.PropertyID],
		})
	}

	filter := services.EventListFilter{
		StatusTab:   r.URL.Query().Get("status"),
		EventType:   r.URL.Query().Get("type"),
		PropertyID:  r.URL.Query().Get("property"),
		SearchQuery: r.URL.Query().Get("q"),
	}

	filtered := services.FilterEvents(entries, filter, time.Now())
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(filtered) {
			filtered = filtered[:limit]
		}
	}
	if filtered == nil {
		filtered = []services.EventListEntry{}
	}
	writeData(w, http.StatusOK, filtered)
}

func (handler *TimelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := request.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := handler.propertyRepo.FindByID(ctx, request.PropertyID); err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}

	if err := handler.limitService.Reserve(ctx, user.ID, models.ResourceEvents); err != nil {
		writeServiceError(w, err, "reserving event quota")
		return
	}

	event := models.TimelineEvent{
		PropertyID:             request.PropertyID,
		UserID:                 user.ID,
		Title:                  request.Title,
		Description:            request.Description,
		EventType:              request.EventType,
		StartDate:              request.StartDate,
		EndDate:                request.EndDate,
		IsAllDay:               request.IsAllDay,
		RecurrenceType:         request.RecurrenceType,
		RecurrenceEndDate:      request.RecurrenceEndDate,
		NotificationDaysBefore: request.NotificationDaysBefore,
		Metadata:               request.Metadata,
	}

	created, err := handler.eventRepo.Create(ctx, event)
	if err != nil {
		// Compensate the reservation so a failed insert does not leak quota.
		if releaseErr := handler.limitService.Release(ctx, user.ID, models.ResourceEvents); releaseErr != nil {
			writeServiceError(w, releaseErr, "releasing event quota")
			return
		}
		writeServiceError(w, err, "creating event")
		return
	}
	handler.summaryCache.Invalidate(ctx, dashboardCacheKey(user.ID))
	writeData(w, http.StatusCreated, created)
}

type UpdateEventRequest struct {
	Title                  *string            `json:"title"`
	Description            *string            `json:"description"`
	EventType              *models.EventType  `json:"event_type"`
	StartDate              *time.Time         `json:"start_date"`
	EndDate                *time.Time         `json:"end_date"`
	ClearEndDate           bool               `json:"clear_end_date"`
	IsAllDay               *bool              `json:"is_all_day"`
	RecurrenceType         *models.RecurrenceType `json:"recurrence_type"`
	RecurrenceEndDate      *time.Time         `json:"recurrence_end_date"`
	NotificationDaysBefore *int               `json:"notification_days_before"`
	IsCompleted            *bool              `json:"is_completed"`
	Metadata               map[string]string  `json:"metadata"`
}

func (handler *TimelineHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	eventID := chi.URLParam(r, "id")

	event, err := handler.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	if !handler.canMutate(r, event, user.ID) {
		writeError(w, http.StatusForbidden, "permission denied")
		return
	}

	var request UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if request.Title != nil {
		event.Title = *request.Title
	}
	if request.Description != nil {
		event.Description = *request.Description
	}
	if request.EventType != nil {
		event.EventType = *request.EventType
	}
	if request.StartDate != nil {
		event.StartDate = *request.StartDate
	}
	if request.EndDate != nil {
		event.EndDate = request.EndDate
	} else if request.ClearEndDate {
		event.EndDate = nil
	}
	if request.IsAllDay != nil {
		event.IsAllDay = *request.IsAllDay
	}
	if request.RecurrenceType != nil {
		event.RecurrenceType = *request.RecurrenceType
	}
	if request.RecurrenceEndDate != nil {
		event.RecurrenceEndDate = request.RecurrenceEndDate
	}
	if request.NotificationDaysBefore != nil {
		event.NotificationDaysBefore = request.NotificationDaysBefore
	}
	if request.Metadata != nil {
		event.Metadata = request.Metadata
	}
	if request.IsCompleted != nil {
		if !services.Classify(event.EventType).SupportsCompletion {
			writeError(w, http.StatusBadRequest, "event type does not support completion")
			return
		}
		event.IsCompleted = *request.IsCompleted
	}

	if event.Title == "" || event.StartDate.IsZero() {
		writeError(w, http.StatusBadRequest, "title and start_date are required")
		return
	}
	if event.EndDate != nil && event.EndDate.Before(event.StartDate) {
		writeError(w, http.StatusBadRequest, "end_date must not precede start_date")
		return
	}
	if event.RecurrenceEndDate != nil && event.RecurrenceEndDate.Before(event.StartDate) {
		writeError(w, http.StatusBadRequest, "recurrence_end_date must not precede start_date")
		return
	}

	if err := handler.eventRepo.Update(ctx, event); err != nil {
		writeServiceError(w, err, "updating event")
		return
	}
	handler.summaryCache.Invalidate(ctx, dashboardCacheKey(event.UserID))
	writeData(w, http.StatusOK, event)
}

// ToggleComplete flips completion through the shared guard; the server owns
// the post-toggle value.
func (handler *TimelineHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	eventID := chi.URLParam(r, "id")

	event, err := handler.taskService.ToggleEventComplete(ctx, eventID, user.ID)
	if err != nil {
		writeServiceError(w, err, "toggling event completion")
		return
	}
	handler.summaryCache.Invalidate(ctx, dashboardCacheKey(event.UserID))
	writeData(w, http.StatusOK, event)
}

func (handler *TimelineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	eventID := chi.URLParam(r, "id")

	event, err := handler.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if !handler.canMutate(r, event, user.ID) {
		writeError(w, http.StatusForbidden, "permission denied")
		return
	}

	if err := handler.eventRepo.Delete(ctx, eventID); err != nil {
		writeServiceError(w, err, "deleting event")
		return
	}

	if err := handler.limitService.Release(ctx, event.UserID, models.ResourceEvents); err != nil {
		writeServiceError(w, err, "releasing event quota")
		return
	}
	handler.summaryCache.Invalidate(ctx, dashboardCacheKey(event.UserID))
	writeData(w, http.StatusOK, map[string]string{"id": eventID})
}

// canMutate allows the event creator and the owning property's owner.
func (handler *TimelineHandler) canMutate(r *http.Request, event models.TimelineEvent, userID string) bool {
	if event.UserID == userID {
		return true
	}
	property, err := handler.propertyRepo.FindByID(r.Context(), event.PropertyID)
	return err == nil && property.OwnerUserID == userID
}
