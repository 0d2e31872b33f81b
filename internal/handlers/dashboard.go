package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/cache"
	"github.com/arvin-shafiei/rental-app-sub001/internal/middleware"
	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
)

const (
	dashboardCacheTTL = 5 * time.Minute
	// The dashboard widget looks further out than the notification bell.
	dashboardHorizonDays = 90
)

// dashboardCacheKey is shared with the mutating handlers, which invalidate
// the summary so it never shows pre-mutation counts.
func dashboardCacheKey(userID string) string {
	return "dashboard:" + userID
}

type DashboardHandler struct {
	eventRepo    repository.EventRepository
	propertyRepo repository.PropertyRepository
	limitService *services.LimitService
	summaryCache *cache.Cache
}

func NewDashboardHandler(
	eventRepo repository.EventRepository,
	propertyRepo repository.PropertyRepository,
	limitService *services.LimitService,
	summaryCache *cache.Cache,
) *DashboardHandler {
	return &DashboardHandler{
		eventRepo:    eventRepo,
		propertyRepo: propertyRepo,
		limitService: limitService,
		summaryCache: summaryCache,
	}
}

type dashboardSummary struct {
	Properties     int `json:"properties"`
	UpcomingEvents int `json:"upcoming_events"`
	OverdueEvents  int `json:"overdue_events"`
	EventsUsed     int `json:"events_used"`
	EventsLimit    int `json:"events_limit"`
}

func (handler *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	payload, err := handler.summaryCache.GetOrFetch(ctx, dashboardCacheKey(user.ID), dashboardCacheTTL,
		func(ctx context.Context) ([]byte, error) {
			summary, err := handler.buildSummary(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			return json.Marshal(summary)
		})
	if err != nil {
		writeServiceError(w, err, "building dashboard summary")
		return
	}

	var summary dashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		writeServiceError(w, err, "decoding dashboard summary")
		return
	}
	writeData(w, http.StatusOK, summary)
}

func (handler *DashboardHandler) buildSummary(ctx context.Context, userID string) (dashboardSummary, error) {
	properties, err := handler.propertyRepo.FindByOwner(ctx, userID)
	if err != nil {
		return dashboardSummary{}, err
	}

	events, err := handler.eventRepo.FindAll(ctx, repository.EventFilter{UserID: &userID})
	if err != nil {
		return dashboardSummary{}, err
	}

	today := time.Now()
	upcoming := services.Upcoming(events, today, dashboardHorizonDays)

	overdue := 0
	for _, event := range upcoming {
		if services.RelativeLabel(event, today) == "Overdue" {
			overdue++
		}
	}

	used, limit, err := handler.limitService.Usage(ctx, userID, models.ResourceEvents)
	if err != nil {
		return dashboardSummary{}, err
	}

	return dashboardSummary{
		Properties:     len(properties),
		UpcomingEvents: len(upcoming) - overdue,
		OverdueEvents:  overdue,
		EventsUsed:     used,
		EventsLimit:    limit,
	}, nil
}
