package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/middleware"
	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
	"github.com/go-chi/chi/v5"
)

type AgreementHandler struct {
	agreementRepo repository.AgreementRepository
	propertyRepo  repository.PropertyRepository
	taskService   *services.TaskService
}

func NewAgreementHandler(
	agreementRepo repository.AgreementRepository,
	propertyRepo repository.PropertyRepository,
	taskService *services.TaskService,
) *AgreementHandler {
	return &AgreementHandler{
		agreementRepo: agreementRepo,
		propertyRepo:  propertyRepo,
		taskService:   taskService,
	}
}

type CreateAgreementRequest struct {
	PropertyID string     `json:"property_id"`
	Title      string     `json:"title"`
	DueDate    *time.Time `json:"due_date"`
	Items      []string   `json:"items"`
}

func (handler *AgreementHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request CreateAgreementRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if request.PropertyID == "" {
		writeError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	property, err := handler.propertyRepo.FindByID(ctx, request.PropertyID)
	if err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	if property.OwnerUserID != user.ID {
		writeError(w, http.StatusForbidden, "permission denied")
		return
	}

	items := make([]models.CheckItem, 0, len(request.Items))
	for _, text := range request.Items {
		if text == "" {
			continue
		}
		items = append(items, models.CheckItem{Text: text})
	}

	created, err := handler.agreementRepo.Create(ctx, models.Agreement{
		PropertyID: request.PropertyID,
		Title:      request.Title,
		CreatedBy:  user.ID,
		DueDate:    request.DueDate,
		CheckItems: items,
	})
	if err != nil {
		writeServiceError(w, err, "creating agreement")
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (handler *AgreementHandler) Get(w http.ResponseWriter, r *http.Request) {
	agreement, err := handler.agreementRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "agreement not found")
		return
	}
	writeData(w, http.StatusOK, agreement)
}

func (handler *AgreementHandler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	propertyID := chi.URLParam(r, "id")

	if _, err := handler.propertyRepo.FindByID(ctx, propertyID); err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}

	agreements, err := handler.agreementRepo.FindByProperty(ctx, propertyID)
	if err != nil {
		writeServiceError(w, err, "listing agreements")
		return
	}
	if agreements == nil {
		agreements = []models.Agreement{}
	}
	writeData(w, http.StatusOK, agreements)
}

func (handler *AgreementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	agreementID := chi.URLParam(r, "id")

	agreement, err := handler.agreementRepo.FindByID(ctx, agreementID)
	if err != nil {
		writeError(w, http.StatusNotFound, "agreement not found")
		return
	}
	if agreement.CreatedBy != user.ID {
		writeError(w, http.StatusForbidden, "permission denied")
		return
	}

	if err := handler.agreementRepo.Delete(ctx, agreementID); err != nil {
		writeServiceError(w, err, "deleting agreement")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": agreementID})
}

type TaskActionRequest struct {
	ItemIndex              int     `json:"itemIndex"`
	Action                 string  `json:"action"`
	UserID                 *string `json:"userId"`
	NotificationDaysBefore *int    `json:"notificationDaysBefore"`
}

// TaskAction mutates one check item: assign, unassign or complete. The
// response carries the full agreement so clients reconcile against the
// server-authoritative item state.
func (handler *AgreementHandler) TaskAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	agreementID := chi.URLParam(r, "id")

	var request TaskActionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.NotificationDaysBefore != nil && *request.NotificationDaysBefore < 0 {
		writeError(w, http.StatusBadRequest, "notificationDaysBefore must not be negative")
		return
	}

	var (
		agreement models.Agreement
		err       error
	)
	switch request.Action {
	case "assign":
		agreement, err = handler.taskService.AssignItem(ctx, agreementID, request.ItemIndex, user.ID, request.UserID, request.NotificationDaysBefore)
	case "unassign":
		agreement, err = handler.taskService.UnassignItem(ctx, agreementID, request.ItemIndex, user.ID)
	case "complete":
		agreement, err = handler.taskService.ToggleItem(ctx, agreementID, request.ItemIndex, user.ID)
	default:
		writeError(w, http.StatusBadRequest, "action must be assign, unassign or complete")
		return
	}
	if err != nil {
		writeServiceError(w, err, "applying task action")
		return
	}
	writeData(w, http.StatusOK, agreement)
}
