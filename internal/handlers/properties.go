package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arvin-shafiei/rental-app-sub001/internal/cache"
	"github.com/arvin-shafiei/rental-app-sub001/internal/middleware"
	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	propertyRepo repository.PropertyRepository
	limitService *services.LimitService
	summaryCache *cache.Cache
}

func NewPropertyHandler(propertyRepo repository.PropertyRepository, limitService *services.LimitService, summaryCache *cache.Cache) *PropertyHandler {
	return &PropertyHandler{propertyRepo: propertyRepo, limitService: limitService, summaryCache: summaryCache}
}

type PropertyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (handler *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	properties, err := handler.propertyRepo.FindByOwner(ctx, user.ID)
	if err != nil {
		writeServiceError(w, err, "listing properties")
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}
	writeData(w, http.StatusOK, properties)
}

func (handler *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	property, err := handler.propertyRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	writeData(w, http.StatusOK, property)
}

func (handler *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := handler.limitService.Reserve(ctx, user.ID, models.ResourceProperties); err != nil {
		writeServiceError(w, err, "reserving property quota")
		return
	}

	created, err := handler.propertyRepo.Create(ctx, models.Property{
		OwnerUserID: user.ID,
		Name:        request.Name,
		Address:     request.Address,
	})
	if err != nil {
		if releaseErr := handler.limitService.Release(ctx, user.ID, models.ResourceProperties); releaseErr != nil {
			writeServiceError(w, releaseErr, "releasing property quota")
			return
		}
		writeServiceError(w, err, "creating property")
		return
	}
	handler.summaryCache.Invalidate(ctx, dashboardCacheKey(user.ID))
	writeData(w, http.StatusCreated, created)
}

func (handler *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	property, err := handler.propertyRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	if property.OwnerUserID != user.ID {
		writeError(w, http.StatusForbidden, "permission denied")
		return
	}

	var request PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	property.Name = request.Name
	property.Address = request.Address
	if err := handler.propertyRepo.Update(ctx, property); err != nil {
		writeServiceError(w, err, "updating property")
		return
	}
	writeData(w, http.StatusOK, property)
}

func (handler *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	property, err := handler.propertyRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	if property.OwnerUserID != user.ID {
		writeError(w, http.StatusForbidden, "permission denied")
		return
	}

	if err := handler.propertyRepo.Delete(ctx, property.ID); err != nil {
		writeServiceError(w, err, "deleting property")
		return
	}
	if err := handler.limitService.Release(ctx, user.ID, models.ResourceProperties); err != nil {
		writeServiceError(w, err, "releasing property quota")
		return
	}
	handler.summaryCache.Invalidate(ctx, dashboardCacheKey(user.ID))
	writeData(w, http.StatusOK, map[string]string{"id": property.ID})
}
