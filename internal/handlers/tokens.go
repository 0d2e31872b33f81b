package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/arvin-shafiei/rental-app-sub001/internal/middleware"
	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/go-chi/chi/v5"
)

type TokenHandler struct {
	tokenRepo repository.APITokenRepository
}

func NewTokenHandler(tokenRepo repository.APITokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

// Create issues a bearer API token. The raw value appears only in this
// response; only its hash is stored.
func (handler *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	rawToken := generateToken()
	created, err := handler.tokenRepo.Create(ctx, models.APIToken{
		Name:            request.Name,
		TokenHash:       repository.HashToken(rawToken),
		CreatedByUserID: user.ID,
	})
	if err != nil {
		writeServiceError(w, err, "creating token")
		return
	}

	writeData(w, http.StatusCreated, map[string]string{
		"id":    created.ID,
		"name":  created.Name,
		"token": rawToken,
	})
}

func (handler *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	tokenID := chi.URLParam(r, "id")

	tokens, err := handler.tokenRepo.FindByUser(ctx, user.ID)
	if err != nil {
		writeServiceError(w, err, "listing tokens")
		return
	}

	owned := false
	for _, token := range tokens {
		if token.ID == tokenID {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}

	if err := handler.tokenRepo.Delete(ctx, tokenID); err != nil {
		writeServiceError(w, err, "deleting token")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": tokenID})
}

func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
