// Package cocktail exposes the saved-drinks shelf over REST.
package cocktail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cocktail_agent/pkg/core/agent"
	"cocktail_agent/pkg/core/store"
)

// Store is the persistence surface the handler needs.
type Store interface {
	Create(ctx context.Context, userID string, recipe *agent.DrinkRecipe) (string, error)
	ListShelf(ctx context.Context, userID string) ([]*store.Cocktail, error)
	Get(ctx context.Context, userID string, cocktailID string) (*store.Cocktail, error)
	Delete(ctx context.Context, userID string, cocktailID string) error
}

// TokenVerifier authenticates bearer tokens into user IDs.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Handler serves /cocktails and /cocktails/{id}.
type Handler struct {
	store    Store
	verifier TokenVerifier
}

func NewHandler(store Store, verifier TokenVerifier) *Handler {
	return &Handler{store: store, verifier: verifier}
}

// HandleCocktails serves the collection: GET lists the shelf, POST saves a
// recipe.
func (h *Handler) HandleCocktails(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		cocktails, err := h.store.ListShelf(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if cocktails == nil {
			cocktails = []*store.Cocktail{}
		}
		writeJSON(w, http.StatusOK, cocktails)

	case http.MethodPost:
		var recipe agent.DrinkRecipe
		if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if recipe.GlassType == "" {
			recipe.GlassType = agent.DefaultGlassType
		}
		if err := recipe.ValidateRecipe(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id, err := h.store.Create(r.Context(), userID, &recipe)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCocktail serves one item: GET fetches, DELETE removes.
func (h *Handler) HandleCocktail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/cocktails/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Invalid cocktail id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.store.Get(r.Context(), userID, id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Cocktail not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		err := h.store.Delete(r.Context(), userID, id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Cocktail not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return "", false
	}

	userID, err := h.verifier.VerifyToken(token)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
