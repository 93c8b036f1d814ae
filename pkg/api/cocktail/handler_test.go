package cocktail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cocktail_agent/pkg/core/agent"
	"cocktail_agent/pkg/core/store"
)

type fakeStore struct {
	shelf   []*store.Cocktail
	deleted string
}

func (s *fakeStore) Create(ctx context.Context, userID string, recipe *agent.DrinkRecipe) (string, error) {
	return "new-id", nil
}

func (s *fakeStore) ListShelf(ctx context.Context, userID string) ([]*store.Cocktail, error) {
	return s.shelf, nil
}

func (s *fakeStore) Get(ctx context.Context, userID string, cocktailID string) (*store.Cocktail, error) {
	for _, c := range s.shelf {
		if c.ID == cocktailID {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) Delete(ctx context.Context, userID string, cocktailID string) error {
	for _, c := range s.shelf {
		if c.ID == cocktailID {
			s.deleted = cocktailID
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (string, error) {
	if token == "good" {
		return "user-1", nil
	}
	return "", errors.New("bad token")
}

func newTestHandler(shelf []*store.Cocktail) (*Handler, *fakeStore) {
	s := &fakeStore{shelf: shelf}
	return NewHandler(s, fakeVerifier{}), s
}

func doRequest(h http.HandlerFunc, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func validRecipeJSON() string {
	return `{
		"name": "Negroni",
		"description": "Equal parts classic.",
		"ingredients": [
			{"name": "gin", "amount": 1, "color": "#e8f4e8", "unit": "oz"},
			{"name": "campari", "amount": 1, "color": "#d40000", "unit": "oz"}
		],
		"instructions": ["Stir over ice."],
		"glass_type": "rocks glass",
		"has_ice": true
	}`
}

func TestHandleCocktailsRequiresAuth(t *testing.T) {
	h, _ := newTestHandler(nil)

	w := doRequest(h.HandleCocktails, http.MethodGet, "/cocktails", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	w = doRequest(h.HandleCocktails, http.MethodGet, "/cocktails", "expired", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", w.Code)
	}
}

func TestHandleCocktailsList(t *testing.T) {
	h, _ := newTestHandler([]*store.Cocktail{
		{ID: "c1", UserID: "user-1", Recipe: agent.DrinkRecipe{Name: "Negroni"}},
	})

	w := doRequest(h.HandleCocktails, http.MethodGet, "/cocktails", "good", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var cocktails []store.Cocktail
	if err := json.Unmarshal(w.Body.Bytes(), &cocktails); err != nil {
		t.Fatal(err)
	}
	if len(cocktails) != 1 || cocktails[0].Recipe.Name != "Negroni" {
		t.Errorf("unexpected shelf %+v", cocktails)
	}
}

func TestHandleCocktailsListEmpty(t *testing.T) {
	h, _ := newTestHandler(nil)

	w := doRequest(h.HandleCocktails, http.MethodGet, "/cocktails", "good", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %q", w.Body.String())
	}
}

func TestHandleCocktailsCreate(t *testing.T) {
	h, _ := newTestHandler(nil)

	w := doRequest(h.HandleCocktails, http.MethodPost, "/cocktails", "good", validRecipeJSON())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["id"] != "new-id" {
		t.Errorf("unexpected response %v", resp)
	}
}

func TestHandleCocktailsCreateInvalid(t *testing.T) {
	h, _ := newTestHandler(nil)

	w := doRequest(h.HandleCocktails, http.MethodPost, "/cocktails", "good", `{"name": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid recipe, got %d", w.Code)
	}

	w = doRequest(h.HandleCocktails, http.MethodPost, "/cocktails", "good", "not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestHandleCocktailsMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(nil)
	w := doRequest(h.HandleCocktails, http.MethodPut, "/cocktails", "good", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestHandleCocktailGet(t *testing.T) {
	h, _ := newTestHandler([]*store.Cocktail{
		{ID: "c1", UserID: "user-1", Recipe: agent.DrinkRecipe{Name: "Negroni"}},
	})

	w := doRequest(h.HandleCocktail, http.MethodGet, "/cocktails/c1", "good", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doRequest(h.HandleCocktail, http.MethodGet, "/cocktails/missing", "good", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleCocktailDelete(t *testing.T) {
	h, s := newTestHandler([]*store.Cocktail{{ID: "c1", UserID: "user-1"}})

	w := doRequest(h.HandleCocktail, http.MethodDelete, "/cocktails/c1", "good", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if s.deleted != "c1" {
		t.Errorf("expected c1 deleted, got %q", s.deleted)
	}

	w = doRequest(h.HandleCocktail, http.MethodDelete, "/cocktails/missing", "good", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleCocktailBadPath(t *testing.T) {
	h, _ := newTestHandler(nil)
	w := doRequest(h.HandleCocktail, http.MethodGet, "/cocktails/", "good", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty id, got %d", w.Code)
	}
}
