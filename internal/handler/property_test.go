package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"settlr/internal/auth"
	"settlr/internal/model"
	"settlr/internal/repository"
	"settlr/internal/service"
)

const (
	listingID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	missingID = "11111111-2222-4333-8444-555555555555"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (*model.Identity, error) {
	if token == "bad" {
		return nil, auth.ErrInvalidToken
	}
	return &model.Identity{SubjectID: token, Name: "Caller"}, nil
}

type stubUsers struct{}

func (stubUsers) EnsureUser(_ context.Context, identity *model.Identity) (*model.User, error) {
	return &model.User{ID: "user-" + identity.SubjectID, FirebaseUID: identity.SubjectID}, nil
}

type stubPropertyRepo struct {
	property *model.Property
}

func (s *stubPropertyRepo) CreateProperty(_ context.Context, p *model.Property) error {
	p.ID = listingID
	return nil
}

func (s *stubPropertyRepo) UpdateProperty(_ context.Context, _, _ string, p *model.Property) (*model.Property, error) {
	return p, nil
}

func (s *stubPropertyRepo) DeleteProperty(context.Context, string, string) (bool, error) {
	return true, nil
}

func (s *stubPropertyRepo) SetListingStatus(context.Context, string, model.ListingStatus) (bool, error) {
	return true, nil
}

func (s *stubPropertyRepo) ListProperties(context.Context, repository.Predicate) ([]model.Property, error) {
	return []model.Property{}, nil
}

func (s *stubPropertyRepo) GetPropertyByID(_ context.Context, id string) (*model.Property, error) {
	if s.property != nil && s.property.ID == id {
		return s.property, nil
	}
	return nil, nil
}

func (s *stubPropertyRepo) SimilarProperties(context.Context, string, int) ([]model.Property, error) {
	return []model.Property{}, nil
}

func newPropertyRouter(repo *stubPropertyRepo) *gin.Engine {
	h := NewPropertyHandler(service.NewPropertyService(repo))
	requireAuth := auth.Middleware(stubVerifier{}, stubUsers{})

	r := gin.New()
	r.GET("/api/properties/:id", h.Get)
	r.POST("/api/properties", requireAuth, h.Create)
	r.DELETE("/api/properties/:id", requireAuth, h.Delete)
	return r
}

func doRequest(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPropertyGet(t *testing.T) {
	router := newPropertyRouter(&stubPropertyRepo{property: &model.Property{ID: listingID, OwnerID: "owner"}})

	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties/not-a-uuid", "", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/properties/"+missingID, "", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/properties/"+listingID, "", "").Code)
}

func TestPropertyCreate(t *testing.T) {
	router := newPropertyRouter(&stubPropertyRepo{})

	w := doRequest(router, http.MethodPost, "/api/properties", "", `{"title":"Room"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/properties", "owner", `{"rent":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "title is required")

	w = doRequest(router, http.MethodPost, "/api/properties", "owner", `{"title":"Room","amenities":["Wi-Fi"]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ownerId":"owner"`)
	assert.Contains(t, w.Body.String(), `"amenities":["wifi"]`)
	assert.Contains(t, w.Body.String(), `"listingStatus":"Pending"`)
}

func TestPropertyDelete_OwnerOnly(t *testing.T) {
	router := newPropertyRouter(&stubPropertyRepo{property: &model.Property{ID: listingID, OwnerID: "owner"}})

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodDelete, "/api/properties/"+listingID, "bad", "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, http.MethodDelete, "/api/properties/"+listingID, "someone-else", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodDelete, "/api/properties/"+listingID, "owner", "").Code)
}
