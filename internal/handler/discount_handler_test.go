package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"discount-api/internal/auth"
	"discount-api/internal/model"
	"discount-api/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDiscountService is a mock implementation of DiscountService.
type MockDiscountService struct {
	mock.Mock
}

func (m *MockDiscountService) ListOwned(ctx context.Context, ident *auth.Identity) ([]model.Discount, error) {
	args := m.Called(ctx, ident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Discount), args.Error(1)
}

func (m *MockDiscountService) ListByVenue(ctx context.Context, venueID string) ([]model.Discount, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Discount), args.Error(1)
}

func (m *MockDiscountService) ListAll(ctx context.Context) ([]model.Discount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Discount), args.Error(1)
}

func (m *MockDiscountService) Create(ctx context.Context, ident *auth.Identity, req *model.DiscountRequest) (*model.Discount, error) {
	args := m.Called(ctx, ident, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockDiscountService) Update(ctx context.Context, ident *auth.Identity, id string, req *model.DiscountRequest) (*model.Discount, error) {
	args := m.Called(ctx, ident, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockDiscountService) Delete(ctx context.Context, ident *auth.Identity, id string) error {
	args := m.Called(ctx, ident, id)
	return args.Error(0)
}

func newTestHandler(t *testing.T, svc *MockDiscountService) http.Handler {
	t.Helper()

	v, err := validation.New()
	require.NoError(t, err)

	h := NewDiscountHandler(svc, v, zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/discount", h.List)
	r.Post("/discount", h.Create)
	r.Put("/discount/{id}", h.Update)
	r.Delete("/discount/{id}", h.Delete)
	r.Get("/discount/venue/{venueId}", h.ListByVenue)
	r.Get("/venue", h.ListAll)
	r.Get("/health-check", h.HealthCheck)
	return r
}

func ownerIdentity() *auth.Identity {
	return &auth.Identity{
		Email:   "owner@example.com",
		Subject: "subject-1",
		Groups:  []string{"venue"},
	}
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(auth.With(req.Context(), ownerIdentity()))
}

func validBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"voucherCode":   "SAVE10",
		"percentage":    10,
		"minOrder":      50,
		"maxDiscAmount": 20,
		"isActive":      true,
		"startDate":     "2024-01-01T00:00:00.000Z",
		"endDate":       "2024-01-31T00:00:00.000Z",
	})
	require.NoError(t, err)
	return body
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDiscountHandler_List(t *testing.T) {
	t.Run("returns the owner's discounts", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("ListOwned", mock.Anything, mock.Anything).Return([]model.Discount{{ID: "d1", VenueID: "v1"}}, nil)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/discount", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(200), body["code"])
		assert.Equal(t, "success", body["message"])
		assert.Len(t, body["data"], 1)
	})

	t.Run("unresolved owner is a 404 body in a 200 response", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("ListOwned", mock.Anything, mock.Anything).Return(nil, model.ErrOwnerNotFound)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/discount", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(404), body["code"])
		assert.Equal(t, "User Not Found", body["message"])
	})

	t.Run("empty result is a list, not null", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("ListOwned", mock.Anything, mock.Anything).Return([]model.Discount{}, nil)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/discount", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})
}

func TestDiscountHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockDiscountService)
		created := &model.Discount{ID: "d1", VenueID: "v1", VoucherCode: "SAVE10", Percentage: 10}
		svc.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.DiscountRequest")).Return(created, nil)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/discount", validBody(t)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(200), body["code"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "d1", data["id"])
	})

	t.Run("validation failure is transport 400 with field errors", func(t *testing.T) {
		svc := new(MockDiscountService)

		body, err := json.Marshal(map[string]interface{}{
			"voucherCode":   "SAVE10",
			"percentage":    101,
			"minOrder":      50,
			"maxDiscAmount": 20,
			"isActive":      true,
			"startDate":     "2024-01-01T00:00:00.000Z",
			"endDate":       "2024-01-31T00:00:00.000Z",
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/discount", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody(t, rec)
		assert.Equal(t, float64(400), resp["code"])
		require.Len(t, resp["errors"], 1)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json is transport 400", func(t *testing.T) {
		svc := new(MockDiscountService)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/discount", []byte("{not json")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("voucher code conflict is a body code in a 200 response", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, model.ErrVoucherCodeExists)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/discount", validBody(t)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(400), body["code"])
		assert.Equal(t, "voucherCode Already Exist!", body["message"])
	})

	t.Run("conditional write conflict is a body code in a 200 response", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, model.ErrRecordExists)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/discount", validBody(t)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(400), body["code"])
		assert.Equal(t, "Data Already Exist.!", body["message"])
	})
}

func TestDiscountHandler_Update(t *testing.T) {
	t.Run("success passes the path id through", func(t *testing.T) {
		svc := new(MockDiscountService)
		updated := &model.Discount{ID: "d1", VenueID: "v1", Percentage: 15}
		svc.On("Update", mock.Anything, mock.Anything, "d1", mock.AnythingOfType("*model.DiscountRequest")).Return(updated, nil)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodPut, "/discount/d1", validBody(t)))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing record goes through the generic 422 pipeline", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("Update", mock.Anything, mock.Anything, "missing", mock.Anything).Return(nil, model.ErrRecordNotFound)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodPut, "/discount/missing", validBody(t)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(422), body["code"])
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Data Not Exist.!", body["message"])
	})
}

func TestDiscountHandler_Delete(t *testing.T) {
	t.Run("success has no data payload", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("Delete", mock.Anything, mock.Anything, "d1").Return(nil)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodDelete, "/discount/d1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(200), body["code"])
		assert.NotContains(t, body, "data")
	})

	t.Run("missing record goes through the generic 422 pipeline", func(t *testing.T) {
		svc := new(MockDiscountService)
		svc.On("Delete", mock.Anything, mock.Anything, "missing").Return(model.ErrRecordNotFound)

		rec := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodDelete, "/discount/missing", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestDiscountHandler_ListByVenue(t *testing.T) {
	svc := new(MockDiscountService)
	svc.On("ListByVenue", mock.Anything, "v2").Return([]model.Discount{{ID: "d3", VenueID: "v2"}}, nil)

	// Venue-scoped reads do not consult the caller identity.
	req := httptest.NewRequest(http.MethodGet, "/discount/venue/v2", nil)
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDiscountHandler_ListAll(t *testing.T) {
	svc := new(MockDiscountService)
	svc.On("ListAll", mock.Anything).Return([]model.Discount{{ID: "d1"}, {ID: "d2"}}, nil)

	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/venue", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 2)
}

func TestDiscountHandler_InternalErrorPipeline(t *testing.T) {
	svc := new(MockDiscountService)
	svc.On("ListOwned", mock.Anything, mock.Anything).Return(nil, errors.New("store unavailable"))

	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/discount", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(422), body["code"])
	assert.Contains(t, body["message"], "store unavailable")
}

func TestDiscountHandler_HealthCheck(t *testing.T) {
	svc := new(MockDiscountService)

	req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(200), body["code"])
	headers := body["headers"].(map[string]interface{})
	assert.Contains(t, headers, "X-Request-Id")
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	NotFound(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(422), body["code"])
	assert.Equal(t, "Route Not Found: [GET] /nope", body["message"])
}
