package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/leadflow/lead-manager-api/infrastructure/repository/mocks"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var expectedGIF, _ = base64.StdEncoding.DecodeString("R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7")

func requestWithID(method, target, id string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	params := httprouter.Params{{Key: "id", Value: id}}
	return r.WithContext(context.WithValue(r.Context(), httprouter.ParamsKey, params))
}

func TestTrackingPixelCountsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	tracker := tracking.NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldEmailOpenCount).
		Return(&domain.Lead{ID: "abc123"}, nil)
	leadRepo.EXPECT().AppendActivity("abc123", gomock.Any()).Return(nil)

	w := httptest.NewRecorder()
	TrackingPixel(tracker).ServeHTTP(w, requestWithID(http.MethodGet, "/v1/leads/abc123/pixel.gif", "abc123"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-cache")
	assert.Equal(t, expectedGIF, w.Body.Bytes())
}

func TestTrackingPixelAlwaysServesGIF(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	tracker := tracking.NewService(leadRepo)

	// Banco fora do ar: o cliente de email ainda recebe o GIF com 200
	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldEmailOpenCount).
		Return(nil, errors.New("database is down"))

	w := httptest.NewRecorder()
	TrackingPixel(tracker).ServeHTTP(w, requestWithID(http.MethodGet, "/v1/leads/abc123/pixel.gif", "abc123"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, expectedGIF, w.Body.Bytes())
}

func TestTrackingPixelMissingLead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	tracker := tracking.NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("ghost", domain.FieldEmailOpenCount).
		Return(nil, nil)

	w := httptest.NewRecorder()
	TrackingPixel(tracker).ServeHTTP(w, requestWithID(http.MethodGet, "/v1/leads/ghost/pixel.gif", "ghost"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, expectedGIF, w.Body.Bytes())
}
