package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/leadflow/lead-manager-api/infrastructure/repository/mocks"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/leadflow/lead-manager-api/pkg/apiErrors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func patchEngagement(id, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/v1/leads/"+id+"/engagement", strings.NewReader(body))
	params := httprouter.Params{{Key: "id", Value: id}}
	return r.WithContext(context.WithValue(r.Context(), httprouter.ParamsKey, params))
}

func TestBumpEngagement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	tracker := tracking.NewService(leadRepo)

	updated := &domain.Lead{
		ID:         "abc123",
		Engagement: domain.Engagement{PricingPageClick: 2},
	}

	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldPricingPageClick).
		Return(updated, nil)
	leadRepo.EXPECT().AppendActivity("abc123", gomock.Any()).Return(nil)

	w := httptest.NewRecorder()
	BumpEngagement(tracker).ServeHTTP(w, patchEngagement("abc123", `{"field":"pricing_page_click"}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var lead domain.Lead
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &lead))
	assert.Equal(t, 2, lead.Engagement.PricingPageClick)
}

func TestBumpEngagementRejectsUnknownField(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma expectativa no repositório: a whitelist barra antes do banco
	leadRepo := mocks.NewMockLeadRepository(ctrl)
	tracker := tracking.NewService(leadRepo)

	w := httptest.NewRecorder()
	BumpEngagement(tracker).ServeHTTP(w, patchEngagement("abc123", `{"field":"conversion_probability"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr apiErrors.APIError
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, apiErrors.ErrInvalidEngagementField, apiErr.Code)
}

func TestBumpEngagementLeadNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	tracker := tracking.NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("ghost", domain.FieldWebsiteVisits).
		Return(nil, nil)

	w := httptest.NewRecorder()
	BumpEngagement(tracker).ServeHTTP(w, patchEngagement("ghost", `{"field":"website_visits"}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBumpEngagementStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	tracker := tracking.NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldWebsiteVisits).
		Return(nil, errors.New("connection refused"))

	w := httptest.NewRecorder()
	BumpEngagement(tracker).ServeHTTP(w, patchEngagement("abc123", `{"field":"website_visits"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
