package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leadflow/lead-manager-api/infrastructure/repository/mocks"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/internal/usecases/resolving"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/leadflow/lead-manager-api/pkg/apiErrors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCreateLeadRejectsInvalidEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma expectativa no repositório: email inválido não chega ao banco
	leadRepo := mocks.NewMockLeadRepository(ctrl)
	resolver := resolving.NewService(leadRepo)
	tracker := tracking.NewService(leadRepo)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/leads", strings.NewReader(`{"email":"not-an-email"}`))
	CreateLead(resolver, tracker).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr apiErrors.APIError
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, apiErrors.ErrInvalidEmail, apiErr.Code)
}

func TestCreateLeadDemoRequestBumpsCounter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	resolver := resolving.NewService(leadRepo)
	tracker := tracking.NewService(leadRepo)

	created := &domain.Lead{ID: "abc123", Email: "maria@example.com"}
	bumped := &domain.Lead{
		ID:         "abc123",
		Email:      "maria@example.com",
		Engagement: domain.Engagement{DemoRequested: 1},
	}

	leadRepo.EXPECT().
		UpsertLead(gomock.Any(), "maria@example.com", gomock.Any()).
		Return(created, nil)
	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldDemoRequested).
		Return(bumped, nil)
	leadRepo.EXPECT().AppendActivity("abc123", gomock.Any()).Return(nil)

	body := `{"email":"Maria@Example.com","name":"Maria","source_type":"Demo Request"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/leads", strings.NewReader(body))
	CreateLead(resolver, tracker).ServeHTTP(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)

	var lead domain.Lead
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &lead))
	assert.Equal(t, 1, lead.Engagement.DemoRequested)
}

func TestCreateLeadStatusReflectsMerge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	resolver := resolving.NewService(leadRepo)
	tracker := tracking.NewService(leadRepo)

	createdAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		updatedAt time.Time
		expected  int
	}{
		// No insert o banco preenche as duas colunas com o mesmo now()
		{"novo registro", createdAt, http.StatusCreated},
		{"merge em registro existente", createdAt.Add(time.Hour), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leadRepo.EXPECT().
				UpsertLead(gomock.Any(), "maria@example.com", gomock.Any()).
				Return(&domain.Lead{
					ID:        "abc123",
					Email:     "maria@example.com",
					CreatedAt: createdAt,
					UpdatedAt: tt.updatedAt,
				}, nil)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/v1/leads", strings.NewReader(`{"email":"maria@example.com"}`))
			CreateLead(resolver, tracker).ServeHTTP(w, r)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestListLeadsDateFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	resolver := resolving.NewService(leadRepo)

	day := func(d string) time.Time {
		parsed, err := time.Parse("2006-01-02", d)
		assert.NoError(t, err)
		return parsed
	}

	leadRepo.EXPECT().ListLeads().Return([]*domain.Lead{
		{ID: "old", CreatedAt: day("2026-01-10")},
		{ID: "mid", CreatedAt: day("2026-03-15")},
		{ID: "new", CreatedAt: day("2026-06-01")},
	}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/leads?start_date=2026-02-01&end_date=2026-03-15", nil)
	ListLeads(resolver).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var leads []*domain.Lead
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &leads))
	assert.Len(t, leads, 1)
	assert.Equal(t, "mid", leads[0].ID)
}

func TestListLeadsInvalidDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	resolver := resolving.NewService(leadRepo)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/leads?start_date=15-03-2026", nil)
	ListLeads(resolver).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
