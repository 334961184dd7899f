package tracking

import (
	"errors"
	"testing"

	"github.com/leadflow/lead-manager-api/infrastructure/repository/mocks"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestParseEngagementField(t *testing.T) {
	tests := []struct {
		raw      string
		expected domain.EngagementField
		valid    bool
	}{
		{"email_open_count", domain.FieldEmailOpenCount, true},
		{"website_visits", domain.FieldWebsiteVisits, true},
		{"pricing_page_click", domain.FieldPricingPageClick, true},
		{"demo_requested", domain.FieldDemoRequested, true},
		{" website_visits ", domain.FieldWebsiteVisits, true},
		{"status", "", false},
		{"notes; DROP TABLE leads", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		field, ok := ParseEngagementField(tt.raw)
		assert.Equal(t, tt.valid, ok, "campo %q", tt.raw)
		if tt.valid {
			assert.Equal(t, tt.expected, field)
		}
	}
}

func TestBumpRejectsUnknownFieldBeforeStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma expectativa: campo fora da whitelist nunca toca o repositório
	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	lead, err := service.Bump("abc123", BumpRequest{Field: "conversion_probability"})

	assert.Nil(t, lead)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestBumpIncrementsAndLogsActivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	updated := &domain.Lead{
		ID:         "abc123",
		Engagement: domain.Engagement{WebsiteVisits: 4},
	}

	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldWebsiteVisits).
		Return(updated, nil)

	leadRepo.EXPECT().
		AppendActivity("abc123", gomock.Any()).
		DoAndReturn(func(id string, entry domain.ActivityEntry) error {
			assert.Equal(t, "website_visits", entry.Action)
			assert.Equal(t, "sess-1", entry.SessionID)
			return nil
		})

	leadRepo.EXPECT().
		RecordSession("abc123", "sess-1", "/pricing", 30).
		Return(nil)

	lead, err := service.Bump("abc123", BumpRequest{
		Field:     "website_visits",
		SessionID: "sess-1",
		Page:      "/pricing",
		Duration:  30,
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, lead.Engagement.WebsiteVisits)
}

func TestBumpLeadNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("missing", domain.FieldEmailOpenCount).
		Return(nil, nil)

	lead, err := service.Bump("missing", BumpRequest{Field: "email_open_count"})

	assert.Nil(t, lead)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestBumpActivityFailureDoesNotFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	updated := &domain.Lead{ID: "abc123"}

	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldDemoRequested).
		Return(updated, nil)

	// O contador já foi persistido; falha no log de atividades não desfaz o bump
	leadRepo.EXPECT().
		AppendActivity("abc123", gomock.Any()).
		Return(errors.New("connection reset"))

	lead, err := service.Bump("abc123", BumpRequest{Field: "demo_requested"})

	assert.NoError(t, err)
	assert.Equal(t, updated, lead)
}

func TestTrackOpenSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldEmailOpenCount).
		Return(nil, errors.New("database is down"))

	// Não deve entrar em pânico nem propagar erro
	service.TrackOpen("abc123")
}

func TestTrackOpenMissingLead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("ghost", domain.FieldEmailOpenCount).
		Return(nil, nil)

	service.TrackOpen("ghost")
}

func TestTrackOpenRegistersActivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo)

	leadRepo.EXPECT().
		IncrementEngagement("abc123", domain.FieldEmailOpenCount).
		Return(&domain.Lead{ID: "abc123"}, nil)

	leadRepo.EXPECT().
		AppendActivity("abc123", gomock.Any()).
		DoAndReturn(func(id string, entry domain.ActivityEntry) error {
			assert.Equal(t, "email_open_count", entry.Action)
			assert.Equal(t, "tracking_pixel", entry.Metadata["source"])
			return nil
		})

	service.TrackOpen("abc123")
}
