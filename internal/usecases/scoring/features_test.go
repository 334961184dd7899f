package scoring

import (
	"testing"

	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculateFeatures(t *testing.T) {
	tests := []struct {
		name       string
		engagement domain.Engagement
		expected   domain.MLFeatures
	}{
		{
			name:       "Engajamento zerado produz vetor zerado",
			engagement: domain.Engagement{},
			expected:   domain.MLFeatures{},
		},
		{
			name: "Pesos aplicados a cada contador",
			engagement: domain.Engagement{
				EmailOpenCount:   10,
				PricingPageClick: 5,
			},
			expected: domain.MLFeatures{
				EmailEngagement: 3.0,
				VisitFrequency:  0,
				PricingInterest: 2.0,
				DemoInterest:    0,
			},
		},
		{
			name: "Todos os contadores preenchidos",
			engagement: domain.Engagement{
				EmailOpenCount:   2,
				WebsiteVisits:    5,
				PricingPageClick: 1,
				DemoRequested:    2,
			},
			expected: domain.MLFeatures{
				EmailEngagement: 0.6,
				VisitFrequency:  1.0,
				PricingInterest: 0.4,
				DemoInterest:    1.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateFeatures(tt.engagement)

			assert.InDelta(t, tt.expected.EmailEngagement, result.EmailEngagement, 1e-9)
			assert.InDelta(t, tt.expected.VisitFrequency, result.VisitFrequency, 1e-9)
			assert.InDelta(t, tt.expected.PricingInterest, result.PricingInterest, 1e-9)
			assert.InDelta(t, tt.expected.DemoInterest, result.DemoInterest, 1e-9)
		})
	}
}

func TestCalculateFeaturesDeterministic(t *testing.T) {
	engagement := domain.Engagement{
		EmailOpenCount:   7,
		WebsiteVisits:    3,
		PricingPageClick: 4,
		DemoRequested:    1,
	}

	first := CalculateFeatures(engagement)
	second := CalculateFeatures(engagement)

	assert.Equal(t, first, second)
}
