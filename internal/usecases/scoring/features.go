package scoring

import "github.com/leadflow/lead-manager-api/internal/domain"

// Pesos fixos da ponderação linear de cada contador de engajamento
const (
	emailEngagementWeight = 0.3
	visitFrequencyWeight  = 0.2
	pricingInterestWeight = 0.4
	demoInterestWeight    = 0.5
)

// CalculateFeatures deriva o vetor de features do engajamento acumulado.
// Função pura e determinística: mesma entrada produz saída bit-idêntica,
// engajamento zerado produz vetor zerado.
func CalculateFeatures(engagement domain.Engagement) domain.MLFeatures {
	return domain.MLFeatures{
		EmailEngagement: float64(engagement.EmailOpenCount) * emailEngagementWeight,
		VisitFrequency:  float64(engagement.WebsiteVisits) * visitFrequencyWeight,
		PricingInterest: float64(engagement.PricingPageClick) * pricingInterestWeight,
		DemoInterest:    float64(engagement.DemoRequested) * demoInterestWeight,
	}
}
