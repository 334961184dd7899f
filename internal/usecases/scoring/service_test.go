package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	mlscorermocks "github.com/leadflow/lead-manager-api/infrastructure/integrator/mlscorer/mocks"
	"github.com/leadflow/lead-manager-api/infrastructure/repository/mocks"
	"github.com/leadflow/lead-manager-api/internal/config"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		MLScorer: config.MLScorer{
			URL:           "http://localhost:8501/predict",
			SingleTimeout: 2 * time.Second,
			BatchTimeout:  5 * time.Second,
		},
	}
}

func TestGradeForProbability(t *testing.T) {
	tests := []struct {
		probability float64
		expected    domain.QualityGrade
	}{
		{0.95, domain.GradeHot},
		{0.70, domain.GradeHot},
		{0.69, domain.GradeWarm},
		{0.40, domain.GradeWarm},
		{0.39, domain.GradeCold},
		{0.10, domain.GradeCold},
		{0.09, domain.GradeUnknown},
		{0.0, domain.GradeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GradeForProbability(tt.probability),
			"probabilidade %.2f", tt.probability)
	}
}

func TestBuildPrediction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockLeadRepository(ctrl), mlscorermocks.NewMockClient(ctrl), testConfig())

	engagement := domain.Engagement{EmailOpenCount: 10, PricingPageClick: 5}

	prediction := service.BuildPrediction(0.75, engagement)

	assert.Equal(t, 0.75, prediction.ConversionProbability)
	assert.Equal(t, 75.0, prediction.PredictedScore)
	assert.Equal(t, domain.GradeHot, prediction.QualityGrade)
	assert.InDelta(t, 3.0, prediction.Features.EmailEngagement, 1e-9)
	assert.InDelta(t, 2.0, prediction.Features.PricingInterest, 1e-9)
}

func TestBuildPredictionClampsProbability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockLeadRepository(ctrl), mlscorermocks.NewMockClient(ctrl), testConfig())

	tooHigh := service.BuildPrediction(1.7, domain.Engagement{})
	assert.Equal(t, 1.0, tooHigh.ConversionProbability)
	assert.Equal(t, 100.0, tooHigh.PredictedScore)
	assert.Equal(t, domain.GradeHot, tooHigh.QualityGrade)

	negative := service.BuildPrediction(-0.3, domain.Engagement{})
	assert.Equal(t, 0.0, negative.ConversionProbability)
	assert.Equal(t, domain.GradeUnknown, negative.QualityGrade)
}

func TestScoreLead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	scorerClient := mlscorermocks.NewMockClient(ctrl)
	service := NewService(leadRepo, scorerClient, testConfig())

	lead := &domain.Lead{
		ID:    "abc123",
		Email: "maria@example.com",
		Engagement: domain.Engagement{
			EmailOpenCount: 10,
			WebsiteVisits:  5,
		},
	}

	leadRepo.EXPECT().GetLeadByID("abc123").Return(lead, nil)

	scorerClient.EXPECT().
		Predict(gomock.Any(), gomock.Any()).
		Return([]float64{0.82}, nil)

	leadRepo.EXPECT().
		SavePrediction("abc123", gomock.Any()).
		DoAndReturn(func(id string, prediction *domain.MLPrediction) error {
			assert.Equal(t, 0.82, prediction.ConversionProbability)
			assert.Equal(t, 82.0, prediction.PredictedScore)
			assert.Equal(t, domain.GradeHot, prediction.QualityGrade)
			return nil
		})

	leadRepo.EXPECT().GetLeadByID("abc123").Return(lead, nil)

	result, err := service.ScoreLead(context.Background(), "abc123")

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestScoreLeadNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	service := NewService(leadRepo, mlscorermocks.NewMockClient(ctrl), testConfig())

	leadRepo.EXPECT().GetLeadByID("missing").Return(nil, nil)

	result, err := service.ScoreLead(context.Background(), "missing")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestScoreLeadFallsBackOnScorerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	scorerClient := mlscorermocks.NewMockClient(ctrl)
	service := NewService(leadRepo, scorerClient, testConfig())

	lead := &domain.Lead{ID: "abc123", Email: "maria@example.com"}

	leadRepo.EXPECT().GetLeadByID("abc123").Return(lead, nil)

	// Scorer fora do ar: o lead recebe a probabilidade padrão, nunca erro
	scorerClient.EXPECT().
		Predict(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	leadRepo.EXPECT().
		SavePrediction("abc123", gomock.Any()).
		DoAndReturn(func(id string, prediction *domain.MLPrediction) error {
			assert.Equal(t, DefaultProbability, prediction.ConversionProbability)
			assert.Equal(t, domain.GradeCold, prediction.QualityGrade)
			return nil
		})

	leadRepo.EXPECT().GetLeadByID("abc123").Return(lead, nil)

	_, err := service.ScoreLead(context.Background(), "abc123")
	assert.NoError(t, err)
}

func TestPredictBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scorerClient := mlscorermocks.NewMockClient(ctrl)
	service := NewService(mocks.NewMockLeadRepository(ctrl), scorerClient, testConfig())

	leads := []*domain.Lead{
		{ID: "a", Engagement: domain.Engagement{EmailOpenCount: 10}},
		{ID: "b", Engagement: domain.Engagement{WebsiteVisits: 2}},
	}

	scorerClient.EXPECT().
		Predict(gomock.Any(), gomock.Len(2)).
		Return([]float64{0.9, 1.4}, nil)

	probabilities := service.PredictBatch(context.Background(), leads)

	assert.Equal(t, []float64{0.9, 1.0}, probabilities)
}

func TestPredictBatchFallsBackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scorerClient := mlscorermocks.NewMockClient(ctrl)
	service := NewService(mocks.NewMockLeadRepository(ctrl), scorerClient, testConfig())

	leads := []*domain.Lead{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	scorerClient.EXPECT().
		Predict(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("timeout"))

	probabilities := service.PredictBatch(context.Background(), leads)

	assert.Equal(t, []float64{DefaultProbability, DefaultProbability, DefaultProbability}, probabilities)
}

func TestPredictBatchEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockLeadRepository(ctrl), mlscorermocks.NewMockClient(ctrl), testConfig())

	probabilities := service.PredictBatch(context.Background(), nil)

	assert.Empty(t, probabilities)
}
