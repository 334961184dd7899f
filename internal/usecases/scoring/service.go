package scoring

import (
	"context"

	"github.com/leadflow/lead-manager-api/infrastructure/integrator/mlscorer"
	"github.com/leadflow/lead-manager-api/infrastructure/repository"
	"github.com/leadflow/lead-manager-api/internal/config"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// DefaultProbability é o valor aplicado quando o scorer externo falha.
// Uma predição perdida nunca pode bloquear a criação de leads nem o
// rastreamento de engajamento.
const DefaultProbability = 0.1

// Limiares de classificação derivados da probabilidade de conversão
const (
	hotThreshold  = 0.7
	warmThreshold = 0.4
	coldThreshold = 0.1
)

type Scorer interface {
	ScoreLead(ctx context.Context, leadID string) (*domain.Lead, error)
	PredictBatch(ctx context.Context, leads []*domain.Lead) []float64
	BuildPrediction(probability float64, engagement domain.Engagement) *domain.MLPrediction
}

type Service struct {
	leadRepo     repository.LeadRepository
	scorerClient mlscorer.Client
	cfg          *config.Config
}

func NewService(leadRepo repository.LeadRepository, scorerClient mlscorer.Client, cfg *config.Config) Scorer {
	return &Service{
		leadRepo:     leadRepo,
		scorerClient: scorerClient,
		cfg:          cfg,
	}
}

// ScoreLead recalcula a predição de um único lead e persiste o resultado
// em uma única escrita.
func (s *Service) ScoreLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetLeadByID(leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	probability := s.predictOne(ctx, lead)
	prediction := s.BuildPrediction(probability, lead.Engagement)

	if err := s.leadRepo.SavePrediction(lead.ID, prediction); err != nil {
		return nil, err
	}

	return s.leadRepo.GetLeadByID(lead.ID)
}

// PredictBatch retorna as probabilidades alinhadas posicionalmente com os
// leads de entrada. Nunca retorna erro: qualquer falha do scorer externo
// degrada para a probabilidade padrão em todo o lote.
func (s *Service) PredictBatch(ctx context.Context, leads []*domain.Lead) []float64 {
	if len(leads) == 0 {
		return []float64{}
	}

	features := make([]domain.MLFeatures, len(leads))
	for i, lead := range leads {
		features[i] = CalculateFeatures(lead.Engagement)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.MLScorer.BatchTimeout)
	defer cancel()

	predictions, err := s.scorerClient.Predict(callCtx, features)
	if err != nil {
		logrus.WithError(err).WithField("leads", len(leads)).
			Error("Falha no scorer externo em lote, aplicando probabilidade padrão")
		return defaultProbabilities(len(leads))
	}

	for i, probability := range predictions {
		predictions[i] = clampProbability(probability)
	}

	return predictions
}

// BuildPrediction monta a predição persistível: probabilidade limitada a
// [0,1], score 0-100, grade determinística e o vetor de features usado.
func (s *Service) BuildPrediction(probability float64, engagement domain.Engagement) *domain.MLPrediction {
	clamped := clampProbability(probability)

	return &domain.MLPrediction{
		ConversionProbability: clamped,
		Features:              CalculateFeatures(engagement),
		PredictedScore:        utils.RoundWithTwoDecimalPlace(clamped * 100),
		QualityGrade:          GradeForProbability(clamped),
	}
}

func (s *Service) predictOne(ctx context.Context, lead *domain.Lead) float64 {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.MLScorer.SingleTimeout)
	defer cancel()

	predictions, err := s.scorerClient.Predict(callCtx, []domain.MLFeatures{CalculateFeatures(lead.Engagement)})
	if err != nil {
		logrus.WithError(err).WithField("lead_id", lead.ID).
			Error("Falha no scorer externo, aplicando probabilidade padrão")
		return DefaultProbability
	}

	return clampProbability(predictions[0])
}

// GradeForProbability classifica a probabilidade em Hot/Warm/Cold/Unknown
func GradeForProbability(probability float64) domain.QualityGrade {
	switch {
	case probability >= hotThreshold:
		return domain.GradeHot
	case probability >= warmThreshold:
		return domain.GradeWarm
	case probability >= coldThreshold:
		return domain.GradeCold
	default:
		return domain.GradeUnknown
	}
}

func clampProbability(probability float64) float64 {
	if probability < 0 {
		return 0
	}
	if probability > 1 {
		return 1
	}
	return probability
}

func defaultProbabilities(n int) []float64 {
	probabilities := make([]float64, n)
	for i := range probabilities {
		probabilities[i] = DefaultProbability
	}
	return probabilities
}
