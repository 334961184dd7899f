package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	mlscorermocks "github.com/leadflow/lead-manager-api/infrastructure/integrator/mlscorer/mocks"
	"github.com/leadflow/lead-manager-api/infrastructure/repository/mocks"
	"github.com/leadflow/lead-manager-api/internal/config"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/internal/usecases/scoring"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		MLScorer: config.MLScorer{
			SingleTimeout: 2 * time.Second,
			BatchTimeout:  5 * time.Second,
		},
		LeadRescore: config.LeadRescore{
			CronSchedule:      "0 */6 * * *",
			MaxConcurrentJobs: 2,
			Enabled:           true,
		},
	}
}

func TestRescoreAllLeads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	scorerClient := mlscorermocks.NewMockClient(ctrl)
	cfg := testConfig()

	scoringService := scoring.NewService(leadRepo, scorerClient, cfg)
	service := NewLeadRescoreService(leadRepo, scoringService, cfg)

	leads := []*domain.Lead{
		{ID: "a", Engagement: domain.Engagement{EmailOpenCount: 10}},
		{ID: "b", Engagement: domain.Engagement{WebsiteVisits: 1}},
		{ID: "c"},
	}

	leadRepo.EXPECT().ListLeads().Return(leads, nil)

	scorerClient.EXPECT().
		Predict(gomock.Any(), gomock.Len(3)).
		Return([]float64{0.8, 0.5, 0.05}, nil)

	grades := make(map[string]domain.QualityGrade)
	leadRepo.EXPECT().
		SavePrediction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(id string, prediction *domain.MLPrediction) error {
			grades[id] = prediction.QualityGrade
			return nil
		}).
		Times(3)

	service.rescoreAllLeads(context.Background())

	assert.Equal(t, domain.GradeHot, grades["a"])
	assert.Equal(t, domain.GradeWarm, grades["b"])
	assert.Equal(t, domain.GradeUnknown, grades["c"])

	status := service.GetStatus()
	assert.Equal(t, 3, status["last_sync_scored"])
	assert.Equal(t, 0, status["last_sync_failed"])
}

func TestRescoreAllLeadsCountsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	scorerClient := mlscorermocks.NewMockClient(ctrl)
	cfg := testConfig()

	scoringService := scoring.NewService(leadRepo, scorerClient, cfg)
	service := NewLeadRescoreService(leadRepo, scoringService, cfg)

	leads := []*domain.Lead{{ID: "a"}, {ID: "b"}}

	leadRepo.EXPECT().ListLeads().Return(leads, nil)
	scorerClient.EXPECT().
		Predict(gomock.Any(), gomock.Any()).
		Return([]float64{0.2, 0.3}, nil)

	// Falha em um lead não interrompe o passe
	leadRepo.EXPECT().SavePrediction("a", gomock.Any()).Return(errors.New("disk full"))
	leadRepo.EXPECT().SavePrediction("b", gomock.Any()).Return(nil)

	service.rescoreAllLeads(context.Background())

	status := service.GetStatus()
	assert.Equal(t, 1, status["last_sync_scored"])
	assert.Equal(t, 1, status["last_sync_failed"])
}

func TestRescoreAllLeadsSkipsWhenAlreadyRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma expectativa no repositório: execução sobreposta é ignorada
	leadRepo := mocks.NewMockLeadRepository(ctrl)
	scorerClient := mlscorermocks.NewMockClient(ctrl)
	cfg := testConfig()

	scoringService := scoring.NewService(leadRepo, scorerClient, cfg)
	service := NewLeadRescoreService(leadRepo, scoringService, cfg)

	service.syncMutex.Lock()
	service.syncRunning = true
	service.syncMutex.Unlock()

	service.rescoreAllLeads(context.Background())
}

func TestGetStatusDuringRescore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	scorerClient := mlscorermocks.NewMockClient(ctrl)
	cfg := testConfig()

	scoringService := scoring.NewService(leadRepo, scorerClient, cfg)
	service := NewLeadRescoreService(leadRepo, scoringService, cfg)

	leads := []*domain.Lead{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	leadRepo.EXPECT().ListLeads().Return(leads, nil)
	scorerClient.EXPECT().
		Predict(gomock.Any(), gomock.Any()).
		Return([]float64{0.2, 0.3, 0.4}, nil)
	leadRepo.EXPECT().SavePrediction(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	// Leituras de status concorrentes com o passe não devem disputar os
	// campos last_sync_* (verificado pelo detector de corrida)
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.rescoreAllLeads(context.Background())
	}()

	for i := 0; i < 100; i++ {
		_ = service.GetStatus()
	}
	<-done

	status := service.GetStatus()
	assert.Equal(t, 3, status["last_sync_scored"])
	assert.Equal(t, 0, status["last_sync_failed"])
}

func TestRescoreAllLeadsEmptyBase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	leadRepo := mocks.NewMockLeadRepository(ctrl)
	scorerClient := mlscorermocks.NewMockClient(ctrl)
	cfg := testConfig()

	scoringService := scoring.NewService(leadRepo, scorerClient, cfg)
	service := NewLeadRescoreService(leadRepo, scoringService, cfg)

	leadRepo.EXPECT().ListLeads().Return([]*domain.Lead{}, nil)

	service.rescoreAllLeads(context.Background())

	assert.False(t, service.lastSyncCompletedAt.IsZero())
}
