package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/leadflow/lead-manager-api/infrastructure/repository"
	"github.com/leadflow/lead-manager-api/internal/config"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/internal/usecases/scoring"
	"github.com/sirupsen/logrus"
)

// LeadRescoreConfig representa a configuração do agendador de repontuação de leads
type LeadRescoreConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	SyncEnabled       bool
}

// LeadRescoreService gerencia o agendamento e execução da repontuação
// periódica de toda a base de leads. Uma execução nunca roda em paralelo
// consigo mesma: disparos sobrepostos são ignorados.
type LeadRescoreService struct {
	scheduler           *gocron.Scheduler
	config              LeadRescoreConfig
	appConfig           *config.Config
	leadRepo            repository.LeadRepository
	scoringService      scoring.Scorer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncScored      int
	lastSyncFailed      int
}

// NewLeadRescoreService cria uma nova instância do serviço de repontuação de leads
func NewLeadRescoreService(
	leadRepo repository.LeadRepository,
	scoringService scoring.Scorer,
	appConfig *config.Config,
) *LeadRescoreService {
	rescoreConfig := LeadRescoreConfig{
		CronSchedule:      appConfig.LeadRescore.CronSchedule,
		MaxConcurrentJobs: appConfig.LeadRescore.MaxConcurrentJobs,
		SyncEnabled:       appConfig.LeadRescore.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       rescoreConfig.CronSchedule,
		"max_concurrent_jobs": rescoreConfig.MaxConcurrentJobs,
		"sync_enabled":        rescoreConfig.SyncEnabled,
	}).Info("Configuração do agendador de repontuação de leads carregada")

	return &LeadRescoreService{
		scheduler:      scheduler,
		config:         rescoreConfig,
		appConfig:      appConfig,
		leadRepo:       leadRepo,
		scoringService: scoringService,
		syncRunning:    false,
	}
}

// Start inicia o agendador
func (s *LeadRescoreService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Repontuação periódica de leads desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de repontuação de leads")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.rescoreAllLeads(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar repontuação de leads: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de repontuação de leads")
		s.scheduler.Stop()
	}()

	return nil
}

// rescoreAllLeads repontua a base inteira: uma chamada em lote ao scorer
// externo seguida de uma escrita por lead com concorrência limitada
func (s *LeadRescoreService) rescoreAllLeads(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Repontuação de leads já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.syncMutex.Lock()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando repontuação de todos os leads")

	leads, err := s.leadRepo.ListLeads()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar leads para repontuação")
		return
	}

	if len(leads) == 0 {
		logrus.Info("Nenhum lead encontrado para repontuação")
		s.syncMutex.Lock()
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
		return
	}

	probabilities := s.scoringService.PredictBatch(ctx, leads)

	scored, failed := s.persistPredictions(leads, probabilities)

	s.syncMutex.Lock()
	s.lastSyncScored = scored
	s.lastSyncFailed = failed
	s.syncMutex.Unlock()

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"leads":    len(leads),
		"scored":   scored,
		"failed":   failed,
	}).Info("Repontuação de leads concluída")

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = time.Now()
	s.syncMutex.Unlock()
}

// persistPredictions grava as predições com um pool de workers limitado.
// Falha em um lead é registrada e contada, nunca interrompe o passe.
func (s *LeadRescoreService) persistPredictions(leads []*domain.Lead, probabilities []float64) (int, int) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	var mu sync.Mutex
	scored := 0
	failed := 0

	for i, lead := range leads {
		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(lead *domain.Lead, probability float64) {
			defer func() {
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			prediction := s.scoringService.BuildPrediction(probability, lead.Engagement)

			if err := s.leadRepo.SavePrediction(lead.ID, prediction); err != nil {
				logrus.WithFields(logrus.Fields{
					"lead_id": lead.ID,
					"error":   err.Error(),
				}).Error("Erro ao salvar predição do lead")

				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			scored++
			mu.Unlock()
		}(lead, probabilities[i])
	}

	wg.Wait()

	return scored, failed
}

// TriggerManualSync inicia manualmente uma repontuação da base de leads
func (s *LeadRescoreService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Repontuação de leads já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando repontuação manual de leads")
	go s.rescoreAllLeads(context.Background())
}

// GetStatus retorna o status atual do agendador. Os campos last_sync_* são
// escritos pela goroutine de repontuação; a leitura compartilha o syncMutex.
func (s *LeadRescoreService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_scored":       s.lastSyncScored,
		"last_sync_failed":       s.lastSyncFailed,
	}
}
