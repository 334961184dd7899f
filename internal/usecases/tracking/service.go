package tracking

import (
	"strings"
	"time"

	"github.com/leadflow/lead-manager-api/infrastructure/repository"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/sirupsen/logrus"
)

// BumpRequest descreve um evento de engajamento vindo do cliente. Field é
// texto livre até passar pela whitelist; Metadata viaja para o log de
// atividades sem interpretação.
type BumpRequest struct {
	Field     string         `json:"field"`
	SessionID string         `json:"session_id"`
	Page      string         `json:"page"`
	Duration  int            `json:"duration"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type Tracker interface {
	Bump(id string, req BumpRequest) (*domain.Lead, error)
	TrackOpen(id string)
}

type Service struct {
	leadRepo repository.LeadRepository
}

func NewService(leadRepo repository.LeadRepository) Tracker {
	return &Service{
		leadRepo: leadRepo,
	}
}

// ParseEngagementField valida o nome de campo vindo do cliente contra a
// whitelist de contadores incrementáveis. Nada fora dela chega ao banco.
func ParseEngagementField(raw string) (domain.EngagementField, bool) {
	field := domain.EngagementField(strings.TrimSpace(raw))
	return field, field.Valid()
}

// Bump incrementa atomicamente o contador pedido e registra o evento no log
// de atividades. A validação do campo acontece antes de qualquer acesso ao
// armazenamento.
func (s *Service) Bump(id string, req BumpRequest) (*domain.Lead, error) {
	field, ok := ParseEngagementField(req.Field)
	if !ok {
		return nil, ErrInvalidField
	}

	lead, err := s.leadRepo.IncrementEngagement(id, field)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	entry := domain.ActivityEntry{
		Action:    string(field),
		Timestamp: time.Now().UTC(),
		SessionID: req.SessionID,
		Metadata:  req.Metadata,
	}
	if err := s.leadRepo.AppendActivity(id, entry); err != nil {
		// O contador já foi persistido; o log de atividades é best-effort
		logrus.WithError(err).WithField("lead_id", id).
			Warn("Falha ao registrar atividade de engajamento")
	}

	if req.SessionID != "" {
		if err := s.leadRepo.RecordSession(id, req.SessionID, req.Page, req.Duration); err != nil {
			logrus.WithError(err).WithField("lead_id", id).
				Warn("Falha ao registrar sessão de navegação")
		}
	}

	return lead, nil
}

// TrackOpen registra a abertura de email sinalizada pelo pixel de
// rastreamento. Nunca propaga erro: cliente de email recebe o GIF mesmo
// quando o lead não existe ou o banco está fora.
func (s *Service) TrackOpen(id string) {
	lead, err := s.leadRepo.IncrementEngagement(id, domain.FieldEmailOpenCount)
	if err != nil {
		logrus.WithError(err).WithField("lead_id", id).
			Warn("Falha ao contabilizar abertura de email")
		return
	}
	if lead == nil {
		logrus.WithField("lead_id", id).Debug("Pixel de rastreamento para lead inexistente")
		return
	}

	entry := domain.ActivityEntry{
		Action:    string(domain.FieldEmailOpenCount),
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]any{"source": "tracking_pixel"},
	}
	if err := s.leadRepo.AppendActivity(id, entry); err != nil {
		logrus.WithError(err).WithField("lead_id", id).
			Warn("Falha ao registrar atividade de abertura de email")
	}
}
