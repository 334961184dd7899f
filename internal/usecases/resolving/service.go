package resolving

import (
	"context"
	"regexp"
	"strings"

	"github.com/leadflow/lead-manager-api/infrastructure/repository"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail reduz o email à forma canônica usada como identidade do
// lead: minúsculas e sem espaços nas pontas.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// MergeReport resume um passe de deduplicação
type MergeReport struct {
	GroupsMerged int `json:"groups_merged"`
	LeadsRemoved int `json:"leads_removed"`
}

type Resolver interface {
	ResolveOrCreate(rawEmail string, patch *domain.LeadPatch) (*domain.Lead, error)
	GetLead(id string) (*domain.Lead, error)
	ListLeads() ([]*domain.Lead, error)
	DeduplicateLeads(ctx context.Context) (*MergeReport, error)
}

type Service struct {
	leadRepo repository.LeadRepository
}

func NewService(leadRepo repository.LeadRepository) Resolver {
	return &Service{
		leadRepo: leadRepo,
	}
}

// ResolveOrCreate é o único caminho de entrada de toques de leads: normaliza
// o email, valida e delega ao upsert atômico. Dois toques concorrentes do
// mesmo email nunca criam dois registros.
func (s *Service) ResolveOrCreate(rawEmail string, patch *domain.LeadPatch) (*domain.Lead, error) {
	email := NormalizeEmail(rawEmail)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if patch == nil {
		patch = &domain.LeadPatch{}
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	return s.leadRepo.UpsertLead(id, email, patch)
}

func (s *Service) GetLead(id string) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetLeadByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

func (s *Service) ListLeads() ([]*domain.Lead, error) {
	return s.leadRepo.ListLeads()
}

// DeduplicateLeads executa o passe de consolidação de registros que
// compartilham o mesmo email normalizado. O índice único é removido durante
// o passe e recriado ao final, mesmo quando um merge falha. O passe é
// idempotente: sem duplicados, nada muda.
func (s *Service) DeduplicateLeads(ctx context.Context) (*MergeReport, error) {
	if err := s.leadRepo.DropEmailUniqueIndex(); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.leadRepo.EnsureEmailUniqueIndex(); err != nil {
			logrus.WithError(err).Error("Falha ao recriar índice único de email após deduplicação")
		}
	}()

	groups, err := s.leadRepo.ListDuplicateGroups()
	if err != nil {
		return nil, err
	}

	report := &MergeReport{}

	for _, group := range groups {
		survivor := mergeGroup(group)

		duplicateIDs := make([]string, 0, len(group)-1)
		for _, duplicate := range group[1:] {
			duplicateIDs = append(duplicateIDs, duplicate.ID)
		}

		if err := s.leadRepo.MergeInto(ctx, survivor, duplicateIDs); err != nil {
			return nil, err
		}

		logrus.WithFields(logrus.Fields{
			"email":    survivor.Email,
			"survivor": survivor.ID,
			"removed":  len(duplicateIDs),
		}).Info("Grupo de leads duplicados consolidado")

		report.GroupsMerged++
		report.LeadsRemoved += len(duplicateIDs)
	}

	return report, nil
}
