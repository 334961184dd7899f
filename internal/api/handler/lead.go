package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/internal/usecases/resolving"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/leadflow/lead-manager-api/pkg/apiErrors"
	"github.com/leadflow/lead-manager-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// CreateLeadRequest é o payload dos canais públicos de entrada (formulário
// de contato, pedido de demo, signup). Só o email é obrigatório.
type CreateLeadRequest struct {
	Email      string         `json:"email"`
	Name       string         `json:"name"`
	Company    string         `json:"company"`
	Phone      string         `json:"phone"`
	Service    string         `json:"service"`
	Message    string         `json:"message"`
	Note       string         `json:"note"`
	SourceType string         `json:"source_type"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// CreateLead recebe um toque de qualquer canal de entrada. Toques repetidos
// do mesmo email atualizam o registro canônico em vez de criar outro.
func CreateLead(resolver resolving.Resolver, tracker tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateLeadRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		patch := &domain.LeadPatch{
			Name:       req.Name,
			Company:    req.Company,
			Phone:      req.Phone,
			Service:    req.Service,
			Message:    req.Message,
			Note:       req.Note,
			SourceType: req.SourceType,
			Metadata:   req.Metadata,
		}

		lead, err := resolver.ResolveOrCreate(req.Email, patch)
		if err != nil {
			logrus.Error(err)

			if errors.Is(err, resolving.ErrInvalidEmail) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidEmail, "Email inválido", nil)
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao registrar lead", nil)
			return
		}

		// No insert o banco preenche created_at e updated_at com o mesmo
		// now(); no merge só updated_at avança.
		status := http.StatusCreated
		if !lead.CreatedAt.Equal(lead.UpdatedAt) {
			status = http.StatusOK
		}

		// Pedido de demo é o único canal que carrega intenção explícita;
		// os demais contadores vêm dos eventos de engajamento.
		if req.SourceType == domain.SourceDemoRequest {
			bumped, err := tracker.Bump(lead.ID, tracking.BumpRequest{
				Field:    string(domain.FieldDemoRequested),
				Metadata: req.Metadata,
			})
			if err != nil {
				logrus.WithError(err).WithField("lead_id", lead.ID).
					Warn("Falha ao contabilizar pedido de demo")
			} else {
				lead = bumped
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(lead); err != nil {
			logrus.Error(err)
		}
	}
}

// ListLeads lista todos os leads ordenados do mais recente para o mais antigo.
// Aceita os filtros opcionais start_date e end_date (YYYY-MM-DD) sobre a data
// de criação.
func ListLeads(resolver resolving.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startDate, err := utils.ParseDate(r.URL.Query().Get("start_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Data inicial inválida, use o formato YYYY-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseDate(r.URL.Query().Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Data final inválida, use o formato YYYY-MM-DD", nil)
			return
		}

		leads, err := resolver.ListLeads()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar leads", nil)
			return
		}

		leads = filterLeadsByCreation(leads, startDate, endDate)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(leads); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// filterLeadsByCreation aplica o recorte de datas sobre a data de criação.
// Data zerada significa limite ausente; end_date é inclusivo até o fim do dia.
func filterLeadsByCreation(leads []*domain.Lead, startDate, endDate *time.Time) []*domain.Lead {
	if startDate.IsZero() && endDate.IsZero() {
		return leads
	}

	filtered := make([]*domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if !startDate.IsZero() && lead.CreatedAt.Before(*startDate) {
			continue
		}
		if !endDate.IsZero() && !lead.CreatedAt.Before(endDate.AddDate(0, 0, 1)) {
			continue
		}
		filtered = append(filtered, lead)
	}

	return filtered
}

// GetLead retorna um lead pelo ID
func GetLead(resolver resolving.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do lead não fornecido", nil)
			return
		}

		lead, err := resolver.GetLead(id)
		if err != nil {
			if errors.Is(err, resolving.ErrLeadNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrLeadNotFound, "Lead não encontrado", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar lead", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lead); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}
