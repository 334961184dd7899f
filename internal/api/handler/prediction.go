package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/leadflow/lead-manager-api/internal/scheduler"
	"github.com/leadflow/lead-manager-api/internal/usecases/resolving"
	"github.com/leadflow/lead-manager-api/internal/usecases/scoring"
	"github.com/leadflow/lead-manager-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// PredictLead repontua um único lead sob demanda e retorna o registro
// atualizado com a nova predição
func PredictLead(service scoring.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do lead não fornecido", nil)
			return
		}

		lead, err := service.ScoreLead(r.Context(), id)
		if err != nil {
			if errors.Is(err, scoring.ErrLeadNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrLeadNotFound, "Lead não encontrado", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao pontuar lead", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lead); err != nil {
			logrus.Error(err)
		}
	}
}

// PredictAllLeads dispara a repontuação da base inteira em background.
// Disparos com uma execução em andamento são ignorados pelo agendador.
func PredictAllLeads(rescoreService *scheduler.LeadRescoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rescoreService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de repontuação não disponível", nil)
			return
		}

		rescoreService.TriggerManualSync()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Repontuação da base de leads iniciada",
		})
	}
}

// MergeDuplicateLeads executa o passe de consolidação de leads duplicados e
// retorna o resumo do que foi consolidado
func MergeDuplicateLeads(resolver resolving.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - MergeDuplicateLeads")

		report, err := resolver.DeduplicateLeads(r.Context())
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consolidar leads duplicados", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logrus.Error(err)
		}
	}
}
