package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/leadflow/lead-manager-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// BumpEngagement incrementa um contador de engajamento do lead. O nome do
// campo vem do cliente e passa pela whitelist antes de tocar o banco.
func BumpEngagement(tracker tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do lead não fornecido", nil)
			return
		}

		var req tracking.BumpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		lead, err := tracker.Bump(id, req)
		if err != nil {
			switch {
			case errors.Is(err, tracking.ErrInvalidField):
				apiErrors.WriteError(w, apiErrors.ErrInvalidEngagementField,
					"Campo de engajamento não permitido", map[string]any{"field": req.Field})

			case errors.Is(err, tracking.ErrLeadNotFound):
				apiErrors.WriteError(w, apiErrors.ErrLeadNotFound, "Lead não encontrado", nil)

			default:
				logrus.Error(err)
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao registrar engajamento", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lead); err != nil {
			logrus.Error(err)
		}
	}
}
