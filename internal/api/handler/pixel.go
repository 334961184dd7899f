package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/leadflow/lead-manager-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// TrackingPixel serve o GIF transparente de 1x1 embutido em emails e
// contabiliza a abertura. Sempre responde 200 com a imagem: o cliente de
// email nunca vê erro, mesmo para lead inexistente ou banco indisponível.
func TrackingPixel(tracker tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id != "" {
			tracker.TrackOpen(id)
		}

		// Cabeçalhos anti-cache para que cada abertura gere uma requisição
		w.Header().Set("Content-Type", "image/gif")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if _, err := w.Write(utils.TrackingPixel()); err != nil {
			logrus.WithError(err).Debug("Falha ao enviar pixel de rastreamento")
		}
	}
}
