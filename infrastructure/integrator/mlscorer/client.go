package mlscorer

import (
	"bytes"
	"context"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/leadflow/lead-manager-api/internal/config"
	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/leadflow/lead-manager-api/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client é o contrato com o serviço externo de pontuação de conversão.
// A implementação é substituível (processo Python, serviço HTTP); o que é
// fixo é o contrato JSON: lista de vetores de features na entrada,
// {success, predictions, error} na saída.
type Client interface {
	Predict(ctx context.Context, features []domain.MLFeatures) ([]float64, error)
}

type predictionResponse struct {
	Success     bool      `json:"success"`
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

type predictionRequest struct {
	Features []domain.MLFeatures `json:"features"`
}

type ScorerClient struct {
	httpClient *http.Client
	config     *config.Config
}

func NewClient(cfg *config.Config) Client {
	return &ScorerClient{
		// O timeout fino (single vs. batch) vem do contexto do chamador; o
		// timeout do client é só uma barreira contra conexões penduradas.
		httpClient: &http.Client{},
		config:     cfg,
	}
}

// Predict envia os vetores de features e devolve as probabilidades na mesma
// ordem. Qualquer falha (status, success=false, corpo malformado, tamanho
// divergente) é tratada como falha total da chamada.
func (c *ScorerClient) Predict(ctx context.Context, features []domain.MLFeatures) ([]float64, error) {
	payload, err := json.Marshal(predictionRequest{Features: features})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao serializar features para o scorer")
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("Payload enviado ao scorer: %s", utils.PrettyJson(payload))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.MLScorer.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao montar requisição para o scorer")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao chamar o scorer externo")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler resposta do scorer")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("scorer retornou status %d", resp.StatusCode)
	}

	var result predictionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "resposta do scorer malformada")
	}

	if !result.Success {
		return nil, errors.Errorf("scorer retornou falha: %s", result.Error)
	}

	if len(result.Predictions) != len(features) {
		return nil, errors.Errorf(
			"scorer retornou %d predições para %d leads",
			len(result.Predictions), len(features),
		)
	}

	return result.Predictions, nil
}
