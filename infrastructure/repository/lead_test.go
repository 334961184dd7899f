package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leadflow/lead-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewInboundMessageCarriesTimestamp(t *testing.T) {
	before := time.Now().UTC()

	msg := newInboundMessage(&domain.LeadPatch{
		Message:    "quero um orçamento",
		SourceType: "Contact Form",
	})

	assert.Equal(t, "quero um orçamento", msg.Content)
	assert.Equal(t, "Contact Form", msg.Source)
	assert.False(t, msg.Timestamp.IsZero())
	assert.False(t, msg.Timestamp.Before(before))
	assert.False(t, msg.Timestamp.After(time.Now().UTC()))
}

func TestInboundMessagePayloadHasTimestamp(t *testing.T) {
	payload, err := json.Marshal([]domain.Message{newInboundMessage(&domain.LeadPatch{
		Message:    "quero um orçamento",
		SourceType: "Contact Form",
	})})

	assert.NoError(t, err)
	assert.NotContains(t, string(payload), "0001-01-01T00:00:00Z")

	var decoded []domain.Message
	assert.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Len(t, decoded, 1)
	assert.False(t, decoded[0].Timestamp.IsZero())
}
