package tracking

import "errors"

var (
	ErrInvalidField = errors.New("campo de engajamento inválido")
	ErrLeadNotFound = errors.New("lead não encontrado")
)
