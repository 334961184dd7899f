package resolving

import "errors"

var (
	ErrInvalidEmail = errors.New("email inválido")
	ErrLeadNotFound = errors.New("lead não encontrado")
)
