package scoring

import "errors"

var (
	ErrLeadNotFound = errors.New("lead não encontrado")
)
