package services

import "errors"

// Common service errors
var (
	ErrNotFound       = errors.New("registro não encontrado")
	ErrUnauthorized   = errors.New("não autorizado")
	ErrForbidden      = errors.New("acesso negado")
	ErrInvalidState   = errors.New("transição de status inválida")
	ErrDuplicate      = errors.New("registro duplicado")
	ErrValidation     = errors.New("dados inválidos")
	ErrFolderNotEmpty = errors.New("a pasta não está vazia")
	ErrUpstream       = errors.New("serviço de geometria indisponível")
)
