package service

import "errors"

var (
	ErrAgentNotFound       = errors.New("agent not found")
	ErrInvalidAgent        = errors.New("invalid agent")
	ErrDeployFailed        = errors.New("failed to deploy agent")
	ErrAgentNotDeployed    = errors.New("agent is not deployed")
	ErrInvalidAction       = errors.New("invalid agent action")
	ErrInvalidPayment      = errors.New("invalid payment")
	ErrPaymentBlocked      = errors.New("payment blocked by policy")
	ErrIntegrationNotFound = errors.New("integration not found")
	ErrInvalidIntegration  = errors.New("invalid integration update")
)
