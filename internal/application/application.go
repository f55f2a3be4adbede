// Package application exposes the whitelist application domain: the
// lifecycle service, its HTTP handler and the store implementations.
package application

import (
	"log/slog"

	"whitelist/internal/application/handler"
	"whitelist/internal/application/service"
	"whitelist/internal/application/store"
	"whitelist/internal/notify"
)

// Service is the lifecycle engine shared by both entry adapters.
type Service = service.Service

// Handler wires HTTP endpoints to the lifecycle service.
type Handler = handler.Handler

// NewService constructs the lifecycle service with required dependencies.
func NewService(st store.Store, notifier notify.Notifier, opts ...service.Option) *Service {
	return service.New(st, notifier, opts...)
}

// NewHandler constructs the HTTP handler for application routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
