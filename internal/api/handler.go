package api

import (
	"github.com/heroines-gacha/fights/internal/service"
	"github.com/heroines-gacha/fights/internal/stream"
)

// FightHandler groups all fight-related HTTP handlers.
type FightHandler struct {
	svc *service.Service
	hub *stream.Hub
}

// NewFightHandler creates a FightHandler. hub may be nil when streaming is
// not served.
func NewFightHandler(svc *service.Service, hub *stream.Hub) *FightHandler {
	return &FightHandler{svc: svc, hub: hub}
}
