package handlers

import (
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/gymapi/service"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	svc    *service.Services
	JWTKey []byte
	log    *zap.Logger
	now    func() time.Time
}

// New creates a Handler over the services and JWT signing key.
func New(svc *service.Services, jwtKey []byte, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, JWTKey: jwtKey, log: log, now: time.Now}
}
