// internal/app/features/leadform/handler.go
package leadform

import (
	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/mailer"
	"github.com/dalemusser/starterkit/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler serves the lead form API and its modal.
type Handler struct {
	Site    *views.Site
	Mail    mailer.Sender
	MailTo  string
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

// NewHandler constructs a lead form Handler. Leads are mailed to mailTo.
func NewHandler(site *views.Site, mail mailer.Sender, mailTo string, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		Site:    site,
		Mail:    mail,
		MailTo:  mailTo,
		Limiter: limiter,
		Log:     logger,
	}
}
