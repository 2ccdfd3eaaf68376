// internal/app/features/pages/handler.go
package pages

import (
	errorsfeature "github.com/dalemusser/starterkit/internal/app/features/errors"
	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"go.uber.org/zap"
)

// Handler owns the public page handlers.
type Handler struct {
	Site   *views.Site
	Errors *errorsfeature.Handler
	Log    *zap.Logger
}

// NewHandler constructs a Handler rendering through site. Unknown paths are
// answered by errs.
func NewHandler(site *views.Site, errs *errorsfeature.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		Site:   site,
		Errors: errs,
		Log:    logger,
	}
}
