package testutil

import (
	"testing"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"go.uber.org/zap"
)

// NewSite returns a Site for the default profile with a no-op logger.
func NewSite(t *testing.T) *views.Site {
	t.Helper()
	logger := zap.NewNop()
	r, err := views.New(logger)
	if err != nil {
		t.Fatalf("views.New: %v", err)
	}
	return views.NewSite(siteconfig.Default(), siteconfig.PublicEnv{}, r, logger)
}
