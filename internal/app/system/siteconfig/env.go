package siteconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// PublicEnv holds values that are substituted into generated documents from
// the process environment rather than the profile file: PWA screenshots and
// search-engine verification tokens.
type PublicEnv struct {
	ScreenshotMobile   string `env:"PWA_SCREENSHOT_MOBILE"`
	ScreenshotDesktop  string `env:"PWA_SCREENSHOT_DESKTOP"`
	GoogleVerification string `env:"GOOGLE_VERIFICATION"`
	YandexVerification string `env:"YANDEX_VERIFICATION"`
}

// LoadPublicEnv parses PublicEnv from STARTERKIT_PUBLIC_* variables.
func LoadPublicEnv() (PublicEnv, error) {
	var pe PublicEnv
	if err := env.ParseWithOptions(&pe, env.Options{Prefix: "STARTERKIT_PUBLIC_"}); err != nil {
		return PublicEnv{}, fmt.Errorf("parse public env: %w", err)
	}
	return pe, nil
}
