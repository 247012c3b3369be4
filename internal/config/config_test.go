package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, 15*time.Minute, cfg.JWT.MagicLinkTTL)
	assert.Equal(t, "http://localhost:3000/cart", cfg.Stripe.CancelURL)
	assert.Contains(t, cfg.Stripe.SuccessURL, "{CHECKOUT_SESSION_ID}")
	assert.Equal(t, "https://services.leadconnectorhq.com", cfg.CRM.BaseURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STRIPE_CURRENCY", "EUR")
	t.Setenv("GHL_ACCESS_TIERS", "gold, platinum ,")
	t.Setenv("PUBLIC_BASE_URL", "https://courses.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, []string{"gold", "platinum"}, cfg.CRM.AccessTiers)
	assert.Equal(t, "https://courses.example.com", cfg.App.PublicBaseURL)
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "production"},
		JWT:    JWTConfig{Secret: defaultJWTSecret},
		Stripe: StripeConfig{Currency: "usd"},
		Email:  EmailConfig{Provider: "smtp"},
	}
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWT.Secret = "real-secret"
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")

	cfg.Database.Password = "pw"
	assert.ErrorContains(t, cfg.Validate(), "STRIPE_SECRET_KEY")

	cfg.Stripe.SecretKey = "sk_live_x"
	cfg.Stripe.WebhookSecret = "whsec_x"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ResendNeedsAPIKey(t *testing.T) {
	cfg := &Config{
		Stripe: StripeConfig{Currency: "usd"},
		Email:  EmailConfig{Provider: "resend"},
	}
	assert.ErrorContains(t, cfg.Validate(), "RESEND_API_KEY")
}
