package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_USER", "marketplace")
	t.Setenv("DB_NAME", "marketplace")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "usd", cfg.PaymentCurrency)
	assert.Equal(t, 15*time.Second, cfg.ProcessorTimeout)
	assert.Equal(t, int64(4000), cfg.DefaultJobAmountCents)
	assert.Equal(t, int64(1000), cfg.OrderNumberStart)
	assert.Equal(t, int64(0), cfg.CommissionBps)
	assert.False(t, cfg.RequireDriverImageVerification)
	assert.Equal(t, "@every 1m", cfg.ReconcileSchedule)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COMMISSION_BPS", "1500")
	t.Setenv("PROCESSOR_TIMEOUT", "3s")
	t.Setenv("REQUIRE_DRIVER_IMAGE_VERIFICATION", "true")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, int64(1500), cfg.CommissionBps)
	assert.Equal(t, 3*time.Second, cfg.ProcessorTimeout)
	assert.True(t, cfg.RequireDriverImageVerification)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	err := Config{}.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	assert.Contains(t, err.Error(), "DEFAULT_JOB_AMOUNT_CENTS")
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSslMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
