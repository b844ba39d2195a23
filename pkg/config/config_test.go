package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, 3, cfg.Workflow.MaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("WORKFLOW_MAX_RETRIES", "7")
	t.Setenv("WORKFLOW_RETRY_BASE_DELAY", "20")
	t.Setenv("APP_ENV", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 7, cfg.Workflow.MaxRetries)
	assert.Equal(t, 20*time.Millisecond, cfg.Workflow.RetryBaseDelay)
	assert.True(t, cfg.App.UsesMemoryStore())
}

func TestLoad_RechazaReintentosNegativos(t *testing.T) {
	t.Setenv("WORKFLOW_MAX_RETRIES", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_MigrateURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://u:p@db:5432/erp?sslmode=disable"}
	assert.Equal(t, "pgx5://u:p@db:5432/erp?sslmode=disable", c.MigrateURL())

	c = DBConfig{User: "u", Password: "p@ss", Host: "h", Port: 5433, DBName: "x", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss@h:5433/x?sslmode=require", c.ConnectionString())
	assert.Equal(t, "pgx5://u:p%40ss@h:5433/x?sslmode=require", c.MigrateURL())
}

func TestLoad_Telemetria(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)

	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_COLLECTOR_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.25")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "otel:4317", cfg.Telemetry.CollectorEndpoint)
	assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)

	t.Setenv("OTEL_SAMPLING_RATIO", "1.5")
	_, err = Load()
	assert.Error(t, err)
}
