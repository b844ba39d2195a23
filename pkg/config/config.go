package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del servicio (Viper: env vars con prioridad, .env opcional).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	Workflow  WorkflowConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production, memory
	Name string
}

// UsesMemoryStore indica si el motor corre sobre el almacén en memoria (demos, sin PostgreSQL).
func (c AppConfig) UsesMemoryStore() bool {
	return c.Env == "memory"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL      string
	Host             string
	Port             int
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxConns         int
	StatementTimeout time.Duration
	LockTimeout      time.Duration
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// MigrateURL devuelve el DSN con el esquema pgx5:// que espera golang-migrate.
func (c DBConfig) MigrateURL() string {
	dsn := c.ConnectionString()
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// JWTConfig configuración de JWT. Los tokens se emiten fuera de este servicio.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig configuración del almacén de claves de idempotencia.
// Addr vacío = almacén en memoria del proceso.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// WorkflowConfig controla reintentos y timeouts de las transacciones del motor.
type WorkflowConfig struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
	TxTimeout      time.Duration
}

// TelemetryConfig exportación de trazas OpenTelemetry (OTLP gRPC).
// Deshabilitado, los spans del motor quedan en el proveedor no-op.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string // host:puerto del collector, ej. localhost:4317
	Insecure          bool
	SamplingRatio     float64 // 0..1
	ServiceName       string
}

// LogConfig nivel de log (trace, debug, info, warn, error).
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env / config.env).
// Nombres esperados: APP_ENV, DB_HOST, DB_LOCK_TIMEOUT, WORKFLOW_MAX_RETRIES, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "erp-workflow"),
		},
		DB: DBConfig{
			DatabaseURL:      getString(v, "DATABASE_URL", ""),
			Host:             getString(v, "DB_HOST", "localhost"),
			Port:             getInt(v, "DB_PORT", 5432),
			User:             getString(v, "DB_USER", "postgres"),
			Password:         getString(v, "DB_PASSWORD", ""),
			DBName:           getString(v, "DB_NAME", "erp"),
			SSLMode:          getString(v, "DB_SSLMODE", "disable"),
			MaxConns:         getInt(v, "DB_MAX_CONNS", 25),
			StatementTimeout: getDuration(v, "DB_STATEMENT_TIMEOUT", 30*time.Second),
			LockTimeout:      getDuration(v, "DB_LOCK_TIMEOUT", 5*time.Second),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "erp-auth"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:           getString(v, "REDIS_ADDR", ""),
			Password:       getString(v, "REDIS_PASSWORD", ""),
			DB:             getInt(v, "REDIS_DB", 0),
			IdempotencyTTL: getDuration(v, "IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Workflow: WorkflowConfig{
			MaxRetries:     getInt(v, "WORKFLOW_MAX_RETRIES", 3),
			RetryBaseDelay: getDuration(v, "WORKFLOW_RETRY_BASE_DELAY", 50*time.Millisecond),
			TxTimeout:      getDuration(v, "WORKFLOW_TX_TIMEOUT", 15*time.Second),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           getBool(v, "OTEL_ENABLED", false),
			CollectorEndpoint: getString(v, "OTEL_COLLECTOR_ENDPOINT", "localhost:4317"),
			Insecure:          getBool(v, "OTEL_INSECURE", true),
			SamplingRatio:     getFloat(v, "OTEL_SAMPLING_RATIO", 1.0),
			ServiceName:       getString(v, "OTEL_SERVICE_NAME", "erp-workflow"),
		},
	}

	if cfg.Workflow.MaxRetries < 0 {
		return nil, fmt.Errorf("config: WORKFLOW_MAX_RETRIES no puede ser negativo")
	}
	if cfg.Telemetry.SamplingRatio < 0 || cfg.Telemetry.SamplingRatio > 1 {
		return nil, fmt.Errorf("config: OTEL_SAMPLING_RATIO debe estar entre 0 y 1, llegó %v", cfg.Telemetry.SamplingRatio)
	}
	if cfg.DB.MaxConns <= 0 {
		return nil, fmt.Errorf("config: DB_MAX_CONNS debe ser mayor a cero")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if !v.IsSet(key) {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return def
	}
	return f
}

// getDuration acepta "5s", "250ms" o un entero en milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
