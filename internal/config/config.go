package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every knob the migration binaries accept. One instance is
// loaded at startup and handed to each component constructor; nothing reads
// the environment after Load returns.
type Config struct {
	// Target MySQL store (the cleaned clinic schema).
	MySQLHost     string `mapstructure:"MYSQL_HOST"`
	MySQLPort     int    `mapstructure:"MYSQL_PORT"`
	MySQLUser     string `mapstructure:"MYSQL_USER"`
	MySQLPassword string `mapstructure:"MYSQL_PASSWORD"`
	MySQLDatabase string `mapstructure:"MYSQL_DATABASE"`

	// Legacy SQL Server source (practice-management system).
	MSSQLServer      string `mapstructure:"MSSQL_SERVER"`
	MSSQLDatabase    string `mapstructure:"MSSQL_DATABASE"`
	MSSQLUser        string `mapstructure:"MSSQL_USER"`
	MSSQLPassword    string `mapstructure:"MSSQL_PASSWORD"`
	MSSQLTrustedAuth bool   `mapstructure:"MSSQL_TRUSTED_AUTH"`

	// Excel workbook source.
	ExcelFile string `mapstructure:"EXCEL_FILE"`

	// Migration behavior.
	BatchSize     int    `mapstructure:"BATCH_SIZE"`
	TestMode      bool   `mapstructure:"TEST_MODE"`
	TestModeLimit int    `mapstructure:"TEST_MODE_LIMIT"`
	DebugMode     bool   `mapstructure:"DEBUG_MODE"`
	TruncateFirst bool   `mapstructure:"TRUNCATE_FIRST"`
	LogsDir       string `mapstructure:"LOGS_DIR"`

	// Normalization policies. Historical script variants disagreed on these,
	// so they are operator choices rather than hardcoded rules.
	GenderPolicy          string   `mapstructure:"GENDER_POLICY"` // strict | lenient
	PhonePolicy           string   `mapstructure:"PHONE_POLICY"`  // digits | whitespace
	DoctorExcludeKeywords []string `mapstructure:"DOCTOR_EXCLUDE_KEYWORDS"`

	// Observability.
	MetricsPort         string `mapstructure:"METRICS_PORT"`
	ElasticsearchURL    string `mapstructure:"ELASTICSEARCH_URL"`
	EnableSystemMetrics bool   `mapstructure:"ENABLE_SYSTEM_METRICS"`

	// Seed volumes (cmd/seed only).
	SeedRandomSeed   int64 `mapstructure:"SEED_RANDOM_SEED"`
	SeedDoctors      int   `mapstructure:"SEED_DOCTORS"`
	SeedPatients     int   `mapstructure:"SEED_PATIENTS"`
	SeedAppointments int   `mapstructure:"SEED_APPOINTMENTS"`
	SeedTreatments   int   `mapstructure:"SEED_TREATMENTS"`
	SeedInventory    int   `mapstructure:"SEED_INVENTORY"`
	SeedInvoices     int   `mapstructure:"SEED_INVOICES"`
}

// Load reads configuration from a .env file (if present) and the process
// environment, applies defaults, and unmarshals into a Config.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("MYSQL_HOST", "localhost")
	v.SetDefault("MYSQL_PORT", 3306)
	v.SetDefault("MYSQL_USER", "root")
	v.SetDefault("MYSQL_DATABASE", "patient_management_system")
	v.SetDefault("MSSQL_SERVER", "localhost")
	v.SetDefault("MSSQL_TRUSTED_AUTH", true)
	v.SetDefault("BATCH_SIZE", 50)
	v.SetDefault("TEST_MODE", false)
	v.SetDefault("TEST_MODE_LIMIT", 20)
	v.SetDefault("DEBUG_MODE", false)
	v.SetDefault("TRUNCATE_FIRST", false)
	v.SetDefault("LOGS_DIR", "logs")
	v.SetDefault("GENDER_POLICY", "strict")
	v.SetDefault("PHONE_POLICY", "digits")
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("SEED_DOCTORS", 15)
	v.SetDefault("SEED_PATIENTS", 500)
	v.SetDefault("SEED_APPOINTMENTS", 2000)
	v.SetDefault("SEED_TREATMENTS", 1500)
	v.SetDefault("SEED_INVENTORY", 120)
	v.SetDefault("SEED_INVOICES", 800)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"MYSQL_HOST", "MYSQL_PORT", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_DATABASE",
		"MSSQL_SERVER", "MSSQL_DATABASE", "MSSQL_USER", "MSSQL_PASSWORD", "MSSQL_TRUSTED_AUTH",
		"EXCEL_FILE", "BATCH_SIZE", "TEST_MODE", "TEST_MODE_LIMIT", "DEBUG_MODE",
		"TRUNCATE_FIRST", "LOGS_DIR", "GENDER_POLICY", "PHONE_POLICY",
		"DOCTOR_EXCLUDE_KEYWORDS", "METRICS_PORT", "ELASTICSEARCH_URL",
		"ENABLE_SYSTEM_METRICS", "SEED_RANDOM_SEED", "SEED_DOCTORS", "SEED_PATIENTS",
		"SEED_APPOINTMENTS", "SEED_TREATMENTS", "SEED_INVENTORY", "SEED_INVOICES",
	} {
		v.BindEnv(key)
	}

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Viper leaves comma-separated env lists as a single element.
	if len(cfg.DoctorExcludeKeywords) == 1 && strings.Contains(cfg.DoctorExcludeKeywords[0], ",") {
		cfg.DoctorExcludeKeywords = splitKeywords(cfg.DoctorExcludeKeywords[0])
	} else if len(cfg.DoctorExcludeKeywords) == 0 {
		if raw := v.GetString("DOCTOR_EXCLUDE_KEYWORDS"); raw != "" {
			cfg.DoctorExcludeKeywords = splitKeywords(raw)
		}
	}

	return cfg, nil
}

func splitKeywords(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks fields every command depends on. Store-specific settings
// are checked by the commands that use them.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	switch c.GenderPolicy {
	case "strict", "lenient":
	default:
		return fmt.Errorf("GENDER_POLICY must be \"strict\" or \"lenient\", got %q", c.GenderPolicy)
	}
	switch c.PhonePolicy {
	case "digits", "whitespace":
	default:
		return fmt.Errorf("PHONE_POLICY must be \"digits\" or \"whitespace\", got %q", c.PhonePolicy)
	}
	if c.MySQLDatabase == "" {
		return fmt.Errorf("MYSQL_DATABASE is required")
	}
	return nil
}

// MySQLDSN builds the go-sql-driver DSN for the target store.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

// MySQLServerDSN is MySQLDSN without a database, for schema creation.
func (c *Config) MySQLServerDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/?parseTime=true&charset=utf8mb4",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort)
}

// MSSQLDSN builds the go-mssqldb DSN for the legacy source.
func (c *Config) MSSQLDSN() string {
	if c.MSSQLTrustedAuth {
		return fmt.Sprintf("server=%s;database=%s;trusted_connection=yes", c.MSSQLServer, c.MSSQLDatabase)
	}
	return fmt.Sprintf("server=%s;database=%s;user id=%s;password=%s",
		c.MSSQLServer, c.MSSQLDatabase, c.MSSQLUser, c.MSSQLPassword)
}
