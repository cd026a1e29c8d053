package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MySQLHost != "localhost" || cfg.MySQLPort != 3306 {
		t.Errorf("MySQL defaults = %s:%d", cfg.MySQLHost, cfg.MySQLPort)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("BatchSize = %d, want 50", cfg.BatchSize)
	}
	if cfg.GenderPolicy != "strict" || cfg.PhonePolicy != "digits" {
		t.Errorf("policies = %s/%s", cfg.GenderPolicy, cfg.PhonePolicy)
	}
	if len(cfg.DoctorExcludeKeywords) != 0 {
		t.Errorf("DoctorExcludeKeywords = %v, want empty by default", cfg.DoctorExcludeKeywords)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("BATCH_SIZE", "10")
	t.Setenv("GENDER_POLICY", "lenient")
	t.Setenv("DOCTOR_EXCLUDE_KEYWORDS", "lab, dental ,pharma")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MySQLHost != "db.internal" {
		t.Errorf("MySQLHost = %s", cfg.MySQLHost)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.GenderPolicy != "lenient" {
		t.Errorf("GenderPolicy = %s", cfg.GenderPolicy)
	}
	want := []string{"lab", "dental", "pharma"}
	if len(cfg.DoctorExcludeKeywords) != len(want) {
		t.Fatalf("keywords = %v, want %v", cfg.DoctorExcludeKeywords, want)
	}
	for i := range want {
		if cfg.DoctorExcludeKeywords[i] != want[i] {
			t.Errorf("keywords[%d] = %q, want %q", i, cfg.DoctorExcludeKeywords[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		BatchSize:     50,
		GenderPolicy:  "strict",
		PhonePolicy:   "digits",
		MySQLDatabase: "clinic",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "BATCH_SIZE"},
		{"bad gender policy", func(c *Config) { c.GenderPolicy = "maybe" }, "GENDER_POLICY"},
		{"bad phone policy", func(c *Config) { c.PhonePolicy = "letters" }, "PHONE_POLICY"},
		{"missing database", func(c *Config) { c.MySQLDatabase = "" }, "MYSQL_DATABASE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestDSNs(t *testing.T) {
	cfg := Config{
		MySQLHost: "localhost", MySQLPort: 3306, MySQLUser: "root",
		MySQLPassword: "secret", MySQLDatabase: "clinic",
		MSSQLServer: "legacy", MSSQLDatabase: "BizriDental",
	}

	dsn := cfg.MySQLDSN()
	if !strings.Contains(dsn, "root:secret@tcp(localhost:3306)/clinic") {
		t.Errorf("MySQLDSN = %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Error("MySQLDSN must parse time columns")
	}

	if strings.Contains(cfg.MySQLServerDSN(), "clinic") {
		t.Errorf("server DSN should not select a database: %s", cfg.MySQLServerDSN())
	}

	cfg.MSSQLTrustedAuth = true
	if !strings.Contains(cfg.MSSQLDSN(), "trusted_connection=yes") {
		t.Errorf("MSSQLDSN = %s", cfg.MSSQLDSN())
	}
	cfg.MSSQLTrustedAuth = false
	cfg.MSSQLUser = "svc"
	if !strings.Contains(cfg.MSSQLDSN(), "user id=svc") {
		t.Errorf("MSSQLDSN = %s", cfg.MSSQLDSN())
	}
}
