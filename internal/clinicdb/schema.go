package clinicdb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/metrics"
)

// Tables lists every schema table in creation order. Relationships are
// carried as plain source-id columns, not foreign keys, so stages can load
// in any order and reference rows that arrive later or never.
var Tables = []string{
	"patients",
	"doctors",
	"patient_relationships",
	"appointments",
	"treatments",
	"invoices",
	"invoice_items",
	"payments",
	"inventory",
	"migration_log",
}

// tableDDL holds one CREATE TABLE IF NOT EXISTS per table. Categorical
// columns are free VARCHARs on purpose: source systems disagree on their
// vocabularies and the cleaners normalize values in code, where the rules
// can be tested.
var tableDDL = map[string]string{
	"patients": `
		CREATE TABLE IF NOT EXISTS patients (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			father_name VARCHAR(100),
			mother_name VARCHAR(100),
			id_nb VARCHAR(50),
			date_of_birth DATE,
			gender VARCHAR(10),
			marital_status VARCHAR(20),
			nationality VARCHAR(100),
			phone VARCHAR(50),
			phone_alt VARCHAR(50),
			email VARCHAR(255),
			address_line1 VARCHAR(255),
			address_line2 VARCHAR(255),
			city VARCHAR(100),
			state VARCHAR(100),
			zip_code VARCHAR(20),
			blood_group VARCHAR(10),
			allergies TEXT,
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_patients_source_id (source_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"doctors": `
		CREATE TABLE IF NOT EXISTS doctors (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			title VARCHAR(20),
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			specialization VARCHAR(100),
			qualification VARCHAR(255),
			license_number VARCHAR(50),
			phone VARCHAR(50),
			phone_alt VARCHAR(50),
			email VARCHAR(255),
			consultation_fee DECIMAL(10,2),
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_doctors_source_id (source_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"patient_relationships": `
		CREATE TABLE IF NOT EXISTS patient_relationships (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			patient_id VARCHAR(50),
			related_patient_id VARCHAR(50),
			relationship_type VARCHAR(50),
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_patient_relationships_source_id (source_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"appointments": `
		CREATE TABLE IF NOT EXISTS appointments (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			patient_id VARCHAR(50),
			doctor_id VARCHAR(50),
			appointment_date DATE,
			appointment_time TIME,
			duration_minutes INT,
			room VARCHAR(50),
			status VARCHAR(20),
			notes TEXT,
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_appointments_source_id (source_id),
			KEY idx_appointments_patient (patient_id),
			KEY idx_appointments_doctor (doctor_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"treatments": `
		CREATE TABLE IF NOT EXISTS treatments (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			patient_id VARCHAR(50),
			doctor_id VARCHAR(50),
			tooth_number VARCHAR(10),
			procedure_code VARCHAR(50),
			procedure_name VARCHAR(255),
			procedure_group VARCHAR(100),
			treatment_plan VARCHAR(255),
			status VARCHAR(20),
			price DECIMAL(10,2),
			planned_date DATE,
			start_date DATE,
			completion_date DATE,
			notes TEXT,
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_treatments_source_id (source_id),
			KEY idx_treatments_patient (patient_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"invoices": `
		CREATE TABLE IF NOT EXISTS invoices (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			patient_id VARCHAR(50),
			doctor_id VARCHAR(50),
			invoice_date DATE,
			due_date DATE,
			status VARCHAR(20),
			currency VARCHAR(10),
			discount_type VARCHAR(20),
			discount_value DECIMAL(10,2),
			total_amount DECIMAL(10,2),
			amount_paid DECIMAL(10,2),
			balance_due DECIMAL(10,2),
			notes TEXT,
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_invoices_source_id (source_id),
			KEY idx_invoices_patient (patient_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"invoice_items": `
		CREATE TABLE IF NOT EXISTS invoice_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			invoice_id VARCHAR(50),
			description VARCHAR(255),
			unit_price DECIMAL(10,2),
			quantity INT,
			total_amount DECIMAL(10,2),
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_invoice_items_source_id (source_id),
			KEY idx_invoice_items_invoice (invoice_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"payments": `
		CREATE TABLE IF NOT EXISTS payments (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			invoice_id VARCHAR(50),
			patient_id VARCHAR(50),
			payment_method VARCHAR(50),
			amount DECIMAL(10,2),
			original_amount DECIMAL(10,2),
			currency VARCHAR(10),
			reference_number VARCHAR(100),
			payment_date DATE,
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			deleted_at TIMESTAMP NULL DEFAULT NULL,
			UNIQUE KEY uq_payments_source_id (source_id),
			KEY idx_payments_invoice (invoice_id),
			KEY idx_payments_patient (patient_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"inventory": `
		CREATE TABLE IF NOT EXISTS inventory (
			id INT AUTO_INCREMENT PRIMARY KEY,
			source_id VARCHAR(50) NOT NULL,
			category VARCHAR(100),
			name VARCHAR(255),
			sku VARCHAR(100),
			description TEXT,
			unit_of_measure VARCHAR(50),
			size VARCHAR(50),
			quantity_in_stock DECIMAL(10,2),
			unit_size DECIMAL(10,2),
			average_purchase_price DECIMAL(10,2),
			selling_price DECIMAL(10,2),
			minimum_quantity_warning DECIMAL(10,2),
			minimum_quantity_critical DECIMAL(10,2),
			currency VARCHAR(10),
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			deleted_at TIMESTAMP NULL DEFAULT NULL,
			UNIQUE KEY uq_inventory_source_id (source_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"migration_log": `
		CREATE TABLE IF NOT EXISTS migration_log (
			id INT AUTO_INCREMENT PRIMARY KEY,
			table_name VARCHAR(64) NOT NULL,
			source_id VARCHAR(50),
			operation VARCHAR(20),
			status VARCHAR(20),
			message TEXT,
			created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_migration_log_row (table_name, source_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// CreateDatabase creates the target database on a server-level connection
// (a DSN without a database selected).
func CreateDatabase(ctx context.Context, serverDSN, name string) error {
	server, err := Connect(ctx, serverDSN)
	if err != nil {
		return err
	}
	defer server.Close()

	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", name)
	if _, err := server.sqlDB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	log.Info().Str("database", name).Msg("Database ready")
	return nil
}

// CreateAll creates every schema table, skipping ones that already exist.
func (db *DB) CreateAll(ctx context.Context) error {
	for _, table := range Tables {
		start := time.Now()
		_, err := db.sqlDB.ExecContext(ctx, tableDDL[table])
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordMySQLOperation("create_table", status)
		metrics.RecordMySQLOperationDuration("create_table", time.Since(start))

		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
		log.Info().Str("table", table).Msg("Table ready")
	}
	return nil
}

// TruncateAll empties every data table. migration_log is kept; it is the
// audit trail across runs.
func (db *DB) TruncateAll(ctx context.Context) error {
	for _, table := range Tables {
		if table == "migration_log" {
			continue
		}
		if _, err := db.sqlDB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		log.Info().Str("table", table).Msg("Table truncated")
	}
	return nil
}

// Count returns the row count of one table.
func (db *DB) Count(ctx context.Context, table string) (int, error) {
	var n int
	if err := db.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// Counts returns row counts for every data table, for end-of-run
// verification.
func (db *DB) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		if table == "migration_log" {
			continue
		}
		n, err := db.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}
