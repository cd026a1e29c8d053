// Package legacydb reads the legacy practice-management SQL Server database
// as a migration source. Only the handful of queries the migration needs are
// exposed; the rest of the legacy schema stays untouched.
package legacydb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/source"
)

// Store is one open connection to the legacy database.
type Store struct {
	db *sql.DB
}

// Connect opens and verifies the legacy connection. Failure here is fatal
// for the whole run; there is nothing to migrate without a source.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL Server connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach SQL Server: %w", err)
	}

	log.Info().Msg("SQL Server connection initialized successfully")
	return &Store{db: db}, nil
}

// Close closes the connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NationalityMap loads the id-to-name nationality mapping once per run.
// A missing or unreadable table degrades to an empty map: nationality then
// falls back to stringified ids rather than failing the patient stage.
func (s *Store) NationalityMap(ctx context.Context) map[int]string {
	rows, err := s.db.QueryContext(ctx, "SELECT ID, Name FROM Nationality")
	if err != nil {
		log.Warn().Err(err).Msg("Could not load nationalities, ids will pass through")
		return map[int]string{}
	}
	defer rows.Close()

	mapping := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			log.Warn().Err(err).Msg("Failed to read nationality row")
			continue
		}
		mapping[id] = name
	}
	if err := rows.Err(); err != nil {
		log.Warn().Err(err).Msg("Nationality scan ended early")
	}

	log.Info().Int("nationalities", len(mapping)).Msg("Loaded nationality mapping")
	return mapping
}

// ActivePatients iterates the active customer rows that become patients.
func (s *Store) ActivePatients(ctx context.Context) (source.Iterator, error) {
	query := `
		SELECT ID, COMPANY, FIRST_NM, LAST_NM, FATHER_NM, MOTHER, ID_NO, BDATE, GENDER,
		       MARITALSTATUS, NATIONALITY, PHONE, MOBILE, EMAIL, ADDR1, ADDR2, CITY,
		       STATE, ZIP, Bloodgroup, allergies
		FROM CUST WHERE ACTIVE = 1`
	return s.query(ctx, "patients", query)
}

// Vendors iterates the vendor rows that the provider filter and name parser
// turn into doctors.
func (s *Store) Vendors(ctx context.Context) (source.Iterator, error) {
	return s.query(ctx, "vendors", "SELECT VENDSRH, COMPANY, PHONE, CONTACT FROM Vend")
}

func (s *Store) query(ctx context.Context, entity, query string) (source.Iterator, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", entity, err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read %s columns: %w", entity, err)
	}
	return &rowIterator{rows: rows, cols: cols}, nil
}

// rowIterator adapts *sql.Rows to the source contract, mapping every row by
// column name with driver-native values left untyped.
type rowIterator struct {
	rows *sql.Rows
	cols []string
	err  error
}

func (it *rowIterator) Next() (source.Row, bool) {
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return nil, false
	}

	values := make([]any, len(it.cols))
	ptrs := make([]any, len(it.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := it.rows.Scan(ptrs...); err != nil {
		it.err = err
		return nil, false
	}

	row := make(source.Row, len(it.cols))
	for i, col := range it.cols {
		if values[i] != nil {
			row[col] = values[i]
		}
	}
	return row, true
}

func (it *rowIterator) Err() error { return it.err }

func (it *rowIterator) Close() error { return it.rows.Close() }
