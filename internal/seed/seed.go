// Package seed fills the clinic schema with generated data for analytics
// and migration rehearsal: several years of patients, visits, treatments and
// billing with realistic show rates and payment behavior. Runs are
// reproducible when a random seed is configured.
package seed

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
	"toothpickeve.com/migrate/internal/config"
)

// Generation window and business rates. The window deliberately extends past
// today so schedules contain future appointments.
var (
	windowStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
)

const (
	showRate        = 0.85
	completionRate  = 0.75
	payFullRate     = 0.70
	payPartialRate  = 0.20
	relationshipPct = 0.10
)

// Generator produces one consistent dummy dataset.
type Generator struct {
	cfg   *config.Config
	db    *clinicdb.DB
	faker *gofakeit.Faker
}

// NewGenerator wires a generator. A zero random seed means a different
// dataset every run.
func NewGenerator(cfg *config.Config, db *clinicdb.DB) *Generator {
	return &Generator{
		cfg:   cfg,
		db:    db,
		faker: gofakeit.New(cfg.SeedRandomSeed),
	}
}

// Run generates the full dataset in dependency order and logs summary
// counts at the end.
func (g *Generator) Run(ctx context.Context) error {
	if g.cfg.TruncateFirst {
		if err := g.db.TruncateAll(ctx); err != nil {
			return err
		}
	}

	doctors, err := g.generateDoctors(ctx)
	if err != nil {
		return err
	}
	patients, err := g.generatePatients(ctx)
	if err != nil {
		return err
	}
	if err := g.generateRelationships(ctx, patients); err != nil {
		return err
	}
	visits, err := g.generateAppointments(ctx, patients, doctors)
	if err != nil {
		return err
	}
	if err := g.generateTreatments(ctx, visits); err != nil {
		return err
	}
	if err := g.generateBilling(ctx, visits); err != nil {
		return err
	}
	if err := g.generateInventory(ctx); err != nil {
		return err
	}

	counts, err := g.db.Counts(ctx)
	if err != nil {
		return err
	}
	for _, table := range clinicdb.Tables {
		if n, ok := counts[table]; ok {
			log.Info().Str("table", table).Int("rows", n).Msg("Generated rows")
		}
	}
	return nil
}

func (g *Generator) generateDoctors(ctx context.Context) ([]string, error) {
	session := g.db.NewSession()
	defer session.Close()
	model := clinicdb.NewDoctorModel(session)
	f := g.faker

	ids := make([]string, 0, g.cfg.SeedDoctors)
	for i := 1; i <= g.cfg.SeedDoctors; i++ {
		fee := round2(f.Float64Range(50, 150))
		doctor := &clinicdb.Doctor{
			SourceID:        fmt.Sprintf("DOC%04d", i),
			Title:           ptr(f.RandomString([]string{"Dr.", "Prof.", "Dr."})),
			FirstName:       ptr(f.FirstName()),
			LastName:        ptr(f.LastName()),
			Specialization:  ptr(f.RandomString(specializations)),
			Qualification:   ptr(f.RandomString(qualifications)),
			LicenseNumber:   ptr(fmt.Sprintf("LIC%05d", f.Number(10000, 99999))),
			Phone:           ptr(regionalPhone(f, "lebanon")),
			Email:           ptr(f.Email()),
			ConsultationFee: &fee,
		}
		if f.Bool() {
			doctor.PhoneAlt = ptr(regionalPhone(f, "lebanon"))
		}

		if _, err := model.Upsert(ctx, doctor); err != nil {
			return nil, fmt.Errorf("failed to seed doctor %s: %w", doctor.SourceID, err)
		}
		ids = append(ids, doctor.SourceID)

		if err := g.maybeCommit(ctx, session, i); err != nil {
			return nil, err
		}
	}
	if err := session.Commit(ctx); err != nil {
		return nil, err
	}
	log.Info().Int("doctors", len(ids)).Msg("Doctors generated")
	return ids, nil
}

// seededPatient keeps what later generators need in memory.
type seededPatient struct {
	id      string
	created time.Time
}

func (g *Generator) generatePatients(ctx context.Context) ([]seededPatient, error) {
	session := g.db.NewSession()
	defer session.Close()
	model := clinicdb.NewPatientModel(session)
	f := g.faker

	patients := make([]seededPatient, 0, g.cfg.SeedPatients)
	for i := 1; i <= g.cfg.SeedPatients; i++ {
		gender := f.RandomString([]string{"male", "female"})
		if f.Float64Range(0, 1) > 0.95 {
			gender = f.RandomString([]string{"other", "unknown"})
		}

		dob := f.DateRange(
			time.Now().AddDate(-90, 0, 0),
			time.Now().AddDate(-1, 0, 0),
		)
		dob = time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
		created := f.DateRange(windowStart, windowEnd)

		patient := &clinicdb.Patient{
			SourceID:      fmt.Sprintf("PAT%06d", i),
			FirstName:     ptr(f.FirstName()),
			LastName:      ptr(f.LastName()),
			FatherName:    ptr(f.FirstName()),
			MotherName:    ptr(f.FirstName()),
			IDNumber:      ptr(fmt.Sprintf("ID%d", f.Number(100000000, 999999999))),
			DateOfBirth:   &dob,
			Gender:        &gender,
			MaritalStatus: ptr(f.RandomString([]string{"single", "married", "divorced", "widowed"})),
			Nationality:   ptr("Lebanese"),
			Phone:         ptr(regionalPhone(f, "")),
			AddressLine1:  ptr(f.Street()),
			City:          ptr(f.City()),
			State:         ptr(f.RandomString(lebaneseStates)),
			ZipCode:       ptr(f.Zip()),
			BloodGroup:    ptr(f.RandomString(bloodGroups)),
			Allergies:     g.allergies(),
		}
		if f.Float64Range(0, 1) > 0.7 {
			patient.PhoneAlt = ptr(regionalPhone(f, ""))
		}
		if f.Float64Range(0, 1) > 0.3 {
			patient.Email = ptr(f.Email())
		}

		if _, err := model.Upsert(ctx, patient); err != nil {
			return nil, fmt.Errorf("failed to seed patient %s: %w", patient.SourceID, err)
		}
		patients = append(patients, seededPatient{id: patient.SourceID, created: created})

		if err := g.maybeCommit(ctx, session, i); err != nil {
			return nil, err
		}
		if i%500 == 0 {
			log.Info().Int("patients", i).Msg("Patient generation progress")
		}
	}
	if err := session.Commit(ctx); err != nil {
		return nil, err
	}
	log.Info().Int("patients", len(patients)).Msg("Patients generated")
	return patients, nil
}

// generateRelationships links a slice of the patient base into families.
func (g *Generator) generateRelationships(ctx context.Context, patients []seededPatient) error {
	if len(patients) < 2 {
		return nil
	}
	session := g.db.NewSession()
	defer session.Close()
	model := clinicdb.NewRelationshipModel(session)
	f := g.faker

	count := 0
	for i, p := range patients {
		if f.Float64Range(0, 1) > relationshipPct {
			continue
		}
		other := patients[f.Number(0, len(patients)-1)]
		if other.id == p.id {
			continue
		}
		count++
		rel := &clinicdb.PatientRelationship{
			SourceID:         fmt.Sprintf("REL%06d", count),
			PatientID:        ptr(p.id),
			RelatedPatientID: ptr(other.id),
			RelationshipType: ptr(f.RandomString(relationshipTypes)),
		}
		if _, err := model.Upsert(ctx, rel); err != nil {
			return fmt.Errorf("failed to seed relationship %s: %w", rel.SourceID, err)
		}
		if err := g.maybeCommit(ctx, session, i); err != nil {
			return err
		}
	}
	if err := session.Commit(ctx); err != nil {
		return err
	}
	log.Info().Int("relationships", count).Msg("Patient relationships generated")
	return nil
}

func (g *Generator) generateInventory(ctx context.Context) error {
	session := g.db.NewSession()
	defer session.Close()
	model := clinicdb.NewInventoryModel(session)
	f := g.faker

	for i := 1; i <= g.cfg.SeedInventory; i++ {
		category := f.RandomString(inventoryCategories)
		item := &clinicdb.InventoryItem{
			SourceID:                fmt.Sprintf("ITM%06d", i),
			Category:                &category,
			Name:                    ptr(fmt.Sprintf("%s Item %d", category, i)),
			SKU:                     ptr(fmt.Sprintf("SKU%05d", f.Number(10000, 99999))),
			Description:             ptr(f.Sentence(10)),
			UnitOfMeasure:           ptr(f.RandomString([]string{"Unit", "Box", "Pack", "Bottle", "Vial"})),
			Size:                    ptr(fmt.Sprintf("%.2f", f.Float64Range(1, 100))),
			QuantityInStock:         ptr(round2(f.Float64Range(10, 500))),
			UnitSize:                ptr(round2(f.Float64Range(1, 50))),
			AveragePurchasePrice:    ptr(round2(f.Float64Range(5, 200))),
			SellingPrice:            ptr(round2(f.Float64Range(10, 300))),
			MinimumQuantityWarning:  ptr(float64(f.Number(10, 50))),
			MinimumQuantityCritical: ptr(float64(f.Number(5, 20))),
			Currency:                ptr("USD"),
		}
		if _, err := model.Upsert(ctx, item); err != nil {
			return fmt.Errorf("failed to seed inventory item %s: %w", item.SourceID, err)
		}
		if err := g.maybeCommit(ctx, session, i); err != nil {
			return err
		}
	}
	if err := session.Commit(ctx); err != nil {
		return err
	}
	log.Info().Int("items", g.cfg.SeedInventory).Msg("Inventory generated")
	return nil
}

func (g *Generator) allergies() *string {
	f := g.faker
	n := f.Number(0, 3)
	if n == 0 {
		return nil
	}
	picked := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n {
		a := f.RandomString(commonAllergies)
		if !seen[a] {
			seen[a] = true
			picked = append(picked, a)
		}
	}
	return ptr(strings.Join(picked, ", "))
}

func (g *Generator) maybeCommit(ctx context.Context, session *clinicdb.Session, i int) error {
	if g.cfg.BatchSize > 0 && i%g.cfg.BatchSize == 0 {
		return session.Commit(ctx)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
