package migrate

import (
	"context"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
	"toothpickeve.com/migrate/internal/normalize"
	"toothpickeve.com/migrate/internal/reconcile"
	"toothpickeve.com/migrate/internal/source"
	"toothpickeve.com/migrate/internal/source/legacydb"
)

// LegacyPipeline loads the legacy practice-management database into the
// target store: active customers become patients and vendor records that
// look like people become doctors.
type LegacyPipeline struct {
	runner *Runner
	store  *legacydb.Store
}

// NewLegacyPipeline wires the legacy database pipeline.
func NewLegacyPipeline(runner *Runner, store *legacydb.Store) *LegacyPipeline {
	return &LegacyPipeline{runner: runner, store: store}
}

// Run executes both stages and returns the aggregate report.
func (p *LegacyPipeline) Run(ctx context.Context) (*Report, error) {
	if err := p.runner.truncateIfRequested(ctx); err != nil {
		return nil, err
	}

	return p.runner.runStages(ctx, []stage{
		{"patients", p.migratePatients},
		{"doctors", p.migrateDoctors},
	}), nil
}

func (p *LegacyPipeline) migratePatients(ctx context.Context) (*reconcile.Stats, error) {
	nationalities := p.store.NationalityMap(ctx)
	rows, err := p.store.ActivePatients(ctx)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewPatientModel(session)
	r := p.runner

	return r.runStageWith(ctx, "patients", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("ID"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			first := normalize.Text(row.Get("FIRST_NM"), 50)
			last := normalize.Text(row.Get("LAST_NM"), 50)
			father := normalize.Text(row.Get("FATHER_NM"), 100)

			// Older records carry the whole name in the company field.
			if first == nil && last == nil {
				if company := normalize.Text(row.Get("COMPANY"), 0); company != nil {
					first, father, last = normalize.SplitFullName(*company)
				}
			}

			patient := &clinicdb.Patient{
				SourceID:      *sourceID,
				FirstName:     first,
				LastName:      last,
				FatherName:    father,
				MotherName:    normalize.Text(row.Get("MOTHER"), 100),
				IDNumber:      normalize.Text(row.Get("ID_NO"), 50),
				DateOfBirth:   normalize.BirthDate(row.Get("BDATE")),
				Gender:        normalize.Gender(row.Get("GENDER"), r.genderPolicy),
				MaritalStatus: normalize.Text(row.Get("MARITALSTATUS"), 20),
				Nationality:   normalize.Nationality(row.Get("NATIONALITY"), nationalities),
				Phone:         normalize.Phone(row.Get("PHONE"), r.phonePolicy),
				PhoneAlt:      normalize.Phone(row.Get("MOBILE"), r.phonePolicy),
				Email:         normalize.Text(row.Get("EMAIL"), 255),
				AddressLine1:  normalize.Text(row.Get("ADDR1"), 255),
				AddressLine2:  normalize.Text(row.Get("ADDR2"), 255),
				City:          normalize.Text(row.Get("CITY"), 50),
				State:         normalize.Text(row.Get("STATE"), 50),
				ZipCode:       normalize.Text(row.Get("ZIP"), 10),
				BloodGroup:    normalize.Text(row.Get("Bloodgroup"), 5),
				Allergies:     normalize.Text(row.Get("allergies"), 0),
			}

			outcome, err := model.Upsert(ctx, patient)
			if err != nil {
				return reconcile.Errored(patient.SourceID, err)
			}
			return reconcile.Applied(patient.SourceID, outcome)
		})
}

// migrateDoctors walks the vendor table, which historically mixed referring
// doctors with actual suppliers. The vendor id doubles as the license number
// so the origin record stays traceable from the doctor row.
func (p *LegacyPipeline) migrateDoctors(ctx context.Context) (*reconcile.Stats, error) {
	rows, err := p.store.Vendors(ctx)
	if err != nil {
		return nil, err
	}

	filter := normalize.NewProviderFilter(p.runner.cfg.DoctorExcludeKeywords)
	log.Info().
		Strs("exclude_keywords", p.runner.cfg.DoctorExcludeKeywords).
		Msg("Provider filter configured")

	session := p.runner.db.NewSession()
	model := clinicdb.NewDoctorModel(session)
	r := p.runner

	return r.runStageWith(ctx, "doctors", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("VENDSRH"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			name := ""
			if n := normalize.Text(row.Get("COMPANY"), 0); n != nil {
				name = *n
			}
			if !filter.IsProvider(name) {
				return reconcile.Skipped(*sourceID, name+" (filtered)")
			}

			first, last := normalize.ParseProviderName(name)
			if first == nil {
				return reconcile.Skipped(*sourceID, name+" (invalid name)")
			}

			doctor := &clinicdb.Doctor{
				SourceID:      *sourceID,
				FirstName:     normalize.Text(*first, 50),
				Phone:         normalize.Phone(row.Get("PHONE"), r.phonePolicy),
				PhoneAlt:      normalize.Phone(row.Get("CONTACT"), r.phonePolicy),
				LicenseNumber: sourceID,
			}
			if last != nil {
				doctor.LastName = normalize.Text(*last, 50)
			}

			outcome, err := model.Upsert(ctx, doctor)
			if err != nil {
				return reconcile.Errored(doctor.SourceID, err)
			}
			return reconcile.Applied(doctor.SourceID, outcome)
		})
}
