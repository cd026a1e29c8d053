package migrate

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
	"toothpickeve.com/migrate/internal/normalize"
	"toothpickeve.com/migrate/internal/reconcile"
	"toothpickeve.com/migrate/internal/source"
	"toothpickeve.com/migrate/internal/source/excelsrc"
)

// Sheet names of the clinic workbook export.
const (
	sheetPatients     = "Patients"
	sheetAppointments = "Appointments"
	sheetInvoices     = "Invoices"
	sheetInvoiceItems = "invoice_items"
	sheetPayments     = "Payments"
	sheetTreatments   = "Operations"
	sheetInventory    = "stock"
)

// ExcelPipeline loads the clinic workbook export into the target store.
// Stage order matters only for name resolution: patients and doctors must
// land before the stages that reference them by name.
type ExcelPipeline struct {
	runner   *Runner
	workbook *excelsrc.Workbook
}

// NewExcelPipeline wires the workbook pipeline.
func NewExcelPipeline(runner *Runner, workbook *excelsrc.Workbook) *ExcelPipeline {
	return &ExcelPipeline{runner: runner, workbook: workbook}
}

// Run executes every stage and returns the aggregate report.
func (p *ExcelPipeline) Run(ctx context.Context) (*Report, error) {
	if err := p.runner.truncateIfRequested(ctx); err != nil {
		return nil, err
	}

	return p.runner.runStages(ctx, []stage{
		{"patients", p.migratePatients},
		{"doctors", p.migrateDoctors},
		{"appointments", p.migrateAppointments},
		{"invoices", p.migrateInvoices},
		{"invoice_items", p.migrateInvoiceItems},
		{"payments", p.migratePayments},
		{"treatments", p.migrateTreatments},
		{"inventory", p.migrateInventory},
	}), nil
}

func (p *ExcelPipeline) migratePatients(ctx context.Context) (*reconcile.Stats, error) {
	rows, err := p.workbook.Iterator(sheetPatients)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewPatientModel(session)
	r := p.runner

	return r.runStageWith(ctx, "patients", rows, session, func(ctx context.Context, row source.Row) reconcile.Result {
		sourceID := normalize.Text(row.Get("id"), 50)
		if sourceID == nil {
			return reconcile.Skipped("", "missing source id")
		}

		patient := &clinicdb.Patient{
			SourceID:  *sourceID,
			FirstName: normalize.Text(row.Get("first_name"), 100),
			LastName:  normalize.Text(row.Get("last_name"), 100),
			// The export files the father's name under middle_name and the
			// mother's maiden name under maiden_name.
			FatherName:   normalize.Text(row.Get("middle_name"), 100),
			MotherName:   normalize.Text(row.Get("maiden_name"), 100),
			Gender:       normalize.Gender(row.Get("gender"), r.genderPolicy),
			Email:        normalize.Text(row.Get("email"), 255),
			Phone:        normalize.Phone(row.Get("phone_number"), r.phonePolicy),
			PhoneAlt:     normalize.Phone(row.Get("alt_number"), r.phonePolicy),
			DateOfBirth:  normalize.BirthDate(row.Get("dob")),
			AddressLine1: normalize.Text(row.Get("address"), 255),
		}

		outcome, err := model.Upsert(ctx, patient)
		if err != nil {
			return reconcile.Errored(patient.SourceID, err)
		}
		return reconcile.Applied(patient.SourceID, outcome)
	})
}

// migrateDoctors harvests provider names from the appointment and invoice
// sheets; the workbook has no doctors sheet of its own. Ids are positional
// over the first-seen order of the combined name list, which keeps them
// stable as long as the export itself is stable.
func (p *ExcelPipeline) migrateDoctors(ctx context.Context) (*reconcile.Stats, error) {
	fromAppts, err := p.workbook.DistinctValues(sheetAppointments, "doctor")
	if err != nil {
		return nil, err
	}
	fromInvoices, err := p.workbook.DistinctValues(sheetInvoices, "doctor")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(fromAppts))
	var rows []source.Row
	for _, name := range append(fromAppts, fromInvoices...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		rows = append(rows, source.Row{
			"id":   strconv.Itoa(len(rows) + 1),
			"name": name,
		})
	}
	log.Info().Int("doctors", len(rows)).Msg("Harvested provider names from workbook")

	session := p.runner.db.NewSession()
	model := clinicdb.NewDoctorModel(session)
	title := "Dr"

	return p.runner.runStageWith(ctx, "doctors", source.NewSliceIterator(rows), session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID, _ := row.Get("id").(string)
			name, _ := row.Get("name").(string)

			parts := strings.Fields(name)
			if len(parts) == 0 {
				return reconcile.Skipped(sourceID, "invalid name")
			}
			doctor := &clinicdb.Doctor{
				SourceID:  sourceID,
				Title:     &title,
				FirstName: normalize.Text(parts[0], 50),
			}
			if len(parts) > 1 {
				doctor.LastName = normalize.Text(strings.Join(parts[1:], " "), 50)
			}

			outcome, err := model.Upsert(ctx, doctor)
			if err != nil {
				return reconcile.Errored(sourceID, err)
			}
			return reconcile.Applied(sourceID, outcome)
		})
}

func (p *ExcelPipeline) migrateAppointments(ctx context.Context) (*reconcile.Stats, error) {
	patients, err := p.runner.patientIndex(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := p.runner.doctorIndex(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := p.workbook.Iterator(sheetAppointments)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewAppointmentModel(session)

	return p.runner.runStageWith(ctx, "appointments", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("id"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			var unresolved []string
			patientID, note := lookupRef(patients, row.Get("patient"), "patient")
			if note != "" {
				unresolved = append(unresolved, note)
			}
			doctorID, note := lookupRef(doctors, row.Get("doctor"), "doctor")
			if note != "" {
				unresolved = append(unresolved, note)
			}

			start := normalize.DateTime(row.Get("start_date"))
			end := normalize.DateTime(row.Get("end_date"))

			status := normalize.Text(row.Get("status"), 20)
			if status == nil {
				def := "scheduled"
				status = &def
			}

			appt := &clinicdb.Appointment{
				SourceID:        *sourceID,
				PatientID:       patientID,
				DoctorID:        doctorID,
				AppointmentDate: normalize.Date(row.Get("start_date")),
				AppointmentTime: clockString(start),
				DurationMinutes: normalize.DurationMinutes(start, end),
				Room:            normalize.Text(row.Get("room"), 50),
				Status:          status,
				// The export has no notes column; the creator is the only
				// provenance worth keeping.
				Notes: normalize.Text(row.Get("created_by"), 0),
			}

			outcome, err := model.Upsert(ctx, appt)
			if err != nil {
				return reconcile.Errored(appt.SourceID, err)
			}
			res := reconcile.Applied(appt.SourceID, outcome)
			res.Unresolved = unresolved
			return res
		})
}

func (p *ExcelPipeline) migrateInvoices(ctx context.Context) (*reconcile.Stats, error) {
	patients, err := p.runner.patientIndex(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := p.runner.doctorIndex(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := p.workbook.Iterator(sheetInvoices)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewInvoiceModel(session)

	return p.runner.runStageWith(ctx, "invoices", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("id"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			// The invoices sheet mixes clinic expenses into the same table.
			if isExpenseRow(row) {
				return reconcile.Skipped(*sourceID, "expense record")
			}

			var unresolved []string
			patientID, note := lookupRef(patients, row.Get("patient"), "patient")
			if note != "" {
				unresolved = append(unresolved, note)
			}
			doctorID, note := lookupRef(doctors, row.Get("doctor"), "doctor")
			if note != "" {
				unresolved = append(unresolved, note)
			}

			total := normalize.FloatOr(row.Get("total_amount"), 0)
			paid := normalize.FloatOr(row.Get("total_payments"), 0)
			discount := normalize.FloatOr(row.Get("discount_value"), 0)
			balance := total - paid

			inv := &clinicdb.Invoice{
				SourceID:      *sourceID,
				PatientID:     patientID,
				DoctorID:      doctorID,
				InvoiceDate:   normalize.Date(row.Get("invoice_date")),
				DueDate:       normalize.Date(row.Get("due_date")),
				Status:        invoiceStatus(row.Get("status")),
				Currency:      currencyOrDefault(row.Get("currency")),
				DiscountType:  normalize.Text(row.Get("discount_type"), 20),
				DiscountValue: &discount,
				TotalAmount:   &total,
				AmountPaid:    &paid,
				BalanceDue:    &balance,
				Notes:         normalize.Text(row.Get("notes"), 0),
			}

			outcome, err := model.Upsert(ctx, inv)
			if err != nil {
				return reconcile.Errored(inv.SourceID, err)
			}
			res := reconcile.Applied(inv.SourceID, outcome)
			res.Unresolved = unresolved
			return res
		})
}

func (p *ExcelPipeline) migrateInvoiceItems(ctx context.Context) (*reconcile.Stats, error) {
	rows, err := p.workbook.Iterator(sheetInvoiceItems)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewInvoiceItemModel(session)

	return p.runner.runStageWith(ctx, "invoice_items", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("id"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			unitPrice := normalize.FloatOr(row.Get("unit_price"), 0)
			total := normalize.FloatOr(row.Get("total_amount"), 0)
			quantity := 1
			if q := normalize.Int(row.Get("quantity")); q != nil {
				quantity = *q
			}

			item := &clinicdb.InvoiceItem{
				SourceID:    *sourceID,
				InvoiceID:   normalize.Text(row.Get("invoice_id"), 50),
				Description: normalize.Text(row.Get("description"), 255),
				UnitPrice:   &unitPrice,
				Quantity:    &quantity,
				TotalAmount: &total,
			}

			outcome, err := model.Upsert(ctx, item)
			if err != nil {
				return reconcile.Errored(item.SourceID, err)
			}
			return reconcile.Applied(item.SourceID, outcome)
		})
}

func (p *ExcelPipeline) migratePayments(ctx context.Context) (*reconcile.Stats, error) {
	patients, err := p.runner.patientIndex(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := p.workbook.Iterator(sheetPayments)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewPaymentModel(session)

	return p.runner.runStageWith(ctx, "payments", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("id"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			var unresolved []string
			patientID, note := lookupRef(patients, row.Get("patient"), "patient")
			if note != "" {
				unresolved = append(unresolved, note)
			}

			amount := normalize.FloatOr(row.Get("amount"), 0)
			original := normalize.FloatOr(row.Get("original_amount"), amount)

			payment := &clinicdb.Payment{
				SourceID:        *sourceID,
				InvoiceID:       normalize.Text(row.Get("invoice_id"), 50),
				PatientID:       patientID,
				PaymentMethod:   normalize.Text(row.Get("method"), 50),
				Amount:          &amount,
				OriginalAmount:  &original,
				Currency:        currencyOrDefault(row.Get("currency")),
				ReferenceNumber: normalize.Text(row.Get("reference_number"), 100),
				PaymentDate:     normalize.Date(row.Get("payment_date")),
				DeletedAt:       normalize.DateTime(row.Get("deleted_at")),
			}

			outcome, err := model.Upsert(ctx, payment)
			if err != nil {
				return reconcile.Errored(payment.SourceID, err)
			}
			res := reconcile.Applied(payment.SourceID, outcome)
			res.Unresolved = unresolved
			return res
		})
}

func (p *ExcelPipeline) migrateTreatments(ctx context.Context) (*reconcile.Stats, error) {
	patients, err := p.runner.patientIndex(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := p.workbook.Iterator(sheetTreatments)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewTreatmentModel(session)

	return p.runner.runStageWith(ctx, "treatments", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("id"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			var unresolved []string
			patientID, note := lookupRef(patients, row.Get("patient"), "patient")
			if note != "" {
				unresolved = append(unresolved, note)
			}

			price := normalize.FloatOr(row.Get("price"), 0)

			treatment := &clinicdb.Treatment{
				SourceID:       *sourceID,
				PatientID:      patientID,
				ToothNumber:    normalize.Text(row.Get("tooth_nb"), 10),
				ProcedureCode:  normalize.Text(row.Get("code"), 50),
				ProcedureName:  normalize.Text(row.Get("name"), 255),
				ProcedureGroup: normalize.Text(row.Get("group"), 100),
				TreatmentPlan:  normalize.Text(row.Get("treatment_plan"), 255),
				Status:         normalize.Text(row.Get("status"), 20),
				Price:          &price,
				PlannedDate:    normalize.Date(row.Get("planned_date")),
				StartDate:      normalize.Date(row.Get("start_date")),
				CompletionDate: normalize.Date(row.Get("done_date")),
				Notes:          normalize.Text(row.Get("note"), 0),
			}

			outcome, err := model.Upsert(ctx, treatment)
			if err != nil {
				return reconcile.Errored(treatment.SourceID, err)
			}
			res := reconcile.Applied(treatment.SourceID, outcome)
			res.Unresolved = unresolved
			return res
		})
}

func (p *ExcelPipeline) migrateInventory(ctx context.Context) (*reconcile.Stats, error) {
	rows, err := p.workbook.Iterator(sheetInventory)
	if err != nil {
		return nil, err
	}

	session := p.runner.db.NewSession()
	model := clinicdb.NewInventoryModel(session)

	return p.runner.runStageWith(ctx, "inventory", rows, session,
		func(ctx context.Context, row source.Row) reconcile.Result {
			sourceID := normalize.Text(row.Get("id"), 50)
			if sourceID == nil {
				return reconcile.Skipped("", "missing source id")
			}

			quantity := normalize.FloatOr(row.Get("remaining_quantity"), 0)
			avgPrice := normalize.FloatOr(row.Get("average_purchase_price"), 0)

			item := &clinicdb.InventoryItem{
				SourceID:                *sourceID,
				Category:                normalize.Text(row.Get("category"), 100),
				Name:                    normalize.Text(row.Get("name"), 255),
				SKU:                     normalize.Text(row.Get("sku"), 100),
				Description:             normalize.Text(row.Get("description"), 0),
				UnitOfMeasure:           normalize.Text(row.Get("unit_of_measure"), 50),
				Size:                    normalize.Text(row.Get("size"), 50),
				QuantityInStock:         &quantity,
				UnitSize:                normalize.Float(row.Get("remaining_unit_size")),
				AveragePurchasePrice:    &avgPrice,
				SellingPrice:            normalize.Float(row.Get("default_selling_price")),
				MinimumQuantityWarning:  normalize.Float(row.Get("minimum_quantity_warning")),
				MinimumQuantityCritical: normalize.Float(row.Get("minimum_quantity_critical_warning")),
				Currency:                currencyOrDefault(row.Get("default_currency")),
				DeletedAt:               normalize.DateTime(row.Get("deleted_at")),
			}

			outcome, err := model.Upsert(ctx, item)
			if err != nil {
				return reconcile.Errored(item.SourceID, err)
			}
			return reconcile.Applied(item.SourceID, outcome)
		})
}

// isExpenseRow reports whether an invoices-sheet row is a clinic expense
// rather than patient billing.
func isExpenseRow(row source.Row) bool {
	f := normalize.Float(row.Get("is_expense"))
	return f != nil && *f == 1
}

// invoiceStatus cleans the status token, fixing the export's "payed" spelling.
func invoiceStatus(v any) *string {
	status := normalize.Text(v, 20)
	if status != nil && strings.EqualFold(*status, "payed") {
		fixed := "paid"
		status = &fixed
	}
	return status
}

// clockString renders a timestamp's time of day for a TIME column.
func clockString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}

// currencyOrDefault cleans a currency code, defaulting to USD. The clinic
// billed in dollars; rows without a code predate multi-currency support.
func currencyOrDefault(v any) *string {
	if c := normalize.Text(v, 10); c != nil {
		return c
	}
	usd := "USD"
	return &usd
}
