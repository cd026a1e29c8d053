package seed

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
)

// visit is the in-memory trace of one generated appointment, carried forward
// so treatments and billing stay consistent with it.
type visit struct {
	id         string
	patientID  string
	doctorID   string
	date       time.Time
	status     string
	treatments []generatedTreatment
}

type generatedTreatment struct {
	name  string
	price float64
}

func (g *Generator) generateAppointments(ctx context.Context, patients []seededPatient, doctors []string) ([]*visit, error) {
	if len(patients) == 0 || len(doctors) == 0 {
		return nil, nil
	}
	session := g.db.NewSession()
	defer session.Close()
	model := clinicdb.NewAppointmentModel(session)
	f := g.faker
	now := time.Now()

	visits := make([]*visit, 0, g.cfg.SeedAppointments)
	for i := 1; i <= g.cfg.SeedAppointments; i++ {
		patient := patients[f.Number(0, len(patients)-1)]
		doctor := doctors[f.Number(0, len(doctors)-1)]

		date := f.DateRange(patient.created, windowEnd)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

		// Work-hours slot on the quarter hour.
		clock := fmt.Sprintf("%02d:%02d:00", f.Number(9, 16), f.Number(0, 3)*15)

		var status string
		if date.After(now) {
			status = f.RandomString([]string{"scheduled", "confirmed", "pending"})
		} else if f.Float64Range(0, 1) < showRate {
			status = f.RandomString([]string{"completed", "completed", "completed", "attended", "checked_in"})
		} else {
			status = f.RandomString([]string{"no_show", "missed", "cancelled"})
		}

		minutes := []int{30, 45, 60, 90}[f.Number(0, 3)]

		appt := &clinicdb.Appointment{
			SourceID:        fmt.Sprintf("APT%08d", i),
			PatientID:       &patient.id,
			DoctorID:        &doctor,
			AppointmentDate: &date,
			AppointmentTime: &clock,
			DurationMinutes: &minutes,
			Room:            ptr(fmt.Sprintf("Room %d", f.Number(1, 10))),
			Status:          &status,
		}
		if f.Float64Range(0, 1) > 0.7 {
			appt.Notes = ptr(g.faker.Sentence(12))
		}

		if _, err := model.Upsert(ctx, appt); err != nil {
			return nil, fmt.Errorf("failed to seed appointment %s: %w", appt.SourceID, err)
		}
		visits = append(visits, &visit{
			id:        appt.SourceID,
			patientID: patient.id,
			doctorID:  doctor,
			date:      date,
			status:    status,
		})

		if err := g.maybeCommit(ctx, session, i); err != nil {
			return nil, err
		}
		if i%1000 == 0 {
			log.Info().Int("appointments", i).Msg("Appointment generation progress")
		}
	}
	if err := session.Commit(ctx); err != nil {
		return nil, err
	}
	log.Info().Int("appointments", len(visits)).Msg("Appointments generated")
	return visits, nil
}

// generateTreatments attaches one to three procedures to each completed
// visit, up to the configured volume.
func (g *Generator) generateTreatments(ctx context.Context, visits []*visit) error {
	session := g.db.NewSession()
	defer session.Close()
	model := clinicdb.NewTreatmentModel(session)
	f := g.faker

	count := 0
	for _, v := range visits {
		if v.status != "completed" {
			continue
		}
		if count >= g.cfg.SeedTreatments {
			break
		}

		for n := f.Number(1, 3); n > 0 && count < g.cfg.SeedTreatments; n-- {
			count++
			proc := dentalProcedures[f.Number(0, len(dentalProcedures)-1)]
			price := round2(proc.price * f.Float64Range(0.9, 1.1))
			planned := v.date.AddDate(0, 0, -f.Number(1, 30))

			status := "in_progress"
			var completion *time.Time
			if f.Float64Range(0, 1) < completionRate {
				status = "completed"
				completion = &v.date
			}

			treatment := &clinicdb.Treatment{
				SourceID:       fmt.Sprintf("TRT%08d", count),
				PatientID:      &v.patientID,
				DoctorID:       &v.doctorID,
				ProcedureCode:  ptr(proc.code),
				ProcedureName:  ptr(proc.name),
				ProcedureGroup: ptr(proc.group),
				TreatmentPlan:  ptr(f.RandomString([]string{"Standard", "Comprehensive", "Emergency", "Cosmetic"})),
				Status:         &status,
				Price:          &price,
				PlannedDate:    &planned,
				StartDate:      &v.date,
				CompletionDate: completion,
			}
			if f.Float64Range(0, 1) > 0.3 {
				treatment.ToothNumber = ptr(fmt.Sprintf("%d", f.Number(1, 32)))
			}

			if _, err := model.Upsert(ctx, treatment); err != nil {
				return fmt.Errorf("failed to seed treatment %s: %w", treatment.SourceID, err)
			}
			v.treatments = append(v.treatments, generatedTreatment{name: proc.name, price: price})

			if err := g.maybeCommit(ctx, session, count); err != nil {
				return err
			}
		}
	}
	if err := session.Commit(ctx); err != nil {
		return err
	}
	log.Info().Int("treatments", count).Msg("Treatments generated")
	return nil
}

// generateBilling invoices every treated visit: one invoice with a line per
// treatment, a 5% tax, occasional discounts, and payments following the
// configured full/partial/unpaid split.
func (g *Generator) generateBilling(ctx context.Context, visits []*visit) error {
	session := g.db.NewSession()
	defer session.Close()
	invoices := clinicdb.NewInvoiceModel(session)
	items := clinicdb.NewInvoiceItemModel(session)
	payments := clinicdb.NewPaymentModel(session)
	f := g.faker

	invoiceCount, itemCount, paymentCount := 0, 0, 0
	for _, v := range visits {
		if v.status != "completed" || len(v.treatments) == 0 {
			continue
		}
		if invoiceCount >= g.cfg.SeedInvoices {
			break
		}
		invoiceCount++

		total := 0.0
		for _, t := range v.treatments {
			total += t.price
		}

		var discountType *string
		discountValue := 0.0
		if f.Float64Range(0, 1) > 0.8 {
			if f.Bool() {
				discountType = ptr("Percentage")
				discountValue = []float64{5, 10, 15, 20}[f.Number(0, 3)]
				total = total * (1 - discountValue/100)
			} else {
				discountType = ptr("Fixed")
				discountValue = round2(f.Float64Range(10, 50))
				total = math.Max(0, total-discountValue)
			}
		}
		total = round2(total * 1.05)

		var paid float64
		var status string
		switch r := f.Float64Range(0, 1); {
		case r < payFullRate:
			paid = total
			status = "paid"
		case r < payFullRate+payPartialRate:
			paid = round2(total * f.Float64Range(0.3, 0.7))
			status = "partially_paid"
		default:
			paid = 0
			status = "unpaid"
		}
		balance := round2(total - paid)
		due := v.date.AddDate(0, 0, 30)

		inv := &clinicdb.Invoice{
			SourceID:      fmt.Sprintf("INV%08d", invoiceCount),
			PatientID:     &v.patientID,
			DoctorID:      &v.doctorID,
			InvoiceDate:   &v.date,
			DueDate:       &due,
			Status:        &status,
			Currency:      ptr("USD"),
			DiscountType:  discountType,
			DiscountValue: &discountValue,
			TotalAmount:   &total,
			AmountPaid:    &paid,
			BalanceDue:    &balance,
		}
		if _, err := invoices.Upsert(ctx, inv); err != nil {
			return fmt.Errorf("failed to seed invoice %s: %w", inv.SourceID, err)
		}

		for _, t := range v.treatments {
			itemCount++
			item := &clinicdb.InvoiceItem{
				SourceID:    fmt.Sprintf("INVITM%08d", itemCount),
				InvoiceID:   &inv.SourceID,
				Description: ptr(t.name),
				UnitPrice:   ptr(t.price),
				Quantity:    ptr(1),
				TotalAmount: ptr(t.price),
			}
			if _, err := items.Upsert(ctx, item); err != nil {
				return fmt.Errorf("failed to seed invoice item %s: %w", item.SourceID, err)
			}
		}

		if paid > 0 {
			numPayments := 1
			if status == "paid" && f.Float64Range(0, 1) > 0.8 {
				numPayments = f.Number(2, 3)
			}
			remaining := paid
			for i := 0; i < numPayments; i++ {
				paymentCount++
				amount := remaining
				if i < numPayments-1 {
					amount = round2(remaining * f.Float64Range(0.3, 0.6))
					remaining = round2(remaining - amount)
				}
				payDate := v.date.AddDate(0, 0, f.Number(0, 30))

				payment := &clinicdb.Payment{
					SourceID:        fmt.Sprintf("PAY%08d", paymentCount),
					InvoiceID:       &inv.SourceID,
					PatientID:       &v.patientID,
					PaymentMethod:   ptr(f.RandomString(paymentMethods)),
					Amount:          &amount,
					OriginalAmount:  &amount,
					Currency:        ptr("USD"),
					ReferenceNumber: ptr(fmt.Sprintf("REF%06d", f.Number(100000, 999999))),
					PaymentDate:     &payDate,
				}
				if _, err := payments.Upsert(ctx, payment); err != nil {
					return fmt.Errorf("failed to seed payment %s: %w", payment.SourceID, err)
				}
			}
		}

		if err := g.maybeCommit(ctx, session, invoiceCount); err != nil {
			return err
		}
	}
	if err := session.Commit(ctx); err != nil {
		return err
	}
	log.Info().
		Int("invoices", invoiceCount).
		Int("items", itemCount).
		Int("payments", paymentCount).
		Msg("Billing generated")
	return nil
}
