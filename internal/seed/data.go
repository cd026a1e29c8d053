package seed

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// Reference data for generated records. Procedure codes and prices follow
// the ADA coding the clinic bills with.
var specializations = []string{
	"General Dentistry", "Orthodontics", "Periodontics",
	"Endodontics", "Prosthodontics", "Oral Surgery",
	"Pediatric Dentistry", "Cosmetic Dentistry",
}

type procedure struct {
	code  string
	name  string
	group string
	price float64
}

var dentalProcedures = []procedure{
	{"D0120", "Periodic Oral Evaluation", "Examination", 50},
	{"D0150", "Comprehensive Oral Evaluation", "Examination", 80},
	{"D0210", "Intraoral X-rays", "Diagnostic", 40},
	{"D0330", "Panoramic X-ray", "Diagnostic", 100},
	{"D1110", "Prophylaxis - Adult", "Preventive", 90},
	{"D1120", "Prophylaxis - Child", "Preventive", 70},
	{"D1206", "Topical Fluoride", "Preventive", 35},
	{"D2140", "Amalgam - One Surface", "Restorative", 150},
	{"D2150", "Amalgam - Two Surfaces", "Restorative", 180},
	{"D2330", "Resin - One Surface", "Restorative", 160},
	{"D2391", "Resin - One Surface Anterior", "Restorative", 140},
	{"D2740", "Crown - Porcelain/Ceramic", "Restorative", 1200},
	{"D2750", "Crown - Porcelain Fused to Metal", "Restorative", 1100},
	{"D2950", "Core Buildup", "Restorative", 250},
	{"D3310", "Root Canal - Anterior", "Endodontics", 600},
	{"D3320", "Root Canal - Bicuspid", "Endodontics", 750},
	{"D3330", "Root Canal - Molar", "Endodontics", 950},
	{"D4210", "Gingivectomy", "Periodontics", 400},
	{"D4341", "Periodontal Scaling - Per Quadrant", "Periodontics", 200},
	{"D5110", "Complete Denture - Upper", "Prosthodontics", 1500},
	{"D5120", "Complete Denture - Lower", "Prosthodontics", 1500},
	{"D5213", "Partial Denture - Upper", "Prosthodontics", 1300},
	{"D6010", "Implant Placement", "Oral Surgery", 2000},
	{"D6190", "Implant/Abutment Crown", "Prosthodontics", 1800},
	{"D7140", "Extraction - Single Tooth", "Oral Surgery", 150},
	{"D7210", "Extraction - Erupted Tooth", "Oral Surgery", 200},
	{"D7240", "Extraction - Impacted Tooth", "Oral Surgery", 350},
	{"D8080", "Orthodontic Comprehensive Treatment", "Orthodontics", 5000},
	{"D9110", "Palliative Treatment", "Adjunctive", 50},
	{"D9230", "Anesthesia/Analgesia", "Adjunctive", 80},
}

var inventoryCategories = []string{
	"Anesthetics", "Antibiotics", "Dental Materials", "Instruments",
	"Disposables", "Sterilization", "X-Ray Supplies", "Office Supplies",
}

var paymentMethods = []string{
	"Cash", "Credit Card", "Debit Card", "Check", "Bank Transfer", "Insurance",
}

var bloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

var commonAllergies = []string{
	"Penicillin", "Latex", "Local Anesthetics", "Aspirin",
	"Ibuprofen", "Codeine", "None Known",
}

var relationshipTypes = []string{"spouse", "parent", "child", "sibling", "guardian"}

var qualifications = []string{"DDS", "DMD", "BDS, MDS", "DDS, PhD"}

var lebaneseStates = []string{"Beirut", "Mount Lebanon", "North", "South", "Bekaa"}

// regionalPhone renders numbers in the formats the clinic's patient base
// actually uses. The generic faker numbers look wrong in demos.
func regionalPhone(f *gofakeit.Faker, country string) string {
	if country == "" {
		country = f.RandomString([]string{"lebanon", "egypt", "usa", "uae", "ksa", "qatar"})
	}
	switch country {
	case "lebanon":
		prefix := f.RandomString([]string{"3", "70", "71", "76", "78", "79", "81"})
		return fmt.Sprintf("+961 %s %d %d", prefix, f.Number(100, 999), f.Number(100, 999))
	case "egypt":
		operator := f.RandomString([]string{"10", "11", "12", "15"})
		return fmt.Sprintf("+20 %s %d %d", operator, f.Number(1000, 9999), f.Number(1000, 9999))
	case "usa":
		return fmt.Sprintf("+1 (%d) %d-%d", f.Number(200, 999), f.Number(200, 999), f.Number(1000, 9999))
	case "uae":
		operator := f.RandomString([]string{"50", "52", "54", "55", "56", "58"})
		return fmt.Sprintf("+971 %s %d %d", operator, f.Number(100, 999), f.Number(1000, 9999))
	case "ksa":
		operator := f.RandomString([]string{"50", "53", "54", "55", "56", "57", "58", "59"})
		return fmt.Sprintf("+966 %s %d %d", operator, f.Number(100, 999), f.Number(1000, 9999))
	case "qatar":
		prefix := f.RandomString([]string{"3", "5", "6", "7"})
		return fmt.Sprintf("+974 %s%d %d", prefix, f.Number(100, 999), f.Number(1000, 9999))
	}
	return f.Phone()
}
