package db

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// Seed populates an empty database with the sample dataset: eight
// jurisdictions, four vendors with distinct quality profiles, coverage
// rows, 500 criminal records, alert configurations and a handful of
// alerts and schema changes. If any vendor already exists the seed is
// skipped. Metric snapshots are not seeded; the snapshot worker derives
// the first ones from the records at startup.
func Seed(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&Vendor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		jurisdictions := []Jurisdiction{
			{Name: "Cook County", State: "IL", County: "Cook", IsActive: true},
			{Name: "Los Angeles County", State: "CA", County: "Los Angeles", IsActive: true},
			{Name: "New York City", State: "NY", County: "New York", IsActive: true},
			{Name: "Miami-Dade County", State: "FL", County: "Miami-Dade", IsActive: true},
			{Name: "Harris County", State: "TX", County: "Harris", IsActive: true},
			{Name: "Maricopa County", State: "AZ", County: "Maricopa", IsActive: true},
			{Name: "King County", State: "WA", County: "King", IsActive: true},
			{Name: "Orange County", State: "CA", County: "Orange", IsActive: true},
		}
		if err := tx.Create(&jurisdictions).Error; err != nil {
			return err
		}

		vendors := []Vendor{
			{Name: "VendorA", Description: "Premium provider with highest quality and coverage", CostPerRecord: 12.00, QualityScore: 95.0, CoveragePercentage: 98.0, IsActive: true},
			{Name: "VendorB", Description: "Balanced provider with good quality and reasonable cost", CostPerRecord: 8.00, QualityScore: 88.0, CoveragePercentage: 92.0, IsActive: true},
			{Name: "VendorC", Description: "Budget provider with lower cost but reduced quality", CostPerRecord: 5.00, QualityScore: 78.0, CoveragePercentage: 85.0, IsActive: true},
			{Name: "VendorD", Description: "California specialist with excellent regional coverage", CostPerRecord: 10.00, QualityScore: 92.0, CoveragePercentage: 75.0, IsActive: true},
		}
		if err := tx.Create(&vendors).Error; err != nil {
			return err
		}

		coverageByVendor := map[string][]float64{
			"VendorA": {98, 97, 99, 96, 98, 97, 99, 98},
			"VendorB": {92, 90, 94, 88, 91, 89, 93, 90},
			"VendorC": {85, 82, 87, 80, 83, 81, 86, 84},
			// CA specialist: only Los Angeles County and Orange County.
			"VendorD": {0, 98, 0, 0, 0, 0, 0, 95},
		}
		for _, v := range vendors {
			values := coverageByVendor[v.Name]
			for i, j := range jurisdictions {
				cov := VendorCoverage{
					VendorID:           v.ID,
					JurisdictionID:     j.ID,
					CoveragePercentage: values[i],
					AvgTurnaroundHours: 24 + rand.Float64()*48,
				}
				if err := tx.Create(&cov).Error; err != nil {
					return err
				}
			}
		}

		records := sampleRecords(vendors, jurisdictions)
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return err
		}

		return seedAlerts(tx, vendors)
	})
}

var (
	seedFirstNames = []string{"John", "Jane", "Michael", "Sarah", "Robert", "Emily", "David", "Jessica", "James", "Ashley"}
	seedLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
)

// piiOdds returns the per-vendor probability of each PII field being
// present, reflecting the vendor quality tiers.
func piiOdds(vendorName string) (dob, ssn float64) {
	switch vendorName {
	case "VendorA":
		return 0.95, 0.94
	case "VendorB":
		return 0.85, 0.84
	case "VendorC":
		return 0.75, 0.74
	default:
		return 0.90, 0.89
	}
}

func verifiedOdds(vendorName string) float64 {
	switch vendorName {
	case "VendorA":
		return 0.96
	case "VendorB":
		return 0.90
	case "VendorC":
		return 0.80
	default:
		return 0.93
	}
}

func sampleRecords(vendors []Vendor, jurisdictions []Jurisdiction) []CriminalRecord {
	dispositions := []DispositionType{DispositionFelony, DispositionMisdemeanor, DispositionDismissed, DispositionPending}

	records := make([]CriminalRecord, 0, 500)
	for i := 0; i < 500; i++ {
		vendor := vendors[i%len(vendors)]
		jurisdiction := jurisdictions[i%len(jurisdictions)]

		dobOdds, ssnOdds := piiOdds(vendor.Name)
		hasDOB := rand.Float64() < dobOdds
		hasSSN := rand.Float64() < ssnOdds
		hasFullName := rand.Float64() < 0.98

		filing := time.Now().AddDate(0, 0, -(1 + rand.Intn(365)))
		courtFiling := filing.AddDate(0, 0, rand.Intn(31))
		disposition := courtFiling.AddDate(0, 0, 30+rand.Intn(151))
		delivery := courtFiling.Add(time.Duration(12+rand.Intn(85)) * time.Hour)

		records = append(records, CriminalRecord{
			VendorID:            vendor.ID,
			JurisdictionID:      jurisdiction.ID,
			CaseNumber:          fmt.Sprintf("CASE-%06d", 100000+rand.Intn(900000)),
			DefendantName:       seedFirstNames[rand.Intn(len(seedFirstNames))] + " " + seedLastNames[rand.Intn(len(seedLastNames))],
			DispositionType:     dispositions[rand.Intn(len(dispositions))],
			DispositionDate:     &disposition,
			FilingDate:          &filing,
			CourtFilingDate:     &courtFiling,
			PIIStatus:           DerivePIIStatus(hasDOB, hasSSN, hasFullName),
			HasDOB:              hasDOB,
			HasSSN:              hasSSN,
			HasFullName:         hasFullName,
			DispositionVerified: rand.Float64() < verifiedOdds(vendor.Name),
			VendorDeliveryDate:  &delivery,
			TurnaroundHours:     delivery.Sub(courtFiling).Hours(),
			FreshnessDays:       float64(int(delivery.Sub(courtFiling).Hours() / 24)),
		})
	}
	return records
}

func seedAlerts(tx *gorm.DB, vendors []Vendor) error {
	configs := []struct {
		alertType AlertType
		threshold float64
		severity  AlertSeverity
	}{
		{AlertPIICompleteness, 90.0, SeverityHigh},
		{AlertDispositionAccuracy, 95.0, SeverityHigh},
		{AlertTurnaroundTime, 72.0, SeverityMedium},
	}

	for _, v := range vendors {
		for _, c := range configs {
			cfg := AlertConfiguration{
				VendorID:       v.ID,
				AlertType:      c.alertType,
				ThresholdValue: c.threshold,
				IsActive:       true,
			}
			if err := tx.Create(&cfg).Error; err != nil {
				return err
			}

			// The budget provider gets a few sample breaches so the alert
			// endpoints return data out of the box.
			if v.Name == "VendorC" && rand.Float64() < 0.7 {
				alert := Alert{
					VendorID:           v.ID,
					AlertType:          c.alertType,
					Severity:           c.severity,
					Status:             StatusActive,
					Title:              alertTitle(c.alertType),
					Description:        fmt.Sprintf("Vendor %s has fallen below threshold for %s", v.Name, c.alertType),
					CurrentValue:       c.threshold - (5 + rand.Float64()*10),
					ThresholdValue:     c.threshold,
					VariancePercentage: 5 + rand.Float64()*10,
					TriggeredAt:        time.Now().AddDate(0, 0, -rand.Intn(30)),
				}
				if err := tx.Create(&alert).Error; err != nil {
					return err
				}
			}
		}
	}

	changes := []SchemaChange{
		{ChangeDescription: "Updated misdemeanor classification logic", FieldAffected: "disposition_type", OldValue: "old_misdemeanor", NewValue: "new_misdemeanor", RecordsAffected: 150},
		{ChangeDescription: "Enhanced PII data collection", FieldAffected: "pii_fields", OldValue: "name_only", NewValue: "name_dob_ssn", RecordsAffected: 75},
		{ChangeDescription: "Improved court filing date parsing", FieldAffected: "filing_date", OldValue: "mm/dd/yyyy", NewValue: "iso_format", RecordsAffected: 200},
	}
	changeVendors := []string{"VendorC", "VendorB", "VendorA"}
	byName := make(map[string]uint, len(vendors))
	for _, v := range vendors {
		byName[v.Name] = v.ID
	}
	for i := range changes {
		changes[i].VendorID = byName[changeVendors[i]]
		changes[i].ChangeDate = time.Now().AddDate(0, 0, -(1 + rand.Intn(30)))
		if err := tx.Create(&changes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func alertTitle(t AlertType) string {
	switch t {
	case AlertPIICompleteness:
		return "PII Completeness Alert"
	case AlertDispositionAccuracy:
		return "Disposition Accuracy Alert"
	case AlertTurnaroundTime:
		return "Turnaround Time Alert"
	case AlertCoverageDrop:
		return "Coverage Drop Alert"
	default:
		return "Quality Drop Alert"
	}
}
