package quick

func ptr(v float64) *float64 { return &v }

// DemoVendors returns canned vendor figures for demo mode.
func DemoVendors() []VendorInput {
	return []VendorInput{
		{
			Name:                "Acme Records",
			CostPerRecord:       12.50,
			QualityScore:        ptr(88.5),
			PIICompleteness:     ptr(92.0),
			DispositionAccuracy: ptr(89.0),
			AvgFreshnessDays:    ptr(3.5),
			CoveragePercentage:  ptr(85.0),
			Description:         "Premium provider with excellent accuracy",
		},
		{
			Name:                "Budget Checks",
			CostPerRecord:       6.75,
			QualityScore:        ptr(74.2),
			PIICompleteness:     ptr(78.0),
			DispositionAccuracy: ptr(82.0),
			AvgFreshnessDays:    ptr(5.2),
			CoveragePercentage:  ptr(72.0),
			Description:         "Cost-effective option for basic needs",
		},
		{
			Name:                "FastTrack Data",
			CostPerRecord:       9.25,
			QualityScore:        ptr(82.8),
			PIICompleteness:     ptr(85.0),
			DispositionAccuracy: ptr(86.0),
			AvgFreshnessDays:    ptr(2.1),
			CoveragePercentage:  ptr(91.0),
			Description:         "Fast turnaround with good coverage",
		},
		{
			Name:                "Elite Verification",
			CostPerRecord:       18.00,
			QualityScore:        ptr(95.1),
			PIICompleteness:     ptr(98.0),
			DispositionAccuracy: ptr(95.0),
			AvgFreshnessDays:    ptr(1.8),
			CoveragePercentage:  ptr(96.0),
			Description:         "Enterprise-grade accuracy and coverage",
		},
	}
}
