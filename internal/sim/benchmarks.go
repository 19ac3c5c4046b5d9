package sim

// OrganizationFactors adjusts scores for an organization type.
type OrganizationFactors struct {
	TechnologyComplexityMultiplier float64 `json:"technologyComplexityMultiplier"`
	FinancialImpactMultiplier      float64 `json:"financialImpactMultiplier"`
	DisruptionBoost                float64 `json:"disruptionBoost"`
}

// SizeFactors adjusts scores for a bed-count bucket.
type SizeFactors struct {
	Bucket               SizeBucket `json:"bucket"`
	ComplexityMultiplier float64    `json:"complexityMultiplier"`
	FinancialMultiplier  float64    `json:"financialMultiplier"`
}

// BenchmarkFactors are the multipliers applied to one organization.
type BenchmarkFactors struct {
	OrganizationType               OrganizationType `json:"organizationType"`
	SizeBucket                     SizeBucket       `json:"sizeBucket"`
	TechnologyComplexityMultiplier float64          `json:"technologyComplexityMultiplier"`
	FinancialImpactMultiplier      float64          `json:"financialImpactMultiplier"`
	DisruptionBoost                float64          `json:"disruptionBoost"`
	SizeComplexityMultiplier       float64          `json:"sizeComplexityMultiplier"`
	SizeFinancialMultiplier        float64          `json:"sizeFinancialMultiplier"`
}

var organizationFactors = map[OrganizationType]OrganizationFactors{
	Independent:    {TechnologyComplexityMultiplier: 1.3, FinancialImpactMultiplier: 0.9, DisruptionBoost: 0.2},
	Regional:       {TechnologyComplexityMultiplier: 1.0, FinancialImpactMultiplier: 1.1, DisruptionBoost: 0.1},
	Specialty:      {TechnologyComplexityMultiplier: 0.8, FinancialImpactMultiplier: 1.2, DisruptionBoost: 0.3},
	CriticalAccess: {TechnologyComplexityMultiplier: 1.5, FinancialImpactMultiplier: 0.7, DisruptionBoost: 0.0},
}

// LookupOrganizationFactors returns the factors for t or an UnsupportedOrganizationTypeError.
func LookupOrganizationFactors(t OrganizationType) (OrganizationFactors, error) {
	f, ok := organizationFactors[t]
	if !ok {
		return OrganizationFactors{}, &UnsupportedOrganizationTypeError{Value: string(t)}
	}
	return f, nil
}

// LookupSizeFactors buckets a bed count. Upper bounds are inclusive.
func LookupSizeFactors(beds int) SizeFactors {
	switch {
	case beds <= 100:
		return SizeFactors{Bucket: SizeSmall, ComplexityMultiplier: 1.2, FinancialMultiplier: 0.8}
	case beds <= 300:
		return SizeFactors{Bucket: SizeMedium, ComplexityMultiplier: 1.0, FinancialMultiplier: 1.0}
	case beds <= 600:
		return SizeFactors{Bucket: SizeLarge, ComplexityMultiplier: 0.9, FinancialMultiplier: 1.2}
	default:
		return SizeFactors{Bucket: SizeEnterprise, ComplexityMultiplier: 0.8, FinancialMultiplier: 1.3}
	}
}

// Benchmarks combines the type and size factors for org.
func Benchmarks(org OrganizationProfile) (BenchmarkFactors, error) {
	of, err := LookupOrganizationFactors(org.Type)
	if err != nil {
		return BenchmarkFactors{}, err
	}
	sf := LookupSizeFactors(org.Beds)
	return BenchmarkFactors{
		OrganizationType:               org.Type,
		SizeBucket:                     sf.Bucket,
		TechnologyComplexityMultiplier: of.TechnologyComplexityMultiplier,
		FinancialImpactMultiplier:      of.FinancialImpactMultiplier,
		DisruptionBoost:                of.DisruptionBoost,
		SizeComplexityMultiplier:       sf.ComplexityMultiplier,
		SizeFinancialMultiplier:        sf.FinancialMultiplier,
	}, nil
}
