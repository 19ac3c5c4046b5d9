package sim

// CatalogEntry is a canonical healthcare initiative used to pad sparse portfolios.
type CatalogEntry struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Category            Category `json:"category"`
	BaseFinancialImpact float64  `json:"baseFinancialImpact"`
	BaseComplexity      float64  `json:"baseComplexity"`
	BaseDisruption      float64  `json:"baseDisruption"`
	BaseUrgency         float64  `json:"baseUrgency"`
}

var catalog = []CatalogEntry{
	{
		Name:                "Electronic Health Record (EHR) Modernization",
		Description:         "Upgrade or implement comprehensive EHR system to improve clinical workflows and data integration",
		Category:            CategoryTechnology,
		BaseFinancialImpact: 3, BaseComplexity: 4, BaseDisruption: 3, BaseUrgency: 4,
	},
	{
		Name:                "Value-Based Care Program",
		Description:         "Transition to value-based payment models with focus on quality outcomes and cost reduction",
		Category:            CategoryFinancial,
		BaseFinancialImpact: 4, BaseComplexity: 4, BaseDisruption: 4, BaseUrgency: 5,
	},
	{
		Name:                "Telehealth Platform Expansion",
		Description:         "Expand telehealth capabilities to improve patient access and operational efficiency",
		Category:            CategoryTechnology,
		BaseFinancialImpact: 3, BaseComplexity: 2, BaseDisruption: 3, BaseUrgency: 4,
	},
	{
		Name:                "Physician Recruitment & Retention",
		Description:         "Comprehensive strategy to recruit and retain clinical staff in competitive market",
		Category:            CategoryWorkforce,
		BaseFinancialImpact: 4, BaseComplexity: 3, BaseDisruption: 2, BaseUrgency: 5,
	},
	{
		Name:                "Patient Experience Enhancement",
		Description:         "Systematic improvement of patient satisfaction and engagement across all touchpoints",
		Category:            CategoryOperational,
		BaseFinancialImpact: 2, BaseComplexity: 2, BaseDisruption: 2, BaseUrgency: 3,
	},
	{
		Name:                "Cybersecurity Infrastructure Upgrade",
		Description:         "Strengthen cybersecurity defenses to protect patient data and ensure regulatory compliance",
		Category:            CategoryTechnology,
		BaseFinancialImpact: 2, BaseComplexity: 3, BaseDisruption: 1, BaseUrgency: 4,
	},
	{
		Name:                "Supply Chain Optimization",
		Description:         "Optimize procurement and inventory management to reduce costs and improve efficiency",
		Category:            CategoryOperational,
		BaseFinancialImpact: 3, BaseComplexity: 3, BaseDisruption: 2, BaseUrgency: 3,
	},
	{
		Name:                "Population Health Management",
		Description:         "Implement population health strategies to improve community outcomes and reduce readmissions",
		Category:            CategoryClinical,
		BaseFinancialImpact: 4, BaseComplexity: 4, BaseDisruption: 3, BaseUrgency: 3,
	},
}

// Catalog returns a copy of the initiative catalog.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}
