package scoring

// industryBenchmark holds typical fundamentals per industry, used to
// normalize a company's signals against its competitive context.
// Approximate large-cap US figures; the default row catches industries
// outside the table.
type industryBenchmark struct {
	RDIntensityPct float64 // R&D as percent of revenue
	RevenueGrowth  float64 // typical annual growth, percent
	GrossMarginPct float64
}

var industryBenchmarks = map[string]industryBenchmark{
	"Software - Infrastructure":      {RDIntensityPct: 20, RevenueGrowth: 15, GrossMarginPct: 75},
	"Software - Application":         {RDIntensityPct: 18, RevenueGrowth: 14, GrossMarginPct: 70},
	"Semiconductors":                 {RDIntensityPct: 15, RevenueGrowth: 10, GrossMarginPct: 55},
	"Semiconductor Equipment":        {RDIntensityPct: 12, RevenueGrowth: 8, GrossMarginPct: 45},
	"Consumer Electronics":           {RDIntensityPct: 7, RevenueGrowth: 5, GrossMarginPct: 38},
	"Internet Content & Information": {RDIntensityPct: 15, RevenueGrowth: 12, GrossMarginPct: 60},
	"Internet Retail":                {RDIntensityPct: 10, RevenueGrowth: 12, GrossMarginPct: 40},
	"Biotechnology":                  {RDIntensityPct: 40, RevenueGrowth: 15, GrossMarginPct: 85},
	"Drug Manufacturers - General":   {RDIntensityPct: 18, RevenueGrowth: 5, GrossMarginPct: 70},
	"Medical Devices":                {RDIntensityPct: 10, RevenueGrowth: 7, GrossMarginPct: 65},
	"Auto Manufacturers":             {RDIntensityPct: 5, RevenueGrowth: 4, GrossMarginPct: 18},
	"Aerospace & Defense":            {RDIntensityPct: 4, RevenueGrowth: 4, GrossMarginPct: 20},
	"Banks - Diversified":            {RDIntensityPct: 1, RevenueGrowth: 4, GrossMarginPct: 50},
	"Credit Services":                {RDIntensityPct: 3, RevenueGrowth: 9, GrossMarginPct: 60},
	"Oil & Gas Integrated":           {RDIntensityPct: 0.5, RevenueGrowth: 2, GrossMarginPct: 25},
	"Specialty Retail":               {RDIntensityPct: 0.5, RevenueGrowth: 4, GrossMarginPct: 32},
	"Telecom Services":               {RDIntensityPct: 2, RevenueGrowth: 2, GrossMarginPct: 55},
}

var defaultBenchmark = industryBenchmark{RDIntensityPct: 5, RevenueGrowth: 6, GrossMarginPct: 40}

// benchmarkFor resolves the benchmark row for an industry
func benchmarkFor(industry string) industryBenchmark {
	if b, ok := industryBenchmarks[industry]; ok {
		return b
	}
	return defaultBenchmark
}
