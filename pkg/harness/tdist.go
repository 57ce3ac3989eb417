package harness

// criticalT95 holds the two-tailed 95% critical value of Student's
// t-distribution for degrees of freedom 1..30. No example or library in
// the retrieval pack provides a t-distribution quantile function, so
// this table — the standard reference values printed in every
// statistics textbook's t-table — stands in for one. Beyond 30 degrees
// of freedom the distribution is close enough to normal that the 1.96
// z-value is used instead.
var criticalT95 = [30]float64{
	12.706, 4.303, 3.182, 2.776, 2.571, 2.447, 2.365, 2.306, 2.262, 2.228,
	2.201, 2.179, 2.160, 2.145, 2.131, 2.120, 2.110, 2.101, 2.093, 2.086,
	2.080, 2.074, 2.069, 2.064, 2.060, 2.056, 2.052, 2.048, 2.045, 2.042,
}

// tCritical95 returns the two-tailed 95% critical t-value for df degrees
// of freedom, df >= 1.
func tCritical95(df int) float64 {
	if df < 1 {
		df = 1
	}
	if df <= len(criticalT95) {
		return criticalT95[df-1]
	}
	return 1.96
}
