package normalize

// Metric keys appear under several spellings in field recordings; the
// alias table maps every known variant to its canonical key at load
// time. Unknown keys pass through unchanged.
var metricAliases = map[string]string{
	"stride_lenght":  "stride_length", // recurring typo in insole exports
	"knee_flex_max":  "knee_flexion_max",
	"knee_ext_max":   "knee_extension_max",
	"double_support": "double_support_time",
}

// ResolveAlias returns the canonical spelling of a metric key.
func ResolveAlias(key string) string {
	if canonical, ok := metricAliases[key]; ok {
		return canonical
	}
	return key
}
