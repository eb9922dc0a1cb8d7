// pkg/country/table.go
package country

// DefaultSynonyms is the built-in variant->canonical table, seeded from
// the variations, typos, abbreviations, historical names and adjectival
// forms observed in the source country and nationality fields. Entries
// supplied through configuration are merged over these.
func DefaultSynonyms() map[string]string {
	return map[string]string{
		"Russia":                         "Russia",
		"Russian Federation":             "Russia",
		"Russian":                        "Russia",
		"Belarusian SSR, (now Belarus)":  "Belarus",
		"Uzbekhistan":                    "Uzbekistan",
		"Ukrainian SSR now Ukraine":      "Ukrainian SSR (now Ukraine)",
		"Ukrainian SSR (Ukraine)":        "Ukrainian SSR (now Ukraine)",
		"Ukrainian SSR":                  "Ukrainian SSR (now Ukraine)",
		"Kazakh Soviet Socialist Republic (now Kazakhstan)": "Kazakh SSR (now Kazakhstan)",
		"Kazakh Soviet Socialist Republic":                  "Kazakh SSR (now Kazakhstan)",
		"Kazakh SSR":                     "Kazakh SSR (now Kazakhstan)",
		"Bosnia-Herzegovina":             "Bosnia and Herzegovina",
		"Uzbek SSR":                      "Uzbekistan SSR (now Uzbekistan)",
		"USSR":                           "Russia (USSR)",
		"United Republic of Tanzania":    "Tanzania",
		"German":                         "Germany",
		"Democratic People's Republic of Korea": "North Korea",
		"DPRK":                           "North Korea",
		"Türkiye":                        "Turkey",
		"United States of America":       "United States",
		"U.S.A":                          "United States",
		"USA":                            "United States",
		"UK":                             "United Kingdom",
		"Great Britain":                  "United Kingdom",
		"Guinea-Bissau":                  "Guinea Bissau",
	}
}

// MergeSynonyms layers override entries on top of the defaults.
func MergeSynonyms(overrides map[string]string) map[string]string {
	merged := DefaultSynonyms()
	for variant, canonical := range overrides {
		merged[variant] = canonical
	}
	return merged
}
