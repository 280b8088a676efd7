package extract

// probe is one field-extraction strategy: it yields a candidate value which
// may be empty. Probes are tried in a fixed order, first non-empty wins.
// This replaces the nested optional-access chains the scraped markup variants
// would otherwise force on every field.
type probe func() string

func firstNonEmpty(probes ...probe) string {
	for _, p := range probes {
		if v := p(); v != "" {
			return v
		}
	}
	return ""
}
