package extract

// WholeDay is the time spent logged when a message names no duration.
const WholeDay = "1d"

var durationRules = RuleSet{
	Field: "duration",
	Rules: []Rule{
		{
			Name:    "duration",
			Pattern: tagPattern(`[0-9]{1,2}\.[0-9]{1,2}h|[0-9]{1,2}m|[0-9]d|[0-9]{1,2}h|[0-9]\.[0-9]d`),
			Scan:    ScanTags,
		},
	},
	Default: WholeDay,
	Err:     ErrAmbiguousDuration,
}

// Duration is a resolved time-spent token, kept exactly as written
// (2h, 30m, 1.5d) for the time tracker to interpret.
type Duration struct {
	Token     string `json:"token"`
	Defaulted bool   `json:"defaulted"`
}

// ResolveDuration picks the single duration tag in the stream, or a whole
// day when there is none.
func ResolveDuration(stream string) (Duration, error) {
	m, err := durationRules.Apply(stream)
	if err != nil {
		return Duration{}, err
	}
	return Duration{Token: m.Value, Defaulted: m.Defaulted}, nil
}
