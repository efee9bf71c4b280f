package types

// Severity is the ordinal impact of a hazard, from 1 (negligible) to 5 (catastrophic).
type Severity int

const (
	SeverityNegligible Severity = iota + 1
	SeverityMinor
	SeverityModerate
	SeverityMajor
	SeverityCatastrophic
)

// AllSeverities returns every valid severity in ascending order
func AllSeverities() []Severity {
	return []Severity{
		SeverityNegligible,
		SeverityMinor,
		SeverityModerate,
		SeverityMajor,
		SeverityCatastrophic,
	}
}

// Validate checks if the severity lies within [1,5]
func (s Severity) Validate() error {
	return validateLevel("severity", int(s))
}

// Int returns the severity as a plain integer
func (s Severity) Int() int {
	return int(s)
}

// ParseSeverity parses a decimal string into a Severity
func ParseSeverity(s string) (Severity, error) {
	v, err := parseLevel("severity", s)
	if err != nil {
		return 0, err
	}
	return Severity(v), nil
}
