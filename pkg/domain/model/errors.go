package model

// Context keys for error values
const (
	LikelihoodKey    = "likelihood"
	SeverityKey      = "severity"
	ReferenceIDKey   = "reference_id"
	ReferenceKindKey = "reference_kind"
	HRAIDKey         = "hra_id"
	ControlKey       = "control"
)
