package types

import "fmt"

// ReferenceKind identifies a master-data table offered to the HRA form as a dropdown
type ReferenceKind string

const (
	ReferenceKindProcess             ReferenceKind = "process"
	ReferenceKindSubProcess          ReferenceKind = "sub_process"
	ReferenceKindActivity            ReferenceKind = "activity"
	ReferenceKindSubActivity         ReferenceKind = "sub_activity"
	ReferenceKindControlHierarchy    ReferenceKind = "control_hierarchy"
	ReferenceKindHealthHazard        ReferenceKind = "health_hazard"
	ReferenceKindHealthRisk          ReferenceKind = "health_risk"
	ReferenceKindOperationManagement ReferenceKind = "operation_management"
)

// AllReferenceKinds returns all valid reference kinds
func AllReferenceKinds() []ReferenceKind {
	return []ReferenceKind{
		ReferenceKindProcess,
		ReferenceKindSubProcess,
		ReferenceKindActivity,
		ReferenceKindSubActivity,
		ReferenceKindControlHierarchy,
		ReferenceKindHealthHazard,
		ReferenceKindHealthRisk,
		ReferenceKindOperationManagement,
	}
}

// IsValid checks if the reference kind is valid
func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceKindProcess,
		ReferenceKindSubProcess,
		ReferenceKindActivity,
		ReferenceKindSubActivity,
		ReferenceKindControlHierarchy,
		ReferenceKindHealthHazard,
		ReferenceKindHealthRisk,
		ReferenceKindOperationManagement:
		return true
	default:
		return false
	}
}

// HasCode reports whether entries of this kind carry a short code next to their name
func (k ReferenceKind) HasCode() bool {
	switch k {
	case ReferenceKindProcess,
		ReferenceKindSubProcess,
		ReferenceKindActivity,
		ReferenceKindSubActivity,
		ReferenceKindControlHierarchy:
		return true
	default:
		return false
	}
}

// Parent returns the kind an entry of this kind may point to, or "" for top-level kinds
func (k ReferenceKind) Parent() ReferenceKind {
	switch k {
	case ReferenceKindSubProcess:
		return ReferenceKindProcess
	case ReferenceKindActivity:
		return ReferenceKindSubProcess
	case ReferenceKindSubActivity:
		return ReferenceKindActivity
	default:
		return ""
	}
}

// String returns the string representation of the reference kind
func (k ReferenceKind) String() string {
	return string(k)
}

// ParseReferenceKind parses a string into a ReferenceKind
func ParseReferenceKind(s string) (ReferenceKind, error) {
	kind := ReferenceKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid reference kind: %s", s)
	}
	return kind, nil
}
