package model

import (
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

// HRAID identifies a Health Risk Assessment record
type HRAID int64

// HRAContent holds the descriptive fields of an HRA entered by the user.
type HRAContent struct {
	ProcessID             ReferenceID
	SubProcessID          ReferenceID
	ActivityID            ReferenceID
	SubActivityID         ReferenceID // zero when the activity has no sub-activity
	HealthHazardID        ReferenceID
	HealthRiskID          ReferenceID
	OperationManagementID ReferenceID
	ControlHierarchyIDs   []ReferenceID

	PreventiveControl string
	DetectiveControl  string
	MitigativeControl string

	HazardPhotoURL string
	RiskPhotoURL   string
}

// Validate checks the mandatory links of the content
func (c *HRAContent) Validate() error {
	if c.ProcessID == 0 {
		return goerr.New("process is required")
	}
	if c.SubProcessID == 0 {
		return goerr.New("sub-process is required")
	}
	if c.ActivityID == 0 {
		return goerr.New("activity is required")
	}
	if c.HealthHazardID == 0 {
		return goerr.New("health hazard is required")
	}
	if c.HealthRiskID == 0 {
		return goerr.New("health risk is required")
	}
	return nil
}

// References lists every reference the content points to, keyed by kind
func (c *HRAContent) References() map[types.ReferenceKind][]ReferenceID {
	refs := map[types.ReferenceKind][]ReferenceID{
		types.ReferenceKindProcess:      {c.ProcessID},
		types.ReferenceKindSubProcess:   {c.SubProcessID},
		types.ReferenceKindActivity:     {c.ActivityID},
		types.ReferenceKindHealthHazard: {c.HealthHazardID},
		types.ReferenceKindHealthRisk:   {c.HealthRiskID},
	}
	if c.SubActivityID != 0 {
		refs[types.ReferenceKindSubActivity] = []ReferenceID{c.SubActivityID}
	}
	if c.OperationManagementID != 0 {
		refs[types.ReferenceKindOperationManagement] = []ReferenceID{c.OperationManagementID}
	}
	if len(c.ControlHierarchyIDs) > 0 {
		refs[types.ReferenceKindControlHierarchy] = append([]ReferenceID(nil), c.ControlHierarchyIDs...)
	}
	return refs
}

// Uses reports whether the content points to the given reference
func (c *HRAContent) Uses(kind types.ReferenceKind, id ReferenceID) bool {
	for _, ref := range c.References()[kind] {
		if ref == id {
			return true
		}
	}
	return false
}

// HRA is a persisted Health Risk Assessment record. The two evaluations are stored as flat
// fields and are read-only once persisted; they change only through an HRADraft.
type HRA struct {
	ID HRAID
	HRAContent

	WithoutControl RiskEvaluation
	WithControl    RiskEvaluation

	CreatedBy types.UserID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the record
func (h *HRA) Clone() *HRA {
	if h == nil {
		return nil
	}
	c := *h
	c.ControlHierarchyIDs = append([]ReferenceID(nil), h.ControlHierarchyIDs...)
	return &c
}

// Consistent reports whether both stored evaluations match the evaluator
func (h *HRA) Consistent() bool {
	return h.WithoutControl.Consistent() && h.WithControl.Consistent()
}

// HRADraft is the in-memory form state of an HRA being created or edited. Every change to a
// likelihood or severity goes through SetWithoutControl/SetWithControl so the derived fields are
// recomputed on the spot.
type HRADraft struct {
	HRAContent

	withoutControl    RiskEvaluation
	withControl       RiskEvaluation
	withoutControlErr error
	withControlErr    error
}

// NewHRADraft starts an empty draft for the given content. Both evaluations start missing.
func NewHRADraft(content HRAContent) *HRADraft {
	return &HRADraft{
		HRAContent:        content,
		withoutControlErr: goerr.Wrap(ErrInvalidInput, "without-control risk not entered"),
		withControlErr:    goerr.Wrap(ErrInvalidInput, "with-control risk not entered"),
	}
}

// EditHRA starts a draft from a persisted record for editing
func EditHRA(h *HRA) *HRADraft {
	d := &HRADraft{HRAContent: h.Clone().HRAContent}
	d.withoutControlErr = d.withoutControl.reevaluate(h.WithoutControl.Likelihood, h.WithoutControl.Severity)
	d.withControlErr = d.withControl.reevaluate(h.WithControl.Likelihood, h.WithControl.Severity)
	return d
}

// SetWithoutControl sets the rating before mitigation and recomputes its derived fields.
// On InvalidInput the derived fields stay blank and the error is returned.
func (d *HRADraft) SetWithoutControl(likelihood types.Likelihood, severity types.Severity) error {
	d.withoutControlErr = d.withoutControl.reevaluate(likelihood, severity)
	return d.withoutControlErr
}

// SetWithControl sets the rating after mitigation and recomputes its derived fields.
func (d *HRADraft) SetWithControl(likelihood types.Likelihood, severity types.Severity) error {
	d.withControlErr = d.withControl.reevaluate(likelihood, severity)
	return d.withControlErr
}

// WithoutControl returns the current before-mitigation evaluation
func (d *HRADraft) WithoutControl() RiskEvaluation {
	return d.withoutControl
}

// WithControl returns the current after-mitigation evaluation
func (d *HRADraft) WithControl() RiskEvaluation {
	return d.withControl
}

// Err returns the pending evaluation errors of the draft, or nil when both pairs are valid
func (d *HRADraft) Err() error {
	var errs []error
	if d.withoutControlErr != nil {
		errs = append(errs, goerr.Wrap(d.withoutControlErr, "without control", goerr.V(ControlKey, "without")))
	}
	if d.withControlErr != nil {
		errs = append(errs, goerr.Wrap(d.withControlErr, "with control", goerr.V(ControlKey, "with")))
	}
	return errors.Join(errs...)
}

// Apply writes the draft into the record at submit time. It refuses drafts with invalid content
// or an invalid evaluation and leaves the record untouched in that case.
func (d *HRADraft) Apply(h *HRA) error {
	if err := d.HRAContent.Validate(); err != nil {
		return err
	}
	if err := d.Err(); err != nil {
		return err
	}

	h.HRAContent = d.HRAContent
	h.ControlHierarchyIDs = append([]ReferenceID(nil), d.ControlHierarchyIDs...)
	h.WithoutControl = d.withoutControl
	h.WithControl = d.withControl
	return nil
}
