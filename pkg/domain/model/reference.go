package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

// ReferenceID identifies a master-data entry
type ReferenceID int64

// Reference is a master-data entry offered as a dropdown option on the HRA form
type Reference struct {
	ID   ReferenceID
	Kind types.ReferenceKind
	Code string
	Name string

	// ParentID links sub-processes to processes, activities to sub-processes and
	// sub-activities to activities. Zero when unset.
	ParentID ReferenceID

	// AnimationURL is the uploaded illustration of a health risk
	AnimationURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the reference is well-formed for its kind
func (r *Reference) Validate() error {
	if !r.Kind.IsValid() {
		return goerr.New("invalid reference kind", goerr.V(ReferenceKindKey, r.Kind))
	}
	if strings.TrimSpace(r.Name) == "" {
		return goerr.New("reference name is required", goerr.V(ReferenceKindKey, r.Kind))
	}
	if r.Kind.HasCode() && strings.TrimSpace(r.Code) == "" {
		return goerr.New("reference code is required", goerr.V(ReferenceKindKey, r.Kind))
	}
	if !r.Kind.HasCode() && r.Code != "" {
		return goerr.New("reference kind does not take a code", goerr.V(ReferenceKindKey, r.Kind))
	}
	if r.ParentID != 0 && r.Kind.Parent() == "" {
		return goerr.New("reference kind does not take a parent", goerr.V(ReferenceKindKey, r.Kind))
	}
	if r.AnimationURL != "" && r.Kind != types.ReferenceKindHealthRisk {
		return goerr.New("only health risks carry an animation", goerr.V(ReferenceKindKey, r.Kind))
	}
	return nil
}

// Label returns "CODE - Name" for coded kinds and the name otherwise
func (r *Reference) Label() string {
	if r.Code == "" {
		return r.Name
	}
	return r.Code + " - " + r.Name
}

// SameKey reports whether two references of the same kind collide on their unique key:
// the code for coded kinds and the case-insensitive name otherwise.
func (r *Reference) SameKey(other *Reference) bool {
	if r.Kind != other.Kind {
		return false
	}
	if r.Kind.HasCode() {
		return strings.EqualFold(strings.TrimSpace(r.Code), strings.TrimSpace(other.Code))
	}
	return strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(other.Name))
}

// Clone returns a copy of the reference
func (r *Reference) Clone() *Reference {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// ReferenceSet is the read-only snapshot of all master data used to fill the HRA form
type ReferenceSet struct {
	entries map[types.ReferenceKind][]*Reference
	byID    map[types.ReferenceKind]map[ReferenceID]*Reference
}

// NewReferenceSet builds a snapshot from the given entries. Entries are copied.
func NewReferenceSet(refs map[types.ReferenceKind][]*Reference) *ReferenceSet {
	s := &ReferenceSet{
		entries: make(map[types.ReferenceKind][]*Reference, len(refs)),
		byID:    make(map[types.ReferenceKind]map[ReferenceID]*Reference, len(refs)),
	}
	for kind, list := range refs {
		copied := make([]*Reference, len(list))
		index := make(map[ReferenceID]*Reference, len(list))
		for i, ref := range list {
			copied[i] = ref.Clone()
			index[ref.ID] = copied[i]
		}
		s.entries[kind] = copied
		s.byID[kind] = index
	}
	return s
}

// List returns the entries of a kind. The returned references must not be modified.
func (s *ReferenceSet) List(kind types.ReferenceKind) []*Reference {
	return s.entries[kind]
}

// Lookup finds an entry by kind and ID
func (s *ReferenceSet) Lookup(kind types.ReferenceKind, id ReferenceID) (*Reference, bool) {
	ref, ok := s.byID[kind][id]
	return ref, ok
}

// Children returns the entries of kind whose parent is parentID
func (s *ReferenceSet) Children(kind types.ReferenceKind, parentID ReferenceID) []*Reference {
	var children []*Reference
	for _, ref := range s.entries[kind] {
		if ref.ParentID == parentID {
			children = append(children, ref)
		}
	}
	return children
}

// ValidateContent checks that every reference of an HRA exists with the right kind and that
// declared parent links agree with the chosen hierarchy.
func (s *ReferenceSet) ValidateContent(c *HRAContent) error {
	for kind, ids := range c.References() {
		for _, id := range ids {
			if _, ok := s.Lookup(kind, id); !ok {
				return goerr.New("reference not found",
					goerr.V(ReferenceKindKey, kind), goerr.V(ReferenceIDKey, id))
			}
		}
	}

	chain := []struct {
		kind   types.ReferenceKind
		id     ReferenceID
		parent ReferenceID
	}{
		{types.ReferenceKindSubProcess, c.SubProcessID, c.ProcessID},
		{types.ReferenceKindActivity, c.ActivityID, c.SubProcessID},
		{types.ReferenceKindSubActivity, c.SubActivityID, c.ActivityID},
	}
	for _, link := range chain {
		if link.id == 0 {
			continue
		}
		ref, _ := s.Lookup(link.kind, link.id)
		if ref.ParentID != 0 && ref.ParentID != link.parent {
			return goerr.New("reference does not belong to the selected parent",
				goerr.V(ReferenceKindKey, link.kind),
				goerr.V(ReferenceIDKey, link.id),
				goerr.V("parent_id", link.parent))
		}
	}
	return nil
}
