package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

func TestReferenceKind(t *testing.T) {
	for _, k := range types.AllReferenceKinds() {
		gt.Bool(t, k.IsValid()).True()
		parsed, err := types.ParseReferenceKind(k.String())
		gt.NoError(t, err)
		gt.Value(t, parsed).Equal(k)
	}

	_, err := types.ParseReferenceKind("department")
	gt.Error(t, err)
}

func TestReferenceKind_Parent(t *testing.T) {
	gt.Value(t, types.ReferenceKindSubProcess.Parent()).Equal(types.ReferenceKindProcess)
	gt.Value(t, types.ReferenceKindActivity.Parent()).Equal(types.ReferenceKindSubProcess)
	gt.Value(t, types.ReferenceKindSubActivity.Parent()).Equal(types.ReferenceKindActivity)
	gt.Value(t, types.ReferenceKindHealthRisk.Parent()).Equal(types.ReferenceKind(""))
}

func TestReferenceKind_HasCode(t *testing.T) {
	gt.Bool(t, types.ReferenceKindControlHierarchy.HasCode()).True()
	gt.Bool(t, types.ReferenceKindHealthHazard.HasCode()).False()
}

func TestRole(t *testing.T) {
	gt.Value(t, types.Role("").Normalize()).Equal(types.RoleEmployee)
	_, err := types.ParseRole("owner")
	gt.Error(t, err)
}

func TestUserID_Validate(t *testing.T) {
	gt.NoError(t, types.UserID("6f1c1f0e-8d8b-4b7a-9f62-3c1c6f0e2a11").Validate())
	gt.Error(t, types.UserID("").Validate())
	gt.Error(t, types.UserID("user-1").Validate())
}
