package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/model/auth"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/repository/memory"
	"github.com/secmon-lab/hra/pkg/usecase"
)

const (
	adminID    types.UserID = "5a0c2e9f-1b7d-4c3a-8e6f-0d9b2a4c6e81"
	employeeID types.UserID = "7e3b1d5c-9a2f-4e6b-b0c8-3f1a5d7e9c24"
)

func adminCtx() context.Context {
	return auth.ContextWithUser(context.Background(), &auth.User{ID: adminID, Email: "admin@example.com", Role: types.RoleAdmin})
}

func employeeCtx() context.Context {
	return auth.ContextWithUser(context.Background(), &auth.User{ID: employeeID, Email: "worker@example.com", Role: types.RoleEmployee})
}

// fixture is the master data of one mining process with a single activity chain
type fixture struct {
	Process     *model.Reference
	SubProcess  *model.Reference
	Activity    *model.Reference
	SubActivity *model.Reference
	Control     *model.Reference
	Hazard      *model.Reference
	Risk        *model.Reference
	Operation   *model.Reference
}

func seedReferences(t *testing.T, uc *usecase.UseCases) *fixture {
	t.Helper()
	ctx := adminCtx()

	create := func(ref *model.Reference) *model.Reference {
		created, err := uc.Reference.Create(ctx, ref)
		gt.NoError(t, err).Required()
		return created
	}

	f := &fixture{}
	f.Process = create(&model.Reference{Kind: types.ReferenceKindProcess, Code: "P01", Name: "Mining"})
	f.SubProcess = create(&model.Reference{Kind: types.ReferenceKindSubProcess, Code: "SP01", Name: "Blasting", ParentID: f.Process.ID})
	f.Activity = create(&model.Reference{Kind: types.ReferenceKindActivity, Code: "A01", Name: "Charging holes", ParentID: f.SubProcess.ID})
	f.SubActivity = create(&model.Reference{Kind: types.ReferenceKindSubActivity, Code: "SA01", Name: "Loading explosives", ParentID: f.Activity.ID})
	f.Control = create(&model.Reference{Kind: types.ReferenceKindControlHierarchy, Code: "CH3", Name: "Engineering"})
	f.Hazard = create(&model.Reference{Kind: types.ReferenceKindHealthHazard, Name: "Noise"})
	f.Risk = create(&model.Reference{Kind: types.ReferenceKindHealthRisk, Name: "Hearing loss"})
	f.Operation = create(&model.Reference{Kind: types.ReferenceKindOperationManagement, Name: "Shift rotation"})
	return f
}

func (f *fixture) input(without, with [2]int) usecase.HRAInput {
	return usecase.HRAInput{
		HRAContent: model.HRAContent{
			ProcessID:             f.Process.ID,
			SubProcessID:          f.SubProcess.ID,
			ActivityID:            f.Activity.ID,
			SubActivityID:         f.SubActivity.ID,
			HealthHazardID:        f.Hazard.ID,
			HealthRiskID:          f.Risk.ID,
			OperationManagementID: f.Operation.ID,
			ControlHierarchyIDs:   []model.ReferenceID{f.Control.ID},
			PreventiveControl:     "Hearing protection",
		},
		WithoutControl: usecase.RiskPair{Likelihood: types.Likelihood(without[0]), Severity: types.Severity(without[1])},
		WithControl:    usecase.RiskPair{Likelihood: types.Likelihood(with[0]), Severity: types.Severity(with[1])},
	}
}

func newUseCases(opts ...usecase.Option) (*usecase.UseCases, *memory.Memory) {
	repo := memory.New()
	return usecase.New(repo, opts...), repo
}
