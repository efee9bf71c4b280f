package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

func TestRiskCode_Tier(t *testing.T) {
	tests := []struct {
		code types.RiskCode
		want types.RiskTier
	}{
		{types.RiskCodeC, types.RiskTierLow},
		{types.RiskCodeB, types.RiskTierMedium},
		{types.RiskCodeA, types.RiskTierHigh},
		{types.RiskCodeAA, types.RiskTierExtreme},
		{"X", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			gt.Value(t, tt.code.Tier()).Equal(tt.want)
		})
	}
}

func TestRiskCode_Rank(t *testing.T) {
	codes := types.AllRiskCodes()
	for i := 1; i < len(codes); i++ {
		gt.Bool(t, codes[i-1].Rank() < codes[i].Rank()).True()
	}
	gt.Value(t, types.RiskCode("").Rank()).Equal(0)
}

func TestParseRiskCode(t *testing.T) {
	code, err := types.ParseRiskCode("AA")
	gt.NoError(t, err)
	gt.Value(t, code).Equal(types.RiskCodeAA)

	_, err = types.ParseRiskCode("aa")
	gt.Error(t, err)
}

func TestParseRiskTier(t *testing.T) {
	for _, tier := range types.AllRiskTiers() {
		got, err := types.ParseRiskTier(tier.String())
		gt.NoError(t, err)
		gt.Value(t, got).Equal(tier)
	}
	_, err := types.ParseRiskTier("Critical")
	gt.Error(t, err)
}
