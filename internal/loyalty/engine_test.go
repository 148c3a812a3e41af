package loyalty

import (
	"testing"

	"ecocreds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTierBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		current  Tier
		next     Tier
		progress float64
	}{
		{"zero balance", 0, TierStarter, TierExplorer, 0},
		{"mid starter band", 50, TierStarter, TierExplorer, 50},
		{"explorer threshold", 100, TierExplorer, TierShopper, 0},
		{"mid explorer band", 300, TierExplorer, TierShopper, 50},
		{"shopper threshold", 500, TierShopper, TierChampion, 0},
		{"champion threshold", 2000, TierChampion, TierProtector, 0},
		{"protector threshold", 5000, TierProtector, TierMaster, 0},
		{"mid protector band", 7500, TierProtector, TierMaster, 50},
		{"past open band cap", 25000, TierProtector, TierMaster, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Classify(tt.balance)
			assert.Equal(t, tt.current, status.CurrentTier)
			assert.Equal(t, tt.next, status.NextTier)
			assert.InDelta(t, tt.progress, status.ProgressToNext, 0.001)
		})
	}
}

func TestClassifyProgressAlwaysInRange(t *testing.T) {
	for _, balance := range []int64{0, 1, 99, 100, 101, 499, 500, 1999, 2000, 4999, 5000, 9999, 1 << 40} {
		status := Classify(balance)
		assert.GreaterOrEqual(t, status.ProgressToNext, float64(0), "balance %d", balance)
		assert.LessOrEqual(t, status.ProgressToNext, float64(100), "balance %d", balance)
	}
}

func TestClassifyNegativeBalanceClampsToZero(t *testing.T) {
	status := Classify(-10)
	assert.Equal(t, TierStarter, status.CurrentTier)
	assert.Equal(t, float64(0), status.ProgressToNext)
}

func TestApplyDeltaEarn(t *testing.T) {
	account := &models.LoyaltyAccount{}

	require.NoError(t, ApplyDelta(account, 120))

	assert.Equal(t, int64(120), account.PointBalance)
	assert.Equal(t, int64(120), account.LifetimeEarned)
	assert.Equal(t, string(TierExplorer), account.CurrentTier)
	assert.Equal(t, string(TierShopper), account.NextTier)
	assert.InDelta(t, 5.0, account.ProgressToNext, 0.001)
}

func TestApplyDeltaRedeem(t *testing.T) {
	account := &models.LoyaltyAccount{PointBalance: 600}

	require.NoError(t, ApplyDelta(account, -150))

	assert.Equal(t, int64(450), account.PointBalance)
	assert.Equal(t, int64(150), account.LifetimeRedeemed)
	assert.Equal(t, string(TierExplorer), account.CurrentTier)
}

func TestApplyDeltaRejectsUnderflow(t *testing.T) {
	account := &models.LoyaltyAccount{PointBalance: 100}

	err := ApplyDelta(account, -101)

	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, int64(100), account.PointBalance, "balance must be untouched on rejection")
}

func TestApplyDeltaToZeroIsAllowed(t *testing.T) {
	account := &models.LoyaltyAccount{PointBalance: 100, CurrentTier: string(TierExplorer)}

	require.NoError(t, ApplyDelta(account, -100))

	assert.Equal(t, int64(0), account.PointBalance)
	assert.Equal(t, string(TierStarter), account.CurrentTier)
}

func TestApplyDeltaRecomputesTierOnEveryCall(t *testing.T) {
	account := &models.LoyaltyAccount{}

	require.NoError(t, ApplyDelta(account, 499))
	assert.Equal(t, string(TierExplorer), account.CurrentTier)

	require.NoError(t, ApplyDelta(account, 1))
	assert.Equal(t, string(TierShopper), account.CurrentTier)

	require.NoError(t, ApplyDelta(account, 4500))
	assert.Equal(t, string(TierProtector), account.CurrentTier)
	assert.Equal(t, string(TierMaster), account.NextTier)
}
