package checkout

import (
	"testing"
	"time"

	"ecocreds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testConfig = Config{
	FreeDeliveryThreshold: 500,
	FlatDeliveryFee:       49,
	OffsetFeeAmount:       20,
	PointsPerHundred:      1,
	OffsetBonusPoints:     5,
}

func line(price, qty int64) models.CartLine {
	return models.CartLine{ProductID: primitive.NewObjectID(), UnitPrice: price, Quantity: qty}
}

func credit(value, minOrder int64, issued time.Time) models.FlatCredit {
	return models.FlatCredit{
		ID:            primitive.NewObjectID(),
		Code:          "ECO-TEST",
		Value:         value,
		MinOrderValue: minOrder,
		Status:        models.CreditStatusAvailable,
		IssuedAt:      issued,
	}
}

func account(balance int64) *models.LoyaltyAccount {
	return &models.LoyaltyAccount{PointBalance: balance}
}

func TestComputeQuoteEmptyCart(t *testing.T) {
	_, err := ComputeQuote(nil, account(0), nil, Selections{}, testConfig)
	assert.ErrorIs(t, err, ErrInvalidCart)
}

func TestComputeQuoteRejectsMalformedLine(t *testing.T) {
	_, err := ComputeQuote([]models.CartLine{line(100, 0)}, account(0), nil, Selections{}, testConfig)
	assert.ErrorIs(t, err, ErrInvalidCart)

	_, err = ComputeQuote([]models.CartLine{line(-1, 1)}, account(0), nil, Selections{}, testConfig)
	assert.ErrorIs(t, err, ErrInvalidCart)
}

func TestDeliveryFeeThreshold(t *testing.T) {
	// Subtotal 600 over a 500 threshold rides free.
	q, err := ComputeQuote([]models.CartLine{line(600, 1)}, account(0), nil, Selections{}, testConfig)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.DeliveryFee)

	// Subtotal 400 under the threshold pays the flat fee.
	q, err = ComputeQuote([]models.CartLine{line(400, 1)}, account(0), nil, Selections{}, testConfig)
	require.NoError(t, err)
	assert.Equal(t, int64(49), q.DeliveryFee)
}

func TestOffsetFeeAndBonus(t *testing.T) {
	q, err := ComputeQuote([]models.CartLine{line(400, 1)}, account(0), nil, Selections{OffsetSelected: true}, testConfig)
	require.NoError(t, err)

	assert.Equal(t, int64(20), q.OffsetFee)
	assert.Equal(t, int64(400+49+20), q.PreDiscountTotal)
	// 400/100*1 + offset bonus
	assert.Equal(t, int64(4+5), q.PointsEarned)
}

func TestBestSingleCouponPolicy(t *testing.T) {
	issued := time.Now()
	credits := []models.FlatCredit{
		credit(20, 0, issued),
		credit(50, 0, issued),
	}

	q, err := ComputeQuote([]models.CartLine{line(1000, 1)}, account(0), credits, Selections{}, testConfig)
	require.NoError(t, err)

	require.Len(t, q.AppliedCredits, 1)
	assert.Equal(t, int64(50), q.AppliedCredits[0].Value)
	assert.Equal(t, int64(50), q.DiscountTotal())
}

func TestBestSingleCouponTieBreaksOnIssueDate(t *testing.T) {
	older := credit(50, 0, time.Now().Add(-time.Hour))
	newer := credit(50, 0, time.Now())

	q, err := ComputeQuote([]models.CartLine{line(1000, 1)}, account(0),
		[]models.FlatCredit{newer, older}, Selections{}, testConfig)
	require.NoError(t, err)

	require.Len(t, q.AppliedCredits, 1)
	assert.Equal(t, older.ID.Hex(), q.AppliedCredits[0].ID)
}

func TestCreditMinOrderValueGate(t *testing.T) {
	credits := []models.FlatCredit{credit(50, 500, time.Now())}

	q, err := ComputeQuote([]models.CartLine{line(400, 1)}, account(0), credits, Selections{}, testConfig)
	require.NoError(t, err)

	assert.Empty(t, q.AppliedCredits, "credit gated by min order value must not apply")
}

func TestStackCreditsFlag(t *testing.T) {
	cfg := testConfig
	cfg.StackCredits = true
	issued := time.Now()
	credits := []models.FlatCredit{
		credit(20, 0, issued),
		credit(50, 0, issued),
	}

	q, err := ComputeQuote([]models.CartLine{line(1000, 1)}, account(0), credits, Selections{}, cfg)
	require.NoError(t, err)

	assert.Len(t, q.AppliedCredits, 2)
	assert.Equal(t, int64(70), q.DiscountTotal())
}

func TestPointsRedemptionClampsToCap(t *testing.T) {
	// Balance 1245, remaining after flat 1000, requested 2000: applied
	// points clamp to 1000.
	credits := []models.FlatCredit{credit(49, 0, time.Now())}
	q, err := ComputeQuote([]models.CartLine{line(1049, 1)}, account(1245), credits,
		Selections{RequestedPoints: 2000}, testConfig)
	require.NoError(t, err)

	require.Equal(t, int64(1000), q.PreDiscountTotal-49)
	assert.Equal(t, int64(1000), q.AppliedPoints)
	assert.Equal(t, int64(0), q.Total)
}

func TestPointsRedemptionBoundedByBalance(t *testing.T) {
	q, err := ComputeQuote([]models.CartLine{line(1000, 1)}, account(300), nil,
		Selections{RequestedPoints: 1000}, testConfig)
	require.NoError(t, err)

	assert.Equal(t, int64(300), q.AppliedPoints)
	assert.Equal(t, int64(700), q.Total)
}

func TestNegativePointsRequestRejected(t *testing.T) {
	_, err := ComputeQuote([]models.CartLine{line(100, 1)}, account(100), nil,
		Selections{RequestedPoints: -1}, testConfig)
	assert.ErrorIs(t, err, ErrInvalidRedemption)
}

func TestStaleCreditRejected(t *testing.T) {
	used := credit(50, 0, time.Now())
	used.Status = models.CreditStatusUsed

	_, err := ComputeQuote([]models.CartLine{line(1000, 1)}, account(0),
		[]models.FlatCredit{used}, Selections{}, testConfig)
	assert.ErrorIs(t, err, ErrStaleInstrument)
}

func TestTotalInvariants(t *testing.T) {
	carts := [][]models.CartLine{
		{line(1, 1)},
		{line(100, 3), line(250, 2)},
		{line(10000, 1)},
		{line(49, 1)},
	}
	credits := []models.FlatCredit{credit(50, 0, time.Now()), credit(30, 100, time.Now())}

	for _, lines := range carts {
		for _, pts := range []int64{0, 10, 100000} {
			q, err := ComputeQuote(lines, account(500), credits, Selections{RequestedPoints: pts, OffsetSelected: true}, testConfig)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, q.Total, int64(0))
			assert.LessOrEqual(t, q.Total, q.PreDiscountTotal)
			assert.LessOrEqual(t, q.DiscountTotal(), q.PreDiscountTotal)
			assert.Equal(t, q.Total, q.PreDiscountTotal-q.DiscountTotal())
		}
	}
}

func TestCO2Accumulation(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: primitive.NewObjectID(), UnitPrice: 100, Quantity: 2, CO2PerUnit: 1.5},
		{ProductID: primitive.NewObjectID(), UnitPrice: 200, Quantity: 1, CO2PerUnit: 0.25},
	}

	q, err := ComputeQuote(lines, account(0), nil, Selections{}, testConfig)
	require.NoError(t, err)

	assert.InDelta(t, 3.25, q.TotalCO2, 0.0001)
}

func TestValidateForCommit(t *testing.T) {
	c := credit(50, 0, time.Now())
	q, err := ComputeQuote([]models.CartLine{line(1000, 1)}, account(200),
		[]models.FlatCredit{c}, Selections{RequestedPoints: 200}, testConfig)
	require.NoError(t, err)

	fresh := map[string]models.FlatCredit{c.ID.Hex(): c}

	// Unchanged snapshot commits cleanly.
	assert.NoError(t, ValidateForCommit(q, account(200), fresh))

	// Credit consumed between quote and commit.
	usedCopy := c
	usedCopy.Status = models.CreditStatusUsed
	err = ValidateForCommit(q, account(200), map[string]models.FlatCredit{c.ID.Hex(): usedCopy})
	assert.ErrorIs(t, err, ErrStaleInstrument)

	// Balance spent elsewhere between quote and commit.
	err = ValidateForCommit(q, account(100), fresh)
	assert.ErrorIs(t, err, ErrInvalidRedemption)
}
