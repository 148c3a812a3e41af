package services

import (
	"context"
	"testing"

	"ecocreds/internal/models"
	"ecocreds/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newLoyaltyFixture(t *testing.T, balance int64) (LoyaltyService, *fakeLoyaltyRepo, *fakeActivityRepo, *fakeNotifier, primitive.ObjectID) {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)

	userID := primitive.NewObjectID()
	loyaltyRepo := &fakeLoyaltyRepo{account: &models.LoyaltyAccount{
		UserID:       userID,
		PointBalance: balance,
		CurrentTier:  "Starter",
	}}
	activityRepo := &fakeActivityRepo{}
	notifier := &fakeNotifier{}

	service := NewLoyaltyService(loyaltyRepo, activityRepo, notifier, log)
	return service, loyaltyRepo, activityRepo, notifier, userID
}

func TestAwardPointsUpdatesBalanceAndHistory(t *testing.T) {
	service, loyaltyRepo, activityRepo, _, userID := newLoyaltyFixture(t, 50)

	account, err := service.AwardPoints(context.Background(), userID, 30, "Order placed", "chk_abc")
	require.NoError(t, err)

	assert.Equal(t, int64(80), account.PointBalance)
	assert.Equal(t, int64(30), account.LifetimeEarned)
	assert.Equal(t, "Starter", account.CurrentTier)

	require.NotNil(t, loyaltyRepo.saved)
	assert.Equal(t, int64(80), loyaltyRepo.saved.PointBalance)

	require.Len(t, activityRepo.activities, 1)
	assert.Equal(t, models.ActivityPointsEarned, activityRepo.activities[0].Type)
	assert.Equal(t, int64(30), activityRepo.activities[0].Points)
	assert.Equal(t, "chk_abc", activityRepo.activities[0].Reference)
}

func TestAwardPointsNotifiesOnTierChange(t *testing.T) {
	service, _, _, notifier, userID := newLoyaltyFixture(t, 90)

	account, err := service.AwardPoints(context.Background(), userID, 20, "Order placed", "chk_abc")
	require.NoError(t, err)

	// 90 + 20 crosses the Explorer threshold at 100
	assert.Equal(t, "Explorer", account.CurrentTier)
	assert.Contains(t, notifier.userEvents, "points_earned")
	assert.Contains(t, notifier.userEvents, "tier_changed")
}

func TestAwardPointsStaysQuietWithinTier(t *testing.T) {
	service, _, _, notifier, userID := newLoyaltyFixture(t, 10)

	_, err := service.AwardPoints(context.Background(), userID, 20, "Order placed", "chk_abc")
	require.NoError(t, err)

	assert.Contains(t, notifier.userEvents, "points_earned")
	assert.NotContains(t, notifier.userEvents, "tier_changed")
}

func TestAwardPointsRejectsNonPositive(t *testing.T) {
	service, loyaltyRepo, _, _, userID := newLoyaltyFixture(t, 10)

	_, err := service.AwardPoints(context.Background(), userID, 0, "nope", "")
	require.Error(t, err)
	assert.Nil(t, loyaltyRepo.saved)
}

func TestGetStatusDerivesFromBalance(t *testing.T) {
	service, _, _, _, userID := newLoyaltyFixture(t, 300)

	status, err := service.GetStatus(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "Explorer", string(status.CurrentTier))
	assert.Equal(t, "Shopper", string(status.NextTier))
	assert.InDelta(t, 50.0, status.ProgressToNext, 0.001)
}
