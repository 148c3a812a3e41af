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

// recordingCreditRepo keeps the created credit for assertions.
type recordingCreditRepo struct {
	fakeCreditRepo
	created *models.FlatCredit
}

func (r *recordingCreditRepo) Create(ctx context.Context, credit *models.FlatCredit) error {
	credit.ID = primitive.NewObjectID()
	r.created = credit
	return nil
}

func newCreditFixture(t *testing.T) (CreditService, *recordingCreditRepo, *fakeActivityRepo, *fakeNotifier) {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)

	creditRepo := &recordingCreditRepo{}
	activityRepo := &fakeActivityRepo{}
	notifier := &fakeNotifier{}
	return NewCreditService(creditRepo, activityRepo, notifier, log), creditRepo, activityRepo, notifier
}

func TestIssueCreditGeneratesCode(t *testing.T) {
	service, repo, activityRepo, notifier := newCreditFixture(t)

	credit, err := service.IssueCredit(context.Background(), &IssueCreditRequest{
		UserID: primitive.NewObjectID(),
		Value:  500,
		Reason: "Welcome reward",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^ECO-[A-Z0-9]{10}$`, credit.Code)
	assert.Equal(t, models.CreditStatusAvailable, credit.Status)
	require.NotNil(t, credit.ExpiresAt)
	assert.Equal(t, repo.created, credit)

	require.Len(t, activityRepo.activities, 1)
	assert.Equal(t, models.ActivityCreditIssued, activityRepo.activities[0].Type)
	assert.Contains(t, notifier.userEvents, "credit_issued")
}

func TestIssueCreditHonorsCampaignCode(t *testing.T) {
	service, _, _, _ := newCreditFixture(t)

	credit, err := service.IssueCredit(context.Background(), &IssueCreditRequest{
		UserID: primitive.NewObjectID(),
		Value:  1000,
		Code:   "eco-spring2026",
	})
	require.NoError(t, err)

	assert.Equal(t, "ECO-SPRING2026", credit.Code)
}

func TestIssueCreditRejectsNonPositiveValue(t *testing.T) {
	service, repo, _, _ := newCreditFixture(t)

	_, err := service.IssueCredit(context.Background(), &IssueCreditRequest{
		UserID: primitive.NewObjectID(),
	})
	require.Error(t, err)
	assert.Nil(t, repo.created)
}
