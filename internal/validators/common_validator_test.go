package validators

import (
	"testing"

	"ecocreds/internal/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fieldErrors(errs ValidationErrors) map[string]string {
	fields := make(map[string]string)
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	return fields
}

func TestValidateCommitRequest(t *testing.T) {
	tests := []struct {
		name    string
		request services.CommitRequest
		wantTag map[string]string
	}{
		{
			name:    "valid with server-generated reference",
			request: services.CommitRequest{RequestedPoints: 100, PaymentMethodID: "pm_card"},
		},
		{
			name:    "valid with client reference",
			request: services.CommitRequest{Reference: "chk_abc123", PaymentMethodID: "pm_card"},
		},
		{
			name:    "malformed reference",
			request: services.CommitRequest{Reference: "order-42"},
			wantTag: map[string]string{"Reference": "checkout_reference"},
		},
		{
			name:    "negative points",
			request: services.CommitRequest{RequestedPoints: -5},
			wantTag: map[string]string{"RequestedPoints": "minor_units"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCommitRequest(&tt.request)
			if tt.wantTag == nil {
				assert.Empty(t, errs)
				return
			}
			got := fieldErrors(errs)
			for field, tag := range tt.wantTag {
				assert.Equal(t, tag, got[field])
			}
		})
	}
}

func TestValidateIssueCreditRequest(t *testing.T) {
	userID := primitive.NewObjectID()

	valid := services.IssueCreditRequest{UserID: userID, Value: 500}
	assert.Empty(t, ValidateIssueCreditRequest(&valid))

	withCode := services.IssueCreditRequest{UserID: userID, Value: 500, Code: "ECO-SPRING2026"}
	assert.Empty(t, ValidateIssueCreditRequest(&withCode))

	badCode := services.IssueCreditRequest{UserID: userID, Value: 500, Code: "SPRING26"}
	assert.Equal(t, "credit_code", fieldErrors(ValidateIssueCreditRequest(&badCode))["Code"])

	zeroValue := services.IssueCreditRequest{UserID: userID}
	assert.Equal(t, "required", fieldErrors(ValidateIssueCreditRequest(&zeroValue))["Value"])

	negativeFloor := services.IssueCreditRequest{UserID: userID, Value: 500, MinOrderValue: -1}
	assert.Equal(t, "minor_units", fieldErrors(ValidateIssueCreditRequest(&negativeFloor))["MinOrderValue"])
}

func TestObjectIDTag(t *testing.T) {
	type req struct {
		ProductID string `validate:"required,object_id"`
	}

	assert.Empty(t, ValidateStruct(&req{ProductID: primitive.NewObjectID().Hex()}))
	assert.Equal(t, "object_id", fieldErrors(ValidateStruct(&req{ProductID: "not-hex"}))["ProductID"])
}

func TestCurrencyCodeTag(t *testing.T) {
	type req struct {
		Currency string `validate:"omitempty,currency_code"`
	}

	assert.Empty(t, ValidateStruct(&req{}))
	assert.Empty(t, ValidateStruct(&req{Currency: "EUR"}))
	assert.Equal(t, "currency_code", fieldErrors(ValidateStruct(&req{Currency: "DOGE"}))["Currency"])
}
