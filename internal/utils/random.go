package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

func SecureRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GenerateCreditCode produces a human-readable flat credit code with the
// confusable characters (0, O, I, L) swapped out.
func GenerateCreditCode() string {
	code := strings.ToUpper(GenerateRandomString(CreditCodeLength))

	code = strings.ReplaceAll(code, "0", "2")
	code = strings.ReplaceAll(code, "O", "3")
	code = strings.ReplaceAll(code, "I", "4")
	code = strings.ReplaceAll(code, "L", "5")

	return "ECO-" + code
}

// GenerateCheckoutReference produces the idempotency key for a checkout
// commit.
func GenerateCheckoutReference() string {
	return "chk_" + uuid.NewString()
}

func GenerateSessionID() string {
	return GenerateRandomString(64)
}
