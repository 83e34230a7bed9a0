package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	return nil
}

// generateSecureToken returns 2*length hex characters from crypto/rand.
// Used for email confirmation, password reset and team invite tokens.
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
