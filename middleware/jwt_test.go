package middleware

import (
	"errors"
	"testing"

	"finpay/config"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageHidesDetailInProduction(t *testing.T) {
	config.AppConfig = &config.Config{Env: "production"}
	assert.Equal(t, "Failed to approve deposit!",
		ErrorMessage("Failed to approve deposit!", errors.New("pq: connection reset")))
}

func TestErrorMessageShowsDetailInDevelopment(t *testing.T) {
	config.AppConfig = &config.Config{Env: "development"}
	assert.Equal(t, "Failed to approve deposit! (pq: connection reset)",
		ErrorMessage("Failed to approve deposit!", errors.New("pq: connection reset")))

	// No underlying error, nothing to append.
	assert.Equal(t, "Failed to approve deposit!",
		ErrorMessage("Failed to approve deposit!", nil))
}
