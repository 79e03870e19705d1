package storage

import (
	"context"
	"strings"

	"github.com/taxwise-in/taxwise/internal/common"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return common.NewValidationError("context", "context must not be nil")
	}
	return ctx.Err()
}

func validateString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidationError(field, field+" must not be empty")
	}
	return nil
}
