package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// CheckStoreInput contains the parameters for checking the store.
type CheckStoreInput struct{}

// CheckStoreOutput contains the validation report.
type CheckStoreOutput struct {
	Problems []domain.SchemaProblem
}

// OK reports whether no problems were found.
func (o *CheckStoreOutput) OK() bool {
	return len(o.Problems) == 0
}

// CheckStore is the use case for validating the stored task blob.
type CheckStore struct {
	validator domain.TaskValidator
}

// NewCheckStore creates a new CheckStore use case.
func NewCheckStore(validator domain.TaskValidator) *CheckStore {
	return &CheckStore{
		validator: validator,
	}
}

// Execute validates the stored blob.
func (uc *CheckStore) Execute(ctx context.Context, _ CheckStoreInput) (*CheckStoreOutput, error) {
	problems, err := uc.validator.Validate(ctx)
	if err != nil {
		return nil, fmt.Errorf("validate store: %w", err)
	}
	return &CheckStoreOutput{Problems: problems}, nil
}
