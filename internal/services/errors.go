package services

import (
	"errors"
	"strings"

	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
)

var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("you do not have permission to modify this resource")
)

// ValidationError carries one message per invalid field. Handlers answer
// it with a 400 and the messages joined by commas.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ",")
}

func invalid(messages ...string) error {
	return &ValidationError{Messages: messages}
}

// validate runs the shared validator over v.
func validate(v any) error {
	if err := models.Validate.Struct(v); err != nil {
		return &ValidationError{Messages: helpers.ValidationMessages(err)}
	}
	return nil
}

// repoErr converts the repository not-found sentinel into the service one.
func repoErr(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
