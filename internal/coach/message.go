package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/briangreenhill/coachbot/internal/athlete"
	"github.com/briangreenhill/coachbot/internal/prompt"
)

// UserMessage turns a pipeline error into the text shown next to the form
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *athlete.ValidationError
	switch {
	case errors.As(err, &verr):
		return strings.Join(verr.Problems, " ")
	case errors.Is(err, prompt.ErrUnknownFeature):
		return "Please choose one of the listed coaching features."
	case errors.Is(err, ErrRateLimited):
		return "The coaching service is busy right now (quota exceeded). Please wait a minute and try again."
	case errors.Is(err, ErrEmptyResponse):
		return "The coaching service returned an empty answer. Please try again or rephrase your goal."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "The request took too long. Please try again."
	default:
		return fmt.Sprintf("An error occurred while generating the plan: %v. Please check your API key, model availability, and internet connection.", err)
	}
}
