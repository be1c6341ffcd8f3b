package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/jumak-backend/internal/data/aggregates"
	"github.com/yungbote/jumak-backend/internal/platform/apierr"
	"github.com/yungbote/jumak-backend/internal/services"
	"github.com/yungbote/jumak-backend/internal/taste"
)

type APIError struct {
	Message       string   `json:"message"`
	Code          string   `json:"code,omitempty"`
	Missing       []string `json:"missing,omitempty"`
	Extra         []string `json:"extra,omitempty"`
	InvalidChoice []string `json:"invalid_choice,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a service error onto the error envelope.
func RespondServiceError(c *gin.Context, err error) {
	apiErr := Classify(err)
	env := ErrorEnvelope{Error: APIError{Message: apiErr.Error(), Code: apiErr.Code}}
	var verr *taste.ValidationError
	if errors.As(err, &verr) {
		env.Error.Missing = verr.Missing
		env.Error.Extra = verr.Extra
		env.Error.InvalidChoice = verr.InvalidChoice
	}
	if apiErr.Status >= http.StatusInternalServerError {
		env.Error.Message = "internal error"
		_ = c.Error(err)
	}
	c.JSON(apiErr.Status, env)
}

// Classify picks the HTTP status and error code for err.
func Classify(err error) *apierr.Error {
	var apiErr *apierr.Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, taste.ErrInvalidAnswers):
		return apierr.New(http.StatusBadRequest, "invalid_answers", err)
	case errors.Is(err, services.ErrInvalidReview):
		return apierr.New(http.StatusBadRequest, "invalid_review", err)
	case errors.Is(err, taste.ErrUnknownLabel):
		return apierr.New(http.StatusNotFound, "unknown_type", err)
	case errors.Is(err, services.ErrNoPriorResult):
		return apierr.New(http.StatusNotFound, "no_prior_result", err)
	case errors.Is(err, services.ErrReviewNotFound):
		return apierr.New(http.StatusNotFound, "review_not_found", err)
	case errors.Is(err, services.ErrQuizAlreadyTaken):
		return apierr.New(http.StatusConflict, "quiz_already_taken", err)
	case errors.Is(err, services.ErrDuplicateReview):
		return apierr.New(http.StatusConflict, "duplicate_review", err)
	case errors.Is(err, services.ErrUnauthenticated):
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	case aggregates.IsCode(err, aggregates.CodeConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	case aggregates.IsRetryable(err):
		return apierr.New(http.StatusServiceUnavailable, "retryable", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
