package handler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Alexlaaa/GitLLM/internal/github"
	"github.com/Alexlaaa/GitLLM/internal/service"
)

// respondServiceError translates the pipeline's error taxonomy into HTTP:
// 400 for caller validation, 422 for a query the model could not turn into
// a plan, 429 with a Retry-After header for exhausted GitHub quota, and 502
// for upstream failures on either external service. query is the search
// query that was attempted, or "" when the failure happened before one
// existed; it is echoed in the message so users see what was tried.
func respondServiceError(c *fiber.Ctx, err error, query string) error {
	switch {
	case errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrEmptySnippet),
		errors.Is(err, service.ErrNoSearchTerms):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var parseErr *service.PlanParseError
	if errors.As(err, &parseErr) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "could not interpret the query, please rephrase it")
	}

	var rlErr *github.RateLimitError
	if errors.As(err, &rlErr) {
		retryAfter := int(time.Until(rlErr.ResetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return fiber.NewError(fiber.StatusTooManyRequests, withQuery(
			fmt.Sprintf("GitHub rate limit exhausted, retry after %s", rlErr.ResetAt.Format(time.RFC3339)), query))
	}

	var planningErr *service.PlanningServiceError
	if errors.As(err, &planningErr) {
		return fiber.NewError(fiber.StatusBadGateway, "planning service unavailable")
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return fiber.NewError(fiber.StatusBadGateway, withQuery(
			fmt.Sprintf("GitHub error %d: %s", apiErr.StatusCode, apiErr.Message), query))
	}

	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func withQuery(msg, query string) string {
	if query == "" {
		return msg
	}
	return fmt.Sprintf("%s (query: %q)", msg, query)
}
