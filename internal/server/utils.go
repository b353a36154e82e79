package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/tensorplex-labs/momentum/internal/momentumstore"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

// createResponse creates a StdResponse with the given body and error
func createResponse[T any](body T, err error) StdResponse[T] {
	if err != nil {
		errMsg := err.Error()
		return StdResponse[T]{
			Body:  body,
			Error: &errMsg,
		}
	}
	return StdResponse[T]{
		Body:  body,
		Error: nil,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, momentumstore.ErrMatchNotFound), errors.Is(err, viewer.ErrUnknownMatch):
		return fiber.StatusNotFound
	case errors.Is(err, viewer.ErrInvalidSigma):
		return fiber.StatusBadRequest
	case errors.Is(err, viewer.ErrNotLoaded):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(createResponse(map[string]any{}, err))
}

// parseSigma reads an optional integer query parameter. Absent means 0.
func parseSigma(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	sigma, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(viewer.ErrInvalidSigma, "sigma %q is not an integer", raw)
	}
	return sigma, nil
}

func parseMatchID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSuffix(raw, ".png"), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(viewer.ErrUnknownMatch, "match id %q", raw)
	}
	return id, nil
}

func chartURL(matchID int64, sigma int, download bool) string {
	q := url.Values{}
	q.Set("sigma", strconv.Itoa(sigma))
	if download {
		q.Set("download", "1")
	}
	return "/chart/" + strconv.FormatInt(matchID, 10) + ".png?" + q.Encode()
}
