package viewerapi

import (
	"fmt"

	"github.com/tensorplex-labs/momentum/internal/viewer"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
}

type LeaguesResponse struct {
	Leagues   []string `json:"leagues"`
	HasLeague bool     `json:"has_league"`
}

type HealthResponse struct {
	Status string       `json:"status"`
	Stats  viewer.Stats `json:"stats"`
}

// StatusError is a non-2xx reply from the dashboard.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("viewer returned status %d: %s", e.Code, e.Message)
}
