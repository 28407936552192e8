package cli

import (
	"errors"
	"fmt"

	"github.com/pawanraocse/gst-sense/internal/domain"
)

// describeAPIError turns a backend call failure into a message that makes
// sense on the terminal. Auth failures point at login since the session is
// gone either way.
func describeAPIError(err error) error {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.IsAuthFailure() {
		return fmt.Errorf("not authorized: %s (run 'gstsense login' to sign in again)", apiErr.Message)
	}
	if apiErr.Status == 0 {
		return fmt.Errorf("could not reach the API: %w", apiErr)
	}
	return fmt.Errorf("request failed: %s", apiErr.Message)
}
