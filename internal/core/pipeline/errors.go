package pipeline

import (
	"context"
	"errors"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// asUpstreamError keeps typed errors and classifies anything else an adapter
// returned as a timeout or an unavailable upstream.
func asUpstreamError(upstream string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.UpstreamTimeout(upstream, err)
	}
	return domain.Unavailable(upstream, "call failed", err)
}
