package upload

import (
	"fmt"

	"roomfiles/internal/core/domain"

	"github.com/dustin/go-humanize"
)

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

// planParts computes the smallest part size consistent with the provider's
// per-part minimum and its maximum-part-count ceiling, then clamps it to the
// per-part maximum. Backends reject uploads that violate either bound, so
// this runs before any provider call.
func planParts(totalSize int64, caps domain.ProviderCapabilities) (int64, int, error) {
	if totalSize <= 0 {
		return 0, 0, fmt.Errorf("%w: total size must be positive, got %d", domain.ErrInvalidSize, totalSize)
	}
	if totalSize > caps.MaxUploadSize() {
		return 0, 0, fmt.Errorf("%w: %s exceeds the provider limit of %s",
			domain.ErrFileTooLarge,
			humanize.IBytes(uint64(totalSize)),
			humanize.IBytes(uint64(caps.MaxUploadSize())),
		)
	}

	partSize := caps.MinimumPartSize
	if partSize < 1 {
		partSize = 1
	}
	if ceilDiv(totalSize, partSize) > int64(caps.MaximumPartCount) {
		partSize = ceilDiv(totalSize, int64(caps.MaximumPartCount))
	}
	if partSize > caps.MaximumPartSize {
		partSize = caps.MaximumPartSize
	}

	return partSize, int(ceilDiv(totalSize, partSize)), nil
}
