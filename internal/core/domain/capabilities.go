package domain

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ProviderCapabilities is the capability envelope a storage backend imposes
// on uploads. Values are fixed per provider and never change at runtime.
type ProviderCapabilities struct {
	SupportsMultipartUpload      bool
	MinimumPartSize              int64
	MaximumPartSize              int64
	MaximumPartCount             int
	SupportsRangeRequests        bool
	SupportsServerSideEncryption bool
	MaximumFileSize              int64
}

// Validate checks the envelope invariants
func (c ProviderCapabilities) Validate() error {
	if c.MinimumPartSize > c.MaximumPartSize {
		return fmt.Errorf("%w: minimum part size %s exceeds maximum part size %s",
			ErrInvalidCapabilities, humanize.IBytes(uint64(c.MinimumPartSize)), humanize.IBytes(uint64(c.MaximumPartSize)))
	}
	if c.MaximumPartCount < 1 {
		return fmt.Errorf("%w: maximum part count must be at least 1, got %d", ErrInvalidCapabilities, c.MaximumPartCount)
	}
	return nil
}

// CheckRange reports whether the provider can serve the requested byte
// range. A nil range is a full read and is always allowed.
func (c ProviderCapabilities) CheckRange(rng *ByteRange) error {
	if rng == nil {
		return nil
	}
	if !c.SupportsRangeRequests {
		return ErrRangeUnsupported
	}
	return nil
}

// MaxUploadSize returns the largest object the provider can accept through
// multipart upload, bounded by both the part limits and the file size limit.
func (c ProviderCapabilities) MaxUploadSize() int64 {
	limit := c.MaximumPartSize * int64(c.MaximumPartCount)
	if c.MaximumFileSize > 0 && c.MaximumFileSize < limit {
		return c.MaximumFileSize
	}
	return limit
}
