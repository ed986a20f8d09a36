package upload

import (
	"testing"

	"roomfiles/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanParts(t *testing.T) {
	s3Caps := domain.ProviderCapabilities{
		SupportsMultipartUpload: true,
		MinimumPartSize:         5 << 20,
		MaximumPartSize:         5 << 30,
		MaximumPartCount:        10000,
		MaximumFileSize:         5 << 40,
	}

	tests := []struct {
		name           string
		totalSize      int64
		caps           domain.ProviderCapabilities
		wantPartSize   int64
		wantTotalParts int
		wantErr        error
	}{
		{
			name:           "small file fits in one minimum part",
			totalSize:      1 << 10,
			caps:           s3Caps,
			wantPartSize:   5 << 20,
			wantTotalParts: 1,
		},
		{
			name:           "12 MiB over 5 MiB minimum yields three parts",
			totalSize:      12 << 20,
			caps:           s3Caps,
			wantPartSize:   5 << 20,
			wantTotalParts: 3,
		},
		{
			name:           "exact multiple of part size",
			totalSize:      25 << 20,
			caps:           s3Caps,
			wantPartSize:   5 << 20,
			wantTotalParts: 5,
		},
		{
			name:      "part size grows when count ceiling is hit",
			totalSize: (5 << 20) * 10001,
			caps:      s3Caps,
			// ceil(totalSize / 10000) keeps the plan within the count limit
			wantPartSize:   ceilDiv((5<<20)*10001, 10000),
			wantTotalParts: 10000,
		},
		{
			name:      "too large for a tight count and part ceiling",
			totalSize: 100 << 30,
			caps: domain.ProviderCapabilities{
				SupportsMultipartUpload: true,
				MinimumPartSize:         320 << 10,
				MaximumPartSize:         60 << 20,
				MaximumPartCount:        1000,
			},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:      "file size cap binds before the part math",
			totalSize: (1 << 30) + 1,
			caps: domain.ProviderCapabilities{
				SupportsMultipartUpload: true,
				MinimumPartSize:         5 << 20,
				MaximumPartSize:         5 << 30,
				MaximumPartCount:        10000,
				MaximumFileSize:         1 << 30,
			},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:      "zero size rejected",
			totalSize: 0,
			caps:      s3Caps,
			wantErr:   domain.ErrInvalidSize,
		},
		{
			name:      "negative size rejected",
			totalSize: -1,
			caps:      s3Caps,
			wantErr:   domain.ErrInvalidSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partSize, totalParts, err := planParts(tt.totalSize, tt.caps)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPartSize, partSize)
			assert.Equal(t, tt.wantTotalParts, totalParts)
			assert.GreaterOrEqual(t, partSize, tt.caps.MinimumPartSize)
			assert.LessOrEqual(t, partSize, tt.caps.MaximumPartSize)
			assert.LessOrEqual(t, totalParts, tt.caps.MaximumPartCount)
			assert.GreaterOrEqual(t, partSize*int64(totalParts), tt.totalSize)
		})
	}
}
