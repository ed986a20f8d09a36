package upload

import (
	"context"
	"fmt"
	"mime"
	"time"

	"roomfiles/internal/core/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

func validateBegin(req domain.BeginUpload) (string, error) {
	if req.FileName == "" {
		return "", fmt.Errorf("%w: file name is required", domain.ErrInvalidFileType)
	}
	mimeType, _, err := mime.ParseMediaType(req.MimeType)
	if err != nil {
		return "", fmt.Errorf("%w: cannot parse content type %q", domain.ErrInvalidFileType, req.MimeType)
	}
	if mimetype.Lookup(mimeType) == nil {
		return "", fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidFileType, mimeType)
	}
	if req.TotalSize <= 0 {
		return "", fmt.Errorf("%w: total size must be positive, got %d", domain.ErrInvalidSize, req.TotalSize)
	}
	return mimeType, nil
}

// Begin resolves the provider for the room, plans the part layout under the
// provider's capability envelope, opens the backend upload context and
// creates the session. A provider failure leaves no session behind.
func (u *uploadService) Begin(ctx context.Context, req domain.BeginUpload) (*domain.UploadTicket, error) {
	mimeType, err := validateBegin(req)
	if err != nil {
		return nil, err
	}

	provider, account, err := u.resolver.Resolve(ctx, req.RoomID, req.StorageAccountID)
	if err != nil {
		return nil, err
	}

	caps := provider.Capabilities()
	if !caps.SupportsMultipartUpload {
		return nil, fmt.Errorf("%w: %s", domain.ErrMultipartUnsupported, provider.Name())
	}

	partSize, totalParts, err := planParts(req.TotalSize, caps)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	key := storageKey(req.RoomID, fileID, req.FileName)

	handle, err := provider.CreateMultipartUpload(ctx, key, domain.UploadOptions{
		ContentType: mimeType,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, domain.NewProviderError(provider.Name(), "create multipart upload", err)
	}

	now := time.Now()
	session := &domain.UploadSession{
		ID:               uuid.New(),
		FileID:           fileID,
		ProviderHandle:   handle,
		FileName:         req.FileName,
		MimeType:         mimeType,
		TotalSize:        req.TotalSize,
		RoomID:           req.RoomID,
		UserID:           req.UserID,
		StorageAccountID: account.ID,
		StorageKey:       key,
		PartSize:         partSize,
		TotalParts:       totalParts,
		Parts:            make(map[int]domain.UploadPart),
		Status:           domain.UploadStatusInitialized,
		Metadata:         req.Metadata,
		StartedAt:        now,
		UpdatedAt:        now,
	}

	if err := u.store.Create(ctx, session); err != nil {
		// fail closed: release the backend context we just opened
		if aErr := provider.AbortMultipartUpload(ctx, key, handle); aErr != nil {
			u.logger.Warn("failed to release backend upload context", "key", key, "error", aErr)
		}
		return nil, err
	}

	uploadsStarted.Inc()
	u.logger.Info("upload session started",
		"upload_id", session.ID,
		"room_id", req.RoomID,
		"provider", provider.Name(),
		"total_parts", totalParts,
	)

	return &domain.UploadTicket{
		UploadID:   session.ID,
		PartSize:   partSize,
		TotalParts: totalParts,
	}, nil
}
