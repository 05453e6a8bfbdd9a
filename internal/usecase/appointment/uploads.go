package appointment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
	"github.com/BruksfildServices01/catering-booking/internal/media"
)

type Uploader interface {
	Upload(ctx context.Context, folder, ext, contentType string, data []byte) (string, error)
}

// Attachment is an uploaded file as received from the client.
type Attachment struct {
	Data []byte
}

// storeImage keeps images only; they are re-encoded as WebP.
func storeImage(ctx context.Context, up Uploader, folder string, file *Attachment) (string, error) {
	if file == nil {
		return "", nil
	}
	if up == nil {
		return "", httperr.ErrValidation("uploads_disabled", "File uploads are not available.")
	}

	img, err := media.NormalizeImage(file.Data)
	if err != nil {
		return "", err
	}

	url, err := up.Upload(ctx, folder, ".webp", "image/webp", img)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", folder, err)
	}
	return url, nil
}

// storeDocument accepts images (stored as WebP) and PDFs (stored as is).
func storeDocument(ctx context.Context, up Uploader, folder string, file *Attachment) (string, error) {
	if file == nil {
		return "", nil
	}
	if http.DetectContentType(file.Data) != "application/pdf" {
		return storeImage(ctx, up, folder, file)
	}

	if up == nil {
		return "", httperr.ErrValidation("uploads_disabled", "File uploads are not available.")
	}
	if len(file.Data) > media.MaxUploadBytes {
		return "", httperr.ErrValidation("file_too_large", "Uploaded file exceeds 8MB.")
	}

	url, err := up.Upload(ctx, folder, ".pdf", "application/pdf", file.Data)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", folder, err)
	}
	return url, nil
}
