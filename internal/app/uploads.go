package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"campusnest/internal/domain"
)

// MaxImageBytes caps a single uploaded listing or profile image.
const MaxImageBytes = 3 << 20

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadService validates image blobs at the boundary and hands them to the
// configured file store under a fresh object key.
type UploadService struct {
	files domain.FileStore
}

func NewUploadService(files domain.FileStore) *UploadService {
	return &UploadService{files: files}
}

// Save sniffs the content type from the first bytes, rejects anything that is
// not JPEG/PNG/WEBP or exceeds MaxImageBytes, and stores the blob under
// listings/<uuid><ext>. Returns the public URL.
func (s *UploadService) Save(ctx context.Context, data io.Reader, declaredSize int64) (string, error) {
	if declaredSize > MaxImageBytes {
		return "", domain.Invalid("image", "Image must be 3MB or smaller")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(data, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read image: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", domain.Invalid("image", "Empty or invalid image provided")
	}

	contentType := http.DetectContentType(head)
	ext, ok := imageExt[contentType]
	if !ok {
		return "", domain.Invalid("image", "Only JPEG, PNG and WEBP images are allowed")
	}

	// Re-assemble the stream and stop one byte past the cap so oversized
	// bodies with a lying Content-Length still fail.
	body := io.MultiReader(bytes.NewReader(head), data)
	limited := io.LimitReader(body, MaxImageBytes+1)

	var buf bytes.Buffer
	size, err := io.Copy(&buf, limited)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if size > MaxImageBytes {
		return "", domain.Invalid("image", "Image must be 3MB or smaller")
	}

	key := path.Join("listings", uuid.NewString()+ext)
	url, err := s.files.Save(ctx, key, contentType, &buf)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}
