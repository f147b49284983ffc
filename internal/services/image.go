package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"bloghub/internal/config"

	"github.com/google/uuid"
)

var (
	ErrImageTooLarge = errors.New("image exceeds the maximum allowed size")
	ErrImageType     = errors.New("only JPEG, JPG, and PNG file types are allowed")
)

// ImageService stores uploaded post images on local disk under the
// configured upload dir. Serving them back is left to the static file
// route.
type ImageService struct {
	Dir     string
	MaxSize int64
}

func NewImageService(cfg *config.Config) (*ImageService, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &ImageService{Dir: cfg.UploadDir, MaxSize: cfg.MaxUploadSize}, nil
}

// Save validates and stores one multipart image, returning the path
// under the upload dir. The content type is sniffed from the file bytes
// rather than trusted from the client header.
func (s *ImageService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.MaxSize {
		return "", ErrImageTooLarge
	}

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	ext := ""
	switch http.DetectContentType(sniff[:n]) {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	default:
		return "", ErrImageType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	// Hard cap the copy as well, in case the reported size lied.
	if _, err := io.Copy(dst, io.LimitReader(file, s.MaxSize+1)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	if info, err := dst.Stat(); err == nil && info.Size() > s.MaxSize {
		os.Remove(path)
		return "", ErrImageTooLarge
	}

	return path, nil
}

// Remove deletes a stored image. Best effort: a missing file is not an
// error worth failing a post delete over.
func (s *ImageService) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove image %s: %v", path, err)
	}
}
