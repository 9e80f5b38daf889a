package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"carfinder-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

const maxFileSize = 5 * 1024 * 1024 // 5MB

var profileImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
var listingImageExtensions = []string{".jpg", ".jpeg", ".png"}

// IFileService persists uploaded images on local disk and returns the
// relative URL path clients use to fetch them back via the static route.
type IFileService interface {
	SaveProfileImage(r io.Reader, size int64, fileName string, userId uuid.UUID) (string, error)
	SaveListingImage(r io.Reader, size int64, fileName string) (string, error)
	Delete(relativePath string) error
}

type fileService struct {
	baseDir string
}

func NewFileService(baseDir string) IFileService {
	return &fileService{baseDir: baseDir}
}

func (s *fileService) SaveProfileImage(r io.Reader, size int64, fileName string, userId uuid.UUID) (string, error) {
	if err := validateImage(size, fileName, profileImageExtensions); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	uniqueName := fmt.Sprintf("%s_%s_%s%s", userId, time.Now().UTC().Format("20060102150405"), uuid.New(), ext)

	if err := s.write(filepath.Join("profile", uniqueName), r); err != nil {
		return "", err
	}
	return "/profile/" + uniqueName, nil
}

func (s *fileService) SaveListingImage(r io.Reader, size int64, fileName string) (string, error) {
	if err := validateImage(size, fileName, listingImageExtensions); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	uniqueName := fmt.Sprintf("%s%s", uuid.New(), ext)

	if err := s.write(filepath.Join("used-cars", uniqueName), r); err != nil {
		return "", err
	}
	return "/used-cars/" + uniqueName, nil
}

func (s *fileService) Delete(relativePath string) error {
	if relativePath == "" {
		return nil
	}
	target := filepath.Join(s.baseDir, filepath.Clean("/"+relativePath))
	err := os.Remove(target)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *fileService) write(relPath string, r io.Reader) error {
	fullPath := filepath.Join(s.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	return err
}

func validateImage(size int64, fileName string, allowed []string) error {
	if size == 0 {
		return apperror.New(apperror.KindValidationFailed, "File is empty")
	}
	if size > maxFileSize {
		return apperror.New(apperror.KindValidationFailed, "File size exceeds maximum allowed size of 5MB")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return apperror.Newf(apperror.KindValidationFailed, "Invalid file type %s. Allowed: %s", ext, strings.Join(allowed, ", "))
}
