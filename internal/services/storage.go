package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Allowed CV upload extensions.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type StorageService interface {
	SaveUpload(file *multipart.FileHeader) (string, string, error)
	UploadPath(filename string) string
	AudioPath(filename string) string
	ReportPath(filename string) string
	LatestReport(token string) (string, error)
	DeleteUpload(filename string) error
	EnsureDirs() error
}

type storageService struct {
	uploadDir string
	audioDir  string
	reportDir string
}

func NewStorageService(uploadDir, audioDir, reportDir string) StorageService {
	return &storageService{
		uploadDir: uploadDir,
		audioDir:  audioDir,
		reportDir: reportDir,
	}
}

func (s *storageService) EnsureDirs() error {
	for _, dir := range []string{s.uploadDir, s.audioDir, s.reportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// SaveUpload stores an uploaded CV under a unique name and returns
// (filename, full path). Only the fixed extension allow-list is accepted.
func (s *storageService) SaveUpload(file *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", "", fmt.Errorf("invalid file extension: %s", ext)
	}

	uniqueFilename := fmt.Sprintf("cv_%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadDir, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) UploadPath(filename string) string {
	return filepath.Join(s.uploadDir, filename)
}

func (s *storageService) AudioPath(filename string) string {
	return filepath.Join(s.audioDir, filename)
}

func (s *storageService) ReportPath(filename string) string {
	return filepath.Join(s.reportDir, filename)
}

// LatestReport returns the path of the most recent report artifact generated
// for a session. Finalize may run more than once; filenames embed a
// timestamp, so lexical order is generation order.
func (s *storageService) LatestReport(token string) (string, error) {
	entries, err := os.ReadDir(s.reportDir)
	if err != nil {
		return "", fmt.Errorf("failed to read reports directory: %w", err)
	}

	prefix := fmt.Sprintf("assessment_report_%s_", token)
	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			matches = append(matches, entry.Name())
		}
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("no report found for session %s", token)
	}

	sort.Strings(matches)
	return filepath.Join(s.reportDir, matches[len(matches)-1]), nil
}

func (s *storageService) DeleteUpload(filename string) error {
	if err := os.Remove(s.UploadPath(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
