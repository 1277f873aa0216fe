package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// DefaultMaxUploadSize applies when no limit is configured
const DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedCaseFileExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".odt":  "application/vnd.oasis.opendocument.text",
	".txt":  "text/plain",
	".rtf":  "application/rtf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UploadError describes a rejected upload. Handlers surface it as a validation error on "upload".
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// ValidateCaseFileUpload checks the size and type of an uploaded case file
func ValidateCaseFileUpload(fileHeader *multipart.FileHeader, maxSize int64) error {
	if fileHeader == nil {
		return &UploadError{Message: "No file was submitted"}
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if fileHeader.Size == 0 {
		return &UploadError{Message: "The submitted file is empty"}
	}
	if fileHeader.Size > maxSize {
		return &UploadError{Message: fmt.Sprintf("File size exceeds maximum allowed size of %dMB", maxSize/(1024*1024))}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedCaseFileExtensions[ext]; !ok {
		return &UploadError{Message: "File type not allowed. Accepted formats: PDF, DOC, DOCX, ODT, TXT, RTF, JPG, PNG"}
	}

	return nil
}

// FileExtension returns the extension of a file name without the dot, lower-cased
func FileExtension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

func contentTypeForExtension(ext string) string {
	if ct, ok := allowedCaseFileExtensions[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}
