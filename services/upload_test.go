package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("upload", filename)
	require.NoError(t, err)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["upload"][0]
}

func TestValidateCaseFileUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int
		maxSize  int64
		wantErr  string
	}{
		{"ValidPDF", "claim.pdf", 100, 0, ""},
		{"ValidDocxUpperCase", "Letter.DOCX", 100, 0, ""},
		{"ValidJPEG", "scan.jpeg", 100, 0, ""},
		{"Empty", "claim.pdf", 0, 0, "empty"},
		{"TooLargeForDefault", "claim.pdf", 11 << 20, 0, "exceeds maximum allowed size of 10MB"},
		{"TooLargeForConfigured", "claim.pdf", 2 << 20, 1 << 20, "exceeds maximum allowed size of 1MB"},
		{"ExecutableRejected", "setup.exe", 100, 0, "File type not allowed"},
		{"NoExtension", "README", 100, 0, "File type not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := createMockFileHeader(t, tt.filename, make([]byte, tt.size))
			err := ValidateCaseFileUpload(file, tt.maxSize)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var uerr *UploadError
			require.ErrorAs(t, err, &uerr)
			assert.Contains(t, uerr.Message, tt.wantErr)
		})
	}

	t.Run("Nil", func(t *testing.T) {
		var uerr *UploadError
		assert.ErrorAs(t, ValidateCaseFileUpload(nil, 0), &uerr)
	})
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("claim.PDF"))
	assert.Equal(t, "gz", FileExtension("bundle.tar.gz"))
	assert.Equal(t, "", FileExtension("README"))
}
