package handlers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

func maxUploadSize(c echo.Context) int64 {
	if cfg := getConfig(c); cfg != nil && cfg.MaxUploadSize > 0 {
		return cfg.MaxUploadSize
	}
	return services.DefaultMaxUploadSize
}

// bindFileForm reads the multipart fields of a file request onto file. Fields that are
// absent keep their current value. The upload is nil when no file part was sent.
func bindFileForm(c echo.Context, file *models.LegalCaseFile) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &services.MalformedParamError{Param: "body", Message: "Request must be multipart/form-data"}
	}

	if values, ok := form.Value["legal_case"]; ok && len(values) > 0 {
		id, err := strconv.ParseUint(values[0], 10, 64)
		if err != nil {
			verr := services.NewValidationError()
			verr.Add("legal_case", "A valid integer is required")
			return nil, verr
		}
		file.LegalCaseID = uint(id)
	}
	if values, ok := form.Value["description"]; ok && len(values) > 0 {
		file.Description = values[0]
	}

	upload, err := c.FormFile("upload")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return upload, nil
}

// ListLegalCaseFilesHandler returns file metadata, optionally for one case
func ListLegalCaseFilesHandler(c echo.Context) error {
	filters, err := caseChildFilters(c)
	if err != nil {
		return respondError(c, err)
	}
	files, err := services.ListLegalCaseFiles(db.DB, filters)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, files)
}

// GetLegalCaseFileHandler returns the metadata of a single file
func GetLegalCaseFileHandler(c echo.Context) error {
	id, err := pathID(c, "legal case file")
	if err != nil {
		return respondError(c, err)
	}
	file, err := services.GetLegalCaseFile(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, file)
}

// CreateLegalCaseFileHandler uploads a file to a case
func CreateLegalCaseFileHandler(c echo.Context) error {
	var file models.LegalCaseFile
	upload, err := bindFileForm(c, &file)
	if err != nil {
		return respondError(c, err)
	}

	err = services.CreateLegalCaseFile(c.Request().Context(), db.DB, &file, upload, maxUploadSize(c), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, file)
}

// UpdateLegalCaseFileHandler changes file metadata and optionally replaces the upload
func UpdateLegalCaseFileHandler(c echo.Context) error {
	id, err := pathID(c, "legal case file")
	if err != nil {
		return respondError(c, err)
	}
	file, err := services.GetLegalCaseFile(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	upload, err := bindFileForm(c, file)
	if err != nil {
		return respondError(c, err)
	}

	err = services.UpdateLegalCaseFile(c.Request().Context(), db.DB, file, upload, maxUploadSize(c), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, file)
}

// DeleteLegalCaseFileHandler deletes a file and its stored content
func DeleteLegalCaseFileHandler(c echo.Context) error {
	id, err := pathID(c, "legal case file")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteLegalCaseFile(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadLegalCaseFileHandler streams the stored content of a file
func DownloadLegalCaseFileHandler(c echo.Context) error {
	id, err := pathID(c, "legal case file")
	if err != nil {
		return respondError(c, err)
	}
	file, reader, contentType, err := services.OpenLegalCaseFile(c.Request().Context(), db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	defer reader.Close()

	name := file.UploadFileName
	if name == "" {
		name = "file-" + strconv.FormatUint(uint64(file.ID), 10)
		if file.UploadFileExtension != "" {
			name += "." + file.UploadFileExtension
		}
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	return c.Stream(http.StatusOK, contentType, reader)
}
