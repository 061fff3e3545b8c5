package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/saransh1220/s3-uploader/internal/modules/filestorage/domain"
	"github.com/saransh1220/s3-uploader/internal/shared/infrastructure/logger"
	"github.com/saransh1220/s3-uploader/internal/shared/utils"
	"github.com/sirupsen/logrus"
)

// DefaultMaxUploadBytes caps the request body when no limit is configured
const DefaultMaxUploadBytes int64 = 16 << 20

const (
	msgNoFile         = "No file provided"
	msgNoSelection    = "No file selected"
	msgInvalidName    = "Invalid filename"
	msgTooLarge       = "File too large"
	msgInvalidUpload  = "Invalid upload"
	msgUploadFailed   = "Failed to upload file to S3"
	msgFileNotFound   = "File not found"
	msgDownloadFailed = "Failed to download file"
	msgRateLimited    = "Too many uploads, slow down"
)

type FileHandler struct {
	service        FileService
	maxUploadBytes int64
}

func NewFileHandler(service FileService, maxUploadBytes int64) *FileHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &FileHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Index renders the upload form
func (h *FileHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, pageData{})
}

// Upload handles POST /upload and answers with JSON
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	obj, err := h.receive(w, r)
	if err != nil {
		status, msg := uploadErrorStatus(err)
		logUploadFailure(r, status, err)
		var details error
		if status >= http.StatusInternalServerError {
			details = err
		}
		utils.WriteError(w, status, msg, details)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ToUploadResponse(obj))
}

// UploadWeb handles the HTML form submission and re-renders the page with the outcome
func (h *FileHandler) UploadWeb(w http.ResponseWriter, r *http.Request) {
	obj, err := h.receive(w, r)
	if err != nil {
		status, msg := uploadErrorStatus(err)
		logUploadFailure(r, status, err)
		h.renderPage(w, r, status, pageData{Message: msg})
		return
	}

	resp := ToUploadResponse(obj)
	h.renderPage(w, r, http.StatusOK, pageData{
		Message: resp.Message,
		Success: true,
		File:    &resp,
	})
}

// UploadWebRateLimited answers a throttled form submission with the page instead of JSON
func (h *FileHandler) UploadWebRateLimited(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusTooManyRequests, pageData{Message: msgRateLimited})
}

// List handles GET /files. It always answers 200; backend failures yield an empty listing.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.service.List(r.Context())
	utils.WriteJSON(w, http.StatusOK, ToListResponse(entries))
}

// Download streams images/{key} back as an attachment
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("key")
	if name == "" {
		utils.WriteError(w, http.StatusNotFound, msgFileNotFound, nil)
		return
	}

	obj, err := h.service.Fetch(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, msgFileNotFound, nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, msgDownloadFailed, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Content-Disposition", attachmentDisposition(path.Base(name)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		logger.FromContext(r.Context()).WithFields(logrus.Fields{
			"key": obj.Key,
			"err": err,
		}).Warn("Streaming download interrupted")
	}
}

// Health probes the bucket with HeadBucket
func (h *FileHandler) Health(w http.ResponseWriter, r *http.Request) {
	bucket := h.service.Bucket()
	if err := h.service.Health(r.Context()); err != nil {
		logger.FromContext(r.Context()).WithField("err", err).Error("Health check failed")
		utils.WriteJSON(w, http.StatusInternalServerError, HealthResponse{
			Status: "unhealthy",
			Error:  err.Error(),
			Bucket: bucket,
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:       "healthy",
		S3Connection: "ok",
		Bucket:       bucket,
	})
}

// receive parses the multipart body and hands the "file" part to the service.
// Errors wrap domain.ErrValidation for client mistakes.
func (h *FileHandler) receive(w http.ResponseWriter, r *http.Request) (*domain.UploadedObject, error) {
	if r.ContentLength > h.maxUploadBytes {
		return nil, domain.ErrTooLarge
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrTooLarge
		}
		logger.FromContext(r.Context()).WithField("err", err).Debug("Request is not a multipart form")
		return nil, domain.ErrMissingFile
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		// An empty file input is sent as a part with filename="" and lands in the values
		if _, ok := r.MultipartForm.Value["file"]; ok {
			return nil, domain.ErrEmptyFilename
		}
		return nil, domain.ErrMissingFile
	}
	defer file.Close()

	return h.service.Upload(r.Context(), header.Filename, file)
}

func (h *FileHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := uploadPage.Execute(w, data); err != nil {
		logger.FromContext(r.Context()).WithField("err", err).Error("Rendering upload page failed")
	}
}

// attachmentDisposition encodes non-ASCII names as RFC 2231 filename*
func attachmentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func logUploadFailure(r *http.Request, status int, err error) {
	entry := logger.FromContext(r.Context()).WithFields(logrus.Fields{
		"status": status,
		"err":    err,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Upload failed")
		return
	}
	entry.Info("Upload rejected")
}

// uploadErrorStatus maps an upload error onto a status code and user facing message
func uploadErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, msgTooLarge
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, msgNoFile
	case errors.Is(err, domain.ErrEmptyFilename):
		return http.StatusBadRequest, msgNoSelection
	case errors.Is(err, domain.ErrInvalidFilename):
		return http.StatusBadRequest, msgInvalidName
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, msgInvalidUpload
	default:
		return http.StatusInternalServerError, msgUploadFailed
	}
}
