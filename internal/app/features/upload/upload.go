// internal/app/features/upload/upload.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	uploadstore "github.com/bonchi/carehub/internal/app/store/uploads"
	"github.com/bonchi/carehub/internal/app/system/authz"
	"github.com/bonchi/carehub/internal/app/system/filestore"
	"github.com/bonchi/carehub/internal/app/system/metrics"
	"github.com/bonchi/carehub/internal/app/system/timeouts"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// formMemory is how much of the form ParseMultipartForm keeps in memory
// before spilling the file to a temp file.
const formMemory = 1 << 20

type uploadResponse struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type"`
	OriginalName string `json:"original_name"`
}

// HandleUpload handles POST /upload. It expects a multipart form with a
// single file part named "file".
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			h.tooLarge(w)
			return
		}
		h.Metrics.ObserveUpload(metrics.UploadBadRequest, 0)
		h.ErrLog.LogBadRequest(w, r, "upload: parse form", err, "Request must be multipart/form-data with a file field.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, fh, err := r.FormFile("file")
	if err != nil {
		h.Metrics.ObserveUpload(metrics.UploadBadRequest, 0)
		uierrors.WriteError(w, http.StatusBadRequest, "A file field named \"file\" is required.")
		return
	}
	defer file.Close()

	if fh.Size > h.MaxBytes {
		h.tooLarge(w)
		return
	}

	contentType, err := detectContentType(file, fh)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upload: read file", err, "Unable to read the uploaded file.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "upload")
	defer cancel()

	key := filestore.NewKey(h.Prefix, time.Now(), fh.Filename)
	obj, err := h.Files.Put(ctx, key, file, &filestore.PutOptions{
		ContentType: contentType,
		Size:        fh.Size,
	})
	if err != nil {
		h.Metrics.ObserveUpload(metrics.UploadStorageFailed, 0)
		h.ErrLog.LogStatus(w, r, http.StatusBadGateway, "upload: store object", err, "File storage is unavailable. Please try again.")
		return
	}

	rec, err := h.Uploads.Create(ctx, models.Upload{
		Key:          obj.Key,
		URL:          obj.URL,
		OriginalName: fh.Filename,
		Size:         fh.Size,
		ContentType:  contentType,
		UploadedBy:   &uid,
	})
	if err != nil {
		if delErr := h.Files.Delete(ctx, obj.Key); delErr != nil {
			h.Log.Error("upload: remove orphaned object", zap.String("key", obj.Key), zap.Error(delErr))
		}
		h.Metrics.ObserveUpload(metrics.UploadDBFailed, 0)
		h.ErrLog.LogServerError(w, r, "upload: record metadata", err, "A database error occurred.")
		return
	}

	h.Metrics.ObserveUpload(metrics.UploadStored, rec.Size)
	h.AuditLog.UploadStored(r.Context(), r, &uid, rec.Key, rec.Size)

	uierrors.WriteJSON(w, http.StatusCreated, uploadResponse{
		Key:          rec.Key,
		URL:          rec.URL,
		Size:         rec.Size,
		ContentType:  rec.ContentType,
		OriginalName: rec.OriginalName,
	})
}

func (h *Handler) tooLarge(w http.ResponseWriter) {
	h.Metrics.ObserveUpload(metrics.UploadTooLarge, 0)
	uierrors.WriteError(w, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("File is too large. Maximum size is %d MB.", h.MaxBytes>>20))
}

// detectContentType trusts the part header when present and otherwise sniffs
// the first 512 bytes. The file is rewound either way.
func detectContentType(f multipart.File, fh *multipart.FileHeader) (string, error) {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

type listResponse struct {
	Items []models.Upload `json:"items"`
}

// ServeMine handles GET /upload/mine: the caller's uploads, newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list uploads")
	defer cancel()

	items, err := h.Uploads.ListByUploader(ctx, uid, uploadstore.ClampLimit(limit))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upload: list", err, "A database error occurred.")
		return
	}
	if items == nil {
		items = []models.Upload{}
	}
	uierrors.WriteJSON(w, http.StatusOK, listResponse{Items: items})
}
