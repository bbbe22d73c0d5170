package controllers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/filmharbor/festival-backend/api/responses"
	"github.com/filmharbor/festival-backend/api/validators"
	"github.com/filmharbor/festival-backend/internal/media"
	"github.com/filmharbor/festival-backend/internal/years"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/logger"
	"github.com/filmharbor/festival-backend/pkg/storage/cloudinary"
)

const maxUploadBytes = 32 << 20

// Uploader is the slice of the Cloudinary client the media controllers use.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folderHint string) (*cloudinary.UploadResult, error)
}

type mediaRefBody struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId"`
	Caption  string `json:"caption"`
}

type addPhotosBody struct {
	Photos []mediaRefBody `json:"photos" validate:"required,min=1,dive"`
}

// AddPhotos appends gallery entries for a year. JSON bodies carry direct URL
// references; multipart bodies are uploaded to the remote store first.
func AddPhotos(svc years.Service, uploader Uploader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refs, err := photoRefsFromRequest(r, uploader, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddPhotos(r.Context(), year, refs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// DeletePhoto removes one gallery entry and reconciles the remote copy.
func DeletePhoto(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identifier, err := wildcardIdentifier(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, result, err := svc.DeletePhoto(r.Context(), year, identifier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDeletionResult(w, r, logg, record, result)
	}
}

func photoRefsFromRequest(r *http.Request, uploader Uploader, year int) ([]models.MediaRef, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return uploadedRefs(r, uploader, year)
	}

	var body addPhotosBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return nil, err
	}

	refs := make([]models.MediaRef, 0, len(body.Photos))
	for _, photo := range body.Photos {
		refs = append(refs, models.MediaRef{
			URL:      strings.TrimSpace(photo.URL),
			PublicID: strings.TrimSpace(photo.PublicID),
			Caption:  validators.SanitizeString(photo.Caption, 500),
		})
	}
	return refs, nil
}

func uploadedRefs(r *http.Request, uploader Uploader, year int) ([]models.MediaRef, error) {
	if uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media uploads unavailable")
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}

	caption := validators.SanitizeString(r.FormValue("caption"), 500)
	folder := fmt.Sprintf("%d", year)

	refs := make([]models.MediaRef, 0, len(files))
	for _, header := range files {
		ref, err := uploadOne(r.Context(), uploader, header, folder, caption)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// uploadSingle handles single-file multipart bodies using the "file" field.
func uploadSingle(r *http.Request, uploader Uploader, folder, captionOverride string) (models.MediaRef, error) {
	if uploader == nil {
		return models.MediaRef{}, pkgerrors.New(pkgerrors.CodeInternal, "media uploads unavailable")
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return models.MediaRef{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		return models.MediaRef{}, pkgerrors.New(pkgerrors.CodeValidation, "a file is required")
	}
	caption := captionOverride
	if caption == "" {
		caption = validators.SanitizeString(r.FormValue("caption"), 500)
	}
	return uploadOne(r.Context(), uploader, files[0], folder, caption)
}

func uploadOne(ctx context.Context, uploader Uploader, header *multipart.FileHeader, folder, caption string) (models.MediaRef, error) {
	file, err := header.Open()
	if err != nil {
		return models.MediaRef{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open upload")
	}
	defer file.Close()

	result, err := uploader.Upload(ctx, file, folder)
	if err != nil {
		return models.MediaRef{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media")
	}
	return models.MediaRef{URL: result.URL, PublicID: result.PublicID, Caption: caption}, nil
}

// wildcardIdentifier reads the trailing wildcard so identifiers that contain
// slashes, like Cloudinary public IDs or full URLs, survive routing.
func wildcardIdentifier(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "*")
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "media identifier is required")
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "media identifier is required")
	}
	return raw, nil
}

func writeDeletionResult(w http.ResponseWriter, r *http.Request, logg *logger.Logger, record *models.YearRecord, result *media.Result) {
	if result != nil && result.Outcome == media.OutcomeNotFound {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "media not found"))
		return
	}
	responses.WriteSuccess(w, map[string]any{
		"record":   record,
		"deletion": deletionView(result),
	})
}

func deletionView(result *media.Result) map[string]any {
	if result == nil {
		return nil
	}
	return map[string]any{
		"outcome":      string(result.Outcome),
		"strategy":     string(result.Strategy),
		"removedCount": result.RemovedCount,
	}
}
