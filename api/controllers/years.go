package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/filmharbor/festival-backend/api/responses"
	"github.com/filmharbor/festival-backend/api/validators"
	"github.com/filmharbor/festival-backend/internal/years"
	"github.com/filmharbor/festival-backend/pkg/logger"
)

type createYearBody struct {
	Year int `json:"year" validate:"required,min=1900,max=3000"`
}

type setVideoBody struct {
	Link string `json:"link" validate:"required"`
}

// ListYears returns every year that has a record, ascending.
func ListYears(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"years": list})
	}
}

func GetYear(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func CreateYear(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createYearBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), body.Year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// SetVideo stores the promo video for a year. JSON bodies carry a link,
// normalized to the embed form when the input is recognizably YouTube;
// multipart bodies are uploaded to the remote store and linked verbatim.
func SetVideo(svc years.Service, uploader Uploader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := videoLinkFromRequest(r, uploader, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetVideo(r.Context(), year, link)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func videoLinkFromRequest(r *http.Request, uploader Uploader, year int) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		ref, err := uploadSingle(r, uploader, fmt.Sprintf("%d/video", year), "")
		if err != nil {
			return "", err
		}
		return ref.URL, nil
	}

	var body setVideoBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return "", err
	}
	return body.Link, nil
}

// ResetYears wipes every year record. Remote media is left behind on purpose;
// the admin panel exposes this as a panic button for staging data.
func ResetYears(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ResetAll(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}
