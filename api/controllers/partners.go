package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/filmharbor/festival-backend/api/responses"
	"github.com/filmharbor/festival-backend/api/validators"
	"github.com/filmharbor/festival-backend/internal/years"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	"github.com/filmharbor/festival-backend/pkg/logger"
)

type addPartnerBody struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId"`
	Caption  string `json:"caption"`
}

// AddPartner appends one partner logo to a year, either as an uploaded file
// or as a direct URL reference.
func AddPartner(svc years.Service, uploader Uploader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ref, err := partnerRefFromRequest(r, uploader, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddPartner(r.Context(), year, ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func partnerRefFromRequest(r *http.Request, uploader Uploader, year int) (models.MediaRef, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return uploadSingle(r, uploader, fmt.Sprintf("%d/partners", year), "")
	}

	var body addPartnerBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return models.MediaRef{}, err
	}
	return models.MediaRef{
		URL:      strings.TrimSpace(body.URL),
		PublicID: strings.TrimSpace(body.PublicID),
		Caption:  validators.SanitizeString(body.Caption, 200),
	}, nil
}

// DeletePartner removes one partner logo and reconciles the remote copy.
func DeletePartner(svc years.Service, logg *logger.Logger) http.HandlerFunc {
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

		record, result, err := svc.DeletePartner(r.Context(), year, identifier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDeletionResult(w, r, logg, record, result)
	}
}
