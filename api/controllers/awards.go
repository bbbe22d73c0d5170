package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/filmharbor/festival-backend/api/responses"
	"github.com/filmharbor/festival-backend/api/validators"
	"github.com/filmharbor/festival-backend/internal/years"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/logger"
)

type awardSlotBody struct {
	Category string        `json:"category" validate:"required,max=200"`
	Role     string        `json:"role" validate:"required,oneof=winner firstRunnerUp secondRunnerUp"`
	Name     string        `json:"name" validate:"required,max=200"`
	Photo    *mediaRefBody `json:"photo"`
}

type awardCategoryBody struct {
	Category       string         `json:"category" validate:"required,max=200"`
	Winner         *awardSlotItem `json:"winner"`
	FirstRunnerUp  *awardSlotItem `json:"firstRunnerUp"`
	SecondRunnerUp *awardSlotItem `json:"secondRunnerUp"`
}

type awardSlotItem struct {
	Name     string        `json:"name" validate:"required,max=200"`
	Position string        `json:"position"`
	Photo    *mediaRefBody `json:"photo"`
}

type replaceAwardsBody struct {
	Awards []awardCategoryBody `json:"awards" validate:"required,dive"`
}

// UpsertAwardSlot overwrites one (category, role) slot, creating the category
// when it does not exist yet.
func UpsertAwardSlot(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body awardSlotBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := years.AwardSlotInput{
			Category: validators.SanitizeString(body.Category, 200),
			Role:     body.Role,
			Name:     validators.SanitizeString(body.Name, 200),
			Photo:    toMediaRef(body.Photo),
		}

		record, err := svc.UpsertAwardSlot(r.Context(), year, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ReplaceAwards swaps the entire award list for a year. Remote media attached
// to the replaced categories is not touched.
func ReplaceAwards(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body replaceAwardsBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories := make([]models.AwardCategory, 0, len(body.Awards))
		for _, item := range body.Awards {
			categories = append(categories, models.AwardCategory{
				Category:       validators.SanitizeString(item.Category, 200),
				Winner:         toAwardSlot(item.Winner),
				FirstRunnerUp:  toAwardSlot(item.FirstRunnerUp),
				SecondRunnerUp: toAwardSlot(item.SecondRunnerUp),
			})
		}

		record, err := svc.ReplaceAwards(r.Context(), year, categories)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// DeleteAwardCategory drops a whole category and reconciles every slot photo.
func DeleteAwardCategory(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := categoryParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, result, err := svc.DeleteAwardCategory(r.Context(), year, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDeletionResult(w, r, logg, record, result)
	}
}

// DeleteAwardSlotPhoto clears one slot's photo, leaving the name in place.
func DeleteAwardSlotPhoto(svc years.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseYearParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := categoryParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := strings.TrimSpace(chi.URLParam(r, "role"))
		if !models.ValidRole(role) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown award role"))
			return
		}

		record, result, err := svc.DeleteAwardSlotPhoto(r.Context(), year, category, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDeletionResult(w, r, logg, record, result)
	}
}

func categoryParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "category")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	return raw, nil
}

func toMediaRef(body *mediaRefBody) *models.MediaRef {
	if body == nil {
		return nil
	}
	return &models.MediaRef{
		URL:      strings.TrimSpace(body.URL),
		PublicID: strings.TrimSpace(body.PublicID),
		Caption:  validators.SanitizeString(body.Caption, 500),
	}
}

func toAwardSlot(item *awardSlotItem) *models.AwardSlot {
	if item == nil {
		return nil
	}
	return &models.AwardSlot{
		Name:     validators.SanitizeString(item.Name, 200),
		Position: validators.SanitizeString(item.Position, 200),
		Photo:    toMediaRef(item.Photo),
	}
}
