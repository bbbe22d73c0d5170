package years

import (
	"context"
	"fmt"
	"strings"

	"github.com/filmharbor/festival-backend/internal/media"
	"github.com/filmharbor/festival-backend/pkg/db"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/logger"
)

type repository interface {
	FindByYear(ctx context.Context, year int) (*models.YearRecord, error)
	Insert(ctx context.Context, record *models.YearRecord) error
	Save(ctx context.Context, record *models.YearRecord) error
	ListYears(ctx context.Context) ([]int, error)
	DeleteAll(ctx context.Context) error
}

type reconciler interface {
	DeleteListItem(ctx context.Context, record *models.YearRecord, coll media.Collection, identifier string) (*media.Result, error)
	DeleteAwardSlotPhoto(ctx context.Context, record *models.YearRecord, category, role string) (*media.Result, error)
	DeleteAwardCategory(ctx context.Context, record *models.YearRecord, category string) (*media.Result, error)
}

// Service is the CRUD surface over per-year content records. Reads carry no
// authorization; every write sits behind the access gate at the router.
type Service interface {
	List(ctx context.Context) ([]int, error)
	Get(ctx context.Context, year int) (*models.YearRecord, error)
	Create(ctx context.Context, year int) (*models.YearRecord, error)
	GetOrCreate(ctx context.Context, year int) (*models.YearRecord, error)
	SetVideo(ctx context.Context, year int, rawLink string) (*models.YearRecord, error)
	AddPhotos(ctx context.Context, year int, refs []models.MediaRef) (*models.YearRecord, error)
	AddPartner(ctx context.Context, year int, ref models.MediaRef) (*models.YearRecord, error)
	UpsertAwardSlot(ctx context.Context, year int, input AwardSlotInput) (*models.YearRecord, error)
	ReplaceAwards(ctx context.Context, year int, categories []models.AwardCategory) (*models.YearRecord, error)
	DeletePhoto(ctx context.Context, year int, identifier string) (*models.YearRecord, *media.Result, error)
	DeletePartner(ctx context.Context, year int, identifier string) (*models.YearRecord, *media.Result, error)
	DeleteAwardSlotPhoto(ctx context.Context, year int, category, role string) (*models.YearRecord, *media.Result, error)
	DeleteAwardCategory(ctx context.Context, year int, category string) (*models.YearRecord, *media.Result, error)
	ResetAll(ctx context.Context) error
}

// AwardSlotInput addresses one (category, role) pair for a wholesale
// overwrite of the slot.
type AwardSlotInput struct {
	Category string
	Role     string
	Name     string
	Photo    *models.MediaRef
}

type service struct {
	repo       repository
	reconciler reconciler
	logg       *logger.Logger
}

// NewService constructs the year record service.
func NewService(repo repository, rec reconciler, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("years repository required")
	}
	if rec == nil {
		return nil, fmt.Errorf("media reconciler required")
	}
	return &service{repo: repo, reconciler: rec, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]int, error) {
	years, err := s.repo.ListYears(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list years")
	}
	return years, nil
}

func (s *service) Get(ctx context.Context, year int) (*models.YearRecord, error) {
	record, err := s.repo.FindByYear(ctx, year)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no record for year %d", year))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find year")
	}
	return record, nil
}

func (s *service) Create(ctx context.Context, year int) (*models.YearRecord, error) {
	record := emptyRecord(year)
	if err := s.repo.Insert(ctx, record); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("year %d already exists", year))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert year")
	}
	return record, nil
}

// GetOrCreate returns the existing record or persists an empty one. Write
// endpoints that do not require a pre-existing year go through here.
func (s *service) GetOrCreate(ctx context.Context, year int) (*models.YearRecord, error) {
	record, err := s.repo.FindByYear(ctx, year)
	if err == nil {
		return record, nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find year")
	}

	record = emptyRecord(year)
	if err := s.repo.Insert(ctx, record); err != nil {
		// A concurrent writer may have raced us to the insert.
		if db.IsDuplicateKey(err) {
			return s.Get(ctx, year)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert year")
	}
	return record, nil
}

func (s *service) SetVideo(ctx context.Context, year int, rawLink string) (*models.YearRecord, error) {
	if strings.TrimSpace(rawLink) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video link is required")
	}
	record, err := s.GetOrCreate(ctx, year)
	if err != nil {
		return nil, err
	}
	record.VideoLink = NormalizeVideoLink(rawLink)
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}
	return record, nil
}

func (s *service) AddPhotos(ctx context.Context, year int, refs []models.MediaRef) (*models.YearRecord, error) {
	if len(refs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one photo is required")
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref.URL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "photo url is required")
		}
	}
	record, err := s.GetOrCreate(ctx, year)
	if err != nil {
		return nil, err
	}
	record.Photos = append(record.Photos, refs...)
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}
	return record, nil
}

func (s *service) AddPartner(ctx context.Context, year int, ref models.MediaRef) (*models.YearRecord, error) {
	if strings.TrimSpace(ref.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner logo url is required")
	}
	record, err := s.GetOrCreate(ctx, year)
	if err != nil {
		return nil, err
	}
	record.Partners = append(record.Partners, ref)
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}
	return record, nil
}

func (s *service) UpsertAwardSlot(ctx context.Context, year int, input AwardSlotInput) (*models.YearRecord, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if !models.ValidRole(input.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("role must be one of %s, %s, %s",
			models.RoleWinner, models.RoleFirstRunnerUp, models.RoleSecondRunnerUp))
	}

	record, err := s.GetOrCreate(ctx, year)
	if err != nil {
		return nil, err
	}

	idx := record.FindCategory(category)
	if idx < 0 {
		record.Awards = append(record.Awards, models.AwardCategory{Category: category})
		idx = len(record.Awards) - 1
	}

	// The addressed slot is overwritten, not merged.
	record.Awards[idx].SetSlot(input.Role, &models.AwardSlot{
		Name:     input.Name,
		Position: input.Role,
		Photo:    input.Photo,
	})

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}
	return record, nil
}

// ReplaceAwards swaps the full awards collection in one write; nothing from
// the previous categories survives.
func (s *service) ReplaceAwards(ctx context.Context, year int, categories []models.AwardCategory) (*models.YearRecord, error) {
	for _, c := range categories {
		if strings.TrimSpace(c.Category) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
		}
	}
	record, err := s.GetOrCreate(ctx, year)
	if err != nil {
		return nil, err
	}
	record.Awards = categories
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}
	return record, nil
}

func (s *service) DeletePhoto(ctx context.Context, year int, identifier string) (*models.YearRecord, *media.Result, error) {
	return s.deleteListItem(ctx, year, media.CollectionPhotos, identifier)
}

func (s *service) DeletePartner(ctx context.Context, year int, identifier string) (*models.YearRecord, *media.Result, error) {
	return s.deleteListItem(ctx, year, media.CollectionPartners, identifier)
}

func (s *service) deleteListItem(ctx context.Context, year int, coll media.Collection, identifier string) (*models.YearRecord, *media.Result, error) {
	record, err := s.Get(ctx, year)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.reconciler.DeleteListItem(ctx, record, coll, identifier)
	if err != nil {
		return nil, nil, err
	}
	return record, result, nil
}

func (s *service) DeleteAwardSlotPhoto(ctx context.Context, year int, category, role string) (*models.YearRecord, *media.Result, error) {
	record, err := s.Get(ctx, year)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.reconciler.DeleteAwardSlotPhoto(ctx, record, category, role)
	if err != nil {
		return nil, nil, err
	}
	return record, result, nil
}

func (s *service) DeleteAwardCategory(ctx context.Context, year int, category string) (*models.YearRecord, *media.Result, error) {
	record, err := s.Get(ctx, year)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.reconciler.DeleteAwardCategory(ctx, record, category)
	if err != nil {
		return nil, nil, err
	}
	return record, result, nil
}

func (s *service) ResetAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset years")
	}
	if s.logg != nil {
		s.logg.Warn(ctx, "years.reset_all")
	}
	return nil
}

func emptyRecord(year int) *models.YearRecord {
	return &models.YearRecord{
		Year:     year,
		Photos:   []models.MediaRef{},
		Awards:   []models.AwardCategory{},
		Partners: []models.MediaRef{},
	}
}
