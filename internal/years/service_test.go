package years

import (
	"context"
	"fmt"
	"testing"

	"github.com/filmharbor/festival-backend/internal/media"
	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

type stubRepo struct {
	records map[int]*models.YearRecord

	insertErr   error
	saveErr     error
	deleteAlls  int
	savedYears  []int
	listedYears []int
}

func newStubRepo() *stubRepo {
	return &stubRepo{records: map[int]*models.YearRecord{}}
}

func (s *stubRepo) FindByYear(ctx context.Context, year int) (*models.YearRecord, error) {
	if record, ok := s.records[year]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubRepo) Insert(ctx context.Context, record *models.YearRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if _, ok := s.records[record.Year]; ok {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	s.records[record.Year] = record
	return nil
}

func (s *stubRepo) Save(ctx context.Context, record *models.YearRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[record.Year] = record
	s.savedYears = append(s.savedYears, record.Year)
	return nil
}

func (s *stubRepo) ListYears(ctx context.Context) ([]int, error) {
	return s.listedYears, nil
}

func (s *stubRepo) DeleteAll(ctx context.Context) error {
	s.deleteAlls++
	s.records = map[int]*models.YearRecord{}
	return nil
}

type stubReconciler struct {
	result *media.Result
	err    error
}

func (s *stubReconciler) DeleteListItem(ctx context.Context, record *models.YearRecord, coll media.Collection, identifier string) (*media.Result, error) {
	return s.result, s.err
}

func (s *stubReconciler) DeleteAwardSlotPhoto(ctx context.Context, record *models.YearRecord, category, role string) (*media.Result, error) {
	return s.result, s.err
}

func (s *stubReconciler) DeleteAwardCategory(ctx context.Context, record *models.YearRecord, category string) (*media.Result, error) {
	return s.result, s.err
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo, &stubReconciler{result: &media.Result{Outcome: media.OutcomeOK}}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateDuplicateYearConflicts(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Create(context.Background(), 2024); err != nil {
		t.Fatalf("first create: %v", err)
	}
	existing := repo.records[2024]
	existing.VideoLink = "https://www.youtube.com/embed/abc123xyz0"

	_, err := svc.Create(context.Background(), 2024)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.records[2024].VideoLink != "https://www.youtube.com/embed/abc123xyz0" {
		t.Fatalf("existing record must be untouched")
	}
}

func TestGetOrCreatePersistsEmptyRecord(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	record, err := svc.GetOrCreate(context.Background(), 2025)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if record.Year != 2025 {
		t.Fatalf("year = %d", record.Year)
	}
	if record.Photos == nil || record.Awards == nil || record.Partners == nil {
		t.Fatalf("collections must be initialized: %+v", record)
	}
	if _, ok := repo.records[2025]; !ok {
		t.Fatal("record must be persisted")
	}
}

func TestSetVideoNormalizesLink(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	record, err := svc.SetVideo(context.Background(), 2024, "https://youtu.be/abc123")
	if err != nil {
		t.Fatalf("SetVideo: %v", err)
	}
	if record.VideoLink != "https://www.youtube.com/embed/abc123" {
		t.Fatalf("video link = %q", record.VideoLink)
	}
}

func TestUpsertAwardSlotCreatesCategoryAndOverwrites(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	_, err := svc.UpsertAwardSlot(context.Background(), 2024, AwardSlotInput{
		Category: "Best Film",
		Role:     models.RoleWinner,
		Name:     "Aurora",
		Photo:    &models.MediaRef{URL: "https://cdn/a.jpg", PublicID: "a"},
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	record, err := svc.UpsertAwardSlot(context.Background(), 2024, AwardSlotInput{
		Category: "Best Film",
		Role:     models.RoleWinner,
		Name:     "Solstice",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(record.Awards) != 1 {
		t.Fatalf("awards = %+v", record.Awards)
	}
	winner := record.Awards[0].Winner
	if winner == nil || winner.Name != "Solstice" {
		t.Fatalf("winner = %+v", winner)
	}
	if winner.Photo != nil {
		t.Fatalf("overwrite must not merge the previous photo: %+v", winner.Photo)
	}
}

func TestUpsertAwardSlotRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())

	_, err := svc.UpsertAwardSlot(context.Background(), 2024, AwardSlotInput{
		Category: "Best Film",
		Role:     "grandWinner",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReplaceAwardsIsWholesale(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	if _, err := svc.UpsertAwardSlot(context.Background(), 2024, AwardSlotInput{
		Category: "Best Film",
		Role:     models.RoleWinner,
		Name:     "Aurora",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	record, err := svc.ReplaceAwards(context.Background(), 2024, []models.AwardCategory{
		{Category: "Best Score"},
	})
	if err != nil {
		t.Fatalf("ReplaceAwards: %v", err)
	}
	if len(record.Awards) != 1 || record.Awards[0].Category != "Best Score" {
		t.Fatalf("awards = %+v", record.Awards)
	}
}

func TestDeletePhotoMissingYear(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())

	_, _, err := svc.DeletePhoto(context.Background(), 1999, "x/a")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResetAll(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)
	if _, err := svc.Create(context.Background(), 2024); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.ResetAll(context.Background()); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	if repo.deleteAlls != 1 || len(repo.records) != 0 {
		t.Fatalf("reset did not clear records")
	}
}

func TestAddPhotosValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())

	if _, err := svc.AddPhotos(context.Background(), 2024, nil); err == nil {
		t.Fatal("expected validation error for empty batch")
	}
	if _, err := svc.AddPhotos(context.Background(), 2024, []models.MediaRef{{Caption: "no url"}}); err == nil {
		t.Fatal("expected validation error for missing url")
	}
	if _, err := svc.AddPhotos(context.Background(), 2024, []models.MediaRef{{URL: fmt.Sprintf("https://cdn/%d.jpg", 1)}}); err != nil {
		t.Fatalf("valid batch: %v", err)
	}
}
