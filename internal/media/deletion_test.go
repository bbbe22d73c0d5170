package media

import (
	"context"
	"fmt"
	"testing"

	"github.com/filmharbor/festival-backend/pkg/db/models"
	"github.com/filmharbor/festival-backend/pkg/storage/cloudinary"
)

type stubRemote struct {
	destroyed []string
	outcome   cloudinary.DestroyOutcome
	err       error
}

func (s *stubRemote) Destroy(ctx context.Context, publicID, resourceType string) (cloudinary.DestroyOutcome, error) {
	s.destroyed = append(s.destroyed, publicID)
	if s.err != nil {
		return "", s.err
	}
	if s.outcome == "" {
		return cloudinary.DestroyOK, nil
	}
	return s.outcome, nil
}

type stubSaver struct {
	saved int
	err   error
}

func (s *stubSaver) Save(ctx context.Context, record *models.YearRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved++
	return nil
}

func newTestReconciler(t *testing.T, remote *stubRemote, saver *stubSaver) *Reconciler {
	t.Helper()
	rec, err := NewReconciler(remote, saver, nil)
	if err != nil {
		t.Fatalf("NewReconciler: %v", err)
	}
	return rec
}

func galaRecord() *models.YearRecord {
	return &models.YearRecord{
		Year: 2024,
		Photos: []models.MediaRef{
			{URL: "https://cdn/x/a.jpg", PublicID: "x/a"},
			{URL: "https://cdn/x/b.jpg", PublicID: "x/b"},
		},
		Partners: []models.MediaRef{
			{URL: "https://cdn/partners/acme.png"},
		},
	}
}

func TestDeleteListItemByPublicID(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	saver := &stubSaver{}
	r := newTestReconciler(t, remote, saver)
	record := galaRecord()

	result, err := r.DeleteListItem(context.Background(), record, CollectionPhotos, "x/a")
	if err != nil {
		t.Fatalf("DeleteListItem: %v", err)
	}
	if result.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want ok", result.Outcome)
	}
	if result.Strategy != MatchPublicID {
		t.Fatalf("strategy = %s, want public_id", result.Strategy)
	}
	if len(record.Photos) != 1 || record.Photos[0].PublicID != "x/b" {
		t.Fatalf("photos after delete = %+v", record.Photos)
	}
	if len(remote.destroyed) != 1 || remote.destroyed[0] != "x/a" {
		t.Fatalf("remote destroyed = %v, want [x/a]", remote.destroyed)
	}
	if saver.saved != 1 {
		t.Fatalf("saved %d times, want 1", saver.saved)
	}
}

func TestDeleteListItemByURLSubstring(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	r := newTestReconciler(t, remote, &stubSaver{})
	record := galaRecord()

	result, err := r.DeleteListItem(context.Background(), record, CollectionPartners, "acme")
	if err != nil {
		t.Fatalf("DeleteListItem: %v", err)
	}
	if result.Strategy != MatchURLSubstring {
		t.Fatalf("strategy = %s, want url_substring", result.Strategy)
	}
	// No stored public ID: the key is derived from the URL.
	if len(remote.destroyed) != 1 || remote.destroyed[0] != "partners/acme" {
		t.Fatalf("remote destroyed = %v, want [partners/acme]", remote.destroyed)
	}
	if len(record.Partners) != 0 {
		t.Fatalf("partners after delete = %+v", record.Partners)
	}
}

func TestDeleteListItemIdempotent(t *testing.T) {
	t.Parallel()

	r := newTestReconciler(t, &stubRemote{}, &stubSaver{})
	record := galaRecord()

	if _, err := r.DeleteListItem(context.Background(), record, CollectionPhotos, "x/a"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	before := len(record.Photos)

	result, err := r.DeleteListItem(context.Background(), record, CollectionPhotos, "x/a")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if result.Outcome != OutcomeNotFound {
		t.Fatalf("second outcome = %s, want not_found", result.Outcome)
	}
	if len(record.Photos) != before {
		t.Fatalf("record changed on second delete: %+v", record.Photos)
	}
}

func TestDeleteListItemNotFoundStillSweeps(t *testing.T) {
	t.Parallel()

	r := newTestReconciler(t, &stubRemote{}, &stubSaver{})
	record := &models.YearRecord{
		Year: 2024,
		Photos: []models.MediaRef{
			// PublicID differs from the lookup identifier, but the URL
			// contains it; the exact-then-substring lookup finds it, so force
			// the not-found path with entries only the sweep can see.
			{URL: "https://cdn/x/a.jpg", PublicID: "x/a"},
		},
	}

	result, err := r.DeleteListItem(context.Background(), record, CollectionPhotos, "ghost")
	if err != nil {
		t.Fatalf("DeleteListItem: %v", err)
	}
	if result.Outcome != OutcomeNotFound {
		t.Fatalf("outcome = %s, want not_found", result.Outcome)
	}
	if len(record.Photos) != 1 {
		t.Fatalf("sweep removed unrelated entries: %+v", record.Photos)
	}
}

func TestDeleteListItemSwallowsRemoteFailure(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{err: fmt.Errorf("cdn is down")}
	saver := &stubSaver{}
	r := newTestReconciler(t, remote, saver)
	record := galaRecord()

	result, err := r.DeleteListItem(context.Background(), record, CollectionPhotos, "x/a")
	if err != nil {
		t.Fatalf("remote failure must not surface: %v", err)
	}
	if result.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want ok", result.Outcome)
	}
	if len(record.Photos) != 1 {
		t.Fatalf("local removal must proceed: %+v", record.Photos)
	}
	if saver.saved != 1 {
		t.Fatalf("record must still be persisted")
	}
}

func TestDeleteListItemPersistFailureIsFatal(t *testing.T) {
	t.Parallel()

	r := newTestReconciler(t, &stubRemote{}, &stubSaver{err: fmt.Errorf("mongo unreachable")})
	record := galaRecord()

	if _, err := r.DeleteListItem(context.Background(), record, CollectionPhotos, "x/a"); err == nil {
		t.Fatal("expected persistence failure to propagate")
	}
}

func TestDeleteAwardSlotPhotoPreservesSlot(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	r := newTestReconciler(t, remote, &stubSaver{})
	record := &models.YearRecord{
		Year: 2024,
		Photos: []models.MediaRef{
			{URL: "https://cdn/awards/best-film.jpg", PublicID: "awards/best-film"},
			{URL: "https://cdn/x/other.jpg", PublicID: "x/other"},
		},
		Awards: []models.AwardCategory{
			{
				Category: "Best Film",
				Winner: &models.AwardSlot{
					Name:     "Aurora",
					Position: models.RoleWinner,
					Photo:    &models.MediaRef{URL: "https://cdn/awards/best-film.jpg", PublicID: "awards/best-film"},
				},
			},
		},
	}

	result, err := r.DeleteAwardSlotPhoto(context.Background(), record, "Best Film", models.RoleWinner)
	if err != nil {
		t.Fatalf("DeleteAwardSlotPhoto: %v", err)
	}
	if result.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want ok", result.Outcome)
	}

	winner := record.Awards[0].Winner
	if winner == nil || winner.Name != "Aurora" || winner.Position != models.RoleWinner {
		t.Fatalf("slot name/position must survive: %+v", winner)
	}
	if winner.Photo != nil {
		t.Fatalf("slot photo must be cleared: %+v", winner.Photo)
	}
	// The duplicated gallery entry goes too; the unrelated one stays.
	if len(record.Photos) != 1 || record.Photos[0].PublicID != "x/other" {
		t.Fatalf("gallery sweep wrong: %+v", record.Photos)
	}
	if len(remote.destroyed) != 1 || remote.destroyed[0] != "awards/best-film" {
		t.Fatalf("remote destroyed = %v", remote.destroyed)
	}
}

func TestDeleteAwardSlotPhotoUnknownRole(t *testing.T) {
	t.Parallel()

	r := newTestReconciler(t, &stubRemote{}, &stubSaver{})
	record := galaRecord()

	if _, err := r.DeleteAwardSlotPhoto(context.Background(), record, "Best Film", "thirdRunnerUp"); err == nil {
		t.Fatal("expected validation error for unknown role")
	}
}

func TestDeleteAwardCategory(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	r := newTestReconciler(t, remote, &stubSaver{})
	record := &models.YearRecord{
		Year: 2024,
		Photos: []models.MediaRef{
			{URL: "https://cdn/upload/v1/awards/winner.jpg"},
			{URL: "https://cdn/x/keep.jpg", PublicID: "x/keep"},
		},
		Awards: []models.AwardCategory{
			{
				Category: "Best Director",
				Winner: &models.AwardSlot{
					Name:  "Kai",
					Photo: &models.MediaRef{URL: "https://cdn/upload/v1/awards/winner.jpg", PublicID: "awards/winner"},
				},
				FirstRunnerUp: &models.AwardSlot{
					Name:  "Noa",
					Photo: &models.MediaRef{URL: "https://cdn/upload/v1/awards/runner.jpg"},
				},
				SecondRunnerUp: &models.AwardSlot{Name: "no photo"},
			},
			{Category: "Best Score"},
		},
	}

	result, err := r.DeleteAwardCategory(context.Background(), record, "Best Director")
	if err != nil {
		t.Fatalf("DeleteAwardCategory: %v", err)
	}
	if result.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want ok", result.Outcome)
	}
	if len(record.Awards) != 1 || record.Awards[0].Category != "Best Score" {
		t.Fatalf("awards after delete = %+v", record.Awards)
	}

	// Winner has both an explicit key and a URL-derived one; the runner-up
	// only a derived one. All candidates destroyed independently.
	want := map[string]bool{"awards/winner": true, "awards/runner": true}
	if len(remote.destroyed) != 2 {
		t.Fatalf("remote destroyed = %v", remote.destroyed)
	}
	for _, key := range remote.destroyed {
		if !want[key] {
			t.Fatalf("unexpected remote key %q in %v", key, remote.destroyed)
		}
	}

	// Gallery entry matching a candidate is swept, the unrelated one stays.
	if len(record.Photos) != 1 || record.Photos[0].PublicID != "x/keep" {
		t.Fatalf("gallery sweep wrong: %+v", record.Photos)
	}
}

func TestDeleteAwardCategoryMissing(t *testing.T) {
	t.Parallel()

	saver := &stubSaver{}
	r := newTestReconciler(t, &stubRemote{}, saver)
	record := galaRecord()

	result, err := r.DeleteAwardCategory(context.Background(), record, "Nope")
	if err != nil {
		t.Fatalf("DeleteAwardCategory: %v", err)
	}
	if result.Outcome != OutcomeNotFound {
		t.Fatalf("outcome = %s, want not_found", result.Outcome)
	}
	if saver.saved != 0 {
		t.Fatalf("missing category must not persist")
	}
}
