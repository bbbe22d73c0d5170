package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/filmharbor/festival-backend/pkg/db/models"
	pkgerrors "github.com/filmharbor/festival-backend/pkg/errors"
	"github.com/filmharbor/festival-backend/pkg/logger"
	"github.com/filmharbor/festival-backend/pkg/storage/cloudinary"
)

// Outcome reports the reconciled result of a deletion request.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotFound Outcome = "not_found"
)

// MatchStrategy names the lookup policy that located (or failed to locate) an
// entry. Strategies are tried in fixed order and the winner is logged.
type MatchStrategy string

const (
	MatchPublicID     MatchStrategy = "public_id"
	MatchURLSubstring MatchStrategy = "url_substring"
	MatchNone         MatchStrategy = "none"
)

// Collection selects a flat media list within a YearRecord.
type Collection string

const (
	CollectionPhotos   Collection = "photos"
	CollectionPartners Collection = "partners"
)

// Result describes what a deletion did, for callers and for tests asserting
// which strategy fired.
type Result struct {
	Outcome      Outcome
	Strategy     MatchStrategy
	RemovedCount int
	RemoteKeys   []string
}

// RemoteStore is the slice of the Cloudinary client the reconciler needs.
type RemoteStore interface {
	Destroy(ctx context.Context, publicID, resourceType string) (cloudinary.DestroyOutcome, error)
}

type recordSaver interface {
	Save(ctx context.Context, record *models.YearRecord) error
}

// Reconciler deletes media from both the year document and the remote store.
// Remote failures are logged and swallowed; only persistence failures are
// fatal, so the document stays the source of truth for what the site shows.
type Reconciler struct {
	remote RemoteStore
	repo   recordSaver
	logg   *logger.Logger
}

func NewReconciler(remote RemoteStore, repo recordSaver, logg *logger.Logger) (*Reconciler, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("record repository required")
	}
	return &Reconciler{remote: remote, repo: repo, logg: logg}, nil
}

// DeleteListItem removes one entry from the record's photos or partners list,
// matching by exact public ID first, then by URL substring. When no entry
// matches, a defensive sweep still removes anything matching either strategy
// and the record is persisted before reporting not-found.
func (r *Reconciler) DeleteListItem(ctx context.Context, record *models.YearRecord, coll Collection, identifier string) (*Result, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifier is required")
	}

	list := r.listFor(record, coll)
	if list == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown collection %q", coll))
	}

	idx, strategy := locate(*list, identifier)
	if idx < 0 {
		removed := sweep(list, func(ref models.MediaRef) bool {
			return matchesIdentifier(ref, identifier)
		})
		if err := r.repo.Save(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
		}
		ctx = r.withFields(ctx, map[string]any{
			"collection": string(coll),
			"identifier": identifier,
			"strategy":   string(MatchNone),
			"swept":      removed,
		})
		r.info(ctx, "media.delete.not_found")
		return &Result{Outcome: OutcomeNotFound, Strategy: MatchNone, RemovedCount: removed}, nil
	}

	entry := (*list)[idx]
	key := firstKeyCandidate(entry, identifier)
	r.destroyRemote(ctx, key)

	*list = append((*list)[:idx], (*list)[idx+1:]...)
	if err := r.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}

	ctx = r.withFields(ctx, map[string]any{
		"collection": string(coll),
		"identifier": identifier,
		"strategy":   string(strategy),
		"remote_key": key,
	})
	r.info(ctx, "media.delete.ok")
	return &Result{Outcome: OutcomeOK, Strategy: strategy, RemovedCount: 1, RemoteKeys: []string{key}}, nil
}

// DeleteAwardSlotPhoto clears the photo of one (category, role) slot, keeping
// the slot's name and position. The flat photos list is swept for duplicates
// of the same image on a best-effort basis.
func (r *Reconciler) DeleteAwardSlotPhoto(ctx context.Context, record *models.YearRecord, category, role string) (*Result, error) {
	if !models.ValidRole(role) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", role))
	}

	idx := record.FindCategory(category)
	if idx < 0 {
		return &Result{Outcome: OutcomeNotFound, Strategy: MatchNone}, nil
	}
	slot := record.Awards[idx].Slot(role)
	if slot == nil || slot.Photo == nil {
		return &Result{Outcome: OutcomeNotFound, Strategy: MatchNone}, nil
	}

	photo := *slot.Photo
	key := firstKeyCandidate(photo, "")
	r.destroyRemote(ctx, key)

	slot.Photo = nil
	swept := sweep(&record.Photos, func(ref models.MediaRef) bool {
		return sameImage(ref, photo)
	})

	if err := r.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}

	ctx = r.withFields(ctx, map[string]any{
		"category":   category,
		"role":       role,
		"remote_key": key,
		"swept":      swept,
	})
	r.info(ctx, "media.award_slot_photo.deleted")
	return &Result{Outcome: OutcomeOK, Strategy: MatchPublicID, RemovedCount: 1 + swept, RemoteKeys: []string{key}}, nil
}

// DeleteAwardCategory removes a whole category. Every plausible key candidate
// of every populated slot photo is destroyed remotely and independently; this
// over-deletes defensively rather than under-deletes. The flat photos list is
// swept for any entry matching any candidate.
func (r *Reconciler) DeleteAwardCategory(ctx context.Context, record *models.YearRecord, category string) (*Result, error) {
	idx := record.FindCategory(category)
	if idx < 0 {
		return &Result{Outcome: OutcomeNotFound, Strategy: MatchNone}, nil
	}

	var candidates []string
	var photos []models.MediaRef
	for _, slot := range record.Awards[idx].Slots() {
		if slot.Photo == nil {
			continue
		}
		photos = append(photos, *slot.Photo)
		candidates = append(candidates, allKeyCandidates(*slot.Photo)...)
	}
	candidates = dedupe(candidates)

	for _, key := range candidates {
		r.destroyRemote(ctx, key)
	}

	record.Awards = append(record.Awards[:idx], record.Awards[idx+1:]...)
	swept := sweep(&record.Photos, func(ref models.MediaRef) bool {
		for _, photo := range photos {
			if sameImage(ref, photo) {
				return true
			}
		}
		for _, key := range candidates {
			if matchesIdentifier(ref, key) {
				return true
			}
		}
		return false
	})

	if err := r.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist year record")
	}

	ctx = r.withFields(ctx, map[string]any{
		"category":    category,
		"remote_keys": candidates,
		"swept":       swept,
	})
	r.info(ctx, "media.award_category.deleted")
	return &Result{Outcome: OutcomeOK, Strategy: MatchPublicID, RemovedCount: 1 + swept, RemoteKeys: candidates}, nil
}

func (r *Reconciler) listFor(record *models.YearRecord, coll Collection) *[]models.MediaRef {
	switch coll {
	case CollectionPhotos:
		return &record.Photos
	case CollectionPartners:
		return &record.Partners
	}
	return nil
}

// destroyRemote issues a single best-effort delete. Errors and not-found
// answers never abort the local removal; a dangling remote object beats a
// broken local reference.
func (r *Reconciler) destroyRemote(ctx context.Context, key string) {
	if key == "" {
		return
	}
	outcome, err := r.remote.Destroy(ctx, key, "image")
	if err != nil {
		r.warn(r.withFields(ctx, map[string]any{"remote_key": key, "error": err.Error()}), "media.remote_destroy.failed")
		return
	}
	if outcome == cloudinary.DestroyNotFound {
		r.warn(r.withFields(ctx, map[string]any{"remote_key": key}), "media.remote_destroy.not_found")
	}
}

func locate(list []models.MediaRef, identifier string) (int, MatchStrategy) {
	for i, ref := range list {
		if ref.PublicID != "" && ref.PublicID == identifier {
			return i, MatchPublicID
		}
	}
	for i, ref := range list {
		if ref.URL != "" && strings.Contains(ref.URL, identifier) {
			return i, MatchURLSubstring
		}
	}
	return -1, MatchNone
}

func matchesIdentifier(ref models.MediaRef, identifier string) bool {
	if identifier == "" {
		return false
	}
	if ref.PublicID != "" && ref.PublicID == identifier {
		return true
	}
	return ref.URL != "" && strings.Contains(ref.URL, identifier)
}

func sameImage(ref, target models.MediaRef) bool {
	if target.PublicID != "" && ref.PublicID == target.PublicID {
		return true
	}
	return target.URL != "" && ref.URL == target.URL
}

// firstKeyCandidate picks the canonical key by priority: the stored public ID,
// then the key derived from the URL, then the raw identifier as a last resort.
func firstKeyCandidate(ref models.MediaRef, identifier string) string {
	if ref.PublicID != "" {
		return ref.PublicID
	}
	if key := ResolvePublicID(ref.URL); key != "" {
		return key
	}
	return identifier
}

func allKeyCandidates(ref models.MediaRef) []string {
	var out []string
	if ref.PublicID != "" {
		out = append(out, ref.PublicID)
	}
	if key := ResolvePublicID(ref.URL); key != "" {
		out = append(out, key)
	}
	return out
}

func sweep(list *[]models.MediaRef, match func(models.MediaRef) bool) int {
	kept := (*list)[:0]
	removed := 0
	for _, ref := range *list {
		if match(ref) {
			removed++
			continue
		}
		kept = append(kept, ref)
	}
	*list = kept
	return removed
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func (r *Reconciler) withFields(ctx context.Context, fields map[string]any) context.Context {
	if r.logg == nil {
		return ctx
	}
	return r.logg.WithFields(ctx, fields)
}

func (r *Reconciler) info(ctx context.Context, msg string) {
	if r.logg != nil {
		r.logg.Info(ctx, msg)
	}
}

func (r *Reconciler) warn(ctx context.Context, msg string) {
	if r.logg != nil {
		r.logg.Warn(ctx, msg)
	}
}
