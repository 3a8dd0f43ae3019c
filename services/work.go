package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

type WorkService struct {
	store  *replica.Store
	engine *syncer.Engine
}

func NewWorkService(store *replica.Store, engine *syncer.Engine) *WorkService {
	return &WorkService{
		store:  store,
		engine: engine,
	}
}

// Save creates or updates a work, applying the publication state
// machine. The status supplied by the caller is never trusted.
func (s *WorkService) Save(session Session, work inkwell.Work) (inkwell.Work, error) {
	if session.IsGuest() {
		return inkwell.Work{}, errors.New("permission denied", errors.Forbidden())
	}

	if work.Visibility == "" {
		work.Visibility = inkwell.VisibilityPrivate
	}

	existing, exists := s.store.Work(work.ID)
	if !exists {
		return s.create(session, work)
	}
	return s.update(session, existing, work)
}

func (s *WorkService) create(session Session, work inkwell.Work) (inkwell.Work, error) {
	if work.ID == "" {
		work.ID = uuid.NewString()
	}
	work.UserID = session.UserID()
	now := inkwell.Now()
	work.CreatedAt = now
	work.UpdatedAt = now

	// Private works are never moderated. Public works from non-admins
	// always enter the queue, whatever status the caller supplied.
	switch {
	case work.Visibility == inkwell.VisibilityPrivate:
		work.Status = inkwell.StatusPublished
	case session.IsAdmin():
		work.Status = inkwell.StatusPublished
	default:
		work.Status = inkwell.StatusPending
	}

	snapshot := s.store.WorksForUser(work.UserID)
	s.store.UpsertWork(work)
	s.engine.PushWorks(work.UserID, snapshot)

	return work, nil
}

func (s *WorkService) update(session Session, existing, work inkwell.Work) (inkwell.Work, error) {
	if session.IsAdmin() {
		if existing.Visibility != inkwell.VisibilityPublic && existing.UserID != session.UserID() {
			return inkwell.Work{}, errors.New("permission denied", errors.Forbidden())
		}
	} else if existing.UserID != session.UserID() {
		return inkwell.Work{}, errors.New("permission denied", errors.Forbidden())
	}

	work.UserID = existing.UserID
	work.CreatedAt = existing.CreatedAt
	work.UpdatedAt = inkwell.Now()

	switch {
	case session.IsAdmin():
		// Admin edits are force-published when public.
		if work.Visibility == inkwell.VisibilityPublic {
			work.Status = inkwell.StatusPublished
		} else {
			work.Status = existing.Status
		}

	case existing.Visibility == inkwell.VisibilityPublic && existing.Status == inkwell.StatusPublished:
		// A published public work is frozen: content, title and author
		// cannot change. Writing details still can.
		if work.Content != existing.Content || work.Title != existing.Title || work.Author != existing.Author {
			return inkwell.Work{}, errors.New("the content of a published work cannot be modified", errors.Conflict())
		}
		work.Visibility = existing.Visibility
		work.Status = existing.Status

	case work.Visibility == inkwell.VisibilityPrivate:
		work.Status = inkwell.StatusPublished

	default:
		// Public but not yet published: every edit goes back to the
		// moderation queue.
		work.Status = inkwell.StatusPending
	}

	snapshot := s.store.WorksForUser(work.UserID)
	s.store.UpsertWork(work)
	s.engine.PushWorks(work.UserID, snapshot)

	return work, nil
}

// Delete removes a work. A published public work can only be removed
// by an admin.
func (s *WorkService) Delete(session Session, id string) error {
	work, ok := s.store.Work(id)
	if !ok {
		return errors.New(fmt.Sprintf("<Work %s> not found", id), errors.NotFound())
	}

	if !session.IsAdmin() {
		if work.UserID != session.UserID() {
			return errors.New("permission denied", errors.Forbidden())
		}
		if work.Visibility == inkwell.VisibilityPublic && work.Status == inkwell.StatusPublished {
			return errors.New("a published public work cannot be deleted", errors.Forbidden())
		}
	}

	snapshot := s.store.WorksForUser(work.UserID)
	s.store.DeleteWork(id)
	s.engine.PushWorks(work.UserID, snapshot)

	return nil
}

// Approve resolves a pending work: published when approved, rejected
// otherwise. Admin only.
func (s *WorkService) Approve(session Session, id string, approved bool) (inkwell.Work, error) {
	if !session.IsAdmin() {
		return inkwell.Work{}, errors.New("admin only", errors.Forbidden())
	}

	work, ok := s.store.Work(id)
	if !ok {
		return inkwell.Work{}, errors.New(fmt.Sprintf("<Work %s> not found", id), errors.NotFound())
	}

	if work.Status != inkwell.StatusPending {
		return inkwell.Work{}, errors.New("only pending works can be moderated", errors.Conflict())
	}

	if approved {
		work.Status = inkwell.StatusPublished
	} else {
		work.Status = inkwell.StatusRejected
	}
	work.UpdatedAt = inkwell.Now()

	snapshot := s.store.WorksForUser(work.UserID)
	s.store.UpsertWork(work)
	s.engine.PushWorks(work.UserID, snapshot)

	return work, nil
}

// Collect clones a published public work into a brand-new private work
// owned by the collector. The clone never aliases the source.
func (s *WorkService) Collect(session Session, id string) (inkwell.Work, error) {
	if session.IsGuest() {
		return inkwell.Work{}, errors.New("permission denied", errors.Forbidden())
	}

	source, ok := s.store.Work(id)
	if !ok {
		return inkwell.Work{}, errors.New(fmt.Sprintf("<Work %s> not found", id), errors.NotFound())
	}

	if source.Visibility != inkwell.VisibilityPublic || source.Status != inkwell.StatusPublished {
		return inkwell.Work{}, errors.New("only published public works can be collected", errors.Forbidden())
	}

	now := inkwell.Now()
	clone := source.Clone()
	clone.ID = uuid.NewString()
	clone.UserID = session.UserID()
	clone.Visibility = inkwell.VisibilityPrivate
	clone.Status = inkwell.StatusPublished
	clone.IsRefined = false
	clone.Score = 0
	clone.AuthorDeleted = false
	clone.OriginWorkID = source.ID
	clone.CharStyles = nil
	clone.CharAdjustments = nil
	clone.CreatedAt = now
	clone.UpdatedAt = now

	worksSnapshot := s.store.WorksForUser(clone.UserID)
	s.store.UpsertWork(clone)
	s.engine.PushWorks(clone.UserID, worksSnapshot)

	// Remember the source in the collector's user record. Independent
	// channel: its push may land before or after the works push.
	if user, ok := s.store.User(session.UserID()); ok && !contains(user.CollectedWorkIDs, source.ID) {
		usersSnapshot := s.store.Users()
		user.CollectedWorkIDs = append(user.CollectedWorkIDs, source.ID)
		s.store.UpsertUser(user)
		s.engine.PushUsers(usersSnapshot)
	}

	return clone, nil
}

func (s *WorkService) Get(session Session, id string) (inkwell.Work, error) {
	work, ok := s.store.Work(id)
	if !ok || !s.visible(session, work) {
		return inkwell.Work{}, errors.New(fmt.Sprintf("<Work %s> not found", id), errors.NotFound())
	}
	return work, nil
}

// List returns the works visible to the session, newest first.
func (s *WorkService) List(session Session) []inkwell.Work {
	works := make([]inkwell.Work, 0)
	for _, work := range s.store.Works() {
		if s.visible(session, work) {
			works = append(works, work)
		}
	}

	sort.Slice(works, func(i, j int) bool {
		return works[i].CreatedAt > works[j].CreatedAt
	})
	return works
}

// Pending returns the moderation queue. Admin only.
func (s *WorkService) Pending(session Session) ([]inkwell.Work, error) {
	if !session.IsAdmin() {
		return nil, errors.New("admin only", errors.Forbidden())
	}

	pending := make([]inkwell.Work, 0)
	for _, work := range s.store.Works() {
		if work.Status == inkwell.StatusPending {
			pending = append(pending, work)
		}
	}
	return pending, nil
}

// visible enumerates the read paths: own works, published public
// works, refined private works of public collections, and the pending
// queue for admins.
func (s *WorkService) visible(session Session, work inkwell.Work) bool {
	if work.UserID == session.UserID() && !session.IsGuest() {
		return true
	}

	if work.Visibility == inkwell.VisibilityPublic && work.Status == inkwell.StatusPublished {
		return true
	}

	if work.Visibility == inkwell.VisibilityPrivate && work.IsRefined {
		if owner, ok := s.store.User(work.UserID); ok && owner.CollectionVisibility == inkwell.VisibilityPublic {
			return true
		}
	}

	if session.IsAdmin() && work.Status == inkwell.StatusPending {
		return true
	}

	return false
}

func contains(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
