package services

import (
	"fmt"

	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

type RatingService struct {
	store  *replica.Store
	engine *syncer.Engine
}

func NewRatingService(store *replica.Store, engine *syncer.Engine) *RatingService {
	return &RatingService{
		store:  store,
		engine: engine,
	}
}

// Save upserts the caller's rating for a target and recomputes the
// target's cached score as the rounded mean of all its ratings. The
// full rating set is rescanned so the cached value can never drift.
func (s *RatingService) Save(session Session, targetID string, targetType inkwell.TargetType, score float64) (inkwell.Rating, error) {
	if session.IsGuest() {
		return inkwell.Rating{}, errors.New("sign in to rate", errors.Forbidden())
	}

	if !targetType.Valid() {
		return inkwell.Rating{}, errors.New(
			fmt.Sprintf("unknown target type %q", targetType),
			errors.BadRequest(),
		)
	}

	if score < 0 || score > 10 {
		return inkwell.Rating{}, errors.New("score must be between 0 and 10", errors.BadRequest())
	}

	// Resolve the target before mutating anything.
	var ownerID string
	switch targetType {
	case inkwell.TargetSample:
		sample, ok := s.store.Sample(targetID)
		if !ok {
			return inkwell.Rating{}, errors.New(fmt.Sprintf("<Sample %s> not found", targetID), errors.NotFound())
		}
		ownerID = sample.UserID
	case inkwell.TargetWork:
		work, ok := s.store.Work(targetID)
		if !ok {
			return inkwell.Rating{}, errors.New(fmt.Sprintf("<Work %s> not found", targetID), errors.NotFound())
		}
		ownerID = work.UserID
	}

	ratingsSnapshot := s.store.Ratings()

	rating := inkwell.Rating{
		UserID:     session.UserID(),
		TargetID:   targetID,
		TargetType: targetType,
		Score:      score,
		CreatedAt:  inkwell.Now(),
	}
	s.store.UpsertRating(rating)

	average := s.average(targetID, targetType)

	// The rating channel and the owner's slice channel are pushed
	// independently: one may commit without the other.
	switch targetType {
	case inkwell.TargetSample:
		if sample, ok := s.store.Sample(targetID); ok {
			snapshot := s.store.SamplesForUser(ownerID)
			sample.Score = average
			s.store.UpsertSample(sample)
			s.engine.PushSamples(ownerID, snapshot)
		}
	case inkwell.TargetWork:
		if work, ok := s.store.Work(targetID); ok {
			snapshot := s.store.WorksForUser(ownerID)
			work.Score = average
			s.store.UpsertWork(work)
			s.engine.PushWorks(ownerID, snapshot)
		}
	}

	s.engine.PushRatings(ratingsSnapshot)

	return rating, nil
}

// MyRating returns the caller's rating for a target, if any.
func (s *RatingService) MyRating(session Session, targetID string, targetType inkwell.TargetType) (inkwell.Rating, bool) {
	if session.IsGuest() {
		return inkwell.Rating{}, false
	}
	return s.store.Rating(session.UserID(), targetID, targetType)
}

func (s *RatingService) average(targetID string, targetType inkwell.TargetType) float64 {
	ratings := s.store.RatingsForTarget(targetID, targetType)
	if len(ratings) == 0 {
		return 0
	}

	total := 0.0
	for _, rating := range ratings {
		total += rating.Score
	}
	return inkwell.RoundScore(total / float64(len(ratings)))
}
