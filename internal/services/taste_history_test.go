package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/jumak-backend/internal/data/aggregates"
	"github.com/yungbote/jumak-backend/internal/data/repos"
	"github.com/yungbote/jumak-backend/internal/data/repos/testutil"
	types "github.com/yungbote/jumak-backend/internal/domain"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"github.com/yungbote/jumak-backend/internal/platform/rediscache"
	"github.com/yungbote/jumak-backend/internal/taste"
)

var cleanSavoryAnswers = taste.Answers{"q1": "B", "q2": "A", "q3": "B", "q4": "B", "q5": "A", "q6": "B"}

func newTasteServiceWithRepos(t *testing.T, wrap func(repos.Set) repos.Set) TasteService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewTasteService(
		log,
		taste.DefaultCatalog(),
		wrap(repos.NewSet(db, log)),
		aggregates.NewGormTxRunner(db),
		rediscache.NewMemory(),
		TasteServiceConfig{},
	)
}

func vectorsClose(a, b taste.Vector) bool {
	for _, d := range taste.Dimensions {
		if math.Abs(a.Get(d)-b.Get(d)) > 1e-9 {
			return false
		}
	}
	return true
}

func TestRemoveReviewAfterRetakeKeepsRetakeBlend(t *testing.T) {
	svc, _ := newTestTasteService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.SubmitQuiz(ctx, userID, sweetFruityAnswers); err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	for i := 0; i < 25; i++ {
		if _, err := svc.IncorporateReview(ctx, userID, review(float64(i%6))); err != nil {
			t.Fatalf("IncorporateReview %d: %v", i, err)
		}
	}
	retake, err := svc.CommitRetake(ctx, userID, cleanSavoryAnswers)
	if err != nil {
		t.Fatalf("CommitRetake: %v", err)
	}
	if retake.Classification.Label != "clean-savory" || retake.Plan.Influence != 0.1 {
		t.Fatalf("unexpected retake: label=%s influence=%v", retake.Classification.Label, retake.Plan.Influence)
	}
	afterRetake := retake.Profile.Vector

	last := review(0)
	if _, err := svc.IncorporateReview(ctx, userID, last); err != nil {
		t.Fatalf("IncorporateReview: %v", err)
	}
	view, err := svc.RemoveReview(ctx, userID, last.ReviewID)
	if err != nil {
		t.Fatalf("RemoveReview: %v", err)
	}
	if !vectorsClose(view.Vector, afterRetake) {
		t.Fatalf("vector after removal %+v, want post-retake %+v", view.Vector, afterRetake)
	}
	if view.ReviewCount != 25 || view.RetakeCount != 1 {
		t.Fatalf("unexpected bookkeeping: %+v", view)
	}
}

func TestRemoveReviewBeforeQuizReplaysQuizAtItsPosition(t *testing.T) {
	svc, _ := newTestTasteService(t)
	ctx := context.Background()
	userID := uuid.New()

	early, kept := review(0), review(5)
	if _, err := svc.IncorporateReview(ctx, userID, early); err != nil {
		t.Fatalf("IncorporateReview: %v", err)
	}
	if _, err := svc.SubmitQuiz(ctx, userID, sweetFruityAnswers); err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if _, err := svc.IncorporateReview(ctx, userID, kept); err != nil {
		t.Fatalf("IncorporateReview: %v", err)
	}

	view, err := svc.RemoveReview(ctx, userID, early.ReviewID)
	if err != nil {
		t.Fatalf("RemoveReview: %v", err)
	}
	// with no review left before it the quiz seeds outright
	ref, _ := taste.DefaultCatalog().ReferenceVector("sweet-fruity")
	want := taste.Replay(ref, true, []taste.ReviewSignal{{Overall: 5, Ratings: taste.Ratings{taste.Sweetness: 5}}})
	if !vectorsClose(view.Vector, want.Vector) || view.ReviewCount != 1 {
		t.Fatalf("got %+v, want %+v", view.Vector, want.Vector)
	}
}

// callOrder records repo calls of one service instance.
type callOrder struct{ calls []string }

type orderedProfileRepo struct {
	repos.FlavorProfileRepo
	order *callOrder
}

func (r orderedProfileRepo) EnsureForUpdate(dbc dbctx.Context, init *types.FlavorProfile) (*types.FlavorProfile, error) {
	r.order.calls = append(r.order.calls, "profile.lock")
	return r.FlavorProfileRepo.EnsureForUpdate(dbc, init)
}

type orderedQuizRepo struct {
	repos.QuizResultRepo
	order *callOrder
}

func (r orderedQuizRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.QuizResult, error) {
	r.order.calls = append(r.order.calls, "quiz.get")
	return r.QuizResultRepo.GetByUserID(dbc, userID)
}

func TestSubmitQuizReadsPriorResultUnderProfileLock(t *testing.T) {
	order := &callOrder{}
	svc := newTasteServiceWithRepos(t, func(set repos.Set) repos.Set {
		set.FlavorProfile = orderedProfileRepo{FlavorProfileRepo: set.FlavorProfile, order: order}
		set.QuizResult = orderedQuizRepo{QuizResultRepo: set.QuizResult, order: order}
		return set
	})
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.SubmitQuiz(ctx, userID, sweetFruityAnswers); err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if len(order.calls) < 2 || order.calls[0] != "profile.lock" || order.calls[1] != "quiz.get" {
		t.Fatalf("prior result must be read after the profile lock, got %v", order.calls)
	}

	first, err := svc.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if _, err := svc.SubmitQuiz(ctx, userID, cleanSavoryAnswers); !errors.Is(err, ErrQuizAlreadyTaken) {
		t.Fatalf("second submit: expected ErrQuizAlreadyTaken, got %v", err)
	}
	again, err := svc.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if again.Vector != first.Vector || again.Type == nil || again.Type.Label != "sweet-fruity" {
		t.Fatalf("rejected submit changed the profile: %+v", again)
	}
}

// lostDeleteRepo lets a concurrent request soft-delete the row first.
type lostDeleteRepo struct {
	repos.ReviewSignalRepo
}

func (r lostDeleteRepo) SoftDelete(dbc dbctx.Context, reviewID uuid.UUID) (bool, error) {
	if _, err := r.ReviewSignalRepo.SoftDelete(dbc, reviewID); err != nil {
		return false, err
	}
	return r.ReviewSignalRepo.SoftDelete(dbc, reviewID)
}

func TestRemoveReviewLosingConcurrentDelete(t *testing.T) {
	svc := newTasteServiceWithRepos(t, func(set repos.Set) repos.Set {
		set.ReviewSignal = lostDeleteRepo{ReviewSignalRepo: set.ReviewSignal}
		return set
	})
	ctx := context.Background()
	userID := uuid.New()

	in := review(5)
	before, err := svc.IncorporateReview(ctx, userID, in)
	if err != nil {
		t.Fatalf("IncorporateReview: %v", err)
	}
	if _, err := svc.RemoveReview(ctx, userID, in.ReviewID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
	after, err := svc.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if after.Vector != before.Vector || after.ReviewCount != 1 {
		t.Fatalf("losing delete rewrote the profile: %+v", after)
	}
}
