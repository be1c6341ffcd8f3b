package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/jumak-backend/internal/data/aggregates"
	"github.com/yungbote/jumak-backend/internal/data/repos"
	types "github.com/yungbote/jumak-backend/internal/domain"
	"github.com/yungbote/jumak-backend/internal/observability"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
	"github.com/yungbote/jumak-backend/internal/platform/rediscache"
	"github.com/yungbote/jumak-backend/internal/taste"
	"github.com/yungbote/jumak-backend/internal/taste/card"
)

var (
	ErrNoPriorResult    = errors.New("no prior quiz result")
	ErrQuizAlreadyTaken = errors.New("quiz already taken; use retake")
	ErrInvalidReview    = errors.New("invalid review signal")
	ErrDuplicateReview  = errors.New("review already incorporated")
	ErrReviewNotFound   = errors.New("review signal not found")
	ErrUnauthenticated  = errors.New("missing user")
)

const (
	// Persistence failures classified retryable are retried this many times in total on the review path.
	reviewWriteAttempts = 3
	defaultProfileTTL   = 10 * time.Minute
)

type TasteService interface {
	Questions() []taste.Question
	Types() []TypeView
	Type(label string) (TypeView, error)
	Classify(ctx context.Context, answers taste.Answers) (taste.Classification, error)

	SubmitQuiz(ctx context.Context, userID uuid.UUID, answers taste.Answers) (*QuizOutcome, error)
	PreviewRetake(ctx context.Context, userID uuid.UUID, answers taste.Answers) (*RetakeOutcome, error)
	CommitRetake(ctx context.Context, userID uuid.UUID, answers taste.Answers) (*RetakeOutcome, error)

	IncorporateReview(ctx context.Context, userID uuid.UUID, in ReviewInput) (*ProfileView, error)
	RemoveReview(ctx context.Context, userID, reviewID uuid.UUID) (*ProfileView, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	RenderCard(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type TasteServiceConfig struct {
	ProfileCacheTTL time.Duration
	ImageBaseURL    string
	CardFontPath    string
	// Metrics is optional; nil disables instrumentation.
	Metrics *observability.Metrics
	// Hooks overrides the write hooks derived from Metrics.
	Hooks aggregates.Hooks
}

type tasteService struct {
	log          *logger.Logger
	catalog      *taste.Catalog
	repos        repos.Set
	writer       *aggregates.Writer
	reviewWriter *aggregates.Writer
	cache        *profileCache
	validate     *validator.Validate
	tracer       trace.Tracer
	metrics      *observability.Metrics
	imageBaseURL string
	cardFontPath string
	now          func() time.Time
}

// NewTasteService wires the taste engine to storage. cache may be nil.
func NewTasteService(
	log *logger.Logger,
	catalog *taste.Catalog,
	repoSet repos.Set,
	runner aggregates.TxRunner,
	cache rediscache.Cache,
	cfg TasteServiceConfig,
) TasteService {
	serviceLog := log.With("service", "TasteService")
	if catalog == nil {
		catalog = taste.DefaultCatalog()
	}
	ttl := cfg.ProfileCacheTTL
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	var pc *profileCache
	if cache != nil {
		pc = newProfileCache(serviceLog, cache, ttl)
	}
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = aggregates.NewObservabilityHooks(cfg.Metrics)
	}
	writer := aggregates.NewWriter(runner, serviceLog, 1)
	writer.Hooks = hooks
	reviewWriter := aggregates.NewWriter(runner, serviceLog, reviewWriteAttempts)
	reviewWriter.Hooks = hooks
	return &tasteService{
		log:          serviceLog,
		catalog:      catalog,
		repos:        repoSet,
		writer:       writer,
		reviewWriter: reviewWriter,
		cache:        pc,
		validate:     validator.New(),
		tracer:       observability.Tracer("taste"),
		metrics:      cfg.Metrics,
		imageBaseURL: strings.TrimRight(strings.TrimSpace(cfg.ImageBaseURL), "/"),
		cardFontPath: strings.TrimSpace(cfg.CardFontPath),
		now:          time.Now,
	}
}

func (s *tasteService) Questions() []taste.Question { return s.catalog.Questions() }

func (s *tasteService) Types() []TypeView {
	infos := s.catalog.TypeInfos()
	out := make([]TypeView, 0, len(infos))
	for _, info := range infos {
		out = append(out, s.typeView(info))
	}
	return out
}

// Type resolves a label. Unlike TypeInfo it rejects unknown labels.
func (s *tasteService) Type(label string) (TypeView, error) {
	l := taste.Label(strings.TrimSpace(label))
	if !s.catalog.IsKnownLabel(l) {
		return TypeView{}, fmt.Errorf("%w: %q", taste.ErrUnknownLabel, label)
	}
	return s.typeView(s.catalog.TypeInfo(l)), nil
}

func (s *tasteService) Classify(ctx context.Context, answers taste.Answers) (taste.Classification, error) {
	_, span := s.tracer.Start(ctx, "TasteService.Classify")
	defer span.End()
	if err := s.catalog.ValidateAnswers(answers); err != nil {
		return taste.Classification{}, err
	}
	c := s.catalog.Classify(answers)
	span.SetAttributes(attribute.String("taste.label", string(c.Label)))
	return c, nil
}

func (s *tasteService) SubmitQuiz(ctx context.Context, userID uuid.UUID, answers taste.Answers) (*QuizOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "TasteService.SubmitQuiz")
	defer span.End()
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	classification, err := s.Classify(ctx, answers)
	if err != nil {
		return nil, err
	}
	quizRow, err := quizResultRow(userID, answers, classification)
	if err != nil {
		return nil, fmt.Errorf("encode quiz result: %w", err)
	}

	var view ProfileView
	err = s.writer.Execute(ctx, "taste.submit_quiz", func(dbc dbctx.Context) error {
		// the profile lock serializes first submissions of the same user
		row, err := s.repos.FlavorProfile.EnsureForUpdate(dbc, newProfileRow(userID))
		if err != nil {
			return err
		}
		prior, err := s.repos.QuizResult.GetByUserID(dbc, userID)
		if err != nil {
			return err
		}
		if prior != nil {
			return ErrQuizAlreadyTaken
		}
		p := profileFromRow(row)
		ev, err := s.catalog.InitializeEvent(p.ReviewCount, classification.Label)
		if err != nil {
			return err
		}
		if err := s.catalog.Initialize(p, classification.Label); err != nil {
			return err
		}
		if err := s.recordEvent(dbc, userID, row, ev); err != nil {
			return err
		}
		refreshAnalysis(p, s.now())
		if err := s.saveProfile(dbc, p, row); err != nil {
			return err
		}
		if err := s.repos.QuizResult.Upsert(dbc, quizRow); err != nil {
			return err
		}
		view = s.view(userID, p, classification.Label)
		return nil
	})
	if aggregates.IsCode(err, aggregates.CodeConflict) {
		err = ErrQuizAlreadyTaken
	}
	if err != nil {
		return nil, s.fail(span, "submit quiz", err)
	}
	s.cache.invalidate(ctx, userID)
	s.metrics.IncClassification(string(classification.Label), string(classification.Kind))
	s.log.Info("quiz submitted", "user_id", userID, "label", classification.Label, "review_count", view.ReviewCount)
	return &QuizOutcome{Classification: classification, Profile: view}, nil
}

func (s *tasteService) PreviewRetake(ctx context.Context, userID uuid.UUID, answers taste.Answers) (*RetakeOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "TasteService.PreviewRetake")
	defer span.End()
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	classification, err := s.Classify(ctx, answers)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	prior, err := s.repos.QuizResult.GetByUserID(dbc, userID)
	if err != nil {
		return nil, s.fail(span, "preview retake", aggregates.MapError("taste.preview_retake", err))
	}
	row, err := s.repos.FlavorProfile.GetByUserID(dbc, userID)
	if err != nil {
		return nil, s.fail(span, "preview retake", aggregates.MapError("taste.preview_retake", err))
	}
	if prior == nil || row == nil {
		return nil, ErrNoPriorResult
	}
	plan, err := s.catalog.PlanRetake(profileFromRow(row), classification.Label)
	if err != nil {
		return nil, err
	}
	return &RetakeOutcome{Classification: classification, Plan: plan}, nil
}

func (s *tasteService) CommitRetake(ctx context.Context, userID uuid.UUID, answers taste.Answers) (*RetakeOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "TasteService.CommitRetake")
	defer span.End()
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	classification, err := s.Classify(ctx, answers)
	if err != nil {
		return nil, err
	}
	quizRow, err := quizResultRow(userID, answers, classification)
	if err != nil {
		return nil, fmt.Errorf("encode quiz result: %w", err)
	}

	var out RetakeOutcome
	err = s.writer.Execute(ctx, "taste.commit_retake", func(dbc dbctx.Context) error {
		prior, err := s.repos.QuizResult.GetByUserID(dbc, userID)
		if err != nil {
			return err
		}
		row, err := s.repos.FlavorProfile.GetByUserIDForUpdate(dbc, userID)
		if err != nil {
			return err
		}
		if prior == nil || row == nil {
			return ErrNoPriorResult
		}
		p := profileFromRow(row)
		plan, err := s.catalog.PlanRetake(p, classification.Label)
		if err != nil {
			return err
		}
		if err := taste.ApplyRetake(p, plan, s.now()); err != nil {
			return err
		}
		if err := s.recordEvent(dbc, userID, row, plan.Event()); err != nil {
			return err
		}
		refreshAnalysis(p, s.now())
		if err := s.saveProfile(dbc, p, row); err != nil {
			return err
		}
		if err := s.repos.QuizResult.Upsert(dbc, quizRow); err != nil {
			return err
		}
		view := s.view(userID, p, classification.Label)
		out = RetakeOutcome{Classification: classification, Plan: plan, Profile: &view}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, "commit retake", err)
	}
	s.cache.invalidate(ctx, userID)
	s.metrics.IncClassification(string(classification.Label), string(classification.Kind))
	s.metrics.ObserveRetake(string(classification.Label), out.Plan.Influence)
	s.log.Info("quiz retaken",
		"user_id", userID,
		"label", classification.Label,
		"influence", out.Plan.Influence,
		"changes", len(out.Plan.Changes),
	)
	return &out, nil
}

func (s *tasteService) IncorporateReview(ctx context.Context, userID uuid.UUID, in ReviewInput) (*ProfileView, error) {
	ctx, span := s.tracer.Start(ctx, "TasteService.IncorporateReview")
	defer span.End()
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if in.ReviewID == uuid.Nil || in.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: review_id and product_id are required", ErrInvalidReview)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReview, err)
	}

	var view ProfileView
	err := s.reviewWriter.Execute(ctx, "taste.incorporate_review", func(dbc dbctx.Context) error {
		row, err := s.repos.FlavorProfile.EnsureForUpdate(dbc, newProfileRow(userID))
		if err != nil {
			return err
		}
		existing, err := s.repos.ReviewSignal.GetByReviewID(dbc, in.ReviewID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateReview
		}
		signalRow := in.row(userID)
		signalRow.Seq = nextSeq(row)
		if err := s.repos.ReviewSignal.Create(dbc, signalRow); err != nil {
			return err
		}
		p := profileFromRow(row)
		taste.IncorporateReview(p, signalFromRow(signalRow))
		refreshAnalysis(p, s.now())
		if err := s.saveProfile(dbc, p, row); err != nil {
			return err
		}
		label, err := s.currentLabel(dbc, userID)
		if err != nil {
			return err
		}
		view = s.view(userID, p, label)
		return nil
	})
	if aggregates.IsCode(err, aggregates.CodeConflict) {
		// a concurrent request inserted the same review_id first
		err = ErrDuplicateReview
	}
	if err != nil {
		return nil, s.fail(span, "incorporate review", err)
	}
	s.cache.invalidate(ctx, userID)
	s.log.Debug("review incorporated", "user_id", userID, "review_id", in.ReviewID, "review_count", view.ReviewCount)
	return &view, nil
}

// RemoveReview soft-deletes a review's signal and rebuilds the vector by
// replaying the user's full history from the neutral vector: every quiz
// event at its position with the influence it was applied with, and the
// remaining signals in between.
func (s *tasteService) RemoveReview(ctx context.Context, userID, reviewID uuid.UUID) (*ProfileView, error) {
	ctx, span := s.tracer.Start(ctx, "TasteService.RemoveReview")
	defer span.End()
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	var view ProfileView
	err := s.reviewWriter.Execute(ctx, "taste.remove_review", func(dbc dbctx.Context) error {
		existing, err := s.repos.ReviewSignal.GetByReviewID(dbc, reviewID)
		if err != nil {
			return err
		}
		if existing == nil || existing.UserID != userID {
			return ErrReviewNotFound
		}
		row, err := s.repos.FlavorProfile.EnsureForUpdate(dbc, newProfileRow(userID))
		if err != nil {
			return err
		}
		deleted, err := s.repos.ReviewSignal.SoftDelete(dbc, reviewID)
		if err != nil {
			return err
		}
		if !deleted {
			// removed by a concurrent request after the lookup above
			return ErrReviewNotFound
		}
		remaining, err := s.repos.ReviewSignal.ListActiveByUser(dbc, userID)
		if err != nil {
			return err
		}
		events, err := s.repos.ProfileEvent.ListByUser(dbc, userID)
		if err != nil {
			return err
		}
		history, err := historyFromRows(events, remaining)
		if err != nil {
			return fmt.Errorf("decode profile history: %w", err)
		}
		label, err := s.currentLabel(dbc, userID)
		if err != nil {
			return err
		}
		replayed := taste.ReplayHistory(history)

		p := profileFromRow(row)
		p.Vector = replayed.Vector
		p.ReviewCount = replayed.ReviewCount
		p.Seeded = replayed.Seeded
		p.RetakeBase = replayed.RetakeBase
		refreshAnalysis(p, s.now())
		if err := s.saveProfile(dbc, p, row); err != nil {
			return err
		}
		view = s.view(userID, p, label)
		return nil
	})
	if err != nil {
		return nil, s.fail(span, "remove review", err)
	}
	s.cache.invalidate(ctx, userID)
	s.log.Info("review removed", "user_id", userID, "review_id", reviewID, "review_count", view.ReviewCount)
	return &view, nil
}

// GetProfile returns the user's profile view. A user with no stored profile
// gets the unseeded neutral view; nothing is persisted.
func (s *tasteService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	ctx, span := s.tracer.Start(ctx, "TasteService.GetProfile")
	defer span.End()
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if view, ok := s.cache.get(ctx, userID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return view, nil
	}

	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.repos.FlavorProfile.GetByUserID(dbc, userID)
	if err != nil {
		return nil, s.fail(span, "get profile", aggregates.MapError("taste.get_profile", err))
	}
	label, err := s.currentLabel(dbc, userID)
	if err != nil {
		return nil, s.fail(span, "get profile", aggregates.MapError("taste.get_profile", err))
	}

	var p *taste.Profile
	if row == nil {
		p = taste.NewProfile()
		p.Analysis = taste.GenerateAnalysis(p)
	} else {
		p = profileFromRow(row)
		if p.Analysis == "" {
			p.Analysis = taste.GenerateAnalysis(p)
		}
	}
	view := s.view(userID, p, label)
	s.cache.put(ctx, &view)
	return &view, nil
}

func (s *tasteService) RenderCard(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "TasteService.RenderCard")
	defer span.End()
	view, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if view.Type == nil {
		return nil, ErrNoPriorResult
	}
	png, err := card.Render(view.Type.TypeInfo, view.Vector, card.Options{FontPath: s.cardFontPath})
	if err != nil {
		return nil, s.fail(span, "render card", err)
	}
	return png, nil
}

func (s *tasteService) saveProfile(dbc dbctx.Context, p *taste.Profile, row *types.FlavorProfile) error {
	if err := applyProfileToRow(p, row); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.repos.FlavorProfile.Save(dbc, row)
}

// recordEvent appends a quiz step to the user's history at the next seq of
// the locked row.
func (s *tasteService) recordEvent(dbc dbctx.Context, userID uuid.UUID, row *types.FlavorProfile, ev taste.HistoryEvent) error {
	eventRow, err := profileEventRow(userID, nextSeq(row), ev)
	if err != nil {
		return fmt.Errorf("encode profile event: %w", err)
	}
	return s.repos.ProfileEvent.Create(dbc, eventRow)
}

// currentLabel is the label of the user's latest quiz, or "" if none.
func (s *tasteService) currentLabel(dbc dbctx.Context, userID uuid.UUID) (taste.Label, error) {
	q, err := s.repos.QuizResult.GetByUserID(dbc, userID)
	if err != nil || q == nil {
		return "", err
	}
	l := taste.Label(q.Label)
	if !s.catalog.IsKnownLabel(l) {
		s.log.Warn("stored quiz label no longer in catalog", "user_id", userID, "label", q.Label)
		return s.catalog.FallbackLabel(), nil
	}
	return l, nil
}

func (s *tasteService) view(userID uuid.UUID, p *taste.Profile, label taste.Label) ProfileView {
	v := ProfileView{
		UserID:              userID,
		Vector:              p.Vector,
		Stage:               taste.StageOf(p),
		ReviewCount:         p.ReviewCount,
		Seeded:              p.Seeded,
		RetakeCount:         p.RetakeCount,
		LastRetakeAt:        p.LastRetakeAt,
		LastRetakeInfluence: p.LastRetakeInfluence,
		Analysis:            p.Analysis,
		AnalysisUpdatedAt:   p.AnalysisUpdatedAt,
	}
	if label != "" {
		tv := s.typeView(s.catalog.TypeInfo(label))
		v.Type = &tv
	}
	return v
}

func (s *tasteService) typeView(info taste.TypeInfo) TypeView {
	tv := TypeView{TypeInfo: info}
	if s.imageBaseURL != "" && info.ImageRef != "" {
		tv.ImageURL = s.imageBaseURL + "/" + info.ImageRef
	}
	return tv
}

func (s *tasteService) fail(span trace.Span, what string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, what)
	return err
}
