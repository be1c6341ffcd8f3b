package taste

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/jumak-backend/internal/data/repos/testutil"
	types "github.com/yungbote/jumak-backend/internal/domain"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestFlavorProfileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewFlavorProfileRepo(db, testutil.Logger(t))
	userID := uuid.New()

	got, err := repo.GetByUserID(dbc, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got != nil {
		t.Fatalf("GetByUserID: expected nil, got %+v", got)
	}

	created, err := repo.EnsureForUpdate(dbc, &types.FlavorProfile{UserID: userID, Sweetness: 2.5, Aroma: 2.5})
	if err != nil {
		t.Fatalf("EnsureForUpdate: %v", err)
	}
	if created == nil || created.ID == uuid.Nil || created.Sweetness != 2.5 {
		t.Fatalf("EnsureForUpdate: unexpected row %+v", created)
	}

	again, err := repo.EnsureForUpdate(dbc, &types.FlavorProfile{UserID: userID, Sweetness: 4})
	if err != nil {
		t.Fatalf("EnsureForUpdate (existing): %v", err)
	}
	if again.ID != created.ID || again.Sweetness != 2.5 {
		t.Fatalf("EnsureForUpdate must not overwrite: %+v", again)
	}

	now := time.Now().UTC()
	influence := 0.4
	again.Sweetness = 3.3
	again.ReviewCount = 6
	again.RetakeCount = 1
	again.LastRetakeAt = &now
	again.LastRetakeInfluence = &influence
	again.RetakeBase = datatypes.JSON([]byte(`{"sweetness":2.5}`))
	again.Analysis = "analysis"
	if err := repo.Save(dbc, again); err != nil {
		t.Fatalf("Save: %v", err)
	}

	locked, err := repo.GetByUserIDForUpdate(dbc, userID)
	if err != nil {
		t.Fatalf("GetByUserIDForUpdate: %v", err)
	}
	if locked.Sweetness != 3.3 || locked.ReviewCount != 6 || locked.RetakeCount != 1 || locked.Analysis != "analysis" {
		t.Fatalf("Save: unexpected row %+v", locked)
	}
	if locked.LastRetakeInfluence == nil || *locked.LastRetakeInfluence != 0.4 {
		t.Fatalf("Save: last retake influence %v", locked.LastRetakeInfluence)
	}

	var count int64
	if err := tx.Model(&types.FlavorProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one profile row, got %d", count)
	}
}

func TestQuizResultRepoUpsertOverwrites(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	repo := NewQuizResultRepo(db, testutil.Logger(t))
	userID := uuid.New()

	if err := repo.Upsert(dbc, &types.QuizResult{
		UserID:  userID,
		Answers: datatypes.JSON([]byte(`{"q1":"A"}`)),
		Label:   "sweet-fruity",
		Scores:  datatypes.JSON([]byte(`{"sweet-fruity":3}`)),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, &types.QuizResult{
		UserID:  userID,
		Answers: datatypes.JSON([]byte(`{"q1":"B"}`)),
		Label:   "gourmet",
		Scores:  datatypes.JSON([]byte(`{}`)),
	}); err != nil {
		t.Fatalf("Upsert (retake): %v", err)
	}

	got, err := repo.GetByUserID(dbc, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got == nil || got.Label != "gourmet" || string(got.Answers) != `{"q1":"B"}` {
		t.Fatalf("GetByUserID: unexpected row %+v", got)
	}
}

func TestReviewSignalRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewReviewSignalRepo(db, testutil.Logger(t))
	userID := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	third := testutil.SeedReviewSignal(t, ctx, tx, userID, base.Add(2*time.Hour), testutil.Float(1))
	first := testutil.SeedReviewSignal(t, ctx, tx, userID, base, testutil.Float(5))
	second := testutil.SeedReviewSignal(t, ctx, tx, userID, base.Add(time.Hour), nil)
	testutil.SeedReviewSignal(t, ctx, tx, uuid.New(), base, nil)

	list, err := repo.ListActiveByUser(dbc, userID)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(list) != 3 || list[0].ID != first.ID || list[1].ID != second.ID || list[2].ID != third.ID {
		t.Fatalf("ListActiveByUser: unexpected order %+v", list)
	}

	deleted, err := repo.SoftDelete(dbc, second.ReviewID)
	if err != nil || !deleted {
		t.Fatalf("SoftDelete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = repo.SoftDelete(dbc, second.ReviewID)
	if err != nil || deleted {
		t.Fatalf("SoftDelete twice: deleted=%v err=%v", deleted, err)
	}

	gone, err := repo.GetByReviewID(dbc, second.ReviewID)
	if err != nil {
		t.Fatalf("GetByReviewID: %v", err)
	}
	if gone != nil {
		t.Fatalf("GetByReviewID: soft-deleted row returned")
	}

	list, err = repo.ListActiveByUser(dbc, userID)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != third.ID {
		t.Fatalf("ListActiveByUser after delete: %+v", list)
	}
	if list[0].Sweetness == nil || *list[0].Sweetness != 5 {
		t.Fatalf("nullable rating lost: %+v", list[0])
	}
}

func TestReviewSignalRepoRejectsDuplicateReview(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewReviewSignalRepo(db, testutil.Logger(t))

	row := &types.ReviewSignal{ReviewID: uuid.New(), UserID: uuid.New(), ProductID: uuid.New()}
	if err := repo.Create(dbc, row); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := &types.ReviewSignal{ReviewID: row.ReviewID, UserID: row.UserID, ProductID: row.ProductID}
	if err := repo.Create(dbc, dup); err == nil {
		t.Fatalf("expected unique violation on review_id")
	}
}

func TestReviewSignalRepoOrdersBySeq(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewReviewSignalRepo(db, testutil.Logger(t))
	userID := uuid.New()

	later := &types.ReviewSignal{ReviewID: uuid.New(), UserID: userID, ProductID: uuid.New(), Seq: 3}
	earlier := &types.ReviewSignal{ReviewID: uuid.New(), UserID: userID, ProductID: uuid.New(), Seq: 1}
	for _, row := range []*types.ReviewSignal{later, earlier} {
		if err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	list, err := repo.ListActiveByUser(dbc, userID)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != earlier.ID || list[1].ID != later.ID {
		t.Fatalf("ListActiveByUser: expected seq order, got %+v", list)
	}
}

func TestProfileEventRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewProfileEventRepo(db, testutil.Logger(t))
	userID := uuid.New()
	ref := datatypes.JSON([]byte(`{"sweetness":4}`))

	retake := &types.ProfileEvent{UserID: userID, Seq: 7, Kind: "retake", Label: "clean-savory", Reference: ref, Influence: 0.1}
	seed := &types.ProfileEvent{UserID: userID, Seq: 1, Kind: "seed", Label: "sweet-fruity", Reference: ref, Influence: 1}
	other := &types.ProfileEvent{UserID: uuid.New(), Seq: 1, Kind: "seed", Label: "fresh-fizzy", Reference: ref, Influence: 1}
	for _, row := range []*types.ProfileEvent{retake, seed, other} {
		if err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByUser(dbc, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != seed.ID || list[1].ID != retake.ID {
		t.Fatalf("ListByUser: unexpected events %+v", list)
	}
	if list[1].Influence != 0.1 || list[1].Label != "clean-savory" {
		t.Fatalf("ListByUser: fields lost %+v", list[1])
	}

	dup := &types.ProfileEvent{UserID: userID, Seq: 7, Kind: "retake", Label: "gourmet", Reference: ref, Influence: 0.1}
	if err := repo.Create(dbc, dup); err == nil {
		t.Fatalf("expected unique violation on (user_id, seq)")
	}
}
