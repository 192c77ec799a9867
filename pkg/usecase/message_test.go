package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/harvest-lab/demeter/pkg/repository/memory"
	"github.com/harvest-lab/demeter/pkg/service/nutrition"
	"github.com/harvest-lab/demeter/pkg/service/vision"
	"github.com/harvest-lab/demeter/pkg/usecase"
)

const testSender = "U12345"

type nutritionMock struct {
	result  *nutrition.Result
	err     error
	phrases []string
}

func (m *nutritionMock) Lookup(_ context.Context, phrase string) (*nutrition.Result, error) {
	m.phrases = append(m.phrases, phrase)
	return m.result, m.err
}

type visionMock struct {
	labels []vision.Label
	err    error
}

func (m *visionMock) DetectLabels(_ context.Context, _ []byte) ([]vision.Label, error) {
	return m.labels, m.err
}

// testClock is a settable time source for deterministic expiry tests
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func seedRepo(t *testing.T) *memory.Memory {
	t.Helper()
	repo := memory.New()
	ctx := context.Background()

	seeds := []*model.FoodItem{
		model.NewFoodItem("apple", types.UnitPiece, 95),
		model.NewFoodItem("banana", types.UnitPiece, 105),
		model.NewFoodItem("oats", types.UnitPer100g, 389),
	}
	for _, item := range seeds {
		gt.NoError(t, repo.Catalog().Create(ctx, item)).Required()
	}

	return repo
}

func TestHandleMessage_AddCommand(t *testing.T) {
	t.Run("add per-piece food", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple 2"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 2 x apple = 190 kcal. Today: 190/2000 kcal.")
	})

	t.Run("add per-100g food scales by grams", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add oats 50"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 50 x oats = 194 kcal. Today: 194/2000 kcal.")
	})

	t.Run("add with fractional quantity", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple 1/2"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 0.5 x apple = 47 kcal. Today: 47/2000 kcal.")
	})

	t.Run("add defaults quantity to one", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add banana"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x banana = 105 kcal. Today: 105/2000 kcal.")
	})

	t.Run("multi-word food name with trailing quantity", func(t *testing.T) {
		repo := seedRepo(t)
		ctx := context.Background()
		gt.NoError(t, repo.Catalog().Create(ctx,
			model.NewFoodItem("brown rice", types.UnitPer100g, 111))).Required()
		uc := usecase.New(repo)

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add brown rice 100"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 100 x brown rice = 111 kcal. Today: 111/2000 kcal.")
	})

	t.Run("log is an alias for add", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "log apple 1"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x apple = 95 kcal. Today: 95/2000 kcal.")
	})

	t.Run("bad quantity is reported not coerced", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple abc"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Couldn't parse quantity. Use a number: add apple 1")

		// Nothing got logged
		total, err := totalToday(ctx, repo, uc)
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal("Today: 0/2000 kcal\nNo logs today.")
	})

	t.Run("add without arguments shows usage", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Usage: add <food> <qty> (eg: add apple 1)")
	})

	t.Run("unknown food without nutrition service", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add dragonfruit 1"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("No local data for 'dragonfruit'. Try: add apple 1 (use common names).")
	})

	t.Run("substring match against the catalog", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add appl 1"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x apple = 95 kcal. Today: 95/2000 kcal.")
	})
}

func totalToday(ctx context.Context, _ *memory.Memory, uc *usecase.UseCases) (string, error) {
	return uc.HandleMessage(ctx, model.NewMessage(testSender, "today"))
}

func TestHandleMessage_Nutrition(t *testing.T) {
	t.Run("nutrition result wins over catalog and is learned", func(t *testing.T) {
		repo := seedRepo(t)
		svc := &nutritionMock{result: &nutrition.Result{FoodName: "grilled salmon", TotalKcal: 412}}
		uc := usecase.New(repo, usecase.WithNutrition(svc))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add grilled salmon 2"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 2 x grilled salmon = 412 kcal. Today: 412/2000 kcal.")
		gt.Array(t, svc.phrases).Length(1)
		gt.Value(t, svc.phrases[0]).Equal("2 grilled salmon")

		// The resolved food is learned with a per-serving calorie value
		learned, err := repo.Catalog().Get(ctx, model.NormalizeFoodName("grilled salmon"))
		gt.NoError(t, err).Required()
		gt.Value(t, learned.Unit).Equal(types.UnitServing)
		gt.Value(t, learned.KcalPerUnit).Equal(206.0)
	})

	t.Run("nutrition failure falls back to catalog", func(t *testing.T) {
		repo := seedRepo(t)
		svc := &nutritionMock{err: context.DeadlineExceeded}
		uc := usecase.New(repo, usecase.WithNutrition(svc))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple 1"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x apple = 95 kcal. Today: 95/2000 kcal.")
	})

	t.Run("nutrition no-data falls back to catalog", func(t *testing.T) {
		repo := seedRepo(t)
		svc := &nutritionMock{}
		uc := usecase.New(repo, usecase.WithNutrition(svc))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add banana 1"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x banana = 105 kcal. Today: 105/2000 kcal.")
	})

	t.Run("learning race keeps the existing entry", func(t *testing.T) {
		repo := seedRepo(t)
		ctx := context.Background()
		gt.NoError(t, repo.Catalog().Create(ctx,
			model.NewFoodItem("grilled salmon", types.UnitServing, 200))).Required()

		svc := &nutritionMock{result: &nutrition.Result{FoodName: "grilled salmon", TotalKcal: 412}}
		uc := usecase.New(repo, usecase.WithNutrition(svc))

		_, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add grilled salmon 2"))
		gt.NoError(t, err).Required()

		existing, err := repo.Catalog().Get(ctx, model.NormalizeFoodName("grilled salmon"))
		gt.NoError(t, err).Required()
		gt.Value(t, existing.KcalPerUnit).Equal(200.0)
	})
}

func TestHandleMessage_Today(t *testing.T) {
	t.Run("empty day", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "today"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Today: 0/2000 kcal\nNo logs today.")
	})

	t.Run("entries are listed most recent first", func(t *testing.T) {
		repo := seedRepo(t)
		clock := &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
		uc := usecase.New(repo, usecase.WithClock(clock.Now))
		ctx := context.Background()

		_, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple 1"))
		gt.NoError(t, err).Required()

		clock.now = clock.now.Add(time.Hour)
		_, err = uc.HandleMessage(ctx, model.NewMessage(testSender, "add banana 2"))
		gt.NoError(t, err).Required()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "today"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Today: 305/2000 kcal\n" +
			"2 x banana = 210 kcal\n" +
			"1 x apple = 95 kcal")
	})

	t.Run("total is an alias for today", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "total"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Today: 0/2000 kcal\nNo logs today.")
	})

	t.Run("yesterday's entries are excluded", func(t *testing.T) {
		repo := seedRepo(t)
		clock := &testClock{now: time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC)}
		uc := usecase.New(repo, usecase.WithClock(clock.Now))
		ctx := context.Background()

		_, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple 1"))
		gt.NoError(t, err).Required()

		clock.now = time.Date(2026, 3, 15, 0, 10, 0, 0, time.UTC)
		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "today"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Today: 0/2000 kcal\nNo logs today.")
	})
}

func TestHandleMessage_SetTarget(t *testing.T) {
	t.Run("set and use new target", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "settarget 1800"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Daily target set to 1800 kcal.")

		reply, err = uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple 1"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x apple = 95 kcal. Today: 95/1800 kcal.")
	})

	t.Run("target is an alias for settarget", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "target 1500"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Daily target set to 1500 kcal.")
	})

	t.Run("invalid target gets usage and no side effect", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		for _, arg := range []string{"settarget abc", "settarget -100", "settarget +1800", "settarget 1.5", "settarget"} {
			reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, arg))
			gt.NoError(t, err).Required()
			gt.Value(t, reply).Equal("Usage: settarget <kcal>")
		}

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "add apple 1"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x apple = 95 kcal. Today: 95/2000 kcal.")
	})
}

func TestHandleMessage_Help(t *testing.T) {
	repo := seedRepo(t)
	uc := usecase.New(repo)
	ctx := context.Background()

	for _, text := range []string{"", "hello there", "help"} {
		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, text))
		gt.NoError(t, err).Required()
		gt.String(t, reply).Contains("Commands:")
		gt.String(t, reply).Contains("add <food> <qty>")
	}
}

func TestHandleMessage_Image(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff}

	t.Run("without vision service asks for the food name", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo)
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Couldn't identify the food. Please name it, e.g.: add apple 1")

		// No pending suggestion stored, a later "yes" has nothing to confirm
		reply, err = uc.HandleMessage(ctx, model.NewMessage(testSender, "yes"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Nothing pending to confirm. Send a food photo or 'add <food> <qty>'.")
	})

	t.Run("vision failure degrades to asking for the name", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo, usecase.WithVision(&visionMock{err: context.DeadlineExceeded}))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Couldn't identify the food. Please name it, e.g.: add apple 1")
	})

	t.Run("no labels degrades to asking for the name", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo, usecase.WithVision(&visionMock{}))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Couldn't identify the food. Please name it, e.g.: add apple 1")
	})

	t.Run("labeled food becomes a suggestion, never auto-logged", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo, usecase.WithVision(&visionMock{
			labels: []vision.Label{{Description: "Banana", Score: 0.97}},
		}))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Looks like banana (~105 kcal). Reply 'yes' to log it, or 'add <food> <qty>'.")

		// Nothing logged until confirmed
		total, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "today"))
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal("Today: 0/2000 kcal\nNo logs today.")
	})

	t.Run("label without calorie data", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo, usecase.WithVision(&visionMock{
			labels: []vision.Label{{Description: "sushi", Score: 0.9}},
		}))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Looks like sushi, but no calorie data was found. Try: add sushi 1")
	})

	t.Run("add caption wins over image labeling", func(t *testing.T) {
		repo := seedRepo(t)
		uc := usecase.New(repo, usecase.WithVision(&visionMock{
			labels: []vision.Label{{Description: "banana", Score: 0.97}},
		}))
		ctx := context.Background()

		reply, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "add apple 2", img))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 2 x apple = 190 kcal. Today: 190/2000 kcal.")
	})
}

func TestHandleMessage_Confirmation(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff}

	newSuggestionUC := func(t *testing.T, clock *testClock) (*usecase.UseCases, context.Context) {
		t.Helper()
		repo := seedRepo(t)
		opts := []usecase.Option{
			usecase.WithVision(&visionMock{labels: []vision.Label{{Description: "banana", Score: 0.97}}}),
		}
		if clock != nil {
			opts = append(opts, usecase.WithClock(clock.Now))
		}
		uc := usecase.New(repo, opts...)
		ctx := context.Background()

		_, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()
		return uc, ctx
	}

	t.Run("yes logs the suggestion", func(t *testing.T) {
		uc, ctx := newSuggestionUC(t, nil)

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "yes"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x banana = 105 kcal. Today: 105/2000 kcal.")

		// Confirmation consumes the suggestion
		reply, err = uc.HandleMessage(ctx, model.NewMessage(testSender, "yes"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Nothing pending to confirm. Send a food photo or 'add <food> <qty>'.")
	})

	t.Run("no discards the suggestion", func(t *testing.T) {
		uc, ctx := newSuggestionUC(t, nil)

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "no"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Okay, discarded.")

		reply, err = uc.HandleMessage(ctx, model.NewMessage(testSender, "yes"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Nothing pending to confirm. Send a food photo or 'add <food> <qty>'.")
	})

	t.Run("expired suggestion is not logged", func(t *testing.T) {
		clock := &testClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
		uc, ctx := newSuggestionUC(t, clock)

		clock.now = clock.now.Add(model.PendingTTL + time.Minute)
		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "yes"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("That suggestion expired. Send the photo again or use 'add <food> <qty>'.")

		total, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "today"))
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal("Today: 0/2000 kcal\nNo logs today.")
	})

	t.Run("a newer suggestion replaces the old one", func(t *testing.T) {
		repo := seedRepo(t)
		visionSvc := &visionMock{labels: []vision.Label{{Description: "banana", Score: 0.97}}}
		uc := usecase.New(repo, usecase.WithVision(visionSvc))
		ctx := context.Background()

		_, err := uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()

		visionSvc.labels = []vision.Label{{Description: "apple", Score: 0.95}}
		_, err = uc.HandleMessage(ctx, model.NewImageMessage(testSender, "", img))
		gt.NoError(t, err).Required()

		reply, err := uc.HandleMessage(ctx, model.NewMessage(testSender, "yes"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Logged 1 x apple = 95 kcal. Today: 95/2000 kcal.")
	})
}

func TestHandleMessage_Validation(t *testing.T) {
	repo := seedRepo(t)
	uc := usecase.New(repo)
	ctx := context.Background()

	_, err := uc.HandleMessage(ctx, nil)
	gt.Value(t, err).NotNil()

	_, err = uc.HandleMessage(ctx, model.NewMessage("", "add apple 1"))
	gt.Value(t, err).NotNil()
}

func TestHandleMessage_UsersAreIsolated(t *testing.T) {
	repo := seedRepo(t)
	uc := usecase.New(repo)
	ctx := context.Background()

	_, err := uc.HandleMessage(ctx, model.NewMessage("U001", "add apple 2"))
	gt.NoError(t, err).Required()

	reply, err := uc.HandleMessage(ctx, model.NewMessage("U002", "today"))
	gt.NoError(t, err).Required()
	gt.Value(t, reply).Equal("Today: 0/2000 kcal\nNo logs today.")
}
