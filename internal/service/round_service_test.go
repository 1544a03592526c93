package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

type fakeRoundRegistry struct {
	rounds      map[uuid.UUID]*model.Round
	withHistory map[uuid.UUID]bool
	nextSeq     int
}

func newFakeRoundRegistry(rounds ...*model.Round) *fakeRoundRegistry {
	f := &fakeRoundRegistry{
		rounds:      map[uuid.UUID]*model.Round{},
		withHistory: map[uuid.UUID]bool{},
		nextSeq:     1,
	}
	for _, r := range rounds {
		f.rounds[r.ID] = r
		if r.Seq >= f.nextSeq {
			f.nextSeq = r.Seq + 1
		}
	}
	return f
}

func (f *fakeRoundRegistry) GetByID(_ context.Context, id uuid.UUID) (*model.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoundRegistry) List(_ context.Context) ([]model.Round, error) {
	var out []model.Round
	for _, r := range f.rounds {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoundRegistry) ListActive(_ context.Context) ([]model.Round, error) {
	var out []model.Round
	for _, r := range f.rounds {
		if r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoundRegistry) Create(_ context.Context, rd *model.Round) error {
	rd.ID = uuid.New()
	rd.Seq = f.nextSeq
	f.nextSeq++
	f.rounds[rd.ID] = rd
	return nil
}

func (f *fakeRoundRegistry) Activate(_ context.Context, id uuid.UUID) (*model.Round, error) {
	target, ok := f.rounds[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	for _, r := range f.rounds {
		r.IsActive = r.ID == id
	}
	cp := *target
	return &cp, nil
}

func (f *fakeRoundRegistry) Deactivate(_ context.Context, id uuid.UUID) (*model.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.IsActive = false
	cp := *r
	return &cp, nil
}

func (f *fakeRoundRegistry) UpdateTimeLimit(_ context.Context, id uuid.UUID, minutes int) (*model.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.TimeLimitMinutes = minutes
	cp := *r
	return &cp, nil
}

func (f *fakeRoundRegistry) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rounds[id]; !ok {
		return pgx.ErrNoRows
	}
	if f.withHistory[id] {
		return repository.ErrRoundHasHistory
	}
	delete(f.rounds, id)
	return nil
}

func newTestRoundService(t *testing.T, registry *fakeRoundRegistry) (*RoundService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRoundService(registry, rdb), mr
}

func TestActivateSwitchesSingleActiveRound(t *testing.T) {
	first := activeRound(1)
	second := &model.Round{ID: uuid.New(), Seq: 2, Name: "Finals", TimeLimitMinutes: 45}
	registry := newFakeRoundRegistry(first, second)
	svc, _ := newTestRoundService(t, registry)
	ctx := context.Background()

	activated, err := svc.Activate(ctx, second.ID)
	if err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if !activated.IsActive {
		t.Error("activated round not flagged active")
	}
	if registry.rounds[first.ID].IsActive {
		t.Error("previously active round stayed active after switch")
	}

	active, err := svc.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active round = %v, want %v", active.ID, second.ID)
	}
}

func TestGetActiveWithNoneActive(t *testing.T) {
	registry := newFakeRoundRegistry(&model.Round{ID: uuid.New(), Seq: 1})
	svc, _ := newTestRoundService(t, registry)

	if _, err := svc.GetActive(context.Background()); !errors.Is(err, ErrNoActiveRound) {
		t.Fatalf("GetActive error = %v, want ErrNoActiveRound", err)
	}
}

func TestDeleteRefusesActiveRound(t *testing.T) {
	round := activeRound(1)
	svc, _ := newTestRoundService(t, newFakeRoundRegistry(round))

	if err := svc.Delete(context.Background(), round.ID); !errors.Is(err, ErrRoundActive) {
		t.Fatalf("Delete error = %v, want ErrRoundActive", err)
	}
}

func TestDeleteRefusesRoundWithHistory(t *testing.T) {
	round := &model.Round{ID: uuid.New(), Seq: 1}
	registry := newFakeRoundRegistry(round)
	registry.withHistory[round.ID] = true
	svc, _ := newTestRoundService(t, registry)

	if err := svc.Delete(context.Background(), round.ID); !errors.Is(err, ErrRoundHasHistory) {
		t.Fatalf("Delete error = %v, want ErrRoundHasHistory", err)
	}
}

func TestMutationsInvalidatePayloadCache(t *testing.T) {
	round := activeRound(1)
	svc, mr := newTestRoundService(t, newFakeRoundRegistry(round))
	ctx := context.Background()

	key := config.CacheKey.RoundPayloadKey(round.ID.String())
	seed := func() {
		if err := mr.Set(key, `{"stale":true}`); err != nil {
			t.Fatalf("seed cache: %v", err)
		}
	}

	seed()
	if _, err := svc.UpdateTimeLimit(ctx, round.ID, 20); err != nil {
		t.Fatalf("UpdateTimeLimit failed: %v", err)
	}
	if mr.Exists(key) {
		t.Error("payload cache survived UpdateTimeLimit")
	}

	seed()
	if _, err := svc.Deactivate(ctx, round.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if mr.Exists(key) {
		t.Error("payload cache survived Deactivate")
	}

	seed()
	if _, err := svc.Activate(ctx, round.ID); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if mr.Exists(key) {
		t.Error("payload cache survived Activate")
	}
}

func TestCreateAssignsNextSequence(t *testing.T) {
	registry := newFakeRoundRegistry(&model.Round{ID: uuid.New(), Seq: 3})
	svc, _ := newTestRoundService(t, registry)

	round, err := svc.Create(context.Background(), &model.CreateRoundRequest{Name: "Semifinals", TimeLimitMinutes: 30})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if round.Seq != 4 {
		t.Errorf("Seq = %d, want 4", round.Seq)
	}
	if round.IsActive {
		t.Error("new round must start inactive")
	}
}
