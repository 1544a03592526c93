package service

import (
	"context"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory stand-ins for the repository layer. Each fake implements just
// the store interface a service depends on.

type fakeParticipantStore struct {
	participants map[int]*model.Participant
	byEmail      map[string]*model.Participant
	claimErr     error
	released     []int
}

func newFakeParticipantStore(ps ...*model.Participant) *fakeParticipantStore {
	f := &fakeParticipantStore{
		participants: map[int]*model.Participant{},
		byEmail:      map[string]*model.Participant{},
	}
	for _, p := range ps {
		f.participants[p.ID] = p
		f.byEmail[p.Email] = p
	}
	return f
}

func (f *fakeParticipantStore) GetByID(_ context.Context, id int) (*model.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantStore) GetByEmail(_ context.Context, email string) (*model.Participant, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantStore) Create(_ context.Context, p *model.Participant) error {
	p.ID = len(f.participants) + 1
	f.participants[p.ID] = p
	f.byEmail[p.Email] = p
	return nil
}

func (f *fakeParticipantStore) List(_ context.Context) ([]model.Participant, error) {
	var out []model.Participant
	for _, p := range f.participants {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeParticipantStore) ListByRound(_ context.Context, roundSeq int) ([]model.Participant, error) {
	var out []model.Participant
	for _, p := range f.participants {
		if p.CurrentRound == roundSeq {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeParticipantStore) SetActive(_ context.Context, id int, active bool) (*model.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.IsActive = active
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantStore) AdjustRound(_ context.Context, id, delta int) (*model.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.CurrentRound += delta
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantStore) ClaimSession(_ context.Context, id int) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	p, ok := f.participants[id]
	if !ok || p.InSession {
		return false, nil
	}
	p.InSession = true
	return true, nil
}

func (f *fakeParticipantStore) ReleaseSession(_ context.Context, id int) error {
	if p, ok := f.participants[id]; ok {
		p.InSession = false
	}
	f.released = append(f.released, id)
	return nil
}

func (f *fakeParticipantStore) Delete(_ context.Context, email string) (bool, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return false, nil
	}
	delete(f.participants, p.ID)
	delete(f.byEmail, email)
	return true, nil
}

type fakeRoundStore struct {
	rounds map[uuid.UUID]*model.Round
}

func newFakeRoundStore(rounds ...*model.Round) *fakeRoundStore {
	f := &fakeRoundStore{rounds: map[uuid.UUID]*model.Round{}}
	for _, r := range rounds {
		f.rounds[r.ID] = r
	}
	return f
}

func (f *fakeRoundStore) GetByID(_ context.Context, id uuid.UUID) (*model.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoundStore) ListActive(_ context.Context) ([]model.Round, error) {
	var out []model.Round
	for _, r := range f.rounds {
		if r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeQuestionStore struct {
	byRound map[uuid.UUID][]model.Question
	listErr error
}

func (f *fakeQuestionStore) ListByRound(_ context.Context, roundID uuid.UUID) ([]model.Question, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byRound[roundID], nil
}

type fakeSessionRecordStore struct {
	created   []*model.TestSession
	closed    []model.SessionStatus
	createErr error
}

func (f *fakeSessionRecordStore) Create(_ context.Context, s *model.TestSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = uuid.New()
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSessionRecordStore) CloseActive(_ context.Context, _ int, status model.SessionStatus) error {
	f.closed = append(f.closed, status)
	return nil
}

func (f *fakeSessionRecordStore) GetActiveByParticipant(_ context.Context, participantID int) (*model.TestSession, error) {
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].ParticipantID == participantID && len(f.closed) == 0 {
			cp := *f.created[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSessionRecordStore) ListByRound(_ context.Context, roundID uuid.UUID) ([]model.TestSession, error) {
	var out []model.TestSession
	for _, s := range f.created {
		if s.RoundID == roundID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeBatchWriter struct {
	participantID int
	roundID       uuid.UUID
	elapsed       int
	answers       []repository.GradedAnswer
	err           error
	calls         int
}

func (f *fakeBatchWriter) PersistGradedBatch(_ context.Context, participantID int, roundID uuid.UUID, elapsed int, answers []repository.GradedAnswer) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.participantID = participantID
	f.roundID = roundID
	f.elapsed = elapsed
	f.answers = answers
	return nil
}
