package assessment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// ─── Fakes ──────────────────────────────────────────────────────────

type fakePool struct {
	questions []model.Question
	err       error
}

func (f *fakePool) FetchQuestions(_ context.Context, _ model.AssessmentKind, _ string) ([]model.Question, error) {
	return f.questions, f.err
}

type fakeCards struct {
	card *model.Card
	err  error
}

func (f *fakeCards) FetchCard(_ context.Context, _ model.AssessmentKind, _ string) (*model.Card, error) {
	return f.card, f.err
}

type fakeSink struct {
	mu      sync.Mutex
	results []*model.Result
	err     error
}

func (f *fakeSink) SubmitResult(_ context.Context, r *model.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.results = append(f.results, r)
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

type fakeRegistry struct {
	completed map[string]time.Time
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{completed: make(map[string]time.Time)}
}

func (f *fakeRegistry) Status(_ context.Context, _ int, language string) (*model.MockStatus, error) {
	if at, ok := f.completed[language]; ok {
		return &model.MockStatus{Disable: true, Date: &at}, nil
	}
	return &model.MockStatus{}, nil
}

func (f *fakeRegistry) MarkCompleted(_ context.Context, _ int, language string) error {
	if _, ok := f.completed[language]; !ok {
		f.completed[language] = time.Now()
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────

func makePool(n int) []model.Question {
	pool := make([]model.Question, n)
	for i := range pool {
		pool[i] = model.Question{
			Language:      "Python",
			Kind:          model.KindQuiz,
			QuestionText:  fmt.Sprintf("question %d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
			Difficulty:    model.DifficultyEasy,
		}
	}
	return pool
}

type harness struct {
	pool     *fakePool
	cards    *fakeCards
	sink     *fakeSink
	registry *fakeRegistry
	scratch  *MemoryScratch
}

func newHarness(poolSize, questionCount, durationMinutes int) *harness {
	return &harness{
		pool:     &fakePool{questions: makePool(poolSize)},
		cards:    &fakeCards{card: &model.Card{QuestionCount: questionCount, DurationMinutes: durationMinutes}},
		sink:     &fakeSink{},
		registry: newFakeRegistry(),
		scratch:  NewMemoryScratch(),
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Pool:         h.pool,
		Cards:        h.cards,
		Sink:         h.sink,
		Completions:  h.registry,
		Scratch:      h.scratch,
		Log:          zerolog.Nop(),
		TickInterval: -1, // Tests drive Tick directly.
		Rand:         rand.New(rand.NewSource(1)),
	}
}

func (h *harness) start(t *testing.T, kind model.AssessmentKind) *Session {
	t.Helper()
	s := newSession(7, kind, "Python", h.deps())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

// ─── Session creation ───────────────────────────────────────────────

func TestStartDrawsRequestedCountAndDuration(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)

	state := s.Snapshot()
	if len(state.Questions) != 5 {
		t.Errorf("question set length = %d, want 5", len(state.Questions))
	}
	if state.RemainingSeconds != 60 {
		t.Errorf("remaining = %d, want 60", state.RemainingSeconds)
	}
	if state.Status != StatusInProgress {
		t.Errorf("status = %s, want %s", state.Status, StatusInProgress)
	}

	// No duplicate questions within one draw.
	seen := make(map[string]bool)
	for _, q := range state.Questions {
		if seen[q.QuestionText] {
			t.Errorf("question %q drawn twice", q.QuestionText)
		}
		seen[q.QuestionText] = true
	}
}

func TestStartClampsCountToPoolSize(t *testing.T) {
	h := newHarness(3, 10, 1)
	s := h.start(t, model.KindQuiz)

	if got := len(s.Snapshot().Questions); got != 3 {
		t.Errorf("question set length = %d, want clamped 3", got)
	}
}

func TestStartEmptyPoolStaysLoading(t *testing.T) {
	h := newHarness(0, 5, 1)
	s := newSession(7, model.KindQuiz, "Python", h.deps())

	err := s.Start(context.Background())
	if !errors.Is(err, ErrPoolEmpty) {
		t.Fatalf("Start error = %v, want ErrPoolEmpty", err)
	}
	if s.Status() != StatusLoading {
		t.Errorf("status = %s, want loading after pool failure", s.Status())
	}
}

func TestStartPoolFetchErrorStaysLoading(t *testing.T) {
	h := newHarness(10, 5, 1)
	h.pool.err = errors.New("network down")
	s := newSession(7, model.KindQuiz, "Python", h.deps())

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start should surface the fetch error")
	}
	if s.Status() != StatusLoading {
		t.Errorf("status = %s, want loading after fetch failure", s.Status())
	}
}

func TestStartRestoresPersistedTimer(t *testing.T) {
	h := newHarness(10, 5, 10)
	key := ScratchKey{UserID: 7, Kind: model.KindQuiz, Language: "Python"}
	if err := h.scratch.SetTimer(context.Background(), key, 42); err != nil {
		t.Fatal(err)
	}

	s := h.start(t, model.KindQuiz)
	if got := s.Snapshot().RemainingSeconds; got != 42 {
		t.Errorf("remaining = %d, want restored 42", got)
	}
}

func TestStartRestoresQuizAnswersDroppingOutOfRange(t *testing.T) {
	h := newHarness(10, 5, 1)
	key := ScratchKey{UserID: 7, Kind: model.KindQuiz, Language: "Python"}
	ctx := context.Background()
	_ = h.scratch.SetAnswer(ctx, key, 2, "b")
	_ = h.scratch.SetAnswer(ctx, key, 9, "c") // Outside the drawn set of 5

	s := h.start(t, model.KindQuiz)
	answers := s.Snapshot().Answers
	if answers[2] != "b" {
		t.Errorf("answers[2] = %q, want restored %q", answers[2], "b")
	}
	if _, ok := answers[9]; ok {
		t.Error("out-of-range persisted answer should be dropped")
	}
}

// ─── Cursor movement ────────────────────────────────────────────────

func TestAdvanceAndRetreatStayInBounds(t *testing.T) {
	h := newHarness(10, 3, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()

	if err := s.Retreat(); err != nil {
		t.Fatalf("Retreat at 0: %v", err)
	}
	if got := s.Snapshot().CurrentIndex; got != 0 {
		t.Errorf("retreat at index 0 moved cursor to %d", got)
	}

	if err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := s.Retreat(); err != nil {
		t.Fatalf("Retreat: %v", err)
	}
	if got := s.Snapshot().CurrentIndex; got != 0 {
		t.Errorf("cursor = %d after advance+retreat, want 0", got)
	}
}

func TestAdvanceOnFinalQuestionSubmits(t *testing.T) {
	h := newHarness(10, 2, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()

	_ = s.Advance(ctx) // 0 → 1 (final)
	if err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance on final question: %v", err)
	}

	state := s.Snapshot()
	if state.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", state.Status)
	}
	if state.CurrentIndex != 1 {
		t.Errorf("cursor = %d, want to stay at final index", state.CurrentIndex)
	}
	if h.sink.count() != 1 {
		t.Errorf("result writes = %d, want 1", h.sink.count())
	}
}

// ─── Answering and scoring ──────────────────────────────────────────

func TestAnswerOverwritesAndValidatesIndex(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()

	if err := s.Answer(ctx, 0, "b"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if err := s.Answer(ctx, 0, "a"); err != nil {
		t.Fatalf("re-Answer: %v", err)
	}
	if got := s.Snapshot().Answers[0]; got != "a" {
		t.Errorf("answers[0] = %q, want overwritten %q", got, "a")
	}

	if err := s.Answer(ctx, 5, "a"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Answer(5) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.Answer(ctx, -1, "a"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Answer(-1) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSnapshotHidesCorrectAnswersUntilCompleted(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()

	for _, q := range s.Snapshot().Questions {
		if q.CorrectAnswer != "" {
			t.Fatalf("correct answer %q exposed while in progress", q.CorrectAnswer)
		}
	}

	if _, err := s.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for _, q := range s.Snapshot().Questions {
		if q.CorrectAnswer == "" {
			t.Error("correct answer missing after completion")
		}
	}
}

func TestScoreCountsOnlyCorrectAnswers(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()

	// 3 correct, 1 wrong, 1 unanswered.
	_ = s.Answer(ctx, 0, "a")
	_ = s.Answer(ctx, 1, "a")
	_ = s.Answer(ctx, 2, "a")
	_ = s.Answer(ctx, 3, "b")

	score, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if score != 3 {
		t.Errorf("score = %d, want 3", score)
	}

	result := h.sink.results[0]
	if result.CorrectCount != 3 || result.TotalCount != 5 {
		t.Errorf("result = %d/%d, want 3/5", result.CorrectCount, result.TotalCount)
	}
}

func TestTimeoutForcesSingleSubmission(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()

	_ = s.Answer(ctx, 0, "a")
	_ = s.Answer(ctx, 1, "a")
	_ = s.Answer(ctx, 2, "a")

	for i := 0; i < 60; i++ {
		s.Tick(ctx)
	}

	state := s.Snapshot()
	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed after timeout", state.Status)
	}
	if state.RemainingSeconds != 0 {
		t.Errorf("remaining = %d, want 0", state.RemainingSeconds)
	}
	if h.sink.count() != 1 {
		t.Errorf("result writes = %d, want exactly 1", h.sink.count())
	}
	if got := h.sink.results[0]; got.CorrectCount != 3 || got.TotalCount != 5 {
		t.Errorf("result = %d/%d, want 3/5", got.CorrectCount, got.TotalCount)
	}

	// Extra ticks after completion are no-ops.
	s.Tick(ctx)
	if h.sink.count() != 1 {
		t.Error("tick after completion wrote a second result")
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()
	_ = s.Answer(ctx, 0, "a")

	first, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if first != second {
		t.Errorf("scores differ across submits: %d vs %d", first, second)
	}
	if h.sink.count() != 1 {
		t.Errorf("result writes = %d, want 1", h.sink.count())
	}
}

func TestSubmitClearsScratchAndRecordsPlayedQuestions(t *testing.T) {
	h := newHarness(10, 2, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()
	_ = s.Answer(ctx, 0, "a")

	if _, err := s.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	key := ScratchKey{UserID: 7, Kind: model.KindQuiz, Language: "Python"}
	if _, ok, _ := h.scratch.Timer(ctx, key); ok {
		t.Error("timer fragment survived submission")
	}
	answers, _ := h.scratch.Answers(ctx, key)
	if len(answers) != 0 {
		t.Error("answer fragments survived submission")
	}

	result := h.sink.results[0]
	if len(result.PlayedQuestions) != 2 {
		t.Fatalf("played questions = %d, want 2", len(result.PlayedQuestions))
	}
	if result.PlayedQuestions[0].Selected != "a" {
		t.Errorf("played[0].selected = %q, want %q", result.PlayedQuestions[0].Selected, "a")
	}
	if result.PlayedQuestions[1].Selected != "" {
		t.Errorf("played[1].selected = %q, want empty for unanswered", result.PlayedQuestions[1].Selected)
	}
}

func TestMockSubmitOmitsPlayedQuestions(t *testing.T) {
	h := newHarness(10, 2, 1)
	s := h.start(t, model.KindMock)

	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := h.sink.results[0].PlayedQuestions; got != nil {
		t.Errorf("mock result carries %d played questions, want none", len(got))
	}
}

func TestSinkFailureKeepsScoreAndState(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()
	_ = s.Answer(ctx, 0, "a")
	h.sink.err = errors.New("database down")

	score, err := s.Submit(ctx)
	if !errors.Is(err, ErrResultNotSaved) {
		t.Fatalf("Submit error = %v, want ErrResultNotSaved", err)
	}
	if score != 1 {
		t.Errorf("score = %d, want 1 despite sink failure", score)
	}
	if s.Status() != StatusCompleted {
		t.Errorf("status = %s, want completed despite sink failure", s.Status())
	}

	// The idempotent completed state does not retry the write.
	if again, err := s.Submit(ctx); err != nil || again != 1 {
		t.Errorf("second Submit = (%d, %v), want (1, nil)", again, err)
	}
}

// ─── Quit ───────────────────────────────────────────────────────────

func TestQuitClearsScratchWithoutResult(t *testing.T) {
	h := newHarness(10, 5, 1)
	s := h.start(t, model.KindQuiz)
	ctx := context.Background()
	_ = s.Answer(ctx, 0, "a")

	if err := s.Quit(ctx); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if h.sink.count() != 0 {
		t.Errorf("quit wrote %d results, want 0", h.sink.count())
	}
	key := ScratchKey{UserID: 7, Kind: model.KindQuiz, Language: "Python"}
	if _, ok, _ := h.scratch.Timer(ctx, key); ok {
		t.Error("timer fragment survived quit")
	}
}

// ─── Mock lock ──────────────────────────────────────────────────────

func TestMockPerfectScoreLocksLanguage(t *testing.T) {
	h := newHarness(10, 3, 1)
	s := h.start(t, model.KindMock)
	ctx := context.Background()

	_ = s.Answer(ctx, 0, "a")
	_ = s.Answer(ctx, 1, "a")
	_ = s.Answer(ctx, 2, "a")
	score, err := s.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if score != 3 {
		t.Fatalf("score = %d, want perfect 3", score)
	}

	// A new session for the same language opens locked with a timestamp.
	next := newSession(7, model.KindMock, "Python", h.deps())
	if err := next.Start(ctx); err != nil {
		t.Fatalf("Start after perfect score: %v", err)
	}
	state := next.Snapshot()
	if state.Status != StatusLocked {
		t.Errorf("status = %s, want locked", state.Status)
	}
	if state.LockedAt == nil {
		t.Error("locked session has no completion timestamp")
	}
	if len(state.Questions) != 0 {
		t.Error("locked session should skip question loading")
	}

	if err := next.Answer(ctx, 0, "a"); !errors.Is(err, ErrLocked) {
		t.Errorf("Answer on locked session error = %v, want ErrLocked", err)
	}
	if _, err := next.Submit(ctx); !errors.Is(err, ErrLocked) {
		t.Errorf("Submit on locked session error = %v, want ErrLocked", err)
	}
}

func TestMockImperfectScoreDoesNotLock(t *testing.T) {
	h := newHarness(10, 3, 1)
	s := h.start(t, model.KindMock)
	ctx := context.Background()

	_ = s.Answer(ctx, 0, "a")
	if _, err := s.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	next := newSession(7, model.KindMock, "Python", h.deps())
	if err := next.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if next.Status() != StatusInProgress {
		t.Errorf("status = %s, want in-progress after imperfect score", next.Status())
	}
}

// ─── Background timer ───────────────────────────────────────────────

func TestBackgroundTimerStopsOnSubmit(t *testing.T) {
	h := newHarness(10, 2, 1)
	deps := h.deps()
	deps.TickInterval = time.Millisecond
	s := newSession(7, model.KindQuiz, "Python", deps)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Give any stale ticker time to misfire, then verify single write.
	time.Sleep(20 * time.Millisecond)
	if h.sink.count() != 1 {
		t.Errorf("result writes = %d, want 1 after timer stop", h.sink.count())
	}
}
