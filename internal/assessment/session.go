package assessment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// Status enumerates assessment session states.
type Status string

const (
	StatusLoading    Status = "loading"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusLocked     Status = "locked"
)

// Domain Errors
var (
	ErrPoolEmpty       = errors.New("question pool is empty for this language")
	ErrCardMissing     = errors.New("no card configured for this language")
	ErrLocked          = errors.New("mock test is locked after a perfect score")
	ErrNotInProgress   = errors.New("session is not in progress")
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrResultNotSaved wraps a sink failure. The completed state and the
	// score stand; the caller surfaces this as a recoverable warning.
	ErrResultNotSaved = errors.New("result could not be persisted")
)

// PoolProvider fetches the full question pool for a language. Consumed once
// per session creation.
type PoolProvider interface {
	FetchQuestions(ctx context.Context, kind model.AssessmentKind, language string) ([]model.Question, error)
}

// CardProvider fetches the admin-configured (questionCount, durationMinutes)
// pair for a language. Consumed once per session creation.
type CardProvider interface {
	FetchCard(ctx context.Context, kind model.AssessmentKind, language string) (*model.Card, error)
}

// ResultSink receives exactly one persisted result per completed session.
type ResultSink interface {
	SubmitResult(ctx context.Context, result *model.Result) error
}

// CompletionRegistry tracks permanent mock-test completions (quiz sessions
// never consult it).
type CompletionRegistry interface {
	Status(ctx context.Context, userID int, language string) (*model.MockStatus, error)
	MarkCompleted(ctx context.Context, userID int, language string) error
}

// Deps bundles the collaborators a Session needs. TickInterval defaults to
// one second; tests drive Tick directly and leave the timer stopped.
type Deps struct {
	Pool        PoolProvider
	Cards       CardProvider
	Sink        ResultSink
	Completions CompletionRegistry
	Scratch     Scratch
	Log         zerolog.Logger
	// TickInterval < 0 disables the background timer (tests call Tick).
	TickInterval time.Duration
	// Rand overrides the shuffle source for deterministic tests.
	Rand *rand.Rand
}

// Session is one user's timed assessment run for one language. All state is
// owned by the session; the one-second countdown is a goroutine owned by the
// session and cancelled on every exit path (submit, timeout, quit, detach).
type Session struct {
	mu sync.Mutex

	userID   int
	kind     model.AssessmentKind
	language string

	questions []model.Question
	current   int
	answers   map[int]string
	remaining int
	status    Status
	score     int

	// lockedAt is set only when the session opens into StatusLocked.
	lockedAt *time.Time

	deps   Deps
	log    zerolog.Logger
	onExit func()

	stop     chan struct{}
	stopOnce sync.Once
}

// State is an immutable snapshot of a session, safe to serialize.
type State struct {
	Kind             model.AssessmentKind `json:"kind"`
	Language         string               `json:"language"`
	Status           Status               `json:"status"`
	Questions        []model.Question     `json:"questions,omitempty"`
	CurrentIndex     int                  `json:"current_index"`
	Answers          map[int]string       `json:"answers"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Score            int                  `json:"score"`
	Total            int                  `json:"total"`
	LockedAt         *time.Time           `json:"locked_at,omitempty"`
}

// newSession builds a session in StatusLoading. Callers use Start to load it.
func newSession(userID int, kind model.AssessmentKind, language string, deps Deps) *Session {
	return &Session{
		userID:   userID,
		kind:     kind,
		language: language,
		answers:  make(map[int]string),
		status:   StatusLoading,
		deps:     deps,
		log: deps.Log.With().
			Str("component", "assessment_session").
			Int("user_id", userID).
			Str("kind", string(kind)).
			Str("language", language).
			Logger(),
		stop: make(chan struct{}),
	}
}

func (s *Session) key() ScratchKey {
	return ScratchKey{UserID: s.userID, Kind: s.kind, Language: s.language}
}

// Start loads the session: it consults the completion registry (mock only),
// fetches the card and the pool, draws the question set, and restores any
// resumable countdown/answer fragments. On success the session transitions
// loading → in-progress and the countdown begins. On failure the session
// stays in loading and the error is surfaced — it never silently enters
// in-progress with an empty set.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusLoading {
		return fmt.Errorf("start from %s: %w", s.status, ErrNotInProgress)
	}

	// Mock variant: a prior perfect score locks the language permanently and
	// skips question loading entirely.
	if s.kind == model.KindMock {
		st, err := s.deps.Completions.Status(ctx, s.userID, s.language)
		if err != nil {
			return fmt.Errorf("check completion: %w", err)
		}
		if st.Disable {
			s.status = StatusLocked
			s.lockedAt = st.Date
			return nil
		}
	}

	card, err := s.deps.Cards.FetchCard(ctx, s.kind, s.language)
	if err != nil {
		return fmt.Errorf("fetch card: %w", err)
	}
	if card == nil {
		return ErrCardMissing
	}

	pool, err := s.deps.Pool.FetchQuestions(ctx, s.kind, s.language)
	if err != nil {
		return fmt.Errorf("fetch questions: %w", err)
	}
	if len(pool) == 0 {
		return ErrPoolEmpty
	}

	// Draw by shuffling a copy of the pool and taking a prefix: no question
	// repeats within one session. A pool smaller than the requested count is
	// clamped to the pool size.
	count := card.QuestionCount
	if count > len(pool) {
		s.log.Warn().
			Int("requested", count).
			Int("pool", len(pool)).
			Msg("Question count exceeds pool size, clamping")
		count = len(pool)
	}
	drawn := make([]model.Question, len(pool))
	copy(drawn, pool)
	s.shuffle(drawn)
	s.questions = drawn[:count]

	// A persisted countdown value wins over a fresh duration. The persisted
	// value is authoritative; no reconciliation against wall-clock elapsed
	// time is attempted.
	s.remaining = card.DurationMinutes * 60
	if saved, ok, err := s.deps.Scratch.Timer(ctx, s.key()); err != nil {
		return fmt.Errorf("restore timer: %w", err)
	} else if ok {
		s.remaining = saved
	}

	// Quiz variant: restore in-progress answers. Indices outside the freshly
	// drawn set are dropped (the pool may have been edited since the reload).
	if s.kind == model.KindQuiz {
		saved, err := s.deps.Scratch.Answers(ctx, s.key())
		if err != nil {
			return fmt.Errorf("restore answers: %w", err)
		}
		for idx, option := range saved {
			if idx >= 0 && idx < len(s.questions) {
				s.answers[idx] = option
			}
		}
	}

	s.status = StatusInProgress
	if err := s.deps.Scratch.SetTimer(ctx, s.key(), s.remaining); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist initial timer")
	}

	interval := s.deps.TickInterval
	if interval == 0 {
		interval = time.Second
	}
	if interval > 0 {
		go s.run(interval)
	}

	s.log.Info().
		Int("questions", len(s.questions)).
		Int("remaining_seconds", s.remaining).
		Msg("Session started")
	return nil
}

// run is the per-session countdown loop. It is the only recurring scheduled
// operation a session owns and is cancelled on every exit path.
func (s *Session) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Tick(context.Background())
		}
	}
}

// stopTimer cancels the countdown goroutine. Idempotent.
func (s *Session) stopTimer() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Tick decrements the countdown by one second. Reaching zero forces a
// submission exactly once, regardless of answer completeness.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return
	}

	s.remaining--
	if s.remaining > 0 {
		if err := s.deps.Scratch.SetTimer(ctx, s.key(), s.remaining); err != nil {
			s.log.Warn().Err(err).Msg("Failed to persist timer tick")
		}
		s.mu.Unlock()
		return
	}

	s.remaining = 0
	s.mu.Unlock()

	if _, err := s.Submit(ctx); err != nil && !errors.Is(err, ErrResultNotSaved) {
		s.log.Error().Err(err).Msg("Forced submission on timeout failed")
	}
}

// Answer records the selected option for a question index, overwriting any
// prior selection. The quiz variant persists the answer immediately so it
// survives a reload; the mock variant keeps it in memory only.
func (s *Session) Answer(ctx context.Context, index int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusLocked {
		return ErrLocked
	}
	if s.status != StatusInProgress {
		return ErrNotInProgress
	}
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}

	s.answers[index] = option

	if s.kind == model.KindQuiz {
		if err := s.deps.Scratch.SetAnswer(ctx, s.key(), index, option); err != nil {
			s.log.Warn().Err(err).Int("index", index).Msg("Failed to persist answer")
		}
	}
	return nil
}

// Advance moves the cursor forward. On the final question it submits instead
// of stepping out of bounds.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	if s.status == StatusLocked {
		s.mu.Unlock()
		return ErrLocked
	}
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	if s.current+1 < len(s.questions) {
		s.current++
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err := s.Submit(ctx)
	return err
}

// Retreat moves the cursor backward. A no-op at index zero.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return ErrNotInProgress
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// Submit scores the session, clears the scratch fragments, and emits the
// persisted result exactly once. A second call is a no-op returning the same
// score. A sink failure keeps the completed state and score and is reported
// as ErrResultNotSaved.
func (s *Session) Submit(ctx context.Context) (int, error) {
	s.mu.Lock()

	if s.status == StatusCompleted {
		score := s.score
		s.mu.Unlock()
		return score, nil
	}
	if s.status == StatusLocked {
		s.mu.Unlock()
		return 0, ErrLocked
	}
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return 0, ErrNotInProgress
	}

	// The completed transition happens before any I/O so a tick firing while
	// the sink call is in flight cannot trigger a second submission.
	s.status = StatusCompleted
	s.stopTimer()

	score := 0
	for i, q := range s.questions {
		if option, ok := s.answers[i]; ok && option == q.CorrectAnswer {
			score++
		}
	}
	s.score = score
	total := len(s.questions)

	result := &model.Result{
		UserID:       s.userID,
		Kind:         s.kind,
		Language:     s.language,
		CorrectCount: score,
		TotalCount:   total,
		PlayedAt:     time.Now(),
	}
	if s.kind == model.KindQuiz {
		result.PlayedQuestions = make([]model.PlayedQuestion, total)
		for i, q := range s.questions {
			result.PlayedQuestions[i] = model.PlayedQuestion{
				QuestionText:  q.QuestionText,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Selected:      s.answers[i],
			}
		}
	}
	s.mu.Unlock()

	if s.onExit != nil {
		s.onExit()
	}

	if err := s.deps.Scratch.Clear(ctx, s.key()); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear scratch storage")
	}

	// Mock variant: a perfect score locks the language permanently. The
	// registry upsert is idempotent.
	if s.kind == model.KindMock && score == total {
		if err := s.deps.Completions.MarkCompleted(ctx, s.userID, s.language); err != nil {
			s.log.Error().Err(err).Msg("Failed to record mock completion")
		}
	}

	if err := s.deps.Sink.SubmitResult(ctx, result); err != nil {
		s.log.Error().Err(err).Int("score", score).Msg("Result sink failed")
		return score, fmt.Errorf("%w: %v", ErrResultNotSaved, err)
	}

	s.log.Info().Int("score", score).Int("total", total).Msg("Session submitted")
	return score, nil
}

// Quit abandons the session: the countdown stops and all scratch fragments
// are cleared, but no result is written.
func (s *Session) Quit(ctx context.Context) error {
	s.mu.Lock()
	if s.status == StatusCompleted {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusCompleted
	s.stopTimer()
	s.mu.Unlock()

	if s.onExit != nil {
		s.onExit()
	}
	return s.deps.Scratch.Clear(ctx, s.key())
}

// Detach stops the countdown without clearing scratch storage. Used on page
// teardown so the timer and (quiz) answers survive for a later resume.
func (s *Session) Detach() {
	s.stopTimer()
	if s.onExit != nil {
		s.onExit()
	}
}

// Snapshot returns an immutable view of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[int]string, len(s.answers))
	for idx, option := range s.answers {
		answers[idx] = option
	}
	questions := make([]model.Question, len(s.questions))
	copy(questions, s.questions)
	if s.status != StatusCompleted {
		// Answers are scored server side. The client only learns the
		// correct options once the session is over.
		for i := range questions {
			questions[i].CorrectAnswer = ""
		}
	}

	return State{
		Kind:             s.kind,
		Language:         s.language,
		Status:           s.status,
		Questions:        questions,
		CurrentIndex:     s.current,
		Answers:          answers,
		RemainingSeconds: s.remaining,
		Score:            s.score,
		Total:            len(s.questions),
		LockedAt:         s.lockedAt,
	}
}

// Status returns the current session status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) shuffle(qs []model.Question) {
	swap := func(i, j int) { qs[i], qs[j] = qs[j], qs[i] }
	if s.deps.Rand != nil {
		s.deps.Rand.Shuffle(len(qs), swap)
		return
	}
	rand.Shuffle(len(qs), swap)
}
