package learnify

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// AttemptStore is the slice of the persistence adapter the attempt
// engine needs.
type AttemptStore interface {
	AttemptForQuizAndStudent(quizID, studentID string) (*QuizAttempt, error)
	CreateAttempt(attempt *QuizAttempt) error
}

// AttemptEngine drives students through quizzes and produces terminal,
// scored attempts.
type AttemptEngine struct {
	store AttemptStore
	now   func() time.Time
}

// NewAttemptEngine creates an attempt engine backed by the given store.
func NewAttemptEngine(store AttemptStore) *AttemptEngine {
	return &AttemptEngine{store: store, now: time.Now}
}

// Start begins a new attempt session for the student.
//
// Fails with ErrAlreadyAttempted when an attempt for (quiz, student)
// already exists; the caller should redirect to the existing result.
// Fails with ErrPastDue when the quiz's due date has passed. A quiz
// without questions can never be started (ErrNoQuestions).
func (e *AttemptEngine) Start(quiz *Quiz, studentID string) (*AttemptSession, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	prior, err := e.store.AttemptForQuizAndStudent(quiz.ID, studentID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up prior attempt: %w", err)
	}
	if prior != nil {
		return nil, ErrAlreadyAttempted
	}

	if quiz.DueDate != nil && quiz.DueDate.Before(e.now()) {
		return nil, ErrPastDue
	}

	session := &AttemptSession{
		engine:    e,
		quiz:      quiz,
		studentID: studentID,
		answers:   make(map[string]string),
	}
	if quiz.Timer > 0 {
		session.timed = true
		session.remaining = quiz.Timer * 60
	}
	return session, nil
}

// AttemptSession is an in-progress run through a quiz: a cursor over
// the quiz's questions, a mutable answer map and an optional countdown.
// The mutex covers the race between the ticking timer and a manual
// submit; whichever fires first wins and the loser is a no-op.
type AttemptSession struct {
	mu        sync.Mutex
	engine    *AttemptEngine
	quiz      *Quiz
	studentID string

	cursor    int
	answers   map[string]string
	timed     bool
	remaining int // seconds
	submitted bool
	result    *QuizAttempt
}

// Quiz returns the quiz being attempted.
func (s *AttemptSession) Quiz() *Quiz { return s.quiz }

// Cursor returns the current question index, always in [0, N-1].
func (s *AttemptSession) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// CurrentQuestion returns the question under the cursor.
func (s *AttemptSession) CurrentQuestion() Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Questions[s.cursor]
}

// SelectAnswer records the chosen option for a question, overwriting
// any prior choice. The option is deliberately not validated against
// the question's option list; scoring treats an unknown value as
// incorrect.
func (s *AttemptSession) SelectAnswer(questionID, option string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return
	}
	s.answers[questionID] = option
}

// Answer returns the recorded choice for a question, if any.
func (s *AttemptSession) Answer(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	option, ok := s.answers[questionID]
	return option, ok
}

// Advance moves the cursor to the next question, a no-op on the last.
func (s *AttemptSession) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < len(s.quiz.Questions)-1 {
		s.cursor++
	}
}

// Retreat moves the cursor to the previous question, a no-op on the
// first.
func (s *AttemptSession) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor > 0 {
		s.cursor--
	}
}

// Remaining returns the seconds left on the countdown, or -1 for an
// untimed quiz.
func (s *AttemptSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timed {
		return -1
	}
	return s.remaining
}

// Submitted reports whether the session has reached its terminal state.
func (s *AttemptSession) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Tick advances the countdown by one second. Remaining time never goes
// below zero. When it reaches zero the session is submitted
// automatically, exactly once, and Tick reports expired=true so the
// caller can explain the forced submission. Untimed or already
// submitted sessions ignore ticks.
func (s *AttemptSession) Tick() (expired bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timed || s.submitted {
		return false, nil
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return false, nil
	}
	if _, err := s.submitLocked(); err != nil {
		return true, err
	}
	return true, nil
}

// Submit finishes the attempt: scores the answers, persists a new
// QuizAttempt and returns it. A second call is a no-op that returns the
// already-recorded attempt. Timer-triggered submission uses the same
// path and is not cancellable.
func (s *AttemptSession) Submit() (*QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked()
}

func (s *AttemptSession) submitLocked() (*QuizAttempt, error) {
	if s.submitted {
		return s.result, nil
	}

	answers := make(map[string]string, len(s.answers))
	for id, option := range s.answers {
		answers[id] = option
	}

	attempt := &QuizAttempt{
		ID:          NewID(),
		QuizID:      s.quiz.ID,
		StudentID:   s.studentID,
		Answers:     answers,
		Score:       Score(s.quiz, answers),
		SubmittedAt: s.engine.now(),
	}
	if err := s.engine.store.CreateAttempt(attempt); err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	s.submitted = true
	s.result = attempt
	return attempt, nil
}

// Score computes the percentage of correctly answered questions, a
// float in [0,100]. Unanswered questions count as incorrect; the value
// is not rounded, presentation rounds for display.
func Score(quiz *Quiz, answers map[string]string) float64 {
	correct := 0
	for _, q := range quiz.Questions {
		if answers[q.ID] == q.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(len(quiz.Questions)) * 100
}
