package learnify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttemptStore struct {
	attempts  map[string]*QuizAttempt // quizID|studentID
	createErr error
	creates   int
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: make(map[string]*QuizAttempt)}
}

func (f *fakeAttemptStore) AttemptForQuizAndStudent(quizID, studentID string) (*QuizAttempt, error) {
	attempt, ok := f.attempts[quizID+"|"+studentID]
	if !ok {
		return nil, ErrNotFound
	}
	return attempt, nil
}

func (f *fakeAttemptStore) CreateAttempt(attempt *QuizAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	f.attempts[attempt.QuizID+"|"+attempt.StudentID] = attempt
	return nil
}

func fourQuestionQuiz() *Quiz {
	return &Quiz{
		ID:    "quiz-1",
		Title: "Algebra Basics",
		Questions: []Question{
			{ID: "q1", Text: "2 + 2?", Options: []string{"3", "4", "5"}, CorrectAnswer: "4"},
			{ID: "q2", Text: "3 * 3?", Options: []string{"6", "9", "12"}, CorrectAnswer: "9"},
			{ID: "q3", Text: "10 / 2?", Options: []string{"4", "5", "6"}, CorrectAnswer: "5"},
			{ID: "q4", Text: "7 - 3?", Options: []string{"3", "4", "5"}, CorrectAnswer: "4"},
		},
	}
}

func TestScore(t *testing.T) {
	quiz := fourQuestionQuiz()

	tests := []struct {
		name    string
		answers map[string]string
		want    float64
	}{
		{
			name:    "all correct",
			answers: map[string]string{"q1": "4", "q2": "9", "q3": "5", "q4": "4"},
			want:    100,
		},
		{
			name:    "half correct",
			answers: map[string]string{"q1": "4", "q2": "9", "q3": "6", "q4": "3"},
			want:    50,
		},
		{
			name:    "unanswered questions count as incorrect",
			answers: map[string]string{"q1": "4"},
			want:    25,
		},
		{
			name:    "no answers",
			answers: map[string]string{},
			want:    0,
		},
		{
			name:    "option not in the question scores as incorrect",
			answers: map[string]string{"q1": "42", "q2": "9", "q3": "5", "q4": "4"},
			want:    75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(quiz, tt.answers), 0.0001)
		})
	}
}

func TestScoreUnrounded(t *testing.T) {
	quiz := &Quiz{
		ID: "quiz-3q",
		Questions: []Question{
			{ID: "q1", Text: "a", Options: []string{"x", "y"}, CorrectAnswer: "x"},
			{ID: "q2", Text: "b", Options: []string{"x", "y"}, CorrectAnswer: "x"},
			{ID: "q3", Text: "c", Options: []string{"x", "y"}, CorrectAnswer: "x"},
		},
	}
	got := Score(quiz, map[string]string{"q1": "x"})
	assert.InDelta(t, 100.0/3.0, got, 0.0001)
}

func TestStartRejectsEmptyQuiz(t *testing.T) {
	engine := NewAttemptEngine(newFakeAttemptStore())

	_, err := engine.Start(&Quiz{ID: "empty"}, "student-1")
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = engine.Start(nil, "student-1")
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestStartRejectsSecondAttempt(t *testing.T) {
	store := newFakeAttemptStore()
	engine := NewAttemptEngine(store)
	quiz := fourQuestionQuiz()

	session, err := engine.Start(quiz, "student-1")
	require.NoError(t, err)
	_, err = session.Submit()
	require.NoError(t, err)

	_, err = engine.Start(quiz, "student-1")
	assert.ErrorIs(t, err, ErrAlreadyAttempted)

	// A different student is unaffected.
	_, err = engine.Start(quiz, "student-2")
	assert.NoError(t, err)
}

func TestStartRejectsPastDue(t *testing.T) {
	engine := NewAttemptEngine(newFakeAttemptStore())
	engine.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	quiz := fourQuestionQuiz()
	quiz.DueDate = &due

	_, err := engine.Start(quiz, "student-1")
	assert.ErrorIs(t, err, ErrPastDue)

	due = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err = engine.Start(quiz, "student-1")
	assert.NoError(t, err)
}

func TestSessionNavigationClamps(t *testing.T) {
	engine := NewAttemptEngine(newFakeAttemptStore())
	session, err := engine.Start(fourQuestionQuiz(), "student-1")
	require.NoError(t, err)

	assert.Equal(t, 0, session.Cursor())
	session.Retreat()
	assert.Equal(t, 0, session.Cursor(), "retreat on first question is a no-op")

	for i := 0; i < 10; i++ {
		session.Advance()
	}
	assert.Equal(t, 3, session.Cursor(), "advance on last question is a no-op")

	session.Retreat()
	assert.Equal(t, 2, session.Cursor())
	assert.Equal(t, "q3", session.CurrentQuestion().ID)
}

func TestSelectAnswerOverwrites(t *testing.T) {
	engine := NewAttemptEngine(newFakeAttemptStore())
	session, err := engine.Start(fourQuestionQuiz(), "student-1")
	require.NoError(t, err)

	session.SelectAnswer("q1", "3")
	session.SelectAnswer("q1", "4")

	answer, ok := session.Answer("q1")
	assert.True(t, ok)
	assert.Equal(t, "4", answer)

	_, ok = session.Answer("q2")
	assert.False(t, ok)
}

func TestSubmitIsIdempotent(t *testing.T) {
	store := newFakeAttemptStore()
	engine := NewAttemptEngine(store)
	session, err := engine.Start(fourQuestionQuiz(), "student-1")
	require.NoError(t, err)

	session.SelectAnswer("q1", "4")
	session.SelectAnswer("q2", "9")

	first, err := session.Submit()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, first.Score, 0.0001)

	// Late answers after submission are ignored.
	session.SelectAnswer("q3", "5")

	second, err := session.Submit()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.creates, "only one attempt may be persisted")
}

func TestSubmitRecordsAnswersSnapshot(t *testing.T) {
	store := newFakeAttemptStore()
	engine := NewAttemptEngine(store)
	engine.now = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }

	session, err := engine.Start(fourQuestionQuiz(), "student-1")
	require.NoError(t, err)
	session.SelectAnswer("q1", "4")

	attempt, err := session.Submit()
	require.NoError(t, err)

	assert.Equal(t, "quiz-1", attempt.QuizID)
	assert.Equal(t, "student-1", attempt.StudentID)
	assert.Equal(t, map[string]string{"q1": "4"}, attempt.Answers)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), attempt.SubmittedAt)
	assert.NotEmpty(t, attempt.ID)
}

func TestTickCountsDown(t *testing.T) {
	engine := NewAttemptEngine(newFakeAttemptStore())
	quiz := fourQuestionQuiz()
	quiz.Timer = 1

	session, err := engine.Start(quiz, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 60, session.Remaining())

	expired, err := session.Tick()
	require.NoError(t, err)
	assert.False(t, expired)
	assert.Equal(t, 59, session.Remaining())
}

func TestTickAutoSubmitsAtZero(t *testing.T) {
	store := newFakeAttemptStore()
	engine := NewAttemptEngine(store)
	quiz := fourQuestionQuiz()
	quiz.Timer = 1

	session, err := engine.Start(quiz, "student-1")
	require.NoError(t, err)
	session.SelectAnswer("q1", "4")

	var expired bool
	for i := 0; i < 60; i++ {
		expired, err = session.Tick()
		require.NoError(t, err)
	}
	assert.True(t, expired, "the tick that reaches zero reports expiry")
	assert.True(t, session.Submitted())
	assert.Equal(t, 0, session.Remaining())
	assert.Equal(t, 1, store.creates)

	// Further ticks never drive remaining negative or submit again.
	expired, err = session.Tick()
	require.NoError(t, err)
	assert.False(t, expired)
	assert.Equal(t, 0, session.Remaining())
	assert.Equal(t, 1, store.creates)

	// A manual submit after expiry returns the recorded attempt.
	attempt, err := session.Submit()
	require.NoError(t, err)
	assert.InDelta(t, 25.0, attempt.Score, 0.0001)
	assert.Equal(t, 1, store.creates)
}

func TestTickIgnoredWhenUntimed(t *testing.T) {
	engine := NewAttemptEngine(newFakeAttemptStore())
	session, err := engine.Start(fourQuestionQuiz(), "student-1")
	require.NoError(t, err)

	assert.Equal(t, -1, session.Remaining())
	expired, err := session.Tick()
	require.NoError(t, err)
	assert.False(t, expired)
	assert.False(t, session.Submitted())
}

func TestSubmitAfterTimerStillIdempotent(t *testing.T) {
	store := newFakeAttemptStore()
	engine := NewAttemptEngine(store)
	quiz := fourQuestionQuiz()
	quiz.Timer = 1

	session, err := engine.Start(quiz, "student-1")
	require.NoError(t, err)

	first, err := session.Submit()
	require.NoError(t, err)

	// A timer firing after a manual submit is a no-op.
	expired, err := session.Tick()
	require.NoError(t, err)
	assert.False(t, expired)

	second, err := session.Submit()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.creates)
}
