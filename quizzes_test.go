package learnify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuizStore struct {
	quizzes map[string]*Quiz
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: make(map[string]*Quiz)}
}

func (f *fakeQuizStore) Quiz(id string) (*Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return quiz, nil
}

func (f *fakeQuizStore) CreateQuiz(quiz *Quiz) error {
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizStore) UpdateQuiz(quiz *Quiz) error {
	if _, ok := f.quizzes[quiz.ID]; !ok {
		return ErrNotFound
	}
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizStore) DeleteQuiz(id string) error {
	delete(f.quizzes, id)
	return nil
}

func (f *fakeQuizStore) ListQuizzes(filter QuizFilter) ([]Quiz, error) {
	var out []Quiz
	for _, quiz := range f.quizzes {
		out = append(out, *quiz)
	}
	return out, nil
}

func validInput() NewQuizInput {
	return NewQuizInput{
		Title:      "Fractions",
		Subject:    "Math",
		SkillLevel: SkillBeginner,
		Questions: []Question{
			{Text: "1/2 + 1/2?", Options: []string{"1", "2"}, CorrectAnswer: "1"},
		},
	}
}

func TestQuizServiceCreate(t *testing.T) {
	store := newFakeQuizStore()
	service := NewQuizService(store)

	quiz, err := service.Create("teacher-1", validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, "teacher-1", quiz.CreatedBy)
	assert.NotEmpty(t, quiz.Questions[0].ID, "blank question ids are assigned")

	stored, err := store.Quiz(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz, stored)
}

func TestQuizServiceCreateValidates(t *testing.T) {
	service := NewQuizService(newFakeQuizStore())

	tests := []struct {
		name   string
		mutate func(*NewQuizInput)
	}{
		{"missing title", func(in *NewQuizInput) { in.Title = "" }},
		{"no questions", func(in *NewQuizInput) { in.Questions = nil }},
		{"question without text", func(in *NewQuizInput) { in.Questions[0].Text = "" }},
		{"single option", func(in *NewQuizInput) { in.Questions[0].Options = []string{"1"} }},
		{"correct answer not among options", func(in *NewQuizInput) { in.Questions[0].CorrectAnswer = "7" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := service.Create("teacher-1", input)
			assert.Error(t, err)
		})
	}
}

func TestQuizServiceUpdateChecksOwnership(t *testing.T) {
	store := newFakeQuizStore()
	service := NewQuizService(store)

	quiz, err := service.Create("teacher-1", validInput())
	require.NoError(t, err)

	quiz.Title = "Fractions, revised"
	assert.NoError(t, service.Update("teacher-1", quiz))

	err = service.Update("teacher-2", quiz)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizServiceDeleteChecksOwnership(t *testing.T) {
	store := newFakeQuizStore()
	service := NewQuizService(store)

	quiz, err := service.Create("teacher-1", validInput())
	require.NoError(t, err)

	err = service.Delete("teacher-2", quiz.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Quiz(quiz.ID)
	assert.NoError(t, err, "quiz survives the rejected delete")

	assert.NoError(t, service.Delete("teacher-1", quiz.ID))
	_, err = store.Quiz(quiz.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateQuestion(t *testing.T) {
	ok := Question{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"}
	assert.NoError(t, ValidateQuestion(ok))

	bad := ok
	bad.CorrectAnswer = "5"
	assert.Error(t, ValidateQuestion(bad))
}
