package learnify

import (
	"fmt"
	"time"
)

// QuizStore is the slice of the persistence adapter quiz management
// needs.
type QuizStore interface {
	Quiz(id string) (*Quiz, error)
	CreateQuiz(quiz *Quiz) error
	UpdateQuiz(quiz *Quiz) error
	DeleteQuiz(id string) error
	ListQuizzes(filter QuizFilter) ([]Quiz, error)
}

// QuizService owns quiz authoring: creation, edits and deletion, all
// restricted to the owning teacher.
type QuizService struct {
	store QuizStore
}

// NewQuizService creates a quiz service backed by the given store.
func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{store: store}
}

// NewQuizInput carries the authoring form for a quiz.
type NewQuizInput struct {
	Title       string
	Subject     string
	SkillLevel  SkillLevel
	Questions   []Question
	Timer       int // minutes, 0 = untimed
	ClassroomID string
	DueDate     *time.Time
}

// Create validates and stores a new quiz owned by the teacher. Question
// ids are assigned here when the form leaves them blank.
func (qs *QuizService) Create(teacherID string, input NewQuizInput) (*Quiz, error) {
	quiz := &Quiz{
		ID:          NewID(),
		Title:       input.Title,
		Subject:     input.Subject,
		SkillLevel:  input.SkillLevel,
		CreatedBy:   teacherID,
		Questions:   input.Questions,
		Timer:       input.Timer,
		ClassroomID: input.ClassroomID,
		DueDate:     input.DueDate,
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = NewID()
		}
	}
	if err := ValidateQuiz(quiz); err != nil {
		return nil, err
	}
	if err := qs.store.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Update overwrites a quiz the teacher owns.
func (qs *QuizService) Update(teacherID string, quiz *Quiz) error {
	existing, err := qs.store.Quiz(quiz.ID)
	if err != nil {
		return err
	}
	if existing.CreatedBy != teacherID {
		return fmt.Errorf("quiz %s is not owned by teacher %s: %w", quiz.ID, teacherID, ErrNotFound)
	}
	quiz.CreatedBy = existing.CreatedBy
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = NewID()
		}
	}
	if err := ValidateQuiz(quiz); err != nil {
		return err
	}
	return qs.store.UpdateQuiz(quiz)
}

// Delete removes a quiz the teacher owns.
func (qs *QuizService) Delete(teacherID, quizID string) error {
	existing, err := qs.store.Quiz(quizID)
	if err != nil {
		return err
	}
	if existing.CreatedBy != teacherID {
		return fmt.Errorf("quiz %s is not owned by teacher %s: %w", quizID, teacherID, ErrNotFound)
	}
	return qs.store.DeleteQuiz(quizID)
}

// ValidateQuiz checks the structural invariants: at least one question,
// each with at least two options and a correct answer drawn from them.
func ValidateQuiz(quiz *Quiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("quiz title is required")
	}
	if len(quiz.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range quiz.Questions {
		if err := ValidateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateQuestion checks a single question's invariants.
func ValidateQuestion(q Question) error {
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question needs at least two options, got %d", len(q.Options))
	}
	for _, option := range q.Options {
		if option == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("correct answer %q is not one of the options", q.CorrectAnswer)
}
