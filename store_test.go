package learnify

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "learnify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenStoreSeedsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnify.db")

	store, err := OpenStore(path)
	require.NoError(t, err)

	student, err := store.UserByEmail("student@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, student.Role)

	teacher, err := store.UserByEmail("teacher@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, teacher.Role)

	quizzes, err := store.ListQuizzes(QuizFilter{})
	require.NoError(t, err)
	assert.Len(t, quizzes, 4)
	require.NoError(t, store.Close())

	// Reopening must not seed again or disturb existing data.
	store, err = OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	quizzes, err = store.ListQuizzes(QuizFilter{})
	require.NoError(t, err)
	assert.Len(t, quizzes, 4)
}

func TestStoreUsers(t *testing.T) {
	store := testStore(t)

	user := &User{ID: NewID(), Email: "amy@example.com", Role: RoleStudent, Name: "Amy", Password: "pw"}
	require.NoError(t, store.CreateUser(user))

	got, err := store.User(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	byEmail, err := store.UserByEmail("amy@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = store.User("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Duplicate emails violate the unique constraint.
	dup := &User{ID: NewID(), Email: "amy@example.com", Role: RoleStudent, Name: "Amy 2", Password: "pw"}
	assert.Error(t, store.CreateUser(dup))

	students, err := store.UsersByRole(RoleStudent)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(students), 2) // seeded student plus Amy
}

func TestStoreQuizRoundTrip(t *testing.T) {
	store := testStore(t)

	due := time.Date(2025, 9, 1, 23, 59, 0, 0, time.UTC)
	quiz := &Quiz{
		ID:         NewID(),
		Title:      "Geometry",
		Subject:    "Math",
		SkillLevel: SkillIntermediate,
		CreatedBy:  "teacher1",
		Timer:      15,
		DueDate:    &due,
		Questions: []Question{
			{ID: "g1", Text: "Angles of a triangle sum to?", Options: []string{"90", "180", "360"}, CorrectAnswer: "180"},
			{ID: "g2", Text: "Sides of a hexagon?", Options: []string{"5", "6", "7"}, CorrectAnswer: "6"},
			{ID: "g3", Text: "A right angle is?", Options: []string{"45", "90"}, CorrectAnswer: "90"},
		},
	}
	require.NoError(t, store.CreateQuiz(quiz))

	got, err := store.Quiz(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.Title, got.Title)
	assert.Equal(t, quiz.Timer, got.Timer)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	// Question order is the insertion order.
	require.Len(t, got.Questions, 3)
	assert.Equal(t, []string{"g1", "g2", "g3"},
		[]string{got.Questions[0].ID, got.Questions[1].ID, got.Questions[2].ID})
	assert.Equal(t, []string{"90", "180", "360"}, got.Questions[0].Options)

	// Update replaces the question set.
	quiz.Title = "Geometry II"
	quiz.Questions = quiz.Questions[:1]
	require.NoError(t, store.UpdateQuiz(quiz))

	got, err = store.Quiz(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "Geometry II", got.Title)
	assert.Len(t, got.Questions, 1)

	require.NoError(t, store.DeleteQuiz(quiz.ID))
	_, err = store.Quiz(quiz.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreUpdateMissingQuiz(t *testing.T) {
	store := testStore(t)
	err := store.UpdateQuiz(&Quiz{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListQuizzesFilter(t *testing.T) {
	store := testStore(t)

	// Seeded data: 4 quizzes, 2 with subject Math.
	math, err := store.ListQuizzes(QuizFilter{Subject: "Math"})
	require.NoError(t, err)
	assert.Len(t, math, 2)

	beginner, err := store.ListQuizzes(QuizFilter{Subject: "Math", SkillLevel: SkillBeginner})
	require.NoError(t, err)
	require.Len(t, beginner, 1)
	assert.Equal(t, "Algebra Basics", beginner[0].Title)

	search, err := store.ListQuizzes(QuizFilter{Search: "photo"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Introduction to Photosynthesis", search[0].Title)

	none, err := store.ListQuizzes(QuizFilter{Search: "no such quiz"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreAttempts(t *testing.T) {
	store := testStore(t)

	attempt := &QuizAttempt{
		ID:          NewID(),
		QuizID:      "1",
		StudentID:   "student1",
		Answers:     map[string]string{"q1": "4", "q2": "3"},
		Score:       50,
		SubmittedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateAttempt(attempt))

	got, err := store.AttemptForQuizAndStudent("1", "student1")
	require.NoError(t, err)
	assert.Equal(t, attempt.Answers, got.Answers)
	assert.InDelta(t, 50.0, got.Score, 0.0001)

	_, err = store.AttemptForQuizAndStudent("1", "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	byQuiz, err := store.ListAttemptsByQuiz("1")
	require.NoError(t, err)
	assert.Len(t, byQuiz, 1)

	byStudent, err := store.ListAttemptsByStudent("student1")
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)
}

func TestStoreClassrooms(t *testing.T) {
	store := testStore(t)

	classroom := &Classroom{
		ID:        NewID(),
		Name:      "Math 101",
		Subject:   "Math",
		CreatedBy: "teacher1",
		JoinCode:  "MATH01",
	}
	require.NoError(t, store.CreateClassroom(classroom))

	byCode, err := store.ClassroomByJoinCode("MATH01")
	require.NoError(t, err)
	assert.Equal(t, classroom.ID, byCode.ID)

	_, err = store.ClassroomByJoinCode("WRONG1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Member adds are idempotent.
	require.NoError(t, store.AddClassroomMember(classroom.ID, "student1"))
	require.NoError(t, store.AddClassroomMember(classroom.ID, "student1"))
	require.NoError(t, store.AddClassroomMember(classroom.ID, "student2"))

	got, err := store.Classroom(classroom.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"student1", "student2"}, got.StudentIDs)

	byTeacher, err := store.ListClassroomsByTeacher("teacher1")
	require.NoError(t, err)
	assert.Len(t, byTeacher, 1)

	byStudent, err := store.ListClassroomsByStudent("student1")
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	assert.Equal(t, classroom.ID, byStudent[0].ID)

	post := &Post{ID: NewID(), Content: "Welcome!", AuthorName: "Dr. Reed", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreatePost(classroom.ID, post))
	got, err = store.Classroom(classroom.ID)
	require.NoError(t, err)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "Welcome!", got.Posts[0].Content)

	require.NoError(t, store.DeleteClassroom(classroom.ID))
	_, err = store.Classroom(classroom.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	gone, err := store.ListClassroomsByStudent("student1")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestStoreJoinRequests(t *testing.T) {
	store := testStore(t)

	req := &JoinRequest{
		ID:          NewID(),
		ClassroomID: "class-1",
		StudentID:   "student1",
		Status:      RequestPending,
		RequestedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateJoinRequest(req))

	got, err := store.JoinRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestPending, got.Status)

	byPair, err := store.JoinRequestForClassroomAndStudent("class-1", "student1")
	require.NoError(t, err)
	assert.Equal(t, req.ID, byPair.ID)

	_, err = store.JoinRequestForClassroomAndStudent("class-1", "other")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.UpdateJoinRequestStatus(req.ID, RequestApproved))
	got, err = store.JoinRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestApproved, got.Status)

	err = store.UpdateJoinRequestStatus("missing", RequestDenied)
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := store.ListJoinRequestsByClassroom("class-1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestAttemptEngineWithStore(t *testing.T) {
	store := testStore(t)
	engine := NewAttemptEngine(store)

	quiz, err := store.Quiz("1") // seeded Algebra Basics, 2 questions
	require.NoError(t, err)

	session, err := engine.Start(quiz, "student1")
	require.NoError(t, err)
	session.SelectAnswer("q1", "4")
	session.SelectAnswer("q2", "3")

	attempt, err := session.Submit()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, attempt.Score, 0.0001)

	stored, err := store.AttemptForQuizAndStudent("1", "student1")
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, stored.ID)

	_, err = engine.Start(quiz, "student1")
	assert.ErrorIs(t, err, ErrAlreadyAttempted)
}
