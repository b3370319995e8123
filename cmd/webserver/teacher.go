package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"learnify"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleTeacherDashboard(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	quizzes, err := s.store.ListQuizzes(learnify.QuizFilter{CreatedBy: user.ID})
	if err != nil {
		s.logger.Error("failed to list quizzes", "error", err)
		http.Error(w, "Failed to load quizzes", http.StatusInternalServerError)
		return
	}
	s.render(w, "teacher_dashboard", map[string]interface{}{
		"User":    user,
		"Quizzes": quizzes,
		"Flash":   s.takeFlash(w, r),
	})
}

func (s *Server) handleQuizCreateForm(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	classrooms, err := s.store.ListClassroomsByTeacher(user.ID)
	if err != nil {
		s.logger.Error("failed to list classrooms", "error", err)
		http.Error(w, "Failed to load form", http.StatusInternalServerError)
		return
	}
	s.render(w, "quiz_form", map[string]interface{}{
		"User":       user,
		"Classrooms": classrooms,
		"Action":     "/teacher/quiz/create",
		"Input":      learnify.NewQuizInput{},
	})
}

// parseQuizForm reads the quiz authoring form. Questions arrive as
// parallel slices; each question's options come from one textarea, one
// option per line.
func parseQuizForm(r *http.Request) learnify.NewQuizInput {
	input := learnify.NewQuizInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Subject:     strings.TrimSpace(r.FormValue("subject")),
		SkillLevel:  learnify.SkillLevel(r.FormValue("skill_level")),
		ClassroomID: r.FormValue("classroom_id"),
	}
	input.Timer, _ = strconv.Atoi(r.FormValue("timer"))

	if due := r.FormValue("due_date"); due != "" {
		if t, err := time.Parse("2006-01-02T15:04", due); err == nil {
			input.DueDate = &t
		}
	}

	texts := r.Form["question_text"]
	options := r.Form["question_options"]
	corrects := r.Form["question_correct"]
	ids := r.Form["question_id"]
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		question := learnify.Question{Text: text}
		if i < len(ids) {
			question.ID = ids[i]
		}
		if i < len(corrects) {
			question.CorrectAnswer = strings.TrimSpace(corrects[i])
		}
		if i < len(options) {
			for _, line := range strings.Split(options[i], "\n") {
				if line = strings.TrimSpace(line); line != "" {
					question.Options = append(question.Options, line)
				}
			}
		}
		input.Questions = append(input.Questions, question)
	}
	return input
}

func (s *Server) handleQuizCreate(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	input := parseQuizForm(r)
	if _, err := s.quizzes.Create(user.ID, input); err != nil {
		classrooms, _ := s.store.ListClassroomsByTeacher(user.ID)
		s.render(w, "quiz_form", map[string]interface{}{
			"User":       user,
			"Classrooms": classrooms,
			"Action":     "/teacher/quiz/create",
			"Input":      input,
			"Error":      err.Error(),
		})
		return
	}

	s.flash(w, r, "Quiz created.")
	http.Redirect(w, r, "/teacher/dashboard", http.StatusSeeOther)
}

// handleQuizGenerate asks the LLM for questions and re-renders the
// authoring form prefilled with the result. Nothing is stored until the
// teacher saves the form.
func (s *Server) handleQuizGenerate(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	numQuestions, _ := strconv.Atoi(r.FormValue("num_questions"))
	req := learnify.QuizGenerationRequest{
		SourceContent: r.FormValue("source_content"),
		NumQuestions:  numQuestions,
		SkillLevel:    learnify.SkillLevel(r.FormValue("skill_level")),
	}

	classrooms, err := s.store.ListClassroomsByTeacher(user.ID)
	if err != nil {
		s.logger.Error("failed to list classrooms", "error", err)
		http.Error(w, "Failed to load form", http.StatusInternalServerError)
		return
	}

	questions, err := s.quizMaker.Generate(r.Context(), req)
	if err != nil {
		s.logger.Error("quiz generation failed", "error", err)
		message := "Failed to generate quiz. Please try again."
		if !errors.Is(err, learnify.ErrGenerationFailed) {
			message = "Quiz generation is unavailable right now."
		}
		s.render(w, "quiz_form", map[string]interface{}{
			"User":       user,
			"Classrooms": classrooms,
			"Action":     "/teacher/quiz/create",
			"Input":      learnify.NewQuizInput{SkillLevel: req.SkillLevel},
			"Error":      message,
		})
		return
	}

	s.render(w, "quiz_form", map[string]interface{}{
		"User":       user,
		"Classrooms": classrooms,
		"Action":     "/teacher/quiz/create",
		"Input": learnify.NewQuizInput{
			SkillLevel: req.SkillLevel,
			Questions:  questions,
		},
	})
}

func (s *Server) handleQuizEditForm(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	quiz, err := s.store.Quiz(chi.URLParam(r, "quizID"))
	if err != nil || quiz.CreatedBy != user.ID {
		http.NotFound(w, r)
		return
	}
	classrooms, err := s.store.ListClassroomsByTeacher(user.ID)
	if err != nil {
		s.logger.Error("failed to list classrooms", "error", err)
		http.Error(w, "Failed to load form", http.StatusInternalServerError)
		return
	}
	s.render(w, "quiz_form", map[string]interface{}{
		"User":       user,
		"Classrooms": classrooms,
		"Action":     "/teacher/quiz/" + quiz.ID + "/edit",
		"Input": learnify.NewQuizInput{
			Title:       quiz.Title,
			Subject:     quiz.Subject,
			SkillLevel:  quiz.SkillLevel,
			Questions:   quiz.Questions,
			Timer:       quiz.Timer,
			ClassroomID: quiz.ClassroomID,
			DueDate:     quiz.DueDate,
		},
	})
}

func (s *Server) handleQuizEdit(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	quizID := chi.URLParam(r, "quizID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	input := parseQuizForm(r)
	quiz := &learnify.Quiz{
		ID:          quizID,
		Title:       input.Title,
		Subject:     input.Subject,
		SkillLevel:  input.SkillLevel,
		Questions:   input.Questions,
		Timer:       input.Timer,
		ClassroomID: input.ClassroomID,
		DueDate:     input.DueDate,
	}
	if err := s.quizzes.Update(user.ID, quiz); err != nil {
		if errors.Is(err, learnify.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		classrooms, _ := s.store.ListClassroomsByTeacher(user.ID)
		s.render(w, "quiz_form", map[string]interface{}{
			"User":       user,
			"Classrooms": classrooms,
			"Action":     "/teacher/quiz/" + quizID + "/edit",
			"Input":      input,
			"Error":      err.Error(),
		})
		return
	}

	s.flash(w, r, "Quiz updated.")
	http.Redirect(w, r, "/teacher/dashboard", http.StatusSeeOther)
}

func (s *Server) handleQuizDelete(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if err := s.quizzes.Delete(user.ID, chi.URLParam(r, "quizID")); err != nil {
		if errors.Is(err, learnify.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("failed to delete quiz", "error", err)
		http.Error(w, "Failed to delete quiz", http.StatusInternalServerError)
		return
	}
	s.flash(w, r, "Quiz deleted.")
	http.Redirect(w, r, "/teacher/dashboard", http.StatusSeeOther)
}

// AttemptRow pairs an attempt with the student who made it, for the
// results table.
type AttemptRow struct {
	Attempt learnify.QuizAttempt
	Student *learnify.User
}

func (s *Server) handleTeacherQuizResults(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	quiz, err := s.store.Quiz(chi.URLParam(r, "quizID"))
	if err != nil || quiz.CreatedBy != user.ID {
		http.NotFound(w, r)
		return
	}

	attempts, err := s.store.ListAttemptsByQuiz(quiz.ID)
	if err != nil {
		s.logger.Error("failed to list attempts", "error", err)
		http.Error(w, "Failed to load results", http.StatusInternalServerError)
		return
	}

	rows := make([]AttemptRow, 0, len(attempts))
	var total float64
	for _, attempt := range attempts {
		student, err := s.store.User(attempt.StudentID)
		if err != nil {
			s.logger.Warn("attempt by unknown student", "student", attempt.StudentID)
			continue
		}
		rows = append(rows, AttemptRow{Attempt: attempt, Student: student})
		total += attempt.Score
	}
	average := 0.0
	if len(rows) > 0 {
		average = total / float64(len(rows))
	}

	s.render(w, "teacher_quiz_results", map[string]interface{}{
		"User":    user,
		"Quiz":    quiz,
		"Rows":    rows,
		"Average": average,
	})
}

func (s *Server) handleTeacherClassrooms(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	classrooms, err := s.store.ListClassroomsByTeacher(user.ID)
	if err != nil {
		s.logger.Error("failed to list classrooms", "error", err)
		http.Error(w, "Failed to load classrooms", http.StatusInternalServerError)
		return
	}
	s.render(w, "teacher_classrooms", map[string]interface{}{
		"User":       user,
		"Classrooms": classrooms,
		"Flash":      s.takeFlash(w, r),
	})
}

func (s *Server) handleClassroomCreate(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	classroom, err := s.classrooms.Create(user.ID, r.FormValue("name"), r.FormValue("subject"))
	if err != nil {
		s.flash(w, r, "Failed to create classroom: "+err.Error())
		http.Redirect(w, r, "/teacher/classrooms", http.StatusSeeOther)
		return
	}
	s.flash(w, r, "Classroom created. Join code: "+classroom.JoinCode)
	http.Redirect(w, r, "/teacher/classrooms", http.StatusSeeOther)
}

// RequestRow pairs a join request with the requesting student.
type RequestRow struct {
	Request learnify.JoinRequest
	Student *learnify.User
}

func (s *Server) handleTeacherClassroom(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	classroom, err := s.store.Classroom(chi.URLParam(r, "classroomID"))
	if err != nil || classroom.CreatedBy != user.ID {
		http.NotFound(w, r)
		return
	}

	requests, err := s.store.ListJoinRequestsByClassroom(classroom.ID)
	if err != nil {
		s.logger.Error("failed to list join requests", "error", err)
		http.Error(w, "Failed to load classroom", http.StatusInternalServerError)
		return
	}
	pending := make([]RequestRow, 0, len(requests))
	for _, req := range requests {
		if req.Status != learnify.RequestPending {
			continue
		}
		student, err := s.store.User(req.StudentID)
		if err != nil {
			continue
		}
		pending = append(pending, RequestRow{Request: req, Student: student})
	}

	members := make([]*learnify.User, 0, len(classroom.StudentIDs))
	for _, id := range classroom.StudentIDs {
		if student, err := s.store.User(id); err == nil {
			members = append(members, student)
		}
	}

	quizzes, err := s.store.ListQuizzes(learnify.QuizFilter{ClassroomID: classroom.ID})
	if err != nil {
		s.logger.Error("failed to list classroom quizzes", "error", err)
		http.Error(w, "Failed to load classroom", http.StatusInternalServerError)
		return
	}

	s.render(w, "teacher_classroom", map[string]interface{}{
		"User":      user,
		"Classroom": classroom,
		"Pending":   pending,
		"Members":   members,
		"Quizzes":   quizzes,
		"Flash":     s.takeFlash(w, r),
	})
}

func (s *Server) handleClassroomPost(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	classroomID := chi.URLParam(r, "classroomID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	if _, err := s.classrooms.Post(user.ID, user.Name, classroomID, r.FormValue("content")); err != nil {
		if errors.Is(err, learnify.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.flash(w, r, "Failed to post: "+err.Error())
	}
	http.Redirect(w, r, "/teacher/classrooms/"+classroomID, http.StatusSeeOther)
}

// decideHandler settles a pending join request. Ownership of the
// classroom is checked here; the workflow itself trusts its caller.
func (s *Server) decideHandler(outcome learnify.JoinRequestStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		req, err := s.store.JoinRequest(chi.URLParam(r, "requestID"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		classroom, err := s.store.Classroom(req.ClassroomID)
		if err != nil || classroom.CreatedBy != user.ID {
			http.NotFound(w, r)
			return
		}

		if _, err := s.joins.Decide(req.ID, outcome); err != nil {
			switch {
			case errors.Is(err, learnify.ErrInvalidTransition):
				s.flash(w, r, "This request has already been decided.")
			default:
				s.logger.Error("failed to decide join request", "request", req.ID, "error", err)
				s.flash(w, r, "Failed to update join request.")
			}
		} else if outcome == learnify.RequestApproved {
			s.flash(w, r, "Request approved.")
		} else {
			s.flash(w, r, "Request denied.")
		}
		http.Redirect(w, r, "/teacher/classrooms/"+classroom.ID, http.StatusSeeOther)
	}
}
