package main

import (
	"errors"
	"net/http"
	"time"

	"learnify"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)

	filter := learnify.QuizFilter{
		Search:     r.URL.Query().Get("search"),
		Subject:    r.URL.Query().Get("subject"),
		SkillLevel: learnify.SkillLevel(r.URL.Query().Get("skill")),
	}
	quizzes, err := s.store.ListQuizzes(filter)
	if err != nil {
		s.logger.Error("failed to list quizzes", "error", err)
		http.Error(w, "Failed to load quizzes", http.StatusInternalServerError)
		return
	}

	attempts, err := s.store.ListAttemptsByStudent(user.ID)
	if err != nil {
		s.logger.Error("failed to list attempts", "error", err)
		http.Error(w, "Failed to load attempts", http.StatusInternalServerError)
		return
	}
	attempted := make(map[string]learnify.QuizAttempt, len(attempts))
	for _, a := range attempts {
		attempted[a.QuizID] = a
	}

	s.render(w, "student_dashboard", map[string]interface{}{
		"User":      user,
		"Quizzes":   quizzes,
		"Attempted": attempted,
		"Search":    filter.Search,
		"Subject":   filter.Subject,
		"Skill":     string(filter.SkillLevel),
		"Flash":     s.takeFlash(w, r),
	})
}

// quizProgress returns the in-flight progress for a quiz, creating it
// on first access. The countdown deadline is fixed when the student
// first opens the quiz.
func (s *Server) quizProgress(w http.ResponseWriter, r *http.Request, quiz *learnify.Quiz) QuizProgress {
	session, _ := s.sessions.Get(r, sessionName)
	if stored, ok := session.Values["progress"].(QuizProgress); ok && stored.QuizID == quiz.ID {
		if stored.Answers == nil {
			// Gob drops an empty map on the wire.
			stored.Answers = make(map[string]string)
		}
		return stored
	}

	progress := QuizProgress{
		QuizID:  quiz.ID,
		Answers: make(map[string]string),
	}
	if quiz.Timer > 0 {
		progress.Deadline = time.Now().Add(time.Duration(quiz.Timer) * time.Minute)
	}
	session.Values["progress"] = progress
	session.Save(r, w)
	return progress
}

func (s *Server) saveProgress(w http.ResponseWriter, r *http.Request, progress QuizProgress) {
	session, _ := s.sessions.Get(r, sessionName)
	session.Values["progress"] = progress
	session.Save(r, w)
}

func (s *Server) clearProgress(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessions.Get(r, sessionName)
	delete(session.Values, "progress")
	session.Save(r, w)
}

func (s *Server) handleQuizTake(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	quiz, err := s.store.Quiz(chi.URLParam(r, "quizID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Start is also the gatekeeper: it rejects re-attempts and overdue
	// quizzes before any question is shown.
	if _, err := s.engine.Start(quiz, user.ID); err != nil {
		switch {
		case errors.Is(err, learnify.ErrAlreadyAttempted):
			http.Redirect(w, r, "/student/quiz/"+quiz.ID+"/results", http.StatusSeeOther)
		case errors.Is(err, learnify.ErrPastDue):
			s.flash(w, r, "The due date for this quiz has passed.")
			http.Redirect(w, r, "/student/dashboard", http.StatusSeeOther)
		default:
			s.logger.Error("failed to start attempt", "quiz", quiz.ID, "error", err)
			http.Error(w, "Failed to start quiz", http.StatusInternalServerError)
		}
		return
	}

	progress := s.quizProgress(w, r, quiz)

	remaining := -1
	if !progress.Deadline.IsZero() {
		remaining = int(time.Until(progress.Deadline).Seconds())
		if remaining <= 0 {
			s.finishAttempt(w, r, user, quiz, progress, true)
			return
		}
	}

	if progress.Cursor >= len(quiz.Questions) {
		progress.Cursor = len(quiz.Questions) - 1
	}
	question := quiz.Questions[progress.Cursor]

	s.render(w, "quiz_take", map[string]interface{}{
		"User":      user,
		"Quiz":      quiz,
		"Question":  question,
		"Cursor":    progress.Cursor,
		"Total":     len(quiz.Questions),
		"Selected":  progress.Answers[question.ID],
		"Remaining": remaining,
		"IsLast":    progress.Cursor == len(quiz.Questions)-1,
	})
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	quiz, err := s.store.Quiz(chi.URLParam(r, "quizID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	progress := s.quizProgress(w, r, quiz)

	if !progress.Deadline.IsZero() && time.Now().After(progress.Deadline) {
		s.finishAttempt(w, r, user, quiz, progress, true)
		return
	}

	if questionID := r.FormValue("question_id"); questionID != "" {
		if option := r.FormValue("option"); option != "" {
			// Total overwrite; the chosen option is not validated
			// against the question, scoring treats a stray value as
			// incorrect.
			progress.Answers[questionID] = option
		}
	}

	switch r.FormValue("nav") {
	case "next":
		if progress.Cursor < len(quiz.Questions)-1 {
			progress.Cursor++
		}
	case "prev":
		if progress.Cursor > 0 {
			progress.Cursor--
		}
	}

	s.saveProgress(w, r, progress)
	http.Redirect(w, r, "/student/quiz/"+quiz.ID, http.StatusSeeOther)
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	quiz, err := s.store.Quiz(chi.URLParam(r, "quizID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	progress := s.quizProgress(w, r, quiz)
	timedOut := !progress.Deadline.IsZero() && time.Now().After(progress.Deadline)
	s.finishAttempt(w, r, user, quiz, progress, timedOut)
}

// finishAttempt replays the captured answers through the attempt engine
// and redirects to the results page. The engine's idempotency guard
// makes a double submit (or a submit racing the timeout) a no-op.
func (s *Server) finishAttempt(w http.ResponseWriter, r *http.Request, user *learnify.User, quiz *learnify.Quiz, progress QuizProgress, timedOut bool) {
	attempt, err := s.engine.Start(quiz, user.ID)
	if errors.Is(err, learnify.ErrAlreadyAttempted) {
		s.clearProgress(w, r)
		http.Redirect(w, r, "/student/quiz/"+quiz.ID+"/results", http.StatusSeeOther)
		return
	}
	if err != nil && !errors.Is(err, learnify.ErrPastDue) {
		s.logger.Error("failed to start attempt", "quiz", quiz.ID, "error", err)
		http.Error(w, "Failed to submit quiz", http.StatusInternalServerError)
		return
	}
	if attempt == nil {
		// Past due with no prior attempt: nothing to submit.
		s.clearProgress(w, r)
		s.flash(w, r, "The due date for this quiz has passed.")
		http.Redirect(w, r, "/student/dashboard", http.StatusSeeOther)
		return
	}

	for questionID, option := range progress.Answers {
		attempt.SelectAnswer(questionID, option)
	}
	if _, err := attempt.Submit(); err != nil {
		s.logger.Error("failed to submit attempt", "quiz", quiz.ID, "error", err)
		http.Error(w, "Failed to submit quiz", http.StatusInternalServerError)
		return
	}

	s.clearProgress(w, r)
	if timedOut {
		s.flash(w, r, "Time's up! Your quiz was submitted automatically.")
	}
	http.Redirect(w, r, "/student/quiz/"+quiz.ID+"/results", http.StatusSeeOther)
}

func (s *Server) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	s.renderResults(w, r, "", "")
}

// handleExplain generates an AI explanation for one incorrectly
// answered question and re-renders the results page with it. A failure
// is shown inline with a retry affordance.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	s.renderResults(w, r, r.FormValue("question_id"), "")
}

func (s *Server) renderResults(w http.ResponseWriter, r *http.Request, explainQuestionID, explanation string) {
	user := s.currentUser(r)
	quiz, err := s.store.Quiz(chi.URLParam(r, "quizID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	attempt, err := s.store.AttemptForQuizAndStudent(quiz.ID, user.ID)
	if err != nil {
		http.Redirect(w, r, "/student/quiz/"+quiz.ID, http.StatusSeeOther)
		return
	}

	explainError := ""
	if explainQuestionID != "" && explanation == "" {
		for _, q := range quiz.Questions {
			if q.ID != explainQuestionID {
				continue
			}
			explanation, err = s.explainer.Explain(r.Context(), learnify.ExplanationRequest{
				Question:      q.Text,
				StudentAnswer: attempt.Answers[q.ID],
				CorrectAnswer: q.CorrectAnswer,
				Topic:         quiz.Subject,
			})
			if err != nil {
				s.logger.Error("explanation failed", "question", q.ID, "error", err)
				explainError = "Failed to generate explanation. Please try again later."
			}
			break
		}
	}

	s.render(w, "quiz_results", map[string]interface{}{
		"User":         user,
		"Quiz":         quiz,
		"Attempt":      attempt,
		"ExplainID":    explainQuestionID,
		"Explanation":  explanation,
		"ExplainError": explainError,
		"Flash":        s.takeFlash(w, r),
	})
}

func (s *Server) handleStudentClassrooms(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	classrooms, err := s.store.ListClassroomsByStudent(user.ID)
	if err != nil {
		s.logger.Error("failed to list classrooms", "error", err)
		http.Error(w, "Failed to load classrooms", http.StatusInternalServerError)
		return
	}
	s.render(w, "student_classrooms", map[string]interface{}{
		"User":       user,
		"Classrooms": classrooms,
		"Flash":      s.takeFlash(w, r),
	})
}

// handleJoinByCode resolves a join code to a classroom and files a
// membership request for the teacher to approve.
func (s *Server) handleJoinByCode(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	classroom, err := s.store.ClassroomByJoinCode(r.FormValue("join_code"))
	if err != nil {
		s.flash(w, r, "No classroom found for that join code.")
		http.Redirect(w, r, "/student/classrooms", http.StatusSeeOther)
		return
	}

	_, err = s.joins.RequestToJoin(classroom.ID, user.ID)
	switch {
	case errors.Is(err, learnify.ErrDuplicateRequest):
		s.flash(w, r, "You have already requested to join "+classroom.Name+".")
	case err != nil:
		s.logger.Error("join request failed", "classroom", classroom.ID, "error", err)
		s.flash(w, r, "Failed to send join request.")
	default:
		s.flash(w, r, "Join request sent to "+classroom.Name+".")
	}
	http.Redirect(w, r, "/student/classrooms", http.StatusSeeOther)
}

func (s *Server) handleStudentClassroom(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	classroom, err := s.store.Classroom(chi.URLParam(r, "classroomID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !classroom.IsMember(user.ID) {
		http.Redirect(w, r, "/student/dashboard", http.StatusSeeOther)
		return
	}

	teacher, err := s.store.User(classroom.CreatedBy)
	if err != nil {
		s.logger.Error("failed to load teacher", "classroom", classroom.ID, "error", err)
		http.Error(w, "Failed to load classroom", http.StatusInternalServerError)
		return
	}
	quizzes, err := s.store.ListQuizzes(learnify.QuizFilter{ClassroomID: classroom.ID})
	if err != nil {
		s.logger.Error("failed to list classroom quizzes", "error", err)
		http.Error(w, "Failed to load classroom", http.StatusInternalServerError)
		return
	}

	s.render(w, "student_classroom", map[string]interface{}{
		"User":      user,
		"Classroom": classroom,
		"Teacher":   teacher,
		"Quizzes":   quizzes,
	})
}

func (s *Server) handleStudyBuddyPage(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	session, _ := s.sessions.Get(r, sessionName)
	history, _ := session.Values["study_buddy"].([]learnify.ChatMessage)
	s.render(w, "study_buddy", map[string]interface{}{
		"User":    user,
		"History": history,
		"Subject": r.URL.Query().Get("subject"),
	})
}

func (s *Server) handleStudyBuddyAsk(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	subject := r.FormValue("subject")
	question := r.FormValue("question")

	session, _ := s.sessions.Get(r, sessionName)
	history, _ := session.Values["study_buddy"].([]learnify.ChatMessage)

	answer, err := s.studyBuddy.Ask(r.Context(), subject, question, history)
	if err != nil {
		s.logger.Error("study buddy failed", "error", err)
		s.render(w, "study_buddy", map[string]interface{}{
			"User":    user,
			"History": history,
			"Subject": subject,
			"Error":   "Failed to generate an answer. Please try again.",
		})
		return
	}

	history = append(history,
		learnify.ChatMessage{Role: "user", Content: question},
		learnify.ChatMessage{Role: "model", Content: answer},
	)
	session.Values["study_buddy"] = history
	session.Save(r, w)
	http.Redirect(w, r, "/student/study-buddy?subject="+subject, http.StatusSeeOther)
}
