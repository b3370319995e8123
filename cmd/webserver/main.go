package main

import (
	"encoding/gob"
	"fmt"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"learnify"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

// Server holds everything the handlers need. Session identity and
// in-flight quiz progress live in the cookie store; all core operations
// take explicit user ids.
type Server struct {
	logger     *slog.Logger
	store      *learnify.Store
	sessions   *sessions.CookieStore
	templates  map[string]*template.Template
	auth       *learnify.Authenticator
	engine     *learnify.AttemptEngine
	joins      *learnify.JoinRequestWorkflow
	quizzes    *learnify.QuizService
	classrooms *learnify.ClassroomService
	quizMaker  *learnify.QuizMaker
	explainer  *learnify.Explainer
	studyBuddy *learnify.StudyBuddy
}

// QuizProgress is the in-flight state of a quiz attempt, carried in the
// cookie session between question pages. Deadline is zero for untimed
// quizzes.
type QuizProgress struct {
	QuizID   string
	Cursor   int
	Answers  map[string]string
	Deadline time.Time
}

func init() {
	gob.Register(QuizProgress{})
	gob.Register([]learnify.ChatMessage{})
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; AI features will fail until it is")
	}

	store, err := learnify.OpenStore(envString("LEARNIFY_DB", "./learnify.db"))
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cookieStore := sessions.NewCookieStore([]byte(envString("SESSION_SECRET", "learnify-dev-secret")))
	cookieStore.Options.HttpOnly = true

	server := &Server{
		logger:     logger,
		store:      store,
		sessions:   cookieStore,
		templates:  loadTemplates(),
		auth:       learnify.NewAuthenticator(store),
		engine:     learnify.NewAttemptEngine(store),
		joins:      learnify.NewJoinRequestWorkflow(store),
		quizzes:    learnify.NewQuizService(store),
		classrooms: learnify.NewClassroomService(store),
		quizMaker:  learnify.NewQuizMaker(apiKey),
		explainer:  learnify.NewExplainer(apiKey),
		studyBuddy: learnify.NewStudyBuddy(apiKey),
	}

	port := envString("PORT", "8080")
	logger.Info("starting server", "port", port)
	if err := http.ListenAndServe(":"+port, server.routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func (s *Server) routes() http.Handler {
	mux := chi.NewRouter()

	mux.Get("/", s.handleHome)
	mux.Get("/login", s.handleLoginForm)
	mux.Post("/login", s.handleLogin)
	mux.Get("/signup", s.handleSignupForm)
	mux.Post("/signup", s.handleSignup)
	mux.Post("/logout", s.handleLogout)

	mux.Route("/student", func(r chi.Router) {
		r.Use(s.requireRole(learnify.RoleStudent))
		r.Get("/dashboard", s.handleStudentDashboard)
		r.Get("/quiz/{quizID}", s.handleQuizTake)
		r.Post("/quiz/{quizID}/answer", s.handleQuizAnswer)
		r.Post("/quiz/{quizID}/submit", s.handleQuizSubmit)
		r.Get("/quiz/{quizID}/results", s.handleQuizResults)
		r.Post("/quiz/{quizID}/explain", s.handleExplain)
		r.Get("/classrooms", s.handleStudentClassrooms)
		r.Post("/classrooms/join", s.handleJoinByCode)
		r.Get("/classrooms/{classroomID}", s.handleStudentClassroom)
		r.Get("/study-buddy", s.handleStudyBuddyPage)
		r.Post("/study-buddy", s.handleStudyBuddyAsk)
	})

	mux.Route("/teacher", func(r chi.Router) {
		r.Use(s.requireRole(learnify.RoleTeacher))
		r.Get("/dashboard", s.handleTeacherDashboard)
		r.Get("/quiz/create", s.handleQuizCreateForm)
		r.Post("/quiz/create", s.handleQuizCreate)
		r.Post("/quiz/generate", s.handleQuizGenerate)
		r.Get("/quiz/{quizID}/edit", s.handleQuizEditForm)
		r.Post("/quiz/{quizID}/edit", s.handleQuizEdit)
		r.Post("/quiz/{quizID}/delete", s.handleQuizDelete)
		r.Get("/quiz/{quizID}/results", s.handleTeacherQuizResults)
		r.Get("/classrooms", s.handleTeacherClassrooms)
		r.Post("/classrooms/create", s.handleClassroomCreate)
		r.Get("/classrooms/{classroomID}", s.handleTeacherClassroom)
		r.Post("/classrooms/{classroomID}/post", s.handleClassroomPost)
		r.Post("/requests/{requestID}/approve", s.decideHandler(learnify.RequestApproved))
		r.Post("/requests/{requestID}/deny", s.decideHandler(learnify.RequestDenied))
	})

	return mux
}

func loadTemplates() map[string]*template.Template {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"printf": fmt.Sprintf,
		"scorefmt": func(score float64) string {
			return fmt.Sprintf("%.0f%%", score)
		},
		"timefmt": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"duefmt": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"clock": func(seconds int) string {
			return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
		},
	}

	pages := []string{
		"login", "signup",
		"student_dashboard", "quiz_take", "quiz_results",
		"student_classrooms", "student_classroom", "study_buddy",
		"teacher_dashboard", "quiz_form", "teacher_quiz_results",
		"teacher_classrooms", "teacher_classroom",
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		templates[page] = template.Must(
			template.New(page).Funcs(funcMap).ParseFiles("templates/base.html", "templates/"+page+".html"))
	}
	return templates
}
