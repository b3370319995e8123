package main

import (
	"errors"
	"net/http"

	"learnify"
)

const sessionName = "learnify-session"

// currentUser resolves the logged-in user from the cookie session, or
// nil when nobody is logged in.
func (s *Server) currentUser(r *http.Request) *learnify.User {
	session, _ := s.sessions.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	user, err := s.store.User(userID)
	if err != nil {
		return nil
	}
	return user
}

// requireRole redirects to the login page unless a user with the given
// role is logged in.
func (s *Server) requireRole(role learnify.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := s.currentUser(r)
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if user.Role != role {
				http.Redirect(w, r, "/"+string(user.Role)+"/dashboard", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	tmpl, ok := s.templates[name]
	if !ok {
		s.logger.Error("unknown template", "name", name)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.Error("template error", "name", name, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// flash stores a one-shot message in the session; takeFlash pops it.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := s.sessions.Get(r, sessionName)
	session.AddFlash(message)
	session.Save(r, w)
}

func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) string {
	session, _ := s.sessions.Get(r, sessionName)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	session.Save(r, w)
	message, _ := flashes[0].(string)
	return message
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if user := s.currentUser(r); user != nil {
		http.Redirect(w, r, "/"+string(user.Role)+"/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login", map[string]interface{}{
		"Flash": s.takeFlash(w, r),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	user, err := s.auth.Login(r.FormValue("email"), r.FormValue("password"))
	if errors.Is(err, learnify.ErrInvalidCredentials) {
		s.render(w, "login", map[string]interface{}{
			"Error": "Invalid email or password.",
			"Email": r.FormValue("email"),
		})
		return
	}
	if err != nil {
		s.logger.Error("login failed", "error", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	session, _ := s.sessions.Get(r, sessionName)
	session.Values["user_id"] = user.ID
	if err := session.Save(r, w); err != nil {
		s.logger.Error("session save failed", "error", err)
	}
	http.Redirect(w, r, "/"+string(user.Role)+"/dashboard", http.StatusSeeOther)
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "signup", nil)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	role := learnify.Role(r.FormValue("role"))
	if role != learnify.RoleStudent && role != learnify.RoleTeacher {
		role = learnify.RoleStudent
	}

	user, err := s.auth.Signup(r.FormValue("email"), r.FormValue("password"), r.FormValue("name"), role)
	if errors.Is(err, learnify.ErrEmailTaken) {
		s.render(w, "signup", map[string]interface{}{
			"Error": "An account with this email already exists.",
			"Name":  r.FormValue("name"),
			"Email": r.FormValue("email"),
		})
		return
	}
	if err != nil {
		s.logger.Error("signup failed", "error", err)
		http.Error(w, "Signup failed", http.StatusInternalServerError)
		return
	}

	session, _ := s.sessions.Get(r, sessionName)
	session.Values["user_id"] = user.ID
	session.Save(r, w)
	http.Redirect(w, r, "/"+string(user.Role)+"/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessions.Get(r, sessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
