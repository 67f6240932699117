package web

import (
	"net/http"
	"strings"
	"time"

	"tenpin-app/internal/model"

	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	view := AuthView{
		BaseView: BaseView{
			Title: "Sign in",
			IsDev: isDevMode(),
		},
	}
	if err := s.templates.Render(w, "login.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	user, ok := s.store.GetUserByEmail(email)
	if !ok || !checkPassword(user.PasswordHash, password) {
		view := AuthView{
			BaseView: BaseView{Title: "Sign in", IsDev: isDevMode()},
			Error:    "Wrong email or password",
		}
		if err := s.templates.Render(w, "login.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	setAuthCookie(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	view := AuthView{
		BaseView: BaseView{
			Title: "Create account",
			IsDev: isDevMode(),
		},
	}
	if err := s.templates.Render(w, "register.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	firstName := strings.TrimSpace(r.FormValue("first_name"))
	lastName := strings.TrimSpace(r.FormValue("last_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirmPassword := r.FormValue("password_confirm")

	renderError := func(message string) {
		view := AuthView{
			BaseView: BaseView{Title: "Create account", IsDev: isDevMode()},
			Error:    message,
		}
		if err := s.templates.Render(w, "register.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}

	if firstName == "" || lastName == "" || email == "" || password == "" {
		renderError("Fill in all the fields")
		return
	}
	if len(password) < 8 {
		renderError("Password needs at least 8 characters")
		return
	}
	if !containsUppercase(password) {
		renderError("Password needs at least one uppercase letter")
		return
	}
	if password != confirmPassword {
		renderError("Passwords do not match")
		return
	}

	user := model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashPassword(password),
		Role:         model.RoleUser,
	}
	created, err := s.store.CreateUser(user)
	if err != nil {
		renderError("Cannot create the account: " + err.Error())
		return
	}
	setAuthCookie(w, created.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func containsUppercase(value string) bool {
	for _, r := range value {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

func (s *Server) currentUser(r *http.Request) model.User {
	cookie, err := r.Cookie(userCookieName)
	if err == nil {
		if user, ok := s.store.GetUser(cookie.Value); ok {
			return user
		}
	}
	return model.User{}
}

func setAuthCookie(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookieName,
		Value:    userID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     userCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func hashPassword(password string) string {
	if password == "" {
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

func checkPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
