package web

import (
	"net/http"

	"givento/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.handleError(w, err, "User")
		return
	}

	session, err := app.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		app.handleError(w, err, "User")
		return
	}

	app.writeJSON(w, http.StatusOK, session)
}

func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.handleError(w, err, "User")
		return
	}

	session, err := app.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		app.handleError(w, err, "User")
		return
	}

	app.InfoLog.Printf("user registered: %s", session.User.ID)
	app.writeJSON(w, http.StatusCreated, session)
}

func (app *Application) me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		app.errorJSON(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	user, err := app.Auth.Me(r.Context(), id)
	if err != nil {
		app.handleError(w, err, "User")
		return
	}

	app.writeJSON(w, http.StatusOK, user.Public())
}
