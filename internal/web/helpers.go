package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"

	"givento/internal/auth"
	"givento/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxBodyBytes = 10 << 20

type envelope map[string]any

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any) {
	js, err := json.Marshal(data)
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}

func (app *Application) errorJSON(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, envelope{"message": message})
}

// serverError logs err with a stack trace and sends a 500 that carries the
// error text for diagnostics.
func (app *Application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.ErrorLog.Output(2, trace)

	js, _ := json.Marshal(envelope{"message": "Server error", "error": err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(js)
}

func (app *Application) notFound(w http.ResponseWriter, r *http.Request) {
	app.errorJSON(w, http.StatusNotFound, "Route not found: "+r.URL.Path)
}

// handleError maps a repository or auth error onto a response. resource
// names the entity in not-found and bad-id messages, e.g. "Product".
func (app *Application) handleError(w http.ResponseWriter, err error, resource string) {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		body := envelope{"message": verr.Message}
		if len(verr.Fields) > 0 {
			body["fields"] = verr.Fields
		}
		app.writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, models.ErrInvalidID):
		app.errorJSON(w, http.StatusBadRequest, "Invalid "+strings.ToLower(resource)+" ID")
	case errors.Is(err, models.ErrNoRecord):
		app.errorJSON(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		app.errorJSON(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, models.ErrDuplicateEmail):
		app.errorJSON(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, models.ErrInvalidTransition):
		app.errorJSON(w, http.StatusBadRequest, "Invalid status transition")
	case errors.Is(err, auth.ErrInvalidToken):
		app.errorJSON(w, http.StatusUnauthorized, "Token is not valid")
	default:
		app.serverError(w, err)
	}
}

// readJSON decodes the request body into dst. A missing or syntactically
// malformed body leaves dst at its zero value, as if "{}" had been sent.
// Well-formed JSON whose fields have the wrong types is a validation error.
func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &models.ValidationError{Message: "Request body too large"}
		}
		return err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &models.ValidationError{Message: "Invalid request body", Fields: []string{typeErr.Field}}
		}
		return &models.ValidationError{Message: "Invalid request body"}
	}
	return nil
}

// idParam parses the ":id" path parameter.
func idParam(r *http.Request) (primitive.ObjectID, error) {
	return models.ParseID(r.URL.Query().Get(":id"))
}
