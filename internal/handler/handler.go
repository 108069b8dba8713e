package handler

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/Dan9191/exercise-tracker/internal/export"
	"github.com/Dan9191/exercise-tracker/internal/middleware"
	"github.com/Dan9191/exercise-tracker/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

//go:embed static
var staticFiles embed.FS

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// NewRouter wires every route and wraps the router in the shared middleware,
// so unmatched paths and methods also carry CORS headers.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	public, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	r.HandleFunc("/", h.Index).Methods("GET")
	r.PathPrefix("/public/").Handler(http.StripPrefix("/public/", http.FileServer(http.FS(public)))).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	api.HandleFunc("/users", h.CreateUser).Methods("POST")
	api.HandleFunc("/users", h.ListUsers).Methods("GET")
	api.HandleFunc("/users/{id}/exercises", h.AddExercise).Methods("POST")
	api.HandleFunc("/users/{id}/logs", h.GetLog).Methods("GET")
	api.HandleFunc("/users/{id}/log", h.GetLog).Methods("GET")

	return middleware.Recover(h.log)(middleware.Logging(h.log)(middleware.CORS()(r)))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
}

// Index serves the landing page
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		h.log.Errorf("Failed to read landing page: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// Health reports whether the store is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.Warnf("Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateUser handles user creation
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	user, err := h.svc.CreateUser(r.Context(), fields["username"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListUsers returns all users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// AddExercise logs an exercise for the user in the path
func (h *Handler) AddExercise(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	entry, err := h.svc.AddExercise(r.Context(), mux.Vars(r)["id"], service.ExerciseInput{
		Description: fields["description"],
		Duration:    fields["duration"],
		Date:        fields["date"],
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GetLog returns the user's filtered exercise log as JSON or XML
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	log, err := h.svc.QueryLog(r.Context(), mux.Vars(r)["id"], service.LogFilter{
		From:  q.Get("from"),
		To:    q.Get("to"),
		Limit: q.Get("limit"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if !wantsXML(r) {
		writeJSON(w, http.StatusOK, log)
		return
	}
	body, err := export.LogXML(log)
	if err != nil {
		h.log.Errorf("Failed to render log as XML: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "could not render log"})
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
