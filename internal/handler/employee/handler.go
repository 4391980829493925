package employee

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/staffbook/backend/internal/logging"
	model "github.com/zhouzirui/staffbook/backend/internal/model/employee"
	"github.com/zhouzirui/staffbook/backend/internal/service/employee"
	"github.com/zhouzirui/staffbook/backend/pkg/utils"
)

var logger = logging.For("handler")

// Handler serves the employee CRUD endpoints.
type Handler struct {
	store employee.Store
}

// New creates an employee handler backed by store.
func New(store employee.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the handlers on r, relative to its prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.handleList)
	r.Post("/employees", h.handleCreate)
	r.Patch("/employees/{id}", h.handleUpdate)
	r.Delete("/employees/{id}", h.handleDelete)
}

// handleList serves GET /employees?department=X.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees := h.store.List(r.URL.Query().Get("department"))
	utils.RespondJSON(w, http.StatusOK, employees)
}

// handleCreate serves POST /employees.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	draft, err := model.DecodeDraft(r.Body)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	created, err := h.store.Add(draft.Employee())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleUpdate serves PATCH /employees/{id}.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	patch, err := model.DecodePatch(r.Body)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	updated, err := h.store.Update(chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

// handleDelete serves DELETE /employees/{id}.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.Delete(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, removed)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)

	args := []any{"status", status, "err", err, "request_id", chimw.GetReqID(r.Context())}
	if status >= http.StatusInternalServerError {
		logger.Error(message, args...)
	} else {
		logger.Warn(message, args...)
	}
	utils.RespondText(w, status, message)
}

// statusFor maps store and validation failures to a status and body.
func statusFor(err error) (int, string) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}

	switch employee.KindOf(err) {
	case employee.KindAlreadyExists:
		return http.StatusConflict, err.Error()
	case employee.KindNotFound:
		return http.StatusNotFound, err.Error()
	}
	return http.StatusInternalServerError, "Internal Server Error"
}
