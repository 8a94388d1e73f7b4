package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vilain-Petit-Canard/API-Films/internal/errs"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"github.com/vilain-Petit-Canard/API-Films/internal/service"
)

// Resource describes one CRUD collection exposed over HTTP.
type Resource struct {
	// Name is the singular noun used in response messages.
	Name       string
	Collection string
	Query      QuerySpec

	// CreateStatus is the success status of POST.
	CreateStatus int
	// EchoOnCreate adds the submitted body to the POST response.
	EchoOnCreate bool

	// StrictWrites makes any failed PUT or DELETE, including PUT on an
	// unknown id, answer 500 "<name> not found". Without it PUT on an
	// unknown id succeeds silently and only store failures give a 500.
	StrictWrites bool

	// Validate runs before insert; a *service.ValidationError becomes a 400.
	Validate func(models.Document) error
}

// Films is the /api/films resource.
var Films = Resource{
	Name:       "film",
	Collection: "films",
	Query: QuerySpec{
		SortParam:      "tri",
		DirectionParam: "ordre",
		LimitParam:     "limite",
		DefaultSort:    "titre",
		DefaultLimit:   3,
	},
	CreateStatus: http.StatusOK,
	StrictWrites: true,
}

// Donnees is the generic /donnees resource. Records must name a user.
var Donnees = Resource{
	Name:       "donnee",
	Collection: "donnees",
	Query: QuerySpec{
		DirectionParam: "order-direction",
		LimitParam:     "limit",
		DefaultSort:    "user",
		DefaultLimit:   50,
	},
	CreateStatus: http.StatusCreated,
	EchoOnCreate: true,
	Validate:     service.RequireField("user"),
}

type ResourceHandler struct {
	res Resource
	svc *service.ResourceService
}

func NewResourceHandler(res Resource, svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{res: res, svc: svc}
}

// Routes registers the five CRUD routes on r, relative to the resource root.
func (h *ResourceHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *ResourceHandler) notFoundMessage() string {
	return h.res.Name + " not found"
}

// @Summary List records
// @Description Films sort by ?tri (default titre) and return 3 records by default.
// @Description Donnees always sort by user and return 50 records by default.
// @Tags resources
// @Produce json
// @Param tri query string false "sort field (films only)"
// @Param ordre query string false "asc|desc (films)"
// @Param limite query int false "record count, films (default: 3)"
// @Param order-direction query string false "asc|desc (donnees)"
// @Param limit query int false "record count, donnees (default: 50)"
// @Success 200 {array} object
// @Failure 500 {object} errs.HTTPError
// @Router /api/films [get]
// @Router /donnees [get]
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ResolveQuery(r.URL.Query(), h.res.Query)

	docs, err := h.svc.List(r.Context(), params)
	if err != nil {
		serverError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// @Summary Get record
// @Tags resources
// @Produce json
// @Param id path string true "record id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errs.HTTPError
// @Failure 500 {object} errs.HTTPError
// @Router /api/films/{id} [get]
// @Router /donnees/{id} [get]
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serverError(w, r, err, "")
		return
	}
	if doc == nil {
		writeError(w, r, errs.NewNotFoundError(h.notFoundMessage()))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// @Summary Create record
// @Description Donnees require a non-empty user field and echo the stored body back.
// @Tags resources
// @Accept json
// @Produce json
// @Param body body object true "record"
// @Success 200 {object} map[string]any "films"
// @Success 201 {object} map[string]any "donnees"
// @Failure 400 {object} errs.HTTPError
// @Failure 500 {object} errs.HTTPError
// @Router /api/films [post]
// @Router /donnees [post]
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(w, r)
	if err != nil {
		writeError(w, r, errs.NewBadRequestError(err.Error()))
		return
	}

	id, err := h.svc.Create(r.Context(), doc)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeError(w, r, errs.NewBadRequestError(verr.Message))
			return
		}
		serverError(w, r, err, "")
		return
	}

	resp := map[string]any{
		"message": fmt.Sprintf("%s %s added", h.res.Name, id),
		"id":      id,
	}
	if h.res.EchoOnCreate {
		resp["data"] = doc.Without(models.FieldID)
	}
	writeJSON(w, h.res.CreateStatus, resp)
}

// @Summary Update record
// @Description Merges the body into the record. An unknown film id answers 500 "film not found".
// @Tags resources
// @Accept json
// @Produce json
// @Param id path string true "record id"
// @Param body body object true "fields to set"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errs.HTTPError
// @Failure 500 {object} errs.HTTPError
// @Router /api/films/{id} [put]
// @Router /donnees/{id} [put]
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	partial, err := readDocument(w, r)
	if err != nil {
		writeError(w, r, errs.NewBadRequestError(err.Error()))
		return
	}

	err = h.svc.Update(r.Context(), id, partial)
	switch {
	case err == nil:
	case h.res.StrictWrites:
		serverError(w, r, err, h.notFoundMessage())
		return
	case errors.Is(err, repository.ErrNotFound):
		// Lenient resources treat an update of a missing record as done.
	default:
		serverError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s %s updated", h.res.Name, id),
	})
}

// @Summary Delete record
// @Tags resources
// @Produce json
// @Param id path string true "record id"
// @Success 200 {object} map[string]string
// @Failure 500 {object} errs.HTTPError
// @Router /api/films/{id} [delete]
// @Router /donnees/{id} [delete]
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		msg := ""
		if h.res.StrictWrites {
			msg = h.notFoundMessage()
		}
		serverError(w, r, err, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s %s deleted", h.res.Name, id),
	})
}
