package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"saasbase.org/internal/org"
)

type createOrganisationRequest struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

type updateOrganisationRequest struct {
	Name   *string `json:"name"`
	Slug   *string `json:"slug"`
	Status *string `json:"status"`
}

type organisationListResponse struct {
	Items []org.View `json:"items"`
}

func (a *API) handleListOrganisations(w http.ResponseWriter, r *http.Request) {
	views, err := a.orgs.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handleOrgError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, organisationListResponse{Items: views})
}

func (a *API) handleGetOrganisation(w http.ResponseWriter, r *http.Request) {
	view, err := a.orgs.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleOrgError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleCreateOrganisation(w http.ResponseWriter, r *http.Request) {
	var req createOrganisationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	view, err := a.orgs.Create(r.Context(), org.CreateInput{
		Name:   req.Name,
		Slug:   req.Slug,
		Status: req.Status,
	})
	if err != nil {
		handleOrgError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/organisations/%s", view.ID))
	writeJSON(w, http.StatusCreated, view)
}

func (a *API) handleUpdateOrganisation(w http.ResponseWriter, r *http.Request) {
	var req updateOrganisationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	view, err := a.orgs.Update(r.Context(), mux.Vars(r)["id"], org.UpdateInput{
		Name:   req.Name,
		Slug:   req.Slug,
		Status: req.Status,
	})
	if err != nil {
		handleOrgError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleDeleteOrganisation(w http.ResponseWriter, r *http.Request) {
	if err := a.orgs.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleOrgError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleOrgError maps the organisation error taxonomy onto status codes.
// Unexpected storage failures surface as an opaque 500.
func handleOrgError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, org.ErrInvalidID), errors.Is(err, org.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, org.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, org.ErrSlugTaken):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "organisation operation failed")
	}
}
