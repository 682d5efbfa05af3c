package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/canopy/pkg/errors"
)

func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	if s.Catalog == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no catalog configured"))
		return
	}
	list, err := s.Catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plants": list})
}

func (s *Server) handleGetPlant(w http.ResponseWriter, r *http.Request) {
	if s.Catalog == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no catalog configured"))
		return
	}
	e, err := s.Runner.LookupEntry(r.Context(), s.Catalog, chi.URLParam(r, "name"), r.URL.Query().Get("refresh") == "true")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
