package devserver

import (
	"net/http"
	"strings"
)

func (s *Server) ListSitesHandler(c *collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.list())
	}
}

func (s *Server) GetSiteHandler(c *collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := c.get(r.PathValue("id"))
		if !ok {
			writeJSONError(w, "not_found", c.name+" not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) CreateSiteHandler(c *collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec record
		if err := decodeJSON(w, r, &rec); err != nil || rec == nil {
			writeJSONError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
			return
		}
		if !validName(rec, true) {
			writeJSONError(w, "invalid_request", "Site name is required", http.StatusBadRequest)
			return
		}

		created := c.create(rec)
		s.logger.Debug().Str("collection", c.prefix).Any("id", created["id"]).Msg("site created")
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) UpdateSiteHandler(c *collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec record
		if err := decodeJSON(w, r, &rec); err != nil || rec == nil {
			writeJSONError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
			return
		}
		if !validName(rec, false) {
			writeJSONError(w, "invalid_request", "Site name cannot be empty", http.StatusBadRequest)
			return
		}

		updated, ok := c.update(r.PathValue("id"), rec)
		if !ok {
			writeJSONError(w, "not_found", c.name+" not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeleteSiteHandler(c *collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !c.delete(r.PathValue("id")) {
			writeJSONError(w, "not_found", c.name+" not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// validName checks the name field. required means it must be present.
func validName(rec record, required bool) bool {
	v, present := rec["name"]
	if !present {
		return !required
	}
	name, ok := v.(string)
	return ok && strings.TrimSpace(name) != ""
}
