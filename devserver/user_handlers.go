package devserver

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-maint-dashboard/users"
)

const defaultUserPageSize = 50

// ListUsersHandler pages through the accounts, ordered by email. Admin only.
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, okOffset := queryInt(r, "offset", 0)
		limit, okLimit := queryInt(r, "limit", defaultUserPageSize)
		if !okOffset || !okLimit {
			writeJSONError(w, "invalid_request", "offset and limit must be non-negative integers", http.StatusBadRequest)
			return
		}

		list, err := s.users.List(offset, limit)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list users")
			writeJSONError(w, "server_error", "Failed to list users", http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []*users.User{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
