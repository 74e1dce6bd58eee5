package httpserver

import (
	"net/http"
)

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	writeOK(w, http.StatusOK, "OK", out)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *Handlers) userStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Users.GrowthStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", stats)
}
