package httpserver

import (
	"net/http"
	"strconv"

	"campusnest/internal/domain"
)

type bookmarkReq struct {
	ListingID int64 `json:"listing_id" validate:"required"`
}

func (h *Handlers) createBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.Bookmarks.Create(r.Context(), mustPrincipal(r), req.ListingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Listing bookmarked", toBookmarkDTO(b))
}

func (h *Handlers) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkReq
	if err := bind(r, &req); err != nil {
		writeError(w, err)
		return
	}
	on, b, err := h.Bookmarks.Toggle(r.Context(), mustPrincipal(r), req.ListingID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !on {
		writeOK(w, http.StatusOK, "Bookmark removed", map[string]bool{"bookmarked": false})
		return
	}
	writeOK(w, http.StatusCreated, "Listing bookmarked", map[string]any{
		"bookmarked": true,
		"bookmark":   toBookmarkDTO(b),
	})
}

func (h *Handlers) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Bookmarks.Remove(r.Context(), mustPrincipal(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Bookmark removed", nil)
}

func (h *Handlers) listBookmarks(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookmarks.List(r.Context(), mustPrincipal(r), domainBookmarkQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toBookmarkDetailDTOs(out))
}

func (h *Handlers) recentBookmarks(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookmarks.Recent(r.Context(), mustPrincipal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", toBookmarkDetailDTOs(out))
}

func domainBookmarkQuery(r *http.Request) domain.BookmarkQuery {
	q := domain.BookmarkQuery{}
	if v := r.URL.Query().Get("listing"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.ListingID = id
		}
	}
	return q
}

func (h *Handlers) bookmarkCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Bookmarks.Count(r.Context(), mustPrincipal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "OK", map[string]int{"count": n})
}
