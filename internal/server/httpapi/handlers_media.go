package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req mediaUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.media.PresignUpload(r.Context(), userID, chi.URLParam(r, "id"), req.ContentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newPresignedResponse(res))
}

func (s *Server) handlePresignDownload(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	res, err := s.media.PresignDownload(r.Context(), userID, chi.URLParam(r, "id"), r.URL.Query().Get("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPresignedResponse(res))
}
