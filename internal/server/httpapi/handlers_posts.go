package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/postplanner/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	list, err := s.posts.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPostListResponse(list))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var fields postFields
	if err := decodeJSON(w, r, &fields); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := fields.toInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.posts.Create(r.Context(), userID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newPostResponse(post))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	post, err := s.posts.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPostResponse(post))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var fields postFields
	if err := decodeJSON(w, r, &fields); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch, err := fields.toPatch()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.posts.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newPostResponse(post))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.posts.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, services.PostDeletedMessage)
}
