package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jiyun-park/fanchannel-service/internal/channel"
	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// Handler maps the HTTP surface onto the channel operations.
type Handler struct {
	svc    *channel.Service
	tokens *TokenManager
}

// NewHandler wires the channel service and the token manager together.
func NewHandler(svc *channel.Service, tokens *TokenManager) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, fmt.Errorf("%w: invalid body", domain.ErrValidation))
		return false
	}
	return true
}

// POST /api/login
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &body) {
		return
	}
	sess, err := h.svc.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.tokens.Issue(sess.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "username": sess.Username})
}

// POST /api/admins
func (h *Handler) addAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := h.svc.AddAdmin(r.Context(), sessionFrom(r.Context()), body.Username, body.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GET /api/profiles/{username}
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// PUT /api/profile
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Bio        string `json:"bio"`
		ProfileURL string `json:"profile_url"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := h.svc.UpdateProfile(r.Context(), sessionFrom(r.Context()), body.Bio, body.ProfileURL); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func feedParam(r *http.Request) domain.FeedKind {
	return domain.FeedKind(chi.URLParam(r, "feed"))
}

// GET /api/feeds/{feed}/posts
func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	pinnedFirst := r.URL.Query().Get("pinned_first") == "true"
	posts, err := h.svc.ListPosts(r.Context(), feedParam(r), pinnedFirst)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// POST /api/feeds/{feed}/posts
func (h *Handler) addPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Writer   string `json:"writer"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
		Pinned   bool   `json:"pinned"`
	}
	if !decode(w, r, &body) {
		return
	}
	post, err := h.svc.AddPost(r.Context(), sessionFrom(r.Context()), feedParam(r), channel.AddPostInput{
		Writer:   body.Writer,
		Content:  body.Content,
		ImageURL: body.ImageURL,
		Pinned:   body.Pinned,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func postIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid post id", domain.ErrValidation)
	}
	return id, nil
}

// POST /api/feeds/{feed}/posts/{id}/comments
func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	id, err := postIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		Nickname string `json:"nickname"`
		Body     string `json:"body"`
	}
	if !decode(w, r, &body) {
		return
	}
	comment, err := h.svc.AddComment(r.Context(), feedParam(r), id, body.Nickname, body.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// POST /api/feeds/{feed}/posts/{id}/likes
func (h *Handler) like(w http.ResponseWriter, r *http.Request) {
	id, err := postIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	likes, err := h.svc.Like(r.Context(), feedParam(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

// GET /api/chat
func (h *Handler) recentChat(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	msgs, err := h.svc.RecentMessages(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// POST /api/chat
func (h *Handler) sendChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Nickname string `json:"nickname"`
		Message  string `json:"message"`
	}
	if !decode(w, r, &body) {
		return
	}
	msg, err := h.svc.SendMessage(r.Context(), sessionFrom(r.Context()), body.Nickname, body.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// GET /api/theme
func (h *Handler) getTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.svc.Theme(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// PUT /api/theme
func (h *Handler) setTheme(w http.ResponseWriter, r *http.Request) {
	var upd channel.ThemeUpdate
	if !decode(w, r, &upd) {
		return
	}
	theme, err := h.svc.SetTheme(r.Context(), sessionFrom(r.Context()), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}
