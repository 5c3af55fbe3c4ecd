// Package api serves the blog REST surface and the change event stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/routes"
	"github.com/debemdeboas/draftboard/internal/sse"
)

const maxBodyBytes = 4 << 20

type BlogService interface {
	ListByStatus(ctx context.Context, status model.Status) ([]model.Blog, error)
	Get(ctx context.Context, id model.BlogID) (*model.Blog, error)
	Stats(ctx context.Context) (model.Stats, error)
	SaveDraft(ctx context.Context, d model.Draft, id model.BlogID) (*model.Blog, error)
	Publish(ctx context.Context, d model.Draft, id model.BlogID) (*model.Blog, error)
	Update(ctx context.Context, id model.BlogID, d model.Draft) (*model.Blog, error)
	Delete(ctx context.Context, id model.BlogID) error
}

var apiLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	apiLogger = l
}

type Handler struct {
	svc         BlogService
	clients     *sse.SSEClients
	syntaxTheme string
}

func NewHandler(svc BlogService, clients *sse.SSEClients, syntaxTheme string) *Handler {
	return &Handler{
		svc:         svc,
		clients:     clients,
		syntaxTheme: syntaxTheme,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+routes.APIBlogs, h.listBlogs)
	mux.HandleFunc("GET "+routes.APIBlogStats, h.stats)
	mux.HandleFunc("GET "+routes.APIBlog, h.getBlog)
	mux.HandleFunc("GET "+routes.APIBlogHTML, h.getBlogHTML)
	mux.HandleFunc("POST "+routes.APISaveDraft, h.saveDraft)
	mux.HandleFunc("POST "+routes.APIPublish, h.publish)
	mux.HandleFunc("PUT "+routes.APIBlog, h.updateBlog)
	mux.HandleFunc("DELETE "+routes.APIBlog, h.deleteBlog)
	mux.HandleFunc("GET "+routes.APIEvents, h.events)
	mux.HandleFunc("GET "+routes.SyntaxTheme, h.syntaxCSS)
	mux.HandleFunc("GET "+routes.Health, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// blogRequest is the body of the write endpoints. Tags may be sent as an
// array or in the editor's comma-separated form.
type blogRequest struct {
	ID      model.BlogID `json:"id,omitempty"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Tags    model.Tags   `json:"tags"`
	Status  model.Status `json:"status,omitempty"`
}

func (b blogRequest) draft() model.Draft {
	return model.Draft{
		Title:   b.Title,
		Content: b.Content,
		Tags:    b.Tags.String(),
		Status:  b.Status,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		apiLogger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps err onto a status code. Validation errors carry their own
// message; anything unexpected is logged and reported as failMsg.
func fail(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, config.ErrBlogNotFound)
	default:
		apiLogger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(failMsg)
		writeError(w, http.StatusInternalServerError, failMsg)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request) (blogRequest, bool) {
	var req blogRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		msg := config.ErrInvalidBody
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			msg = verr.Error()
		}
		writeError(w, http.StatusBadRequest, msg)
		return req, false
	}

	if req.ID != "" {
		if _, err := uuid.Parse(string(req.ID)); err != nil {
			writeError(w, http.StatusBadRequest, (&model.ValidationError{Field: "id", Reason: "must be a UUID"}).Error())
			return req, false
		}
	}
	if req.Status != "" && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, (&model.ValidationError{Field: "status", Reason: "must be draft or published"}).Error())
		return req, false
	}
	return req, true
}

func (h *Handler) listBlogs(w http.ResponseWriter, r *http.Request) {
	status := model.Status(r.URL.Query().Get("status"))
	if status == "all" {
		status = ""
	}

	blogs, err := h.svc.ListByStatus(r.Context(), status)
	if err != nil {
		fail(w, r, err, config.ErrFetchBlogs)
		return
	}
	if blogs == nil {
		blogs = []model.Blog{}
	}
	writeJSON(w, http.StatusOK, blogs)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		fail(w, r, err, config.ErrFetchBlogs)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.svc.Get(r.Context(), model.BlogID(r.PathValue("id")))
	if err != nil {
		fail(w, r, err, config.ErrFetchBlog)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody(w, r)
	if !ok {
		return
	}

	blog, err := h.svc.SaveDraft(r.Context(), req.draft(), req.ID)
	if err != nil {
		fail(w, r, err, config.ErrSaveDraft)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody(w, r)
	if !ok {
		return
	}

	blog, err := h.svc.Publish(r.Context(), req.draft(), req.ID)
	if err != nil {
		fail(w, r, err, config.ErrPublishBlog)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

func (h *Handler) updateBlog(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody(w, r)
	if !ok {
		return
	}

	blog, err := h.svc.Update(r.Context(), model.BlogID(r.PathValue("id")), req.draft())
	if err != nil {
		fail(w, r, err, config.ErrUpdateBlog)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *Handler) deleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), model.BlogID(r.PathValue("id"))); err != nil {
		fail(w, r, err, config.ErrDeleteBlog)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: config.MsgBlogDeleted})
}
