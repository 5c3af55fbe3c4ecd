package api

import (
	"net/http"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/render"
	"github.com/debemdeboas/draftboard/internal/util"
)

func (h *Handler) themeFor(r *http.Request) string {
	if theme := r.URL.Query().Get("theme"); theme != "" {
		return theme
	}
	return h.syntaxTheme
}

// getBlogHTML renders the stored content. Output is cached per content
// hash and syntax theme.
func (h *Handler) getBlogHTML(w http.ResponseWriter, r *http.Request) {
	blog, err := h.svc.Get(r.Context(), model.BlogID(r.PathValue("id")))
	if err != nil {
		fail(w, r, err, config.ErrFetchBlog)
		return
	}

	theme := h.themeFor(r)
	hash := util.ContentHashString(blog.Content)
	etag := `"` + util.ContentHashString(hash+theme) + `"`

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	rendered := render.RenderMarkdownCached([]byte(blog.Content), hash, theme)

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.Header().Set(config.HETag, etag)
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}

func (h *Handler) syntaxCSS(w http.ResponseWriter, r *http.Request) {
	css, err := render.SyntaxCSS(r.PathValue("theme"))
	if err != nil {
		fail(w, r, err, "Failed to generate stylesheet")
		return
	}

	themeStyle := []byte(css)
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, `"`+util.ContentHash(themeStyle)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}
