package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/service"
	"github.com/debemdeboas/draftboard/internal/sse"
)

const keepAliveInterval = 25 * time.Second

// events streams "created|updated|deleted:<id>" messages. The optional
// ?blog= parameter narrows the stream to one blog.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, config.HTTPErrStreaming, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeSSE)
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	client := sse.NewClient(model.BlogID(r.URL.Query().Get("blog")))
	h.clients.Add(client)

	apiLogger.Debug().Str("blog_id", string(client.BlogID)).Msg("SSE client connected")

	defer func() {
		h.clients.Delete(client)
		apiLogger.Debug().Str("blog_id", string(client.BlogID)).Msg("SSE client disconnected")
	}()

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	notify := r.Context().Done()
	for {
		select {
		case msg, ok := <-client.Msg:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-notify:
			return
		}
	}
}

// Broadcaster forwards service events to the connected stream clients.
func Broadcaster(clients *sse.SSEClients) service.Notifier {
	return func(e service.Event) {
		clients.Broadcast(e.ID, e.String())
	}
}
