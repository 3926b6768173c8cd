package web

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

type resourceHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newResourceHub() *resourceHub {
	return &resourceHub{subs: map[chan struct{}]struct{}{}}
}

func (h *resourceHub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

func (h *resourceHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

const keepAliveInterval = 25 * time.Second

// handleEvents streams Datastar patches: the tile grid and the body's theme class.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.hub.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	push := func() {
		vm, err := s.pageVM()
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		html, err := s.renderTemplate("tiles_main", vm)
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		if strings.TrimSpace(html) != "" {
			_ = sse.PatchElements(html, datastar.WithSelector("#tiles-main"), datastar.WithMode(datastar.ElementPatchModeOuter))
		}
		_ = sse.ExecuteScript(fmt.Sprintf(`document.body.className = %q`, vm.BodyClass))
		_ = sse.MarshalAndPatchSignals(map[string]any{"theme": string(vm.Theme), "tiles": len(vm.Tiles)})
	}

	// Initial snapshot so a page that loaded just before a change is never stale.
	push()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			push()
		}
	}
}
