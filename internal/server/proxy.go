package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// hopHeaders are not copied from the upstream response. The body is handed
// on already decoded and re-framed by this server.
var hopHeaders = map[string]bool{
	"content-encoding":  true,
	"content-length":    true,
	"transfer-encoding": true,
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "No URL provided")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch URL: %v", err))
		return
	}
	// Accept-Encoding is left to the transport so compressed bodies are
	// decoded before they are passed on.
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := s.upstream.Do(req)
	if err != nil {
		s.logger.Warn("proxy fetch failed", "url", target, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch URL: %v", err))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch URL: %v", err))
		return
	}

	for key, values := range resp.Header {
		if hopHeaders[strings.ToLower(key)] {
			continue
		}
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html")
	}
	// The page is passed on with 200 whatever the upstream status was; the
	// browser shows upstream error pages as pages.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
