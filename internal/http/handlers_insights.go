package http

import "net/http"

type insightJSON struct {
	Insight string `json:"insight"`
}

// handleInsights always answers 200: generation failures are absorbed by
// the service, which substitutes its fallback text. Only a storage
// problem surfaces as an error.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	text, err := s.insights.Insight(r.Context())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insightJSON{Insight: text})
}
