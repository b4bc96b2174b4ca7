package handlers

import (
	"net/http"

	"github.com/cybermozhi/cybermozhi-server/internal/content"
)

// ContentHandler serves the static law and glossary libraries.
type ContentHandler struct{}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

func (h *ContentHandler) ListLaws(w http.ResponseWriter, r *http.Request) {
	laws := content.Laws()
	if act := r.URL.Query().Get("act"); act != "" {
		laws = content.LawsByAct(act)
	}
	writeJSON(w, http.StatusOK, laws)
}

func (h *ContentHandler) ListGlossary(w http.ResponseWriter, r *http.Request) {
	var terms []content.GlossaryTerm
	if q := r.URL.Query().Get("q"); q != "" {
		terms = content.SearchGlossary(q)
	} else {
		terms = content.GlossaryByCategory(r.URL.Query().Get("category"))
	}
	writeJSON(w, http.StatusOK, terms)
}
