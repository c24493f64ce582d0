// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/arena/internal/domain/registry"
)

// PapersDependencies defines the interface for paper navigation.
type PapersDependencies interface {
	Papers() *registry.Registry
}

// PapersHandler handles paper lookup and navigation requests.
type PapersHandler struct {
	deps PapersDependencies
	rng  *rand.Rand
}

// NewPapersHandler creates a new papers handler.
func NewPapersHandler(deps PapersDependencies) *PapersHandler {
	return &PapersHandler{
		deps: deps,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// paperResponse is the wire shape for a single paper with its position.
type paperResponse struct {
	Position  int      `json:"position"`
	Total     int      `json:"total"`
	PaperID   string   `json:"paper_id"`
	Title     string   `json:"title"`
	PDFPath   string   `json:"pdf_path,omitempty"`
	Reviewers []string `json:"reviewers"`
}

// HandleGetPaper handles GET /papers/{pos} requests.
func (h *PapersHandler) HandleGetPaper(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_paper"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /papers/
	posStr := strings.TrimPrefix(r.URL.Path, "/papers/")
	if posStr == "" || strings.Contains(posStr, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	pos, err := strconv.Atoi(posStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	h.writePaperAt(w, op, pos)
}

// HandleGetNext handles GET /papers/next?pos=N&dir=next|prev requests.
// Navigation wraps around both ends. Without pos it samples a random paper.
func (h *PapersHandler) HandleGetNext(w http.ResponseWriter, r *http.Request) {
	const op = "api.next_paper"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	papers := h.deps.Papers()

	posStr := r.URL.Query().Get("pos")
	if posStr == "" {
		pos, err := papers.SamplePosition(h.rng)
		if err != nil {
			writeError(w, http.StatusNotFound, "empty_registry", err)
			return
		}
		h.writePaperAt(w, op, pos)
		return
	}

	cur, err := strconv.Atoi(posStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var pos int
	switch r.URL.Query().Get("dir") {
	case "", "next":
		pos, err = papers.NextPosition(cur)
	case "prev":
		pos, err = papers.PreviousPosition(cur)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err != nil {
		h.writeRegistryError(w, op, err)
		return
	}
	h.writePaperAt(w, op, pos)
}

func (h *PapersHandler) writePaperAt(w http.ResponseWriter, op string, pos int) {
	papers := h.deps.Papers()
	p, err := papers.At(pos)
	if err != nil {
		h.writeRegistryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, paperResponse{
		Position:  pos,
		Total:     papers.Count(),
		PaperID:   p.PaperID,
		Title:     p.Title,
		PDFPath:   p.PDFPath,
		Reviewers: p.ValidReviewerIDs(),
	})
}

func (h *PapersHandler) writeRegistryError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, registry.ErrOutOfBounds):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, registry.ErrEmptyRegistry):
		writeError(w, http.StatusNotFound, "empty_registry", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
