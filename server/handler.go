package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/auth"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/metrics"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/nft"
)

const (
	maxMintBodyBytes = 4096
	defaultListLimit = 20
	maxListLimit     = 100
)

// Registry is the part of nft.Registry the handlers call.
type Registry interface {
	Create(ctx context.Context, owner, title, media string) (uint32, error)
	Total(ctx context.Context) (uint32, error)
	OwnerOf(ctx context.Context, id uint32) (string, error)
	TitleOf(ctx context.Context, id uint32) (string, error)
	MediaRefOf(ctx context.Context, id uint32) (string, error)
	Token(ctx context.Context, id uint32) (*nft.Token, error)
	List(ctx context.Context, offset, limit uint32) ([]*nft.Token, error)
}

type Handler struct {
	registry Registry
	verifier auth.Verifier
	metrics  *metrics.Metrics
}

func NewHandler(registry Registry, verifier auth.Verifier, m *metrics.Metrics) *Handler {
	return &Handler{
		registry: registry,
		verifier: verifier,
		metrics:  m,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/tokens", h.HandleMint)
	r.Get("/tokens", h.HandleList)
	r.Get("/tokens/total", h.HandleTotal)
	r.Get("/tokens/{id}", h.HandleToken)
	r.Get("/tokens/{id}/owner", h.HandleOwner)
	r.Get("/tokens/{id}/title", h.HandleTitle)
	r.Get("/tokens/{id}/media", h.HandleMedia)
}

type mintRequest struct {
	Owner     string `json:"owner"`
	Title     string `json:"title"`
	Media     string `json:"media"`
	Timestamp int64  `json:"timestamp"`
	Nonce     string `json:"nonce"`
}

// HandleMint handles POST /tokens. The raw body is what the owner signs.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMintBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	var req mintRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	if err := h.verifier.ValidatePrincipal(req.Owner); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_OWNER", err)
		return
	}
	title, err := nft.NormalizeSymbol(req.Title)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_NAME", err)
		return
	}
	media, err := nft.NormalizeSymbol(req.Media)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_IMAGE_ID", err)
		return
	}

	err = h.verifier.Verify(ctx, &auth.Invocation{
		Principal: req.Owner,
		Timestamp: time.Unix(req.Timestamp, 0),
		Nonce:     req.Nonce,
		Payload:   body,
		Header:    r.Header,
	})
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	ctx = nft.WithAuthorizedPrincipal(ctx, req.Owner)
	id, err := h.registry.Create(ctx, req.Owner, title, media)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	h.metrics.IncrementMinted()
	logger.Verbosef("HandleMint(%s, %s, %s) => %d\n", req.Owner, title, media, id)
	writeJSON(w, http.StatusCreated, map[string]uint32{"id": id})
}

func (h *Handler) HandleTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.registry.Total(r.Context())
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint32{"total": total})
}

// HandleList handles GET /tokens?offset=&limit= in id order.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, err := parseQueryUint32(r, "offset", 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_OFFSET", err)
		return
	}
	limit, err := parseQueryUint32(r, "limit", defaultListLimit)
	if err != nil || limit > maxListLimit {
		h.writeError(w, http.StatusBadRequest, "INVALID_LIMIT", errors.New("limit must be between 0 and 100"))
		return
	}
	tokens, err := h.registry.List(r.Context(), offset, limit)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	if tokens == nil {
		tokens = []*nft.Token{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tokens": tokens})
}

func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseId(w, r)
	if !ok {
		return
	}
	tkn, err := h.registry.Token(r.Context(), id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tkn)
}

func (h *Handler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	h.handleField(w, r, "owner", h.registry.OwnerOf)
}

func (h *Handler) HandleTitle(w http.ResponseWriter, r *http.Request) {
	h.handleField(w, r, "title", h.registry.TitleOf)
}

func (h *Handler) HandleMedia(w http.ResponseWriter, r *http.Request) {
	h.handleField(w, r, "media", h.registry.MediaRefOf)
}

func (h *Handler) handleField(w http.ResponseWriter, r *http.Request, name string, read func(context.Context, uint32) (string, error)) {
	id, ok := h.parseId(w, r)
	if !ok {
		return
	}
	val, err := read(r.Context(), id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, name: val})
}

func (h *Handler) parseId(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", err)
		return 0, false
	}
	return uint32(id), true
}

func parseQueryUint32(r *http.Request, name string, def uint32) (uint32, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

func (h *Handler) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nft.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err)
	case errors.Is(err, nft.ErrNonexistentRecord):
		h.writeError(w, http.StatusNotFound, "NONEXISTENT_RECORD", err)
	case errors.Is(err, nft.ErrCounterExhausted):
		h.writeError(w, http.StatusServiceUnavailable, "COUNTER_EXHAUSTED", err)
	case errors.Is(err, badger.ErrConflict):
		h.writeError(w, http.StatusConflict, "CONFLICT", errors.New("concurrent mint, retry with a new nonce"))
	default:
		logger.Printf("registry error %v\n", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL", errors.New("internal error"))
	}
}

var rejectionReasons = map[int]string{
	http.StatusBadRequest:          "invalid_input",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusNotFound:            "nonexistent",
	http.StatusConflict:            "conflict",
	http.StatusServiceUnavailable:  "exhausted",
	http.StatusInternalServerError: "internal",
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code string, err error) {
	h.metrics.IncrementRejection(rejectionReasons[status])
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		logger.Printf("writeJSON %v\n", err)
	}
}
