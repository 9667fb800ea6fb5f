// Package deal serves the end-to-end analysis endpoints.
package deal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/humblehuman369/dealscope-sub001/pkg/api/httpx"
	"github.com/humblehuman369/dealscope-sub001/pkg/api/session"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/store"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/strategy"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/utils"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/valuation"
)

// AnalyzeResponse wraps a report with the ID it was stored under.
type AnalyzeResponse struct {
	SnapshotID string      `json:"snapshot_id,omitempty"`
	Report     deal.Report `json:"report"`
}

// CompareResponse is every strategy's headline for one property.
type CompareResponse struct {
	Appraisal valuation.Appraisal `json:"appraisal"`
	Headlines []strategy.Headline `json:"headlines"`
}

// BatchItem is one batch entry: a report, or the reason there is none.
type BatchItem struct {
	Report *deal.Report          `json:"report,omitempty"`
	Error  string                `json:"error,omitempty"`
	Fields []validate.FieldError `json:"fields,omitempty"`
}

type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// Options configures a Handler. Repo may be nil, in which case nothing is
// persisted and the snapshot endpoints answer 404.
type Options struct {
	Defaults     assumption.Set
	Repo         store.Repository
	Gate         *session.Gate
	MaxBatch     int
	BatchWorkers int
}

// Handler holds dependencies for deal endpoints
type Handler struct {
	defaults assumption.Set
	repo     store.Repository
	gate     *session.Gate
	validate *validate.Validator
	maxBatch int
	workers  int
}

// NewHandler creates a new deal handler
func NewHandler(opts Options) *Handler {
	gate := opts.Gate
	if gate == nil {
		gate = session.NewGate()
	}
	return &Handler{
		defaults: opts.Defaults,
		repo:     opts.Repo,
		gate:     gate,
		validate: validate.New(),
		maxBatch: max(opts.MaxBatch, 1),
		workers:  max(opts.BatchWorkers, 1),
	}
}

// Register mounts the endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/deal/analyze", h.HandleAnalyze)
	mux.HandleFunc("/api/deal/compare", h.HandleCompare)
	mux.HandleFunc("/api/deal/batch", h.HandleBatch)
	mux.HandleFunc("/api/deal/snapshots", h.HandleSnapshots)
	mux.HandleFunc("/api/deal/snapshot", h.HandleSnapshot)
	mux.HandleFunc("/api/assumptions/defaults", h.HandleDefaults)
}

// decodeInput reads a deal.Input. Assumption fields the body omits keep the
// configured defaults.
func (h *Handler) decodeInput(r *http.Request) (deal.Input, error) {
	in := deal.Input{Assumptions: h.defaults}
	if err := httpx.Decode(r, &in); err != nil {
		return deal.Input{}, err
	}
	return in, nil
}

// gateSession claims the caller's session slot. Requests without a session
// header are not gated.
func (h *Handler) gateSession(w http.ResponseWriter, r *http.Request) (release func(), ok bool) {
	id := r.Header.Get(httpx.SessionHeader)
	if id == "" {
		return func() {}, true
	}
	release, ok = h.gate.TryAcquire(id)
	if !ok {
		log.Warn().Str("session", id).Str("path", r.URL.Path).Msg("Session busy")
		httpx.WriteError(w, http.StatusTooManyRequests, "a calculation is already running for this session")
		return nil, false
	}
	return release, true
}

// HandleAnalyze runs one analysis and stores a snapshot when a repository
// is configured.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") || !httpx.AllowMethod(w, r, http.MethodPost) {
		return
	}

	in, err := h.decodeInput(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.DealInput(in); err != nil {
		httpx.WriteInvalid(w, err)
		return
	}

	release, ok := h.gateSession(w, r)
	if !ok {
		return
	}
	defer release()

	start := time.Now()
	report, err := deal.Analyze(in)
	if err != nil {
		httpx.WriteInvalid(w, err)
		return
	}

	resp := AnalyzeResponse{Report: report}
	if id, err := h.save(r.Context(), r.Header.Get(httpx.SessionHeader), in, report); err != nil {
		log.Error().Err(err).Msg("Failed to save snapshot")
	} else {
		resp.SnapshotID = id
	}

	log.Info().
		Str("strategy", string(report.Strategy)).
		Int("score", report.Headline.Score).
		Str("grade", string(report.Headline.Grade)).
		Dur("elapsed", time.Since(start)).
		Msg("Deal analyzed")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) save(ctx context.Context, sessionID string, in deal.Input, report deal.Report) (string, error) {
	if h.repo == nil {
		return "", nil
	}
	snap, err := store.NewSnapshot(sessionID, in, report)
	if err != nil {
		return "", err
	}
	if err := h.repo.Save(ctx, snap); err != nil {
		return "", err
	}
	return snap.ID, nil
}

// HandleCompare scores the property under every strategy. The request's
// strategy field is ignored.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") || !httpx.AllowMethod(w, r, http.MethodPost) {
		return
	}

	in, err := h.decodeInput(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Strategy = strategy.LongTermRental
	if err := h.validate.DealInput(in); err != nil {
		httpx.WriteInvalid(w, err)
		return
	}

	release, ok := h.gateSession(w, r)
	if !ok {
		return
	}
	defer release()

	appraisal := valuation.Appraise(valuation.AppraisalInput{
		Subject:            in.Subject,
		SaleComps:          in.SaleComps,
		RentalComps:        in.RentalComps,
		ImprovementPremium: in.ImprovementPremium,
	})
	results := strategy.CalculateAll(deal.StrategyInput(in, appraisal))

	resp := CompareResponse{Appraisal: appraisal}
	for _, s := range strategy.All() {
		resp.Headlines = append(resp.Headlines, strategy.ExtractHeadline(results[s]))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleBatch analyzes independent requests concurrently. One bad entry
// does not fail the others.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "POST") || !httpx.AllowMethod(w, r, http.MethodPost) {
		return
	}

	var body json.RawMessage
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	requests, err := batchRequests(body)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(requests) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "requests is empty")
		return
	}
	if len(requests) > h.maxBatch {
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("batch exceeds %d requests", h.maxBatch))
		return
	}

	release, ok := h.gateSession(w, r)
	if !ok {
		return
	}
	defer release()

	items := make([]BatchItem, len(requests))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.workers)
	for i, req := range requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = h.analyzeOne(req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	log.Info().Int("requests", len(items)).Msg("Batch analyzed")
	httpx.WriteJSON(w, http.StatusOK, BatchResponse{Results: items})
}

// batchRequests accepts a bare array of inputs or {"requests": [...]}.
func batchRequests(body json.RawMessage) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Requests []json.RawMessage `json:"requests"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("batch body must be an array or {\"requests\": [...]}: %w", err)
	}
	return wrapped.Requests, nil
}

func (h *Handler) analyzeOne(body json.RawMessage) BatchItem {
	in := deal.Input{Assumptions: h.defaults}
	if _, err := utils.SmartParse(body, &in); err != nil {
		return BatchItem{Error: "invalid request: " + err.Error()}
	}
	if err := h.validate.DealInput(in); err != nil {
		item := BatchItem{Error: err.Error()}
		var verr *validate.Error
		if errors.As(err, &verr) {
			item.Fields = verr.Fields
		}
		return item
	}
	report, err := deal.Analyze(in)
	if err != nil {
		return BatchItem{Error: err.Error()}
	}
	return BatchItem{Report: &report}
}

// HandleSnapshots lists the caller's stored analyses, newest first.
func (h *Handler) HandleSnapshots(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET") || !httpx.AllowMethod(w, r, http.MethodGet) {
		return
	}
	if h.repo == nil {
		httpx.WriteError(w, http.StatusNotFound, "snapshot storage is not configured")
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = r.Header.Get(httpx.SessionHeader)
	}
	if sessionID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "session is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	snaps, err := h.repo.ListBySession(r.Context(), sessionID, limit)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("Failed to list snapshots")
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	httpx.WriteJSON(w, http.StatusOK, snaps)
}

// HandleSnapshot returns one stored analysis by ID.
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET") || !httpx.AllowMethod(w, r, http.MethodGet) {
		return
	}
	if h.repo == nil {
		httpx.WriteError(w, http.StatusNotFound, "snapshot storage is not configured")
		return
	}

	snap, err := h.repo.Get(r.Context(), r.URL.Query().Get("id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to load snapshot")
		httpx.WriteError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, snap)
}

// HandleDefaults returns the assumption set requests start from.
func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, "GET") || !httpx.AllowMethod(w, r, http.MethodGet) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.defaults)
}
