package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/equipartition/internal/metrics"
	"github.com/eugenenazirov/equipartition/internal/partition"
	"github.com/eugenenazirov/equipartition/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxValues = 40

// Limits bounds the work a single request may ask for.
type Limits struct {
	MaxValues    int
	MaxSteps     int64
	SolveTimeout time.Duration
}

// Handler wires solver, storage and metrics dependencies into HTTP handlers.
type Handler struct {
	solver   partition.Solver
	storage  storage.Storage
	recorder metrics.Recorder
	logger   *zap.Logger
	limits   Limits

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.recorder = recorder
	}
}

// WithLogger sets the logger used for solve outcomes.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithLimits sets the request limits. A non-positive MaxValues keeps the default.
func WithLimits(limits Limits) HandlerOption {
	return func(h *Handler) {
		if limits.MaxValues <= 0 {
			limits.MaxValues = defaultMaxValues
		}
		h.limits = limits
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(solver partition.Solver, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		solver:   solver,
		storage:  store,
		recorder: metrics.Nop{},
		logger:   zap.NewNop(),
		limits:   Limits{MaxValues: defaultMaxValues},
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLimits(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := limitsResponse{
		MaxValues:      h.limits.MaxValues,
		MaxSteps:       h.limits.MaxSteps,
		SolveTimeoutMs: h.limits.SolveTimeout.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePartition(w http.ResponseWriter, r *http.Request) {
	var req partitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Values == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "values must be provided")
		return
	}
	if len(req.Values) > h.limits.MaxValues {
		details := fmt.Sprintf("at most %d values are accepted, got %d", h.limits.MaxValues, len(req.Values))
		writeError(w, http.StatusBadRequest, "Too many values", details)
		return
	}
	if err := partition.CheckSum(req.Values); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if cached, ok := h.storage.Get(req.Values); ok {
		h.recorder.ObserveCacheLookup(true)
		h.writePartitionResult(w, req.Values, cached, 0, true, 0)
		return
	}
	h.recorder.ObserveCacheLookup(false)

	ctx := r.Context()
	if h.limits.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.limits.SolveTimeout)
		defer cancel()
	}

	start := time.Now()
	p, stats, err := h.solver.SolveWithStats(ctx, req.Values)
	elapsed := time.Since(start)

	outcome := solveOutcome(err)
	h.recorder.ObserveSolve(outcome, len(req.Values), stats.Steps, elapsed)
	h.logger.Debug("partition search finished",
		zap.String("outcome", outcome),
		zap.Int("values", len(req.Values)),
		zap.Int64("steps", stats.Steps),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	switch {
	case err == nil:
		result := storage.Result{Partition: p, Found: true}
		h.storage.Put(req.Values, result)
		h.writePartitionResult(w, req.Values, result, stats.Steps, false, elapsed)
	case errors.Is(err, partition.ErrNoPartition):
		result := storage.Result{}
		h.storage.Put(req.Values, result)
		h.writePartitionResult(w, req.Values, result, stats.Steps, false, elapsed)
	case errors.Is(err, partition.ErrStepLimitExceeded):
		suggestion := fmt.Sprintf("The search gave up after %d steps; try fewer values", stats.Steps)
		writeError(w, http.StatusUnprocessableEntity, "Search limit exceeded", err.Error(), suggestion)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "Search timed out", err.Error())
	default:
		h.logger.Warn("partition search failed", zap.Error(err))
		writeInternalError(w, err)
	}
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Values == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "values must be provided")
		return
	}
	for _, list := range [][]int64{req.Values, req.Left, req.Right} {
		if err := partition.CheckSum(list); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}
	}

	p := partition.Partition{Left: req.Left, Right: req.Right}
	if err := partition.Verify(req.Values, p); err != nil {
		if errors.Is(err, partition.ErrInvalidPartition) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid partition", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Valid:    true,
		LeftSum:  p.LeftSum(),
		RightSum: p.RightSum(),
	})
}

func (h *Handler) writePartitionResult(w http.ResponseWriter, values []int64, result storage.Result, steps int64, cached bool, elapsed time.Duration) {
	if !result.Found {
		writeError(w, http.StatusUnprocessableEntity, "No equal partition", partition.ErrNoPartition.Error(),
			"An equal split needs an even total and a subset summing to half of it")
		return
	}

	resp := partitionResponse{
		Values:            values,
		Left:              result.Partition.Left,
		Right:             result.Partition.Right,
		LeftSum:           result.Partition.LeftSum(),
		RightSum:          result.Partition.RightSum(),
		Steps:             steps,
		Cached:            cached,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func solveOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeFound
	case errors.Is(err, partition.ErrNoPartition):
		return metrics.OutcomeNoPartition
	case errors.Is(err, partition.ErrStepLimitExceeded):
		return metrics.OutcomeLimitExceeded
	default:
		return metrics.OutcomeCancelled
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type partitionRequest struct {
	Values []int64 `json:"values"`
}

type verifyRequest struct {
	Values []int64 `json:"values"`
	Left   []int64 `json:"left"`
	Right  []int64 `json:"right"`
}

type partitionResponse struct {
	Values            []int64 `json:"values"`
	Left              []int64 `json:"left"`
	Right             []int64 `json:"right"`
	LeftSum           int64   `json:"leftSum"`
	RightSum          int64   `json:"rightSum"`
	Steps             int64   `json:"steps"`
	Cached            bool    `json:"cached"`
	CalculationTimeMs int64   `json:"calculationTimeMs"`
}

type verifyResponse struct {
	Valid    bool  `json:"valid"`
	LeftSum  int64 `json:"leftSum"`
	RightSum int64 `json:"rightSum"`
}

type limitsResponse struct {
	MaxValues      int   `json:"maxValues"`
	MaxSteps       int64 `json:"maxSteps"`
	SolveTimeoutMs int64 `json:"solveTimeoutMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
