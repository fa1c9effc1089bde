package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"carteira/internal/core"
	"carteira/internal/report"
)

// ownerHeader identifies the caller. Every /api route requires it.
const ownerHeader = "X-Owner-ID"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reqContext derives a bounded context from the request.
func reqContext(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := reqContext(r, 3*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"requests":            s.tracer.Snapshot(),
		"rate_limit_clients":  s.limiter.ActiveClients(),
		"snapshot_cache_size": s.snapshotCache.Len(),
	})
}

// requireIdentity resolves the owner and record kind for an /api request.
// It writes the error response itself and reports ok=false on failure.
func (s *Server) requireIdentity(w http.ResponseWriter, r *http.Request) (string, core.RecordKind, bool) {
	owner := strings.TrimSpace(r.Header.Get(ownerHeader))
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
		return "", "", false
	}
	kind, err := core.ParseRecordKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown record kind")
		return "", "", false
	}
	return owner, kind, true
}

func (s *Server) cacheKey(owner string, kind core.RecordKind) string {
	return owner + "|" + kind.String()
}

// snapshot returns the cached snapshot for owner/kind, rebuilding on miss.
func (s *Server) snapshot(r *http.Request, owner string, kind core.RecordKind) (report.Snapshot, error) {
	key := s.cacheKey(owner, kind)
	if cached, ok := s.snapshotCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Snapshot cache hit", "owner_id", owner, "kind", kind.String())
		return cached.(report.Snapshot), nil
	}

	ctx, cancel := reqContext(r, 10*time.Second)
	defer cancel()
	snap, err := s.snapshots.Snapshot(ctx, owner, kind)
	if err != nil {
		return report.Snapshot{}, err
	}
	s.snapshotCache.Set(key, snap)
	return snap, nil
}

func (s *Server) handlePivot(w http.ResponseWriter, r *http.Request) {
	owner, kind, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	snap, err := s.snapshot(r, owner, kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "Pivot rebuild failed", "owner_id", owner, "kind", kind.String(), "error", err)
		writeError(w, statusForError(err), "failed to build pivot")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Kind        core.RecordKind   `json:"kind"`
		Pivot       report.PivotTable `json:"pivot"`
		Totals      []decimal.Decimal `json:"totals"`
		TotalDeltas []*float64        `json:"total_deltas"`
	}{snap.Kind, snap.Pivot, snap.Totals, snap.TotalDeltas})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner, kind, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	snap, err := s.snapshot(r, owner, kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary rebuild failed", "owner_id", owner, "kind", kind.String(), "error", err)
		writeError(w, statusForError(err), "failed to build summary")
		return
	}
	writeJSON(w, http.StatusOK, snap.Summary)
}

func (s *Server) handlePercent(w http.ResponseWriter, r *http.Request) {
	owner, kind, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	snap, err := s.snapshot(r, owner, kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "Percent table rebuild failed", "owner_id", owner, "kind", kind.String(), "error", err)
		writeError(w, statusForError(err), "failed to build percent table")
		return
	}
	writeJSON(w, http.StatusOK, report.BuildPercentTable(snap.Pivot))
}

func (s *Server) handleParticipation(w http.ResponseWriter, r *http.Request) {
	owner, kind, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	snap, err := s.snapshot(r, owner, kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "Participation rebuild failed", "owner_id", owner, "kind", kind.String(), "error", err)
		writeError(w, statusForError(err), "failed to build participation")
		return
	}

	// Column index defaults to the latest month; out-of-range values
	// are clamped by the aggregation itself.
	col := len(snap.Pivot.Columns) - 1
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be a column index")
			return
		}
		col = n
	}
	writeJSON(w, http.StatusOK, report.Participation(snap.Pivot, col))
}

type monthItemPayload struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

type saveMonthRequest struct {
	Month string             `json:"month"`
	Items []monthItemPayload `json:"items"`
}

func (s *Server) handleSaveMonth(w http.ResponseWriter, r *http.Request) {
	owner, kind, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req saveMonthRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	items := make([]core.MonthItem, 0, len(req.Items))
	for _, p := range req.Items {
		amount, err := core.ParseAmount(p.Amount)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount for asset "+p.Asset)
			return
		}
		items = append(items, core.MonthItem{Asset: strings.TrimSpace(p.Asset), Amount: amount})
	}

	ctx, cancel := reqContext(r, 10*time.Second)
	defer cancel()
	if err := s.mutations.SaveMonth(ctx, owner, kind, req.Month, items); err != nil {
		slog.ErrorContext(r.Context(), "Save month failed", "owner_id", owner, "kind", kind.String(), "month", req.Month, "error", err)
		writeError(w, statusForError(err), "failed to save month")
		return
	}

	s.snapshotCache.DeletePrefix(s.cacheKey(owner, kind))
	writeJSON(w, http.StatusOK, map[string]string{"month": core.Normalize(req.Month)})
}

func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	owner, kind, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	label := r.PathValue("label")

	ctx, cancel := reqContext(r, 10*time.Second)
	defer cancel()
	if err := s.mutations.DeleteMonth(ctx, owner, kind, label); err != nil {
		slog.ErrorContext(r.Context(), "Delete month failed", "owner_id", owner, "kind", kind.String(), "month", label, "error", err)
		writeError(w, statusForError(err), "failed to delete month")
		return
	}

	s.snapshotCache.DeletePrefix(s.cacheKey(owner, kind))
	w.WriteHeader(http.StatusNoContent)
}
