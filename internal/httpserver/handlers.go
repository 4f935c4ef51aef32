package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/oraclabs/trustscore/internal/errors"
	"github.com/oraclabs/trustscore/internal/logger"
	"github.com/oraclabs/trustscore/internal/response"
	"github.com/oraclabs/trustscore/internal/scoring"
	"github.com/oraclabs/trustscore/internal/screener"
	"github.com/oraclabs/trustscore/pkg/responders"
)

// preflight answers OPTIONS * with a bare 204. The CORS headers themselves
// come from corsMiddleware, which adds them to requests carrying an Origin
// header and answers a full CORS preflight itself before this handler runs.
func (h *handlers) preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// root serves the service information document, content-negotiated: JSON
// when the client explicitly prefers it and does not also accept HTML,
// otherwise a minimal HTML landing page.
func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if wantsJSON(accept) {
		responders.JSON(w, http.StatusOK, rootInfo(h.cfg.Facilitator.BaseURL))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(landingPageHTML))
}

// wantsJSON reports whether the client explicitly prefers JSON and has not
// also indicated it accepts HTML — a bare `*/*` or an HTML-inclusive Accept
// header both resolve to the HTML landing page.
func wantsJSON(accept string) bool {
	if accept == "" {
		return false
	}
	if strings.Contains(accept, "text/html") {
		return false
	}
	return strings.Contains(accept, "application/json")
}

type rootInfoDoc struct {
	Service     string            `json:"service"`
	Description string            `json:"description"`
	Pricing     map[string]string `json:"pricing"`
	Endpoints   map[string]string `json:"endpoints"`
	Tiers       map[string]string `json:"tiers"`
	DataSource  string            `json:"data_source"`
	Author      string            `json:"author"`
}

func rootInfo(facilitatorBaseURL string) rootInfoDoc {
	return rootInfoDoc{
		Service:     "trustscore",
		Description: "Paid trust-scoring service for a knowledge graph of software agents.",
		Pricing:     map[string]string{"per_query": "$0.01 USDC"},
		Endpoints: map[string]string{
			"score":  "POST /v1/score",
			"health": "GET /health",
		},
		Tiers: map[string]string{
			"unknown":     "< 0.20",
			"new":         "< 0.40",
			"emerging":    "< 0.60",
			"established": "< 0.80",
			"trusted":     "< 0.95",
			"verified":    ">= 0.95",
		},
		DataSource: "external knowledge graph, read through a shared key-value store",
		Author:     "oraclabs",
	}
}

const landingPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>trustscore</title>
<meta property="og:title" content="trustscore">
<meta property="og:description" content="Paid trust-scoring service for a knowledge graph of software agents.">
</head>
<body>
<h1>trustscore</h1>
<p>Paid trust-scoring service for a knowledge graph of software agents. POST /v1/score with an entity name to begin.</p>
</body>
</html>
`

type healthResponse struct {
	Status string    `json:"status"`
	Graph  graphInfo `json:"graph"`
	Time   time.Time `json:"timestamp"`
}

type graphInfo struct {
	Entities  int `json:"entities"`
	Relations int `json:"relations"`
}

type healthDegradedResponse struct {
	Status string    `json:"status"`
	Error  string    `json:"error"`
	Time   time.Time `json:"timestamp"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loader.Load(r.Context())
	if err != nil {
		responders.JSON(w, http.StatusServiceUnavailable, healthDegradedResponse{
			Status: "degraded",
			Error:  err.Error(),
			Time:   time.Now(),
		})
		return
	}
	h.metrics.SetGraphSize(len(snap.Entities))
	responders.JSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Graph:  graphInfo{Entities: len(snap.Entities), Relations: len(snap.Relations)},
		Time:   time.Now(),
	})
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteSimple(w, errors.NotFound, "not found")
}

func (h *handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	errors.WriteSimple(w, errors.MethodNotAllowed, "method not allowed")
}

type scoreRequest struct {
	Entity  string `json:"entity"`
	Context string `json:"context"`
}

// score implements POST /v1/score: the full payment-gated pipeline —
// payment gate, body parse, graph load, optional context screening, cached
// reputation compute, composite score, response assembly.
func (h *handlers) score(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logger.FromContext(r.Context())

	resourceURL := requestURL(r)
	outcome := h.gate.Check(r.Context(), r, resourceURL)
	if !outcome.Paid {
		h.metrics.ObservePaymentFailure("gate")
		if outcome.Reason == "payment required" {
			// The requirement document is emitted verbatim, not wrapped in the
			// {"error": ...} envelope other failure kinds use.
			responders.JSON(w, errors.PaymentMissing.HTTPStatus(), h.gate.Document(resourceURL))
			return
		}
		log.Warn().Str("reason", outcome.Reason).Msg("payment gate rejected request")
		errors.Write(w, errors.PaymentInvalid, "Payment failed", map[string]any{"reason": outcome.Reason}, nil)
		return
	}

	var body scoreRequest
	if err := decodeJSON(r.Body, &body); err != nil || strings.TrimSpace(body.Entity) == "" {
		h.metrics.ObserveScoreRequest("error", time.Since(start))
		errors.WriteSimple(w, errors.BadRequest, "entity is required")
		return
	}

	snap, err := h.loader.Load(r.Context())
	if err != nil {
		h.metrics.ObserveScoreRequest("error", time.Since(start))
		errors.WriteSimple(w, errors.GraphUnavailable, "knowledge graph unavailable")
		return
	}
	h.metrics.SetGraphSize(len(snap.Entities))

	var safety *screener.Result
	if strings.TrimSpace(body.Context) != "" {
		result := screener.Screen(body.Context)
		safety = &result
		h.metrics.ObserveScreenerVerdict(strings.ToLower(string(result.Verdict)))
	}

	entity, found := snap.ByName()[body.Entity]
	w.Header().Set("X-Payment-Confirmed", "true")

	if !found {
		env := response.AssembleUnknown(body.Entity, safety, outcome.Payer)
		h.metrics.ObserveScoreRequest("not_found", time.Since(start))
		responders.JSON(w, http.StatusOK, env)
		return
	}

	rep := h.reputation.Compute(r.Context(), snap)
	result := scoring.Score(entity, snap, rep, safety)
	env := response.AssembleFound(entity, snap, rep, result, safety, outcome.Payer)
	h.metrics.ObserveScoreRequest("found", time.Since(start))
	responders.JSON(w, http.StatusOK, env)
}

func requestURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.URL.Path
}
