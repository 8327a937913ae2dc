package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"pricing_insights/internal/app"
	"pricing_insights/internal/domain"
)

func init() {
	// wire format carries prices as bare JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Handlers struct {
	Comparisons *app.ComparisonService
	Latest      *app.LatestExtractService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/pricing/comparison", h.getPricingComparison)
	s.mux.Get("/v1/pricing/latest_extracts", h.listLatestExtracts)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- request parsing / validation ----

var (
	monthRe    = regexp.MustCompile(`^\d{4}-\d{2}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
)

type comparisonRequest struct {
	arrivalMonth time.Time
	currency     string
	hotels       []int64
	yearsAgo     int
	cancellable  *bool
}

// parseComparisonRequest validates the query parameters and returns a
// human-readable detail string on failure.
func parseComparisonRequest(r *http.Request) (comparisonRequest, string) {
	var req comparisonRequest
	q := r.URL.Query()

	month := q.Get("month")
	if month == "" {
		return req, "month is required"
	}
	if !monthRe.MatchString(month) {
		return req, "month must be in format YYYY-MM"
	}
	m, err := time.Parse("2006-01", month)
	if err != nil {
		return req, "month must represent a valid calendar month"
	}
	req.arrivalMonth = m

	req.currency = q.Get("currency")
	if req.currency == "" {
		return req, "currency is required"
	}
	if !currencyRe.MatchString(req.currency) {
		return req, "currency must be a 3-letter uppercase ISO code"
	}

	hotels, detail := parseHotels(q.Get("hotels"))
	if detail != "" {
		return req, detail
	}
	req.hotels = hotels

	ya, err := strconv.Atoi(q.Get("years_ago"))
	if err != nil || ya < 1 || ya > 5 {
		return req, "years_ago must be an integer between 1 and 5"
	}
	req.yearsAgo = ya

	// absent means cancellable-only filtering on
	cancellable := true
	if cs := q.Get("cancellable"); cs != "" {
		b, err := strconv.ParseBool(cs)
		if err != nil {
			return req, "cancellable must be a boolean"
		}
		cancellable = b
	}
	req.cancellable = &cancellable

	return req, ""
}

func parseHotels(raw string) ([]int64, string) {
	if raw == "" {
		return nil, "hotels are required"
	}
	parts := strings.Split(raw, ",")
	if len(parts) < 1 || len(parts) > 10 {
		return nil, "hotels must contain between 1 and 10 items"
	}
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, "hotel identifiers must be positive integers"
		}
		ids = append(ids, id)
	}
	return ids, ""
}

// ---- handlers ----

func (h *Handlers) getPricingComparison(w http.ResponseWriter, r *http.Request) {
	req, detail := parseComparisonRequest(r)
	if detail != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", detail)
		return
	}

	resp, err := h.Comparisons.GetPricingComparison(r.Context(), req.hotels, req.arrivalMonth, req.yearsAgo, req.currency, req.cancellable)
	if err != nil {
		if r.Context().Err() != nil {
			// client went away; nothing useful to write
			return
		}
		log.Error().Err(err).Msg("pricing comparison failed")
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "pricing comparison could not be computed")
		return
	}
	if resp.Prices == nil {
		resp.Prices = []app.PriceRecord{}
	}

	writeJSON(w, r, resp)
}

type latestExtractsResponse struct {
	LatestExtracts []domain.HotelExtractDate `json:"latest_extracts"`
}

func (h *Handlers) listLatestExtracts(w http.ResponseWriter, r *http.Request) {
	hotels, detail := parseHotels(r.URL.Query().Get("hotels"))
	if detail != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", detail)
		return
	}

	rows, err := h.Latest.LatestExtracts(r.Context(), hotels)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		log.Error().Err(err).Msg("latest extracts lookup failed")
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "latest extract dates could not be fetched")
		return
	}
	if rows == nil {
		rows = []domain.HotelExtractDate{}
	}

	writeJSON(w, r, latestExtractsResponse{LatestExtracts: rows})
}
