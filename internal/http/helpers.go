package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finanmaster/internal/core"
	"finanmaster/internal/engine"
)

// timeNow is stubbed in tests to pin the analysis window.
var timeNow = time.Now

// userIDFrom resolves the acting user from the X-User-ID header. When the
// header is absent the server's configured default applies; a default of 0
// means anonymous, which the engine answers with a zeroed summary.
func (s *Server) userIDFrom(r *http.Request) int64 {
	if v := strings.TrimSpace(r.Header.Get("X-User-ID")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return s.defaultUserID
}

// parseAmount reads a money value that may arrive either as a JSON number
// (45.5) or as a decimal string ("45,50") and converts it to cents.
func parseAmount(raw json.RawMessage) (core.Money, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return core.Money{}, core.ErrInvalidAmount
		}
	}
	cents, err := core.ParseDecimalToCents(text)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parsePeriodParam reads the period query parameter, defaulting per
// engine.ParsePeriod.
func parsePeriodParam(r *http.Request) (engine.Period, error) {
	return engine.ParsePeriod(strings.TrimSpace(r.URL.Query().Get("period")))
}

// parseYearMonth extracts year and month from query parameters.
// Returns current year/month as defaults if not provided or invalid.
func parseYearMonth(r *http.Request) (year, month int) {
	now := timeNow()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}

	return year, month
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// pathID reads the {id} path value as a positive integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
