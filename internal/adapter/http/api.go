package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/nndss-dashboard/internal/adapter/xlsx"
	"github.com/couchcryptid/nndss-dashboard/internal/dashboard"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

const noDataMessage = "No data available for this selection."

type rankingQuery struct {
	Year int `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Week int `json:"week" validate:"omitempty,min=1,max=53"`
	N    int `json:"n" validate:"omitempty,min=1,max=50"`
}

type changeQuery struct {
	Disease  string `json:"disease" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=100"`
	Year     int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Week     int    `json:"week" validate:"omitempty,min=1,max=53"`
}

type viewQuery struct {
	Disease string `json:"disease" validate:"required,max=200"`
	Metric  string `json:"metric" validate:"omitempty,oneof=case_count published_rate"`
}

type selectionQuery struct {
	Disease  string `json:"disease" validate:"omitempty,max=200"`
	Location string `json:"location" validate:"omitempty,max=100"`
}

// newValidator reports field errors by their query parameter names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	s.metrics.Requests.WithLabelValues("options", "ok").Inc()
	writeJSON(w, http.StatusOK, s.dash.Options())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := selectionQuery{
		Disease:  r.URL.Query().Get("disease"),
		Location: r.URL.Query().Get("location"),
	}
	if !s.check(w, "dashboard", q) {
		return
	}
	vm, err := s.dash.Render(r.Context(), dashboard.Selection(q))
	s.respond(w, "dashboard", vm, err)
}

func (s *Server) handleWeeklyRanking(w http.ResponseWriter, r *http.Request) {
	var q rankingQuery
	if !s.parse(w, "weekly_ranking", parseInts(r, map[string]*int{"year": &q.Year, "week": &q.Week, "n": &q.N})) ||
		!s.check(w, "weekly_ranking", q) {
		return
	}
	entries, err := s.dash.WeeklyRanking(q.Year, q.Week, q.N)
	s.respond(w, "weekly_ranking", entries, err)
}

func (s *Server) handleAnnualRanking(w http.ResponseWriter, r *http.Request) {
	var q rankingQuery
	if !s.parse(w, "annual_ranking", parseInts(r, map[string]*int{"year": &q.Year, "n": &q.N})) ||
		!s.check(w, "annual_ranking", q) {
		return
	}
	entries, err := s.dash.AnnualRanking(q.Year, q.N)
	s.respond(w, "annual_ranking", entries, err)
}

func (s *Server) handleWeeklyChange(w http.ResponseWriter, r *http.Request) {
	q := changeQuery{Disease: r.URL.Query().Get("disease"), Location: r.URL.Query().Get("location")}
	if !s.parse(w, "weekly_change", parseInts(r, map[string]*int{"year": &q.Year, "week": &q.Week})) ||
		!s.check(w, "weekly_change", q) {
		return
	}
	result, err := s.dash.WeeklyChange(dashboard.Selection{Disease: q.Disease, Location: q.Location}, q.Year, q.Week)
	s.respond(w, "weekly_change", comparisonResponse(result), err)
}

func (s *Server) handleYearlyChange(w http.ResponseWriter, r *http.Request) {
	q := changeQuery{Disease: r.URL.Query().Get("disease"), Location: r.URL.Query().Get("location")}
	if !s.parse(w, "yearly_change", parseInts(r, map[string]*int{"year": &q.Year})) ||
		!s.check(w, "yearly_change", q) {
		return
	}
	result, err := s.dash.YearlyChange(dashboard.Selection{Disease: q.Disease, Location: q.Location}, q.Year)
	s.respond(w, "yearly_change", comparisonResponse(result), err)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q, ok := s.viewQuery(w, r, "map")
	if !ok {
		return
	}
	view, err := s.dash.Map(q.Disease, domain.Metric(q.Metric))
	s.respond(w, "map", view, err)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	q, ok := s.viewQuery(w, r, "trend")
	if !ok {
		return
	}
	points, err := s.dash.Trend(q.Disease, domain.Metric(q.Metric))
	s.respond(w, "trend", points, err)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := selectionQuery{
		Disease:  r.URL.Query().Get("disease"),
		Location: r.URL.Query().Get("location"),
	}
	if !s.check(w, "export", q) {
		return
	}
	vm, err := s.dash.Render(r.Context(), dashboard.Selection(q))
	if err != nil {
		s.respond(w, "export", nil, err)
		return
	}
	f, err := xlsx.Export(vm)
	if err != nil {
		s.respond(w, "export", nil, err)
		return
	}
	defer f.Close() //nolint:errcheck // in-memory workbook

	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="nndss-dashboard.xlsx"`)
	if err := f.Write(w); err != nil {
		s.logger.Error("write export failed", "error", err)
		return
	}
	s.metrics.Requests.WithLabelValues("export", "ok").Inc()
}

func (s *Server) viewQuery(w http.ResponseWriter, r *http.Request, endpoint string) (viewQuery, bool) {
	q := viewQuery{Disease: r.URL.Query().Get("disease"), Metric: r.URL.Query().Get("metric")}
	if !s.check(w, endpoint, q) {
		return q, false
	}
	if q.Metric == "" {
		q.Metric = string(domain.MetricCaseCount)
	}
	return q, true
}

type comparison struct {
	domain.ComparisonResult
	Annotation string `json:"annotation"`
}

func comparisonResponse(c domain.ComparisonResult) comparison {
	return comparison{ComparisonResult: c, Annotation: c.Annotation()}
}

// parseInts fills the targets from integer query parameters. Absent
// parameters leave the target at zero.
func parseInts(r *http.Request, targets map[string]*int) error {
	var errs []error
	for name, dst := range targets {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be an integer", name))
			continue
		}
		*dst = n
	}
	return errors.Join(errs...)
}

func (s *Server) parse(w http.ResponseWriter, endpoint string, err error) bool {
	if err == nil {
		return true
	}
	s.badRequest(w, endpoint, err.Error())
	return false
}

func (s *Server) check(w http.ResponseWriter, endpoint string, q any) bool {
	err := s.validate.Struct(q)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		s.badRequest(w, endpoint, err.Error())
		return false
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	s.badRequest(w, endpoint, strings.Join(msgs, "; "))
	return false
}

func (s *Server) badRequest(w http.ResponseWriter, endpoint, msg string) {
	s.metrics.Requests.WithLabelValues(endpoint, "bad_request").Inc()
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// respond maps computation errors onto status codes. A selection without
// data is a 404 carrying the placeholder text.
func (s *Server) respond(w http.ResponseWriter, endpoint string, v any, err error) {
	switch {
	case err == nil:
		s.metrics.Requests.WithLabelValues(endpoint, "ok").Inc()
		writeJSON(w, http.StatusOK, v)
	case errors.Is(err, domain.ErrNoDataForSelection):
		s.metrics.Requests.WithLabelValues(endpoint, "no_data").Inc()
		writeJSON(w, http.StatusNotFound, map[string]any{"no_data": true, "message": noDataMessage})
	case errors.Is(err, domain.ErrInvalidMetric):
		s.badRequest(w, endpoint, err.Error())
	default:
		s.metrics.Requests.WithLabelValues(endpoint, "error").Inc()
		s.logger.Error("request failed", "endpoint", endpoint, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
