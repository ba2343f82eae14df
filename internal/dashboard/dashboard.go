package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/nndss-dashboard/internal/analytics"
	"github.com/couchcryptid/nndss-dashboard/internal/dataset"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
	"github.com/couchcryptid/nndss-dashboard/internal/observability"
)

// Publisher receives every rendered view. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event ViewEvent) error
}

// Periods are the reference periods the dashboard reports on. Zero
// comparison fields are resolved from the clock on every render.
type Periods struct {
	RankingWeekYear int
	RankingWeek     int
	RankingYear     int
	ComparisonYear  int
	ComparisonWeek  int
	TopN            int
}

// Selection is what the viewer has chosen in the dashboard controls.
type Selection struct {
	Disease  string `json:"disease"`
	Location string `json:"location"`
}

// Options are the values offered by the selection controls.
type Options struct {
	Diseases  []string        `json:"diseases"`
	Locations []string        `json:"locations"`
	Metrics   []domain.Metric `json:"metrics"`
}

// Service recomputes the dashboard from the loaded tables on demand.
type Service struct {
	tables    *dataset.Tables
	periods   Periods
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service. Pass a nil publisher to disable view events.
func NewService(tables *dataset.Tables, periods Periods, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if periods.TopN <= 0 {
		periods.TopN = domain.DefaultTopN
	}
	metrics.TableRows.WithLabelValues("weekly").Set(float64(tables.Weekly.Len()))
	metrics.TableRows.WithLabelValues("annual").Set(float64(tables.Annual.Len()))
	return &Service{
		tables:    tables,
		periods:   periods,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once both tables hold rows.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.tables.Weekly.Len() == 0 || s.tables.Annual.Len() == 0 {
		return errors.New("surveillance tables are empty")
	}
	return nil
}

// Options lists the selectable diseases and locations.
func (s *Service) Options() Options {
	return Options{
		Diseases:  s.tables.Annual.Diseases(),
		Locations: s.tables.Annual.States(),
		Metrics:   []domain.Metric{domain.MetricCaseCount, domain.MetricPublishedRate},
	}
}

// DefaultSelection is the first disease and the first location.
func (s *Service) DefaultSelection() Selection {
	return s.withDefaults(Selection{})
}

func (s *Service) withDefaults(sel Selection) Selection {
	if sel.Disease == "" {
		if d := s.tables.Annual.Diseases(); len(d) > 0 {
			sel.Disease = d[0]
		}
	}
	if sel.Location == "" {
		if l := s.tables.Annual.States(); len(l) > 0 {
			sel.Location = l[0]
		}
	}
	return sel
}

// ComparisonWeek returns the resolved (year, week) for week-over-week changes.
func (s *Service) ComparisonWeek() (int, int) {
	return domain.ReferenceWeek(domain.Clock().Now(), s.periods.ComparisonYear, s.periods.ComparisonWeek)
}

// ComparisonYear returns the resolved year for year-over-year changes.
func (s *Service) ComparisonYear() int {
	year, _ := s.ComparisonWeek()
	return year
}

// WeeklyRanking ranks diseases for an MMWR week. Zero arguments use the
// configured reference period.
func (s *Service) WeeklyRanking(year, week, n int) ([]domain.RankingEntry, error) {
	year = orDefault(year, s.periods.RankingWeekYear)
	week = orDefault(week, s.periods.RankingWeek)
	return analytics.TopDiseasesByWeek(s.tables.Weekly, year, week, orDefault(n, s.periods.TopN))
}

// AnnualRanking ranks diseases by year-to-date totals. Zero arguments use the
// configured reference period.
func (s *Service) AnnualRanking(year, n int) ([]domain.RankingEntry, error) {
	year = orDefault(year, s.periods.RankingYear)
	return analytics.TopDiseasesByYear(s.tables.Weekly, year, orDefault(n, s.periods.TopN))
}

// WeeklyChange compares the selection's week against the week before. Zero
// arguments use the reference week.
func (s *Service) WeeklyChange(sel Selection, year, week int) (domain.ComparisonResult, error) {
	refYear, refWeek := s.ComparisonWeek()
	return analytics.WeekOverWeek(s.tables.Weekly, orDefault(year, refYear), orDefault(week, refWeek), sel.Location, sel.Disease)
}

// YearlyChange compares the selection's year against the year before. A zero
// year uses the reference year.
func (s *Service) YearlyChange(sel Selection, year int) (domain.ComparisonResult, error) {
	return analytics.YearOverYear(s.tables.Annual, orDefault(year, s.ComparisonYear()), sel.Location, sel.Disease)
}

// Map builds a choropleth for a disease.
func (s *Service) Map(disease string, metric domain.Metric) (analytics.MapView, error) {
	return analytics.BuildMap(s.tables.Annual, disease, metric)
}

// Trend builds a yearly trend line for a disease.
func (s *Service) Trend(disease string, metric domain.Metric) ([]domain.TrendPoint, error) {
	return analytics.TrendSeries(s.tables.Annual, disease, metric)
}

// Render recomputes the whole view-model for a selection. Empty selection
// fields fall back to the defaults. Panels whose selection matches no data
// are returned as placeholders; only unexpected failures are errors.
func (s *Service) Render(ctx context.Context, sel Selection) (ViewModel, error) {
	return s.render(ctx, "", s.withDefaults(sel))
}

func (s *Service) render(ctx context.Context, sessionID string, sel Selection) (ViewModel, error) {
	start := time.Now()
	vm := ViewModel{Selection: sel, GeneratedAt: domain.Clock().Now().UTC()}

	var err error
	if vm.WeeklyTop, err = s.WeeklyRanking(0, 0, 0); err != nil {
		return ViewModel{}, fmt.Errorf("weekly ranking: %w", err)
	}
	if vm.AnnualTop, err = s.AnnualRanking(0, 0); err != nil {
		return ViewModel{}, fmt.Errorf("annual ranking: %w", err)
	}

	caseMap, err := s.Map(sel.Disease, domain.MetricCaseCount)
	if vm.CaseMap, err = toPanel(s, "case_map", caseMap, err, "Disease Cases Across the U.S. by State for "+sel.Disease); err != nil {
		return ViewModel{}, err
	}
	rateMap, err := s.Map(sel.Disease, domain.MetricPublishedRate)
	if vm.RateMap, err = toPanel(s, "rate_map", rateMap, err, "Case Rates Across the U.S. by State for "+sel.Disease); err != nil {
		return ViewModel{}, err
	}
	caseTrend, err := s.Trend(sel.Disease, domain.MetricCaseCount)
	if vm.CaseTrend, err = toPanel(s, "case_trend", caseTrend, err, "Total Cases of "+sel.Disease+" by Year"); err != nil {
		return ViewModel{}, err
	}
	rateTrend, err := s.Trend(sel.Disease, domain.MetricPublishedRate)
	if vm.RateTrend, err = toPanel(s, "rate_trend", rateTrend, err, "Case Rates of "+sel.Disease+" by Year"); err != nil {
		return ViewModel{}, err
	}

	weekly, err := s.WeeklyChange(sel, 0, 0)
	if vm.WeeklyChange, err = toPanel(s, "weekly_change", weekly, err, weekly.Annotation()); err != nil {
		return ViewModel{}, err
	}
	yearly, err := s.YearlyChange(sel, 0)
	if vm.YearlyChange, err = toPanel(s, "yearly_change", yearly, err, yearly.Annotation()); err != nil {
		return ViewModel{}, err
	}

	s.metrics.Renders.Inc()
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	s.publish(ctx, sessionID, vm)
	return vm, nil
}

func (s *Service) publish(ctx context.Context, sessionID string, vm ViewModel) {
	if s.publisher == nil {
		return
	}
	event := ViewEvent{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		Selection:    vm.Selection,
		GeneratedAt:  vm.GeneratedAt,
		WeeklyChange: vm.WeeklyChange.Data,
		YearlyChange: vm.YearlyChange.Data,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish view event failed", "error", err, "event_id", event.ID)
		return
	}
	s.metrics.EventsPublished.Inc()
}

// toPanel turns a computation result into a panel. A no-data error becomes a
// placeholder; any other error is returned.
func toPanel[T any](s *Service, name string, v T, err error, caption string) (Panel[T], error) {
	switch {
	case err == nil:
		return Panel[T]{Data: &v, Caption: caption}, nil
	case errors.Is(err, domain.ErrNoDataForSelection):
		s.metrics.NoData.WithLabelValues(name).Inc()
		s.logger.Debug("panel has no data", "panel", name, "reason", err)
		return Panel[T]{NoData: true, Message: "No data available for this selection."}, nil
	default:
		return Panel[T]{}, fmt.Errorf("%s: %w", name, err)
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
