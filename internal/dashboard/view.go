package dashboard

import (
	"time"

	"github.com/couchcryptid/nndss-dashboard/internal/analytics"
	"github.com/couchcryptid/nndss-dashboard/internal/domain"
)

// Panel is one chart of the dashboard. Exactly one of Data or NoData is set.
type Panel[T any] struct {
	Data    *T     `json:"data,omitempty"`
	Caption string `json:"caption,omitempty"`
	NoData  bool   `json:"no_data"`
	Message string `json:"message,omitempty"`
}

// ViewModel is everything the presentation layer needs to draw the dashboard
// for one selection.
type ViewModel struct {
	Selection    Selection                      `json:"selection"`
	GeneratedAt  time.Time                      `json:"generated_at"`
	WeeklyTop    []domain.RankingEntry          `json:"weekly_top"`
	AnnualTop    []domain.RankingEntry          `json:"annual_top"`
	CaseMap      Panel[analytics.MapView]       `json:"case_map"`
	RateMap      Panel[analytics.MapView]       `json:"rate_map"`
	CaseTrend    Panel[[]domain.TrendPoint]     `json:"case_trend"`
	RateTrend    Panel[[]domain.TrendPoint]     `json:"rate_trend"`
	WeeklyChange Panel[domain.ComparisonResult] `json:"weekly_change"`
	YearlyChange Panel[domain.ComparisonResult] `json:"yearly_change"`
}

// ViewEvent is the published record of one render.
type ViewEvent struct {
	ID           string                   `json:"id"`
	SessionID    string                   `json:"session_id,omitempty"`
	Selection    Selection                `json:"selection"`
	GeneratedAt  time.Time                `json:"generated_at"`
	WeeklyChange *domain.ComparisonResult `json:"weekly_change,omitempty"`
	YearlyChange *domain.ComparisonResult `json:"yearly_change,omitempty"`
}
