// Package domain models the National Notifiable Diseases Surveillance System
// (NNDSS) tables behind the disease dashboard.
//
// # Data Sources
//
// Two CSV exports published by CDC feed the dashboard:
//
//	NNDSS_Weekly_Data_<date>.csv         one row per (MMWR year, MMWR week, location, disease)
//	merged_data_CaseCount_stateabbr.csv  one row per (year, state, disease)
//
// The weekly table carries both the count for the reporting week ("Current week")
// and the running year-to-date total ("Cumulative YTD Current MMWR Year"). The
// annual table carries the reported case count, the published incidence rate and
// the population the rate was computed against, plus a two-letter state
// abbreviation used as the choropleth location key.
//
// # MMWR Weeks
//
// Reporting weeks follow the MMWR calendar: weeks run Sunday to Saturday and
// are numbered 1..52, with a 53rd week in some years. The week-over-week
// comparison steps back one week and wraps week 1 to week 52 of the prior
// year. Years with a 53rd week are not special-cased (see [PreviousWeek]).
//
// # Missing Values
//
// Weekly counts are frequently blank for suppressed or unreported cells. Blank
// weekly counts are read as zero. Annual case counts that are blank or not
// numeric (footnote markers such as "N" or "U") are kept as null so maps can
// show them as missing, and are counted as zero whenever they are summed or
// compared.
//
// # Comparisons
//
// Percent change is (current - previous) / previous * 100, and 0 when the
// previous period had no cases. The direction label follows the sign of the
// percent change: increased, decreased, or steady.
package domain
