// Package analytics computes the dashboard's rankings, period comparisons,
// choropleth frames and trend lines from the loaded tables.
//
// Every function is pure: it reads the immutable tables and returns a fresh
// result, so each user interaction can simply call them again.
package analytics
