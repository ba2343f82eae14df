// Package dashboard turns viewer selections into fully computed dashboard
// views. Every interaction recomputes rankings, period changes, maps and
// trends from the read-only tables loaded at startup.
package dashboard
