package pricing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rfa-explorer/internal/domain"
)

// Window is a trailing time range for the price chart.
type Window string

const (
	Window7D  Window = "7d"
	Window30D Window = "30d"

	// DefaultWindow is used for empty input.
	DefaultWindow = Window7D
)

const secondsPerDay = 24 * 60 * 60

// Days returns the window length in days.
func (w Window) Days() int {
	if w == Window30D {
		return 30
	}
	return 7
}

// ParseWindow parses "7d" or "30d". Empty input yields DefaultWindow.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultWindow, nil
	case Window7D:
		return Window7D, nil
	case Window30D:
		return Window30D, nil
	default:
		return DefaultWindow, fmt.Errorf("unknown window %q", s)
	}
}

// SortPoints returns a copy of points sorted by timestamp ascending.
func SortPoints(points []domain.PricePoint) []domain.PricePoint {
	out := make([]domain.PricePoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// FilterWindow returns the points within the trailing window ending at now,
// sorted ascending. The input may be in any order and is not modified.
func FilterWindow(points []domain.PricePoint, w Window, now time.Time) []domain.PricePoint {
	cutoff := now.Unix() - int64(w.Days())*secondsPerDay

	sorted := SortPoints(points)
	out := make([]domain.PricePoint, 0, len(sorted))
	for _, p := range sorted {
		if p.Timestamp >= cutoff {
			out = append(out, p)
		}
	}
	return out
}
