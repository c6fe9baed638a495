package panel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arnodel/strftime"
)

// Default clock formats, in strftime notation: "9:05" and
// "Sun, Oct 4 2026".
const (
	DefaultTimeFormat = "%-k:%M"
	DefaultDateFormat = "%a, %h %-e %Y"
)

// ClockFormat renders wall-clock time into the panel's time and date
// strings. A format containing '%' is a strftime pattern; anything else
// is a Go reference layout such as "15:04".
type ClockFormat struct {
	Time string
	Date string
}

// NewClockFormat validates both formats and returns the pair.
func NewClockFormat(timeFormat, dateFormat string) (ClockFormat, error) {
	for _, f := range []struct{ name, layout string }{
		{"time", timeFormat},
		{"date", dateFormat},
	} {
		if err := CheckFormat(f.layout); err != nil {
			return ClockFormat{}, fmt.Errorf("invalid %s format %q: %w", f.name, f.layout, err)
		}
	}
	return ClockFormat{Time: timeFormat, Date: dateFormat}, nil
}

// DefaultClockFormat returns the stock formats.
func DefaultClockFormat() ClockFormat {
	return ClockFormat{Time: DefaultTimeFormat, Date: DefaultDateFormat}
}

// Format returns the time and date strings for t. A strftime pattern
// with an unknown directive is returned as written; NewClockFormat
// rejects such patterns up front.
func (f ClockFormat) Format(t time.Time) (timeText, dateText string) {
	return formatOrRaw(f.Time, t), formatOrRaw(f.Date, t)
}

func formatOrRaw(layout string, t time.Time) string {
	s, err := formatLayout(layout, t)
	if err != nil {
		return layout
	}
	return s
}

func formatLayout(layout string, t time.Time) (string, error) {
	if !strings.Contains(layout, "%") {
		return t.Format(layout), nil
	}
	return strftime.Format(expandGNU(layout, t), t)
}

// expandGNU replaces the glibc directives strftime lacks: %k, %l and %e
// (space padded hour, 12-hour hour and day), %h (abbreviated month) and
// the %-X no-padding flag for numeric fields. Everything else, %% included,
// is left for strftime.
func expandGNU(layout string, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c != '%' || i+1 == len(layout) {
			b.WriteByte(c)
			continue
		}
		next := layout[i+1]
		if next == '-' && i+2 < len(layout) {
			if v, ok := numericField(layout[i+2], t); ok {
				b.WriteString(strconv.Itoa(v))
				i += 2
				continue
			}
		}
		switch next {
		case 'k':
			fmt.Fprintf(&b, "%2d", t.Hour())
		case 'l':
			fmt.Fprintf(&b, "%2d", hour12(t))
		case 'e':
			fmt.Fprintf(&b, "%2d", t.Day())
		case 'h':
			b.WriteString(t.Format("Jan"))
		default:
			b.WriteByte(c)
			b.WriteByte(next)
		}
		i++
	}
	return b.String()
}

func numericField(d byte, t time.Time) (int, bool) {
	switch d {
	case 'H', 'k':
		return t.Hour(), true
	case 'I', 'l':
		return hour12(t), true
	case 'M':
		return t.Minute(), true
	case 'S':
		return t.Second(), true
	case 'd', 'e':
		return t.Day(), true
	case 'm':
		return int(t.Month()), true
	case 'j':
		return t.YearDay(), true
	default:
		return 0, false
	}
}

func hour12(t time.Time) int {
	if h := t.Hour() % 12; h != 0 {
		return h
	}
	return 12
}

// CheckFormat reports whether layout is a usable time or date format.
func CheckFormat(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("empty format")
	}
	if strings.Contains(layout, "%") {
		_, err := strftime.StrictFormat(expandGNU(layout, time.Time{}), time.Time{})
		return err
	}
	return nil
}

// Clock is the time source of the loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock reads the wall clock and sleeps the calling goroutine.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
