// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package duration

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	gerrors "github.com/tochemey/vactor/errors"
)

// iso8601 matches PnDTnHnMnS style durations. Weeks, months and years are not
// accepted because they have no fixed length.
var iso8601 = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// Format renders a duration in the sidecar format: hours, minutes, seconds and
// milliseconds are always present.
//
// Examples:
//   - 5 * time.Second => "0h0m5s0ms"
//   - 90 * time.Minute + 250 * time.Millisecond => "1h30m0s250ms"
//
// Negative durations render as "0h0m0s0ms".
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := uint64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := uint64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := uint64(d / time.Second)
	d -= time.Duration(seconds) * time.Second
	millis := uint64(d / time.Millisecond)

	var b strings.Builder
	b.Grow(16)
	b.WriteString(formatUint(hours))
	b.WriteByte('h')
	b.WriteString(formatUint(minutes))
	b.WriteByte('m')
	b.WriteString(formatUint(seconds))
	b.WriteByte('s')
	b.WriteString(formatUint(millis))
	b.WriteString("ms")
	return b.String()
}

// Parse reads a duration written either in the sidecar format ("0h0m5s0ms",
// which is a valid Go duration), any Go duration string, or ISO-8601
// ("PT5S", "P1DT2H"). The empty string parses as zero.
func Parse(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	if strings.HasPrefix(value, "P") {
		return parseISO8601(value)
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, gerrors.NewErrInvalidDuration(value)
	}
	return d, nil
}

// ParseRepetition reads an ISO-8601 repeating interval such as "R5/PT10S" and
// returns the period and the number of repetitions. Values without the "R"
// prefix are parsed with Parse and report -1 repetitions (unbounded).
func ParseRepetition(value string) (time.Duration, int, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "R") {
		d, err := Parse(value)
		return d, -1, err
	}

	head, tail, found := strings.Cut(value, "/")
	if !found {
		return 0, 0, gerrors.NewErrInvalidDuration(value)
	}

	repetitions, err := strconv.Atoi(strings.TrimPrefix(head, "R"))
	if err != nil || repetitions < 0 {
		return 0, 0, gerrors.NewErrInvalidDuration(value)
	}

	d, err := Parse(tail)
	if err != nil {
		return 0, 0, err
	}
	return d, repetitions, nil
}

func parseISO8601(value string) (time.Duration, error) {
	matches := iso8601.FindStringSubmatch(value)
	if matches == nil || value == "P" || value == "PT" {
		return 0, gerrors.NewErrInvalidDuration(value)
	}

	var total time.Duration
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	for i, unit := range units {
		if matches[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(matches[i+1], 10, 64)
		if err != nil {
			return 0, gerrors.NewErrInvalidDuration(value)
		}
		total += time.Duration(n) * unit
	}

	if seconds := matches[4]; seconds != "" {
		f, err := strconv.ParseFloat(seconds, 64)
		if err != nil {
			return 0, gerrors.NewErrInvalidDuration(value)
		}
		total += time.Duration(f * float64(time.Second))
	}
	return total, nil
}

// formatUint returns the string representation of a uint64.
func formatUint(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = '0' + byte(v%10)
		v /= 10
	}
	return string(buf[i:])
}
