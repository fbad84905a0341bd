package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var numberPattern = regexp.MustCompile(`^-?\d*\.?\d+`)

// parseNumber reads numbers the way providers tend to write them:
// "$1,234", "6.5%", "1.2k", "$1.5M", "0.4mi".
func parseNumber(s string) (float64, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	clean = strings.NewReplacer("$", "", ",", "", "usd", "", " ", "").Replace(clean)
	if clean == "" || clean == "n/a" || clean == "null" {
		return 0, nil
	}
	match := numberPattern.FindString(clean)
	if match == "" {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}

	rest := clean[len(match):]
	switch {
	case rest == "k":
		v *= 1e3
	case rest == "m" || rest == "mm":
		v *= 1e6
	case rest == "b":
		v *= 1e9
	}
	return v, nil
}

func unmarshalNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		return parseNumber(s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// Money is a dollar figure given either as a JSON number or a formatted string.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := unmarshalNumber(data)
	if err != nil {
		return fmt.Errorf("invalid money value: %w", err)
	}
	*m = Money(v)
	return nil
}

// NonNegative drops negative amounts to zero.
func (m Money) NonNegative() float64 {
	if m < 0 || math.IsNaN(float64(m)) {
		return 0
	}
	return float64(m)
}

// Percent is a percentage figure, "6.5%" or 6.5.
type Percent float64

func (p *Percent) UnmarshalJSON(data []byte) error {
	v, err := unmarshalNumber(data)
	if err != nil {
		return fmt.Errorf("invalid percent value: %w", err)
	}
	*p = Percent(v)
	return nil
}

// Date accepts the date layouts providers commonly emit. An empty or null
// date decodes to the zero time.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-01",
	"Jan 2006",
	"January 2006",
	"2006",
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return nil
		}
		return fmt.Errorf("invalid date: %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// CostRange is a low/high pair given as "$5,000 - $8,000", a single figure,
// or an object with min/max or low/high keys.
type CostRange struct {
	Low  float64
	High float64
}

func (r *CostRange) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			Min  *Money `json:"min"`
			Max  *Money `json:"max"`
			Low  *Money `json:"low"`
			High *Money `json:"high"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid cost range: %w", err)
		}
		r.Low, r.High = pick(obj.Min, obj.Low), pick(obj.Max, obj.High)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parts := splitRange(s)
		low, err := parseNumber(parts[0])
		if err != nil {
			return fmt.Errorf("invalid cost range: %w", err)
		}
		high := low
		if len(parts) > 1 {
			if high, err = parseNumber(parts[1]); err != nil {
				return fmt.Errorf("invalid cost range: %w", err)
			}
		}
		r.Low, r.High = low, high
	default:
		v, err := unmarshalNumber(data)
		if err != nil {
			return fmt.Errorf("invalid cost range: %w", err)
		}
		r.Low, r.High = v, v
	}

	if r.Low > r.High {
		r.Low, r.High = r.High, r.Low
	}
	return nil
}

func splitRange(s string) []string {
	for _, sep := range []string{" - ", "\u2013", "\u2014", " to ", "-"} {
		if i := strings.Index(s, sep); i > 0 {
			return []string{s[:i], s[i+len(sep):]}
		}
	}
	return []string{s}
}

func pick(values ...*Money) float64 {
	for _, v := range values {
		if v != nil {
			return float64(*v)
		}
	}
	return 0
}
