package model

import (
	"fmt"
	"time"
)

// Weekday is a day of the week, Sunday = 0 through Saturday = 6, carried
// in storage as a one-letter code from the fixed alphabet "U M T W R F S".
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayCodes = [7]string{"U", "M", "T", "W", "R", "F", "S"}

// Code returns the one-letter storage code for the weekday.
func (w Weekday) Code() string {
	if w < 0 || w > 6 {
		return "?"
	}
	return weekdayCodes[w]
}

func (w Weekday) String() string {
	return time.Weekday(w).String()
}

// Std converts to the standard library weekday.
func (w Weekday) Std() time.Weekday {
	return time.Weekday(w)
}

// ParseWeekday maps a one-letter code back to a Weekday. The mapping is
// total over the 7-symbol alphabet and fails for anything else.
func ParseWeekday(code string) (Weekday, error) {
	for i, c := range weekdayCodes {
		if c == code {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("model: unknown weekday code %q", code)
}

// WeekdayFromStd converts a standard library weekday.
func WeekdayFromStd(w time.Weekday) Weekday {
	return Weekday(w)
}

// Codes renders a weekday slice as storage codes, preserving order.
func Codes(days []Weekday) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Code())
	}
	return out
}

// ParseWeekdays decodes a slice of storage codes; any bad code fails the
// whole slice.
func ParseWeekdays(codes []string) ([]Weekday, error) {
	out := make([]Weekday, 0, len(codes))
	for _, c := range codes {
		d, err := ParseWeekday(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// MarshalYAML stores the one-letter code rather than the numeric index.
func (w Weekday) MarshalYAML() (interface{}, error) {
	if w < 0 || w > 6 {
		return nil, fmt.Errorf("model: weekday %d out of range", int(w))
	}
	return w.Code(), nil
}

// UnmarshalYAML accepts the one-letter code.
func (w *Weekday) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var code string
	if err := unmarshal(&code); err != nil {
		return err
	}
	d, err := ParseWeekday(code)
	if err != nil {
		return err
	}
	*w = d
	return nil
}
