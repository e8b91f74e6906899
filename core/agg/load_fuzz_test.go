package agg

import (
	"testing"
)

// FuzzParseMinutes fuzzes the minutes parser with arbitrary strings. The
// parser must never panic and must never return a negative value.
func FuzzParseMinutes(f *testing.F) {
	seeds := []string{
		"36:45",
		"0:30",
		"48",
		"",
		"DNP",
		"1:02:30",
		"-5:00",
		"12:99",
		"abc",
		"12.5",
		":::",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		minutes, err := ParseMinutes(s)
		if err != nil {
			return
		}
		if minutes < 0 {
			t.Errorf("ParseMinutes(%q) returned negative minutes %f", s, minutes)
		}
	})
}
