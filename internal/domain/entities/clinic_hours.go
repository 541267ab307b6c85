package entities

import (
	"fmt"
	"time"
)

// ClinicHour is the opening window for one weekday. Empty open and close times mean closed.
type ClinicHour struct {
	Day       string `json:"day"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// Closed reports whether the clinic does not open that day
func (h ClinicHour) Closed() bool {
	return h.OpenTime == "" && h.CloseTime == ""
}

// Validate checks that both times are set together, parse as HH:MM and are ordered
func (h ClinicHour) Validate() error {
	if h.Day == "" {
		return fmt.Errorf("day is required")
	}
	if h.Closed() {
		return nil
	}
	if h.OpenTime == "" || h.CloseTime == "" {
		return fmt.Errorf("%s: open and close times must be set together", h.Day)
	}
	open, err := time.Parse(TimeLayout, h.OpenTime)
	if err != nil {
		return fmt.Errorf("%s: open time %q must be HH:MM", h.Day, h.OpenTime)
	}
	closing, err := time.Parse(TimeLayout, h.CloseTime)
	if err != nil {
		return fmt.Errorf("%s: close time %q must be HH:MM", h.Day, h.CloseTime)
	}
	if !open.Before(closing) {
		return fmt.Errorf("%s: open time must be before close time", h.Day)
	}
	return nil
}

// DefaultClinicHours returns the week used until a clinic saves its own hours.
func DefaultClinicHours() []ClinicHour {
	return []ClinicHour{
		{Day: "الأحد", OpenTime: "09:00", CloseTime: "17:00"},
		{Day: "الاثنين", OpenTime: "09:00", CloseTime: "17:00"},
		{Day: "الثلاثاء", OpenTime: "09:00", CloseTime: "17:00"},
		{Day: "الأربعاء", OpenTime: "09:00", CloseTime: "17:00"},
		{Day: "الخميس", OpenTime: "09:00", CloseTime: "17:00"},
		{Day: "الجمعة", OpenTime: "09:00", CloseTime: "13:00"},
		{Day: "السبت"},
	}
}
