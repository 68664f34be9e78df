package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday wraps time.Weekday with the upstream "MONDAY".."SUNDAY" encoding.
type Weekday time.Weekday

var weekdayByName = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseWeekday accepts upstream day names in any case.
func ParseWeekday(s string) (Weekday, error) {
	wd, ok := weekdayByName[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("parse weekday %q: unknown day", s)
	}
	return Weekday(wd), nil
}

func (w Weekday) String() string {
	return strings.ToUpper(time.Weekday(w).String())
}

func (w Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *Weekday) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("weekday: %w", err)
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// A single weekly window in which a drone can fly from its service point.
type Availability struct {
	DayOfWeek Weekday   `json:"dayOfWeek"`
	From      TimeOfDay `json:"from"`
	Until     TimeOfDay `json:"until"`
}

// DroneAvailability lists the windows of one drone at a service point.
type DroneAvailability struct {
	DroneID      string         `json:"id"`
	Availability []Availability `json:"availability"`
}

// ServicePointDrones is the upstream record binding drones to the service
// point they are stationed at.
type ServicePointDrones struct {
	ServicePointID int                 `json:"servicePointId"`
	Drones         []DroneAvailability `json:"drones"`
}
