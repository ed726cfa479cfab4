package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Weekday identifies a day-menu slot, 1 (Monday) through 7 (Sunday).
type Weekday int

const (
	WeekdayMonday    Weekday = 1
	WeekdayTuesday   Weekday = 2
	WeekdayWednesday Weekday = 3
	WeekdayThursday  Weekday = 4
	WeekdayFriday    Weekday = 5
	WeekdaySaturday  Weekday = 6
	WeekdaySunday    Weekday = 7
)

// Valid reports whether the value is inside the 1..7 range.
func (w Weekday) Valid() bool {
	return w >= WeekdayMonday && w <= WeekdaySunday
}

func (w Weekday) String() string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if !w.Valid() {
		return "Unknown"
	}
	return names[w-1]
}

func (w Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(w))
}

func (w *Weekday) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	*w = Weekday(i)
	return nil
}

func (w Weekday) Value() (driver.Value, error) {
	return int64(w), nil
}

func (w *Weekday) Scan(value interface{}) error {
	if value == nil {
		*w = WeekdayMonday
		return nil
	}
	switch v := value.(type) {
	case int64:
		*w = Weekday(v)
	case int:
		*w = Weekday(v)
	}
	return nil
}
