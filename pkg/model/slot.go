package model

// TimeSlot is a bookable start time on a given date.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// BusyInterval is a half-open [Start, End) range reported by an availability
// source. Values are ISO-8601 timestamps.
type BusyInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Availability struct {
	CabinID string     `json:"cabin_id"`
	Date    string     `json:"date"`
	Slots   []TimeSlot `json:"slots"`
}
