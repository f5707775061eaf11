package availability

import (
	"fmt"

	"cabins/pkg/model"
)

// Window is the daily operating window. Slots start every SlotMinutes from
// OpenHour up to, but not including, CloseHour.
type Window struct {
	OpenHour    int
	CloseHour   int
	SlotMinutes int
}

func (w Window) Validate() error {
	if w.OpenHour < 0 || w.CloseHour > 24 || w.OpenHour >= w.CloseHour {
		return fmt.Errorf("invalid operating window %d-%d: need 0 <= open < close <= 24", w.OpenHour, w.CloseHour)
	}
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("slot granularity must be positive, got %d", w.SlotMinutes)
	}
	if ((w.CloseHour-w.OpenHour)*60)%w.SlotMinutes != 0 {
		return fmt.Errorf("slot granularity %d does not divide the %d-%d window", w.SlotMinutes, w.OpenHour, w.CloseHour)
	}
	return nil
}

// SlotGenerator produces the canonical slot labels for a day. Labels are
// precomputed; Generate only copies them.
type SlotGenerator struct {
	window Window
	labels []string
	index  map[string]struct{}
}

func NewSlotGenerator(w Window) (*SlotGenerator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	start := w.OpenHour * 60
	end := w.CloseHour * 60
	labels := make([]string, 0, (end-start)/w.SlotMinutes)
	index := make(map[string]struct{}, cap(labels))
	for m := start; m < end; m += w.SlotMinutes {
		label := fmt.Sprintf("%02d:%02d", m/60, m%60)
		labels = append(labels, label)
		index[label] = struct{}{}
	}

	return &SlotGenerator{window: w, labels: labels, index: index}, nil
}

// Generate returns every slot of the window, all available. The result does
// not depend on date; the parameter keeps the call shape of Resolve.
func (g *SlotGenerator) Generate(date string) []model.TimeSlot {
	slots := make([]model.TimeSlot, len(g.labels))
	for i, label := range g.labels {
		slots[i] = model.TimeSlot{Time: label, Available: true}
	}
	return slots
}

func (g *SlotGenerator) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

func (g *SlotGenerator) Contains(label string) bool {
	_, ok := g.index[label]
	return ok
}

// Granularity is the slot length in minutes.
func (g *SlotGenerator) Granularity() int {
	return g.window.SlotMinutes
}
