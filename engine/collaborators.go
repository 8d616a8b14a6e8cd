package engine

import "fmt"

// Collaborators receives the requests the interpreter makes to the renderer,
// audio and UI. Calls are made synchronously from the executing goroutine.
type Collaborators interface {
	PlaySound(index int, sync bool)
	Delay(ticks int)
	Redraw()
	SwapPalette(areaID uint16)
	SpecialEffect(code int)
	PrintMessage(index int, text string)
	VehicleSwapped(flying bool)
	AreaChanged(from, to, entrance uint16)
}

type NopCollaborators struct{}

func (NopCollaborators) PlaySound(index int, sync bool)        {}
func (NopCollaborators) Delay(ticks int)                       {}
func (NopCollaborators) Redraw()                               {}
func (NopCollaborators) SwapPalette(areaID uint16)             {}
func (NopCollaborators) SpecialEffect(code int)                {}
func (NopCollaborators) PrintMessage(index int, text string)   {}
func (NopCollaborators) VehicleSwapped(flying bool)            {}
func (NopCollaborators) AreaChanged(from, to, entrance uint16) {}

const (
	EVENT_SOUND   = "sound"
	EVENT_SYNCSND = "syncsound"
	EVENT_DELAY   = "delay"
	EVENT_REDRAW  = "redraw"
	EVENT_PALETTE = "palette"
	EVENT_SPFX    = "spfx"
	EVENT_PRINT   = "print"
	EVENT_VEHICLE = "vehicle"
	EVENT_AREA    = "area"
)

type Event struct {
	Kind string `json:"kind"`
	Args []int  `json:"args,omitempty"`
	Text string `json:"text,omitempty"`
}

func (e Event) String() string {
	if e.Text != "" {
		return fmt.Sprintf("%s%v %q", e.Kind, e.Args, e.Text)
	}
	return fmt.Sprintf("%s%v", e.Kind, e.Args)
}

// RecordingCollaborators keeps every request in order. It optionally forwards
// each event to Sink.
type RecordingCollaborators struct {
	Events []Event
	Sink   func(Event)
}

func (r *RecordingCollaborators) record(e Event) {
	r.Events = append(r.Events, e)
	if r.Sink != nil {
		r.Sink(e)
	}
}

func (r *RecordingCollaborators) PlaySound(index int, sync bool) {
	kind := EVENT_SOUND
	if sync {
		kind = EVENT_SYNCSND
	}
	r.record(Event{Kind: kind, Args: []int{index}})
}

func (r *RecordingCollaborators) Delay(ticks int) {
	r.record(Event{Kind: EVENT_DELAY, Args: []int{ticks}})
}

func (r *RecordingCollaborators) Redraw() {
	r.record(Event{Kind: EVENT_REDRAW})
}

func (r *RecordingCollaborators) SwapPalette(areaID uint16) {
	r.record(Event{Kind: EVENT_PALETTE, Args: []int{int(areaID)}})
}

func (r *RecordingCollaborators) SpecialEffect(code int) {
	r.record(Event{Kind: EVENT_SPFX, Args: []int{code}})
}

func (r *RecordingCollaborators) PrintMessage(index int, text string) {
	r.record(Event{Kind: EVENT_PRINT, Args: []int{index}, Text: text})
}

func (r *RecordingCollaborators) VehicleSwapped(flying bool) {
	v := 0
	if flying {
		v = 1
	}
	r.record(Event{Kind: EVENT_VEHICLE, Args: []int{v}})
}

func (r *RecordingCollaborators) AreaChanged(from, to, entrance uint16) {
	r.record(Event{Kind: EVENT_AREA, Args: []int{int(from), int(to), int(entrance)}})
}

// Count returns the number of recorded events of a kind.
func (r *RecordingCollaborators) Count(kind string) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *RecordingCollaborators) Reset() {
	r.Events = nil
}
