package overlap

import (
	"vespawatch/pkg/geodesy"
	"vespawatch/pkg/proximity"
)

// OutcomeKind names an Outcome variant on the wire.
type OutcomeKind string

const (
	KindNoMatch     OutcomeKind = "no_match"
	KindSingleMatch OutcomeKind = "single_match"
	KindAutoZoom    OutcomeKind = "auto_zoom"
	KindAmbiguous   OutcomeKind = "ambiguous"
)

// Outcome is one of NoMatch, SingleMatch, AutoZoom or Ambiguous.
type Outcome interface {
	Kind() OutcomeKind
	outcome()
}

// NoMatch: the click hit nothing and is a plain map click.
type NoMatch struct{}

// SingleMatch: open Object's detail view directly.
type SingleMatch struct {
	Object proximity.MapObject
}

// AutoZoom asks the caller to zoom to TargetZoom around Center and query again
// once the viewport settles.
type AutoZoom struct {
	TargetZoom float64
	Center     geodesy.Point
	Matches    []proximity.MapObject
}

// Ambiguous: the caller must let the user pick one of Matches.
type Ambiguous struct {
	Matches []proximity.MapObject
}

func (NoMatch) Kind() OutcomeKind     { return KindNoMatch }
func (SingleMatch) Kind() OutcomeKind { return KindSingleMatch }
func (AutoZoom) Kind() OutcomeKind    { return KindAutoZoom }
func (Ambiguous) Kind() OutcomeKind   { return KindAmbiguous }

func (NoMatch) outcome()     {}
func (SingleMatch) outcome() {}
func (AutoZoom) outcome()    {}
func (Ambiguous) outcome()   {}

// Choice is one row of a disambiguation list.
type Choice struct {
	Kind  proximity.Kind `json:"kind"`
	ID    uint           `json:"id"`
	Label string         `json:"label"`
}

// Choices renders the matches in scan order.
func (a Ambiguous) Choices() []Choice {
	out := make([]Choice, len(a.Matches))
	for i, m := range a.Matches {
		out[i] = Choice{Kind: m.Kind, ID: m.ID, Label: Label(m)}
	}
	return out
}
