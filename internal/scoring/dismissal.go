package scoring

import (
	"encoding/json"
	"fmt"
)

// DismissalKind for cricket wickets
type DismissalKind string

const (
	KindBowled    DismissalKind = "bowled"
	KindCaught    DismissalKind = "caught"
	KindRunOut    DismissalKind = "run_out"
	KindStumped   DismissalKind = "stumped"
	KindLBW       DismissalKind = "lbw"
	KindHitWicket DismissalKind = "hit_wicket"
	KindRetired   DismissalKind = "retired"
)

// Dismissal is one of Bowled, Caught, RunOut, Stumped, LBW, HitWicket or
// Retired. Each kind carries only the fields that apply to it.
type Dismissal interface {
	Kind() DismissalKind
	isDismissal()
}

type Bowled struct{}

type Caught struct {
	Fielder PlayerID
}

// RunOut may name the batsman who was out; an empty Batsman means the striker.
type RunOut struct {
	Fielder PlayerID
	Batsman PlayerID
}

type Stumped struct {
	Keeper PlayerID
}

type LBW struct{}

type HitWicket struct{}

type Retired struct {
	Hurt bool
}

func (Bowled) Kind() DismissalKind    { return KindBowled }
func (Caught) Kind() DismissalKind    { return KindCaught }
func (RunOut) Kind() DismissalKind    { return KindRunOut }
func (Stumped) Kind() DismissalKind   { return KindStumped }
func (LBW) Kind() DismissalKind       { return KindLBW }
func (HitWicket) Kind() DismissalKind { return KindHitWicket }
func (Retired) Kind() DismissalKind   { return KindRetired }

func (Bowled) isDismissal()    {}
func (Caught) isDismissal()    {}
func (RunOut) isDismissal()    {}
func (Stumped) isDismissal()   {}
func (LBW) isDismissal()       {}
func (HitWicket) isDismissal() {}
func (Retired) isDismissal()   {}

// CreditsBowler reports whether the dismissal counts towards the bowler's
// career wickets. The live engine charges every wicket ball to the bowler;
// this is for downstream attribution.
func CreditsBowler(d Dismissal) bool {
	switch d.(type) {
	case Bowled, Caught, Stumped, LBW, HitWicket:
		return true
	}
	return false
}

// NewDismissal builds a Dismissal from its wire representation.
func NewDismissal(kind DismissalKind, fielder, batsman PlayerID, hurt bool) (Dismissal, error) {
	switch kind {
	case KindBowled:
		return Bowled{}, nil
	case KindCaught:
		return Caught{Fielder: fielder}, nil
	case KindRunOut:
		return RunOut{Fielder: fielder, Batsman: batsman}, nil
	case KindStumped:
		return Stumped{Keeper: fielder}, nil
	case KindLBW:
		return LBW{}, nil
	case KindHitWicket:
		return HitWicket{}, nil
	case KindRetired:
		return Retired{Hurt: hurt}, nil
	}
	return nil, fmt.Errorf("%w: unknown dismissal kind %q", ErrInvalidDelivery, kind)
}

// DismissalDetail carries a Dismissal through JSON as a kind-tagged object.
type DismissalDetail struct {
	Dismissal
}

type dismissalJSON struct {
	Kind    DismissalKind `json:"kind"`
	Fielder PlayerID      `json:"fielder,omitempty"`
	Batsman PlayerID      `json:"batsman,omitempty"`
	Keeper  PlayerID      `json:"keeper,omitempty"`
	Hurt    bool          `json:"hurt,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d DismissalDetail) MarshalJSON() ([]byte, error) {
	if d.Dismissal == nil {
		return []byte("null"), nil
	}
	out := dismissalJSON{Kind: d.Kind()}
	switch v := d.Dismissal.(type) {
	case Caught:
		out.Fielder = v.Fielder
	case RunOut:
		out.Fielder = v.Fielder
		out.Batsman = v.Batsman
	case Stumped:
		out.Keeper = v.Keeper
	case Retired:
		out.Hurt = v.Hurt
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DismissalDetail) UnmarshalJSON(data []byte) error {
	var in dismissalJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	fielder := in.Fielder
	if in.Kind == KindStumped {
		fielder = in.Keeper
	}
	v, err := NewDismissal(in.Kind, fielder, in.Batsman, in.Hurt)
	if err != nil {
		return err
	}
	d.Dismissal = v
	return nil
}
