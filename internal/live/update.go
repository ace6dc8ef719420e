// Package live pushes derived match state to spectators over websockets and
// keeps the latest state in a cache for late joiners.
package live

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type UpdateType string

const (
	UpdateState         UpdateType = "STATE"
	UpdateBall          UpdateType = "BALL"
	UpdateUndo          UpdateType = "UNDO"
	UpdateMatchComplete UpdateType = "MATCH_COMPLETE"
)

// Update is the message sent to subscribers. Version increases with every
// mutation of the match, so clients can discard stale frames.
type Update struct {
	Type    UpdateType           `json:"type"`
	MatchID uint                 `json:"matchId"`
	Version uint64               `json:"version"`
	State   scoring.DerivedState `json:"state"`
	Ball    *scoring.BallRecord  `json:"ball,omitempty"`
}

func encodeUpdate(u Update) ([]byte, error) {
	return json.Marshal(u)
}

// DecodeUpdate parses a cached or received frame.
func DecodeUpdate(data []byte) (Update, error) {
	var u Update
	err := json.Unmarshal(data, &u)
	return u, err
}

// frameVersion reads the version without decoding the whole state.
func frameVersion(data []byte) uint64 {
	return json.Get(data, "version").ToUint64()
}
