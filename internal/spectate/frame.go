package spectate

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/snek/internal/game"
)

// Point is a grid position in pixel units.
type Point struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

// HazardFrame is a hazard as seen by viewers.
type HazardFrame struct {
	X         int  `msgpack:"x"`
	Y         int  `msgpack:"y"`
	Detonated bool `msgpack:"d"`
}

// Frame is the wire form of one snapshot. Frames are msgpack-encoded and
// sent as binary websocket messages.
type Frame struct {
	Tick      uint64        `msgpack:"tick"`
	Status    string        `msgpack:"status"`
	Level     int           `msgpack:"level"`
	Score     int           `msgpack:"score"`
	TailBites int           `msgpack:"bites"`
	HUD       string        `msgpack:"hud"`
	Snake     []Point       `msgpack:"snake"` // Oldest first
	Foods     []Point       `msgpack:"foods"`
	Hazards   []HazardFrame `msgpack:"hazards"`
	Cause     string        `msgpack:"cause,omitempty"`
}

// FrameFromSnapshot converts an engine snapshot into a Frame.
func FrameFromSnapshot(s game.Snapshot) Frame {
	f := Frame{
		Tick:      s.Tick,
		Status:    s.Status.String(),
		Level:     s.Level,
		Score:     s.Score,
		TailBites: s.TailBites,
		HUD:       s.HUD(),
		Snake:     make([]Point, len(s.Segments)),
		Foods:     make([]Point, len(s.Foods)),
		Hazards:   make([]HazardFrame, len(s.Hazards)),
	}
	for i, seg := range s.Segments {
		f.Snake[i] = Point{seg.Pos.X, seg.Pos.Y}
	}
	for i, food := range s.Foods {
		f.Foods[i] = Point{food.Pos.X, food.Pos.Y}
	}
	for i, h := range s.Hazards {
		f.Hazards[i] = HazardFrame{X: h.Pos.X, Y: h.Pos.Y, Detonated: h.Detonated}
	}
	if s.Termination != nil {
		f.Cause = s.Termination.Cause.String()
	}
	return f
}

// Encode serializes a frame.
func Encode(f Frame) ([]byte, error) {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("spectate: cannot encode frame: %w", err)
	}
	return data, nil
}

// Decode parses a frame produced by Encode.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("spectate: cannot decode frame: %w", err)
	}
	return f, nil
}
