package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a side-view tile map. Row 0 is the top row; the physics probe
// maps rows onto the world's vertical axis.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool   `json:"physics"`
	Color   string `json:"color,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Solid reports whether any physics layer has a tile at (x, y). Out of range
// cells are not solid.
func (l *Level) Solid(x, y int) bool {
	if l == nil || x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return false
	}
	idx := y*l.Width + x
	for i, layer := range l.Layers {
		if !l.physicsLayer(i) || len(layer) != l.Width*l.Height {
			continue
		}
		if layer[idx] != 0 {
			return true
		}
	}
	return false
}

func (l *Level) physicsLayer(i int) bool {
	return i < len(l.LayerMeta) && l.LayerMeta[i].Physics
}

// Entity returns the first entity of the given type.
func (l *Level) Entity(typ string) (Entity, bool) {
	if l == nil {
		return Entity{}, false
	}
	for _, e := range l.Entities {
		if e.Type == typ {
			return e, true
		}
	}
	return Entity{}, false
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return ParseLevel(data)
}

func ParseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("unmarshal level: invalid size %dx%d", lvl.Width, lvl.Height)
	}
	return &lvl, nil
}
