package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ship-editor/internal/layer"
	"ship-editor/internal/points"
	"ship-editor/pkg/geometry"
)

const sample = `{
  "version": 1,
  "hullName": "wolf",
  "center": [40, 50],
  "collisionRadius": 45,
  "shieldCenter": [40, 48],
  "shieldRadius": 50,
  "bounds": [30, 10, 50, 10, 60, 80, 20, 80],
  "weaponSlots": [
    {"id": "WS0001", "type": "ENERGY", "size": "SMALL", "mount": "TURRET", "angle": 10, "arc": 120, "locations": [45, 20]},
    {"id": "WS0002", "type": "ENERGY", "size": "SMALL", "mount": "TURRET", "angle": -10, "arc": 120, "locations": [35, 20]},
    {"id": "LB0001", "type": "LAUNCH_BAY", "size": "MEDIUM", "mount": "HIDDEN", "angle": 0, "arc": 360, "locations": [40, 60, 42, 60]}
  ],
  "engineSlots": [
    {"location": [35, 80], "angle": 180, "width": 4, "length": 12, "contrailSize": 64, "style": "MIDLINE"}
  ]
}`

func p2(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func loadSample(t *testing.T) *layer.ShipLayer {
	t.Helper()
	var f File
	require.NoError(t, json.Unmarshal([]byte(sample), &f))
	l := layer.New(f.Name, nil, nil)
	require.NoError(t, f.Apply(l))
	return l
}

func TestApplySample(t *testing.T) {
	l := loadSample(t)

	assert.Equal(t, []geometry.Point2D{p2(30, 10), p2(50, 10), p2(60, 80), p2(20, 80)}, l.Bounds.Positions())
	assert.Equal(t, 40.0, l.AxisX())
	assert.Equal(t, 45.0, l.Center.Center().Radius())
	assert.Equal(t, 50.0, l.Shield.Center().Radius())

	require.Equal(t, 2, l.Slots.Len())
	slot := l.Slots.SlotByID("WS0002")
	require.NotNil(t, slot)
	assert.Equal(t, points.TypeEnergy, slot.WeaponType())
	assert.Equal(t, -10.0, slot.Angle())
	assert.Equal(t, l.Slots.SlotByID("WS0001"), l.Slots.MirroredCounterpart(slot))

	bay := l.Bays.BayByID("LB0001")
	require.NotNil(t, bay)
	assert.Len(t, bay.Ports(), 2)
	assert.Equal(t, points.SizeMedium, bay.WeaponSize())
	assert.Equal(t, 360.0, bay.Arc())

	engine := l.Engines.Points()[0]
	assert.Equal(t, geometry.Size{Width: 4, Height: 12}, engine.EngineSize())
	assert.Equal(t, "MIDLINE", engine.Style())
}

func TestJSONRoundTripKeepsFlatArrays(t *testing.T) {
	l := loadSample(t)
	path := filepath.Join(t.TempDir(), "wolf.json")
	require.NoError(t, FromLayer(l).Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, []interface{}{30.0, 10.0, 50.0, 10.0, 60.0, 80.0, 20.0, 80.0}, generic["bounds"])
	assert.Equal(t, []interface{}{40.0, 50.0}, generic["center"])

	loaded, err := Load(path)
	require.NoError(t, err)
	again := layer.New(loaded.Name, nil, nil)
	require.NoError(t, loaded.Apply(again))
	assert.Equal(t, l.Bounds.Positions(), again.Bounds.Positions())
	assert.Equal(t, l.Slots.IDs(), again.Slots.IDs())
	assert.Equal(t, "wolf", again.Name)
}

func TestBinaryRoundTrip(t *testing.T) {
	l := loadSample(t)
	path := filepath.Join(t.TempDir(), "wolf"+BinaryExt)
	original := FromLayer(l)
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Bounds, loaded.Bounds)
	assert.Equal(t, original.WeaponSlots, loaded.WeaponSlots)
	assert.Equal(t, original.Engines, loaded.Engines)
	assert.Equal(t, *original.Center, *loaded.Center)
	assert.True(t, original.Modified.Equal(loaded.Modified))
}

func TestFlatPointsErrors(t *testing.T) {
	var f FlatPoints
	assert.Error(t, json.Unmarshal([]byte(`[1, 2, 3]`), &f))
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &f))

	var v Vec2
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &v))

	require.NoError(t, json.Unmarshal([]byte(`[]`), &f))
	assert.Empty(t, f)
}

func TestApplyRejectsBadSlots(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
	}{
		{"unknown type", Slot{ID: "WS0001", Type: "LASER", Size: "SMALL", Mount: "TURRET", Locations: FlatPoints{{}}}},
		{"no locations", Slot{ID: "WS0001", Type: "ENERGY", Size: "SMALL", Mount: "TURRET"}},
		{"two locations", Slot{ID: "WS0001", Type: "ENERGY", Size: "SMALL", Mount: "TURRET", Locations: FlatPoints{{}, {}}}},
		{"missing id", Slot{Type: "ENERGY", Size: "SMALL", Mount: "TURRET", Locations: FlatPoints{{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New("bad")
			f.WeaponSlots = []Slot{tt.slot}
			assert.Error(t, f.Apply(layer.New("bad", nil, nil)))
		})
	}
}

func TestSpritePathRelative(t *testing.T) {
	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "hulls", "wolf.json")
	f := New("wolf")
	f.SetSprite(layoutPath, filepath.Join(dir, "hulls", "sprites", "wolf.png"))
	assert.Equal(t, filepath.Join("sprites", "wolf.png"), f.SpritePath)
	assert.Equal(t, filepath.Join(dir, "hulls", "sprites", "wolf.png"), f.SpriteFile(layoutPath))

	assert.Equal(t, "", New("x").SpriteFile(layoutPath))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
