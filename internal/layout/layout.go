// Package layout provides hull layout file handling: the JSON and msgpack
// forms of a ship layer's geometry, and the bridge to and from a layer.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ship-editor/internal/layer"
	"ship-editor/internal/points"
	"ship-editor/pkg/geometry"
)

// ErrBadSlot is returned by Apply for a slot entry that cannot be placed.
var ErrBadSlot = errors.New("invalid slot entry")

// CurrentVersion is written into every saved layout.
const CurrentVersion = 1

// BinaryExt selects the msgpack encoding in Load and Save.
const BinaryExt = ".msgpack"

// File is a saved hull layout. Positions are in layer space.
type File struct {
	Version  int       `json:"version" msgpack:"version"`
	Name     string    `json:"hullName" msgpack:"hullName"`
	Modified time.Time `json:"modified" msgpack:"modified"`

	// Sprite path (relative to layout file)
	SpritePath string `json:"spriteName,omitempty" msgpack:"spriteName,omitempty"`

	Center          *Vec2   `json:"center,omitempty" msgpack:"center,omitempty"`
	CollisionRadius float64 `json:"collisionRadius" msgpack:"collisionRadius"`
	ShieldCenter    *Vec2   `json:"shieldCenter,omitempty" msgpack:"shieldCenter,omitempty"`
	ShieldRadius    float64 `json:"shieldRadius" msgpack:"shieldRadius"`

	Bounds      FlatPoints `json:"bounds" msgpack:"bounds"`
	WeaponSlots []Slot     `json:"weaponSlots" msgpack:"weaponSlots"`
	Engines     []Engine   `json:"engineSlots" msgpack:"engineSlots"`
}

// Slot is a weapon slot, or a launch bay when Type is LAUNCH_BAY. A weapon
// slot has exactly one location; a bay has one per port.
type Slot struct {
	ID             string     `json:"id" msgpack:"id"`
	Type           string     `json:"type" msgpack:"type"`
	Size           string     `json:"size" msgpack:"size"`
	Mount          string     `json:"mount" msgpack:"mount"`
	Angle          float64    `json:"angle" msgpack:"angle"`
	Arc            float64    `json:"arc" msgpack:"arc"`
	RenderOrderMod int        `json:"renderOrderMod,omitempty" msgpack:"renderOrderMod,omitempty"`
	Locations      FlatPoints `json:"locations" msgpack:"locations"`
}

// Engine is an engine point with its flame attributes.
type Engine struct {
	Location     Vec2    `json:"location" msgpack:"location"`
	Angle        float64 `json:"angle" msgpack:"angle"`
	Width        float64 `json:"width" msgpack:"width"`
	Length       float64 `json:"length" msgpack:"length"`
	ContrailSize float64 `json:"contrailSize" msgpack:"contrailSize"`
	Style        string  `json:"style" msgpack:"style"`
}

// New creates an empty layout.
func New(name string) *File {
	return &File{Version: CurrentVersion, Name: name, Modified: time.Now()}
}

// Load reads a layout, choosing the encoding by file extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if isBinary(path) {
		err = f.UnmarshalBinary(data)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", filepath.Base(path), err)
	}
	return &f, nil
}

// Save writes the layout, choosing the encoding by file extension.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	var data []byte
	var err error
	if isBinary(path) {
		data, err = f.MarshalBinary()
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isBinary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), BinaryExt)
}

// wire drops File's methods so msgpack encodes the fields instead of
// calling back into MarshalBinary.
type wire File

// MarshalBinary encodes the layout with msgpack.
func (f *File) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal((*wire)(f))
}

// UnmarshalBinary decodes a msgpack layout.
func (f *File) UnmarshalBinary(data []byte) error {
	return msgpack.Unmarshal(data, (*wire)(f))
}

// SetSprite stores the sprite path relative to the layout file.
func (f *File) SetSprite(layoutPath, spritePath string) {
	rel, err := filepath.Rel(filepath.Dir(layoutPath), spritePath)
	if err != nil {
		f.SpritePath = spritePath
		return
	}
	f.SpritePath = rel
}

// SpriteFile returns the absolute sprite path, or "" when none is set.
func (f *File) SpriteFile(layoutPath string) string {
	if f.SpritePath == "" {
		return ""
	}
	if filepath.IsAbs(f.SpritePath) {
		return f.SpritePath
	}
	return filepath.Join(filepath.Dir(layoutPath), f.SpritePath)
}

// FromLayer captures the current geometry of l.
func FromLayer(l *layer.ShipLayer) *File {
	f := New(l.Name)

	if c := l.Center.Center(); c != nil {
		v := vec(c.Position())
		f.Center = &v
		f.CollisionRadius = c.Radius()
	}
	if s := l.Shield.Center(); s != nil {
		v := vec(s.Position())
		f.ShieldCenter = &v
		f.ShieldRadius = s.Radius()
	}

	f.Bounds = FlatPoints(l.Bounds.Positions())

	for _, p := range l.Slots.Points() {
		f.WeaponSlots = append(f.WeaponSlots, Slot{
			ID:             p.SlotID(),
			Type:           p.WeaponType().String(),
			Size:           p.WeaponSize().String(),
			Mount:          p.WeaponMount().String(),
			Angle:          p.Angle(),
			Arc:            p.Arc(),
			RenderOrderMod: p.RenderOrderMod(),
			Locations:      FlatPoints{p.Position()},
		})
	}
	for _, bay := range l.Bays.Bays() {
		s := Slot{
			ID:             bay.SlotID(),
			Type:           bay.WeaponType().String(),
			Size:           bay.WeaponSize().String(),
			Mount:          bay.WeaponMount().String(),
			Angle:          bay.Angle(),
			Arc:            bay.Arc(),
			RenderOrderMod: bay.RenderOrderMod(),
		}
		for _, port := range bay.Ports() {
			s.Locations = append(s.Locations, port.Position())
		}
		f.WeaponSlots = append(f.WeaponSlots, s)
	}

	for _, e := range l.Engines.Points() {
		size := e.EngineSize()
		f.Engines = append(f.Engines, Engine{
			Location:     vec(e.Position()),
			Angle:        e.Angle(),
			Width:        size.Width,
			Length:       size.Height,
			ContrailSize: e.Contrail(),
			Style:        e.Style(),
		})
	}
	return f
}

// Apply builds points from the layout and appends them to l directly,
// without recording edits. Loading is not undoable.
func (f *File) Apply(l *layer.ShipLayer) error {
	if f.Center != nil {
		if err := l.Center.AddPoint(points.NewShipCenter(f.Center.Point(), f.CollisionRadius)); err != nil {
			return fmt.Errorf("center: %w", err)
		}
	}
	if f.ShieldCenter != nil {
		if err := l.Shield.AddPoint(points.NewShieldCenter(f.ShieldCenter.Point(), f.ShieldRadius)); err != nil {
			return fmt.Errorf("shield center: %w", err)
		}
	}

	for i, pos := range f.Bounds {
		if err := l.Bounds.AddPoint(points.NewBound(pos)); err != nil {
			return fmt.Errorf("bound %d: %w", i, err)
		}
	}

	for _, s := range f.WeaponSlots {
		if err := applySlot(l, s); err != nil {
			return fmt.Errorf("slot %s: %w", s.ID, err)
		}
	}

	for i, e := range f.Engines {
		p := points.NewEngine(e.Location.Point(), e.Angle, geometry.Size{Width: e.Width, Height: e.Length})
		p.SetContrail(e.ContrailSize)
		if e.Style != "" {
			p.SetStyle(e.Style)
		}
		if err := l.Engines.AddPoint(p); err != nil {
			return fmt.Errorf("engine %d: %w", i, err)
		}
	}
	return nil
}

func applySlot(l *layer.ShipLayer, s Slot) error {
	wt, err := points.ParseWeaponType(s.Type)
	if err != nil {
		return err
	}
	size, err := points.ParseWeaponSize(s.Size)
	if err != nil {
		return err
	}
	mount, err := points.ParseWeaponMount(s.Mount)
	if err != nil {
		return err
	}
	if len(s.Locations) == 0 {
		return fmt.Errorf("no locations: %w", ErrBadSlot)
	}
	if s.ID == "" || l.SlotIDTaken(s.ID) {
		return fmt.Errorf("missing or duplicate id: %w", ErrBadSlot)
	}

	if wt == points.TypeLaunchBay {
		bay := points.NewBay(s.ID)
		bay.SetWeaponSize(size)
		bay.SetWeaponMount(mount)
		bay.SetAngle(s.Angle)
		bay.SetArc(s.Arc)
		bay.SetRenderOrderMod(s.RenderOrderMod)
		for _, loc := range s.Locations {
			if err := l.Bays.AddPoint(points.NewLaunchPort(loc, bay)); err != nil {
				return err
			}
		}
		return nil
	}

	if len(s.Locations) != 1 {
		return fmt.Errorf("weapon slot needs 1 location, got %d: %w", len(s.Locations), ErrBadSlot)
	}
	p := points.NewWeaponSlot(s.Locations[0], s.ID)
	p.SetWeaponType(wt)
	p.SetWeaponSize(size)
	p.SetWeaponMount(mount)
	p.SetAngle(s.Angle)
	p.SetArc(s.Arc)
	p.SetRenderOrderMod(s.RenderOrderMod)
	return l.Slots.AddPoint(p)
}
