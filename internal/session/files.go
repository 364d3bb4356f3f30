package session

import (
	"fmt"
	"log"

	"ship-editor/internal/event"
	"ship-editor/internal/layer"
	"ship-editor/internal/layout"
)

// LoadLayout replaces the edited layer with the layout at path. Loading is
// not undoable and clears the history.
func (s *Session) LoadLayout(path string) error {
	f, err := layout.Load(path)
	if err != nil {
		return err
	}
	return s.applyLayout(path, f)
}

// LoadLayoutAsync reads the file on a background goroutine and posts the
// geometry change back for the next Drain. done runs on the editor thread.
func (s *Session) LoadLayoutAsync(path string, done func(error)) {
	go func() {
		f, err := layout.Load(path)
		s.Post(func() {
			if err == nil {
				err = s.applyLayout(path, f)
			}
			if done != nil {
				done(err)
			}
		})
	}()
}

func (s *Session) applyLayout(path string, f *layout.File) error {
	l := layer.New(f.Name, s.Settings, s.Bus)
	if err := f.Apply(l); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	if spritePath := f.SpriteFile(path); spritePath != "" {
		sprite, err := layer.LoadSprite(spritePath)
		if err != nil {
			// Geometry is still editable without its sprite
			log.Printf("Session: %v", err)
		} else {
			l.Sprite = sprite
		}
	}

	s.setLayer(l)
	s.History.Clear()
	s.Path = path
	s.Modified = false

	log.Printf("Session: loaded layout %s (%d bounds, %d slots, %d bays, %d engines)",
		path, l.Bounds.Len(), l.Slots.Len(), len(l.Bays.Bays()), l.Engines.Len())
	s.Bus.Emit(event.LayoutLoaded, path)
	s.Bus.Emit(event.ViewerRepaintQueued, nil)
	return nil
}

// SaveLayout writes the current geometry to path. A .msgpack extension
// selects the binary encoding.
func (s *Session) SaveLayout(path string) error {
	f := s.Snapshot()
	if s.Layer.Sprite != nil {
		f.SetSprite(path, s.Layer.Sprite.Path)
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	s.Path = path
	s.Modified = false
	log.Printf("Session: saved layout %s", path)
	return nil
}
