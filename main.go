// Package main provides the entry point for the ship editor: it loads a hull
// layout, replays an input script against it, and writes the result.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"ship-editor/internal/control"
	"ship-editor/internal/layer"
	"ship-editor/internal/prefs"
	"ship-editor/internal/script"
	"ship-editor/internal/session"
	"ship-editor/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	layoutPath := flag.String("layout", "", "Hull layout to load (.json or .msgpack)")
	scriptPath := flag.String("script", "", "YAML input script to replay")
	outPath := flag.String("out", "", "Write the edited layout here (.json or .msgpack)")
	spritePath := flag.String("sprite", "", "Attach this sprite (PNG, JPEG or TIFF) to the layer")
	renderPath := flag.String("render", "", "Render the sprite with boundary marks to this PNG")
	usePrefs := flag.Bool("prefs", false, "Use stored editor preferences instead of defaults")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *layoutPath == "" && *scriptPath == "" {
		fmt.Println("Usage: ship-editor [-layout hull.json] [-script steps.yaml] [-out out.json] [-sprite hull.png] [-render out.png]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Printf("Starting %s", version.String())

	settings := control.Defaults()
	if *usePrefs {
		p := prefs.Load()
		settings = control.FromPrefs(p)
		log.Printf("Settings from %s: selection %s, mirror %v", p.Path(), settings.SelectionMode, settings.MirrorMode)
	}
	s := session.New(settings)

	if *layoutPath != "" {
		if err := s.LoadLayout(*layoutPath); err != nil {
			log.Fatalf("Failed to load layout: %v", err)
		}
	}
	if *spritePath != "" {
		sprite, err := layer.LoadSprite(*spritePath)
		if err != nil {
			log.Fatalf("Failed to load sprite: %v", err)
		}
		s.Layer.Sprite = sprite
	}

	if *scriptPath != "" {
		sc, err := script.Load(*scriptPath)
		if err != nil {
			log.Fatalf("Failed to load script: %v", err)
		}
		if err := sc.Run(s); err != nil {
			log.Fatalf("Script failed: %v", err)
		}
	}

	for _, name := range s.History.History() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("%d undoable edits, %d redoable\n", s.History.UndoLen(), s.History.RedoLen())

	if *outPath != "" {
		if err := s.SaveLayout(*outPath); err != nil {
			log.Fatalf("Failed to save layout: %v", err)
		}
	}

	if *renderPath != "" {
		if err := render(s.Layer, *renderPath); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
	}
}

// render draws the layer into a canvas covering the transformed sprite.
func render(l *layer.ShipLayer, path string) error {
	bounds := l.WorldBounds()
	if bounds.Empty() {
		return fmt.Errorf("layer %s has no sprite", l.Name)
	}
	dst := image.NewRGBA(bounds)
	if !l.Render(dst) {
		return fmt.Errorf("layer %s has no sprite", l.Name)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}
