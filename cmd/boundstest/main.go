// Command boundstest prints where a boundary vertex would be inserted into a
// hull polygon, with and without mirror mode.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ship-editor/internal/control"
	"ship-editor/internal/points"
	"ship-editor/pkg/geometry"
)

type fixedAxis float64

func (a fixedAxis) AxisX() float64 { return float64(a) }

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	boundsFlag := flag.String("bounds", "", "Flat boundary coordinates, e.g. 0,0,10,0,10,10,0,10")
	atFlag := flag.String("at", "", "Candidate position x,y")
	axis := flag.Float64("axis", 0, "X coordinate of the symmetry axis")
	tolerance := flag.Float64("tolerance", control.DefaultMirrorTolerance, "Mirror counterpart tolerance")
	flag.Parse()

	if *boundsFlag == "" || *atFlag == "" {
		fmt.Println("Usage: boundstest -bounds x0,y0,x1,y1,... -at x,y [-axis 0] [-tolerance 2]")
		os.Exit(1)
	}

	coords, err := parseFloats(*boundsFlag)
	if err != nil || len(coords)%2 != 0 {
		fmt.Fprintf(os.Stderr, "Invalid bounds: need an even coordinate count (%v)\n", err)
		os.Exit(1)
	}
	at, err := parseFloats(*atFlag)
	if err != nil || len(at) != 2 {
		fmt.Fprintf(os.Stderr, "Invalid position: want x,y (%v)\n", err)
		os.Exit(1)
	}
	pos := geometry.Point2D{X: at[0], Y: at[1]}

	settings := control.Defaults()
	settings.MirrorTolerance = *tolerance

	for _, mirror := range []bool{false, true} {
		bounds := points.NewBoundPainter(settings, nil, fixedAxis(*axis))
		for i := 0; i < len(coords); i += 2 {
			if err := bounds.AddPoint(points.NewBound(geometry.Point2D{X: coords[i], Y: coords[i+1]})); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to add bound: %v\n", err)
				os.Exit(1)
			}
		}

		fmt.Printf("\nMirror %v:\n", mirror)
		plan, err := bounds.InsertAt(pos, mirror)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Insertion failed: %v\n", err)
			os.Exit(1)
		}
		if len(plan) == 0 {
			fmt.Println("  no insertion: fewer than 2 boundary points")
			continue
		}
		for _, ins := range plan {
			fmt.Printf("  insert (%.2f, %.2f) at index %d\n", ins.Point.Position().X, ins.Point.Position().Y, ins.Index)
		}
		fmt.Printf("  result:")
		for _, p := range bounds.Positions() {
			fmt.Printf(" (%.2f, %.2f)", p.X, p.Y)
		}
		fmt.Printf("\n  clockwise: %v\n", bounds.Clockwise())
	}
}
