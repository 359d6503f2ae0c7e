// Package config reads the user's color gradient, decay factor and
// custom shape definitions from a simple key = value file. Any parse
// failure falls back to the built-in defaults; configuration can never
// take the visualizer down.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Color is a terminal palette color. Default lets the terminal's own
// background/foreground show through.
type Color int

const (
	Default Color = iota - 1
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = map[string]Color{
	"default": Default,
	"black":   Black,
	"red":     Red,
	"green":   Green,
	"yellow":  Yellow,
	"blue":    Blue,
	"magenta": Magenta,
	"cyan":    Cyan,
	"white":   White,
}

// ColorPair is one foreground/background step of the amplitude
// gradient.
type ColorPair struct {
	FG Color
	BG Color
}

// ShapeVariant selects how a custom shape reacts to amplitude.
type ShapeVariant int

const (
	// Expand scales every vertex outward from the shape center.
	Expand ShapeVariant = iota
	// Distort displaces each ray/edge intersection outward by the
	// instantaneous sample amplitude.
	Distort
)

// Point is a shape vertex in the shape's own unit coordinates.
type Point struct {
	X float64
	Y float64
}

// Shape is a named set of closed polygons rendered by the shape mode.
type Shape struct {
	Name     string
	Variant  ShapeVariant
	Polygons [][]Point
}

// Config is the parsed user configuration, read-only to the rest of
// the program.
type Config struct {
	Gradient    []ColorPair
	Edge        ColorPair
	EdgeSet     bool
	DecayFactor float64
	Shapes      []Shape
}

// Defaults returns the built-in single-color gradient used whenever
// the config file is missing or malformed.
func Defaults() Config {
	return Config{
		Gradient:    []ColorPair{{FG: Green, BG: Default}},
		Edge:        ColorPair{FG: Red, BG: Default},
		DecayFactor: 0.025,
	}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "termscope.conf")
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the key = value format:
//
//	gradient_color = green,default
//	edge_color     = red,default
//	decay_factor   = 0.02
//	shape          = star:distort:0.0,-1.0 0.59,-0.19 0.95,-0.31
//
// gradient_color lines are ordered low to high amplitude. Repeated
// shape lines with the same name add polygons to that shape.
func Parse(r io.Reader) (Config, error) {
	cfg := Config{DecayFactor: 0.025}
	shapeIndex := map[string]int{}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, fmt.Errorf("syntax error line %d: missing '='", lineNum)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "gradient_color":
			pair, err := parsePair(value)
			if err != nil {
				return Config{}, fmt.Errorf("line %d: %w", lineNum, err)
			}
			cfg.Gradient = append(cfg.Gradient, pair)
		case "edge_color":
			pair, err := parsePair(value)
			if err != nil {
				return Config{}, fmt.Errorf("line %d: %w", lineNum, err)
			}
			cfg.Edge = pair
			cfg.EdgeSet = true
		case "decay_factor":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f <= 0 || f >= 1 {
				return Config{}, fmt.Errorf("line %d: decay_factor must be a float in (0,1)", lineNum)
			}
			cfg.DecayFactor = f
		case "shape":
			if err := parseShapeLine(&cfg, shapeIndex, value); err != nil {
				return Config{}, fmt.Errorf("line %d: %w", lineNum, err)
			}
		default:
			return Config{}, fmt.Errorf("line %d: unknown key %q", lineNum, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if len(cfg.Gradient) == 0 {
		return Config{}, fmt.Errorf("no gradient_color configurations found")
	}
	if !cfg.EdgeSet {
		cfg.Edge = ColorPair{FG: Red, BG: Default}
	}
	return cfg, nil
}

func parsePair(value string) (ColorPair, error) {
	fgStr, bgStr, ok := strings.Cut(value, ",")
	if !ok {
		return ColorPair{}, fmt.Errorf("expected 'fg,bg'")
	}
	fg, okFG := colorNames[strings.TrimSpace(strings.ToLower(fgStr))]
	bg, okBG := colorNames[strings.TrimSpace(strings.ToLower(bgStr))]
	if !okFG || !okBG {
		return ColorPair{}, fmt.Errorf("invalid color; valid colors: default, black, red, green, yellow, blue, magenta, cyan, white")
	}
	return ColorPair{FG: fg, BG: bg}, nil
}

func parseShapeLine(cfg *Config, index map[string]int, value string) error {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 {
		return fmt.Errorf("expected 'name:variant:x,y x,y ...'")
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return fmt.Errorf("shape name must not be empty")
	}

	var variant ShapeVariant
	switch strings.TrimSpace(strings.ToLower(parts[1])) {
	case "expand":
		variant = Expand
	case "distort":
		variant = Distort
	default:
		return fmt.Errorf("unknown shape variant %q (expand or distort)", parts[1])
	}

	var poly []Point
	for _, tok := range strings.Fields(parts[2]) {
		xStr, yStr, ok := strings.Cut(tok, ",")
		if !ok {
			return fmt.Errorf("bad vertex %q, expected 'x,y'", tok)
		}
		x, errX := strconv.ParseFloat(xStr, 64)
		y, errY := strconv.ParseFloat(yStr, 64)
		if errX != nil || errY != nil {
			return fmt.Errorf("bad vertex %q, expected 'x,y'", tok)
		}
		poly = append(poly, Point{X: x, Y: y})
	}
	if len(poly) < 3 {
		return fmt.Errorf("shape polygon needs at least 3 vertices")
	}

	if i, ok := index[name]; ok {
		if cfg.Shapes[i].Variant != variant {
			return fmt.Errorf("shape %q redeclared with a different variant", name)
		}
		cfg.Shapes[i].Polygons = append(cfg.Shapes[i].Polygons, poly)
		return nil
	}
	index[name] = len(cfg.Shapes)
	cfg.Shapes = append(cfg.Shapes, Shape{Name: name, Variant: variant, Polygons: [][]Point{poly}})
	return nil
}
