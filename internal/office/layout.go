package office

import (
	"fmt"
	"math"

	"officesim-backend/internal/geom"
	"officesim-backend/internal/naming"
)

// DeskSpec places a desk on the floor. Empty IDs and names are filled in
// when the layout is loaded into a Manager.
type DeskSpec struct {
	ID     string
	Name   string
	Center geom.Point
	Width  float64
	Height float64
}

// SpaceSpec places a meeting space on the floor.
type SpaceSpec struct {
	ID     string
	Name   string
	Center geom.Point
	Width  float64
	Height float64
}

// Bounds returns the room footprint.
func (s SpaceSpec) Bounds() geom.Rect {
	return geom.RectFromCenter(s.Center, s.Width, s.Height)
}

// Layout is a floor plan: the floor size, where workers come in, and the
// fixed set of desks and meeting spaces.
type Layout struct {
	Width    float64
	Height   float64
	Entrance geom.Rect
	Desks    []DeskSpec
	Spaces   []SpaceSpec
}

// Floor returns the walkable floor rectangle.
func (l Layout) Floor() geom.Rect {
	return geom.Rect{Max: geom.Pt(l.Width, l.Height)}
}

// Validate checks that every desk and space has an area and sits on the
// floor, that spaces do not overlap and that IDs are not reused.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: floor must have a positive size, got %vx%v", ErrInvalidLayout, l.Width, l.Height)
	}
	floor := l.Floor()
	if l.Entrance.Empty() || !floor.Contains(l.Entrance.Min) || !floor.Contains(l.Entrance.Max) {
		return fmt.Errorf("%w: entrance %+v is not on the floor", ErrInvalidLayout, l.Entrance)
	}

	seen := make(map[string]bool, len(l.Desks)+len(l.Spaces))
	check := func(kind, id, name string, c geom.Point, w, h float64) error {
		if w <= 0 || h <= 0 {
			return fmt.Errorf("%w: %s %q has no area", ErrInvalidLayout, kind, name)
		}
		if !floor.Contains(c) {
			return fmt.Errorf("%w: %s %q is off the floor at %+v", ErrInvalidLayout, kind, name, c)
		}
		if id == "" {
			return nil
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidLayout, id)
		}
		seen[id] = true
		return nil
	}
	for _, d := range l.Desks {
		if err := check("desk", d.ID, d.Name, d.Center, d.Width, d.Height); err != nil {
			return err
		}
	}
	for i, s := range l.Spaces {
		if err := check("space", s.ID, s.Name, s.Center, s.Width, s.Height); err != nil {
			return err
		}
		for _, other := range l.Spaces[:i] {
			if s.Bounds().Overlaps(other.Bounds()) {
				return fmt.Errorf("%w: space %q overlaps space %q", ErrInvalidLayout, s.Name, other.Name)
			}
		}
	}
	return nil
}

// resolve fills in missing IDs and names. The receiver is not modified.
func (l Layout) resolve(ids *naming.IDGenerator, rooms *naming.Pool) Layout {
	out := l
	out.Desks = append([]DeskSpec(nil), l.Desks...)
	out.Spaces = append([]SpaceSpec(nil), l.Spaces...)
	for _, s := range out.Spaces {
		if s.Name != "" {
			rooms.Claim(s.Name)
		}
	}
	for i := range out.Desks {
		d := &out.Desks[i]
		if d.ID == "" {
			d.ID = ids.New("desk")
		}
		if d.Name == "" {
			d.Name = fmt.Sprintf("Desk-%d", i+1)
		}
	}
	for i := range out.Spaces {
		s := &out.Spaces[i]
		if s.ID == "" {
			s.ID = ids.New("space")
		}
		if s.Name == "" {
			s.Name = rooms.Next()
		}
	}
	return out
}

const floorMargin = 20

// GenerateLayout builds a simple open-plan floor: desks in a grid over the
// left part of the floor, meeting rooms stacked along the right wall and the
// entrance centered on the bottom wall. Desks are named "<Zone>-<seq>".
func GenerateLayout(width, height float64, deskCount, spaceCount int) Layout {
	l := Layout{Width: width, Height: height}

	lobby := 60.0
	l.Entrance = geom.Rect{
		Min: geom.Pt(width*0.4, height-lobby+10),
		Max: geom.Pt(width*0.6, height-10),
	}

	deskArea := geom.Rect{
		Min: geom.Pt(floorMargin, floorMargin),
		Max: geom.Pt(width*0.68, height-lobby-floorMargin),
	}
	if deskCount > 0 && !deskArea.Empty() {
		cols := int(math.Ceil(math.Sqrt(float64(deskCount) * deskArea.Dx() / deskArea.Dy())))
		cols = max(cols, 1)
		rows := (deskCount + cols - 1) / cols
		cellW := deskArea.Dx() / float64(cols)
		cellH := deskArea.Dy() / float64(rows)
		dw, dh := math.Min(40, cellW*0.7), math.Min(24, cellH*0.6)

		perZone := (deskCount + len(naming.Zones) - 1) / len(naming.Zones)
		for i := 0; i < deskCount; i++ {
			r, c := i/cols, i%cols
			l.Desks = append(l.Desks, DeskSpec{
				Name: fmt.Sprintf("%s-%d", naming.Zones[i/perZone], i%perZone+1),
				Center: geom.Pt(
					deskArea.Min.X+(float64(c)+0.5)*cellW,
					deskArea.Min.Y+(float64(r)+0.5)*cellH,
				),
				Width:  dw,
				Height: dh,
			})
		}
	}

	roomArea := geom.Rect{
		Min: geom.Pt(width*0.72, floorMargin),
		Max: geom.Pt(width-floorMargin, height-lobby-floorMargin),
	}
	if spaceCount > 0 && !roomArea.Empty() {
		cellH := roomArea.Dy() / float64(spaceCount)
		for i := 0; i < spaceCount; i++ {
			name := naming.RoomNames[i%len(naming.RoomNames)]
			if n := i / len(naming.RoomNames); n > 0 {
				name = fmt.Sprintf("%s %d", name, n+1)
			}
			l.Spaces = append(l.Spaces, SpaceSpec{
				Name:   name,
				Center: geom.Pt(roomArea.Center().X, roomArea.Min.Y+(float64(i)+0.5)*cellH),
				Width:  roomArea.Dx() * 0.9,
				Height: cellH * 0.8,
			})
		}
	}
	return l
}
