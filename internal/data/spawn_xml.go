package data

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/udisondev/otspawn/internal/model"
	"github.com/udisondev/otspawn/internal/spawn"
)

// --- XML structures (monster spawns) ---

type xmlMonsters struct {
	XMLName xml.Name  `xml:"monsters"`
	Areas   []xmlArea `xml:",any"`
}

type xmlArea struct {
	CenterX uint16     `xml:"centerx,attr"`
	CenterY uint16     `xml:"centery,attr"`
	CenterZ uint8      `xml:"centerz,attr"`
	Radius  *int32     `xml:"radius,attr"`
	Entries []xmlEntry `xml:",any"`
}

type xmlEntry struct {
	XMLName   xml.Name
	Name      string  `xml:"name,attr"`
	X         int16   `xml:"x,attr"`
	Y         int16   `xml:"y,attr"`
	Z         uint8   `xml:"z,attr"`
	SpawnTime uint32  `xml:"spawntime,attr"`
	Direction *uint8  `xml:"direction,attr"`
	Weight    *uint32 `xml:"weight,attr"`
}

// XMLSource reads spawn areas from a world-monster XML file:
//
//	<monsters>
//	  <monster centerx="100" centery="100" centerz="7" radius="5">
//	    <monster name="Rat" x="0" y="0" z="7" spawntime="60" direction="2" weight="1"/>
//	  </monster>
//	</monsters>
type XMLSource struct {
	path string
}

// NewXMLSource creates a source for the given file.
func NewXMLSource(path string) *XMLSource {
	return &XMLSource{path: path}
}

// Name returns the file path.
func (s *XMLSource) Name() string {
	return s.path
}

// LoadAreas parses the file.
func (s *XMLSource) LoadAreas(ctx context.Context) ([]spawn.AreaDef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	areas, err := ParseSpawnXML(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return areas, nil
}

// ParseSpawnXML converts world-monster XML into spawn areas.
// A missing radius means unbounded (-1), a missing direction North and a
// missing weight 1. Entries without a name are skipped, unknown directions
// fall back to North.
func ParseSpawnXML(raw []byte) ([]spawn.AreaDef, error) {
	var doc xmlMonsters
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	areas := make([]spawn.AreaDef, 0, len(doc.Areas))
	for _, xa := range doc.Areas {
		areas = append(areas, convertArea(xa))
	}
	return areas, nil
}

func convertArea(xa xmlArea) spawn.AreaDef {
	area := spawn.AreaDef{
		Center: model.NewPosition(xa.CenterX, xa.CenterY, xa.CenterZ),
		Radius: -1,
	}
	if xa.Radius != nil {
		area.Radius = *xa.Radius
	}

	for _, xe := range xa.Entries {
		if !strings.EqualFold(xe.XMLName.Local, "monster") || xe.Name == "" {
			continue
		}

		entry := spawn.EntryDef{
			Name:      xe.Name,
			OffsetX:   xe.X,
			OffsetY:   xe.Y,
			Direction: model.North,
			SpawnTime: xe.SpawnTime,
			Weight:    1,
		}
		if xe.Direction != nil {
			if dir := model.Direction(*xe.Direction); dir.IsValid() {
				entry.Direction = dir
			}
		}
		if xe.Weight != nil {
			entry.Weight = *xe.Weight
		}
		area.Entries = append(area.Entries, entry)
	}
	return area
}
