package world

import (
	"fmt"

	"github.com/annel0/grove-world/internal/vec"
	"github.com/annel0/grove-world/internal/world/tile"
)

// Direction представляет сторону света для соединения зон.
// Север — отрицательная ось Z, восток — положительная ось X.
type Direction string

const (
	DirNorth Direction = "north"
	DirSouth Direction = "south"
	DirEast  Direction = "east"
	DirWest  Direction = "west"
)

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	switch d {
	case DirNorth:
		return DirSouth
	case DirSouth:
		return DirNorth
	case DirEast:
		return DirWest
	case DirWest:
		return DirEast
	default:
		return d
	}
}

// TerrainOverride — тайл, отличающийся от материала пола зоны.
// Координаты локальные, в пределах [0,width) x [0,height).
type TerrainOverride struct {
	LocalX int              `json:"local_x"`
	LocalZ int              `json:"local_z"`
	Type   tile.TerrainType `json:"type"`
}

// DecorPlacement — размещение декоративного объекта внутри зоны
type DecorPlacement struct {
	ObjectID string  `json:"object_id"`
	LocalX   int     `json:"local_x"`
	LocalZ   int     `json:"local_z"`
	Scale    float64 `json:"scale,omitempty"`
}

// StructurePlacement — размещение строения внутри зоны (только поселения)
type StructurePlacement struct {
	TemplateID string `json:"template_id"`
	LocalX     int    `json:"local_x"`
	LocalZ     int    `json:"local_z"`
	Rotation   int    `json:"rotation_deg"`
}

// ZoneConnection — связь зоны с соседней.
// EntryX/EntryZ — локальная точка внутри владеющей зоны, где появляется
// сущность при переходе. Соединения всегда создаются парами: если зона A
// соединена с B в направлении D, то B соединена с A в обратном направлении.
type ZoneConnection struct {
	Direction Direction `json:"direction"`
	TargetID  string    `json:"target_id"`
	EntryX    int       `json:"entry_x"`
	EntryZ    int       `json:"entry_z"`
}

// ZoneDefinition — полное описание одной зоны мира.
// Интерьер зоны задаётся разреженно: хранятся только отклонения от
// материала пола.
type ZoneDefinition struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	ZoneType     string               `json:"zone_type"`
	OriginX      int                  `json:"origin_x"`
	OriginZ      int                  `json:"origin_z"`
	Width        int                  `json:"width"`
	Height       int                  `json:"height"`
	Ground       tile.GroundMaterial  `json:"ground"`
	Overrides    []TerrainOverride    `json:"overrides,omitempty"`
	Decorations  []DecorPlacement     `json:"decorations,omitempty"`
	Structures   []StructurePlacement `json:"structures,omitempty"`
	Plantable    bool                 `json:"plantable"`
	Connections  []ZoneConnection     `json:"connections,omitempty"`
	FloraPool    []tile.WeightedID    `json:"flora_pool,omitempty"`
	FloraDensity float64              `json:"flora_density,omitempty"`
}

// Contains проверяет, лежит ли мировая координата внутри зоны
func (z *ZoneDefinition) Contains(x, worldZ int) bool {
	return x >= z.OriginX && x < z.OriginX+z.Width &&
		worldZ >= z.OriginZ && worldZ < z.OriginZ+z.Height
}

// ContainsLocal проверяет, лежит ли локальная координата внутри зоны
func (z *ZoneDefinition) ContainsLocal(lx, lz int) bool {
	return lx >= 0 && lx < z.Width && lz >= 0 && lz < z.Height
}

// OverrideIndex строит хеш-карту переопределений тайлов для O(1) поиска.
// Ключ — упакованная локальная координата.
func (z *ZoneDefinition) OverrideIndex() map[uint64]tile.TerrainType {
	index := make(map[uint64]tile.TerrainType, len(z.Overrides))
	for _, ov := range z.Overrides {
		index[vec.Vec2{X: ov.LocalX, Z: ov.LocalZ}.PackKey()] = ov.Type
	}
	return index
}

// EntryPoint возвращает локальную точку входа на краю зоны в указанном
// направлении — середину соответствующей стороны.
func (z *ZoneDefinition) EntryPoint(d Direction) (int, int) {
	switch d {
	case DirNorth:
		return z.Width / 2, 0
	case DirSouth:
		return z.Width / 2, z.Height - 1
	case DirEast:
		return z.Width - 1, z.Height / 2
	default: // DirWest
		return 0, z.Height / 2
	}
}

// SpawnRef — ссылка на точку появления игрока
type SpawnRef struct {
	ZoneID string `json:"zone_id"`
	LocalX int    `json:"local_x"`
	LocalZ int    `json:"local_z"`
}

// WorldDefinition — неизменяемое описание сгенерированного мира.
// Создаётся генератором один раз и далее принадлежит WorldManager.
type WorldDefinition struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	SchemaVersion int              `json:"schema_version"`
	Seed          string           `json:"seed"`
	Zones         []ZoneDefinition `json:"zones"`
	Spawn         SpawnRef         `json:"spawn"`
}

// ZoneByID возвращает зону по идентификатору
func (w *WorldDefinition) ZoneByID(id string) (*ZoneDefinition, bool) {
	for i := range w.Zones {
		if w.Zones[i].ID == id {
			return &w.Zones[i], true
		}
	}
	return nil, false
}

// ZoneID формирует идентификатор зоны по порядковому индексу
func ZoneID(index int) string {
	return fmt.Sprintf("zone-%d", index)
}
