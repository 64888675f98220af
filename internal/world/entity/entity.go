package entity

import (
	"github.com/annel0/grove-world/internal/vec"
	"github.com/annel0/grove-world/internal/world/tile"
)

// EntityType представляет тип пространственной сущности
type EntityType uint8

const (
	EntityTypeCell  EntityType = iota // Тайл сетки зоны
	EntityTypeFlora                   // Дикая флора
)

// Entity — живая пространственная сущность материализованной зоны.
// Создаётся при загрузке зоны и уничтожается при выгрузке; никогда
// не сохраняется.
type Entity struct {
	ID       uint64
	Type     EntityType
	Position vec.Vec2
	ZoneID   string // Тег зоны для массового удаления

	// Поля тайла
	Terrain tile.TerrainType

	// Поля флоры
	Species string
	Stage   int

	// Перекрёстные ссылки и произвольные данные
	Payload map[string]interface{}
}
