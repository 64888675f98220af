package world

import (
	"github.com/annel0/grove-world/internal/logging"
	"github.com/annel0/grove-world/internal/util"
	"github.com/annel0/grove-world/internal/vec"
	"github.com/annel0/grove-world/internal/world/entity"
	"github.com/annel0/grove-world/internal/world/tile"
)

// ZoneMaterializer превращает описание зоны в живые сущности
// хранилища: по одному тайлу сетки на каждую клетку прямоугольника
// плюс дикая флора для зон с пулом флоры.
type ZoneMaterializer struct {
	store *entity.Store
	seed  uint64 // Базовый сид: флора зоны воспроизводима между загрузками
}

// NewZoneMaterializer создаёт материализатор поверх хранилища сущностей
func NewZoneMaterializer(store *entity.Store, seed uint64) *ZoneMaterializer {
	return &ZoneMaterializer{store: store, seed: seed}
}

// Materialize создаёт сущности зоны и возвращает их идентификаторы.
// Идемпотентность повторного вызова для одной зоны обеспечивает
// владеющий WorldManager, а не материализатор.
func (zm *ZoneMaterializer) Materialize(zone *ZoneDefinition) []uint64 {
	overrides := zone.OverrideIndex()
	defaultTerrain := zone.Ground.Terrain()

	handles := make([]uint64, 0, zone.Width*zone.Height)

	// Тайлы сетки: переопределение, если есть, иначе материал пола
	cellIDs := make(map[uint64]uint64, zone.Width*zone.Height)
	for lz := 0; lz < zone.Height; lz++ {
		for lx := 0; lx < zone.Width; lx++ {
			local := vec.Vec2{X: lx, Z: lz}
			terrain := defaultTerrain
			if t, ok := overrides[local.PackKey()]; ok {
				terrain = t
			}

			worldPos := vec.Vec2{X: zone.OriginX + lx, Z: zone.OriginZ + lz}
			id := zm.store.CreateCell(worldPos, terrain, zone.ID)
			cellIDs[local.PackKey()] = id
			handles = append(handles, id)
		}
	}

	handles = append(handles, zm.spawnWildFlora(zone, overrides, cellIDs)...)

	logging.Debug("Зона %s материализована: %d сущностей", zone.ID, len(handles))
	return handles
}

// spawnWildFlora заселяет свободные почвенные тайлы дикой флорой.
// Флора появляется "подросшей": начальная стадия роста 2-4.
func (zm *ZoneMaterializer) spawnWildFlora(zone *ZoneDefinition, overrides map[uint64]tile.TerrainType, cellIDs map[uint64]uint64) []uint64 {
	if zone.FloraDensity <= 0 || len(zone.FloraPool) == 0 {
		return nil
	}

	// Поток данной зоны: повторная материализация даёт ту же флору
	rng := util.NewStream(zm.seed ^ util.HashSeed(zone.ID))

	// Тайлы, занятые декорациями и строениями, для флоры недоступны
	occupied := make(map[uint64]bool, len(zone.Decorations)+len(zone.Structures))
	for _, d := range zone.Decorations {
		occupied[vec.Vec2{X: d.LocalX, Z: d.LocalZ}.PackKey()] = true
	}
	for _, s := range zone.Structures {
		occupied[vec.Vec2{X: s.LocalX, Z: s.LocalZ}.PackKey()] = true
	}

	defaultTerrain := zone.Ground.Terrain()

	var handles []uint64
	for lz := 0; lz < zone.Height; lz++ {
		for lx := 0; lx < zone.Width; lx++ {
			local := vec.Vec2{X: lx, Z: lz}
			key := local.PackKey()
			if occupied[key] {
				continue
			}

			terrain := defaultTerrain
			if t, ok := overrides[key]; ok {
				terrain = t
			}
			if terrain != tile.TerrainSoil {
				continue
			}

			if rng() >= zone.FloraDensity {
				continue
			}

			species := tile.PickWeighted(rng, zone.FloraPool)
			stage := util.RandInt(rng, 2, 4)

			worldPos := vec.Vec2{X: zone.OriginX + lx, Z: zone.OriginZ + lz}
			floraID := zm.store.CreateFlora(worldPos, species, stage, zone.ID)
			handles = append(handles, floraID)

			// Помечаем тайл занятым и связываем его с флорой
			occupied[key] = true
			if cellID, ok := cellIDs[key]; ok {
				zm.store.SetPayload(cellID, "occupied", true)
				zm.store.SetPayload(cellID, "flora_id", floraID)
			}
		}
	}
	return handles
}

// Unmaterialize удаляет ранее созданные сущности зоны
func (zm *ZoneMaterializer) Unmaterialize(handles []uint64) {
	for _, id := range handles {
		zm.store.Remove(id)
	}
}
