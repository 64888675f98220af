package world

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/grove-world/internal/logging"
	"github.com/annel0/grove-world/internal/util"
	"github.com/annel0/grove-world/internal/vec"
	"github.com/annel0/grove-world/internal/world/tile"
)

// WorldGenerator строит граф зон мира из строкового сида и уровня игрока.
// Генерация — чистая функция своих аргументов: одинаковая пара
// (сид, уровень) всегда даёт побайтово одинаковый WorldDefinition.
type WorldGenerator struct {
	catalog *Catalog
}

// NewWorldGenerator создаёт генератор с указанным каталогом архетипов
func NewWorldGenerator(catalog *Catalog) *WorldGenerator {
	return &WorldGenerator{catalog: catalog}
}

// openEdge — свободная сторона уже размещённой зоны, к которой можно
// пристроить новую зону
type openEdge struct {
	zoneIndex int
	dir       Direction
}

// Generate строит мир из сида и уровня игрока.
// Если свободные стороны заканчиваются раньше, чем набрано нужное число
// зон, возвращается частичный мир — это штатный исход, а не ошибка.
func (wg *WorldGenerator) Generate(seed string, playerLevel int) *WorldDefinition {
	start := time.Now()

	intSeed := util.HashSeed(seed)
	rng := util.NewStream(intSeed)
	noise := util.NewScaleNoise(intSeed)

	targetCount := wg.zoneCount(playerLevel, rng)

	// Стартовая зона всегда роща 12x12 в начале координат
	startArch, ok := wg.catalog.Get(StartingArchetypeID)
	if !ok {
		// Каталог валидируется при загрузке, отсутствие стартового
		// архетипа — нарушение контракта программиста
		panic(fmt.Sprintf("каталог не содержит архетип %q", StartingArchetypeID))
	}

	zones := make([]ZoneDefinition, 0, targetCount)
	zones = append(zones, wg.buildZone(0, startArch, StartingZoneSize, StartingZoneSize, 0, 0, rng, noise))

	// Занятые направления: к одной стороне зоны пристраивается не более
	// одной соседней зоны. Множество живёт только внутри этого вызова.
	usedDirs := make(map[int]map[Direction]bool)

	for i := 1; i < targetCount; i++ {
		arch := wg.pickArchetype(playerLevel, rng)
		width := util.RandInt(rng, arch.MinWidth, arch.MaxWidth)
		height := util.RandInt(rng, arch.MinHeight, arch.MaxHeight)

		edges := wg.openEdges(zones, usedDirs)
		if len(edges) == 0 {
			// Свободных сторон больше нет — останавливаемся раньше
			logging.Debug("Генерация остановлена на %d зонах из %d: свободные стороны исчерпаны", len(zones), targetCount)
			break
		}

		edge := edges[int(rng()*float64(len(edges)))]
		parent := zones[edge.zoneIndex]
		originX, originZ := wg.childOrigin(&parent, edge.dir, width, height, rng)

		child := wg.buildZone(i, arch, width, height, originX, originZ, rng, noise)

		// Создаём двунаправленную пару соединений с точками входа
		// в середине соответствующих сторон
		pex, pez := parent.EntryPoint(edge.dir)
		cex, cez := child.EntryPoint(edge.dir.Opposite())
		zones[edge.zoneIndex].Connections = append(zones[edge.zoneIndex].Connections, ZoneConnection{
			Direction: edge.dir,
			TargetID:  child.ID,
			EntryX:    pex,
			EntryZ:    pez,
		})
		child.Connections = append(child.Connections, ZoneConnection{
			Direction: edge.dir.Opposite(),
			TargetID:  parent.ID,
			EntryX:    cex,
			EntryZ:    cez,
		})

		markDirUsed(usedDirs, edge.zoneIndex, edge.dir)
		markDirUsed(usedDirs, i, edge.dir.Opposite())

		zones = append(zones, child)
	}

	def := &WorldDefinition{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String(),
		Name:          fmt.Sprintf("world-%s", seed),
		SchemaVersion: SchemaVersion,
		Seed:          seed,
		Zones:         zones,
		Spawn: SpawnRef{
			ZoneID: zones[0].ID,
			LocalX: zones[0].Width / 2,
			LocalZ: zones[0].Height / 2,
		},
	}

	zonesGenerated.Add(float64(len(zones)))
	generateDuration.Observe(time.Since(start).Seconds())
	logging.Info("Мир %s сгенерирован: %d зон (сид %q, уровень %d) за %v",
		def.ID, len(zones), seed, playerLevel, time.Since(start))

	return def
}

// zoneCount определяет число зон по уровню игрока.
// До 20 уровня — фиксированная ступенчатая функция, дальше 8-12 случайно.
func (wg *WorldGenerator) zoneCount(playerLevel int, rng util.Stream) int {
	switch {
	case playerLevel < 5:
		return 1
	case playerLevel < 10:
		return 3
	case playerLevel < 15:
		return 5
	case playerLevel < 20:
		return 7
	default:
		return util.RandInt(rng, 8, 12)
	}
}

// pickArchetype выбирает архетип среди доступных на текущем уровне
func (wg *WorldGenerator) pickArchetype(playerLevel int, rng util.Stream) *ZoneArchetype {
	eligible := wg.catalog.Eligible(playerLevel)
	pool := make([]tile.WeightedID, len(eligible))
	for i, a := range eligible {
		pool[i] = tile.WeightedID{ID: a.ID, Weight: a.Weight}
	}
	id := tile.PickWeighted(rng, pool)
	arch, _ := wg.catalog.Get(id)
	return arch
}

// openEdges перечисляет свободные стороны всех размещённых зон
// в фиксированном порядке (для детерминированности выбора)
func (wg *WorldGenerator) openEdges(zones []ZoneDefinition, usedDirs map[int]map[Direction]bool) []openEdge {
	order := []Direction{DirNorth, DirSouth, DirEast, DirWest}
	var edges []openEdge
	for i := range zones {
		for _, d := range order {
			if !usedDirs[i][d] {
				edges = append(edges, openEdge{zoneIndex: i, dir: d})
			}
		}
	}
	return edges
}

// childOrigin вычисляет начало новой зоны: смещение от родителя на его
// протяжённость плюс зазор в 1 тайл, перпендикулярная координата
// случайна в пределах перекрытия, чтобы новая зона не выступала за
// родителя по этой оси.
func (wg *WorldGenerator) childOrigin(parent *ZoneDefinition, d Direction, width, height int, rng util.Stream) (int, int) {
	switch d {
	case DirEast:
		return parent.OriginX + parent.Width + 1, parent.OriginZ + perpOffset(parent.Height-height, rng)
	case DirWest:
		return parent.OriginX - width - 1, parent.OriginZ + perpOffset(parent.Height-height, rng)
	case DirSouth:
		return parent.OriginX + perpOffset(parent.Width-width, rng), parent.OriginZ + parent.Height + 1
	default: // DirNorth
		return parent.OriginX + perpOffset(parent.Width-width, rng), parent.OriginZ - height - 1
	}
}

// perpOffset возвращает случайное смещение в [0, maxOffset].
// Если новая зона не меньше родителя по этой оси, смещение нулевое.
func perpOffset(maxOffset int, rng util.Stream) int {
	if maxOffset <= 0 {
		return 0
	}
	return int(rng() * float64(maxOffset+1))
}

func markDirUsed(usedDirs map[int]map[Direction]bool, zoneIndex int, d Direction) {
	if usedDirs[zoneIndex] == nil {
		usedDirs[zoneIndex] = make(map[Direction]bool)
	}
	usedDirs[zoneIndex][d] = true
}

// buildZone создаёт описание зоны по архетипу: переопределения тайлов,
// декорации и строения
func (wg *WorldGenerator) buildZone(index int, arch *ZoneArchetype, width, height, originX, originZ int, rng util.Stream, noise *util.ScaleNoise) ZoneDefinition {
	overrides := wg.rollOverrides(arch, width, height, rng)

	// Занятые тайлы зоны: переопределения плюс уже размещённые объекты
	occupied := make(map[uint64]bool, len(overrides))
	for _, ov := range overrides {
		occupied[vec.Vec2{X: ov.LocalX, Z: ov.LocalZ}.PackKey()] = true
	}

	decorations := wg.rollDecorations(arch, width, height, originX, originZ, rng, noise, occupied)
	structures := wg.rollStructures(arch, width, height, rng, occupied)

	plantable := arch.Plantable
	if index == 0 {
		// Стартовая зона пригодна для посадки всегда
		plantable = true
	}

	return ZoneDefinition{
		ID:           ZoneID(index),
		Name:         zoneName(arch.ZoneType, index),
		ZoneType:     arch.ZoneType,
		OriginX:      originX,
		OriginZ:      originZ,
		Width:        width,
		Height:       height,
		Ground:       arch.Ground,
		Overrides:    overrides,
		Decorations:  decorations,
		Structures:   structures,
		Plantable:    plantable,
		FloraPool:    arch.FloraPool,
		FloraDensity: arch.FloraDensity,
	}
}

// rollOverrides распределяет переопределения тайлов по зоне.
// Полный список координат тасуется по Фишеру-Йетсу, после чего первые
// waterCount тайлов становятся водой, следующие rockCount — камнем,
// следующие pathCount — тропой. Коллизии координат исключены по
// построению, а распределение соответствует долям архетипа.
func (wg *WorldGenerator) rollOverrides(arch *ZoneArchetype, width, height int, rng util.Stream) []TerrainOverride {
	area := width * height
	waterCount := int(math.Round(float64(area) * arch.Terrain.WaterPct))
	rockCount := int(math.Round(float64(area) * arch.Terrain.RockPct))
	pathCount := int(math.Round(float64(area) * arch.Terrain.PathPct))

	total := waterCount + rockCount + pathCount
	if total == 0 {
		return nil
	}

	coords := make([]vec.Vec2, 0, area)
	for z := 0; z < height; z++ {
		for x := 0; x < width; x++ {
			coords = append(coords, vec.Vec2{X: x, Z: z})
		}
	}

	// Тасование Фишера-Йетса на потоке генератора
	for i := len(coords) - 1; i > 0; i-- {
		j := int(rng() * float64(i+1))
		coords[i], coords[j] = coords[j], coords[i]
	}

	if total > area {
		total = area
	}

	overrides := make([]TerrainOverride, 0, total)
	for i := 0; i < total; i++ {
		var t tile.TerrainType
		switch {
		case i < waterCount:
			t = tile.TerrainWater
		case i < waterCount+rockCount:
			t = tile.TerrainRock
		default:
			t = tile.TerrainPath
		}
		overrides = append(overrides, TerrainOverride{LocalX: coords[i].X, LocalZ: coords[i].Z, Type: t})
	}
	return overrides
}

// rollDecorations рассеивает декорации по зоне.
// Рассеивание best-effort: попадание в занятый тайл пропускается без
// повторных попыток, поэтому итоговое число может быть меньше целевого.
func (wg *WorldGenerator) rollDecorations(arch *ZoneArchetype, width, height, originX, originZ int, rng util.Stream, noise *util.ScaleNoise, occupied map[uint64]bool) []DecorPlacement {
	if arch.DecorDensity <= 0 || len(arch.DecorPool) == 0 {
		return nil
	}

	area := width * height
	attempts := int(math.Round(float64(area) * arch.DecorDensity))

	var placements []DecorPlacement
	for i := 0; i < attempts; i++ {
		x := int(rng() * float64(width))
		z := int(rng() * float64(height))
		objectID := tile.PickWeighted(rng, arch.DecorPool)

		key := vec.Vec2{X: x, Z: z}.PackKey()
		if occupied[key] {
			continue
		}
		occupied[key] = true

		placements = append(placements, DecorPlacement{
			ObjectID: objectID,
			LocalX:   x,
			LocalZ:   z,
			Scale:    noise.ScaleAt(originX+x, originZ+z),
		})
	}
	return placements
}

// rollStructures размещает строения для архетипов с пулом строений
// (поселения). Как и декорации — best-effort.
func (wg *WorldGenerator) rollStructures(arch *ZoneArchetype, width, height int, rng util.Stream, occupied map[uint64]bool) []StructurePlacement {
	if len(arch.StructurePool) == 0 {
		return nil
	}

	count := util.RandInt(rng, 1, 3)
	var placements []StructurePlacement
	for i := 0; i < count; i++ {
		templateID := tile.PickWeighted(rng, arch.StructurePool)
		x := int(rng() * float64(width))
		z := int(rng() * float64(height))
		rotation := 90 * int(rng()*4)

		key := vec.Vec2{X: x, Z: z}.PackKey()
		if occupied[key] {
			continue
		}
		occupied[key] = true

		placements = append(placements, StructurePlacement{
			TemplateID: templateID,
			LocalX:     x,
			LocalZ:     z,
			Rotation:   rotation,
		})
	}
	return placements
}

// zoneName возвращает человекочитаемое имя зоны
func zoneName(zoneType string, index int) string {
	if index == 0 {
		return "Стартовая роща"
	}
	names := map[string]string{
		"grove":      "Роща",
		"clearing":   "Поляна",
		"path":       "Тропа",
		"forest":     "Дикий лес",
		"settlement": "Поселение",
	}
	base, ok := names[zoneType]
	if !ok {
		base = "Зона"
	}
	return fmt.Sprintf("%s %d", base, index)
}
