package world

import (
	"sync"

	"github.com/annel0/grove-world/internal/eventbus"
	"github.com/annel0/grove-world/internal/logging"
	"github.com/annel0/grove-world/internal/world/tile"
)

// Disposable — визуальный объект, который можно освободить.
// Менеджер мира не заглядывает внутрь визуализаций, только создаёт
// и освобождает их.
type Disposable interface {
	Dispose()
}

// RenderFactory создаёт визуальные представления объектов зоны.
// Возвращает (nil, false) для неизвестных идентификаторов — менеджер
// такие пропускает без ошибки.
type RenderFactory interface {
	CreateDecorationVisual(objectID string, x, z int, scale float64) (Disposable, bool)
	CreateStructureVisual(templateID string, x, z int, rotationDeg int) (Disposable, bool)
}

// LoadedZone — материализованная зона: описание плюс живые ручки
// сущностей и визуализаций. Существует только пока зона загружена.
type LoadedZone struct {
	Def      *ZoneDefinition
	Entities []uint64
	Visuals  []Disposable
}

// WorldManager владеет сгенерированным WorldDefinition и множеством
// загруженных зон; отвечает на пространственные запросы и управляет
// жизненным циклом зон. Все мутации сериализуются одним мьютексом.
type WorldManager struct {
	mu           sync.RWMutex
	def          *WorldDefinition
	overrideIdx  map[string]map[uint64]tile.TerrainType // Индексы переопределений по зонам
	loaded       map[string]*LoadedZone
	materializer *ZoneMaterializer
	factory      RenderFactory
	bus          eventbus.EventBus
}

// NewWorldManager создаёт менеджер поверх материализатора
func NewWorldManager(materializer *ZoneMaterializer) *WorldManager {
	return &WorldManager{
		loaded:       make(map[string]*LoadedZone),
		materializer: materializer,
	}
}

// SetEventBus подключает шину событий жизненного цикла зон
func (wm *WorldManager) SetEventBus(bus eventbus.EventBus) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.bus = bus
}

// Init устанавливает сгенерированный мир и контекст рендеринга.
// Зоны при этом не загружаются.
func (wm *WorldManager) Init(def *WorldDefinition, factory RenderFactory) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wm.def = def
	wm.factory = factory
	wm.loaded = make(map[string]*LoadedZone)

	// Предстроенные индексы переопределений для O(1) проверок проходимости
	wm.overrideIdx = make(map[string]map[uint64]tile.TerrainType, len(def.Zones))
	for i := range def.Zones {
		z := &def.Zones[i]
		wm.overrideIdx[z.ID] = z.OverrideIndex()
	}

	logging.Info("Мир %s установлен: %d зон", def.ID, len(def.Zones))
}

// LoadZone материализует зону и создаёт её визуализации.
// Повторная загрузка, неизвестный ID или отсутствие мира — тихий no-op.
func (wm *WorldManager) LoadZone(id string) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.loadZoneLocked(id)
}

func (wm *WorldManager) loadZoneLocked(id string) {
	if wm.def == nil {
		return
	}
	if _, already := wm.loaded[id]; already {
		return
	}
	zone, ok := wm.def.ZoneByID(id)
	if !ok {
		return
	}

	record := &LoadedZone{Def: zone}
	record.Entities = wm.materializer.Materialize(zone)

	if wm.factory != nil {
		for _, d := range zone.Decorations {
			visual, ok := wm.factory.CreateDecorationVisual(d.ObjectID, zone.OriginX+d.LocalX, zone.OriginZ+d.LocalZ, d.Scale)
			if !ok {
				continue
			}
			record.Visuals = append(record.Visuals, visual)
		}
		for _, s := range zone.Structures {
			visual, ok := wm.factory.CreateStructureVisual(s.TemplateID, zone.OriginX+s.LocalX, zone.OriginZ+s.LocalZ, s.Rotation)
			if !ok {
				continue
			}
			record.Visuals = append(record.Visuals, visual)
		}
	}

	wm.loaded[id] = record
	zonesLoaded.Inc()
	loadedZonesGauge.Set(float64(len(wm.loaded)))

	publishZoneEvent(wm.bus, EventZoneLoaded, ZoneLifecyclePayload{
		ZoneID:   zone.ID,
		ZoneType: zone.ZoneType,
		Entities: len(record.Entities),
	})
	logging.Debug("Зона %s загружена: %d сущностей, %d визуализаций", id, len(record.Entities), len(record.Visuals))
}

// UnloadZone выгружает зону: удаляет сущности и освобождает
// визуализации. Незагруженная зона — тихий no-op.
func (wm *WorldManager) UnloadZone(id string) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.unloadZoneLocked(id)
}

func (wm *WorldManager) unloadZoneLocked(id string) {
	record, ok := wm.loaded[id]
	if !ok {
		return
	}

	wm.materializer.Unmaterialize(record.Entities)
	for _, visual := range record.Visuals {
		visual.Dispose()
	}
	delete(wm.loaded, id)

	zonesUnloaded.Inc()
	loadedZonesGauge.Set(float64(len(wm.loaded)))

	publishZoneEvent(wm.bus, EventZoneUnloaded, ZoneLifecyclePayload{
		ZoneID:   record.Def.ID,
		ZoneType: record.Def.ZoneType,
		Entities: len(record.Entities),
	})
	logging.Debug("Зона %s выгружена", id)
}

// LoadAllZones загружает все зоны мира
func (wm *WorldManager) LoadAllZones() {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if wm.def == nil {
		return
	}
	for i := range wm.def.Zones {
		wm.loadZoneLocked(wm.def.Zones[i].ID)
	}
}

// UnloadAllZones выгружает все загруженные зоны
func (wm *WorldManager) UnloadAllZones() {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for id := range wm.loaded {
		wm.unloadZoneLocked(id)
	}
}

// IsZoneLoaded сообщает, загружена ли зона
func (wm *WorldManager) IsZoneLoaded(id string) bool {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	_, ok := wm.loaded[id]
	return ok
}

// WorldToLocal находит зону, содержащую мировую координату.
// Линейный перебор: зон не больше дюжины. Возвращает ok == false для
// точек вне всех зон (например, зазоров между зонами).
func (wm *WorldManager) WorldToLocal(x, z int) (zoneID string, localX, localZ int, ok bool) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	if wm.def == nil {
		return "", 0, 0, false
	}
	for i := range wm.def.Zones {
		zone := &wm.def.Zones[i]
		if zone.Contains(x, z) {
			return zone.ID, x - zone.OriginX, z - zone.OriginZ, true
		}
	}
	return "", 0, 0, false
}

// LocalToWorld переводит локальную координату зоны в мировую
func (wm *WorldManager) LocalToWorld(zoneID string, localX, localZ int) (x, z int, ok bool) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	if wm.def == nil {
		return 0, 0, false
	}
	zone, found := wm.def.ZoneByID(zoneID)
	if !found || !zone.ContainsLocal(localX, localZ) {
		return 0, 0, false
	}
	return zone.OriginX + localX, zone.OriginZ + localZ, true
}

// GetZoneAt возвращает зону, содержащую мировую координату
func (wm *WorldManager) GetZoneAt(x, z int) (*ZoneDefinition, bool) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	if wm.def == nil {
		return nil, false
	}
	for i := range wm.def.Zones {
		if wm.def.Zones[i].Contains(x, z) {
			return &wm.def.Zones[i], true
		}
	}
	return nil, false
}

// IsWalkable сообщает, проходим ли тайл с мировой координатой.
// Вне зон — непроходимо; внутри зоны непроходим только камень.
func (wm *WorldManager) IsWalkable(x, z int) bool {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	if wm.def == nil {
		return false
	}
	for i := range wm.def.Zones {
		zone := &wm.def.Zones[i]
		if !zone.Contains(x, z) {
			continue
		}

		local := uint64(uint32(x-zone.OriginX))<<32 | uint64(uint32(z-zone.OriginZ))
		if t, has := wm.overrideIdx[zone.ID][local]; has {
			return t.Walkable()
		}
		return zone.Ground.Terrain().Walkable()
	}
	return false
}

// WorldBounds возвращает ограничивающий прямоугольник всех зон.
// Для пустого мира возвращается фиксированный прямоугольник 12x12.
func (wm *WorldManager) WorldBounds() (minX, minZ, maxX, maxZ int) {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	if wm.def == nil || len(wm.def.Zones) == 0 {
		return 0, 0, 12, 12
	}

	first := &wm.def.Zones[0]
	minX, minZ = first.OriginX, first.OriginZ
	maxX, maxZ = first.OriginX+first.Width, first.OriginZ+first.Height

	for i := 1; i < len(wm.def.Zones); i++ {
		z := &wm.def.Zones[i]
		if z.OriginX < minX {
			minX = z.OriginX
		}
		if z.OriginZ < minZ {
			minZ = z.OriginZ
		}
		if z.OriginX+z.Width > maxX {
			maxX = z.OriginX + z.Width
		}
		if z.OriginZ+z.Height > maxZ {
			maxZ = z.OriginZ + z.Height
		}
	}
	return minX, minZ, maxX, maxZ
}

// SpawnPosition возвращает мировую координату точки появления игрока
func (wm *WorldManager) SpawnPosition() (x, z int, ok bool) {
	wm.mu.RLock()
	spawn := SpawnRef{}
	if wm.def != nil {
		spawn = wm.def.Spawn
	} else {
		wm.mu.RUnlock()
		return 0, 0, false
	}
	wm.mu.RUnlock()

	return wm.LocalToWorld(spawn.ZoneID, spawn.LocalX, spawn.LocalZ)
}

// Definition возвращает установленный WorldDefinition (может быть nil)
func (wm *WorldManager) Definition() *WorldDefinition {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.def
}

// Dispose выгружает все зоны и сбрасывает ссылку на мир
func (wm *WorldManager) Dispose() {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for id := range wm.loaded {
		wm.unloadZoneLocked(id)
	}
	wm.def = nil
	wm.overrideIdx = nil
	logging.Info("Менеджер мира освобождён")
}
