package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/annel0/grove-world/internal/world/tile"
)

// SchemaVersion — версия схемы WorldDefinition
const SchemaVersion = 1

// StartingArchetypeID — архетип стартовой зоны (всегда zone-0)
const StartingArchetypeID = "starting-grove"

// StartingZoneSize — фиксированный размер стартовой зоны
const StartingZoneSize = 12

// TerrainRule задаёт доли тайлов-переопределений от площади зоны.
// Сумма долей не должна превышать 1.0.
type TerrainRule struct {
	WaterPct float64 `yaml:"water_pct" json:"water_pct"`
	RockPct  float64 `yaml:"rock_pct" json:"rock_pct"`
	PathPct  float64 `yaml:"path_pct" json:"path_pct"`
}

// ZoneArchetype — шаблон генерации зоны определённого типа.
// Загружается один раз при старте и далее неизменяем.
type ZoneArchetype struct {
	ID            string              `yaml:"id" json:"id"`
	ZoneType      string              `yaml:"zone_type" json:"zone_type"`
	MinWidth      int                 `yaml:"min_width" json:"min_width"`
	MaxWidth      int                 `yaml:"max_width" json:"max_width"`
	MinHeight     int                 `yaml:"min_height" json:"min_height"`
	MaxHeight     int                 `yaml:"max_height" json:"max_height"`
	Ground        tile.GroundMaterial `yaml:"ground" json:"ground"`
	Terrain       TerrainRule         `yaml:"terrain" json:"terrain"`
	DecorPool     []tile.WeightedID   `yaml:"decor_pool" json:"decor_pool"`
	DecorDensity  float64             `yaml:"decor_density" json:"decor_density"`
	FloraPool     []tile.WeightedID   `yaml:"flora_pool" json:"flora_pool"`
	FloraDensity  float64             `yaml:"flora_density" json:"flora_density"`
	StructurePool []tile.WeightedID   `yaml:"structure_pool" json:"structure_pool"`
	Plantable     bool                `yaml:"plantable" json:"plantable"`
	UnlockLevel   int                 `yaml:"unlock_level" json:"unlock_level"`
	Weight        float64             `yaml:"weight" json:"weight"`
}

// Catalog — таблица архетипов зон
type Catalog struct {
	archetypes []ZoneArchetype
	byID       map[string]*ZoneArchetype
}

// NewCatalog создаёт каталог из списка архетипов
func NewCatalog(archetypes []ZoneArchetype) (*Catalog, error) {
	c := &Catalog{
		archetypes: archetypes,
		byID:       make(map[string]*ZoneArchetype, len(archetypes)),
	}
	for i := range c.archetypes {
		a := &c.archetypes[i]
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("дублирующийся архетип %q", a.ID)
		}
		c.byID[a.ID] = a
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCatalog возвращает встроенный каталог архетипов
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultArchetypes())
	if err != nil {
		// Встроенный каталог обязан быть корректным
		panic(fmt.Sprintf("встроенный каталог архетипов невалиден: %v", err))
	}
	return c
}

// LoadCatalog читает каталог архетипов из YAML файла.
// Если path == "", возвращается встроенный каталог.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога архетипов: %w", err)
	}

	var file struct {
		Archetypes []ZoneArchetype `yaml:"archetypes"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка разбора каталога архетипов: %w", err)
	}

	return NewCatalog(file.Archetypes)
}

// Get возвращает архетип по идентификатору
func (c *Catalog) Get(id string) (*ZoneArchetype, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All возвращает все архетипы каталога
func (c *Catalog) All() []ZoneArchetype {
	return c.archetypes
}

// Eligible возвращает архетипы, доступные на указанном уровне игрока
func (c *Catalog) Eligible(playerLevel int) []ZoneArchetype {
	var out []ZoneArchetype
	for _, a := range c.archetypes {
		if a.UnlockLevel <= playerLevel {
			out = append(out, a)
		}
	}
	return out
}

// validate проверяет инварианты каталога при загрузке
func (c *Catalog) validate() error {
	if _, ok := c.byID[StartingArchetypeID]; !ok {
		return fmt.Errorf("каталог не содержит стартовый архетип %q", StartingArchetypeID)
	}
	for _, a := range c.archetypes {
		if a.MinWidth <= 0 || a.MinHeight <= 0 || a.MaxWidth < a.MinWidth || a.MaxHeight < a.MinHeight {
			return fmt.Errorf("архетип %q: некорректный диапазон размеров", a.ID)
		}
		sum := a.Terrain.WaterPct + a.Terrain.RockPct + a.Terrain.PathPct
		if a.Terrain.WaterPct < 0 || a.Terrain.RockPct < 0 || a.Terrain.PathPct < 0 || sum > 1.0 {
			return fmt.Errorf("архетип %q: доли тайлов должны быть неотрицательны и в сумме не превышать 1.0", a.ID)
		}
		if a.Weight <= 0 {
			return fmt.Errorf("архетип %q: вес должен быть положительным", a.ID)
		}
		if a.DecorDensity > 0 && len(a.DecorPool) == 0 {
			return fmt.Errorf("архетип %q: задана плотность декораций без пула", a.ID)
		}
		if a.FloraDensity > 0 && len(a.FloraPool) == 0 {
			return fmt.Errorf("архетип %q: задана плотность флоры без пула", a.ID)
		}
	}
	return nil
}

// defaultArchetypes описывает встроенный набор архетипов.
// Уровни разблокировки: роща всегда доступна, поляна и тропа — с 5,
// дикий лес — с 10, поселение — с 15.
func defaultArchetypes() []ZoneArchetype {
	return []ZoneArchetype{
		{
			ID:        StartingArchetypeID,
			ZoneType:  "grove",
			MinWidth:  10, MaxWidth: 14,
			MinHeight: 10, MaxHeight: 14,
			Ground:  tile.GroundGrass,
			Terrain: TerrainRule{WaterPct: 0.04, RockPct: 0.03, PathPct: 0.05},
			DecorPool: []tile.WeightedID{
				{ID: "flower-patch", Weight: 4},
				{ID: "bush", Weight: 3},
				{ID: "mossy-stone", Weight: 1},
			},
			DecorDensity: 0.06,
			FloraPool: []tile.WeightedID{
				{ID: "daisy", Weight: 3},
				{ID: "clover", Weight: 2},
			},
			FloraDensity: 0.04,
			Plantable:    true,
			UnlockLevel:  0,
			Weight:       3,
		},
		{
			ID:        "clearing",
			ZoneType:  "clearing",
			MinWidth:  8, MaxWidth: 14,
			MinHeight: 8, MaxHeight: 14,
			Ground:  tile.GroundGrass,
			Terrain: TerrainRule{WaterPct: 0.02, RockPct: 0.04, PathPct: 0.03},
			DecorPool: []tile.WeightedID{
				{ID: "bush", Weight: 3},
				{ID: "tree-stump", Weight: 2},
				{ID: "boulder", Weight: 1},
			},
			DecorDensity: 0.08,
			Plantable:    true,
			UnlockLevel:  5,
			Weight:       3,
		},
		{
			ID:        "trail",
			ZoneType:  "path",
			MinWidth:  6, MaxWidth: 16,
			MinHeight: 6, MaxHeight: 10,
			Ground:  tile.GroundDirt,
			Terrain: TerrainRule{WaterPct: 0, RockPct: 0.05, PathPct: 0.25},
			DecorPool: []tile.WeightedID{
				{ID: "pebbles", Weight: 3},
				{ID: "signpost", Weight: 1},
			},
			DecorDensity: 0.05,
			Plantable:    false,
			UnlockLevel:  5,
			Weight:       2,
		},
		{
			ID:        "wild-forest",
			ZoneType:  "forest",
			MinWidth:  12, MaxWidth: 18,
			MinHeight: 12, MaxHeight: 18,
			Ground:  tile.GroundMoss,
			Terrain: TerrainRule{WaterPct: 0.05, RockPct: 0.05, PathPct: 0.02},
			DecorPool: []tile.WeightedID{
				{ID: "oak-tree", Weight: 4},
				{ID: "pine-tree", Weight: 3},
				{ID: "mushroom-ring", Weight: 1},
			},
			DecorDensity: 0.15,
			FloraPool: []tile.WeightedID{
				{ID: "wild-berry", Weight: 3},
				{ID: "fern", Weight: 3},
				{ID: "bluebell", Weight: 1},
			},
			FloraDensity: 0.08,
			Plantable:    false,
			UnlockLevel:  10,
			Weight:       2,
		},
		{
			ID:        "settlement",
			ZoneType:  "settlement",
			MinWidth:  10, MaxWidth: 16,
			MinHeight: 10, MaxHeight: 16,
			Ground:  tile.GroundCobblestone,
			Terrain: TerrainRule{WaterPct: 0, RockPct: 0.02, PathPct: 0.10},
			DecorPool: []tile.WeightedID{
				{ID: "lamp-post", Weight: 3},
				{ID: "crate", Weight: 2},
				{ID: "barrel", Weight: 2},
			},
			DecorDensity: 0.07,
			StructurePool: []tile.WeightedID{
				{ID: "house", Weight: 3},
				{ID: "market-stall", Weight: 1},
				{ID: "well", Weight: 1},
			},
			Plantable:   false,
			UnlockLevel: 15,
			Weight:      1,
		},
	}
}
