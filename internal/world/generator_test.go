package world

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T) *WorldGenerator {
	t.Helper()
	return NewWorldGenerator(DefaultCatalog())
}

func TestGenerator_Determinism(t *testing.T) {
	// Одинаковая пара (сид, уровень) должна давать идентичные миры
	gen := newTestGenerator(t)

	w1 := gen.Generate("abc", 25)
	w2 := gen.Generate("abc", 25)

	require.Equal(t, len(w1.Zones), len(w2.Zones), "Число зон должно совпадать")
	assert.Equal(t, w1.ID, w2.ID, "Идентификатор мира должен совпадать")

	for i := range w1.Zones {
		z1, z2 := w1.Zones[i], w2.Zones[i]
		assert.Equal(t, z1.ID, z2.ID, "ID зоны %d должен совпадать", i)
		assert.Equal(t, z1.ZoneType, z2.ZoneType, "Тип зоны %d должен совпадать", i)
		assert.Equal(t, z1.OriginX, z2.OriginX, "OriginX зоны %d должен совпадать", i)
		assert.Equal(t, z1.OriginZ, z2.OriginZ, "OriginZ зоны %d должен совпадать", i)
		assert.Equal(t, z1.Width, z2.Width, "Ширина зоны %d должна совпадать", i)
		assert.Equal(t, z1.Height, z2.Height, "Высота зоны %d должна совпадать", i)
		assert.Equal(t, z1.Ground, z2.Ground, "Материал пола зоны %d должен совпадать", i)
		assert.Equal(t, z1.Plantable, z2.Plantable, "Флаг посадки зоны %d должен совпадать", i)
		assert.Equal(t, z1.Overrides, z2.Overrides, "Переопределения зоны %d должны совпадать", i)
		assert.Equal(t, z1.Decorations, z2.Decorations, "Декорации зоны %d должны совпадать", i)
		assert.Equal(t, z1.Structures, z2.Structures, "Строения зоны %d должны совпадать", i)
		assert.Equal(t, z1.Connections, z2.Connections, "Связи зоны %d должны совпадать", i)
	}
}

func TestGenerator_SeedSensitivity(t *testing.T) {
	// Разные сиды должны давать разное размещение зон
	gen := newTestGenerator(t)

	w1 := gen.Generate("first-seed", 25)
	w2 := gen.Generate("second-seed", 25)

	origins1 := make([]string, 0, len(w1.Zones))
	for _, z := range w1.Zones {
		origins1 = append(origins1, fmt.Sprintf("%d:%d:%dx%d", z.OriginX, z.OriginZ, z.Width, z.Height))
	}
	origins2 := make([]string, 0, len(w2.Zones))
	for _, z := range w2.Zones {
		origins2 = append(origins2, fmt.Sprintf("%d:%d:%dx%d", z.OriginX, z.OriginZ, z.Width, z.Height))
	}

	assert.NotEqual(t, origins1, origins2, "Разные сиды должны давать разные последовательности зон")
}

func TestGenerator_ZoneCountByLevel(t *testing.T) {
	// Ступенчатая функция числа зон от уровня игрока
	gen := newTestGenerator(t)

	cases := []struct {
		level int
		count int
	}{
		{1, 1},
		{4, 1},
		{5, 3},
		{9, 3},
		{10, 5},
		{14, 5},
		{15, 7},
		{19, 7},
	}

	for _, tc := range cases {
		def := gen.Generate("level-test", tc.level)
		assert.Equal(t, tc.count, len(def.Zones), "Уровень %d должен давать %d зон", tc.level, tc.count)
	}

	// На 20+ уровне — от 8 до 12 зон
	def := gen.Generate("level-test", 20)
	assert.GreaterOrEqual(t, len(def.Zones), 8, "На 20 уровне должно быть не меньше 8 зон")
	assert.LessOrEqual(t, len(def.Zones), 12, "На 20 уровне должно быть не больше 12 зон")
}

func TestGenerator_StartingZone(t *testing.T) {
	// Зона 0 всегда роща 12x12 в начале координат, пригодная для посадки
	gen := newTestGenerator(t)

	def := gen.Generate("abc", 1)
	require.Len(t, def.Zones, 1, "На 1 уровне должна быть ровно одна зона")

	z := def.Zones[0]
	assert.Equal(t, "zone-0", z.ID)
	assert.Equal(t, "grove", z.ZoneType, "Стартовая зона должна быть рощей")
	assert.Equal(t, 12, z.Width)
	assert.Equal(t, 12, z.Height)
	assert.Equal(t, 0, z.OriginX)
	assert.Equal(t, 0, z.OriginZ)
	assert.True(t, z.Plantable, "Стартовая зона всегда пригодна для посадки")
	assert.Empty(t, z.Connections, "На 1 уровне у стартовой зоны нет связей")

	// Точка появления — центр стартовой зоны
	assert.Equal(t, SpawnRef{ZoneID: "zone-0", LocalX: 6, LocalZ: 6}, def.Spawn)
}

func TestGenerator_ConnectionSymmetry(t *testing.T) {
	// Для каждой связи A->B существует обратная B->A, точки входа в границах
	gen := newTestGenerator(t)

	for _, seed := range []string{"sym-1", "sym-2", "sym-3"} {
		def := gen.Generate(seed, 25)

		for _, z := range def.Zones {
			for _, conn := range z.Connections {
				target, found := def.ZoneByID(conn.TargetID)
				require.True(t, found, "Связь %s -> %s должна указывать на существующую зону", z.ID, conn.TargetID)

				assert.True(t, z.ContainsLocal(conn.EntryX, conn.EntryZ),
					"Точка входа связи %s -> %s должна лежать в границах %s", z.ID, conn.TargetID, z.ID)

				// Ищем обратную связь в противоположном направлении
				var back *ZoneConnection
				for i := range target.Connections {
					if target.Connections[i].TargetID == z.ID && target.Connections[i].Direction == conn.Direction.Opposite() {
						back = &target.Connections[i]
						break
					}
				}
				require.NotNil(t, back, "Зона %s должна иметь обратную связь с %s", target.ID, z.ID)
				assert.True(t, target.ContainsLocal(back.EntryX, back.EntryZ),
					"Точка входа обратной связи должна лежать в границах %s", target.ID)
			}
		}
	}
}

func TestGenerator_OverridesAndPlacementsInBounds(t *testing.T) {
	// Все переопределения, декорации и строения — в границах своих зон
	gen := newTestGenerator(t)
	def := gen.Generate("bounds-check", 25)

	for _, z := range def.Zones {
		for _, ov := range z.Overrides {
			assert.True(t, z.ContainsLocal(ov.LocalX, ov.LocalZ),
				"Переопределение (%d,%d) должно лежать в границах зоны %s", ov.LocalX, ov.LocalZ, z.ID)
		}
		for _, d := range z.Decorations {
			assert.True(t, z.ContainsLocal(d.LocalX, d.LocalZ),
				"Декорация (%d,%d) должна лежать в границах зоны %s", d.LocalX, d.LocalZ, z.ID)
		}
		for _, s := range z.Structures {
			assert.True(t, z.ContainsLocal(s.LocalX, s.LocalZ),
				"Строение (%d,%d) должно лежать в границах зоны %s", s.LocalX, s.LocalZ, z.ID)
		}
	}
}

func TestGenerator_NoCoordinateCollisions(t *testing.T) {
	// Переопределения, декорации и строения зоны не пересекаются по тайлам
	gen := newTestGenerator(t)
	def := gen.Generate("collision-check", 25)

	for _, z := range def.Zones {
		seen := make(map[[2]int]string)

		record := func(x, zz int, kind string) {
			key := [2]int{x, zz}
			prev, dup := seen[key]
			assert.False(t, dup, "Тайл (%d,%d) зоны %s занят дважды: %s и %s", x, zz, z.ID, prev, kind)
			seen[key] = kind
		}

		for _, ov := range z.Overrides {
			record(ov.LocalX, ov.LocalZ, "override")
		}
		for _, d := range z.Decorations {
			record(d.LocalX, d.LocalZ, "decoration")
		}
		for _, s := range z.Structures {
			record(s.LocalX, s.LocalZ, "structure")
		}
	}
}

func TestGenerator_UniqueSequentialIDs(t *testing.T) {
	// Идентификаторы зон уникальны и последовательны: zone-0, zone-1, …
	gen := newTestGenerator(t)
	def := gen.Generate("ids", 25)

	for i, z := range def.Zones {
		assert.Equal(t, fmt.Sprintf("zone-%d", i), z.ID, "Зона %d должна иметь последовательный ID", i)
	}
}

func TestGenerator_LowLevelOnlyGrove(t *testing.T) {
	// До 5 уровня доступен только стартовый архетип
	gen := newTestGenerator(t)

	for _, seed := range []string{"a", "b", "c"} {
		def := gen.Generate(seed, 4)
		require.Len(t, def.Zones, 1)
		assert.Equal(t, "grove", def.Zones[0].ZoneType, "До 5 уровня генерируется только роща")
	}
}

func TestGenerator_AllZoneTypesAppear(t *testing.T) {
	// На большой выборке сидов высокого уровня встречаются все типы зон
	if testing.Short() {
		t.Skip("длинный прогон по 200 сидам")
	}

	gen := newTestGenerator(t)
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		def := gen.Generate(fmt.Sprintf("coverage-%d", i), 25)
		for _, z := range def.Zones {
			seen[z.ZoneType] = true
		}
	}

	for _, zoneType := range []string{"grove", "clearing", "path", "forest", "settlement"} {
		assert.True(t, seen[zoneType], "Тип зоны %q должен встретиться хотя бы раз", zoneType)
	}
}

func TestGenerator_StructuresOnlyInSettlements(t *testing.T) {
	// Строения генерируются только архетипами с пулом строений
	gen := newTestGenerator(t)

	for i := 0; i < 20; i++ {
		def := gen.Generate(fmt.Sprintf("structures-%d", i), 25)
		for _, z := range def.Zones {
			if z.ZoneType != "settlement" {
				assert.Empty(t, z.Structures, "Зона %s типа %s не должна содержать строений", z.ID, z.ZoneType)
			}
		}
	}
}

func TestGenerator_GapBetweenConnectedZones(t *testing.T) {
	// Между родителем и пристроенной зоной ровно один тайл зазора
	gen := newTestGenerator(t)
	def := gen.Generate("gap-check", 25)

	for _, z := range def.Zones {
		for _, conn := range z.Connections {
			target, _ := def.ZoneByID(conn.TargetID)
			switch conn.Direction {
			case DirEast:
				if target.OriginX > z.OriginX {
					assert.Equal(t, z.OriginX+z.Width+1, target.OriginX,
						"Зазор между %s и %s на востоке должен быть 1 тайл", z.ID, target.ID)
				}
			case DirSouth:
				if target.OriginZ > z.OriginZ {
					assert.Equal(t, z.OriginZ+z.Height+1, target.OriginZ,
						"Зазор между %s и %s на юге должен быть 1 тайл", z.ID, target.ID)
				}
			}
		}
	}
}

func TestGenerator_TerrainCountsMatchRule(t *testing.T) {
	// Число переопределений соответствует долям архетипа (округление)
	gen := newTestGenerator(t)
	def := gen.Generate("counts", 1)
	require.Len(t, def.Zones, 1)

	z := def.Zones[0]
	arch, ok := DefaultCatalog().Get(StartingArchetypeID)
	require.True(t, ok)

	area := float64(z.Width * z.Height)
	expected := int(math.Round(area*arch.Terrain.WaterPct)) +
		int(math.Round(area*arch.Terrain.RockPct)) +
		int(math.Round(area*arch.Terrain.PathPct))
	assert.Equal(t, expected, len(z.Overrides), "Число переопределений должно соответствовать долям архетипа")
}

// Benchmarks

func BenchmarkGenerator_Generate(b *testing.B) {
	gen := NewWorldGenerator(DefaultCatalog())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.Generate(fmt.Sprintf("bench-%d", i), 25)
	}
}
