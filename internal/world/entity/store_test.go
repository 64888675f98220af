package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/grove-world/internal/vec"
	"github.com/annel0/grove-world/internal/world/tile"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore()

	cellID := store.CreateCell(vec.Vec2{X: 3, Z: 4}, tile.TerrainSoil, "zone-0")
	floraID := store.CreateFlora(vec.Vec2{X: 3, Z: 4}, "daisy", 2, "zone-0")

	require.NotEqual(t, cellID, floraID, "Идентификаторы должны быть уникальны")

	cell, ok := store.Get(cellID)
	require.True(t, ok)
	assert.Equal(t, EntityTypeCell, cell.Type)
	assert.Equal(t, tile.TerrainSoil, cell.Terrain)
	assert.Equal(t, "zone-0", cell.ZoneID)

	flora, ok := store.Get(floraID)
	require.True(t, ok)
	assert.Equal(t, EntityTypeFlora, flora.Type)
	assert.Equal(t, "daisy", flora.Species)
	assert.Equal(t, 2, flora.Stage)

	_, ok = store.Get(9999)
	assert.False(t, ok)
}

func TestStore_SequentialIDs(t *testing.T) {
	store := NewStore()

	first := store.CreateCell(vec.Vec2{}, tile.TerrainSoil, "zone-0")
	second := store.CreateCell(vec.Vec2{}, tile.TerrainSoil, "zone-0")

	assert.Equal(t, first+1, second, "Идентификаторы выдаются последовательно")
}

func TestStore_SetPayload(t *testing.T) {
	store := NewStore()
	id := store.CreateCell(vec.Vec2{X: 1, Z: 1}, tile.TerrainSoil, "zone-0")

	assert.True(t, store.SetPayload(id, "occupied", true))
	assert.False(t, store.SetPayload(9999, "occupied", true), "Запись в несуществующую сущность должна вернуть false")

	e, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, true, e.Payload["occupied"])
}

func TestStore_Remove(t *testing.T) {
	store := NewStore()
	id := store.CreateCell(vec.Vec2{}, tile.TerrainSoil, "zone-0")

	assert.True(t, store.Remove(id))
	assert.False(t, store.Remove(id), "Повторное удаление должно вернуть false")
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, store.EntitiesInZone("zone-0"), "Зонный индекс должен быть очищен")
}

func TestStore_RemoveByZone(t *testing.T) {
	store := NewStore()
	store.CreateCell(vec.Vec2{X: 0, Z: 0}, tile.TerrainSoil, "zone-0")
	store.CreateCell(vec.Vec2{X: 1, Z: 0}, tile.TerrainSoil, "zone-0")
	keep := store.CreateCell(vec.Vec2{X: 0, Z: 0}, tile.TerrainSoil, "zone-1")

	removed := store.RemoveByZone("zone-0")

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Count())
	_, ok := store.Get(keep)
	assert.True(t, ok, "Сущности других зон не затрагиваются")

	assert.Equal(t, 0, store.RemoveByZone("zone-0"), "Повторное удаление зоны — ноль")
}

func TestStore_EntitiesInZone(t *testing.T) {
	store := NewStore()
	store.CreateCell(vec.Vec2{X: 0, Z: 0}, tile.TerrainSoil, "zone-0")
	store.CreateFlora(vec.Vec2{X: 1, Z: 0}, "fern", 3, "zone-0")
	store.CreateCell(vec.Vec2{X: 0, Z: 0}, tile.TerrainSoil, "zone-1")

	assert.Len(t, store.EntitiesInZone("zone-0"), 2)
	assert.Len(t, store.EntitiesInZone("zone-1"), 1)
	assert.Nil(t, store.EntitiesInZone("zone-99"))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	// Хранилище должно выдерживать параллельные создания и чтения
	store := NewStore()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			zoneID := "zone-0"
			if g%2 == 1 {
				zoneID = "zone-1"
			}
			for i := 0; i < 100; i++ {
				id := store.CreateCell(vec.Vec2{X: i, Z: g}, tile.TerrainSoil, zoneID)
				store.Get(id)
				store.EntitiesInZone(zoneID)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 800, store.Count())
	assert.Len(t, store.EntitiesInZone("zone-0"), 400)
	assert.Len(t, store.EntitiesInZone("zone-1"), 400)
}

func BenchmarkStore_CreateCell(b *testing.B) {
	store := NewStore()
	for i := 0; i < b.N; i++ {
		store.CreateCell(vec.Vec2{X: i, Z: i}, tile.TerrainSoil, "zone-0")
	}
}
