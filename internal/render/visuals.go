package render

import (
	"sync/atomic"

	"github.com/annel0/grove-world/internal/world"
)

// NullVisual — заглушка визуализации для безголового режима (сервер,
// тесты, CLI). Считает вызовы Dispose, но ничего не рисует.
type NullVisual struct {
	ObjectID string
	X, Z     int
	disposed atomic.Bool
}

// Dispose помечает визуализацию освобождённой
func (nv *NullVisual) Dispose() {
	nv.disposed.Store(true)
}

// Disposed сообщает, была ли визуализация освобождена
func (nv *NullVisual) Disposed() bool {
	return nv.disposed.Load()
}

// NewNullRegistry создаёт реестр с заглушками для всех объектов
// каталога. Используется там, где реального рендера нет.
func NewNullRegistry(catalog *world.Catalog) *Registry {
	r := NewRegistry()
	for _, arch := range catalog.All() {
		for _, entry := range arch.DecorPool {
			id := entry.ID
			r.RegisterDecoration(id, func(x, z int, _ float64) world.Disposable {
				return &NullVisual{ObjectID: id, X: x, Z: z}
			})
		}
		for _, entry := range arch.StructurePool {
			id := entry.ID
			r.RegisterStructure(id, func(x, z int, _ float64) world.Disposable {
				return &NullVisual{ObjectID: id, X: x, Z: z}
			})
		}
	}
	return r
}
