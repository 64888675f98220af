package render

import (
	"fmt"
	"sync"

	"github.com/annel0/grove-world/internal/world"
)

// VisualBuilder строит визуальное представление объекта по координатам.
// Параметр param — масштаб для декораций или угол поворота для строений.
type VisualBuilder func(x, z int, param float64) world.Disposable

// Registry — реестр строителей визуализаций по идентификатору объекта.
// Закрытый набор: каталог архетипов валидируется против реестра при
// старте, поэтому неизвестный id в рантайме — нарушение контракта.
type Registry struct {
	mu         sync.RWMutex
	decors     map[string]VisualBuilder
	structures map[string]VisualBuilder
}

// NewRegistry создаёт пустой реестр
func NewRegistry() *Registry {
	return &Registry{
		decors:     make(map[string]VisualBuilder),
		structures: make(map[string]VisualBuilder),
	}
}

// RegisterDecoration добавляет строитель декорации
func (r *Registry) RegisterDecoration(objectID string, builder VisualBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decors[objectID] = builder
}

// RegisterStructure добавляет строитель строения
func (r *Registry) RegisterStructure(templateID string, builder VisualBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.structures[templateID] = builder
}

// CreateDecorationVisual создаёт визуализацию декорации.
// Для неизвестного id возвращает (nil, false).
func (r *Registry) CreateDecorationVisual(objectID string, x, z int, scale float64) (world.Disposable, bool) {
	r.mu.RLock()
	builder, ok := r.decors[objectID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return builder(x, z, scale), true
}

// CreateStructureVisual создаёт визуализацию строения.
// Для неизвестного id возвращает (nil, false).
func (r *Registry) CreateStructureVisual(templateID string, x, z int, rotationDeg int) (world.Disposable, bool) {
	r.mu.RLock()
	builder, ok := r.structures[templateID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return builder(x, z, float64(rotationDeg)), true
}

// ValidateCatalog проверяет, что каждый объект из пулов каталога
// известен реестру. Вызывается при старте; расхождение каталога и
// реестра — ошибка конфигурации.
func (r *Registry) ValidateCatalog(catalog *world.Catalog) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, arch := range catalog.All() {
		for _, entry := range arch.DecorPool {
			if _, ok := r.decors[entry.ID]; !ok {
				return fmt.Errorf("архетип %q ссылается на неизвестную декорацию %q", arch.ID, entry.ID)
			}
		}
		for _, entry := range arch.StructurePool {
			if _, ok := r.structures[entry.ID]; !ok {
				return fmt.Errorf("архетип %q ссылается на неизвестное строение %q", arch.ID, entry.ID)
			}
		}
	}
	return nil
}
