package entity

import (
	"sync"

	"github.com/annel0/grove-world/internal/vec"
	"github.com/annel0/grove-world/internal/world/tile"
)

// Store хранит все живые пространственные сущности мира.
// Каждая сущность помечена идентификатором зоны, что позволяет
// массово выбирать и удалять сущности зоны при её выгрузке.
type Store struct {
	entities map[uint64]*Entity
	byZone   map[string]map[uint64]struct{} // Индекс сущностей по зонам
	nextID   uint64
	mu       sync.RWMutex
}

// NewStore создаёт пустое хранилище сущностей
func NewStore() *Store {
	return &Store{
		entities: make(map[uint64]*Entity),
		byZone:   make(map[string]map[uint64]struct{}),
		nextID:   1,
	}
}

// CreateCell создаёт сущность тайла сетки и возвращает её ID
func (s *Store) CreateCell(pos vec.Vec2, terrain tile.TerrainType, zoneID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(&Entity{
		Type:     EntityTypeCell,
		Position: pos,
		ZoneID:   zoneID,
		Terrain:  terrain,
	})
}

// CreateFlora создаёт сущность дикой флоры и возвращает её ID
func (s *Store) CreateFlora(pos vec.Vec2, species string, stage int, zoneID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(&Entity{
		Type:     EntityTypeFlora,
		Position: pos,
		ZoneID:   zoneID,
		Species:  species,
		Stage:    stage,
	})
}

// add добавляет сущность под уже взятой блокировкой
func (s *Store) add(e *Entity) uint64 {
	e.ID = s.nextID
	s.nextID++

	s.entities[e.ID] = e
	if s.byZone[e.ZoneID] == nil {
		s.byZone[e.ZoneID] = make(map[uint64]struct{})
	}
	s.byZone[e.ZoneID][e.ID] = struct{}{}
	return e.ID
}

// Get возвращает сущность по ID
func (s *Store) Get(id uint64) (*Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entities[id]
	return e, exists
}

// SetPayload записывает значение в произвольные данные сущности.
// Используется, например, для перекрёстной ссылки тайла на флору.
func (s *Store) SetPayload(id uint64, key string, value interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entities[id]
	if !exists {
		return false
	}
	if e.Payload == nil {
		e.Payload = make(map[string]interface{})
	}
	e.Payload[key] = value
	return true
}

// Remove удаляет сущность по ID
func (s *Store) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entities[id]
	if !exists {
		return false
	}

	delete(s.entities, id)
	if zone, ok := s.byZone[e.ZoneID]; ok {
		delete(zone, id)
		if len(zone) == 0 {
			delete(s.byZone, e.ZoneID)
		}
	}
	return true
}

// RemoveByZone удаляет все сущности зоны и возвращает их количество
func (s *Store) RemoveByZone(zoneID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone, ok := s.byZone[zoneID]
	if !ok {
		return 0
	}

	count := len(zone)
	for id := range zone {
		delete(s.entities, id)
	}
	delete(s.byZone, zoneID)
	return count
}

// EntitiesInZone возвращает все сущности зоны
func (s *Store) EntitiesInZone(zoneID string) []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zone, ok := s.byZone[zoneID]
	if !ok {
		return nil
	}

	result := make([]*Entity, 0, len(zone))
	for id := range zone {
		result = append(result, s.entities[id])
	}
	return result
}

// Count возвращает общее число сущностей
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}
