package vec

import "math"

// Vec2 представляет координаты тайла в мире.
// Ось X направлена на восток, ось Z — на юг.
type Vec2 struct {
	X, Z int
}

// Add возвращает сумму двух векторов
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Z: v.Z + other.Z}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// PackKey упаковывает координаты в один ключ для хеш-карт.
// Используется для разреженного хранения тайлов (O(1) поиск).
func (v Vec2) PackKey() uint64 {
	return uint64(uint32(v.X))<<32 | uint64(uint32(v.Z))
}
