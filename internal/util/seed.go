package util

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// HashSeed детерминированно преобразует строковый сид в целочисленный.
// Одинаковая строка всегда даёт одинаковое число — на этом держится
// воспроизводимость генерации мира.
func HashSeed(seed string) uint64 {
	return xxhash.Sum64String(seed)
}

// Stream — поток детерминированных случайных чисел в диапазоне [0, 1).
// Один и тот же целочисленный сид даёт одну и ту же последовательность.
type Stream func() float64

// NewStream создаёт поток случайных чисел для указанного сида
func NewStream(seed uint64) Stream {
	rng := rand.New(rand.NewSource(int64(seed)))
	return rng.Float64
}

// RandInt возвращает случайное целое в диапазоне [min, max] включительно
func RandInt(rng Stream, min, max int) int {
	if max <= min {
		return min
	}
	return min + int(rng()*float64(max-min+1))
}
