package util

import (
	"github.com/aquilax/go-perlin"
)

// ScaleNoise — детерминированный источник плавного шума для визуального
// разнообразия (масштаб декораций и т.п.). В отличие от старой глобальной
// версии, каждый генератор владеет собственным экземпляром.
type ScaleNoise struct {
	noise *perlin.Perlin
}

// NewScaleNoise создаёт генератор шума Перлина с указанным сидом
func NewScaleNoise(seed uint64) *ScaleNoise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &ScaleNoise{noise: perlin.NewPerlin(alpha, beta, n, int64(seed))}
}

// At возвращает значение шума для координат тайла в диапазоне [0, 1)
func (sn *ScaleNoise) At(x, z int) float64 {
	v := sn.noise.Noise2D(float64(x)*0.1, float64(z)*0.1)
	// Noise2D возвращает значение от -1 до 1
	return (v + 1.0) / 2.0
}

// ScaleAt возвращает масштаб декорации в диапазоне [0.85, 1.15]
func (sn *ScaleNoise) ScaleAt(x, z int) float64 {
	return 0.85 + 0.3*sn.At(x, z)
}
