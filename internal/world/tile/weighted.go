package tile

// WeightedID — элемент взвешенного пула (декорации, флора, строения)
type WeightedID struct {
	ID     string  `yaml:"id" json:"id"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// PickWeighted выбирает элемент пула пропорционально весам.
// rng — поток чисел в [0, 1). Из-за погрешности плавающей точки roll
// может не "попасть" ни в один элемент; тогда возвращается последний —
// выбор никогда не бывает пустым.
func PickWeighted(rng func() float64, pool []WeightedID) string {
	if len(pool) == 0 {
		return ""
	}

	total := 0.0
	for _, entry := range pool {
		total += entry.Weight
	}

	roll := rng() * total
	for _, entry := range pool {
		roll -= entry.Weight
		if roll <= 0 {
			return entry.ID
		}
	}

	// Фоллбэк на последний элемент
	return pool[len(pool)-1].ID
}
