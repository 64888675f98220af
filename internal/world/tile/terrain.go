package tile

// TerrainType представляет тип тайла внутри зоны.
// Закрытый набор: генератор и материализатор работают только с ним.
type TerrainType uint8

const (
	TerrainSoil  TerrainType = iota // Почва, пригодна для посадки
	TerrainWater                    // Вода
	TerrainRock                     // Камень, непроходим
	TerrainPath                     // Тропа
)

// String возвращает строковое представление типа тайла
func (t TerrainType) String() string {
	switch t {
	case TerrainSoil:
		return "soil"
	case TerrainWater:
		return "water"
	case TerrainRock:
		return "rock"
	case TerrainPath:
		return "path"
	default:
		return "unknown"
	}
}

// Walkable возвращает false только для камня: по воде, тропе и почве
// сущности перемещаться могут.
func (t TerrainType) Walkable() bool {
	return t != TerrainRock
}

// GroundMaterial представляет материал "пола" зоны по умолчанию
type GroundMaterial string

const (
	GroundGrass       GroundMaterial = "grass"
	GroundMoss        GroundMaterial = "moss"
	GroundDirt        GroundMaterial = "dirt"
	GroundCobblestone GroundMaterial = "cobblestone"
)

// Terrain возвращает тип тайла, которым материализуется материал пола.
// Каменная кладка поселений считается тропой, остальное — почвой.
func (g GroundMaterial) Terrain() TerrainType {
	if g == GroundCobblestone {
		return TerrainPath
	}
	return TerrainSoil
}
