package vec

import "math"

// ChunkSize - длина ребра чанка в вокселях.
const ChunkSize = 16

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется и для мировых координат вокселя, и для координат чанка в сетке чанков.
type Vec3 struct {
	X int
	Y int
	Z int
}

// New создаёт вектор из трёх компонент
func New(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// FloorDiv делит с округлением вниз (евклидово деление), в отличие от усечения оператора /
func FloorDiv(a, n int) int {
	q := a / n
	if a%n < 0 {
		q--
	}
	return q
}

// FloorMod возвращает евклидов остаток, всегда в диапазоне [0, n)
func FloorMod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// ToChunkCoords преобразует мировые координаты вокселя в координаты чанка
func (v Vec3) ToChunkCoords() Vec3 {
	return Vec3{
		X: FloorDiv(v.X, ChunkSize),
		Y: FloorDiv(v.Y, ChunkSize),
		Z: FloorDiv(v.Z, ChunkSize),
	}
}

// LocalInChunk возвращает локальные координаты внутри чанка, каждая в [0, ChunkSize)
func (v Vec3) LocalInChunk() Vec3 {
	return Vec3{
		X: FloorMod(v.X, ChunkSize),
		Y: FloorMod(v.Y, ChunkSize),
		Z: FloorMod(v.Z, ChunkSize),
	}
}

// ChunkOrigin возвращает мировую координату угла чанка (chunk * ChunkSize)
func (v Vec3) ChunkOrigin() Vec3 {
	return v.Mul(ChunkSize)
}

// FloorVec3 возвращает ячейку, в которой лежит точка с плавающими координатами
func FloorVec3(x, y, z float32) Vec3 {
	return Vec3{
		X: int(math.Floor(float64(x))),
		Y: int(math.Floor(float64(y))),
		Z: int(math.Floor(float64(z))),
	}
}

// DistanceTo возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return float64(dx*dx + dy*dy + dz*dz)
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Mul умножает вектор на скаляр
func (v Vec3) Mul(k int) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Neg возвращает противоположный вектор
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// IsZero проверяет, что все компоненты равны нулю
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Less задаёт порядок X, затем Y, затем Z (для детерминированной сортировки)
func (v Vec3) Less(other Vec3) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}

// Compare возвращает -1, 0 или 1 в порядке Less; подходит для slices.SortFunc
func Compare(a, b Vec3) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
