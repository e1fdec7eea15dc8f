package vec

// Vec2 представляет 2D целочисленные координаты (например, плитку в атласе текстур)
type Vec2 struct {
	X, Y int
}

// Equals проверяет равенство векторов
func (v Vec2) Equals(other Vec2) bool {
	return v.X == other.X && v.Y == other.Y
}
