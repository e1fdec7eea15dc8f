package mesh

// Раскладка вершины в буфере: позиция (3 float32), UV (2 float32), нормаль (3 float32)
const (
	VertexFloats   = 8
	VertexStride   = VertexFloats * 4
	PositionOffset = 0
	UVOffset       = 3 * 4
	NormalOffset   = 5 * 4
)

// VerticesPerFace - две треугольные грани без индексного буфера
const VerticesPerFace = 6

// Vertex представляет вершину меша чанка в мировых координатах
type Vertex struct {
	Position [3]float32
	UV       [2]float32
	Normal   [3]float32
}

// Mesh - CPU-сторона геометрии одного чанка, готовая к загрузке на GPU
type Mesh struct {
	Vertices []Vertex
}

// IsEmpty проверяет, что в меше нет вершин
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0
}

// VertexCount возвращает число вершин
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices)
}

// FaceCount возвращает число видимых граней
func (m *Mesh) FaceCount() int {
	return m.VertexCount() / VerticesPerFace
}

// Floats разворачивает вершины в плоский массив float32 с шагом VertexFloats
func (m *Mesh) Floats() []float32 {
	if m.IsEmpty() {
		return nil
	}
	out := make([]float32, 0, len(m.Vertices)*VertexFloats)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.UV[0], v.UV[1],
			v.Normal[0], v.Normal[1], v.Normal[2],
		)
	}
	return out
}
