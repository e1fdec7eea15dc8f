package render

import (
	"github.com/annel0/voxel-engine/internal/mesh"
	"github.com/annel0/voxel-engine/internal/vec"
)

// Geometry - загруженная на устройство геометрия одного чанка
type Geometry interface {
	VertexCount() int
}

// Uploader загружает меши на устройство и освобождает ранее загруженную геометрию.
// Реализация для OpenGL живёт в пакете glrender, для тестов и headless - MemoryUploader.
type Uploader interface {
	Upload(pos vec.Vec3, m *mesh.Mesh) (Geometry, error)
	Release(g Geometry)
}

// MemoryGeometry - геометрия, хранящаяся в памяти процесса
type MemoryGeometry struct {
	Pos      vec.Vec3
	Vertices []mesh.Vertex
	released bool
}

// VertexCount возвращает число вершин
func (g *MemoryGeometry) VertexCount() int {
	return len(g.Vertices)
}

// Released сообщает, была ли геометрия освобождена
func (g *MemoryGeometry) Released() bool {
	return g.released
}

// MemoryUploader хранит копии мешей в памяти и ведёт учёт живой геометрии.
// Fail позволяет имитировать ошибку загрузки для конкретного чанка.
type MemoryUploader struct {
	Fail func(pos vec.Vec3) error

	uploads  int
	releases int
	live     int
}

// NewMemoryUploader создаёт загрузчик в память
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{}
}

// Upload копирует вершины меша
func (u *MemoryUploader) Upload(pos vec.Vec3, m *mesh.Mesh) (Geometry, error) {
	if u.Fail != nil {
		if err := u.Fail(pos); err != nil {
			return nil, err
		}
	}
	vertices := make([]mesh.Vertex, m.VertexCount())
	copy(vertices, m.Vertices)

	u.uploads++
	u.live++
	return &MemoryGeometry{Pos: pos, Vertices: vertices}, nil
}

// Release помечает геометрию освобождённой
func (u *MemoryUploader) Release(g Geometry) {
	mg, ok := g.(*MemoryGeometry)
	if !ok || mg.released {
		return
	}
	mg.released = true
	mg.Vertices = nil
	u.releases++
	u.live--
}

// Uploads возвращает число успешных загрузок
func (u *MemoryUploader) Uploads() int { return u.uploads }

// Releases возвращает число освобождений
func (u *MemoryUploader) Releases() int { return u.releases }

// Live возвращает число загруженной и ещё не освобождённой геометрии
func (u *MemoryUploader) Live() int { return u.live }
