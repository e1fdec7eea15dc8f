package glrender

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/annel0/voxel-engine/internal/mesh"
	"github.com/annel0/voxel-engine/internal/render"
	"github.com/annel0/voxel-engine/internal/vec"
)

// ErrEmptyMesh возвращается при попытке загрузить пустой меш
var ErrEmptyMesh = errors.New("empty mesh")

// Geometry - VAO и VBO одного чанка в памяти видеокарты
type Geometry struct {
	vao      uint32
	vbo      uint32
	vertices int32
}

// VertexCount возвращает число вершин в буфере
func (g *Geometry) VertexCount() int {
	return int(g.vertices)
}

// Uploader загружает меши чанков в OpenGL.
// Все вызовы должны выполняться в потоке, владеющем GL-контекстом.
type Uploader struct{}

var _ render.Uploader = (*Uploader)(nil)

// NewUploader создаёт GL-загрузчик
func NewUploader() *Uploader {
	return &Uploader{}
}

// Upload создаёт VAO/VBO и описывает атрибуты: позиция (0), UV (1), нормаль (2)
func (u *Uploader) Upload(pos vec.Vec3, m *mesh.Mesh) (render.Geometry, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("chunk %v: %w", pos, ErrEmptyMesh)
	}
	data := m.Floats()

	g := &Geometry{vertices: int32(m.VertexCount())}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, mesh.VertexStride, uintptr(mesh.PositionOffset))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, mesh.VertexStride, uintptr(mesh.UVOffset))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, mesh.VertexStride, uintptr(mesh.NormalOffset))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		u.Release(g)
		return nil, fmt.Errorf("chunk %v: gl error 0x%x", pos, code)
	}
	return g, nil
}

// Release удаляет буферы геометрии
func (u *Uploader) Release(g render.Geometry) {
	geo, ok := g.(*Geometry)
	if !ok || geo.vao == 0 {
		return
	}
	gl.DeleteBuffers(1, &geo.vbo)
	gl.DeleteVertexArrays(1, &geo.vao)
	geo.vao, geo.vbo, geo.vertices = 0, 0, 0
}
