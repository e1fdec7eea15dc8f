package mesh

import (
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Mesher строит меш чанка с отсечением граней, закрытых соседним блоком.
// Соседи за границей чанка считаются открытыми: граничные грани рисуются всегда.
type Mesher struct {
	Atlas TextureAtlas
}

// NewMesher создаёт мешер с атласом по умолчанию
func NewMesher() *Mesher {
	return &Mesher{Atlas: NewTextureAtlas()}
}

// Generate строит меш чанка, расположенного в координатах чанка pos.
// Никогда не возвращает nil; для полностью воздушного чанка меш пустой.
func (m *Mesher) Generate(chunk *world.Chunk, pos vec.Vec3) *Mesh {
	out := &Mesh{}
	if chunk == nil {
		return out
	}

	origin := pos.ChunkOrigin()
	for z := 0; z < world.ChunkSize; z++ {
		for y := 0; y < world.ChunkSize; y++ {
			for x := 0; x < world.ChunkSize; x++ {
				id := chunk.Get(x, y, z)
				if id == block.AirBlockID {
					continue
				}

				wx := float32(origin.X + x)
				wy := float32(origin.Y + y)
				wz := float32(origin.Z + z)

				for _, face := range Faces {
					if !faceVisible(chunk, x, y, z, face) {
						continue
					}
					m.appendFace(out, id, face, wx, wy, wz)
				}
			}
		}
	}

	return out
}

// faceVisible: грань видна, если сосед за ней вне чанка или воздух
func faceVisible(chunk *world.Chunk, x, y, z int, face Face) bool {
	o := face.Offset()
	nx, ny, nz := x+o.X, y+o.Y, z+o.Z
	if !world.InBounds(nx, ny, nz) {
		return true
	}
	return chunk.Get(nx, ny, nz) == block.AirBlockID
}

func (m *Mesher) appendFace(out *Mesh, id block.BlockID, face Face, x, y, z float32) {
	corners := face.Corners(x, y, z)
	uvs := m.Atlas.UVs(id, face)
	normal := face.Normal()

	for i := 0; i < VerticesPerFace; i++ {
		out.Vertices = append(out.Vertices, Vertex{
			Position: corners[i],
			UV:       uvs[i],
			Normal:   normal,
		})
	}
}
