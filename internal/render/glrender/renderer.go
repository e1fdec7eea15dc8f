// Package glrender рисует кэш геометрии чанков через OpenGL 4.1 core.
package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/mesh"
	"github.com/annel0/voxel-engine/internal/raycast"
	"github.com/annel0/voxel-engine/internal/render"
	"github.com/annel0/voxel-engine/internal/vec"
)

// AtlasTilePixels - размер плитки процедурного атласа в пикселях
const AtlasTilePixels = 16

// outlineInset расширяет рамку выделения, чтобы она не мерцала на гранях блока
const outlineInset = 0.002

// Renderer владеет шейдерами, текстурой атласа и рамкой выделенного блока
type Renderer struct {
	chunkProgram   uint32
	outlineProgram uint32
	texture        uint32

	outlineVAO uint32
	outlineVBO uint32

	chunkView, chunkProjection, chunkAtlas        int32
	outlineView, outlineProjection, outlineOffset int32
}

// Init инициализирует OpenGL. Вызывается один раз после создания контекста.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	logging.GetRenderLogger().Info("🎨 OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return nil
}

// NewRenderer компилирует шейдеры и загружает атлас текстур
func NewRenderer(atlasSeed int64) (*Renderer, error) {
	chunkProgram, err := newProgram(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("chunk program: %w", err)
	}
	outlineProgram, err := newProgram(outlineVertexShader, outlineFragmentShader)
	if err != nil {
		gl.DeleteProgram(chunkProgram)
		return nil, fmt.Errorf("outline program: %w", err)
	}

	r := &Renderer{
		chunkProgram:   chunkProgram,
		outlineProgram: outlineProgram,
	}
	r.chunkView = uniform(chunkProgram, "view")
	r.chunkProjection = uniform(chunkProgram, "projection")
	r.chunkAtlas = uniform(chunkProgram, "atlas")
	r.outlineView = uniform(outlineProgram, "view")
	r.outlineProjection = uniform(outlineProgram, "projection")
	r.outlineOffset = uniform(outlineProgram, "offset")

	r.texture = loadAtlasTexture(atlasSeed)
	r.outlineVAO, r.outlineVBO = newOutline()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)

	return r, nil
}

// loadAtlasTexture генерирует атлас и загружает его как текстуру с ближайшей фильтрацией
func loadAtlasTexture(seed int64) uint32 {
	img := render.AtlasImage(mesh.DefaultAtlasTiles, AtlasTilePixels, seed)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(img.Rect.Size().X),
		int32(img.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix))

	return texture
}

// newOutline создаёт 12 рёбер единичного куба в виде линий
func newOutline() (uint32, uint32) {
	lo, hi := float32(-outlineInset), float32(1+outlineInset)
	corners := [8][3]float32{
		{lo, lo, lo}, {hi, lo, lo}, {hi, lo, hi}, {lo, lo, hi},
		{lo, hi, lo}, {hi, hi, lo}, {hi, hi, hi}, {lo, hi, hi},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	data := make([]float32, 0, len(edges)*2*3)
	for _, e := range edges {
		data = append(data, corners[e[0]][:]...)
		data = append(data, corners[e[1]][:]...)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return vao, vbo
}

// Draw очищает кадр, рисует все чанки кэша и рамку вокруг выделенного блока
func (r *Renderer) Draw(cache *render.ChunkRenderCache, cam *camera.Camera, selected *raycast.Hit) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := cam.View()
	projection := cam.Projection()

	gl.UseProgram(r.chunkProgram)
	gl.UniformMatrix4fv(r.chunkView, 1, false, &view[0])
	gl.UniformMatrix4fv(r.chunkProjection, 1, false, &projection[0])
	gl.Uniform1i(r.chunkAtlas, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)

	cache.Each(func(_ vec.Vec3, g render.Geometry) {
		geo, ok := g.(*Geometry)
		if !ok || geo.vao == 0 {
			return
		}
		gl.BindVertexArray(geo.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, geo.vertices)
	})

	if selected != nil {
		gl.UseProgram(r.outlineProgram)
		gl.UniformMatrix4fv(r.outlineView, 1, false, &view[0])
		gl.UniformMatrix4fv(r.outlineProjection, 1, false, &projection[0])
		p := selected.Position
		gl.Uniform3f(r.outlineOffset, float32(p.X), float32(p.Y), float32(p.Z))
		gl.BindVertexArray(r.outlineVAO)
		gl.DrawArrays(gl.LINES, 0, 24)
	}

	gl.BindVertexArray(0)
}

// Resize обновляет область вывода
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Close освобождает ресурсы рендерера
func (r *Renderer) Close() {
	gl.DeleteBuffers(1, &r.outlineVBO)
	gl.DeleteVertexArrays(1, &r.outlineVAO)
	gl.DeleteTextures(1, &r.texture)
	gl.DeleteProgram(r.chunkProgram)
	gl.DeleteProgram(r.outlineProgram)
}
