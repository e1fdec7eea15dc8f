package glrender

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrShaderCompile возвращается при ошибке компиляции или линковки шейдера
var ErrShaderCompile = errors.New("shader compile failed")

const chunkVertexShader = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec3 aNormal;

uniform mat4 view;
uniform mat4 projection;

out vec2 fragUV;
out float shade;

void main() {
	gl_Position = projection * view * vec4(aPos, 1.0);
	fragUV = aUV;
	vec3 light = normalize(vec3(0.4, 1.0, 0.3));
	shade = 0.55 + 0.45 * max(dot(normalize(aNormal), light), 0.0);
}
`

const chunkFragmentShader = `
#version 410 core
in vec2 fragUV;
in float shade;

uniform sampler2D atlas;

out vec4 color;

void main() {
	vec4 texel = texture(atlas, fragUV);
	color = vec4(texel.rgb * shade, texel.a);
}
`

const outlineVertexShader = `
#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 view;
uniform mat4 projection;
uniform vec3 offset;

void main() {
	gl_Position = projection * view * vec4(aPos + offset, 1.0);
}
`

const outlineFragmentShader = `
#version 410 core
out vec4 color;

void main() {
	color = vec4(0.0, 0.0, 0.0, 1.0);
}
`

// compileShader компилирует исходник шейдера указанного типа
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

// newProgram собирает программу из вершинного и фрагментного шейдеров
func newProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%w: link: %s", ErrShaderCompile, strings.TrimRight(log, "\x00"))
	}

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)

	return program, nil
}

// uniform возвращает расположение uniform-переменной по имени
func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
