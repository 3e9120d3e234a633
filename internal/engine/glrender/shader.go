package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 uMVP;
uniform mat4 uModel;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const fragmentShader = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;

uniform vec4 uColor;
uniform vec4 uLight;
uniform int uUnlit;

out vec4 fragColor;

void main() {
	if (uUnlit == 1) {
		fragColor = uColor;
		return;
	}
	vec3 toLight = uLight.w == 0.0 ? uLight.xyz : uLight.xyz - vWorldPos;
	float d = abs(dot(normalize(vNormal), normalize(toLight)));
	fragColor = vec4(uColor.rgb * (0.4 + 0.6 * d), uColor.a);
}
`

// program is the linked mesh shader and its uniform locations.
type program struct {
	id    uint32
	mvp   int32
	model int32
	color int32
	light int32
	unlit int32
}

func newProgram() (*program, error) {
	id, err := compileProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, err
	}
	return &program{
		id:    id,
		mvp:   uniform(id, "uMVP"),
		model: uniform(id, "uModel"),
		color: uniform(id, "uColor"),
		light: uniform(id, "uLight"),
		unlit: uniform(id, "uUnlit"),
	}, nil
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("link: %s", gl.GoStr(&log[0]))
	}
	return id, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}
	return shader, nil
}

func uniform(id uint32, name string) int32 {
	return gl.GetUniformLocation(id, gl.Str(name+"\x00"))
}
