package gles

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"github.com/tmewett/esshader/graphics"
	"github.com/tmewett/esshader/shader"
)

// CompileError is a failed shader stage compile with the driver's info log.
type CompileError struct {
	Stage   string
	InfoLog string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.InfoLog)
}

// LinkError is a failed program link with the driver's info log.
type LinkError struct {
	InfoLog string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.InfoLog)
}

// BuildProgram compiles and links the full-screen pipeline around the given
// mainImage body and resolves every attribute and uniform location up front.
// Uniforms the driver optimized out come back as NoLocation; that is not an
// error. The program is left active.
func BuildProgram(body string) (graphics.Program, error) {
	vtx, err := compileShader(shader.GenerateVertexShader(), gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return graphics.Program{}, err
	}
	frag, err := compileShader(shader.GenerateFragmentShader(body), gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		gl.DeleteShader(vtx)
		return graphics.Program{}, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vtx)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteShader(vtx)
		gl.DeleteShader(frag)
		gl.DeleteProgram(program)
		return graphics.Program{}, &LinkError{InfoLog: strings.TrimRight(logText, "\x00")}
	}

	gl.DeleteShader(vtx)
	gl.DeleteShader(frag)
	gl.ReleaseShaderCompiler()

	gl.UseProgram(program)
	gl.ValidateProgram(program)

	p := graphics.Program{
		Handle:      program,
		Position:    attribLocation(program, "iPosition"),
		Resolution:  uniformLocation(program, "iResolution"),
		Time:        uniformLocation(program, "iTime"),
		Frame:       uniformLocation(program, "iFrame"),
		ChannelTime: uniformLocation(program, "iChannelTime"),
		Mouse:       uniformLocation(program, "iMouse"),
		Date:        uniformLocation(program, "iDate"),
		SampleRate:  uniformLocation(program, "iSampleRate"),
		ChannelRes:  uniformLocation(program, "iChannelResolution"),
	}
	for i := range p.Channels {
		p.Channels[i] = uniformLocation(program, fmt.Sprintf("iChannel%d", i))
	}
	return p, nil
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(logText))
		gl.DeleteShader(sh)
		return 0, &CompileError{Stage: stage, InfoLog: strings.TrimRight(logText, "\x00")}
	}
	return sh, nil
}

func attribLocation(program uint32, name string) graphics.Location {
	return graphics.Location(gl.GetAttribLocation(program, gl.Str(name+"\x00")))
}

func uniformLocation(program uint32, name string) graphics.Location {
	return graphics.Location(gl.GetUniformLocation(program, gl.Str(name+"\x00")))
}
