package shader

// The assembled sources target GLSL ES 1.00. Every piece below is
// concatenated verbatim. The uniform block ends with a newline and the
// footer begins with one; user code sits between them on its own lines.

const commonHeader = `#version 100
precision highp float;`

const vertexBody = "attribute vec4 iPosition;void main(){gl_Position=iPosition;}"

const fragmentHeader = "uniform vec3 iResolution;" +
	"uniform float iTime;" +
	"uniform float iFrame;" +
	"uniform float iChannelTime[4];" +
	"uniform vec4 iMouse;" +
	"uniform vec4 iDate;" +
	"uniform float iSampleRate;" +
	"uniform vec3 iChannelResolution[4];" +
	"uniform sampler2D iChannel0;" +
	"uniform sampler2D iChannel1;" +
	"uniform sampler2D iChannel2;" +
	"uniform sampler2D iChannel3;\n"

const fragmentFooter = "\nvoid main(){mainImage(gl_FragColor,gl_FragCoord.xy);}"

// Default is the image shader used when no source file is given.
const Default = `void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    vec2 uv = fragCoord / iResolution.xy;
    vec3 col = 0.5 + 0.5 * cos(iTime + uv.xyx + vec3(0.0, 2.0, 4.0));
    fragColor = vec4(col, 1.0);
}
`

// GenerateVertexShader returns the fixed full-screen vertex shader.
func GenerateVertexShader() string {
	return commonHeader + vertexBody
}

// GenerateFragmentShader wraps a Shadertoy-style mainImage body into a
// complete fragment shader: header, uniform block, user code, then a main
// that forwards gl_FragColor and gl_FragCoord.
func GenerateFragmentShader(body string) string {
	return commonHeader + fragmentHeader + body + fragmentFooter
}
