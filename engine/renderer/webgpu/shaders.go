package webgpu

import (
	"embed"
	"fmt"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

// shaderSource returns the WGSL program named name.
func shaderSource(name string) (string, error) {
	src, err := shaderFS.ReadFile("shaders/" + name + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("shader %q not found: %w", name, err)
	}
	return string(src), nil
}
