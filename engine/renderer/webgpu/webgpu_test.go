package webgpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/flatland/engine/renderer"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

func TestShadersMatchPipelineSlots(t *testing.T) {
	for _, kind := range metadata.PaintOrder {
		cfg := renderer.PipelineConfigFor(kind)
		src, err := shaderSource(cfg.Shader)
		require.NoError(t, err, cfg.Shader)

		assert.Contains(t, src, "fn "+vertexEntryPoint)
		assert.Contains(t, src, "fn "+fragmentEntryPoint)
		assert.Equal(t, len(cfg.Slots), strings.Count(src, "@group(0) @binding("), cfg.Shader)
		for i := range cfg.Slots {
			assert.Contains(t, src, fmt.Sprintf("@group(0) @binding(%d)", i))
		}
		assert.Equal(t, cfg.Textured, strings.Contains(src, "@group(1)"), cfg.Shader)
	}
}

func TestUnknownShader(t *testing.T) {
	_, err := shaderSource("sprite")
	assert.Error(t, err)
}

func TestInstanceLayoutEntries(t *testing.T) {
	cfg := renderer.PipelineConfigFor(metadata.PrimitiveKindLine)
	entries := instanceLayoutEntries(cfg.Slots)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Binding)
		assert.True(t, e.Buffer.HasDynamicOffset)
		assert.Equal(t, wgpu.BufferBindingTypeUniform, e.Buffer.Type)
		assert.Equal(t, cfg.Slots[i].Size, e.Buffer.MinBindingSize)
	}
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex, entries[1].Visibility)
}

func TestEnumMapping(t *testing.T) {
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, shaderStages(metadata.ShaderStageVertex|metadata.ShaderStageFragment))
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, topology(metadata.PrimitiveTopologyLineList))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, topology(metadata.PrimitiveTopologyTriangleList))

	f, err := vertexFormat(3)
	require.NoError(t, err)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, f)
	_, err = vertexFormat(7)
	assert.Error(t, err)

	def := metadata.DefaultSamplerConfig
	assert.Equal(t, wgpu.FilterModeNearest, filterMode(def.FilterMinify))
	assert.Equal(t, wgpu.FilterModeLinear, filterMode(def.FilterMagnify))
	assert.Equal(t, wgpu.AddressModeClampToEdge, addressMode(def.Repeat))
}

func TestUninitializedBackend(t *testing.T) {
	wr := New(nil)
	assert.Error(t, wr.Initialize(&metadata.RendererBackendConfig{Width: 800, Height: 600}))
	_, err := wr.PipelineCreate(renderer.PipelineConfigFor(metadata.PrimitiveKindQuad))
	assert.Error(t, err)
	_, err = wr.UniformBufferCreate("x", 256)
	assert.Error(t, err)
	assert.Zero(t, wr.MinUniformBufferOffsetAlignment())
}

func TestRequiredLimitsAlignment(t *testing.T) {
	def := wgpu.DefaultLimits()
	tests := []struct {
		name    string
		adapter uint32
		want    uint32
	}{
		{"finer adapter", 64, 64},
		{"same as default", def.MinUniformBufferOffsetAlignment, def.MinUniformBufferOffsetAlignment},
		{"coarser adapter", 2 * def.MinUniformBufferOffsetAlignment, def.MinUniformBufferOffsetAlignment},
		{"unreported", 0, def.MinUniformBufferOffsetAlignment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := def
			adapter.MinUniformBufferOffsetAlignment = tt.adapter
			limits := requiredLimits(adapter)
			assert.Equal(t, tt.want, limits.MinUniformBufferOffsetAlignment)
		})
	}
}

func TestAlignmentComesFromDeviceLimits(t *testing.T) {
	wr := New(nil)
	wr.context.Limits = requiredLimits(wgpu.Limits{MinUniformBufferOffsetAlignment: 64})
	assert.Equal(t, uint64(64), wr.MinUniformBufferOffsetAlignment())
}
