package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

func shaderStages(stage metadata.ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if stage&metadata.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if stage&metadata.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}

func vertexFormat(components uint32) (wgpu.VertexFormat, error) {
	switch components {
	case 1:
		return wgpu.VertexFormatFloat32, nil
	case 2:
		return wgpu.VertexFormatFloat32x2, nil
	case 3:
		return wgpu.VertexFormatFloat32x3, nil
	case 4:
		return wgpu.VertexFormatFloat32x4, nil
	}
	return wgpu.VertexFormatUndefined, fmt.Errorf("unsupported vertex attribute with %d components", components)
}

func topology(t metadata.PrimitiveTopology) wgpu.PrimitiveTopology {
	if t == metadata.PrimitiveTopologyLineList {
		return wgpu.PrimitiveTopologyLineList
	}
	return wgpu.PrimitiveTopologyTriangleList
}

// instanceLayoutEntries describes group 0: one dynamic-offset uniform per slot.
func instanceLayoutEntries(slots []metadata.UniformSlot) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, len(slots))
	for i, slot := range slots {
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: shaderStages(slot.Visibility),
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   slot.Size,
			},
		}
	}
	return entries
}

func (wr *WebGPURenderer) createTextureBindGroupLayout() error {
	layout, err := wr.context.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "BindGroupLayout.Texture",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return err
	}
	wr.context.TextureBindGroupLayout = layout
	return nil
}

func (wr *WebGPURenderer) PipelineCreate(config *metadata.PipelineConfig) (*metadata.Pipeline, error) {
	ctx := wr.context
	if ctx.Device == nil {
		return nil, core.ErrBackendNotInitialized
	}
	source, err := shaderSource(config.Shader)
	if err != nil {
		return nil, err
	}

	data := &pipelineData{}
	pipeline := &metadata.Pipeline{Config: config, InternalData: data}
	fail := func(err error) (*metadata.Pipeline, error) {
		wr.PipelineDestroy(pipeline)
		core.LogError("failed to create pipeline %s: %s", config.Name, err)
		return nil, err
	}

	data.module, err = ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: config.Name + ".Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return fail(err)
	}

	data.instanceLayout, err = ctx.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   config.Name + ".InstanceLayout",
		Entries: instanceLayoutEntries(config.Slots),
	})
	if err != nil {
		return fail(err)
	}

	groups := []*wgpu.BindGroupLayout{data.instanceLayout}
	if config.Textured {
		groups = append(groups, ctx.TextureBindGroupLayout)
	}
	data.layout, err = ctx.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            config.Name + ".Layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		return fail(err)
	}

	attributes := make([]wgpu.VertexAttribute, len(config.Layout.Attributes))
	for i, a := range config.Layout.Attributes {
		format, err := vertexFormat(a.Components)
		if err != nil {
			return fail(err)
		}
		attributes[i] = wgpu.VertexAttribute{
			Format:         format,
			Offset:         a.Offset,
			ShaderLocation: a.Location,
		}
	}

	data.pipeline, err = ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  config.Name,
		Layout: data.layout,
		Vertex: wgpu.VertexState{
			Module:     data.module,
			EntryPoint: vertexEntryPoint,
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: config.Layout.Stride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes:  attributes,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     data.module,
			EntryPoint: fragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    ctx.SurfaceFormat,
					Blend:     &wgpu.BlendStateAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology(config.Topology),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fail(err)
	}

	core.LogDebug("pipeline %s created", config.Name)
	return pipeline, nil
}

func (wr *WebGPURenderer) PipelineDestroy(pipeline *metadata.Pipeline) {
	if pipeline == nil {
		return
	}
	data, ok := pipeline.InternalData.(*pipelineData)
	if !ok {
		return
	}
	if data.pipeline != nil {
		data.pipeline.Release()
	}
	if data.layout != nil {
		data.layout.Release()
	}
	if data.instanceLayout != nil {
		data.instanceLayout.Release()
	}
	if data.module != nil {
		data.module.Release()
	}
	pipeline.InternalData = nil
}

func (wr *WebGPURenderer) InstanceBindGroupCreate(pipeline *metadata.Pipeline, buffers []*metadata.RenderBuffer) (*metadata.BindGroup, error) {
	data, ok := pipeline.InternalData.(*pipelineData)
	if !ok {
		return nil, fmt.Errorf("%w: pipeline %s has no GPU data", core.ErrBackendNotInitialized, pipeline.Config.Name)
	}
	slots := pipeline.Config.Slots
	if len(buffers) != len(slots) {
		return nil, fmt.Errorf("%s expects %d uniform buffers, got %d", pipeline.Config.Name, len(slots), len(buffers))
	}

	entries := make([]wgpu.BindGroupEntry, len(buffers))
	for i, b := range buffers {
		buf, ok := b.InternalData.(*wgpu.Buffer)
		if !ok {
			return nil, fmt.Errorf("buffer %s has no GPU data", b.Label)
		}
		// each binding sees one slot, the dynamic offset picks which
		entries[i] = wgpu.BindGroupEntry{
			Binding: uint32(i),
			Buffer:  buf,
			Offset:  0,
			Size:    slots[i].Size,
		}
	}

	label := pipeline.Config.Name + ".Instance"
	group, err := wr.context.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  data.instanceLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &metadata.BindGroup{Label: label, InternalData: group}, nil
}

func (wr *WebGPURenderer) BindGroupDestroy(group *metadata.BindGroup) {
	if group == nil {
		return
	}
	if bg, ok := group.InternalData.(*wgpu.BindGroup); ok {
		bg.Release()
	}
	group.InternalData = nil
}
