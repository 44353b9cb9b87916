package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

func filterMode(f metadata.TextureFilter) wgpu.FilterMode {
	if f == metadata.TextureFilterModeLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

func addressMode(r metadata.TextureRepeat) wgpu.AddressMode {
	switch r {
	case metadata.TextureRepeatRepeat:
		return wgpu.AddressModeRepeat
	case metadata.TextureRepeatMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	}
	return wgpu.AddressModeClampToEdge
}

// TextureCreate uploads RGBA8 pixels and builds the group 1 bind group
// textured pipelines sample from.
func (wr *WebGPURenderer) TextureCreate(pixels []uint8, texture *metadata.Texture, sampler metadata.SamplerConfig) error {
	ctx := wr.context
	if ctx.Device == nil {
		return core.ErrBackendNotInitialized
	}
	if uint64(len(pixels)) != uint64(texture.Width)*uint64(texture.Height)*4 {
		return fmt.Errorf("texture %s: %w", texture.Name, core.ErrInvalidTexture)
	}

	data := &textureData{}
	fail := func(err error) error {
		releaseTextureData(data)
		return fmt.Errorf("texture %s: %w", texture.Name, err)
	}

	extent := wgpu.Extent3D{
		Width:              texture.Width,
		Height:             texture.Height,
		DepthOrArrayLayers: 1,
	}
	var err error
	data.texture, err = ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Texture." + texture.Name,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fail(err)
	}

	ctx.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  data.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  texture.Width * 4,
			RowsPerImage: texture.Height,
		},
		&extent,
	)

	data.view, err = data.texture.CreateView(nil)
	if err != nil {
		return fail(err)
	}

	mode := addressMode(sampler.Repeat)
	data.sampler, err = ctx.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Sampler." + texture.Name,
		AddressModeU:  mode,
		AddressModeV:  mode,
		AddressModeW:  mode,
		MagFilter:     filterMode(sampler.FilterMagnify),
		MinFilter:     filterMode(sampler.FilterMinify),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fail(err)
	}

	data.bindGroup, err = ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BindGroup.Texture." + texture.Name,
		Layout: ctx.TextureBindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: data.view},
			{Binding: 1, Sampler: data.sampler},
		},
	})
	if err != nil {
		return fail(err)
	}

	if old, ok := texture.InternalData.(*textureData); ok {
		releaseTextureData(old)
	}
	texture.InternalData = data
	texture.Generation++
	return nil
}

func (wr *WebGPURenderer) TextureDestroy(texture *metadata.Texture) {
	if texture == nil {
		return
	}
	if data, ok := texture.InternalData.(*textureData); ok {
		releaseTextureData(data)
	}
	texture.InternalData = nil
}

func releaseTextureData(data *textureData) {
	if data.bindGroup != nil {
		data.bindGroup.Release()
	}
	if data.sampler != nil {
		data.sampler.Release()
	}
	if data.view != nil {
		data.view.Release()
	}
	if data.texture != nil {
		data.texture.Release()
	}
}
