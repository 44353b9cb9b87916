package metadata

import "github.com/google/uuid"

const (
	/** @brief The default texture name. Quads without a texture resolve to it. */
	DEFAULT_TEXTURE_NAME string = "default"
)

/**
 * @brief Represents a registered texture: GPU image, sampler and the
 * bind group quads use to sample it.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uuid.UUID
	/** @brief The texture Name the client registered it under. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The texture Generation. Incremented every time the data is uploaded. */
	Generation uint32
	/** @brief The renderer API internal data (texture, view, sampler, bind group). */
	InternalData interface{}
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat         TextureRepeat = 0x1
	TextureRepeatMirroredRepeat TextureRepeat = 0x2
	TextureRepeatClampToEdge    TextureRepeat = 0x3
)

/**
 * @brief Sampling parameters of registered textures. Clamp-to-edge with
 * linear magnification and nearest minification keeps pixel art from
 * bleeding at sprite borders.
 */
type SamplerConfig struct {
	FilterMinify  TextureFilter
	FilterMagnify TextureFilter
	Repeat        TextureRepeat
}

var DefaultSamplerConfig = SamplerConfig{
	FilterMinify:  TextureFilterModeNearest,
	FilterMagnify: TextureFilterModeLinear,
	Repeat:        TextureRepeatClampToEdge,
}
