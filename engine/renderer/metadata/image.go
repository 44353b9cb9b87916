package metadata

/**
 * @brief A structure to hold decoded image data, always 8 bit RGBA,
 * not premultiplied, rows top to bottom.
 */
type ImageResourceData struct {
	/** @brief The number of channels. Always 4. */
	ChannelCount uint8
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The pixel data of the image. */
	Pixels []uint8
}
