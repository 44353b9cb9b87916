package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief a 4x4 matrix, typically used to represent object transformations. */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief Represents the extents of a 2d object.
 */
type Extents2D struct {
	/** @brief The minimum extents of the object. */
	Min Vec2
	/** @brief The maximum extents of the object. */
	Max Vec2
}

/**
 * @brief Represents a single vertex of a textured 2D mesh.
 */
type Vertex2D struct {
	/** @brief The position of the vertex. Z is kept for the pipeline layout. */
	Position Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}

/**
 * @brief Represents the placement of a flat object on screen.
 * Rotation only happens around the Z axis. A transform is built
 * fresh for every draw request and is never mutated afterwards.
 */
type Transform struct {
	/** @brief The position in pixel space. */
	Position Vec3
	/** @brief The rotation around Z, in radians, counter-clockwise. */
	Angle float32
	/** @brief The scale. Negative components mirror the object. */
	Scale Vec3
}
