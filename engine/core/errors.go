package core

import (
	"errors"
)

var (
	ErrCapacityExceeded      = errors.New("primitive capacity exceeded for this frame")
	ErrUnknownTexture        = errors.New("unknown texture")
	ErrTextureDecode         = errors.New("texture could not be decoded")
	ErrInvalidTexture        = errors.New("invalid texture data")
	ErrAssetNotFound         = errors.New("asset not found")
	ErrBackendNotInitialized = errors.New("renderer backend not initialized")
	ErrInvalidConfig         = errors.New("invalid configuration")
)
