package config

import "errors"

var (
	// ErrInvalidWaterMark 水位线不合法（要求 0 <= Low <= High）
	ErrInvalidWaterMark = errors.New("invalid write buffer water mark")

	// ErrInvalidReadChunkSize 单次接收上限不合法（要求 >= 1）
	ErrInvalidReadChunkSize = errors.New("invalid read chunk size")
)
