package domain

import "errors"

var (
	// ErrUnknownFormat is returned when a settings file format is not supported
	ErrUnknownFormat = errors.New("unknown settings format")
	// ErrDecode wraps parse failures of a settings file
	ErrDecode = errors.New("decode settings")
	// ErrEncode wraps serialization failures of a settings file
	ErrEncode = errors.New("encode settings")
)
