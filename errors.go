package nodelim

import "errors"

var (
	// ErrTruncatedData indicates that a read could not complete because the
	// buffer ended before all bytes required by the shape were available.
	ErrTruncatedData = errors.New("nodelim: truncated data")

	// ErrInvalidUTF8 indicates that a string payload is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("nodelim: invalid UTF-8 in string payload")

	// ErrUnknownVariant indicates that a decoded variant index is outside the
	// variant table of the enum being decoded.
	ErrUnknownVariant = errors.New("nodelim: variant index out of range")

	// ErrSizeOverflow indicates a size code that does not fit in an int and
	// therefore cannot be a length or element count.
	ErrSizeOverflow = errors.New("nodelim: size code overflows int")

	// ErrCountLimit indicates an element count above MaxEmptyElements for
	// elements that occupy no bytes.
	ErrCountLimit = errors.New("nodelim: too many zero-width elements")

	// ErrTrailingData is returned by Unmarshal when bytes remain after the
	// top-level value has been decoded.
	ErrTrailingData = errors.New("nodelim: trailing data found after decoding")

	// ErrNilIO indicates that Encode/Decode was called with a nil io.Writer/io.Reader.
	ErrNilIO = errors.New("nodelim: Encode/Decode called with a nil io.Reader/io.Writer")
)
