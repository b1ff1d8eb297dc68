package codec

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("codec: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("codec: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("codec: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("codec: WriteTo called with a nil io.Writer")

	// ErrReadToNil indicates a ReadTo operation was attempted on a nil io.ReaderFrom.
	ErrReadToNil = errors.New("codec: ReadTo called with a nil io.ReaderFrom")

	// ErrInvalidSeek indicates a seek was attempted to invalid position.
	ErrInvalidSeek = errors.New("codec: seek to a invalid position")

	// ErrUnsupportedNegativeSeek indicates a backward seek was attempted on a forward-only seeker.
	ErrUnsupportedNegativeSeek = errors.New("codec: unsupported negative offset for forward-only seeker")

	// ErrInvalidWhence indicates that an invalid 'whence' parameter was provided to a Seek operation.
	ErrInvalidWhence = errors.New("codec: unsupported whence for forward-only seeker")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("codec: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("codec: reader returned invalid count from Read")

	// ErrDiscardNegative indicates a Discard operation was attempted with a negative byte count.
	ErrDiscardNegative = errors.New("codec: cannot discard negative number of bytes")

	// ErrTrailingData is returned by UnmarshalBinaryGeneric when non-zero bytes are found
	// after the expected end of the data structure, indicating a potential parsing error or malformed data.
	ErrTrailingData = errors.New("codec: non-zero trailing data found after decoding")

	// ErrTruncatedData indicates that a read operation could not complete because the
	// underlying data source (e.g., buffer, stream) ended before all expected bytes were read.
	ErrTruncatedData = errors.New("codec: truncated data")
)

// Bincode error taxonomy (§7 of SPEC_FULL.md). These are kinds, not distinct
// Go types: every dispatcher failure wraps one of these sentinels with
// fmt.Errorf("%w: ...") so callers can errors.Is against the kind while still
// getting a message that names the offending value and descriptor.
var (
	// ErrTypeMismatch indicates a value does not match the shape its descriptor requires.
	ErrTypeMismatch = errors.New("bincode: type mismatch")

	// ErrNegativeUnsigned indicates a negative value was supplied for an unsigned descriptor.
	ErrNegativeUnsigned = errors.New("bincode: negative value for unsigned type")

	// ErrTruncatedInput indicates decode ran out of bytes before satisfying its descriptor.
	// This is the Bincode-domain alias of ErrTruncatedData; both wrap the same condition.
	ErrTruncatedInput = ErrTruncatedData

	// ErrInvalidBool indicates a boolean byte was neither 0x00 nor 0x01.
	ErrInvalidBool = errors.New("bincode: invalid bool byte")

	// ErrInvalidOption indicates an option tag byte was neither 0x00 nor 0x01.
	ErrInvalidOption = errors.New("bincode: invalid option tag")

	// ErrInvalidVarint indicates a varint tag byte was outside the recognized set.
	ErrInvalidVarint = errors.New("bincode: invalid varint tag")

	// ErrArityMismatch indicates a tuple or struct had the wrong number of components.
	ErrArityMismatch = errors.New("bincode: arity mismatch")

	// ErrSchemaMismatch indicates a value's shape does not match its declared struct/enum.
	ErrSchemaMismatch = errors.New("bincode: schema mismatch")

	// ErrUnknownVariant indicates an enum discriminant did not match any declared variant.
	ErrUnknownVariant = errors.New("bincode: unknown variant")

	// ErrUnknownType indicates a UserRef named a type that was never registered.
	ErrUnknownType = errors.New("bincode: unknown registered type")

	// ErrTupleTooLarge indicates a Tup descriptor exceeded the registry's MaxTupleSize.
	ErrTupleTooLarge = errors.New("bincode: tuple exceeds max tuple size")
)
