package transcode

import (
	"errors"
	"fmt"
)

// Kind classifies a per-file failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound means the source was missing or unreadable.
	KindNotFound
	// KindDecode means the source bytes were not a decodable image.
	KindDecode
	// KindEncode means the codec rejected the decoded image.
	KindEncode
	// KindWrite means the destination could not be written.
	KindWrite
	// KindCanceled means the job never ran because the run was interrupted.
	KindCanceled
	// KindPath means no destination could be derived for the source.
	KindPath
	// KindCollision means another source in the batch already owns the
	// destination.
	KindCollision
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindDecode:
		return "DecodeFailed"
	case KindEncode:
		return "EncodeFailed"
	case KindWrite:
		return "WriteFailed"
	case KindCanceled:
		return "Canceled"
	case KindPath:
		return "PathEscape"
	case KindCollision:
		return "PathCollision"
	default:
		return "Unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(value string) Kind {
	for k := KindNotFound; k <= KindCollision; k++ {
		if k.String() == value {
			return k
		}
	}
	return KindUnknown
}

// Error is the failure type returned by Transcode.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
