package transcode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pictowebp/internal/fileutil"
)

// Sizes reports the byte counts of a successful conversion.
type Sizes struct {
	Original int64
	Encoded  int64
}

// Transcoder converts files with a fixed Encoder.
type Transcoder struct {
	encoder Encoder
}

// New returns a Transcoder writing through enc.
func New(enc Encoder) *Transcoder {
	return &Transcoder{encoder: enc}
}

// Encoder returns the configured encoder.
func (t *Transcoder) Encoder() Encoder { return t.encoder }

// Transcode converts source into destination at quality. The parent of
// destination must already exist. The destination is either fully written
// or left untouched.
func (t *Transcoder) Transcode(ctx context.Context, source, destination string, quality int) (Sizes, error) {
	if err := ctx.Err(); err != nil {
		return Sizes{}, &Error{Kind: KindCanceled, Path: source, Err: err}
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return Sizes{}, &Error{Kind: KindNotFound, Path: source, Err: err}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		detected := mimetype.Detect(data).String()
		return Sizes{}, &Error{Kind: KindDecode, Path: source, Err: fmt.Errorf("%w (detected %s)", err, detected)}
	}

	var buf bytes.Buffer
	buf.Grow(len(data) / 2)
	if err := t.encoder.Encode(&buf, img, quality); err != nil {
		return Sizes{}, &Error{Kind: KindEncode, Path: source, Err: fmt.Errorf("%s -> %s: %w", format, t.encoder.Name(), err)}
	}

	if err := fileutil.WriteFileAtomic(destination, buf.Bytes(), 0o644); err != nil {
		return Sizes{}, &Error{Kind: KindWrite, Path: destination, Err: err}
	}

	return Sizes{Original: int64(len(data)), Encoded: int64(buf.Len())}, nil
}
