// Package transcode converts a single image file to the target codec.
//
// A Transcoder reads the whole source, decodes it with any registered image
// decoder (png, jpeg, gif, bmp, tiff, webp), re-encodes it through an Encoder
// at the requested quality, and writes the result atomically. Every failure is
// returned as an *Error carrying a Kind so callers can classify it without
// string matching. Transcoder holds no mutable state and is safe for
// concurrent use.
package transcode
