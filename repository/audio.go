package repository

import "context"

// AudioConverter re-encodes a synthesized audio file into the sample
// rate/channel/bit-depth the device plays back. Implementations consume src
// and produce dst; a passthrough implementation may simply rename.
type AudioConverter interface {
	Convert(ctx context.Context, src, dst string) error
}
