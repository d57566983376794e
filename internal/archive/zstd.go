package archive

import (
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// zstdDecompressor is shared by every reader; it pools decoders internally.
var zstdDecompressor = zstd.ZipDecompressor(zstd.WithDecoderConcurrency(1))

// registerMethods teaches r the compression methods mod archives use beyond
// store and deflate.
func registerMethods(r *zip.Reader) {
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstdDecompressor)
	r.RegisterDecompressor(zstd.ZipMethodPKWare, zstdDecompressor)
}
