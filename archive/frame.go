// Package archive implements Turboshell's signed container format: a
// fixed magic header, a detached Ed25519 signature, and a gzip-compressed
// tar payload carrying the embedded archive manifest, role files, and
// every resolved package's tree.
//
// The framing and tar/gzip assembly follow the teacher's deb/util.go and
// apt/apt.go (countingWriter, explicit Close ordering before signing),
// adapted from Debian ar/control framing to Turboshell's single
// tar+gzip+sign pipeline.
package archive

const (
	// Magic is the literal 8-byte value that opens every archive.
	Magic = "TURBOv01"

	// SignatureB64Len is the exact length, in bytes, of the base64-encoded
	// detached Ed25519 signature block that follows the magic.
	SignatureB64Len = 88
)
