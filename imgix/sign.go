package imgix

import (
	"crypto/md5"
	"encoding/hex"
)

// SignatureKey is the query parameter carrying the signature.
const SignatureKey = "s"

// Sign computes the hex encoded MD5 of the secret, the encoded path (with its
// leading slash) and the query string, prefixed by "?" when not empty.
//
// This is the scheme the rendering API verifies, changing it breaks every
// signed URL.
func Sign(secret, encodedPath, query string) string {
	h := md5.New()
	h.Write([]byte(secret))
	h.Write([]byte("/"))
	h.Write([]byte(encodedPath))
	if query != "" {
		h.Write([]byte("?"))
		h.Write([]byte(query))
	}
	return hex.EncodeToString(h.Sum(nil))
}
