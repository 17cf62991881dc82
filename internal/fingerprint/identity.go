package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"os"

	"github.com/zeebo/blake3"
)

// Identity describes one observed state of a file. Two identities are the
// same file state iff path, size, and modification time all match.
type Identity struct {
	Path    string `cbor:"path" json:"path"`
	Size    int64  `cbor:"size" json:"size"`
	ModTime int64  `cbor:"mtime" json:"mtime"` // unix nanoseconds
}

// IdentityOf stats path and returns its current identity.
func IdentityOf(path string) (Identity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UnixNano(),
	}, nil
}

// Key returns the cache key for the identity: a BLAKE3 digest over path,
// size, and mtime, hex encoded.
func (id Identity) Key() string {
	hasher := blake3.New()
	_, _ = hasher.Write([]byte(id.Path))
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(id.Size))
	_, _ = hasher.Write(scratch[:])
	binary.LittleEndian.PutUint64(scratch[:], uint64(id.ModTime))
	_, _ = hasher.Write(scratch[:])
	return hex.EncodeToString(hasher.Sum(nil))
}
