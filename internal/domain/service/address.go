package service

import (
	"crypto/sha512"
	"encoding/base32"
	"encoding/binary"
)

var addressEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// ApplicationAddress derives the escrow address controlled by an on-chain
// application: the SHA-512/256 digest of "appID" followed by the big-endian
// application id, encoded as a standard Algorand address.
func ApplicationAddress(appID uint64) string {
	data := make([]byte, 0, 13)
	data = append(data, []byte("appID")...)
	data = binary.BigEndian.AppendUint64(data, appID)
	digest := sha512.Sum512_256(data)
	return encodeAddress(digest[:])
}

// encodeAddress renders a 32-byte public key as a base32 address with the
// trailing 4-byte SHA-512/256 checksum.
func encodeAddress(publicKey []byte) string {
	checksum := sha512.Sum512_256(publicKey)
	full := make([]byte, 0, len(publicKey)+4)
	full = append(full, publicKey...)
	full = append(full, checksum[len(checksum)-4:]...)
	return addressEncoding.EncodeToString(full)
}
