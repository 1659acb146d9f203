package engine

import (
	"encoding/binary"
	"fmt"
)

const (
	idSize       = uint32(4)
	usernameSize = uint32(32)
	emailSize    = uint32(255)

	idOffset       = uint32(0)
	usernameOffset = idOffset + idSize
	emailOffset    = usernameOffset + usernameSize

	// RowSize is the fixed on-disk size of a Row: id + username + email.
	RowSize = idSize + usernameSize + emailSize
)

// Row is the single fixed-size record type this table stores.
type Row struct {
	ID       uint32
	Username [usernameSize]byte
	Email    [emailSize]byte
}

// NewRow builds a Row from a numeric id and two strings, truncating each
// string to capacity-1 bytes and forcing a trailing NUL, strncpy-style.
func NewRow(id uint32, username, email string) Row {
	var r Row
	r.ID = id
	copyTruncated(r.Username[:], username)
	copyTruncated(r.Email[:], email)
	return r
}

func copyTruncated(dst []byte, s string) {
	n := copy(dst, s)
	if n >= len(dst) {
		n = len(dst) - 1
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// UsernameString returns the username up to its first NUL byte.
func (r Row) UsernameString() string {
	return nulTerminated(r.Username[:])
}

// EmailString returns the email up to its first NUL byte.
func (r Row) EmailString() string {
	return nulTerminated(r.Email[:])
}

func nulTerminated(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// String formats a row as "(id, email, username)", matching the original
// tutorial's print order.
func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.EmailString(), r.UsernameString())
}

// Serialize copies the field-packed, host-byte-order representation of r
// into dst, which must be exactly RowSize bytes.
func Serialize(r Row, dst []byte) {
	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+idSize], r.ID)
	copy(dst[usernameOffset:usernameOffset+usernameSize], r.Username[:])
	copy(dst[emailOffset:emailOffset+emailSize], r.Email[:])
}

// Deserialize never fails: it copies RowSize bytes out of src into a Row.
func Deserialize(src []byte) Row {
	var r Row
	r.ID = binary.LittleEndian.Uint32(src[idOffset : idOffset+idSize])
	copy(r.Username[:], src[usernameOffset:usernameOffset+usernameSize])
	copy(r.Email[:], src[emailOffset:emailOffset+emailSize])
	return r
}
