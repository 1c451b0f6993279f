// Package codec provides record serialization and deserialization for Skuld.
//
// The codec package implements the binary record format used to persist
// todos inside the store's region file. The format carries a bounded-size
// contract: no encoded record ever exceeds MaxEncodedSize (2048 bytes),
// which storage relies on when sizing slots.
//
// # Record Format
//
// Records are serialized in a binary format with the following structure:
//
//	[CRC32(4)][ID(8)][Status(1)][Priority(1)][CreatedAt(8)]
//	[DueTag(1)][DueDate(8)?][UpdatedTag(1)][UpdatedAt(8)?]
//	[TitleLen(4)][Title][DescLen(4)][Description][OwnerLen(4)][Owner]
//
// All integers are little-endian. Optional fields carry an explicit
// presence tag: 0 means absent (no value bytes follow), 1 means present
// (eight value bytes follow). Any other tag value is malformed. Strings are
// length-prefixed raw bytes.
//
// # Tag Values
//
// Enum fields are stored as single-byte tags. These values are part of the
// persisted format and must never be renumbered; records written by one
// version must decode identically in every later version.
//
//	Status:   Pending=0  InProgress=1  Completed=2
//	Priority: Low=0  Medium=1  High=2  Urgent=3
//
// # CRC32 Calculation
//
// The CRC32 (IEEE) checksum is calculated over every byte after the CRC32
// field itself, so any corruption in the record body is detected during
// decoding.
//
// # Usage
//
// Basic encoding and decoding:
//
//	codec := codec.NewTodoCodec()
//
//	encoded, err := codec.Encode(record)
//	if err != nil {
//	    return err
//	}
//
//	decoded, err := codec.Decode(encoded)
//	if err != nil {
//	    return err // Record is malformed or corrupted
//	}
//
// # Error Handling
//
// Decode rejects short buffers, checksum mismatches, unknown enum tags,
// invalid presence tags, length fields that overrun the buffer, and
// trailing bytes. Decode(Encode(t)) reproduces t exactly for every
// representable todo.
//
// MustDecode is the path the store uses for bytes it wrote itself: records
// at rest are trusted to be Encode output, so a decode failure there is
// treated as unrecoverable corruption and panics instead of returning an
// error.
package codec
