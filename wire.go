// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package streamzip

import "encoding/binary"

// Signatures and fixed record lengths, little-endian on the wire.
const (
	fileHeaderSignature      = 0x04034b50
	dataDescriptorSignature  = 0x08074b50
	directoryHeaderSignature = 0x02014b50
	directory64EndSignature  = 0x06064b50
	directory64LocSignature  = 0x07064b50
	directoryEndSignature    = 0x06054b50

	zip64ExtraID = 0x0001 // Zip64 extended information

	zipVersion45 = 45 // 4.5: reads and writes zip64 archives

	// generalPurposeFlags sets bit 3 (sizes/CRC deferred to the data
	// descriptor) and bit 11 (UTF-8 name/comment).
	generalPurposeFlags uint16 = 1<<3 | 1<<11

	uint16max = 1<<16 - 1
	uint32max = 1<<32 - 1

	localHeaderFixedLen  = 30 // + name + extra
	zip64ExtraLen        = 4  // empty placeholder: tag + body length, no body
	dataDescriptor64Len  = 24 // signature, crc32, 8-byte sizes x2
	centralHeaderFixedLen = 46 // + name + extra + comment
	zip64EndLen           = 56 // including signature
	zip64LocLen           = 20
	eocdFixedLen          = 22 // + comment
)

// writeBuf is a little-endian cursor over a fixed backing array, used
// to lay out fixed-size wire records field by field.
type writeBuf []byte

func (b *writeBuf) uint16(v uint16) {
	binary.LittleEndian.PutUint16(*b, v)
	*b = (*b)[2:]
}

func (b *writeBuf) uint32(v uint32) {
	binary.LittleEndian.PutUint32(*b, v)
	*b = (*b)[4:]
}

func (b *writeBuf) uint64(v uint64) {
	binary.LittleEndian.PutUint64(*b, v)
	*b = (*b)[8:]
}

// localHeaderBytes lays out the local file header of spec §4.6.1. The
// Zip64 extra placeholder (tag 0x0001, body length 0) is always
// present, even when the entry's sizes will fit in 32 bits, for
// format regularity.
func localHeaderBytes(name string, method Method, dosTime, dosDate uint16) []byte {
	buf := make([]byte, localHeaderFixedLen+len(name)+zip64ExtraLen)
	b := writeBuf(buf)
	b.uint32(fileHeaderSignature)
	b.uint16(zipVersion45)
	b.uint16(generalPurposeFlags)
	b.uint16(method.wireValue())
	b.uint16(dosTime)
	b.uint16(dosDate)
	b.uint32(0) // crc-32, deferred to data descriptor
	b.uint32(0) // compressed size, deferred
	b.uint32(0) // uncompressed size, deferred
	b.uint16(uint16(len(name)))
	b.uint16(zip64ExtraLen)
	copy(b, name)
	b = b[len(name):]
	b.uint16(zip64ExtraID)
	b.uint16(0) // body length: no body, placeholder only
	return buf
}

// dataDescriptorBytes lays out the Zip64-form data descriptor of
// spec §4.6.2, always 24 bytes: signature, crc32, 64-bit compressed
// size, 64-bit uncompressed size.
func dataDescriptorBytes(crc32 uint32, compressedSize, uncompressedSize uint64) []byte {
	buf := make([]byte, dataDescriptor64Len)
	b := writeBuf(buf)
	b.uint32(dataDescriptorSignature)
	b.uint32(crc32)
	b.uint64(compressedSize)
	b.uint64(uncompressedSize)
	return buf
}

// centralDirectoryRecordBytes lays out one central directory record
// per spec §4.6.3: the extra field carries 8-byte words for every
// field that overflows 32 bits, in the fixed order (uncompressed
// size, compressed size, local-header offset); the corresponding
// 32-bit slot is then clamped to 0xFFFFFFFF. The extra field -- and
// its 4-byte tag/length header -- is entirely absent when no field
// overflows, unlike the local header's always-present placeholder.
func centralDirectoryRecordBytes(e *finalizedEntry) []byte {
	var zip64Body []byte
	oversizeUncompressed := e.uncompressedSize > uint32max
	oversizeCompressed := e.compressedSize > uint32max
	oversizeOffset := e.localHeaderOffset > uint32max
	if oversizeUncompressed {
		zip64Body = appendUint64(zip64Body, e.uncompressedSize)
	}
	if oversizeCompressed {
		zip64Body = appendUint64(zip64Body, e.compressedSize)
	}
	if oversizeOffset {
		zip64Body = appendUint64(zip64Body, e.localHeaderOffset)
	}

	var extra []byte
	if len(zip64Body) > 0 {
		extra = make([]byte, 4+len(zip64Body))
		eb := writeBuf(extra)
		eb.uint16(zip64ExtraID)
		eb.uint16(uint16(len(zip64Body)))
		copy(extra[4:], zip64Body)
	}

	name, comment := e.path, e.comment
	buf := make([]byte, centralHeaderFixedLen+len(name)+len(extra)+len(comment))
	b := writeBuf(buf)
	dosDate, dosTime := dosDateTime(e.modified)
	b.uint32(directoryHeaderSignature)
	b.uint16(zipVersion45) // version made by
	b.uint16(zipVersion45) // version needed
	b.uint16(generalPurposeFlags)
	b.uint16(e.method.wireValue())
	b.uint16(dosTime)
	b.uint16(dosDate)
	b.uint32(e.crc32)
	b.uint32(clampUint32(e.compressedSize, oversizeCompressed))
	b.uint32(clampUint32(e.uncompressedSize, oversizeUncompressed))
	b.uint16(uint16(len(name)))
	b.uint16(uint16(len(extra)))
	b.uint16(uint16(len(comment)))
	b.uint16(0) // disk number start
	b.uint16(0) // internal attributes
	b.uint32(0) // external attributes
	b.uint32(clampUint32(e.localHeaderOffset, oversizeOffset))
	rest := []byte(b)
	n := copy(rest, name)
	rest = rest[n:]
	n = copy(rest, extra)
	rest = rest[n:]
	copy(rest, comment)
	return buf
}

func appendUint64(dst []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(dst, tmp[:]...)
}

func clampUint32(v uint64, oversize bool) uint32 {
	if oversize {
		return uint32max
	}
	return uint32(v)
}

// zip64EndOfCentralDirectoryBytes lays out the fixed 56-byte Zip64
// end-of-central-directory record of spec §6.2.
func zip64EndOfCentralDirectoryBytes(entries uint64, cdrSize, cdrOffset uint64) []byte {
	buf := make([]byte, zip64EndLen)
	b := writeBuf(buf)
	b.uint32(directory64EndSignature)
	b.uint64(zip64EndLen - 12) // size of this record minus signature and this field
	b.uint16(zipVersion45)     // version made by
	b.uint16(zipVersion45)     // version needed
	b.uint32(0)                // this disk
	b.uint32(0)                // disk of start of CDR
	b.uint64(entries)          // entries on this disk
	b.uint64(entries)          // total entries
	b.uint64(cdrSize)
	b.uint64(cdrOffset)
	return buf
}

// zip64LocatorBytes lays out the 20-byte Zip64 end-of-CDR locator of
// spec §6.3.
func zip64LocatorBytes(zip64EOCDOffset uint64) []byte {
	buf := make([]byte, zip64LocLen)
	b := writeBuf(buf)
	b.uint32(directory64LocSignature)
	b.uint32(0) // disk of zip64 EOCD
	b.uint64(zip64EOCDOffset)
	b.uint32(1) // total disks
	return buf
}

// endOfCentralDirectoryBytes lays out the 22-byte (+ comment)
// end-of-central-directory record of spec §6.4. Per the format, the
// fixed fields are clamped to their all-ones sentinel whenever the
// real count or size doesn't fit, signalling that the Zip64 records
// carry the real values -- which this writer always emits, so readers
// that understand Zip64 never need the clamp, but less capable
// readers still see a syntactically valid (if wrong) record.
func endOfCentralDirectoryBytes(entries uint64, cdrSize, cdrOffset uint64, comment []byte) []byte {
	buf := make([]byte, eocdFixedLen+len(comment))
	b := writeBuf(buf)
	b.uint32(directoryEndSignature)
	b.uint16(0) // this disk
	b.uint16(0) // disk of CDR
	b.uint16(clampUint16(entries))
	b.uint16(clampUint16(entries))
	b.uint32(clampUint32(cdrSize, cdrSize > uint32max))
	b.uint32(clampUint32(cdrOffset, cdrOffset > uint32max))
	b.uint16(uint16(len(comment)))
	copy(b, comment)
	return buf
}

func clampUint16(v uint64) uint16 {
	if v > uint16max {
		return uint16max
	}
	return uint16(v)
}
