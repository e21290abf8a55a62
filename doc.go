// Package streamzip writes well-formed, Zip64 PKZIP archives to an
// arbitrary forward-only byte sink.
//
// Unlike archive/zip's Writer, every entry always carries Zip64
// structures regardless of size, so a single archive can stream
// members of any length without the writer ever needing to seek back
// and patch a local header. Callers drive the archive with AddFunc,
// AddFile, AddStream or AddFileFromPath; the archive serializes one
// entry at a time and writes the central directory when Close is
// called.
//
// See: https://www.pkware.com/appnote
package streamzip
