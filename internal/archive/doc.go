// Package archive stores validated bulletins as versioned files in a flat
// directory and suppresses duplicates.
//
// # File naming
//
// Every file is named
//
//	SACN61.<station>.<dayTime>.<version>
//
// where version is a decimal integer without leading zeros, starting at 1.
// The "SACN61.<station>" prefix is the station's common name.
//
// # Versioning
//
// Versions count the bulletins archived for a station on the current
// calendar day: the next version is one more than the highest version among
// the station's files created today, and the first bulletin of a new day
// starts again at 1. A file's creation time is its modification time; files
// are never rewritten once created.
//
// # Deduplication
//
// A bulletin is written only when the candidate file does not already exist
// and its content differs from the station's most recently created file.
// Re-running against an unchanged source therefore never creates a file.
//
// The store takes no lock. Two processes archiving into the same directory
// at once may race on version numbers; runs must be serialized by the caller.
package archive
