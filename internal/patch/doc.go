// Package patch reads and writes patch records.
//
// A patch record is a unified diff together with the commit metadata needed
// to replay it as a real commit: author identity, author date (with its UTC
// offset) and the commit subject and body. On disk a record looks like:
//
//	From: Jane Doe <jane@example.com>
//	Date: Tue, 01 Jan 2030 00:00:00 +0000
//	Subject: Fix bug
//
//	Optional body
//
//	diff --git a/f b/f
//	...
//
// Records are written by Write and read back by Read. The reader is a single
// forward pass over the lines with three states (headers, body, diff).
package patch
