// Package naming encodes the original file name and its timestamps into the
// name of an encrypted file, and recovers them again.
//
// An encoded name takes one of four shapes, tried in order until one fits
// within MaxNameLength bytes:
//
//	MCF.<modified>.<created>.<name>.<suffix>
//	MF.<modified>.<name>.<suffix>
//	<name>.<suffix>
//	<truncated name>.<ext>.<suffix>
//
// Timestamps are 12-digit UTC tokens of the form YYMMDDHHmmss.
//
// Names that themselves begin with an "MCF." or "MF." segment are
// indistinguishable from tagged names and are parsed as such.
package naming
