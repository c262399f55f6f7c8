// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

import "github.com/pkg/errors"

// Sentinel errors, one per error kind in the format's error taxonomy.
// Callers use errors.Is/errors.Cause (github.com/pkg/errors) to recover
// the original sentinel from a wrapped, context-annotated error.
var (
	// ErrTruncated is returned when a read crosses the end of the
	// current chunk or the end of the file.
	ErrTruncated = errors.New("truncated: read past end of chunk or file")

	// ErrMisaligned is returned when a pointer does not land where
	// expected. Fatal in strict mode; logged and ignored in lenient mode.
	ErrMisaligned = errors.New("misaligned pointer")

	// ErrInvalidConstant is returned when a version marker or reserved
	// field holds an unexpected value under VerifyConstants.
	ErrInvalidConstant = errors.New("invalid constant value")

	// ErrInvalidReference is returned when an index does not correspond
	// to any resource, or an on-disk string offset is not pooled.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidUTF8 is returned when string bytes fail to decode.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in pooled string")

	// ErrChainCorrupt is returned when an occurrence chain's walked
	// length disagrees with its entry's declared count, or its
	// terminator does not match the owning entry.
	ErrChainCorrupt = errors.New("occurrence chain corrupt")

	// ErrAssemblerSyntax names the assembler-syntax error kind. The
	// assembler itself (gml.Assemble) reports bad lines as a
	// *gml.AssembleError, which does not wrap this value.
	ErrAssemblerSyntax = errors.New("assembler syntax error")

	// ErrCapacityExceeded is returned when a declared element count
	// would force an unreasonably large allocation.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrVersionConflict is returned when two version detectors produce
	// mutually incompatible claims, or a claim undercuts GEN8's
	// declared version.
	ErrVersionConflict = errors.New("version inference inconsistency")

	// ErrUnresolvedPointer is returned by the builder when a pointer
	// placeholder has no resolved target at Finish.
	ErrUnresolvedPointer = errors.New("unresolved pointer placeholder")

	// ErrNotImplemented is returned by action stubs whose semantics
	// were deliberately left unimplemented.
	ErrNotImplemented = errors.New("not implemented")
)

// wrapf is a small wrapper around errors.Wrapf kept local so call sites
// read "wrapf(err, \"parsing chunk %s\", name)" the way the source's
// `.context(...)` chaining reads.
func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
