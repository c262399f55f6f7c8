// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// Element is the uniform (de)serialize contract every catalog entry
// implements: one sprite, one code entry, one room, and so on.
type Element interface {
	Deserialize(r *Reader, d *Data) error
	Serialize(b *Builder, d *Data) error
}

// PrePadder is an optional hook for elements that must align the
// cursor before they begin (rare; most alignment happens after).
type PrePadder interface {
	PrePad(r *Reader) error
}

// PostPadder is an optional hook for elements whose containing list
// pads between entries but not after the last one. isLast lets the
// final element in a list skip that trailing alignment.
type PostPadder interface {
	PostPad(r *Reader, isLast bool) error
}

// postPadWriter is the builder-side counterpart of PostPadder, used by
// list helpers that need to pad after each serialized element except
// the last.
type postPadWriter interface {
	PostPadWrite(b *Builder, isLast bool) error
}
