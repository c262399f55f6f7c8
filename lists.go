// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// elemPtr constrains a list's element type T to one whose pointer
// implements Element - the idiomatic Go way to require "T implements
// Element via a pointer receiver" in a generic function signature.
type elemPtr[T any] interface {
	*T
	Element
}

// ReadSimpleList reads a "simple list": a count followed by that many
// elements laid out back-to-back in stream order (no offset table).
func ReadSimpleList[T any, PT elemPtr[T]](r *Reader, d *Data, purpose string) ([]T, error) {
	count, err := r.ReadCount(purpose)
	if err != nil {
		return nil, err
	}
	out := make([]T, count)
	for i := range out {
		if err := PT(&out[i]).Deserialize(r, d); err != nil {
			return nil, wrapf(err, "%s entry %d", purpose, i)
		}
		if padder, ok := any(PT(&out[i])).(PostPadder); ok {
			if err := padder.PostPad(r, i == len(out)-1); err != nil {
				return nil, wrapf(err, "%s entry %d post-pad", purpose, i)
			}
		}
	}
	return out, nil
}

// WriteSimpleList serializes list as a simple list: count then each
// element's Serialize in order.
func WriteSimpleList[T any, PT elemPtr[T]](b *Builder, d *Data, list []T) error {
	b.WriteCount(uint32(len(list)))
	for i := range list {
		if err := PT(&list[i]).Serialize(b, d); err != nil {
			return wrapf(err, "entry %d", i)
		}
		if padder, ok := any(PT(&list[i])).(postPadWriter); ok {
			if err := padder.PostPadWrite(b, i == len(list)-1); err != nil {
				return wrapf(err, "entry %d post-pad", i)
			}
		}
	}
	return nil
}

// ReadShortSimpleList is a simple list with a 16-bit count. None of the
// catalog elements in this package use it.
func ReadShortSimpleList[T any, PT elemPtr[T]](r *Reader, d *Data, purpose string) ([]T, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]T, count)
	for i := range out {
		if err := PT(&out[i]).Deserialize(r, d); err != nil {
			return nil, wrapf(err, "%s entry %d", purpose, i)
		}
	}
	return out, nil
}

// WriteShortSimpleList writes a 16-bit count then each element.
func WriteShortSimpleList[T any, PT elemPtr[T]](b *Builder, d *Data, list []T) error {
	if len(list) > 0xFFFF {
		return wrapf(ErrCapacityExceeded, "short list length %d exceeds 16-bit count", len(list))
	}
	b.WriteU16(uint16(len(list)))
	for i := range list {
		if err := PT(&list[i]).Serialize(b, d); err != nil {
			return wrapf(err, "entry %d", i)
		}
	}
	return nil
}

// ReadPointerList reads a "pointer list": a count, then that many
// absolute-offset pointers, then each element independently
// deserialized at its recorded offset. A post-deserialize alignment
// hook runs per element with isLast = (i == count-1).
func ReadPointerList[T any, PT elemPtr[T]](r *Reader, d *Data, purpose string) ([]T, error) {
	count, err := r.ReadCount(purpose)
	if err != nil {
		return nil, err
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i], err = r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "%s offset table entry %d", purpose, i)
		}
	}
	out := make([]T, count)
	for i, off := range offsets {
		r.SeekTo(off)
		if err := PT(&out[i]).Deserialize(r, d); err != nil {
			return nil, wrapf(err, "%s entry %d at offset %d", purpose, i, off)
		}
		if padder, ok := any(PT(&out[i])).(PostPadder); ok {
			if err := padder.PostPad(r, i == len(out)-1); err != nil {
				return nil, wrapf(err, "%s entry %d post-pad", purpose, i)
			}
		}
	}
	return out, nil
}

// WritePointerList serializes list as count + offset table + each
// element, resolving the offset table entries as each element is
// actually emitted (the table is pre-reserved with placeholders, then
// backpatched in place, mirroring the builder's pointer-placeholder
// discipline but specialized to a contiguous table rather than
// scattered inter-element references).
func WritePointerList[T any, PT elemPtr[T]](b *Builder, d *Data, list []T) error {
	b.WriteCount(uint32(len(list)))
	tablePos := b.Pos()
	for range list {
		b.WriteU32(deadPlaceholder)
	}
	for i := range list {
		start := b.Pos()
		b.endianPutU32(tablePos+uint32(i)*4, start)
		if err := PT(&list[i]).Serialize(b, d); err != nil {
			return wrapf(err, "entry %d", i)
		}
		if padder, ok := any(PT(&list[i])).(postPadWriter); ok {
			if err := padder.PostPadWrite(b, i == len(list)-1); err != nil {
				return wrapf(err, "entry %d post-pad", i)
			}
		}
	}
	return nil
}

// ReadStringRefList reads a count followed by that many pooled-string
// offset references.
func ReadStringRefList(r *Reader, pool *StringPool, purpose string) ([]StringRef, error) {
	count, err := r.ReadCount(purpose)
	if err != nil {
		return nil, err
	}
	out := make([]StringRef, count)
	for i := range out {
		out[i], err = r.ReadPooledString(pool)
		if err != nil {
			return nil, wrapf(err, "%s entry %d", purpose, i)
		}
	}
	return out, nil
}

// WriteStringRefList writes a count followed by each string reference
// as a backpatched pool placeholder.
func WriteStringRefList(b *Builder, list []StringRef) {
	b.WriteCount(uint32(len(list)))
	for _, ref := range list {
		b.WritePooledString(ref)
	}
}

// ReadResourceIDList reads a count followed by that many raw resource
// indices (as opposed to StringRefList's offset-indirected strings,
// catalog references are plain indices on disk).
func ReadResourceIDList[K Kind](r *Reader, purpose string) ([]Ref[K], error) {
	count, err := r.ReadCount(purpose)
	if err != nil {
		return nil, err
	}
	out := make([]Ref[K], count)
	for i := range out {
		v, err := r.ReadI32()
		if err != nil {
			return nil, wrapf(err, "%s entry %d", purpose, i)
		}
		out[i] = Ref[K]{Index: v}
	}
	return out, nil
}

// WriteResourceIDList writes a count followed by each reference's raw
// index.
func WriteResourceIDList[K Kind](b *Builder, list []Ref[K]) {
	b.WriteCount(uint32(len(list)))
	for _, ref := range list {
		b.WriteI32(ref.Index)
	}
}
