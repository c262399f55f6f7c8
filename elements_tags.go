// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// TagInfo is TAGS, grounded on original_source's
// gamemaker/elements/tags.rs: a flat string-tag table plus a
// per-asset-id association list, stored on disk as a pointer list of
// (id, tags) pairs and reshaped here into a map keyed by asset id.
type TagInfo struct {
	Tags      []StringRef
	AssetTags map[int32][]StringRef
	Exists    bool
}

type assetTagEntry struct {
	ID   int32
	Tags []StringRef
}

func (e *assetTagEntry) Deserialize(r *Reader, d *Data) error {
	var err error
	if e.ID, err = r.ReadI32(); err != nil {
		return err
	}
	e.Tags, err = ReadStringRefList(r, d.Strings, "TAGS asset tags")
	return err
}

func (e *assetTagEntry) Serialize(b *Builder, d *Data) error {
	b.WriteI32(e.ID)
	WriteStringRefList(b, e.Tags)
	return nil
}

func deserializeTagInfo(r *Reader, d *Data) (TagInfo, error) {
	var t TagInfo
	if err := r.Align(4); err != nil {
		return t, err
	}
	if err := r.ReadChunkVersion("TAGS version"); err != nil {
		return t, err
	}
	var err error
	t.Tags, err = ReadStringRefList(r, d.Strings, "TAGS tags")
	if err != nil {
		return t, err
	}
	entries, err := ReadPointerList[assetTagEntry](r, d, "TAGS asset tag entries")
	if err != nil {
		return t, err
	}
	t.AssetTags = make(map[int32][]StringRef, len(entries))
	for _, e := range entries {
		if _, dup := t.AssetTags[e.ID]; dup {
			return t, wrapf(ErrInvalidConstant, "duplicate asset id %d in TAGS", e.ID)
		}
		t.AssetTags[e.ID] = e.Tags
	}
	t.Exists = true
	return t, nil
}

func (t *TagInfo) serialize(b *Builder, d *Data) error {
	if !t.Exists {
		return nil
	}
	b.Align(4)
	b.WriteI32(1)
	WriteStringRefList(b, t.Tags)
	entries := make([]assetTagEntry, 0, len(t.AssetTags))
	for id, tags := range t.AssetTags {
		entries = append(entries, assetTagEntry{ID: id, Tags: tags})
	}
	return WritePointerList[assetTagEntry](b, d, entries)
}
