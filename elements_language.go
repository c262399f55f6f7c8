// Copyright 2024 The gmdata Authors.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package gmdata

// LanguageInfo is LANG, grounded on original_source's
// gamemaker/elements/languages.rs. Unlike most chunks this one is not
// a plain list: it front-loads every entry id once, then each
// language repeats that same count of localized strings in the same
// order.
type LanguageInfo struct {
	Unknown1  uint32
	EntryIDs  []StringRef
	Languages []LanguageData
	Exists    bool
}

type LanguageData struct {
	Name, Region StringRef
	Entries      []StringRef
}

func deserializeLanguageInfo(r *Reader, d *Data) (LanguageInfo, error) {
	var l LanguageInfo
	var err error
	if l.Unknown1, err = r.ReadU32(); err != nil {
		return l, err
	}
	languageCount, err := r.ReadCount("LANG language count")
	if err != nil {
		return l, err
	}
	entryCount, err := r.ReadCount("LANG entry count")
	if err != nil {
		return l, err
	}
	l.EntryIDs = make([]StringRef, entryCount)
	for i := range l.EntryIDs {
		if l.EntryIDs[i], err = r.ReadPooledString(d.Strings); err != nil {
			return l, err
		}
	}
	l.Languages = make([]LanguageData, languageCount)
	for i := range l.Languages {
		lang := &l.Languages[i]
		if lang.Name, err = r.ReadPooledString(d.Strings); err != nil {
			return l, err
		}
		if lang.Region, err = r.ReadPooledString(d.Strings); err != nil {
			return l, err
		}
		lang.Entries = make([]StringRef, entryCount)
		for j := range lang.Entries {
			if lang.Entries[j], err = r.ReadPooledString(d.Strings); err != nil {
				return l, err
			}
		}
	}
	l.Exists = true
	return l, nil
}

func (l *LanguageInfo) serialize(b *Builder, d *Data) error {
	if !l.Exists {
		return nil
	}
	b.WriteU32(l.Unknown1)
	b.WriteCount(uint32(len(l.Languages)))
	b.WriteCount(uint32(len(l.EntryIDs)))
	for _, id := range l.EntryIDs {
		b.WritePooledString(id)
	}
	for _, lang := range l.Languages {
		b.WritePooledString(lang.Name)
		b.WritePooledString(lang.Region)
		for _, e := range lang.Entries {
			b.WritePooledString(e)
		}
	}
	return nil
}
