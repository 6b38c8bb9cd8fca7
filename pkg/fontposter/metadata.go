package fontposter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/SeakMengs/FontPoster/internal/util"
)

// FontRecord is one entry of the font index read by the documentation site.
// Fields other than name and path belong to the site and are carried through
// untouched, in the order they were read.
type FontRecord struct {
	Name  string
	Path  string
	Extra []ExtraField

	// key order as read, name and path included
	keys []string
}

type ExtraField struct {
	Key   string
	Value json.RawMessage
}

// Get returns the raw value of the extra field key.
func (r *FontRecord) Get(key string) (json.RawMessage, bool) {
	for _, f := range r.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of the extra field key, or appends it.
func (r *FontRecord) Set(key string, value json.RawMessage) {
	for i, f := range r.Extra {
		if f.Key == key {
			r.Extra[i].Value = value
			return
		}
	}
	r.Extra = append(r.Extra, ExtraField{Key: key, Value: value})
}

func (r *FontRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("font record must be an object, got %v", tok)
	}

	*r = FontRecord{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}

		// a repeated key keeps its first position and its last value
		if !seen[key] {
			seen[key] = true
			r.keys = append(r.keys, key)
		}

		switch key {
		case "name":
			if err := json.Unmarshal(raw, &r.Name); err != nil {
				return fmt.Errorf("field name: %w", err)
			}
		case "path":
			if err := json.Unmarshal(raw, &r.Path); err != nil {
				return fmt.Errorf("field path: %w", err)
			}
		default:
			var compact bytes.Buffer
			if err := json.Compact(&compact, raw); err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
			r.Set(key, compact.Bytes())
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Keys are written in the order they were read. name and path come first on
// records that were never read, new extra fields go last.
func (r FontRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	written := make(map[string]bool, len(r.keys)+2)
	write := func(key string) error {
		if written[key] {
			return nil
		}

		var val []byte
		switch key {
		case "name", "path":
			v := r.Name
			if key == "path" {
				v = r.Path
			}
			b, err := marshalNoEscape(v)
			if err != nil {
				return err
			}
			val = b
		default:
			v, ok := r.Get(key)
			if !ok {
				return nil
			}
			val = v
		}

		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		written[key] = true
		return nil
	}

	order := make([]string, 0, len(r.keys)+len(r.Extra)+2)
	order = append(order, r.keys...)
	order = append(order, "name", "path")
	for _, f := range r.Extra {
		order = append(order, f.Key)
	}
	for _, k := range order {
		if err := write(k); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *FontRecord) clone() *FontRecord {
	c := &FontRecord{Name: r.Name, Path: r.Path}
	if r.Extra != nil {
		c.Extra = make([]ExtraField, len(r.Extra))
		copy(c.Extra, r.Extra)
	}
	if r.keys != nil {
		c.keys = make([]string, len(r.keys))
		copy(c.keys, r.keys)
	}
	return c
}

// FontRecords keeps the order of the index file. Names are unique.
type FontRecords []*FontRecord

// Returns the record with the given name and its index, or nil and -1.
func (rs FontRecords) Find(name string) (*FontRecord, int) {
	for i, r := range rs {
		if r.Name == name {
			return r, i
		}
	}
	return nil, -1
}

// Upsert returns a new collection where the record named name has its path
// replaced in place, or a new record is appended. rs is left untouched.
func (rs FontRecords) Upsert(name string, path string) FontRecords {
	out := make(FontRecords, len(rs), len(rs)+1)
	copy(out, rs)

	if existing, i := rs.Find(name); existing != nil {
		updated := existing.clone()
		updated.Path = path
		out[i] = updated
		return out
	}

	return append(out, &FontRecord{Name: name, Path: path})
}

// Rebuild the index from the fonts found on disk. Extra fields of previous
// records are reused by name, fonts no longer discovered are dropped and
// skipped names never make it in. A name discovered twice keeps its first
// position and the last path.
func RebuildFontRecords(previous FontRecords, discovered []FontRecord) FontRecords {
	out := make(FontRecords, 0, len(discovered))

	for _, d := range discovered {
		if IsSkipped(d.Name) {
			continue
		}

		if existing, i := out.Find(d.Name); existing != nil {
			out[i].Path = d.Path
			continue
		}

		record := &FontRecord{}
		if prev, _ := previous.Find(d.Name); prev != nil {
			record = prev.clone()
		}
		record.Name = d.Name
		record.Path = d.Path
		out = append(out, record)
	}

	return out
}

// Load the index. A missing file is an empty index.
func LoadFontRecords(path string) (FontRecords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FontRecords{}, nil
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var records FontRecords
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error unmarshalling %s: %w", path, err)
	}

	// A JSON null decodes into a nil slice, entries may be null too
	out := make(FontRecords, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}

	return out, nil
}

func MarshalFontRecords(records FontRecords) ([]byte, error) {
	if records == nil {
		records = FontRecords{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Overwrite the index file with records.
func SaveFontRecords(path string, records FontRecords) error {
	data, err := MarshalFontRecords(records)
	if err != nil {
		return fmt.Errorf("failed to marshal font records: %w", err)
	}

	if err := util.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
