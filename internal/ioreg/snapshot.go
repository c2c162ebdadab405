package ioreg

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"howett.net/plist"
)

// ErrNoSnapshot is returned when exporting an absent snapshot.
var ErrNoSnapshot = errors.New("no registry snapshot to export")

// maxDataPreview caps how many bytes of a data value are rendered.
const maxDataPreview = 64

// Snapshot is one registry subtree as returned by the device.
type Snapshot struct {
	Root map[string]interface{}
}

// New wraps tree. It returns nil for a nil tree so that "absent" stays a
// nil *Snapshot throughout.
func New(tree map[string]interface{}) *Snapshot {
	if tree == nil {
		return nil
	}
	return &Snapshot{Root: tree}
}

// Len returns the number of top-level keys.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Root)
}

// Name returns the root entry name, if the device reported one.
func (s *Snapshot) Name() string {
	if s == nil {
		return ""
	}
	name, _ := s.Root["name"].(string)
	return name
}

// Render formats the snapshot as indented text with sorted keys.
func (s *Snapshot) Render() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	writeDict(&b, s.Root, 0)
	return b.String()
}

// Marshal encodes the snapshot as an indented XML property list.
func (s *Snapshot) Marshal() ([]byte, error) {
	if s == nil {
		return nil, ErrNoSnapshot
	}
	data, err := plist.MarshalIndent(s.Root, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Export writes s to path as an XML property list. A nil snapshot returns
// ErrNoSnapshot and leaves the file system untouched.
func Export(path string, s *Snapshot) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeDict(b *strings.Builder, dict map[string]interface{}, depth int) {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat("  ", depth)
	for _, k := range keys {
		writeEntry(b, indent, k+": ", dict[k], depth)
	}
}

func writeEntry(b *strings.Builder, indent, prefix string, v interface{}, depth int) {
	switch val := v.(type) {
	case map[string]interface{}:
		if len(val) == 0 {
			b.WriteString(indent + prefix + "{}\n")
			return
		}
		b.WriteString(indent + prefix + "{\n")
		writeDict(b, val, depth+1)
		b.WriteString(indent + "}\n")
	case []interface{}:
		if len(val) == 0 {
			b.WriteString(indent + prefix + "[]\n")
			return
		}
		b.WriteString(indent + prefix + "[\n")
		inner := strings.Repeat("  ", depth+1)
		for _, item := range val {
			writeEntry(b, inner, "", item, depth+1)
		}
		b.WriteString(indent + "]\n")
	default:
		b.WriteString(indent + prefix + formatScalar(val) + "\n")
	}
}

func formatScalar(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case []byte:
		if len(val) > maxDataPreview {
			return fmt.Sprintf("<%s...> (%d bytes)", hex.EncodeToString(val[:maxDataPreview]), len(val))
		}
		return "<" + hex.EncodeToString(val) + ">"
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}
