// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package placeholder

import (
	"fmt"
	"regexp"
)

const (
	// Open starts a placeholder token.
	Open = "<<"
	// Close ends a placeholder token.
	Close = ">>"
)

// Token returns the literal token for key, e.g. "<<Client Name>>".
func Token(key string) string {
	return Open + key + Close
}

var tokenPattern = regexp.MustCompile(`<<([^<>]+)>>`)

// FindKeys returns the distinct placeholder keys in text, in order of first appearance.
func FindKeys(text string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value string
}

// Value builds an Entry, formatting v with fmt.Sprint.
func Value(key string, v any) Entry {
	if s, ok := v.(string); ok {
		return Entry{Key: key, Value: s}
	}
	return Entry{Key: key, Value: fmt.Sprint(v)}
}

// Map is an ordered, read-only mapping from placeholder key to display value.
// Keys are case-sensitive and carry no delimiters.
type Map struct {
	entries []Entry
	index   map[string]int
}

// NewMap builds a Map. A repeated key keeps its first position and takes
// the last value.
func NewMap(entries ...Entry) *Map {
	m := &Map{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := m.index[e.Key]; ok {
			m.entries[i].Value = e.Value
			continue
		}
		m.index[e.Key] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.entries)
}

// Get returns the value for key.
func (m *Map) Get(key string) (string, bool) {
	i, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.entries[i].Value, true
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in order.
func (m *Map) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}
