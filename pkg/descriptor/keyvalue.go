// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package descriptor

// Pair is the read-only view shared by extension, MIME type and OS type
// entries. Renderers consume all three lists through it.
type Pair interface {
	Key() string
	Value() string
	IsEnabled() bool
}

// KeyValue is a named value with an enable flag. The same type backs the
// extension, MIME type and OS type lists of a DocumentType; which list
// holds it determines its meaning.
type KeyValue struct {
	key     string
	value   string
	enabled bool
}

// NewKeyValue returns an enabled pair.
func NewKeyValue(key, value string) KeyValue {
	return KeyValue{key: key, value: value, enabled: true}
}

// NewKeyValueWithEnabled returns a pair with an explicit enable flag.
func NewKeyValueWithEnabled(key, value string, enabled bool) KeyValue {
	return KeyValue{key: key, value: value, enabled: enabled}
}

// Key returns the pair's key.
func (kv KeyValue) Key() string { return kv.key }

// Value returns the pair's value.
func (kv KeyValue) Value() string { return kv.value }

// IsEnabled reports whether the pair is rendered into the manifest.
func (kv KeyValue) IsEnabled() bool { return kv.enabled }

func pairs(kvs []KeyValue) []Pair {
	out := make([]Pair, len(kvs))
	for i, kv := range kvs {
		out[i] = kv
	}
	return out
}
