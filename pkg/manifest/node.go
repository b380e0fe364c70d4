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

package manifest

import "fmt"

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindDict Kind = iota
	KindArray
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindDict:
		return "dict"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one key/value pair of a dictionary node.
type Entry struct {
	Key   string
	Value *Node
}

// Node is a property-list value. Only the fields matching Kind are used.
type Node struct {
	Kind    Kind
	Entries []Entry
	Items   []*Node
	Str     string
	Bool    bool
}

// Dict returns an empty dictionary node.
func Dict() *Node { return &Node{Kind: KindDict} }

// Array returns an array node holding items.
func Array(items ...*Node) *Node { return &Node{Kind: KindArray, Items: items} }

// String returns a string node.
func String(s string) *Node { return &Node{Kind: KindString, Str: s} }

// Bool returns a boolean node.
func Bool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// Strings returns an array node of string nodes.
func Strings(values ...string) *Node {
	arr := Array()
	for _, v := range values {
		arr.Append(String(v))
	}
	return arr
}

// Set stores value under key. A new key is appended; an existing key is
// replaced in place so its position is kept. Set panics on non-dictionaries.
func (n *Node) Set(key string, value *Node) *Node {
	n.mustBe(KindDict)
	for i := range n.Entries {
		if n.Entries[i].Key == key {
			n.Entries[i].Value = value
			return n
		}
	}
	n.Entries = append(n.Entries, Entry{Key: key, Value: value})
	return n
}

// SetString is shorthand for Set(key, String(s)).
func (n *Node) SetString(key, s string) *Node {
	return n.Set(key, String(s))
}

// Get returns the value stored under key, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindDict {
		return nil
	}
	for _, e := range n.Entries {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Has reports whether the dictionary contains key.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Keys returns the dictionary keys in order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindDict {
		return nil
	}
	keys := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Append adds an element to an array node. Append panics on non-arrays.
func (n *Node) Append(item *Node) *Node {
	n.mustBe(KindArray)
	n.Items = append(n.Items, item)
	return n
}

// Len returns the number of entries or items; scalars have length 0.
func (n *Node) Len() int {
	switch n.Kind {
	case KindDict:
		return len(n.Entries)
	case KindArray:
		return len(n.Items)
	default:
		return 0
	}
}

// StringValues returns the string items of an array node, skipping others.
func (n *Node) StringValues() []string {
	if n == nil || n.Kind != KindArray {
		return nil
	}
	out := make([]string, 0, len(n.Items))
	for _, it := range n.Items {
		if it.Kind == KindString {
			out = append(out, it.Str)
		}
	}
	return out
}

// Equal reports whether two trees have identical structure, order and values.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case KindDict:
		if len(n.Entries) != len(other.Entries) {
			return false
		}
		for i := range n.Entries {
			if n.Entries[i].Key != other.Entries[i].Key || !n.Entries[i].Value.Equal(other.Entries[i].Value) {
				return false
			}
		}
		return true
	case KindArray:
		if len(n.Items) != len(other.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindString:
		return n.Str == other.Str
	case KindBool:
		return n.Bool == other.Bool
	default:
		return false
	}
}

func (n *Node) mustBe(k Kind) {
	if n.Kind != k {
		panic(fmt.Sprintf("manifest: operation on %s node requires %s", n.Kind, k))
	}
}
