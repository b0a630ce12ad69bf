package prompts

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"
)

// SummaryNoChanges describes an edit that changed no tracked field.
const SummaryNoChanges = "Minor updates"

// Diff compares every field tagged with diff, including fields of embedded
// structs, and returns one FieldChange per differing field in declaration
// order. Fields tagged with the set option compare as unordered string sets.
// The result is never nil.
func Diff(old, updated *Record) []FieldChange {
	changes := []FieldChange{}
	diffStruct(reflect.ValueOf(old).Elem(), reflect.ValueOf(updated).Elem(), &changes)
	return changes
}

// DiffFields returns the names of the tracked fields in declaration order.
func DiffFields() []string {
	var names []string
	walkFields(reflect.TypeFor[Record](), func(name string, _ bool, _ []int) {
		names = append(names, name)
	})
	return names
}

// Summary renders changes as "Updated: name, temperature", or
// SummaryNoChanges when nothing differs.
func Summary(changes []FieldChange) string {
	if len(changes) == 0 {
		return SummaryNoChanges
	}

	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.Field
	}
	return "Updated: " + strings.Join(names, ", ")
}

func diffStruct(a, b reflect.Value, out *[]FieldChange) {
	walkFields(a.Type(), func(name string, set bool, index []int) {
		av := a.FieldByIndex(index)
		bv := b.FieldByIndex(index)

		var equal bool
		if set {
			equal = slices.Equal(sortedStrings(av), sortedStrings(bv))
		} else {
			equal = av.Equal(bv)
		}

		if !equal {
			*out = append(*out, FieldChange{
				Field:    name,
				OldValue: jsonValue(av.Interface()),
				NewValue: jsonValue(bv.Interface()),
			})
		}
	})
}

func walkFields(t reflect.Type, fn func(name string, set bool, index []int)) {
	for i := range t.NumField() {
		f := t.Field(i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			walkFields(f.Type, func(name string, set bool, index []int) {
				fn(name, set, append([]int{i}, index...))
			})
			continue
		}

		tag, ok := f.Tag.Lookup("diff")
		if !ok {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fn(name, opts == "set", []int{i})
	}
}

func sortedStrings(v reflect.Value) []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = v.Index(i).String()
	}
	slices.Sort(out)
	return out
}

func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
