package view

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/stridelab/stridex/internal/model"
)

// List previews in meta tables are capped to keep rows readable.
const listPreviewLimit = 8

// flattenMeta walks the nested meta mapping depth-first in source
// insertion order, emitting one pair per leaf. Display keys use only
// the last path segment.
func flattenMeta(meta *model.RawObject) []KV {
	if meta == nil {
		return nil
	}
	var pairs []KV
	var walk func(obj *model.RawObject)
	walk = func(obj *model.RawObject) {
		for _, key := range obj.Keys() {
			v, _ := obj.Get(key)
			switch t := v.(type) {
			case *model.RawObject:
				walk(t)
			case []any:
				pairs = append(pairs, KV{Key: key, Value: listPreview(t)})
			default:
				pairs = append(pairs, KV{Key: key, Value: stringify(t)})
			}
		}
	}
	walk(meta)
	return pairs
}

func listPreview(list []any) string {
	preview := list
	if len(preview) > listPreviewLimit {
		preview = preview[:listPreviewLimit]
	}
	parts := make([]string, len(preview))
	for i, v := range preview {
		parts[i] = stringify(v)
	}
	s := strings.Join(parts, ", ")
	if len(list) > listPreviewLimit {
		s += fmt.Sprintf(", …(+%d)", len(list)-listPreviewLimit)
	}
	return "[" + s + "]"
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return Unavailable
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case *model.RawObject:
		return "{...}"
	case []any:
		return listPreview(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// labelPairs flattens the display label record into ordered pairs. A
// missing record (or missing fields) renders as unavailable tokens.
func labelPairs(label *model.LabelRecord) []KV {
	var class, side, region, diagnosis *string
	if label != nil {
		class, side, region, diagnosis = label.Class, label.Side, label.Region, label.Diagnosis
	}
	return []KV{
		{Key: "class", Value: classDisplay(class)},
		{Key: "side", Value: orUnavailable(side)},
		{Key: "region", Value: orUnavailable(region)},
		{Key: "diagnosis_text", Value: orUnavailable(diagnosis)},
	}
}

// classDisplay maps the clinical class code to its display text. Codes
// other than 0 and 1 pass through as their literal representation.
func classDisplay(class *string) string {
	if class == nil {
		return Unavailable
	}
	if n, err := strconv.ParseFloat(*class, 64); err == nil {
		switch n {
		case 0:
			return "normal"
		case 1:
			return "pathology present"
		}
	}
	return *class
}

func orUnavailable(s *string) string {
	if s == nil {
		return Unavailable
	}
	return *s
}
