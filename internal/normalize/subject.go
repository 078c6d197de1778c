package normalize

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"

	"github.com/stridelab/stridex/internal/model"
)

// Raw payload section names as they appear in sensor exports.
const (
	sectionIMU    = "imu_sensor"
	sectionPad    = "gait_pad"
	sectionInsole = "smart_insole"
)

// Bucket is the merged raw material for one subject, accumulated from
// one or more payload files before normalization.
type Bucket struct {
	Meta   *model.RawObject
	Labels []*model.RawObject
	Data   *model.RawObject
	Files  []string
}

var dayKeyPattern = regexp.MustCompile(`^day_(\d+)`)

// DayNumber extracts the numeric suffix from a day_N key for sort
// order. Keys without a numeric suffix sort as 0.
func DayNumber(key string) int {
	m := dayKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Subject normalizes a merged raw bucket into the canonical subject
// record. All metric keys are alias-resolved and every value passes
// through CoerceLR; downstream code never sees raw shapes.
func Subject(id string, b Bucket) model.Subject {
	subject := model.Subject{
		ID:    id,
		Meta:  b.Meta,
		Files: append([]string(nil), b.Files...),
	}
	if subject.Meta == nil {
		subject.Meta = model.NewRawObject()
	}

	for _, raw := range b.Labels {
		subject.Labels = append(subject.Labels, labelRecord(raw))
	}

	if values := sectionValues(b.Data, sectionIMU); values != nil {
		subject.IMU = coerceSection(values)
		subject.Sensors = append(subject.Sensors, "imu")
	}
	if values := sectionValues(b.Data, sectionPad); values != nil {
		subject.GaitPad = coerceSection(values)
		subject.Sensors = append(subject.Sensors, "gait_pad")
	}
	if values := sectionValues(b.Data, sectionInsole); values != nil {
		subject.Insole = coerceDays(values)
		subject.Sensors = append(subject.Sensors, "insole")
	}
	return subject
}

func sectionValues(data *model.RawObject, section string) *model.RawObject {
	if data == nil {
		return nil
	}
	node, ok := data.Get(section)
	if !ok {
		return nil
	}
	obj, ok := node.(*model.RawObject)
	if !ok {
		return nil
	}
	values, ok := obj.Get("values")
	if !ok {
		return nil
	}
	valuesObj, ok := values.(*model.RawObject)
	if !ok {
		return nil
	}
	return valuesObj
}

func coerceSection(values *model.RawObject) map[string]model.LRPair {
	out := make(map[string]model.LRPair, values.Len())
	for _, key := range values.Keys() {
		v, _ := values.Get(key)
		out[ResolveAlias(key)] = CoerceLR(v)
	}
	return out
}

func coerceDays(values *model.RawObject) []model.DayRecord {
	keys := values.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		return DayNumber(keys[i]) < DayNumber(keys[j])
	})
	days := make([]model.DayRecord, 0, len(keys))
	for _, dayKey := range keys {
		node, _ := values.Get(dayKey)
		record := model.DayRecord{Key: dayKey, Values: map[string]model.LRPair{}}
		if obj, ok := node.(*model.RawObject); ok {
			record.Values = coerceSection(obj)
		}
		days = append(days, record)
	}
	return days
}

// labelRecord flattens one raw label document. Annotations may nest the
// class/side/region fields under an "annotation" object while the
// diagnosis text stays at the root.
func labelRecord(raw *model.RawObject) model.LabelRecord {
	fields := raw
	if ann, ok := raw.Get("annotation"); ok {
		if annObj, ok := ann.(*model.RawObject); ok {
			fields = annObj
		}
	}
	get := func(obj *model.RawObject, key string) *string {
		v, ok := obj.Get(key)
		if !ok {
			return nil
		}
		return Literal(v)
	}
	return model.LabelRecord{
		Class:     get(fields, "class"),
		Side:      get(fields, "side"),
		Region:    get(fields, "region"),
		Diagnosis: get(raw, "diagnosis_text"),
	}
}

// Literal renders a raw scalar as its literal string representation.
// Nil input stays nil so callers can distinguish absence.
func Literal(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	case float64:
		s = strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		s = strconv.Itoa(t)
	default:
		return nil
	}
	return &s
}
