// Package model defines shared data structures.
package model

// LRPair is a left/right paired measurement. Either side may be absent;
// an absent side is nil, never NaN or zero.
type LRPair struct {
	L *float64 `json:"L"`
	R *float64 `json:"R"`
}

// DayRecord is one time-segmented bucket of insole metrics, identified
// by its day_N key from the raw payload.
type DayRecord struct {
	Key    string            `json:"key"`
	Values map[string]LRPair `json:"values"`
}

// LabelRecord is one clinical annotation attached to a subject. Fields
// are nil when the raw payload omitted them. Class carries the literal
// representation of the raw class value.
type LabelRecord struct {
	Class     *string `json:"class"`
	Side      *string `json:"side"`
	Region    *string `json:"region"`
	Diagnosis *string `json:"diagnosis_text"`
}

// Subject holds the normalized measurements of one subject across all
// sensors. Values are immutable after normalization.
type Subject struct {
	ID      string            `json:"id"`
	Sensors []string          `json:"sensors"`
	IMU     map[string]LRPair `json:"imu"`
	GaitPad map[string]LRPair `json:"gait_pad"`
	Insole  []DayRecord       `json:"insole"`
	Meta    *RawObject        `json:"meta"`
	Labels  []LabelRecord     `json:"labels"`
	Files   []string          `json:"files,omitempty"`
}

// SubjectSummary is the reduced form used for subject lists.
type SubjectSummary struct {
	ID      string   `json:"id"`
	Sensors []string `json:"sensors"`
	Days    int      `json:"days"`
}

// LastLabel returns the most recently added label record, or nil when
// the subject carries none. Display uses only this record.
func (s *Subject) LastLabel() *LabelRecord {
	if len(s.Labels) == 0 {
		return nil
	}
	return &s.Labels[len(s.Labels)-1]
}

// Summary reduces the subject to its list representation.
func (s *Subject) Summary() SubjectSummary {
	return SubjectSummary{
		ID:      s.ID,
		Sensors: append([]string(nil), s.Sensors...),
		Days:    len(s.Insole),
	}
}

// Float returns a pointer to v. Handy for building LRPair literals.
func Float(v float64) *float64 {
	return &v
}
