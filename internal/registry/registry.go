// Package registry holds the static metric catalog: display labels,
// units and gauge ranges per sensor domain. Pure lookup, no mutable
// state, safe for concurrent use.
package registry

// Sensor domain names used throughout the system.
const (
	DomainIMU    = "imu"
	DomainPad    = "gait_pad"
	DomainInsole = "insole"
)

// Metric describes one catalog entry: the canonical key, the localized
// display name, the unit, and the fixed [Min,Max] gauge range.
type Metric struct {
	Key       string
	LocalName string
	Unit      string
	Min       float64
	Max       float64
}

// DisplayLabel is the lookup result for one metric.
type DisplayLabel struct {
	LocalName     string
	CanonicalName string
	Unit          string
}

// The per-domain catalogs mirror the clinical dashboard tables: order
// is display order.
var catalog = map[string][]Metric{
	DomainIMU: {
		{Key: "gait_cycle", LocalName: "보행 주기", Unit: "s", Min: 0.5, Max: 2.0},
		{Key: "knee_flexion_max", LocalName: "무릎 굴곡 최대각", Unit: "deg", Min: 0, Max: 140},
		{Key: "knee_extension_max", LocalName: "무릎 신전 최대각", Unit: "deg", Min: -10, Max: 20},
		{Key: "foot_clearance", LocalName: "발 들림 높이", Unit: "cm", Min: 0, Max: 30},
	},
	DomainPad: {
		{Key: "step_length", LocalName: "보폭", Unit: "cm", Min: 40, Max: 120},
		{Key: "velocity", LocalName: "보행 속도", Unit: "cm/s", Min: 80, Max: 160},
		{Key: "stance_phase_rate", LocalName: "입각기 비율", Unit: "%", Min: 30, Max: 70},
		{Key: "swing_phase_rate", LocalName: "유각기 비율", Unit: "%", Min: 30, Max: 70},
		{Key: "double_support_time", LocalName: "양측 지지시간", Unit: "%", Min: 10, Max: 30},
	},
	DomainInsole: {
		{Key: "gait_speed", LocalName: "보행 속도", Unit: "km/h", Min: 0, Max: 8},
		{Key: "balance", LocalName: "좌우 균형", Unit: "%", Min: 0, Max: 100},
		{Key: "foot_pressure_rear", LocalName: "후방 압력", Unit: "%", Min: 0, Max: 100},
		{Key: "foot_pressure_mid", LocalName: "중앙 압력", Unit: "%", Min: 0, Max: 100},
		{Key: "foot_pressure_fore", LocalName: "전방 압력", Unit: "%", Min: 0, Max: 100},
		{Key: "gait_distance", LocalName: "보행 거리", Unit: "m", Min: 0, Max: 500},
		{Key: "stride_length", LocalName: "보폭", Unit: "cm", Min: 0, Max: 200},
		{Key: "foot_angle", LocalName: "발각도", Unit: "idx", Min: 0, Max: 2},
	},
}

// Metrics returns the catalog entries of a domain in display order.
// Unknown domains yield nil.
func Metrics(domain string) []Metric {
	return catalog[domain]
}

// Label looks up the display label of a metric. Lookup never fails:
// unknown domains or keys fall back to the key itself with an empty
// unit.
func Label(domain, key string) DisplayLabel {
	for _, m := range catalog[domain] {
		if m.Key == key {
			return DisplayLabel{LocalName: m.LocalName, CanonicalName: m.Key, Unit: m.Unit}
		}
	}
	return DisplayLabel{LocalName: key, CanonicalName: key}
}

// Range returns the configured [min,max] gauge range of a metric. The
// second result is false for unknown metrics.
func Range(domain, key string) (min, max float64, ok bool) {
	for _, m := range catalog[domain] {
		if m.Key == key {
			return m.Min, m.Max, true
		}
	}
	return 0, 0, false
}
