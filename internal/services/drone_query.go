package services

import (
	"strconv"
	"strings"

	"drone-delivery-planner/internal/domain"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindNumber
)

// Value is a drone attribute read through the accessor table.
type Value struct {
	kind valueKind
	str  string
	b    bool
	num  float64
}

func stringValue(s string) Value  { return Value{kind: kindString, str: s} }
func boolValue(b bool) Value      { return Value{kind: kindBool, b: b} }
func numberValue(n float64) Value { return Value{kind: kindNumber, num: n} }

// equals compares v with a raw query operand. A malformed number never matches.
func (v Value) equals(raw string) bool {
	switch v.kind {
	case kindString:
		return v.str == raw
	case kindBool:
		return strings.EqualFold(strings.TrimSpace(raw), "true") == v.b
	case kindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		return err == nil && v.num == n
	}
	return false
}

// compare returns the sign of v - raw; ok is false for non-numbers.
func (v Value) compare(raw string) (int, bool) {
	if v.kind != kindNumber {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	switch {
	case v.num < n:
		return -1, true
	case v.num > n:
		return 1, true
	}
	return 0, true
}

var droneAttributes = map[string]func(domain.Drone) Value{
	"id":          func(d domain.Drone) Value { return stringValue(d.ID) },
	"name":        func(d domain.Drone) Value { return stringValue(d.Name) },
	"cooling":     func(d domain.Drone) Value { return boolValue(d.Capability.Cooling) },
	"heating":     func(d domain.Drone) Value { return boolValue(d.Capability.Heating) },
	"capacity":    func(d domain.Drone) Value { return numberValue(d.Capability.Capacity) },
	"maxMoves":    func(d domain.Drone) Value { return numberValue(float64(d.Capability.MaxMoves)) },
	"costPerMove": func(d domain.Drone) Value { return numberValue(d.Capability.CostPerMove) },
	"costInitial": func(d domain.Drone) Value { return numberValue(d.Capability.CostInitial) },
	"costFinal":   func(d domain.Drone) Value { return numberValue(d.Capability.CostFinal) },
}

// QueryCondition is one attribute comparison, e.g. capacity > 4.
type QueryCondition struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}

type matcher func(Value, string) bool

var operators = map[string]matcher{
	"=":  func(v Value, raw string) bool { return v.equals(raw) },
	"!=": func(v Value, raw string) bool { return !v.equals(raw) },
	"<": func(v Value, raw string) bool {
		c, ok := v.compare(raw)
		return ok && c < 0
	},
	">": func(v Value, raw string) bool {
		c, ok := v.compare(raw)
		return ok && c > 0
	},
}

// QueryAsPath returns the ids of drones whose attribute equals value, in
// catalogue order. An unknown attribute matches nothing.
func QueryAsPath(attribute, value string, drones []domain.Drone) []string {
	return Query([]QueryCondition{{Attribute: attribute, Operator: "=", Value: value}}, drones)
}

// Query returns the ids of drones matching any condition. Conditions are
// evaluated in order and a drone is listed under the first one it matches,
// so ids are grouped by condition and never repeated. Unknown attributes and
// operators match nothing.
func Query(conditions []QueryCondition, drones []domain.Drone) []string {
	ids := make([]string, 0, len(drones))
	matched := make([]bool, len(drones))

	for _, c := range conditions {
		get, ok := droneAttributes[c.Attribute]
		if !ok {
			continue
		}
		match, ok := operators[strings.TrimSpace(c.Operator)]
		if !ok {
			continue
		}

		for i, d := range drones {
			if matched[i] || !match(get(d), c.Value) {
				continue
			}
			matched[i] = true
			ids = append(ids, d.ID)
		}
	}
	return ids
}
