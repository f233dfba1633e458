package core

import "strconv"

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
	// ParamTypeString denotes free-form string parameters (profile names,
	// noise source selectors).
	ParamTypeString ParamType = "string"
)

// Parameter describes a single tunable value exposed by an algorithm.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterSnapshot captures the tunables an algorithm exposes, used by the
// sweep tool and the viewer to describe the active preset.
type ParameterSnapshot struct {
	Name   string
	Params []Parameter
}

// The helpers below back every config's FromMap: missing keys keep the default
// and unparsable values are ignored, which is the preset tolerance contract.

// ParseInt overwrites *dst when cfg[key] holds a valid integer ≥ min.
func ParseInt(cfg map[string]string, key string, min int, dst *int) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= min {
			*dst = parsed
		}
	}
}

// ParseInt64 overwrites *dst when cfg[key] holds a valid int64.
func ParseInt64(cfg map[string]string, key string, dst *int64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = parsed
		}
	}
}

// ParseFloat overwrites *dst when cfg[key] holds a valid float ≥ min.
func ParseFloat(cfg map[string]string, key string, min float64, dst *float64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= min {
			*dst = parsed
		}
	}
}

// ParseSignedFloat overwrites *dst when cfg[key] holds any valid float.
func ParseSignedFloat(cfg map[string]string, key string, dst *float64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

// ParseBool overwrites *dst when cfg[key] holds a valid boolean.
func ParseBool(cfg map[string]string, key string, dst *bool) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

// ParseString overwrites *dst when cfg[key] is present and non-empty.
func ParseString(cfg map[string]string, key string, dst *string) {
	if v, ok := cfg[key]; ok && v != "" {
		*dst = v
	}
}

// IntParam builds a Parameter for snapshot listings.
func IntParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

// Int64Param builds a Parameter for snapshot listings.
func Int64Param(key, label string, value int64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

// FloatParam builds a Parameter for snapshot listings.
func FloatParam(key, label string, value float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(value, 'g', -1, 64)}
}

// BoolParam builds a Parameter for snapshot listings.
func BoolParam(key, label string, value bool) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeBool, Value: strconv.FormatBool(value)}
}

// StringParam builds a Parameter for snapshot listings.
func StringParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: value}
}
