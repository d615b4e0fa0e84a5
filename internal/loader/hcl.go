package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/missiongrid/internal/mission"
)

// hclRoot mirrors the top-level attributes and blocks of an HCL mission file.
type hclRoot struct {
	Version     string     `hcl:"version"`
	Name        string     `hcl:"name"`
	Description *string    `hcl:"description"`
	Config      *hclConfig `hcl:"config,block"`
	Steps       []*hclStep `hcl:"step,block"`
}

type hclConfig struct {
	MaxParallelSteps *int  `hcl:"max_parallel_steps"`
	TimeoutSeconds   *int  `hcl:"timeout_seconds"`
	FailFast         *bool `hcl:"fail_fast"`
}

type hclStep struct {
	ID              string         `hcl:"id,label"`
	Name            string         `hcl:"name"`
	Capability      string         `hcl:"capability"`
	DependsOn       []string       `hcl:"depends_on,optional"`
	TimeoutSeconds  *int           `hcl:"timeout_seconds"`
	ContinueOnError *bool          `hcl:"continue_on_error"`
	Parameters      hcl.Expression `hcl:"parameters,optional"`
}

// decodeHCL parses an HCL mission file and translates it into the
// format-agnostic mission model. Step parameters are written as an HCL
// object expression and converted to plain Go values.
func decodeHCL(path string, content []byte) (*mission.Mission, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL mission %s: %w", path, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL mission %s: %w", path, diags)
	}

	m := &mission.Mission{
		Version: root.Version,
		Name:    root.Name,
	}
	if root.Description != nil {
		m.Description = *root.Description
	}
	if root.Config != nil {
		m.Config = &mission.Config{FailFast: root.Config.FailFast}
		if root.Config.MaxParallelSteps != nil {
			m.Config.MaxParallelSteps = *root.Config.MaxParallelSteps
		}
		if root.Config.TimeoutSeconds != nil {
			m.Config.TimeoutSeconds = *root.Config.TimeoutSeconds
		}
	}

	for _, hs := range root.Steps {
		step := &mission.Step{
			ID:         hs.ID,
			Name:       hs.Name,
			Capability: hs.Capability,
			DependsOn:  hs.DependsOn,
		}
		if hs.TimeoutSeconds != nil {
			step.TimeoutSeconds = *hs.TimeoutSeconds
		}
		if hs.ContinueOnError != nil {
			step.ContinueOnError = *hs.ContinueOnError
		}

		params, err := decodeParameters(hs)
		if err != nil {
			return nil, fmt.Errorf("step %s in %s: %w", hs.ID, path, err)
		}
		step.Parameters = params

		m.Steps = append(m.Steps, step)
	}

	return m, nil
}

// decodeParameters evaluates a step's parameters expression into a plain
// parameter map.
func decodeParameters(hs *hclStep) (map[string]any, error) {
	if hs.Parameters == nil {
		return nil, nil
	}

	val, diags := hs.Parameters.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating parameters: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("parameters must be an object, got %s", val.Type().FriendlyName())
	}

	converted, err := ctyValueToInterface(val)
	if err != nil {
		return nil, fmt.Errorf("converting parameters: %w", err)
	}
	params, _ := converted.(map[string]any)
	return params, nil
}

// ctyValueToInterface converts a cty.Value to a Go interface{}.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}
