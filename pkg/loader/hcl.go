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

package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	apperrors "github.com/NVIDIA/appbundler/pkg/errors"
)

// hclRootFile is decoded first, without an evaluation context, to collect
// variable blocks. The bundle block stays in Remain until var.* is known.
type hclRootFile struct {
	Variables []*hclVariable `hcl:"variable,block"`
	Remain    hcl.Body       `hcl:",remain"`
}

type hclVariable struct {
	Name    string         `hcl:"name,label"`
	Default hcl.Expression `hcl:"default,optional"`
}

type hclBundleFile struct {
	Bundles []*hclBundle `hcl:"bundle,block"`
}

type hclBundle struct {
	Name                  string             `hcl:"name,label"`
	DisplayName           string             `hcl:"display_name,optional"`
	Identifier            string             `hcl:"identifier,optional"`
	ShortVersion          string             `hcl:"short_version,optional"`
	Version               string             `hcl:"version,optional"`
	Signature             string             `hcl:"signature,optional"`
	Copyright             string             `hcl:"copyright,optional"`
	Category              string             `hcl:"category,optional"`
	MinimumSystemVersion  string             `hcl:"minimum_system_version,optional"`
	ExecutableName        string             `hcl:"executable_name,optional"`
	Executable            string             `hcl:"executable,optional"`
	Icon                  string             `hcl:"icon,optional"`
	MainClassName         string             `hcl:"main_class_name,optional"`
	HighResolutionCapable *bool              `hcl:"high_resolution_capable,optional"`
	ClassPath             []string           `hcl:"classpath,optional"`
	JVMOptions            []string           `hcl:"jvm_options,optional"`
	Arguments             []string           `hcl:"arguments,optional"`
	DocumentTypes         []*hclDocumentType `hcl:"document_type,block"`
}

type hclDocumentType struct {
	Name       string     `hcl:"name,label"`
	Icon       string     `hcl:"icon,optional"`
	Role       string     `hcl:"role,optional"`
	Extensions []*hclPair `hcl:"extension,block"`
	MimeTypes  []*hclPair `hcl:"mime_type,block"`
	OSTypes    []*hclPair `hcl:"os_type,block"`
}

type hclPair struct {
	Key     string  `hcl:"key,label"`
	Value   *string `hcl:"value,optional"`
	Enabled *bool   `hcl:"enabled,optional"`
}

func decodeHCL(data []byte, filename string, o *options) (*bundleSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, hclError(filename, "failed to parse", diags)
	}

	env := o.env()
	envCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": stringObject(env)},
	}

	var root hclRootFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, hclError(filename, "failed to decode", diags)
	}

	vars, err := resolveVariables(root.Variables, envCtx, o.variables)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidConfig,
			"failed to resolve variables", err, map[string]any{"path": filename})
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": stringObject(env),
			"var": stringObject(vars),
		},
	}

	var body hclBundleFile
	if diags := gohcl.DecodeBody(root.Remain, evalCtx, &body); diags.HasErrors() {
		return nil, hclError(filename, "failed to decode", diags)
	}

	if len(body.Bundles) != 1 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidConfig,
			fmt.Sprintf("expected exactly one bundle block, found %d", len(body.Bundles)),
			map[string]any{"path": filename})
	}

	return body.Bundles[0].spec(), nil
}

// resolveVariables evaluates variable defaults and applies overrides. A
// default is not evaluated when an override exists. An override for an
// undeclared variable is still exposed under var.*.
func resolveVariables(decls []*hclVariable, ctx *hcl.EvalContext, overrides map[string]string) (map[string]string, error) {
	vars := make(map[string]string, len(decls)+len(overrides))
	for _, decl := range decls {
		if _, dup := vars[decl.Name]; dup {
			return nil, fmt.Errorf("variable %q declared twice", decl.Name)
		}
		vars[decl.Name] = ""
		if _, ok := overrides[decl.Name]; ok || decl.Default == nil {
			continue
		}
		v, diags := decl.Default.Value(ctx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("variable %q: %w", decl.Name, diags)
		}
		if v.IsNull() {
			continue
		}
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("variable %q must be a string: %w", decl.Name, err)
		}
		if !s.IsKnown() || s.IsNull() {
			continue
		}
		vars[decl.Name] = s.AsString()
	}
	for k, v := range overrides {
		vars[k] = v
	}
	return vars, nil
}

func stringObject(m map[string]string) cty.Value {
	if len(m) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(m))
	for k, v := range m {
		attrs[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(attrs)
}

func hclError(filename, action string, diags hcl.Diagnostics) error {
	ctx := map[string]any{"path": filename}
	if len(diags) > 0 && diags[0].Subject != nil {
		ctx["line"] = diags[0].Subject.Start.Line
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeInvalidConfig,
		fmt.Sprintf("%s %s", action, filename), diags, ctx)
}

func (b *hclBundle) spec() *bundleSpec {
	s := &bundleSpec{
		Name:                  b.Name,
		DisplayName:           b.DisplayName,
		Identifier:            b.Identifier,
		ShortVersion:          b.ShortVersion,
		Version:               b.Version,
		Signature:             b.Signature,
		Copyright:             b.Copyright,
		Category:              b.Category,
		MinimumSystemVersion:  b.MinimumSystemVersion,
		ExecutableName:        b.ExecutableName,
		Executable:            b.Executable,
		Icon:                  b.Icon,
		MainClassName:         b.MainClassName,
		HighResolutionCapable: b.HighResolutionCapable,
		ClassPath:             b.ClassPath,
		JVMOptions:            b.JVMOptions,
		Arguments:             b.Arguments,
	}
	for _, dt := range b.DocumentTypes {
		s.DocumentTypes = append(s.DocumentTypes, &docSpec{
			Name:       dt.Name,
			Icon:       dt.Icon,
			Role:       dt.Role,
			Extensions: hclPairs(dt.Extensions),
			MimeTypes:  hclPairs(dt.MimeTypes),
			OSTypes:    hclPairs(dt.OSTypes),
		})
	}
	return s
}

func hclPairs(in []*hclPair) []*pairSpec {
	out := make([]*pairSpec, 0, len(in))
	for _, p := range in {
		out = append(out, &pairSpec{Key: p.Key, Value: p.Value, Enabled: p.Enabled})
	}
	return out
}
