package chugin

import (
	"github.com/justyntemme/chuckgo/pkg/query"
)

// Manifest describes everything a module registers
type Manifest struct {
	Name    string      `json:"name,omitempty" yaml:"name,omitempty"`
	Version string      `json:"version" yaml:"version"`
	Encoded uint64      `json:"encoded_version" yaml:"encoded_version"`
	Classes []ClassInfo `json:"classes" yaml:"classes"`
}

// ClassInfo describes one class
type ClassInfo struct {
	Name    string       `json:"name" yaml:"name" validate:"required,cstring"`
	Parent  string       `json:"parent" yaml:"parent" validate:"required,cstring"`
	Doc     string       `json:"doc,omitempty" yaml:"doc,omitempty" validate:"cstring"`
	Tick    *TickInfo    `json:"tick,omitempty" yaml:"tick,omitempty"`
	Methods []MethodInfo `json:"methods,omitempty" yaml:"methods,omitempty" validate:"dive"`
}

// TickInfo gives the channel counts of a unit generator
type TickInfo struct {
	Inputs  uint `json:"inputs" yaml:"inputs" validate:"lte=1"`
	Outputs uint `json:"outputs" yaml:"outputs" validate:"eq=1"`
}

// MethodInfo describes a member function
type MethodInfo struct {
	Name   string        `json:"name" yaml:"name" validate:"required,cstring"`
	Return string        `json:"return" yaml:"return" validate:"required,cstring"`
	Params []query.Param `json:"params,omitempty" yaml:"params,omitempty" validate:"dive"`
}

// Signature renders the method as ChucK would print it
func (m MethodInfo) Signature() string {
	s := m.Return + " " + m.Name + "("
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Type + " " + p.Name
	}
	return s + ")"
}

// Method finds the overload of name taking n arguments
func (c ClassInfo) Method(name string, n int) (MethodInfo, bool) {
	for _, m := range c.Methods {
		if m.Name == name && len(m.Params) == n {
			return m, true
		}
	}
	return MethodInfo{}, false
}
