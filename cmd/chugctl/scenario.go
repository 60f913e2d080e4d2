package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	schemavalidator "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Scenario drives one instance: calls to make, input to feed, output to
// expect.
type Scenario struct {
	Class   string       `json:"class" yaml:"class" validate:"required" jsonschema:"description=Class to instantiate"`
	Samples int          `json:"samples,omitempty" yaml:"samples,omitempty" validate:"gte=0,lte=10000000" jsonschema:"minimum=0,default=16"`
	Input   Input        `json:"input,omitempty" yaml:"input,omitempty"`
	Calls   []Call       `json:"calls,omitempty" yaml:"calls,omitempty" validate:"dive"`
	Expect  *Expectation `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Input describes the signal fed to the tick function
type Input struct {
	Kind  string  `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=constant impulse sine" jsonschema:"enum=constant,enum=impulse,enum=sine"`
	Value float64 `json:"value,omitempty" yaml:"value,omitempty" jsonschema:"description=Level for constant; amplitude for impulse and sine"`
	Freq  float64 `json:"freq,omitempty" yaml:"freq,omitempty" validate:"gte=0"`
}

// Call invokes a method before the tick of sample At
type Call struct {
	Method string        `json:"method" yaml:"method" validate:"required"`
	Args   []interface{} `json:"args,omitempty" yaml:"args,omitempty"`
	At     int           `json:"at,omitempty" yaml:"at,omitempty" validate:"gte=0"`
}

// Expectation is compared against the produced output
type Expectation struct {
	Output    []float32 `json:"output" yaml:"output" validate:"required"`
	Tolerance float32   `json:"tolerance,omitempty" yaml:"tolerance,omitempty" validate:"gte=0"`
}

// signal returns input sample n at srate
func (in Input) signal(n int, srate float64) float32 {
	switch in.Kind {
	case "impulse":
		if n == 0 {
			return float32(in.Value)
		}
		return 0
	case "sine":
		return float32(in.Value * math.Sin(2*math.Pi*in.Freq*float64(n)/srate))
	default:
		return float32(in.Value)
	}
}

// sortCalls orders calls by the sample they precede, keeping file order for
// calls at the same sample
func sortCalls(calls []Call) {
	sort.SliceStable(calls, func(i, j int) bool { return calls[i].At < calls[j].At })
}

// parseSet turns name=value into a call made before the first sample
func parseSet(s string) (Call, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return Call{}, fmt.Errorf("invalid --set %q, want name=value", s)
	}
	if value == "" {
		return Call{Method: name}, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return Call{Method: name, Args: []interface{}{n}}, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Call{}, fmt.Errorf("invalid --set %q: %w", s, err)
	}
	return Call{Method: name, Args: []interface{}{f}}, nil
}

var scenarioValidate = validator.New()

// reflectSchema generates the JSON schema of v
func reflectSchema(v interface{}) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		Anonymous:      true,
	}
	return reflector.Reflect(v)
}

// generateSchema returns the indented JSON schema of v
func generateSchema(v interface{}) ([]byte, error) {
	b, err := json.MarshalIndent(reflectSchema(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return b, nil
}

// checkSchema validates a decoded document against the Scenario schema
func checkSchema(doc interface{}) error {
	raw, err := generateSchema(&Scenario{})
	if err != nil {
		return err
	}

	compiler := schemavalidator.NewCompiler()
	if err := compiler.AddResource("scenario.json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to add scenario schema: %w", err)
	}
	sch, err := compiler.Compile("scenario.json")
	if err != nil {
		return fmt.Errorf("invalid scenario schema: %w", err)
	}

	// Round-trip through JSON so YAML maps become map[string]interface{}.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to prepare scenario: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("failed to prepare scenario: %w", err)
	}
	return sch.Validate(obj)
}

// parseScenario decodes and validates a YAML (or JSON) scenario
func parseScenario(data []byte) (*Scenario, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := checkSchema(doc); err != nil {
		return nil, fmt.Errorf("scenario does not match schema: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := scenarioValidate.Struct(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// loadScenario reads a scenario file
func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return parseScenario(data)
}
