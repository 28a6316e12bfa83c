package analyze

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed functions.yaml
var functionsYAML []byte

// FunctionSignature describes the expected arguments for a built-in function.
type FunctionSignature struct {
	Name      string
	MinArgs   int  `yaml:"min"`  // Minimum number of arguments
	MaxArgs   int  `yaml:"max"`  // Maximum number of arguments (-1 = unlimited)
	AllowStar bool `yaml:"star"` // Whether * is a valid argument (e.g., count(*))
}

// builtinFunctions maps function names to their signatures.
var builtinFunctions map[string]*FunctionSignature

func init() {
	var file struct {
		Functions map[string]*FunctionSignature `yaml:"functions"`
	}
	if err := yaml.Unmarshal(functionsYAML, &file); err != nil {
		panic("failed to parse functions.yaml: " + err.Error())
	}
	for name, sig := range file.Functions {
		sig.Name = name
	}
	builtinFunctions = file.Functions
}

// ValidateFunctionCalls validates function calls against known signatures.
// Returns errors for invalid argument counts.
func ValidateFunctionCalls(calls []*FunctionCall) []*SchemaError {
	var errors []*SchemaError
	for _, call := range calls {
		if err := validateFunctionCall(call); err != nil {
			errors = append(errors, err)
		}
	}
	return errors
}

// validateFunctionCall validates a single function call.
func validateFunctionCall(call *FunctionCall) *SchemaError {
	sig, ok := builtinFunctions[call.Name]
	if !ok {
		// Unknown function - could be user-defined, don't error
		return nil
	}

	if call.HasStar {
		if !sig.AllowStar {
			return &SchemaError{
				Type:     ErrFunctionArgCount,
				Message:  fmt.Sprintf("%s() does not accept * as argument", call.Name),
				Object:   call.Name,
				Location: copyLocation(call.Location),
			}
		}
		return nil
	}

	var message string
	errType := ErrFunctionArgCount
	switch {
	case sig.MaxArgs == -1:
		if call.ArgCount < sig.MinArgs {
			message = fmt.Sprintf("%s() requires at least %d argument(s), got %d", call.Name, sig.MinArgs, call.ArgCount)
		}
	case sig.MinArgs == sig.MaxArgs:
		if call.ArgCount != sig.MinArgs {
			message = fmt.Sprintf("%s() takes %d argument(s), got %d", call.Name, sig.MinArgs, call.ArgCount)
		}
	default:
		if call.ArgCount < sig.MinArgs || call.ArgCount > sig.MaxArgs {
			errType = ErrFunctionArgCountRange
			message = fmt.Sprintf("%s() takes %d-%d argument(s), got %d", call.Name, sig.MinArgs, sig.MaxArgs, call.ArgCount)
		}
	}
	if message == "" {
		return nil
	}
	return &SchemaError{
		Type:     errType,
		Message:  message,
		Object:   call.Name,
		Location: copyLocation(call.Location),
	}
}

// GetFunctionSignature returns the signature for a built-in function, or nil if unknown.
func GetFunctionSignature(name string) *FunctionSignature {
	return builtinFunctions[strings.ToLower(name)]
}
