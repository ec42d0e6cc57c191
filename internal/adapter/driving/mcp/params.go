package mcp

import (
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// requiredParam extracts a required argument of type T from the request,
// rejecting absent, mistyped, or zero values before any upstream call is made.
func requiredParam[T comparable](request mcp.CallToolRequest, name string) (T, error) {
	var zero T

	args := request.GetArguments()
	raw, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("missing required parameter: %s", name)
	}

	value, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T", name, zero)
	}
	if value == zero {
		return zero, fmt.Errorf("missing required parameter: %s", name)
	}

	return value, nil
}

// optionalParam extracts an optional argument of type T. The second return
// reports whether the argument was present.
func optionalParam[T any](request mcp.CallToolRequest, name string) (T, bool, error) {
	var zero T

	args := request.GetArguments()
	raw, ok := args[name]
	if !ok {
		return zero, false, nil
	}

	value, ok := raw.(T)
	if !ok {
		return zero, true, fmt.Errorf("parameter %s is not of type %T", name, zero)
	}

	return value, true, nil
}

// optionalIntParam extracts an optional integer argument, falling back to
// defaultValue when absent. JSON numbers arrive as float64; fractional values
// are rejected rather than truncated.
func optionalIntParam(request mcp.CallToolRequest, name string, defaultValue int) (int, error) {
	value, present, err := optionalParam[float64](request, name)
	if err != nil {
		return 0, err
	}
	if !present {
		return defaultValue, nil
	}
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("parameter %s must be an integer, got %v", name, value)
	}
	return int(value), nil
}

// optionalBoolParam extracts an optional boolean argument, falling back to
// defaultValue when absent.
func optionalBoolParam(request mcp.CallToolRequest, name string, defaultValue bool) (bool, error) {
	value, present, err := optionalParam[bool](request, name)
	if err != nil {
		return false, err
	}
	if !present {
		return defaultValue, nil
	}
	return value, nil
}

// requiredIntSliceParam extracts a required array-of-numbers argument.
// An empty array is rejected the same way as an absent one.
func requiredIntSliceParam(request mcp.CallToolRequest, name string) ([]int, error) {
	args := request.GetArguments()
	raw, ok := args[name]
	if !ok {
		return nil, fmt.Errorf("missing required parameter: %s", name)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %s is not an array", name)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("parameter %s must not be empty", name)
	}

	values := make([]int, 0, len(items))
	for i, item := range items {
		number, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("parameter %s[%d] is not a number", name, i)
		}
		if number != math.Trunc(number) {
			return nil, fmt.Errorf("parameter %s[%d] must be an integer, got %v", name, i, number)
		}
		values = append(values, int(number))
	}

	return values, nil
}
