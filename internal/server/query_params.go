package server

import (
	"strconv"
	"strings"
)

// parseOptional returns nil for a blank query value and parse(value)
// otherwise.
func parseOptional[T any](value string, parse func(string) (T, error)) (*T, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	v, err := parse(value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalBool(value string) (*bool, error) {
	return parseOptional(value, strconv.ParseBool)
}

func parseOptionalFloat(value string) (*float64, error) {
	return parseOptional(value, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}
