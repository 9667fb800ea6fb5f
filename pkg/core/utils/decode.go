// Package utils holds lenient payload decoding for request bodies and
// fixture files written by hand.
package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrUndecodable is returned when no decoding strategy accepts the input.
var ErrUndecodable = errors.New("payload is not valid JSON, repairable JSON or Hjson")

var errTrailingData = errors.New("unexpected data after JSON value")

// DecodeMethod records which strategy accepted a payload.
type DecodeMethod string

const (
	MethodJSON     DecodeMethod = "json"
	MethodRepaired DecodeMethod = "repaired"
	MethodHjson    DecodeMethod = "hjson"
)

// RepairJSON fixes common hand-editing mistakes: single quotes, trailing
// commas, unquoted keys, unclosed brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("failed to repair JSON: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts an Hjson document (comments, unquoted keys, optional
// commas) to standard JSON.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("failed to parse Hjson: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Hjson result: %w", err)
	}
	return string(out), nil
}

// SmartParse decodes input into v, trying in order:
// 1. strict JSON (unknown fields rejected)
// 2. JSON repair
// 3. Hjson
func SmartParse(input []byte, v interface{}) (DecodeMethod, error) {
	if err := strictUnmarshal(input, v); err == nil {
		return MethodJSON, nil
	}

	if repaired, err := RepairJSON(string(input)); err == nil {
		if err := strictUnmarshal([]byte(repaired), v); err == nil {
			return MethodRepaired, nil
		}
	}

	if converted, err := ParseHJSON(string(input)); err == nil {
		if err := strictUnmarshal([]byte(converted), v); err == nil {
			return MethodHjson, nil
		}
	}

	return "", ErrUndecodable
}

// strictUnmarshal decodes exactly one JSON value; anything after it is an
// error.
func strictUnmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
