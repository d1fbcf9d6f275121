package main

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"
)

func TestRunFound(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"10", "1", "2", "3", "4"}, &out, zaptest.NewLogger(t))
	if code != exitFound {
		t.Fatalf("expected exit code %d, got %d", exitFound, code)
	}

	var res result
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if !res.Found || res.Sum != 10 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !slices.Equal(res.Left, []int64{10}) || !slices.Equal(res.Right, []int64{4, 3, 2, 1}) {
		t.Fatalf("unexpected partition: %v / %v", res.Left, res.Right)
	}
}

func TestRunNoPartition(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"1", "1", "2", "6"}, &out, zaptest.NewLogger(t))
	if code != exitNoPartition {
		t.Fatalf("expected exit code %d, got %d", exitNoPartition, code)
	}
	if !strings.Contains(out.String(), `"found": false`) {
		t.Fatalf("expected found=false in output, got %s", out.String())
	}
}

func TestRunNoValues(t *testing.T) {
	var out bytes.Buffer
	if code := run(nil, &out, zaptest.NewLogger(t)); code != exitNoPartition {
		t.Fatalf("expected exit code %d, got %d", exitNoPartition, code)
	}
	if !strings.Contains(out.String(), `"values": []`) {
		t.Fatalf("expected empty values in output, got %s", out.String())
	}
}

func TestRunNegativeValuesAfterSeparator(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--", "-2", "-2"}, &out, zaptest.NewLogger(t))
	if code != exitFound {
		t.Fatalf("expected exit code %d, got %d", exitFound, code)
	}
}

func TestRunYAMLFormat(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--format=yaml", "1", "2", "3"}, &out, zaptest.NewLogger(t))
	if code != exitFound {
		t.Fatalf("expected exit code %d, got %d", exitFound, code)
	}

	var res result
	if err := yaml.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if !slices.Equal(res.Left, []int64{3}) || !slices.Equal(res.Right, []int64{2, 1}) {
		t.Fatalf("unexpected partition: %v / %v", res.Left, res.Right)
	}
}

func TestRunStepLimit(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--max-steps=1", "1", "2", "2", "3"}, &out, zaptest.NewLogger(t))
	if code != exitError {
		t.Fatalf("expected exit code %d, got %d", exitError, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output on failure, got %s", out.String())
	}
}

func TestRunRejectsInvalidArguments(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"1", "two"}, &out, zaptest.NewLogger(t)); code != exitError {
		t.Fatalf("expected exit code %d, got %d", exitError, code)
	}
	if code := run([]string{"--format=xml", "1", "1"}, &out, zaptest.NewLogger(t)); code != exitError {
		t.Fatalf("expected exit code %d for unknown format, got %d", exitError, code)
	}
}

func TestRunRejectsOverflowingValues(t *testing.T) {
	var out bytes.Buffer
	args := []string{"9223372036854775807", "9223372036854775807", "1", "1"}
	if code := run(args, &out, zaptest.NewLogger(t)); code != exitError {
		t.Fatalf("expected exit code %d, got %d", exitError, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %s", out.String())
	}
}
