package metrics

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestNew_FunctionDimension(t *testing.T) {
	r := New("TestNamespace", "TestFunction")
	if r.namespace != "TestNamespace" {
		t.Errorf("expected namespace TestNamespace, got %s", r.namespace)
	}
	if r.dimensions["FunctionName"] != "TestFunction" {
		t.Errorf("expected FunctionName dimension TestFunction, got %s", r.dimensions["FunctionName"])
	}

	if _, ok := New("Test", "").dimensions["FunctionName"]; ok {
		t.Error("expected no FunctionName dimension outside Lambda")
	}
}

func TestRecorder_FlushOutput(t *testing.T) {
	var buf bytes.Buffer

	rec := New("ThumbnailGenerator", "")
	rec.now = func() time.Time { return time.UnixMilli(1700000000000) }
	rec.Output(&buf).
		Dimension("Outcome", "success").
		Metric("SourceBytes", 2048, UnitBytes).
		Metric("DurationMs", 12.5, UnitMilliseconds).
		Property("key", "photo.png")
	rec.Flush()

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse EMF output as JSON: %v\nOutput: %s", err, buf.String())
	}

	awsMap, ok := doc["_aws"].(map[string]interface{})
	if !ok {
		t.Fatal("missing _aws directive in EMF output")
	}
	if awsMap["Timestamp"] != float64(1700000000000) {
		t.Errorf("expected fixed Timestamp, got %v", awsMap["Timestamp"])
	}

	cwArr, ok := awsMap["CloudWatchMetrics"].([]interface{})
	if !ok || len(cwArr) == 0 {
		t.Fatal("CloudWatchMetrics should be a non-empty array")
	}
	cw := cwArr[0].(map[string]interface{})
	if cw["Namespace"] != "ThumbnailGenerator" {
		t.Errorf("expected namespace ThumbnailGenerator, got %v", cw["Namespace"])
	}

	// Metric definitions are emitted in name order.
	defs := cw["Metrics"].([]interface{})
	if len(defs) != 2 || defs[0].(map[string]interface{})["Name"] != "DurationMs" {
		t.Errorf("unexpected metric definitions: %v", defs)
	}

	if doc["Outcome"] != "success" {
		t.Errorf("expected Outcome=success, got %v", doc["Outcome"])
	}
	if doc["SourceBytes"] != float64(2048) {
		t.Errorf("expected SourceBytes=2048, got %v", doc["SourceBytes"])
	}
	if doc["key"] != "photo.png" {
		t.Errorf("expected key=photo.png, got %v", doc["key"])
	}
	if bytes.Count(buf.Bytes(), []byte("\n")) != 1 {
		t.Errorf("expected a single line, got %q", buf.String())
	}
}

func TestRecorder_FlushEmpty(t *testing.T) {
	var buf bytes.Buffer
	New("Test", "").Output(&buf).Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no output for empty recorder, got: %s", buf.String())
	}
}

func TestRecorder_Count(t *testing.T) {
	rec := New("Test", "")
	rec.Count("Errors")

	if v, ok := rec.values["Errors"]; !ok || v != float64(1) {
		t.Errorf("expected Errors=1, got %v", v)
	}
	if m, ok := rec.metrics["Errors"]; !ok || m.Unit != UnitCount {
		t.Errorf("expected unit Count, got %v", m.Unit)
	}
}

func TestRecorder_Duration(t *testing.T) {
	rec := New("Test", "").Duration("DurationMs", 1500*time.Microsecond)

	if rec.values["DurationMs"] != 1.5 {
		t.Errorf("expected DurationMs=1.5, got %v", rec.values["DurationMs"])
	}
	if rec.metrics["DurationMs"].Unit != UnitMilliseconds {
		t.Errorf("expected unit Milliseconds, got %v", rec.metrics["DurationMs"].Unit)
	}
}

func TestRecorder_Chaining(t *testing.T) {
	rec := New("Test", "").
		Dimension("Op", "test").
		Metric("Duration", 100, UnitMilliseconds).
		Count("Calls").
		Property("id", "xyz")

	if rec.dimensions["Op"] != "test" {
		t.Error("chaining Dimension failed")
	}
	if rec.values["Duration"] != float64(100) {
		t.Error("chaining Metric failed")
	}
	if rec.values["Calls"] != float64(1) {
		t.Error("chaining Count failed")
	}
	if rec.properties["id"] != "xyz" {
		t.Error("chaining Property failed")
	}
}
