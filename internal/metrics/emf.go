// Package metrics provides a lightweight AWS CloudWatch Embedded Metrics Format (EMF)
// recorder for emitting custom metrics from Lambda functions. EMF metrics are written
// as structured JSON to stdout, where CloudWatch automatically extracts them — no API
// calls, no added latency, no extra cost beyond log ingestion.
//
// See: https://docs.aws.amazon.com/AmazonCloudWatch/latest/monitoring/CloudWatch_Embedded_Metric_Format_Specification.html
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// Standard CloudWatch metric units.
const (
	UnitMilliseconds = "Milliseconds"
	UnitCount        = "Count"
	UnitBytes        = "Bytes"
	UnitNone         = "None"
)

type metricDef struct {
	Name string `json:"Name"`
	Unit string `json:"Unit"`
}

// emfDirective is the _aws metadata block required by EMF.
type emfDirective struct {
	Timestamp         int64      `json:"Timestamp"`
	CloudWatchMetrics []cwMetric `json:"CloudWatchMetrics"`
}

type cwMetric struct {
	Namespace  string      `json:"Namespace"`
	Dimensions [][]string  `json:"Dimensions"`
	Metrics    []metricDef `json:"Metrics"`
}

// Recorder accumulates dimensions, metrics, and properties for a single EMF flush.
// It is NOT safe for concurrent use; create one per invocation.
type Recorder struct {
	namespace  string
	out        io.Writer
	now        func() time.Time
	dimensions map[string]string
	metrics    map[string]metricDef
	values     map[string]interface{}
	properties map[string]interface{}
}

// New creates a Recorder for the given CloudWatch namespace, writing to stdout.
// functionName, when non-empty, becomes the FunctionName dimension.
func New(namespace, functionName string) *Recorder {
	r := &Recorder{
		namespace:  namespace,
		out:        os.Stdout,
		now:        time.Now,
		dimensions: make(map[string]string),
		metrics:    make(map[string]metricDef),
		values:     make(map[string]interface{}),
		properties: make(map[string]interface{}),
	}
	if functionName != "" {
		r.dimensions["FunctionName"] = functionName
	}
	return r
}

// Output redirects the flushed document. Nil keeps the current writer.
func (r *Recorder) Output(w io.Writer) *Recorder {
	if w != nil {
		r.out = w
	}
	return r
}

// Dimension adds a dimension key-value pair. Dimensions are indexed in CloudWatch
// and appear as filterable attributes on the metric.
func (r *Recorder) Dimension(key, value string) *Recorder {
	r.dimensions[key] = value
	return r
}

// Metric records a named metric value with a CloudWatch unit.
func (r *Recorder) Metric(name string, value float64, unit string) *Recorder {
	r.metrics[name] = metricDef{Name: name, Unit: unit}
	r.values[name] = value
	return r
}

// Count records a count metric with value 1.
func (r *Recorder) Count(name string) *Recorder {
	return r.Metric(name, 1, UnitCount)
}

// Duration records d in milliseconds.
func (r *Recorder) Duration(name string, d time.Duration) *Recorder {
	return r.Metric(name, float64(d.Microseconds())/1000, UnitMilliseconds)
}

// Property adds a non-metric field to the EMF document. Properties are searchable
// in CloudWatch Logs Insights but do not create CloudWatch metrics.
func (r *Recorder) Property(key string, value interface{}) *Recorder {
	r.properties[key] = value
	return r
}

// Flush serializes the EMF document as a single JSON line.
// After flushing, the Recorder should not be reused.
func (r *Recorder) Flush() {
	if len(r.metrics) == 0 {
		return
	}

	doc := make(map[string]interface{})

	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	metricDefs := make([]metricDef, 0, len(names))
	for _, name := range names {
		metricDefs = append(metricDefs, r.metrics[name])
	}

	dimKeys := make([]string, 0, len(r.dimensions))
	for k := range r.dimensions {
		dimKeys = append(dimKeys, k)
	}
	sort.Strings(dimKeys)

	doc["_aws"] = emfDirective{
		Timestamp: r.now().UnixMilli(),
		CloudWatchMetrics: []cwMetric{{
			Namespace:  r.namespace,
			Dimensions: [][]string{dimKeys},
			Metrics:    metricDefs,
		}},
	}

	for k, v := range r.properties {
		doc[k] = v
	}
	for k, v := range r.dimensions {
		doc[k] = v
	}
	for k, v := range r.values {
		doc[k] = v
	}

	data, err := json.Marshal(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emf: failed to marshal metrics: %v\n", err)
		return
	}

	// EMF must be a single line
	fmt.Fprintln(r.out, string(data))
}
