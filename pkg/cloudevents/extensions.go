package cloudevents

import (
	"fmt"
	"time"
)

// CloudEvents extension attribute names
const (
	ExtCorrelationID = "hrhcorrelationid"
	ExtTraceParent   = "traceparent"
	ExtTraceState    = "tracestate"
)

// Binary-mode header names used when an event travels as a Kafka message
const (
	HeaderPrefix      = "ce-"
	HeaderContentType = "content-type"
)

// Validate checks the attributes CloudEvents 1.0 marks as required
func (e *HRHCloudEvent) Validate() error {
	switch {
	case e.SpecVersion != SpecVersion:
		return fmt.Errorf("unsupported specversion %q", e.SpecVersion)
	case e.ID == "":
		return fmt.Errorf("event id is required")
	case e.Source == "":
		return fmt.Errorf("event source is required")
	case e.Type == "":
		return fmt.Errorf("event type is required")
	}
	return nil
}

// WithCorrelationID sets the correlation extension and returns the event
func (e *HRHCloudEvent) WithCorrelationID(correlationID string) *HRHCloudEvent {
	e.CorrelationID = correlationID
	return e
}

// Headers returns the binary-mode header set for the event. Optional
// extensions are only present when set.
func (e *HRHCloudEvent) Headers() map[string]string {
	headers := map[string]string{
		HeaderPrefix + "specversion": e.SpecVersion,
		HeaderPrefix + "type":        e.Type,
		HeaderPrefix + "source":      e.Source,
		HeaderPrefix + "id":          e.ID,
		HeaderPrefix + "time":        e.Time.Format(time.RFC3339),
		HeaderContentType:            e.DataContentType,
	}

	if e.Subject != "" {
		headers[HeaderPrefix+"subject"] = e.Subject
	}
	if e.CorrelationID != "" {
		headers[HeaderPrefix+ExtCorrelationID] = e.CorrelationID
	}
	if e.TraceParent != "" {
		headers[HeaderPrefix+ExtTraceParent] = e.TraceParent
	}
	if e.TraceState != "" {
		headers[HeaderPrefix+ExtTraceState] = e.TraceState
	}

	return headers
}
