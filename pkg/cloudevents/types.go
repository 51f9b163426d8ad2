package cloudevents

import (
	"time"
)

// EventType constants for HRH domain events
const (
	ZoneAssigned    = "hrh.warehousing.zone-assigned"
	LabelTranslated = "hrh.labeling.label-translated"
	RoutePlanned    = "hrh.routing.route-planned"
)

// SourceHRHLogistics is the CloudEvents source of every event this service emits
const SourceHRHLogistics = "/hrh-logistics"

const (
	SpecVersion     = "1.0"
	JSONContentType = "application/json"
)

// HRHCloudEvent represents a CloudEvents v1.0 compliant event
type HRHCloudEvent struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype"`
	Data            interface{}            `json:"data"`
	Extensions      map[string]interface{} `json:"-"`

	CorrelationID string `json:"hrhcorrelationid,omitempty"`

	// W3C trace context of the request that produced the event
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}
