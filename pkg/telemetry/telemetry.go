// Package telemetry publishes orchestrator tick reports over MQTT.
package telemetry

import (
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/robotalks/ledlink/pkg/link"
	"github.com/robotalks/ledlink/pkg/orchestrator"
)

// Topic suffixes under <prefix><id>/.
const (
	ReportTopic = "report"
	StateTopic  = "state"
)

// Queue is the publishing side of mqtt.Queue.
type Queue interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// Publisher implements orchestrator.Reporter.
type Publisher struct {
	Queue Queue
	ID    string
	// ReportAll publishes every tick instead of only ticks with a send.
	ReportAll bool

	lock      sync.Mutex
	lastState link.State
	hasState  bool
}

// NewPublisher creates a Publisher. An empty id uses MachineID.
func NewPublisher(q Queue, id string) *Publisher {
	if id == "" {
		id = MachineID()
	}
	return &Publisher{Queue: q, ID: id}
}

// Report implements orchestrator.Reporter.
func (p *Publisher) Report(r orchestrator.Report) {
	p.lock.Lock()
	stateChanged := !p.hasState || p.lastState != r.State
	p.lastState, p.hasState = r.State, true
	p.lock.Unlock()

	if stateChanged {
		p.Queue.PubWith(p.ID+"/"+StateTopic, []byte(r.State.String()), 1, true)
	}
	if !p.ReportAll && !r.Sent {
		return
	}
	payload, err := EncodeReport(r)
	if err != nil {
		glog.Errorf("encode report: %v", err)
		return
	}
	p.Queue.PubWith(p.ID+"/"+ReportTopic, payload, 0, false)
}

// ReportStruct converts a report to a protobuf Struct.
func ReportStruct(r orchestrator.Report) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"tick":      numberValue(float64(r.Tick)),
			"raw":       numberValue(float64(r.Raw)),
			"stable":    numberValue(float64(r.Stable)),
			"skipped":   boolValue(r.Skipped),
			"sent":      boolValue(r.Sent),
			"delivered": boolValue(r.Delivered),
			"state":     stringValue(r.State.String()),
		},
	}
}

// EncodeReport encodes a report as a serialized protobuf Struct.
func EncodeReport(r orchestrator.Report) ([]byte, error) {
	return proto.Marshal(ReportStruct(r))
}

func numberValue(v float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: v}}
}

func boolValue(v bool) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_BoolValue{BoolValue: v}}
}

func stringValue(v string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: v}}
}
