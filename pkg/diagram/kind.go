package diagram

import "fmt"

// Kind is the closed set of element kinds the converter can draw.
type Kind int

const (
	KindUnknown Kind = iota
	KindStartEvent
	KindEndEvent
	KindIntermediateEvent
	KindTask
	KindSubProcess
	KindExclusiveGateway
	KindParallelGateway
	KindInclusiveGateway
	KindEventBasedGateway
	KindPool
	KindLane
	KindTextAnnotation
)

var kindNames = [...]string{
	KindUnknown:           "Unknown",
	KindStartEvent:        "StartEvent",
	KindEndEvent:          "EndEvent",
	KindIntermediateEvent: "IntermediateEvent",
	KindTask:              "Task",
	KindSubProcess:        "SubProcess",
	KindExclusiveGateway:  "ExclusiveGateway",
	KindParallelGateway:   "ParallelGateway",
	KindInclusiveGateway:  "InclusiveGateway",
	KindEventBasedGateway: "EventBasedGateway",
	KindPool:              "Pool",
	KindLane:              "Lane",
	KindTextAnnotation:    "TextAnnotation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name; unknown names decode as KindUnknown.
func (k *Kind) UnmarshalText(b []byte) error {
	*k = KindUnknown
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
		}
	}
	return nil
}

// IsEvent reports whether k is drawn as a circle.
func (k Kind) IsEvent() bool {
	return k == KindStartEvent || k == KindEndEvent || k == KindIntermediateEvent
}

// IsGateway reports whether k is drawn as a diamond.
func (k Kind) IsGateway() bool {
	switch k {
	case KindExclusiveGateway, KindParallelGateway, KindInclusiveGateway, KindEventBasedGateway:
		return true
	}
	return false
}

// IsActivity reports whether k is a task or sub-process.
func (k Kind) IsActivity() bool { return k == KindTask || k == KindSubProcess }

// IsContainer reports whether k is a pool or lane.
func (k Kind) IsContainer() bool { return k == KindPool || k == KindLane }

// tagKinds maps BPMN local tag names to kinds. Tags not listed are dropped.
var tagKinds = map[string]Kind{
	"startEvent":             KindStartEvent,
	"endEvent":               KindEndEvent,
	"intermediateCatchEvent": KindIntermediateEvent,
	"intermediateThrowEvent": KindIntermediateEvent,
	"boundaryEvent":          KindIntermediateEvent,
	"task":                   KindTask,
	"userTask":               KindTask,
	"serviceTask":            KindTask,
	"scriptTask":             KindTask,
	"sendTask":               KindTask,
	"receiveTask":            KindTask,
	"manualTask":             KindTask,
	"businessRuleTask":       KindTask,
	"subProcess":             KindSubProcess,
	"callActivity":           KindSubProcess,
	"transaction":            KindSubProcess,
	"adHocSubProcess":        KindSubProcess,
	"exclusiveGateway":       KindExclusiveGateway,
	"parallelGateway":        KindParallelGateway,
	"inclusiveGateway":       KindInclusiveGateway,
	"eventBasedGateway":      KindEventBasedGateway,
	"participant":            KindPool,
	"lane":                   KindLane,
	"textAnnotation":         KindTextAnnotation,
}

// KindFromTag returns the kind for a BPMN local tag name.
func KindFromTag(tag string) (Kind, bool) {
	k, ok := tagKinds[tag]
	return k, ok
}

// FlowKind is the closed set of connector kinds.
type FlowKind int

const (
	FlowSequence FlowKind = iota
	FlowMessage
	FlowAssociation
)

func (k FlowKind) String() string {
	switch k {
	case FlowSequence:
		return "SequenceFlow"
	case FlowMessage:
		return "MessageFlow"
	case FlowAssociation:
		return "Association"
	}
	return "Unknown"
}

// MarshalText encodes k by name.
func (k FlowKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a flow kind name.
func (k *FlowKind) UnmarshalText(b []byte) error {
	for _, c := range []FlowKind{FlowSequence, FlowMessage, FlowAssociation} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown flow kind %q", b)
}

// FlowKindFromTag returns the flow kind for a BPMN local tag name.
func FlowKindFromTag(tag string) (FlowKind, bool) {
	switch tag {
	case "sequenceFlow":
		return FlowSequence, true
	case "messageFlow":
		return FlowMessage, true
	case "association":
		return FlowAssociation, true
	}
	return 0, false
}

// EventDefinition is the trigger drawn inside an event circle.
type EventDefinition string

const (
	EventNone    EventDefinition = ""
	EventMessage EventDefinition = "message"
	EventTimer   EventDefinition = "timer"
	EventSignal  EventDefinition = "signal"
	EventOther   EventDefinition = "other"
)

func eventDefinitionFromTag(tag string) EventDefinition {
	switch tag {
	case "":
		return EventNone
	case "messageEventDefinition":
		return EventMessage
	case "timerEventDefinition":
		return EventTimer
	case "signalEventDefinition":
		return EventSignal
	}
	return EventOther
}
