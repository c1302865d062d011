package model

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// envelope carries just the discriminant; DecodeEvent reads it first to
// pick the variant, then re-decodes the document into the closed type.
type envelope struct {
	Type EventType `yaml:"type"`
}

// DecodeEvent parses one stored YAML document into the canonical sum type.
// The `type` tag selects the variant; a document whose fields do not
// satisfy the selected variant fails validation rather than being guessed
// into another shape.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("model: bad event document: %w", err)
	}

	var ev Event
	switch env.Type {
	case TypeSingle:
		ev = &Single{}
	case TypeRecurring:
		ev = &Recurring{}
	case TypeRule:
		ev = &Rule{}
	case "":
		return nil, errors.New("model: event document missing type tag")
	default:
		return nil, fmt.Errorf("model: unknown event type %q", env.Type)
	}

	if err := yaml.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("model: %s event: %w", env.Type, err)
	}
	if err := Validate(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// EncodeEvent renders a canonical event back into a stored YAML document,
// with the `type` tag first so the round trip stays self-describing.
func EncodeEvent(ev Event) ([]byte, error) {
	if err := Validate(ev); err != nil {
		return nil, err
	}

	body, err := yaml.Marshal(ev)
	if err != nil {
		return nil, err
	}
	head := fmt.Sprintf("type: %s\n", ev.Type())
	return append([]byte(head), body...), nil
}

// DecodeEvents parses a YAML file holding a list of event documents under
// an `events:` key. Events that fail to decode are collected in errs and
// skipped, matching the log-and-skip policy everywhere else.
func DecodeEvents(data []byte) ([]Event, []error) {
	var file struct {
		Events []yaml.Node `yaml:"events"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, []error{fmt.Errorf("model: bad events file: %w", err)}
	}

	events := make([]Event, 0, len(file.Events))
	var errs []error
	for i := range file.Events {
		raw, err := yaml.Marshal(&file.Events[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ev, err := DecodeEvent(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}
