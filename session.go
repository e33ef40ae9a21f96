package agentgate

import (
	"errors"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	"github.com/flexigpt/agentgate-go/gatetool"
	"github.com/flexigpt/agentgate-go/spec"
)

// Session is a convenience wrapper binding a Runtime to one session ID.
type Session struct {
	rt *Runtime
	id spec.SessionID
}

func (s *Session) ID() spec.SessionID { return s.id }

// AllTools returns every gate tool spec regardless of gate state. Use
// Tools for the gated view.
func (s *Session) AllTools() []llmtoolsgoSpec.Tool { return gatetool.Tools() }

// Tools returns the tool specs currently visible to the model: the
// loader plus whatever the session's gate allows right now.
func (s *Session) Tools() ([]llmtoolsgoSpec.Tool, error) {
	if s == nil || s.rt == nil {
		return nil, errors.New("nil session runtime")
	}
	snap, err := s.rt.GateSnapshot(s.id)
	if err != nil {
		return nil, err
	}
	return FilterTools(gatetool.Tools(), snap), nil
}

// RegisterTools registers the gate tools into an existing llmtools-go
// Registry. stepFn supplies the orchestration step for load calls.
func (s *Session) RegisterTools(reg *llmtools.Registry, stepFn gatetool.StepFunc) error {
	if s == nil || s.rt == nil {
		return errors.New("nil session runtime")
	}
	return gatetool.Register(reg, s.rt, s.id, stepFn)
}

// NewToolsRegistry returns a new llmtools-go Registry containing only the
// gate tools.
func (s *Session) NewToolsRegistry(
	stepFn gatetool.StepFunc,
	opts ...llmtools.RegistryOption,
) (*llmtools.Registry, error) {
	if s == nil || s.rt == nil {
		return nil, errors.New("nil session runtime")
	}
	return gatetool.NewGateRegistry(s.rt, s.id, stepFn, opts...)
}

// Snapshot returns the session's current gate state.
func (s *Session) Snapshot() (spec.GateSnapshot, error) {
	if s == nil || s.rt == nil {
		return spec.GateSnapshot{}, errors.New("nil session runtime")
	}
	return s.rt.GateSnapshot(s.id)
}
