package gatetool

import (
	"errors"

	"github.com/flexigpt/llmtools-go"

	"github.com/flexigpt/agentgate-go/spec"
)

// NewGateRegistry creates an llmtools-go Registry and registers ONLY the
// gate tools into it.
func NewGateRegistry(
	rt spec.Runtime,
	sessionID spec.SessionID,
	stepFn StepFunc,
	opts ...llmtools.RegistryOption,
) (*llmtools.Registry, error) {
	if rt == nil {
		return nil, errors.New("nil runtime")
	}
	r, err := llmtools.NewRegistry(opts...)
	if err != nil {
		return nil, err
	}
	if err := Register(r, rt, sessionID, stepFn); err != nil {
		return nil, err
	}
	return r, nil
}
