package gatetool

import (
	"context"
	"errors"
	"fmt"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	"github.com/flexigpt/agentgate-go/spec"
)

const (
	FuncIDSkillsLoad  llmtoolsgoSpec.FuncID = "github.com/flexigpt/agentgate-go/gatetool.LoadSkill"
	FuncIDWebResearch llmtoolsgoSpec.FuncID = "github.com/flexigpt/agentgate-go/gatetool.Research"
)

// StepFunc supplies the orchestration step for a load call. The model
// never sends a step; grants made within one step merge, a later step
// replaces.
type StepFunc func() int

// loadArgs is the model-facing argument shape of "skills.load". The
// runtime-level step is injected by the closure, not parsed from the
// model.
type loadArgs struct {
	SkillName string `json:"skill_name"`
}

// Register registers the gate tools into an existing llmtools-go Registry.
// Session binding is done by closure via sessionID; step binding via stepFn.
func Register(r *llmtools.Registry, rt spec.Runtime, sessionID spec.SessionID, stepFn StepFunc) error {
	if r == nil {
		return errors.New("nil registry")
	}
	if rt == nil {
		return errors.New("nil runtime")
	}
	if stepFn == nil {
		return errors.New("nil step func")
	}

	// "skills.load" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[loadArgs, spec.LoadSkillResult](
		r,
		SkillsLoadTool(),
		loadHandler(rt, sessionID, stepFn),
	); err != nil {
		return err
	}

	// "web.research" -> typed -> text output (JSON).
	if err := llmtools.RegisterTypedAsTextTool[spec.ResearchArgs, spec.ResearchResult](
		r,
		WebResearchTool(),
		researchHandler(rt, sessionID),
	); err != nil {
		return err
	}

	return nil
}

func loadHandler(
	rt spec.Runtime,
	sessionID spec.SessionID,
	stepFn StepFunc,
) func(ctx context.Context, args loadArgs) (spec.LoadSkillResult, error) {
	return func(ctx context.Context, args loadArgs) (spec.LoadSkillResult, error) {
		return rt.LoadSkill(ctx, sessionID, spec.LoadSkillArgs{
			Name: args.SkillName,
			Step: stepFn(),
		})
	}
}

// researchHandler collapses runtime failures to the Error field: a raised
// tool fault would crash the model loop, a string it can read and route
// around.
func researchHandler(
	rt spec.Runtime,
	sessionID spec.SessionID,
) func(ctx context.Context, args spec.ResearchArgs) (spec.ResearchResult, error) {
	return func(ctx context.Context, args spec.ResearchArgs) (spec.ResearchResult, error) {
		res, err := rt.Research(ctx, sessionID, args)
		if err != nil {
			return spec.ResearchResult{Error: fmt.Sprintf("Error researching: %v", err)}, nil
		}
		return res, nil
	}
}

func Tools() []llmtoolsgoSpec.Tool {
	return []llmtoolsgoSpec.Tool{
		SkillsLoadTool(),
		WebResearchTool(),
	}
}

func SkillsLoadTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c2f41-8aa0-7c64-b1e2-5f0a94d3aa01",
		Slug:          spec.LoaderToolSlug,
		Version:       "v1.0.0",
		DisplayName:   "Skills Load",
		Description:   "Load a skill by name to unlock its instructions and tools. An unknown name returns the list of available skills.",
		Tags:          []string{"skills"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "skill_name":{"type":"string","description":"Exact name of the skill to load."}
		  },
		  "required":["skill_name"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDSkillsLoad},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}

func WebResearchTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c2f41-8aa0-7c64-b1e2-5f0a94d3aa02",
		Slug:          spec.ResearchToolSlug,
		Version:       "v1.0.0",
		DisplayName:   "Web Research",
		Description:   "Search the web for a query, read the result pages and return the most relevant passages.",
		Tags:          []string{"web", "research"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "query":{"type":"string","description":"Natural-language search query."}
		  },
		  "required":["query"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDWebResearch},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
