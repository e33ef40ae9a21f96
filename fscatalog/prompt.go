package fscatalog

import (
	"fmt"
	"strings"

	"github.com/flexigpt/agentgate-go/spec"
)

// AvailableSkillsPrompt renders the system-prompt addendum listing each
// skill's name and description. Only names and descriptions are disclosed
// here; full skill content is revealed on load.
func AvailableSkillsPrompt(skills []spec.SkillDescriptor) string {
	if len(skills) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Available Skills\n\n")
	for _, sk := range skills {
		fmt.Fprintf(&b, "- **%s**: %s\n", sk.Name, sk.Description)
	}
	b.WriteString("\nUse the " + spec.LoaderToolSlug +
		" tool when you need detailed instructions for handling a specific type of request.")
	return b.String()
}
