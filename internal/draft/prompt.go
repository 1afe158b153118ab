package draft

import (
	"encoding/json"
	"strings"

	"github.com/octobees/outreach-drafter/internal/entity"
)

// PromptInput carries everything rendered into a drafting prompt.
type PromptInput struct {
	Preamble        string
	Profile         entity.ContactProfile
	Instructions    string
	Sender          entity.SenderIdentity
	CompanyOverview string
}

// BuildPrompt renders the drafting prompt for one contact. The output is a
// pure function of its inputs.
func BuildPrompt(schema Schema, in PromptInput) string {
	profileJSON, err := json.Marshal(in.Profile)
	if err != nil {
		profileJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString(in.Preamble)
	b.WriteString(" ,knowing my name:" + in.Sender.Name)
	b.WriteString(", my position:" + in.Sender.Position)
	b.WriteString(", my contact information:" + in.Sender.Contact)
	b.WriteString(" and knowing my company overview:" + in.CompanyOverview)
	b.WriteString(in.Instructions)
	b.WriteString("Here is the profile data: ")
	b.Write(profileJSON)
	b.WriteString(". ")
	b.WriteString(schema.instructionBlock())
	return b.String()
}
