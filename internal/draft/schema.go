package draft

import (
	"fmt"
	"strings"
)

// Schema names one completion-call contract: the keys the model is asked to
// emit and the literal example block that asks for them.
type Schema int

const (
	// SchemaSubjectBody asks for [{"subject","body"},{"subject","body"}].
	SchemaSubjectBody Schema = iota
	// SchemaMailFields asks for [{"Mail Subject","Main Email"},{"Second Subject","Second Email"}].
	SchemaMailFields
)

const subjectBodyBlock = "The result should only be in JSON format:\n" +
	"[\n" +
	"    {\n" +
	"        \"subject\": \"Hey John, Special Offer!\",\n" +
	"        \"body\": \"Hey John, we have an exclusive discount for Acme Corp!\"\n" +
	"    },\n" +
	"    {\n" +
	"        \"subject\": \"Following up on my last email\",\n" +
	"        \"body\": \"Hey John, just checking if you saw my last email about the Acme Corp discount!\"\n" +
	"    }\n" +
	"]"

const mailFieldsBlock = "The result should only be in JSON format like this:\n" +
	"[\n" +
	"    {\n" +
	"        \"Mail Subject\": \"Hey John, Special Offer!\",\n" +
	"        \"Main Email\": \"Hey John, we have an exclusive discount for Acme Corp!\"\n" +
	"    },\n" +
	"    {\n" +
	"        \"Second Subject\": \"Following up on my last email\",\n" +
	"        \"Second Email\": \"Hey John, just checking if you saw my last email about the Acme Corp discount!\"\n" +
	"    }\n" +
	"]"

// ParseSchema resolves a schema from its configuration name.
func ParseSchema(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "subject_body":
		return SchemaSubjectBody, nil
	case "mail_fields":
		return SchemaMailFields, nil
	default:
		return 0, fmt.Errorf("unknown draft schema %q", name)
	}
}

func (s Schema) String() string {
	if s == SchemaMailFields {
		return "mail_fields"
	}
	return "subject_body"
}

// keys returns the subject and body key of the element at position (0 or 1).
func (s Schema) keys(position int) (subject, body string) {
	if s != SchemaMailFields {
		return "subject", "body"
	}
	if position == 0 {
		return "Mail Subject", "Main Email"
	}
	return "Second Subject", "Second Email"
}

func (s Schema) instructionBlock() string {
	if s == SchemaMailFields {
		return mailFieldsBlock
	}
	return subjectBodyBlock
}
