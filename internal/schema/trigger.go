package schema

import "strings"

// TriggerEvent is the event a trigger fires on.
type TriggerEvent string

const (
	UnknownEvent TriggerEvent = ""
	AfterInsert  TriggerEvent = "AFTER INSERT"
)

// Trigger runs Script, verbatim, for each row affected by Event on TableName.
type Trigger struct {
	Name      string
	Temporary bool
	Event     TriggerEvent
	TableName string
	Script    string
}

// IsNull reports if a mandatory attribute is missing.
func (t Trigger) IsNull() bool {
	return strings.TrimSpace(t.Name) == "" || t.Event == UnknownEvent || strings.TrimSpace(t.TableName) == ""
}

func (t *Trigger) Clear() {
	*t = Trigger{}
}
