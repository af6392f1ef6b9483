package output

import (
	"encoding/json"
	"strings"

	"mdtsql/internal/schema"
)

type jsonFormatter struct{}

type scriptSummary struct {
	Tables      int `json:"tables"`
	Views       int `json:"views"`
	Triggers    int `json:"triggers"`
	Populations int `json:"populations"`
	Rows        int `json:"rows"`
	Statements  int `json:"statements"`
}

type scriptPayload struct {
	Format    string        `json:"format"`
	Operation string        `json:"operation"`
	Dialect   string        `json:"dialect"`
	Summary   scriptSummary `json:"summary"`
	SQL       []string      `json:"sql,omitempty"`
}

type columnPayload struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Length        int    `json:"length,omitempty"`
	Unsigned      bool   `json:"unsigned,omitempty"`
	Required      bool   `json:"required,omitempty"`
	Unique        bool   `json:"unique,omitempty"`
	Default       any    `json:"default,omitempty"`
	CaseSensitive *bool  `json:"caseSensitive,omitempty"`
}

type primaryKeyPayload struct {
	Kind    string   `json:"kind"`
	Columns []string `json:"columns,omitempty"`
}

type foreignKeyPayload struct {
	Columns    []string `json:"columns"`
	References string   `json:"references"`
	RefColumns []string `json:"refColumns"`
	OnDelete   string   `json:"onDelete"`
	OnUpdate   string   `json:"onUpdate"`
}

type indexPayload struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

type tablePayload struct {
	Format      string              `json:"format"`
	Dialect     string              `json:"dialect"`
	Name        string              `json:"name"`
	Columns     []columnPayload     `json:"columns"`
	PrimaryKey  primaryKeyPayload   `json:"primaryKey"`
	ForeignKeys []foreignKeyPayload `json:"foreignKeys,omitempty"`
	Indexes     []indexPayload      `json:"indexes,omitempty"`
	SQL         []string            `json:"sql,omitempty"`
}

type Payload interface {
	scriptPayload | tablePayload
}

func (jsonFormatter) FormatScript(sc *Script) (string, error) {
	payload := scriptPayload{Format: string(FormatJSON)}
	if sc != nil {
		sql := normalizeStatements(sc.Statements)
		payload.Operation = string(sc.Operation)
		payload.Dialect = string(sc.Dialect)
		payload.SQL = sql
		payload.Summary = scriptSummary{
			Tables:      sc.Tables,
			Views:       sc.Views,
			Triggers:    sc.Triggers,
			Populations: sc.Populations,
			Rows:        sc.Rows,
			Statements:  len(sql),
		}
	}
	return marshalJSON(payload)
}

func (jsonFormatter) FormatTable(r *TableReport) (string, error) {
	payload := tablePayload{Format: string(FormatJSON)}
	if r != nil && r.Table != nil {
		t := r.Table
		payload.Dialect = string(r.Dialect)
		payload.Name = t.TableName()
		payload.SQL = normalizeStatements(r.Statements)
		payload.PrimaryKey = primaryKeyPayload{
			Kind:    t.PrimaryKey().Kind().String(),
			Columns: t.PrimaryKey().FieldNames(),
		}
		for _, f := range t.FieldList() {
			payload.Columns = append(payload.Columns, newColumnPayload(f))
		}
		for _, fk := range t.ForeignKeyList() {
			payload.ForeignKeys = append(payload.ForeignKeys, foreignKeyPayload{
				Columns:    fk.ChildFieldNames(),
				References: fk.ParentTableName(),
				RefColumns: fk.ParentFieldNames(),
				OnDelete:   fk.OnDelete().SQL(),
				OnUpdate:   fk.OnUpdate().SQL(),
			})
		}
		for _, idx := range t.IndexList() {
			payload.Indexes = append(payload.Indexes, indexPayload{
				Name:    idx.Name(),
				Columns: idx.FieldNames(),
				Unique:  idx.IsUnique(),
			})
		}
	}
	return marshalJSON(payload)
}

func newColumnPayload(f schema.Field) columnPayload {
	c := columnPayload{
		Name:     f.Name(),
		Type:     strings.ToLower(f.Type().Name()),
		Unsigned: f.IsUnsigned(),
		Required: f.IsRequired(),
		Unique:   f.IsUnique(),
		Default:  f.DefaultValue(),
	}
	if f.HasLength() {
		c.Length = f.Length()
	}
	if coll := f.Collation(); coll.Sensitivity != schema.CaseUnset {
		sensitive := coll.IsCaseSensitive()
		c.CaseSensitive = &sensitive
	}
	return c
}

func marshalJSON[T Payload](payload T) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
