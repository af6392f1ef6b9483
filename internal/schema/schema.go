package schema

import "strings"

// Schema is the aggregate of tables, views, triggers and populations of a database.
// Order is meaningful: objects are created in declaration order and dropped in reverse.
type Schema struct {
	tables      []*Table
	views       []*View
	triggers    []Trigger
	populations []*TablePopulation
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{}
}

// AddTable panics on a null table.
func (s *Schema) AddTable(t *Table) {
	if t.IsNull() {
		panic("schema: cannot add a null table")
	}
	s.tables = append(s.tables, t)
}

// AddView panics on a null view.
func (s *Schema) AddView(v *View) {
	if v.IsNull() {
		panic("schema: cannot add a null view")
	}
	s.views = append(s.views, v)
}

// AddTrigger panics on a null trigger.
func (s *Schema) AddTrigger(t Trigger) {
	if t.IsNull() {
		panic("schema: cannot add a null trigger")
	}
	s.triggers = append(s.triggers, t)
}

// AddTablePopulation panics on a null population.
func (s *Schema) AddTablePopulation(p *TablePopulation) {
	if p.IsNull() {
		panic("schema: cannot add a null table population")
	}
	s.populations = append(s.populations, p)
}

func (s *Schema) Tables() []*Table { return s.tables }
func (s *Schema) Views() []*View { return s.views }
func (s *Schema) Triggers() []Trigger { return s.triggers }
func (s *Schema) TablePopulations() []*TablePopulation { return s.populations }

func (s *Schema) TableCount() int { return len(s.tables) }
func (s *Schema) ViewCount() int { return len(s.views) }

// FindTable returns the table named name, ignoring case.
func (s *Schema) FindTable(name string) *Table {
	for _, t := range s.tables {
		if strings.EqualFold(t.TableName(), name) {
			return t
		}
	}
	return nil
}

// FindView returns the view named name, ignoring case.
func (s *Schema) FindView(name string) *View {
	for _, v := range s.views {
		if strings.EqualFold(v.Name(), name) {
			return v
		}
	}
	return nil
}

// TableNames returns the names of all tables in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for _, t := range s.tables {
		names = append(names, t.TableName())
	}
	return names
}

// Clear removes everything.
func (s *Schema) Clear() {
	*s = Schema{}
}
