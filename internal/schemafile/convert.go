package schemafile

import (
	"fmt"
	"strings"

	"mdtsql/internal/expression"
	"mdtsql/internal/schema"
)

type converter struct {
	doc        *document
	seenTables map[string]bool
}

func newConverter(doc *document) *converter {
	return &converter{
		doc:        doc,
		seenTables: make(map[string]bool, len(doc.Tables)),
	}
}

// convert builds the schema. Builder preconditions the checks below miss
// still panic in package schema; they are reported as errors.
func (c *converter) convert() (s *schema.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%v", r)
		}
	}()

	s = schema.New()
	for i := range c.doc.Tables {
		t, err := c.convertTable(&c.doc.Tables[i])
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", c.doc.Tables[i].Name, err)
		}
		s.AddTable(t)
	}
	for i := range c.doc.Triggers {
		tr, err := convertTrigger(&c.doc.Triggers[i])
		if err != nil {
			return nil, fmt.Errorf("trigger %q: %w", c.doc.Triggers[i].Name, err)
		}
		s.AddTrigger(tr)
	}
	for i := range c.doc.Views {
		v, err := convertView(&c.doc.Views[i])
		if err != nil {
			return nil, fmt.Errorf("view %q: %w", c.doc.Views[i].Name, err)
		}
		s.AddView(v)
	}
	for i := range c.doc.Populations {
		p, err := c.convertPopulation(&c.doc.Populations[i])
		if err != nil {
			return nil, fmt.Errorf("population %q: %w", c.doc.Populations[i].Name, err)
		}
		s.AddTablePopulation(p)
	}
	return s, nil
}

func (c *converter) convertTable(dt *docTable) (*schema.Table, error) {
	if strings.TrimSpace(dt.Name) == "" {
		return nil, fmt.Errorf("table name is required")
	}
	key := strings.ToLower(dt.Name)
	if c.seenTables[key] {
		return nil, fmt.Errorf("duplicate table name")
	}
	c.seenTables[key] = true

	t := schema.NewTable(dt.Name)
	t.SetTemporary(dt.Temporary)

	pk := dt.PrimaryKey
	if pk.AutoIncrement != "" && len(pk.Columns) > 0 {
		return nil, fmt.Errorf("primary key: auto_increment and columns are mutually exclusive")
	}
	if pk.AutoIncrement != "" {
		t.SetAutoIncrementPrimaryKey(pk.AutoIncrement)
	}

	for i := range dt.Columns {
		f, err := convertColumn(&dt.Columns[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", dt.Columns[i].Name, err)
		}
		if t.ContainsField(f.Name()) {
			return nil, fmt.Errorf("duplicate column %q", f.Name())
		}
		t.AddField(f)
	}

	if len(pk.Columns) > 0 {
		fields, err := lookupFields(t, pk.Columns)
		if err != nil {
			return nil, fmt.Errorf("primary key: %w", err)
		}
		t.SetPrimaryKey(fields...)
	}

	for i := range dt.ForeignKeys {
		if err := addForeignKey(t, &dt.ForeignKeys[i]); err != nil {
			return nil, fmt.Errorf("foreign key %d: %w", i+1, err)
		}
	}

	for _, di := range dt.Indexes {
		if len(di.Columns) == 0 {
			return nil, fmt.Errorf("index %q: at least one column is required", di.Name)
		}
		if _, err := lookupFields(t, di.Columns); err != nil {
			return nil, fmt.Errorf("index %q: %w", di.Name, err)
		}
		idx := schema.NewIndex(t.TableName(), di.Unique, di.Columns...)
		idx.SetName(di.Name)
		t.AddIndex(idx)
	}
	return t, nil
}

func convertColumn(dc *docColumn) (schema.Field, error) {
	if strings.TrimSpace(dc.Name) == "" {
		return schema.Field{}, fmt.Errorf("column name is required")
	}
	typ := schema.FieldTypeFromName(dc.Type)
	if typ == schema.UnknownType {
		return schema.Field{}, fmt.Errorf("unknown type %q; supported: %v", dc.Type, schema.AvailableFieldTypes())
	}
	if dc.Length < 0 {
		return schema.Field{}, fmt.Errorf("length must be > 0, got %d", dc.Length)
	}

	f := schema.NewField(dc.Name, typ)
	if dc.Length > 0 {
		f.SetLength(dc.Length)
	}
	f.SetUnsigned(dc.Unsigned)
	f.SetRequired(dc.Required)
	f.SetUnique(dc.Unique)
	f.SetDefaultValue(normalizeValue(dc.Default))
	if dc.CaseSensitive != nil {
		f.SetCaseSensitive(*dc.CaseSensitive)
	}
	return f, nil
}

func addForeignKey(t *schema.Table, dfk *docForeignKey) error {
	if dfk.References == "" {
		return fmt.Errorf("references is required")
	}
	if len(dfk.Columns) == 0 || len(dfk.Columns) != len(dfk.RefColumns) {
		return fmt.Errorf("columns and ref_columns must be non empty and of the same length")
	}
	onDelete, err := schema.ActionFromString(dfk.OnDelete)
	if err != nil {
		return fmt.Errorf("on_delete: %w", err)
	}
	onUpdate, err := schema.ActionFromString(dfk.OnUpdate)
	if err != nil {
		return fmt.Errorf("on_update: %w", err)
	}
	child, err := lookupFields(t, dfk.Columns)
	if err != nil {
		return err
	}
	t.AddForeignKey(child, dfk.References, dfk.RefColumns, schema.ForeignKeySettings{
		OnDelete:    onDelete,
		OnUpdate:    onUpdate,
		CreateIndex: dfk.CreateIndex,
	})
	return nil
}

// lookupFields resolves names among the columns of t, auto increment key included.
func lookupFields(t *schema.Table, names []string) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(names))
	for _, n := range names {
		f, ok := t.FindField(n)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", n)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func convertTrigger(dt *docTrigger) (schema.Trigger, error) {
	var event schema.TriggerEvent
	switch strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(dt.Event, "_", " "))), " ") {
	case "", string(schema.AfterInsert):
		event = schema.AfterInsert
	default:
		return schema.Trigger{}, fmt.Errorf("unsupported event %q", dt.Event)
	}
	tr := schema.Trigger{
		Name:      dt.Name,
		Temporary: dt.Temporary,
		Event:     event,
		TableName: dt.Table,
		Script:    strings.TrimSpace(dt.Script),
	}
	if tr.IsNull() {
		return schema.Trigger{}, fmt.Errorf("name and table are required")
	}
	return tr, nil
}

func convertView(dv *docView) (*schema.View, error) {
	if dv.Name == "" || dv.Table == "" {
		return nil, fmt.Errorf("name and table are required")
	}
	base := expression.NewEntity(dv.Table)
	if dv.Alias != "" {
		base = base.As(dv.Alias)
	}
	entities := make(map[string]expression.Entity)
	entities[strings.ToLower(dv.Table)] = base
	entities[strings.ToLower(base.Qualifier())] = base

	var joins []expression.JoinClause
	for i, dj := range dv.Joins {
		if dj.Table == "" || len(dj.On) == 0 {
			return nil, fmt.Errorf("join %d: table and on are required", i+1)
		}
		op, err := joinOperator(dj.Kind)
		if err != nil {
			return nil, fmt.Errorf("join %d: %w", i+1, err)
		}
		joined := expression.NewEntity(dj.Table)
		if dj.Alias != "" {
			joined = joined.As(dj.Alias)
		}
		entities[strings.ToLower(dj.Table)] = joined
		entities[strings.ToLower(joined.Qualifier())] = joined

		pairs := make([][2]expression.Field, 0, len(dj.On))
		for _, on := range dj.On {
			if len(on) != 2 {
				return nil, fmt.Errorf("join %d: each on entry needs a joined and a main field", i+1)
			}
			pairs = append(pairs, [2]expression.Field{joined.Field(on[0]), base.Field(on[1])})
		}
		joins = append(joins, expression.NewJoinClause(op, joined, expression.JoinOn(pairs...)))
	}

	entity := func(name string) (expression.Entity, error) {
		if name == "" {
			return base, nil
		}
		e, ok := entities[strings.ToLower(name)]
		if !ok {
			return expression.Entity{}, fmt.Errorf("unknown table %q", name)
		}
		return e, nil
	}

	v := schema.NewView(dv.Name, base)
	if len(dv.Columns) == 0 {
		v.AddSelectAllFields(base)
	}
	for _, col := range dv.Columns {
		e, err := entity(col.Table)
		if err != nil {
			return nil, err
		}
		if col.Field == "*" {
			v.AddSelectAllFields(e)
			continue
		}
		if col.Field == "" {
			return nil, fmt.Errorf("column field is required")
		}
		v.AddSelectField(e, col.Field, col.Alias)
	}
	for _, j := range joins {
		v.AddJoinClause(j)
	}

	filters := make([]expression.Filter, 0, len(dv.Where))
	for _, cond := range dv.Where {
		e, err := entity(cond.Table)
		if err != nil {
			return nil, err
		}
		f, err := condition(e.Field(cond.Field), cond.Op, normalizeValue(cond.Value))
		if err != nil {
			return nil, fmt.Errorf("where %q: %w", cond.Field, err)
		}
		filters = append(filters, f)
	}
	if f := expression.And(filters...); f != nil {
		v.SetFilter(f)
	}
	return v, nil
}

func joinOperator(kind string) (expression.JoinOperator, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "join", "inner":
		return expression.Join, nil
	case "left", "left join":
		return expression.LeftJoin, nil
	}
	return "", fmt.Errorf("unsupported join kind %q", kind)
}

func condition(field expression.Field, op string, value any) (expression.Filter, error) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "", "=", "==":
		return field.Eq(value), nil
	case "<>", "!=":
		return field.Ne(value), nil
	case "<":
		return field.Lt(value), nil
	case "<=":
		return field.Le(value), nil
	case ">":
		return field.Gt(value), nil
	case ">=":
		return field.Ge(value), nil
	case "like":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("like requires a string pattern")
		}
		return field.Like(s), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", op)
}

func (c *converter) convertPopulation(dp *docPopulation) (*schema.TablePopulation, error) {
	if dp.Table == "" || len(dp.Columns) == 0 {
		return nil, fmt.Errorf("table and columns are required")
	}
	name := dp.Name
	if name == "" {
		name = dp.Table + "_population"
	}
	p := schema.NewTablePopulation(name, dp.Table)
	for _, col := range dp.Columns {
		p.AddFieldName(col)
	}
	for i, row := range dp.Rows {
		if len(row) != len(dp.Columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", i+1, len(row), len(dp.Columns))
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = normalizeValue(v)
		}
		p.AddRow(values...)
	}
	return p, nil
}

// normalizeValue turns decoder specific scalars into the types the generator
// renders: int64, float64, bool, string or nil.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case uint64:
		return int64(x)
	}
	return v
}
