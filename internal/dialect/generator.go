package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mdtsql/internal/expression"
	"mdtsql/internal/schema"
)

// Generator renders schema objects to SQL for one dialect.
type Generator struct {
	d Dialect
}

func NewGenerator(d Dialect) *Generator {
	return &Generator{d: d}
}

func (g *Generator) Dialect() Dialect {
	return g.d
}

// FieldDefinition renders
// "name" TYPE[(length)] [UNSIGNED] [UNIQUE] [NOT NULL] DEFAULT <value> [COLLATE ...].
func (g *Generator) FieldDefinition(f schema.Field) string {
	parts := []string{g.d.QuoteIdentifier(f.Name()), g.d.FieldTypeDefinition(f)}
	parts = g.addUnsigned(parts, f)
	parts = g.addUnique(parts, f)
	parts = g.addNotNull(parts, f)
	parts = g.addDefault(parts, f)
	parts = g.addCollation(parts, f)
	return strings.Join(parts, " ")
}

func (g *Generator) addUnsigned(parts []string, f schema.Field) []string {
	if f.IsUnsigned() && f.Type() == schema.Integer {
		return append(parts, "UNSIGNED")
	}
	return parts
}

func (g *Generator) addUnique(parts []string, f schema.Field) []string {
	if f.IsUnique() {
		return append(parts, "UNIQUE")
	}
	return parts
}

func (g *Generator) addNotNull(parts []string, f schema.Field) []string {
	if f.IsRequired() {
		return append(parts, "NOT NULL")
	}
	return parts
}

func (g *Generator) addDefault(parts []string, f schema.Field) []string {
	if f.DefaultValue() == nil && f.IsRequired() && !g.d.AllowsRequiredNullDefault() {
		return parts
	}
	return append(parts, "DEFAULT "+DefaultValueSQL(f.DefaultValue()))
}

// addCollation only renders collations of text fields.
func (g *Generator) addCollation(parts []string, f schema.Field) []string {
	if f.Type() != schema.Varchar {
		return parts
	}
	if c := g.CollationDefinition(f.Collation()); c != "" {
		return append(parts, c)
	}
	return parts
}

// CollationDefinition returns an empty string for a null collation.
func (g *Generator) CollationDefinition(c schema.Collation) string {
	if c.IsNull() {
		return ""
	}
	return g.d.CollationDefinition(c)
}

// TypeWithLength renders the type name, followed by the length for a Varchar
// with a positive length. It is the default FieldTypeDefinition of dialects.
func TypeWithLength(f schema.Field) string {
	if f.Type() == schema.Varchar && f.HasLength() {
		return fmt.Sprintf("%s(%d)", f.Type().Name(), f.Length())
	}
	return f.Type().Name()
}

// DefaultValueSQL renders a field default: NULL, an unquoted number or a
// double quoted text.
func DefaultValueSQL(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return doubleQuote(x.Format("2006-01-02 15:04:05"))
	}
	return doubleQuote(fmt.Sprint(v))
}

func doubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// PrimaryKeyFieldDefinition renders the column of an auto increment primary key.
func (g *Generator) PrimaryKeyFieldDefinition(pk schema.AutoIncrementPrimaryKey) string {
	return g.d.QuoteIdentifier(pk.FieldName()) + " INTEGER NOT NULL PRIMARY KEY " + g.d.AutoIncrementKeyword()
}

// PrimaryKeyDefinition renders PRIMARY KEY ("f1","f2",...).
func (g *Generator) PrimaryKeyDefinition(pk schema.PrimaryKey) string {
	return "PRIMARY KEY (" + g.identifierList(pk.FieldNames()) + ")"
}

// ForeignKeyDefinition renders the multi line FOREIGN KEY clause, indented to be
// embedded in a CREATE TABLE statement.
func (g *Generator) ForeignKeyDefinition(fk schema.ForeignKey) string {
	var sb strings.Builder
	sb.WriteString("  FOREIGN KEY (")
	sb.WriteString(g.identifierList(fk.ChildFieldNames()))
	sb.WriteString(")\n   REFERENCES ")
	sb.WriteString(g.d.QuoteIdentifier(fk.ParentTableName()))
	sb.WriteString(" (")
	sb.WriteString(g.identifierList(fk.ParentFieldNames()))
	sb.WriteString(")\n   ON DELETE ")
	sb.WriteString(fk.OnDelete().SQL())
	sb.WriteString("\n   ON UPDATE ")
	sb.WriteString(fk.OnUpdate().SQL())
	return sb.String()
}

func (g *Generator) identifierList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = g.d.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ",")
}

// SQLToCreateTable renders the CREATE TABLE statement: the auto increment key
// column first, then the fields in insertion order, then the composite primary
// key and the foreign keys in declaration order.
func (g *Generator) SQLToCreateTable(t *schema.Table) string {
	items := make([]string, 0, t.FieldCount()+len(t.ForeignKeyList())+1)

	pk := t.PrimaryKey()
	if auto, ok := pk.AutoIncrement(); ok {
		items = append(items, "  "+g.PrimaryKeyFieldDefinition(auto))
	}
	for _, f := range t.Fields() {
		items = append(items, "  "+g.FieldDefinition(f))
	}
	if composite, ok := pk.Composite(); ok {
		items = append(items, "  "+g.PrimaryKeyDefinition(composite))
	}
	for _, fk := range t.ForeignKeyList() {
		items = append(items, g.ForeignKeyDefinition(fk))
	}

	var sb strings.Builder
	sb.WriteString("CREATE ")
	if t.IsTemporary() {
		sb.WriteString("TEMPORARY ")
	}
	sb.WriteString("TABLE ")
	sb.WriteString(g.d.QuoteIdentifier(t.TableName()))
	sb.WriteString(" (\n")
	sb.WriteString(strings.Join(items, ",\n"))
	sb.WriteString("\n);\n")
	return sb.String()
}

func (g *Generator) SQLToDropTable(t *schema.Table) string {
	return "DROP TABLE IF EXISTS " + g.d.QuoteIdentifier(t.TableName()) + ";\n"
}

// TableIndexes returns the indexes created along with t: the indexes of its
// indexed foreign keys followed by its own indexes.
func TableIndexes(t *schema.Table) []schema.Index {
	var out []schema.Index
	for _, fk := range t.ForeignKeyList() {
		if fk.IsIndexed() {
			out = append(out, fk.Index())
		}
	}
	return append(out, t.IndexList()...)
}

// SQLToCreateIndex panics if the index has no name; call GenerateName first.
func (g *Generator) SQLToCreateIndex(idx schema.Index) string {
	if idx.Name() == "" {
		panic("dialect: index on table " + idx.TableName() + " has no name")
	}
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if idx.IsUnique() {
		sb.WriteString("UNIQUE ")
	}
	sb.WriteString("INDEX ")
	sb.WriteString(g.d.QuoteIdentifier(idx.Name()))
	sb.WriteString(" ON ")
	sb.WriteString(g.d.QuoteIdentifier(idx.TableName()))
	sb.WriteString(" (")
	sb.WriteString(g.identifierList(idx.FieldNames()))
	sb.WriteString(")")
	return sb.String()
}

func (g *Generator) SQLToDropIndex(idx schema.Index) string {
	if idx.Name() == "" {
		panic("dialect: index on table " + idx.TableName() + " has no name")
	}
	return g.d.DropIndexSQL(idx)
}

// SQLToCreateTrigger renders the trigger. TEMPORARY is dropped by dialects not
// supporting temporary triggers.
func (g *Generator) SQLToCreateTrigger(tr schema.Trigger) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if tr.Temporary && g.d.SupportsTemporaryTrigger() {
		sb.WriteString("TEMPORARY ")
	}
	sb.WriteString("TRIGGER ")
	sb.WriteString(g.d.QuoteIdentifier(tr.Name))
	sb.WriteString(" ")
	sb.WriteString(string(tr.Event))
	sb.WriteString(" ON ")
	sb.WriteString(g.d.QuoteIdentifier(tr.TableName))
	sb.WriteString("\nFOR EACH ROW\nBEGIN\n")
	sb.WriteString(tr.Script)
	sb.WriteString("\nEND;")
	return sb.String()
}

func (g *Generator) SQLToDropTrigger(tr schema.Trigger) string {
	return "DROP TRIGGER IF EXISTS " + g.d.QuoteIdentifier(tr.Name) + ";"
}

func (g *Generator) SQLToCreateView(v *schema.View) string {
	return "CREATE VIEW " + g.d.QuoteIdentifier(v.Name()) + " AS\n" + v.SelectStatement().SQL(g.d, -1) + ";\n"
}

func (g *Generator) SQLToDropView(v *schema.View) string {
	return "DROP VIEW IF EXISTS " + g.d.QuoteIdentifier(v.Name()) + ";\n"
}

// SQLToInsertRows renders one INSERT statement per row of p, with literal values.
func (g *Generator) SQLToInsertRows(p *schema.TablePopulation) []string {
	head := "INSERT INTO " + g.d.QuoteIdentifier(p.TableName()) + " (" + g.identifierList(p.FieldNames()) + ") VALUES ("
	out := make([]string, 0, p.RowCount())
	for _, row := range p.Rows() {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = expression.LiteralSQL(v, g.d)
		}
		out = append(out, head+strings.Join(values, ",")+");")
	}
	return out
}

// SQLToCreateSchema renders the whole schema as a script, in creation order:
// tables with their indexes, triggers, views, then populations.
func (g *Generator) SQLToCreateSchema(s *schema.Schema) string {
	var sb strings.Builder
	for _, t := range s.Tables() {
		sb.WriteString(g.SQLToCreateTable(t))
		for _, idx := range TableIndexes(t) {
			sb.WriteString(g.SQLToCreateIndex(idx))
			sb.WriteString(";\n")
		}
		sb.WriteString("\n")
	}
	for _, tr := range s.Triggers() {
		sb.WriteString(g.SQLToCreateTrigger(tr))
		sb.WriteString("\n\n")
	}
	for _, v := range s.Views() {
		sb.WriteString(g.SQLToCreateView(v))
		sb.WriteString("\n")
	}
	for _, p := range s.TablePopulations() {
		for _, stmt := range g.SQLToInsertRows(p) {
			sb.WriteString(stmt)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// SQLToDropSchema renders the drop script: views then tables, both in reverse
// declaration order.
func (g *Generator) SQLToDropSchema(s *schema.Schema) string {
	var sb strings.Builder
	views := s.Views()
	for i := len(views) - 1; i >= 0; i-- {
		sb.WriteString(g.SQLToDropView(views[i]))
	}
	tables := s.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		sb.WriteString(g.SQLToDropTable(tables[i]))
	}
	return sb.String()
}

// CreateSchemaStatements returns the statements of SQLToCreateSchema one by
// one, trimmed and without trailing semicolon.
func (g *Generator) CreateSchemaStatements(s *schema.Schema) []string {
	var out []string
	for _, t := range s.Tables() {
		out = append(out, statementText(g.SQLToCreateTable(t)))
		for _, idx := range TableIndexes(t) {
			out = append(out, statementText(g.SQLToCreateIndex(idx)))
		}
	}
	for _, tr := range s.Triggers() {
		out = append(out, statementText(g.SQLToCreateTrigger(tr)))
	}
	for _, v := range s.Views() {
		out = append(out, statementText(g.SQLToCreateView(v)))
	}
	for _, p := range s.TablePopulations() {
		for _, stmt := range g.SQLToInsertRows(p) {
			out = append(out, statementText(stmt))
		}
	}
	return out
}

// DropSchemaStatements returns the statements of SQLToDropSchema one by one.
func (g *Generator) DropSchemaStatements(s *schema.Schema) []string {
	views, tables := s.Views(), s.Tables()
	out := make([]string, 0, len(views)+len(tables))
	for i := len(views) - 1; i >= 0; i-- {
		out = append(out, statementText(g.SQLToDropView(views[i])))
	}
	for i := len(tables) - 1; i >= 0; i-- {
		out = append(out, statementText(g.SQLToDropTable(tables[i])))
	}
	return out
}

// statementText trims one statement. A trigger keeps the semicolons of its body.
func statementText(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if strings.HasSuffix(stmt, "END;") {
		return stmt
	}
	return strings.TrimSuffix(stmt, ";")
}
