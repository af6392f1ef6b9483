// Package mysql is the MySQL dialect: backtick identifiers, charset based
// collations, AUTO_INCREMENT keys and reverse engineering through
// information_schema and SHOW CREATE TABLE.
package mysql

import (
	"regexp"
	"strings"

	"mdtsql/internal/dialect"
	"mdtsql/internal/schema"
)

// DefaultCharset prefixes collation names when no charset is configured.
const DefaultCharset = "utf8mb4"

// defaultVarcharLength is used for Varchar fields without a length, which MySQL rejects.
const defaultVarcharLength = 255

func init() {
	dialect.RegisterDialect(dialect.MySQL, func() dialect.Dialect {
		return New()
	})
}

type Option func(*Dialect)

// WithCharset sets the charset collation names are built from.
func WithCharset(charset string) Option {
	return func(d *Dialect) {
		if cs := strings.TrimSpace(charset); cs != "" {
			d.charset = strings.ToLower(cs)
		}
	}
}

type Dialect struct {
	charset string
}

func New(opts ...Option) *Dialect {
	d := &Dialect{charset: DefaultCharset}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dialect) Name() dialect.Type {
	return dialect.MySQL
}

func (d *Dialect) Charset() schema.Charset {
	return schema.Charset{Name: d.charset}
}

// QuoteIdentifier wraps name in backticks, doubling embedded ones.
func (d *Dialect) QuoteIdentifier(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "`", "``")
	return "`" + name + "`"
}

// QuoteString quotes value for the default sql_mode, where backslash escapes are active.
func (d *Dialect) QuoteString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + len(value)/10 + 2)

	b.WriteByte('\'')
	for _, char := range value {
		switch char {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A':
			b.WriteString(`\Z`)
		default:
			b.WriteRune(char)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// FieldTypeDefinition gives Varchar fields without length a length of 255.
func (d *Dialect) FieldTypeDefinition(f schema.Field) string {
	if f.Type() == schema.Varchar && !f.HasLength() {
		f.SetLength(defaultVarcharLength)
	}
	return dialect.TypeWithLength(f)
}

// CollationDefinition renders <charset>_bin for case sensitive collations,
// <charset>_<language>_ci or <charset>_general_ci otherwise.
func (d *Dialect) CollationDefinition(c schema.Collation) string {
	if c.IsCaseSensitive() {
		return "COLLATE " + d.charset + "_bin"
	}
	if lang := strings.ToLower(strings.TrimSpace(c.Language)); lang != "" {
		return "COLLATE " + d.charset + "_" + lang + "_ci"
	}
	return "COLLATE " + d.charset + "_general_ci"
}

var reLanguageCollation = regexp.MustCompile(`^[a-z0-9]+_([a-z]+)_ci$`)

// collationFromName is the inverse of CollationDefinition. Collations it did not
// produce, like the server default utf8mb4_0900_ai_ci, give a null collation.
func collationFromName(name string) schema.Collation {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "":
		return schema.Collation{}
	case strings.HasSuffix(name, "_bin"):
		return schema.NewCollation(true)
	case strings.HasSuffix(name, "_general_ci"):
		return schema.NewCollation(false)
	}
	if m := reLanguageCollation.FindStringSubmatch(name); m != nil {
		c := schema.NewCollation(false)
		c.Language = m[1]
		return c
	}
	return schema.Collation{}
}

func (d *Dialect) AutoIncrementKeyword() string {
	return "AUTO_INCREMENT"
}

// AllowsRequiredNullDefault is false: MySQL rejects NOT NULL DEFAULT NULL.
func (d *Dialect) AllowsRequiredNullDefault() bool {
	return false
}

func (d *Dialect) DropIndexSQL(idx schema.Index) string {
	return "DROP INDEX " + d.QuoteIdentifier(idx.Name()) + " ON " + d.QuoteIdentifier(idx.TableName())
}

// SupportsTemporaryTrigger is false, MySQL triggers always belong to the database.
func (d *Dialect) SupportsTemporaryTrigger() bool {
	return false
}

func (d *Dialect) Introspecter() dialect.Introspecter {
	return &introspecter{d: d}
}
