package schemafile

// document is the top-level schema file, shared by the TOML and YAML formats.
type document struct {
	Tables      []docTable      `toml:"tables" yaml:"tables"`
	Views       []docView       `toml:"views" yaml:"views"`
	Triggers    []docTrigger    `toml:"triggers" yaml:"triggers"`
	Populations []docPopulation `toml:"populations" yaml:"populations"`
}

// docTable maps [[tables]].
type docTable struct {
	Name        string          `toml:"name" yaml:"name"`
	Temporary   bool            `toml:"temporary" yaml:"temporary"`
	PrimaryKey  docPrimaryKey   `toml:"primary_key" yaml:"primary_key"`
	Columns     []docColumn     `toml:"columns" yaml:"columns"`
	ForeignKeys []docForeignKey `toml:"foreign_keys" yaml:"foreign_keys"`
	Indexes     []docIndex      `toml:"indexes" yaml:"indexes"`
}

// docPrimaryKey maps [tables.primary_key]. AutoIncrement and Columns are
// mutually exclusive.
type docPrimaryKey struct {
	AutoIncrement string   `toml:"auto_increment" yaml:"auto_increment"`
	Columns       []string `toml:"columns" yaml:"columns"`
}

// docColumn maps [[tables.columns]].
type docColumn struct {
	Name          string `toml:"name" yaml:"name"`
	Type          string `toml:"type" yaml:"type"`
	Length        int    `toml:"length" yaml:"length"`
	Unsigned      bool   `toml:"unsigned" yaml:"unsigned"`
	Required      bool   `toml:"required" yaml:"required"`
	Unique        bool   `toml:"unique" yaml:"unique"`
	Default       any    `toml:"default" yaml:"default"`
	CaseSensitive *bool  `toml:"case_sensitive" yaml:"case_sensitive"`
}

// docForeignKey maps [[tables.foreign_keys]].
type docForeignKey struct {
	Columns     []string `toml:"columns" yaml:"columns"`
	References  string   `toml:"references" yaml:"references"`
	RefColumns  []string `toml:"ref_columns" yaml:"ref_columns"`
	OnDelete    string   `toml:"on_delete" yaml:"on_delete"`
	OnUpdate    string   `toml:"on_update" yaml:"on_update"`
	CreateIndex bool     `toml:"create_index" yaml:"create_index"`
}

// docIndex maps [[tables.indexes]]. An empty name is generated from the columns.
type docIndex struct {
	Name    string   `toml:"name" yaml:"name"`
	Columns []string `toml:"columns" yaml:"columns"`
	Unique  bool     `toml:"unique" yaml:"unique"`
}

// docView maps [[views]].
type docView struct {
	Name    string         `toml:"name" yaml:"name"`
	Table   string         `toml:"table" yaml:"table"`
	Alias   string         `toml:"alias" yaml:"alias"`
	Columns []docSelect    `toml:"columns" yaml:"columns"`
	Joins   []docJoin      `toml:"joins" yaml:"joins"`
	Where   []docCondition `toml:"where" yaml:"where"`
}

// docSelect is one selected column. A field named * selects every column of
// the table.
type docSelect struct {
	Table string `toml:"table" yaml:"table"`
	Field string `toml:"field" yaml:"field"`
	Alias string `toml:"alias" yaml:"alias"`
}

type docJoin struct {
	Kind  string     `toml:"kind" yaml:"kind"`
	Table string     `toml:"table" yaml:"table"`
	Alias string     `toml:"alias" yaml:"alias"`
	On    [][]string `toml:"on" yaml:"on"`
}

// docCondition compares a field with a literal value. Conditions of a view are
// joined with AND.
type docCondition struct {
	Table string `toml:"table" yaml:"table"`
	Field string `toml:"field" yaml:"field"`
	Op    string `toml:"op" yaml:"op"`
	Value any    `toml:"value" yaml:"value"`
}

// docTrigger maps [[triggers]].
type docTrigger struct {
	Name      string `toml:"name" yaml:"name"`
	Temporary bool   `toml:"temporary" yaml:"temporary"`
	Event     string `toml:"event" yaml:"event"`
	Table     string `toml:"table" yaml:"table"`
	Script    string `toml:"script" yaml:"script"`
}

// docPopulation maps [[populations]].
type docPopulation struct {
	Name    string   `toml:"name" yaml:"name"`
	Table   string   `toml:"table" yaml:"table"`
	Columns []string `toml:"columns" yaml:"columns"`
	Rows    [][]any  `toml:"rows" yaml:"rows"`
}
