package driver

import (
	"context"
	"fmt"
	"strings"

	"mdtsql/internal/mdterror"
	"mdtsql/internal/schema"
)

// introspect runs read against the dialect introspecter and wraps its failure.
func introspect[T any](ctx context.Context, d *Driver, table, message string, read func(context.Context, string) (T, error)) mdterror.Expected[T] {
	if !d.conn.IsOpen() {
		return mdterror.Failure[T](d.fail(mdterror.New(message, mdterror.LevelCritical, source).
			Stack(mdterror.New("The connection is closed.", mdterror.LevelCritical, source))))
	}
	d.logger.DebugContext(ctx, "reading table structure", "connection", d.conn.Name(), "table", table)
	v, err := read(ctx, table)
	if err != nil {
		return mdterror.Failure[T](d.fail(d.errs.Wrap(err, message, source).WithLevel(mdterror.LevelCritical)))
	}
	d.lastErr = nil
	return mdterror.Value(v)
}

// FieldListFromDatabase reads the columns of table, the auto increment key
// field included.
func (d *Driver) FieldListFromDatabase(ctx context.Context, table string) mdterror.Expected[schema.FieldList] {
	return introspect(ctx, d, table, fmt.Sprintf("Reading fields of table '%s' failed.", table),
		func(ctx context.Context, table string) (schema.FieldList, error) {
			return d.dialect.Introspecter().FieldList(ctx, d.conn.DB(), table)
		})
}

func (d *Driver) IndexListFromDatabase(ctx context.Context, table string) mdterror.Expected[[]schema.Index] {
	return introspect(ctx, d, table, fmt.Sprintf("Reading indexes of table '%s' failed.", table),
		func(ctx context.Context, table string) ([]schema.Index, error) {
			return d.dialect.Introspecter().IndexList(ctx, d.conn.DB(), table)
		})
}

func (d *Driver) PrimaryKeyFromDatabase(ctx context.Context, table string) mdterror.Expected[schema.PrimaryKeyContainer] {
	return introspect(ctx, d, table, fmt.Sprintf("Reading primary key of table '%s' failed.", table),
		func(ctx context.Context, table string) (schema.PrimaryKeyContainer, error) {
			return d.dialect.Introspecter().PrimaryKey(ctx, d.conn.DB(), table)
		})
}

func (d *Driver) ForeignKeyListFromDatabase(ctx context.Context, table string) mdterror.Expected[[]schema.ForeignKey] {
	return introspect(ctx, d, table, fmt.Sprintf("Reading foreign keys of table '%s' failed.", table),
		func(ctx context.Context, table string) ([]schema.ForeignKey, error) {
			return d.dialect.Introspecter().ForeignKeyList(ctx, d.conn.DB(), table)
		})
}

// TableFromDatabase rebuilds a complete table definition from the database.
// Columns of a type outside the schema model are left out, together with the
// primary key, foreign keys and indexes using them.
func (d *Driver) TableFromDatabase(ctx context.Context, name string) mdterror.Expected[*schema.Table] {
	message := fmt.Sprintf("Reading table '%s' failed.", name)
	failed := func() mdterror.Expected[*schema.Table] {
		return mdterror.Failure[*schema.Table](d.fail(mdterror.New(message, mdterror.LevelCritical, source).
			WithCode(d.lastErr.Code()).
			Stack(d.lastErr)))
	}

	fields, err := d.FieldListFromDatabase(ctx, name).Get()
	if err != nil {
		return failed()
	}
	pk, err := d.PrimaryKeyFromDatabase(ctx, name).Get()
	if err != nil {
		return failed()
	}
	fks, err := d.ForeignKeyListFromDatabase(ctx, name).Get()
	if err != nil {
		return failed()
	}
	indexes, err := d.IndexListFromDatabase(ctx, name).Get()
	if err != nil {
		return failed()
	}

	skipped := make(map[string]bool)
	for _, f := range fields {
		if f.Type() == schema.UnknownType {
			skipped[strings.ToLower(f.Name())] = true
			d.logger.WarnContext(ctx, "skipping column of unsupported type", "table", name, "column", f.Name())
		}
	}
	usesSkipped := func(names []string) bool {
		for _, n := range names {
			if skipped[strings.ToLower(n)] {
				return true
			}
		}
		return false
	}

	t := schema.NewTable(name)
	auto, isAuto := pk.AutoIncrement()
	if isAuto {
		t.SetAutoIncrementPrimaryKey(auto.FieldName())
	}
	for _, f := range fields {
		if isAuto && strings.EqualFold(f.Name(), auto.FieldName()) {
			continue
		}
		if skipped[strings.ToLower(f.Name())] {
			continue
		}
		t.AddField(f)
	}
	if key, ok := pk.Composite(); ok {
		if usesSkipped(key.FieldNames()) {
			d.logger.WarnContext(ctx, "skipping primary key using a column of unsupported type", "table", name)
		} else {
			keyFields := make([]schema.Field, 0, key.FieldCount())
			for _, n := range key.FieldNames() {
				f, found := t.FindField(n)
				if !found {
					f = schema.NewField(n, schema.Integer)
				}
				keyFields = append(keyFields, f)
			}
			t.SetPrimaryKey(keyFields...)
		}
	}
	for _, fk := range fks {
		if usesSkipped(fk.ChildFieldNames()) {
			d.logger.WarnContext(ctx, "skipping foreign key using a column of unsupported type", "table", name, "references", fk.ParentTableName())
			continue
		}
		child := make([]schema.Field, 0, len(fk.ChildFieldNames()))
		for _, n := range fk.ChildFieldNames() {
			f, _ := t.FindField(n)
			child = append(child, f)
		}
		t.AddForeignKey(child, fk.ParentTableName(), fk.ParentFieldNames(), fk.Settings())
	}
	for _, idx := range indexes {
		if usesSkipped(idx.FieldNames()) {
			d.logger.WarnContext(ctx, "skipping index using a column of unsupported type", "table", name, "index", idx.Name())
			continue
		}
		t.AddIndex(idx)
	}
	return mdterror.Value(t)
}
