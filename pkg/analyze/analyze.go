package analyze

import (
	"fmt"
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// Analyze performs full analysis of a SQL statement with optional schema validation.
func Analyze(sql string, opts *AnalyzeOptions) *Result {
	return analyze(parse.Check(sql), opts)
}

// AnalyzeMultiple analyzes every statement of input. All locations are
// relative to the whole input.
func AnalyzeMultiple(input string, opts *AnalyzeOptions) []*Result {
	var results []*Result
	for _, pr := range parse.Multiple(input) {
		result := analyze(pr, opts)
		result.shift(pr.Start)
		results = append(results, result)
	}
	return results
}

func analyze(pr *parse.Result, opts *AnalyzeOptions) *Result {
	if opts == nil {
		opts = DefaultOptions()
	}

	result := &Result{
		Query:        pr.Input,
		Type:         pr.Type,
		IsValid:      pr.IsValid(),
		SyntaxErrors: pr.Errors,
		References:   NewReferences(),
		SchemaErrors: make([]*SchemaError, 0),
		Warnings:     make([]*Warning, 0),
	}

	// If there are syntax errors, don't proceed with schema validation
	if !result.IsValid {
		return result
	}

	e := newReferenceExtractor()
	e.statement(pr.Statement)
	result.References = e.refs

	if opts.Schema != nil {
		v := &validator{result: result, schema: opts.Schema, resolved: make(map[*TableRef]*schema.Table)}
		v.validate(pr.Statement, e.uses)
	}

	// Function validation (always, doesn't require schema)
	result.SchemaErrors = append(result.SchemaErrors, ValidateFunctionCalls(e.refs.FunctionCalls)...)
	checkUnknownFunctions(result, opts.Schema)

	generateWarnings(result, pr.Statement, opts)
	return result
}

// validator resolves the references of one statement against a schema.
type validator struct {
	result   *Result
	schema   *schema.Schema
	resolved map[*TableRef]*schema.Table
}

func (v *validator) validate(stmt ast.Statement, uses []columnUse) {
	refs := v.result.References
	if len(refs.Tables) == 0 {
		return
	}

	switch s := stmt.(type) {
	case *ast.CreateTableStatement:
		target := refs.Tables[0]
		if findTable(v.schema, target) != nil && !s.IfNotExists {
			v.result.Warnings = append(v.result.Warnings, &Warning{
				Type:       WarnTableExists,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("Table '%s' already exists", target.Table),
				Suggestion: "Use CREATE TABLE IF NOT EXISTS",
				Location:   copyLocation(&target.Location),
			})
		}
		return
	case *ast.DropTableStatement:
		if findTable(v.schema, refs.Tables[0]) == nil && s.IfExists {
			return
		}
	}

	for _, ref := range refs.Tables {
		tbl := findTable(v.schema, ref)
		if tbl == nil {
			v.unknownTable(ref)
			continue
		}
		v.resolved[ref] = tbl
	}

	if s, ok := stmt.(*ast.AlterTableStatement); ok {
		if tbl := v.resolved[refs.Tables[0]]; tbl != nil {
			v.validateAlter(s, tbl)
		}
		return
	}

	for _, use := range uses {
		v.checkColumn(use)
	}
}

func (v *validator) unknownTable(ref *TableRef) {
	var names []string
	for _, t := range v.schema.Tables {
		names = append(names, t.TableName)
	}
	v.result.SchemaErrors = append(v.result.SchemaErrors, &SchemaError{
		Type:       ErrUnknownTable,
		Message:    fmt.Sprintf("Table '%s' does not exist", qualifiedName(ref)),
		Suggestion: didYouMean(parse.SuggestName(ref.Table, names)),
		Object:     ref.Table,
		Location:   copyLocation(&ref.Location),
	})
}

func (v *validator) validateAlter(s *ast.AlterTableStatement, tbl *schema.Table) {
	loc := copyLocation(&s.Location)
	switch s.Action {
	case ast.AlterAddColumn:
		if s.Column != nil && tbl.HasColumn(s.Column.Name) {
			v.duplicateColumn(s.Column.Name, tbl, loc)
		}
	case ast.AlterDropColumn, ast.AlterAlterColumn:
		if !tbl.HasColumn(s.Name) {
			v.unknownColumn(s.Name, []*schema.Table{tbl}, loc)
		}
	case ast.AlterRenameColumn:
		if !tbl.HasColumn(s.Name) {
			v.unknownColumn(s.Name, []*schema.Table{tbl}, loc)
		} else if tbl.HasColumn(s.NewName) && !strings.EqualFold(s.Name, s.NewName) {
			v.duplicateColumn(s.NewName, tbl, loc)
		}
	}
}

func (v *validator) duplicateColumn(name string, tbl *schema.Table, loc *types.Location) {
	v.result.SchemaErrors = append(v.result.SchemaErrors, &SchemaError{
		Type:     ErrDuplicateColumn,
		Message:  fmt.Sprintf("Column '%s' already exists in table '%s'", name, tbl.TableName),
		Object:   name,
		Location: loc,
	})
}

// checkColumn resolves one column reference. References that may belong to
// a derived table or an unknown table are not reported.
func (v *validator) checkColumn(use columnUse) {
	ref := use.ref
	if ref.Table != "" {
		v.checkQualifiedColumn(use)
		return
	}
	if ref.Column == "*" {
		return
	}

	name := firstSegment(ref.Column)
	var innermost []*schema.Table
	for sc := use.scope; sc != nil; sc = sc.parent {
		if containsFold(sc.aliases, name) {
			return
		}
		tables, opaque := v.scopeTables(sc)
		if innermost == nil {
			innermost = tables
		}

		var matches []*schema.Table
		for _, tbl := range tables {
			if tbl.HasColumn(name) {
				matches = append(matches, tbl)
			}
		}
		switch {
		case len(matches) == 1:
			return
		case len(matches) > 1:
			var names []string
			for _, tbl := range matches {
				names = append(names, tbl.TableName)
			}
			v.result.SchemaErrors = append(v.result.SchemaErrors, &SchemaError{
				Type:       ErrAmbiguousColumn,
				Message:    fmt.Sprintf("Column '%s' is ambiguous, found in tables %s", name, strings.Join(names, ", ")),
				Suggestion: fmt.Sprintf("Qualify the column, e.g. '%s.%s'", names[0], name),
				Object:     name,
				Location:   copyLocation(ref.Location),
			})
			return
		case opaque:
			return
		}
	}

	if len(innermost) == 0 {
		return
	}
	v.unknownColumn(name, innermost, copyLocation(ref.Location))
}

func (v *validator) checkQualifiedColumn(use columnUse) {
	ref := use.ref
	column := ref.Column
	tbl, found := v.qualifier(use.scope, ref.Table)
	if !found && strings.Contains(column, ".") {
		// database.table.column
		tbl, found = v.databaseQualifier(use.scope, ref.Table, firstSegment(column))
		column = column[strings.Index(column, ".")+1:]
	}
	if !found {
		v.result.SchemaErrors = append(v.result.SchemaErrors, &SchemaError{
			Type:       ErrUnknownTable,
			Message:    fmt.Sprintf("Unknown table or alias '%s'", ref.Table),
			Suggestion: didYouMean(parse.SuggestName(ref.Table, v.qualifierNames(use.scope))),
			Object:     ref.Table,
			Location:   copyLocation(ref.Location),
		})
		return
	}
	if tbl == nil || column == "*" {
		return
	}
	if name := firstSegment(column); !tbl.HasColumn(name) {
		v.unknownColumn(name, []*schema.Table{tbl}, copyLocation(ref.Location))
	}
}

func (v *validator) unknownColumn(name string, tables []*schema.Table, loc *types.Location) {
	var tableNames, columns []string
	for _, tbl := range tables {
		tableNames = append(tableNames, tbl.TableName)
		columns = append(columns, tbl.ColumnNames()...)
	}
	message := fmt.Sprintf("Column '%s' not found in table '%s'", name, tableNames[0])
	if len(tableNames) > 1 {
		message = fmt.Sprintf("Column '%s' not found in tables %s", name, strings.Join(tableNames, ", "))
	}
	v.result.SchemaErrors = append(v.result.SchemaErrors, &SchemaError{
		Type:       ErrUnknownColumn,
		Message:    message,
		Suggestion: didYouMean(parse.SuggestName(name, columns)),
		Object:     name,
		Location:   loc,
	})
}

// scopeTables returns the resolved tables of sc. opaque is true when sc
// also reads from derived or unknown tables.
func (v *validator) scopeTables(sc *scope) (tables []*schema.Table, opaque bool) {
	for _, ref := range sc.tables {
		if tbl := v.resolved[ref]; tbl != nil {
			tables = append(tables, tbl)
		} else {
			opaque = true
		}
	}
	return tables, opaque || len(sc.subqueries) > 0
}

// qualifier resolves a column qualifier to a FROM item. The table is nil
// for derived tables and unknown tables.
func (v *validator) qualifier(sc *scope, name string) (*schema.Table, bool) {
	for ; sc != nil; sc = sc.parent {
		for _, ref := range sc.tables {
			if strings.EqualFold(ref.Alias, name) || (ref.Alias == "" && strings.EqualFold(ref.Table, name)) {
				return v.resolved[ref], true
			}
		}
		if containsFold(sc.subqueries, name) {
			return nil, true
		}
	}
	return nil, false
}

func (v *validator) databaseQualifier(sc *scope, database, table string) (*schema.Table, bool) {
	for ; sc != nil; sc = sc.parent {
		for _, ref := range sc.tables {
			if ref.Alias == "" && strings.EqualFold(ref.Database, database) && strings.EqualFold(ref.Table, table) {
				return v.resolved[ref], true
			}
		}
	}
	return nil, false
}

func (v *validator) qualifierNames(sc *scope) []string {
	var names []string
	for ; sc != nil; sc = sc.parent {
		for _, ref := range sc.tables {
			if ref.Alias != "" {
				names = append(names, ref.Alias)
			} else {
				names = append(names, ref.Table)
			}
		}
		for _, alias := range sc.subqueries {
			if alias != "" {
				names = append(names, alias)
			}
		}
	}
	return names
}

// findTable matches ref against the schema, comparing each qualifier the
// reference spells out.
func findTable(s *schema.Schema, ref *TableRef) *schema.Table {
	for _, t := range s.Tables {
		if !strings.EqualFold(t.TableName, ref.Table) {
			continue
		}
		if ref.Database != "" && !strings.EqualFold(t.Database, ref.Database) {
			continue
		}
		if ref.Catalog != "" && !strings.EqualFold(t.Catalog, ref.Catalog) {
			continue
		}
		return t
	}
	return nil
}

// checkUnknownFunctions warns about calls to functions that are neither
// built in nor listed by the schema. Schemas without functions are skipped.
func checkUnknownFunctions(result *Result, s *schema.Schema) {
	if s == nil || len(s.Functions) == 0 {
		return
	}
	known := make(map[string]bool, len(s.Functions))
	for _, f := range s.Functions {
		known[strings.ToLower(f.Name)] = true
	}
	reported := make(map[string]bool)
	for _, call := range result.References.FunctionCalls {
		if known[call.Name] || builtinFunctions[call.Name] != nil || reported[call.Name] {
			continue
		}
		reported[call.Name] = true
		var names []string
		for _, f := range s.Functions {
			names = append(names, f.Name)
		}
		result.Warnings = append(result.Warnings, &Warning{
			Type:       WarnUnknownFunction,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("Function '%s' is not known", call.Name),
			Suggestion: didYouMean(parse.SuggestName(call.Name, names)),
			Location:   copyLocation(call.Location),
		})
	}
}

// generateWarnings generates warnings based on statement characteristics.
func generateWarnings(result *Result, stmt ast.Statement, opts *AnalyzeOptions) {
	refs := result.References

	switch s := stmt.(type) {
	case *ast.UpdateStatement:
		if s.Where == nil {
			result.Warnings = append(result.Warnings, &Warning{
				Type:       WarnNoWhereClause,
				Severity:   SeverityWarning,
				Message:    "UPDATE has no WHERE clause and will modify every row",
				Suggestion: "Add a WHERE clause to limit the affected rows",
				Location:   copyLocation(&s.Location),
			})
		}
	case *ast.DeleteStatement:
		if s.Where == nil {
			result.Warnings = append(result.Warnings, &Warning{
				Type:       WarnNoWhereClause,
				Severity:   SeverityWarning,
				Message:    "DELETE has no WHERE clause and will remove every row",
				Suggestion: "Add a WHERE clause to limit the affected rows",
				Location:   copyLocation(&s.Location),
			})
		}
	case *ast.SelectStatement:
		if opts.WarnOnSelectStar && refs.HasSelectStar {
			result.Warnings = append(result.Warnings, &Warning{
				Type:       WarnSelectStar,
				Severity:   SeverityInfo,
				Message:    "SELECT * retrieves all columns",
				Suggestion: "Consider selecting only needed columns",
				Location:   copyLocation(&s.Location),
			})
		}
		if opts.WarnOnNoLimit && s.From != nil && s.Limit == nil {
			result.Warnings = append(result.Warnings, &Warning{
				Type:       WarnNoLimit,
				Severity:   SeverityInfo,
				Message:    "Query has no LIMIT clause",
				Suggestion: "Consider adding LIMIT to avoid fetching too many rows",
				Location:   copyLocation(&s.Location),
			})
		}
		if opts.LargeLimitThreshold > 0 && refs.Limit > opts.LargeLimitThreshold {
			result.Warnings = append(result.Warnings, &Warning{
				Type:       WarnLargeLimit,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("LIMIT %d may return too many rows", refs.Limit),
				Suggestion: fmt.Sprintf("Consider using a smaller limit (threshold: %d)", opts.LargeLimitThreshold),
				Location:   copyLocation(&s.Location),
			})
		}
	}
}

// shift moves every location from statement-relative to input-relative,
// given the statement's start within the input.
func (r *Result) shift(start types.Point) {
	move := func(loc *types.Location) {
		if loc == nil {
			return
		}
		loc.Start = shiftPoint(loc.Start, start)
		loc.End = shiftPoint(loc.End, start)
	}
	for _, t := range r.References.Tables {
		move(&t.Location)
	}
	for _, c := range r.References.FunctionCalls {
		move(c.Location)
	}
	for _, e := range r.SchemaErrors {
		move(e.Location)
	}
	for _, w := range r.Warnings {
		move(w.Location)
	}
}

func shiftPoint(p, start types.Point) types.Point {
	if p.Line == 1 {
		p.Column += start.Column - 1
	}
	p.Line += start.Line - 1
	p.Offset += start.Offset
	return p
}

func qualifiedName(ref *TableRef) string {
	name := ref.Table
	if ref.Database != "" {
		name = ref.Database + "." + name
	}
	if ref.Catalog != "" {
		name = ref.Catalog + "." + name
	}
	return name
}

func didYouMean(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", name)
}

func firstSegment(name string) string {
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

func containsFold(list []string, name string) bool {
	for _, s := range list {
		if s != "" && strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
