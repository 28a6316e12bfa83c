package complete

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tentacle-scylla/sqlcomplete/pkg/ast"
	"github.com/tentacle-scylla/sqlcomplete/pkg/parse"
	"github.com/tentacle-scylla/sqlcomplete/pkg/schema"
	"github.com/tentacle-scylla/sqlcomplete/pkg/types"
)

// errExpectedColumnName is the parser message for a broken INSERT column list.
const errExpectedColumnName = "EXPECTED COLUMN NAME"

// Complete returns completion candidates for the cursor at pos in sql.
// A nil schema is treated as empty.
func Complete(sql string, pos types.Position, s *schema.Schema) (*CompletionResult, error) {
	return CompleteWithOptions(sql, pos, s, DefaultOptions())
}

// CompleteWithOptions returns completion candidates with custom options.
// Syntax errors in sql are reported in the result; any other parser error
// is returned as is.
func CompleteWithOptions(sql string, pos types.Position, s *schema.Schema, opts *CompletionOptions) (*CompletionResult, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if s == nil {
		s = schema.NewSchema()
	}
	parser := opts.Parser
	if parser == nil {
		parser = parse.Parser{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := newCompleter(sql, pos, s, parser, logger.With(zap.String("component", "complete")))
	c.jupyter = opts.JupyterLabMode
	return c.complete()
}

// completer holds the state of one completion request.
type completer struct {
	sql    string
	pos    types.Position
	schema *schema.Schema
	parser Parser
	logger *zap.Logger

	target    string
	lastToken string
	jupyter   bool
	// spaceTrigger and dotTrigger record what completion was triggered by.
	spaceTrigger bool
	dotTrigger   bool

	candidates []CompletionItem
}

func newCompleter(sql string, pos types.Position, s *schema.Schema, parser Parser, logger *zap.Logger) *completer {
	target := TrimAfterCursor(sql, pos)
	token := LastToken(target)
	return &completer{
		sql:          sql,
		pos:          pos,
		schema:       s,
		parser:       parser,
		logger:       logger,
		target:       target,
		lastToken:    token,
		spaceTrigger: token == "" && strings.HasSuffix(target, " "),
		dotTrigger:   strings.HasSuffix(token, "."),
	}
}

func (c *completer) complete() (*CompletionResult, error) {
	c.logger.Debug("completing",
		zap.String("target", c.target),
		zap.String("lastToken", c.lastToken),
		zap.Int("line", c.pos.Line),
		zap.Int("column", c.pos.Column),
	)

	stmt, err := c.parser.Parse(c.target)
	if err == nil {
		c.completeStatement(stmt)
		c.logger.Debug("completed", zap.Int("candidates", len(c.candidates)))
		return &CompletionResult{Candidates: c.result()}, nil
	}

	syntaxErr, ok := types.AsSyntaxError(err)
	if !ok {
		return nil, err
	}
	c.logger.Debug("strict parse failed", zap.String("error", syntaxErr.Message))

	if err := c.completeSyntaxError(syntaxErr); err != nil {
		return nil, err
	}
	c.logger.Debug("completed", zap.Int("candidates", len(c.candidates)))
	return &CompletionResult{
		Candidates: c.result(),
		Error: &ErrorDescriptor{
			Label:  syntaxErr.Name(),
			Detail: syntaxErr.Message,
			Line:   syntaxErr.Location.Start.Line,
			Offset: syntaxErr.Location.Start.Offset,
		},
	}, nil
}

func (c *completer) result() []CompletionItem {
	if c.candidates == nil {
		return []CompletionItem{}
	}
	return c.candidates
}

// add accumulates items in order. Keywords must extend the typed token.
// Items from different sources are kept even when identical.
func (c *completer) add(items ...CompletionItem) {
	for _, item := range items {
		if item.Kind == KindKeyword && !strings.HasPrefix(item.Label, c.lastToken) {
			continue
		}
		if c.jupyter {
			item = c.withTrigger(item)
		}
		c.candidates = append(c.candidates, item)
	}
}

// withTrigger prefixes insert and filter text with the character that
// triggered completion, for clients that filter on it.
func (c *completer) withTrigger(item CompletionItem) CompletionItem {
	var prefix string
	switch {
	case c.spaceTrigger:
		prefix = " "
	case c.dotTrigger:
		prefix = "."
	default:
		return item
	}
	item.InsertText = prefix + item.GetInsertText()
	item.FilterText = prefix + item.GetFilterText()
	return item
}

func (c *completer) completeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		c.add(BasicKeywordCandidates()...)
	case *ast.DeleteStatement:
		c.completeDelete(s)
	case *ast.SelectStatement:
		c.completeSelect(s)
	default:
		c.logger.Debug("no completions for statement", zap.Stringer("type", stmt.Type()))
	}
}

func (c *completer) completeDelete(stmt *ast.DeleteStatement) {
	if stmt.Table != nil && IsPosInLocation(stmt.Table.Location, c.pos) {
		c.add(TableCandidates(c.schema.Tables, c.lastToken, true)...)
		return
	}
	if ref, ok := stmt.Where.(*ast.ColumnRef); ok && ColumnRefByPos([]*ast.ColumnRef{ref}, c.pos) != nil {
		c.add(UnscopedColumnCandidates(c.schema.Tables, c.lastToken)...)
	}
}

func (c *completer) completeSelect(stmt *ast.SelectStatement) {
	c.add(BasicKeywordCandidates()...)
	if _, ok := stmt.Columns.(ast.ColumnList); ok {
		c.add(makeKeywordItem("FROM"), makeKeywordItem("AS"))
	}
	if !stmt.Distinct {
		c.add(makeKeywordItem("DISTINCT"))
	}

	ref := FindColumnAtPosition(stmt, c.pos)
	switch {
	case ref == nil:
		if stmt.From != nil {
			nodes := AllNestedFromNodes(stmt.From.Tables)
			if node := NearestFromTableFromPos(nodes, c.pos); node != nil {
				c.add(StructuralJoinCandidates(node, c.schema.Tables, c.lastToken)...)
			}
		}
	case ref.Table != "":
		nodes := c.recoverFromNodes()
		tables := c.tablesWithSubqueries(nodes)
		c.add(ScopedColumnCandidates(nodes, tables, c.lastToken)...)
	default:
		nodes := c.recoverFromNodes()
		c.add(AliasCandidates(nodes, c.lastToken)...)
		c.add(TableCandidates(c.tablesWithSubqueries(nodes), c.lastToken, true)...)
		c.add(FunctionCandidates(c.schema.Functions, c.lastToken)...)
	}
}

// recoverFromNodes returns the flattened FROM items of the whole input,
// or nil when no FROM clause can be recovered.
func (c *completer) recoverFromNodes() []ast.FromTableNode {
	from, err := c.parser.ParseFromClause(c.sql)
	if err != nil || from == nil {
		return nil
	}
	return AllNestedFromNodes(from.Tables)
}

func (c *completer) tablesWithSubqueries(nodes []ast.FromTableNode) []*schema.Table {
	tables := append([]*schema.Table(nil), c.schema.Tables...)
	return append(tables, CreateTablesFromFromNodes(nodes)...)
}

func (c *completer) completeSyntaxError(syntaxErr *types.SyntaxError) error {
	literals := syntaxErr.ExpectedLiterals()

	from, err := c.parser.ParseFromClause(c.sql)
	if err != nil || from == nil {
		if syntaxErr.Message == errExpectedColumnName {
			c.add(UnscopedColumnCandidates(c.schema.Tables, c.lastToken)...)
			return nil
		}
		c.add(KeywordCandidatesFromExpected(literals)...)
		c.add(FunctionCandidates(c.schema.Functions, c.lastToken)...)
		c.add(TableCandidates(c.schema.Tables, c.lastToken, false)...)
		return nil
	}

	nodes := AllNestedFromNodes(from.Tables)
	nearest := NearestFromTableFromPos(nodes, c.pos)
	if sub, ok := nearest.(*ast.IncompleteSubqueryNode); ok {
		return c.completeSubquery(sub)
	}

	tables := c.tablesWithSubqueries(nodes)
	c.add(SelectAllColumnsCandidates(nodes, tables, c.lastToken)...)
	c.add(KeywordCandidatesFromExpected(literals)...)
	c.add(FunctionCandidates(c.schema.Functions, c.lastToken)...)
	c.add(ScopedColumnCandidates(nodes, tables, c.lastToken)...)
	c.add(AliasCandidates(nodes, c.lastToken)...)
	c.add(TableCandidates(tables, c.lastToken, true)...)

	if nearest == nil {
		nearest = lastTableNode(nodes)
	}
	c.add(InferredJoinCandidates(literals, nearest, c.schema.Tables, c.lastToken)...)
	return nil
}

// completeSubquery completes inside a FROM subquery that does not parse,
// with the cursor moved into the subquery's own coordinates.
func (c *completer) completeSubquery(sub *ast.IncompleteSubqueryNode) error {
	start := sub.Location.Start
	pos := types.Position{
		Line:   max(c.pos.Line-(start.Line-1), 0),
		Column: max(c.pos.Column-start.Column+1, 0),
	}
	c.logger.Debug("completing incomplete subquery",
		zap.String("text", sub.Text),
		zap.Int("line", pos.Line),
		zap.Int("column", pos.Column),
	)

	nested := newCompleter(sub.Text, pos, c.schema, c.parser, c.logger)
	res, err := nested.complete()
	if err != nil {
		return err
	}
	c.add(res.Candidates...)
	return nil
}

func lastTableNode(nodes []ast.FromTableNode) ast.FromTableNode {
	for i := len(nodes) - 1; i >= 0; i-- {
		if t, ok := nodes[i].(*ast.TableNode); ok {
			return t
		}
	}
	return nil
}
