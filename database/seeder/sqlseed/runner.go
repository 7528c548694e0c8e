// Package sqlseed loads hand-written SQL fixtures into the development
// database. Scripts live under storage/sql and run inside a single
// transaction, so a broken fixture leaves nothing behind.
package sqlseed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/database"
)

const scriptDir = "storage/sql"

func SeedFromFile(conn *database.Connection, filePath string) error {
	path, err := resolveScriptPath(filePath)
	if err != nil {
		return err
	}

	script, err := loadScript(path)
	if err != nil {
		return err
	}

	if conn == nil {
		return errors.New("sqlseed: database connection is required")
	}

	statements, err := splitScript(script)
	if err != nil {
		return err
	}

	if len(statements) == 0 {
		return errors.New("sqlseed: SQL file did not contain any executable statements")
	}

	return runStatements(context.Background(), conn, statements)
}

// resolveScriptPath confines the given path to the scripts directory and
// rejects anything that is not a plain .sql file.
func resolveScriptPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("sqlseed: file path is required")
	}

	if filepath.IsAbs(path) {
		return "", errors.New("sqlseed: absolute file paths are not supported")
	}

	cleaned := filepath.Clean(path)

	if ext := strings.ToLower(filepath.Ext(cleaned)); ext != ".sql" {
		return "", fmt.Errorf("sqlseed: unsupported file extension %q", filepath.Ext(cleaned))
	}

	root := filepath.Clean(scriptDir)
	prefix := root + string(os.PathSeparator)

	resolved := cleaned
	if !strings.HasPrefix(resolved, prefix) {
		resolved = filepath.Join(root, resolved)
	}

	resolved = filepath.Clean(resolved)

	if !strings.HasPrefix(resolved, prefix) {
		return "", fmt.Errorf("sqlseed: file path must be within %s", root)
	}

	return resolved, nil
}

func loadScript(path string) ([]byte, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sqlseed: read file: %w", err)
	}

	if !utf8.Valid(contents) {
		return nil, fmt.Errorf("sqlseed: file %s contains non-UTF-8 data; export dumps as plain text", path)
	}

	if len(bytes.TrimSpace(contents)) == 0 {
		return nil, fmt.Errorf("sqlseed: file %s is empty", path)
	}

	return contents, nil
}

// statement is one executable unit of a script. COPY ... FROM STDIN
// statements carry their inline payload in stdin.
type statement struct {
	text   string
	stdin  []byte
	isCopy bool
}

var errScriptDone = errors.New("sqlseed: script consumed")

func splitScript(src []byte) ([]statement, error) {
	lex := newLexer(src)

	var statements []statement

	for {
		stmt, err := lex.readStatement()

		if errors.Is(err, errScriptDone) {
			return statements, nil
		}

		if err != nil {
			return nil, err
		}

		if stmt.text == "" {
			continue
		}

		statements = append(statements, stmt)
	}
}

// lexer walks a SQL script byte by byte, tracking line and column for
// error reports. Statement boundaries are semicolons outside quotes,
// comments and dollar-quoted blocks.
type lexer struct {
	src  []byte
	pos  int
	line int
	col  int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) done() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() byte {
	return l.src[l.pos]
}

func (l *lexer) rest() []byte {
	return l.src[l.pos:]
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}

		l.pos++
	}
}

func (l *lexer) readStatement() (statement, error) {
	l.skipFiller()

	if l.done() {
		return statement{}, errScriptDone
	}

	start := l.pos
	startLine, startCol := l.line, l.col

	for !l.done() {
		b := l.peek()

		switch {
		case l.lineCommentAhead():
			l.skipLineComment()
		case l.blockCommentAhead():
			l.skipBlockComment()
		case b == '\'':
			l.skipQuoted('\'')
		case b == '"':
			l.skipQuoted('"')
		case b == '$':
			if !l.skipDollarBlock() {
				l.advance(1)
			}
		case b == ';':
			text := strings.TrimSpace(string(l.src[start:l.pos]))
			l.advance(1)

			if text == "" || !copyFromStdin(text) {
				return statement{text: text}, nil
			}

			rows, err := l.readCopyRows()
			if err != nil {
				return statement{}, err
			}

			return statement{text: text, stdin: rows, isCopy: true}, nil
		default:
			l.advance(1)
		}
	}

	return statement{}, fmt.Errorf(
		"sqlseed: SQL file ended with an unterminated statement at line %d, column %d near %q",
		startLine, startCol, snippet(l.src[start:]),
	)
}

// skipFiller consumes whitespace and comments between statements.
func (l *lexer) skipFiller() {
	for !l.done() {
		switch {
		case isSpace(l.peek()):
			l.advance(1)
		case l.lineCommentAhead():
			l.skipLineComment()
		case l.blockCommentAhead():
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *lexer) lineCommentAhead() bool {
	return bytes.HasPrefix(l.rest(), []byte("--"))
}

func (l *lexer) blockCommentAhead() bool {
	return bytes.HasPrefix(l.rest(), []byte("/*"))
}

func (l *lexer) skipLineComment() {
	l.advance(2)

	for !l.done() {
		if l.peek() == '\n' {
			l.advance(1)
			return
		}

		l.advance(1)
	}
}

func (l *lexer) skipBlockComment() {
	l.advance(2)

	for !l.done() {
		if bytes.HasPrefix(l.rest(), []byte("*/")) {
			l.advance(2)
			return
		}

		l.advance(1)
	}
}

// skipQuoted consumes a quoted literal. Inside single quotes a backslash
// escapes the next byte, matching the escape-string literals pg_dump can
// emit.
func (l *lexer) skipQuoted(delim byte) {
	l.advance(1)

	for !l.done() {
		b := l.peek()

		if delim == '\'' && b == '\\' {
			l.advance(2)
			continue
		}

		l.advance(1)

		if b == delim {
			return
		}
	}
}

// skipDollarBlock consumes a $tag$ ... $tag$ quoted block. It reports
// false when the dollar sign does not open a valid tag, such as a $1
// placeholder.
func (l *lexer) skipDollarBlock() bool {
	tag, ok := dollarTag(l.rest())
	if !ok {
		return false
	}

	marker := []byte("$" + tag + "$")
	l.advance(len(marker))

	for !l.done() {
		if l.peek() == '$' && bytes.HasPrefix(l.rest(), marker) {
			l.advance(len(marker))
			return true
		}

		l.advance(1)
	}

	return true
}

// readCopyRows consumes the inline COPY payload up to the \. terminator
// pg_dump writes after the data block.
func (l *lexer) readCopyRows() ([]byte, error) {
	l.skipFiller()

	rest := l.rest()

	terminators := []struct {
		marker []byte
		keep   int
	}{
		{[]byte("\r\n\\.\r\n"), 2},
		{[]byte("\r\n\\.\n"), 2},
		{[]byte("\n\\.\r\n"), 1},
		{[]byte("\n\\.\n"), 1},
		{[]byte("\\.\r\n"), 0},
		{[]byte("\\.\n"), 0},
		{[]byte("\\."), 0},
	}

	for _, t := range terminators {
		idx := bytes.Index(rest, t.marker)
		if idx == -1 {
			continue
		}

		rows := append([]byte(nil), rest[:idx+t.keep]...)
		l.advance(idx + len(t.marker))

		return rows, nil
	}

	return nil, errors.New("sqlseed: COPY statement missing terminator")
}

func dollarTag(data []byte) (string, bool) {
	if len(data) < 2 || data[0] != '$' {
		return "", false
	}

	for end := 1; end < len(data); end++ {
		c := data[end]

		if c == '$' {
			return string(data[1:end]), true
		}

		if !isTagChar(c) {
			return "", false
		}
	}

	return "", false
}

func isTagChar(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\r' || b == '\t'
}

func copyFromStdin(text string) bool {
	upper := strings.ToUpper(text)

	return strings.HasPrefix(upper, "COPY ") && strings.Contains(upper, "FROM STDIN")
}

func snippet(data []byte) string {
	const maxRunes = 120

	flat := strings.Join(strings.Fields(string(data)), " ")
	if flat == "" {
		return "<empty>"
	}

	runes := []rune(flat)
	if len(runes) > maxRunes {
		flat = string(runes[:maxRunes]) + "..."
	}

	return flat
}

// runStatements executes the script on the raw pgx connection underneath
// gorm, inside one transaction. The raw connection is needed for COPY
// support.
func runStatements(ctx context.Context, conn *database.Connection, statements []statement) error {
	sqlDB, err := conn.Sql().DB()
	if err != nil {
		return fmt.Errorf("sqlseed: retrieve sql db: %w", err)
	}

	session, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("sqlseed: acquire connection: %w", err)
	}
	defer session.Close()

	return session.Raw(func(driverConn any) error {
		stdlibConn, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return errors.New("sqlseed: unexpected driver connection type")
		}

		return applyAll(ctx, stdlibConn.Conn(), statements)
	})
}

func applyAll(ctx context.Context, pgxConn *pgx.Conn, statements []statement) (err error) {
	tx, err := pgxConn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("sqlseed: begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("sqlseed: rollback failed: %w", rbErr))
		}
	}()

	for idx, stmt := range statements {
		if applyErr := apply(ctx, tx, stmt); applyErr != nil {
			err = fmt.Errorf("sqlseed: statement %d near %q failed: %w", idx+1, snippet([]byte(stmt.text)), applyErr)
			return err
		}
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		err = fmt.Errorf("sqlseed: commit failed: %w", commitErr)
		return err
	}

	return nil
}

func apply(ctx context.Context, tx pgx.Tx, stmt statement) error {
	if stmt.isCopy {
		_, err := tx.Conn().PgConn().CopyFrom(ctx, bytes.NewReader(stmt.stdin), stmt.text)
		return err
	}

	_, err := tx.Exec(ctx, stmt.text)
	return err
}
