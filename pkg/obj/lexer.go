package obj

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types produced by the line lexer.
const (
	tokenWord = iota
	tokenNewline
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	// Patterns use raw whitespace bytes so no escape handling is involved.
	lexer.Add([]byte("[^ \t\r\n#]+"), token(tokenWord))
	lexer.Add([]byte("\n"), token(tokenNewline))
	lexer.Add([]byte("#[^\n]*"), skip)
	lexer.Add([]byte("[ \t\r]+"), skip)
	if err := lexer.Compile(); err != nil {
		panic(fmt.Sprintf("obj: compiling lexer: %v", err))
	}
}

func token(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// statement is one non-empty source line split into its directive and arguments.
type statement struct {
	line    int
	keyword string
	args    []string
}

// scan splits text into statements, dropping blank and comment-only lines.
func scan(text []byte) ([]statement, error) {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}

	var stmts []statement
	var cur *statement
	line := 1
	for tok, err, eos := scanner.Next(); !eos; tok, err, eos = scanner.Next() {
		if err != nil {
			return nil, fmt.Errorf("tokenizing: %w", err)
		}
		t := tok.(*lexmachine.Token)
		switch t.Type {
		case tokenNewline:
			line++
			cur = nil
		case tokenWord:
			word := t.Value.(string)
			if cur == nil {
				stmts = append(stmts, statement{line: line, keyword: word})
				cur = &stmts[len(stmts)-1]
				continue
			}
			cur.args = append(cur.args, word)
		}
	}
	return stmts, nil
}
