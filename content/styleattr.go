package content

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// styleFromAttr maps inline style declarations to terminal-presentable
// emphasis. Only font-weight, font-style and text-decoration matter, the
// rest of CSS has no terminal rendition and is ignored.
func styleFromAttr(attr string) Style {
	var st Style
	if len(strings.TrimSpace(attr)) == 0 {
		return st
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader([]byte(attr))), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return st
		case css.DeclarationGrammar:
			st |= styleFromDeclaration(string(data), parser.Values())
		}
	}
}

func styleFromDeclaration(prop string, values []css.Token) Style {
	var vals []string
	for _, v := range values {
		if s := strings.TrimSpace(string(v.Data)); len(s) > 0 {
			vals = append(vals, strings.ToLower(s))
		}
	}
	if len(vals) == 0 {
		return 0
	}

	switch strings.ToLower(prop) {
	case "font-weight":
		if isBoldWeight(vals[0]) {
			return StyleBold
		}
	case "font-style":
		if vals[0] == "italic" || vals[0] == "oblique" {
			return StyleItalic
		}
	case "text-decoration", "text-decoration-line":
		// shorthand may carry line style and color, scan all values
		for _, v := range vals {
			if v == "underline" {
				return StyleUnderline
			}
		}
	}
	return 0
}

// isBoldWeight accepts the keyword forms and numeric weights of 600 and up.
func isBoldWeight(v string) bool {
	switch v {
	case "bold", "bolder":
		return true
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n >= 600
	}
	return false
}
