package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestNoHexFormatting rejects %x in format strings, the usual way a scalar
// ends up in an error message or a log line.
func TestNoHexFormatting(t *testing.T) {
	pkgs := load(t, packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo|packages.NeedFiles|packages.NeedName)

	var findings []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				var ident *ast.Ident
				switch fun := call.Fun.(type) {
				case *ast.SelectorExpr:
					ident = fun.Sel
				case *ast.Ident:
					ident = fun
				default:
					return true
				}
				obj := pkg.TypesInfo.Uses[ident]
				if obj == nil || obj.Pkg() == nil {
					return true
				}
				idx, ok := formatIndex(obj.Pkg().Path(), obj.Name())
				if !ok || len(call.Args) <= idx {
					return true
				}
				lit, ok := call.Args[idx].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					return true
				}
				value, err := strconv.Unquote(lit.Value)
				if err != nil {
					return true
				}
				if strings.Contains(value, "%x") || strings.Contains(value, "%X") {
					findings = append(findings, fmt.Sprintf("%s: avoid %%x formatting of secrets", pkg.Fset.Position(lit.Pos())))
				}
				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("secret formatting policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func formatIndex(pkgPath, name string) (int, bool) {
	switch pkgPath {
	case "fmt":
		switch name {
		case "Errorf", "Printf", "Sprintf":
			return 0, true
		case "Fprintf":
			return 1, true
		}
	case "github.com/smallyu/go-ecc/pkg/ecc":
		if name == "errorf" {
			return 1, true
		}
	}
	return 0, false
}
