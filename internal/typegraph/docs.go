package typegraph

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"
)

// Doc returns the doc comment of a declared object: type, function, method
// or interface method. Objects from packages loaded without syntax have none.
func (g *Graph) Doc(obj types.Object) *ast.CommentGroup {
	if g == nil || obj == nil {
		return nil
	}
	if g.docs == nil {
		g.indexDocs()
	}
	if fn, ok := obj.(*types.Func); ok {
		obj = fn.Origin()
	}
	return g.docs[obj.Pos()]
}

// Deprecation returns the text of the "Deprecated:" paragraph of obj's doc comment
func (g *Graph) Deprecation(obj types.Object) (string, bool) {
	doc := g.Doc(obj)
	if doc == nil {
		return "", false
	}
	for _, paragraph := range strings.Split(doc.Text(), "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if rest, ok := strings.CutPrefix(paragraph, "Deprecated:"); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func (g *Graph) indexDocs() {
	g.docs = make(map[token.Pos]*ast.CommentGroup)
	for _, pkg := range g.byTypes {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				switch node := n.(type) {
				case *ast.GenDecl:
					for _, spec := range node.Specs {
						ts, ok := spec.(*ast.TypeSpec)
						if !ok {
							continue
						}
						doc := ts.Doc
						if doc == nil && len(node.Specs) == 1 {
							doc = node.Doc
						}
						g.record(ts.Name, doc)
					}
				case *ast.FuncDecl:
					g.record(node.Name, node.Doc)
				case *ast.InterfaceType:
					for _, field := range node.Methods.List {
						for _, name := range field.Names {
							g.record(name, field.Doc)
						}
					}
				}
				return true
			})
		}
	}
}

func (g *Graph) record(name *ast.Ident, doc *ast.CommentGroup) {
	if doc != nil {
		g.docs[name.Pos()] = doc
	}
}
