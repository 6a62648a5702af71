package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/delegate/internal/annotations"
	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/typegraph"
	"github.com/toyz/delegate/pkg/delegate"
)

// Parser discovers annotated declarations in loaded packages
type Parser struct {
	graph       *typegraph.Graph
	annotations *annotations.Parser
}

// NewParser creates a parser over a loaded type graph
func NewParser(graph *typegraph.Graph) *Parser {
	return &Parser{
		graph:       graph,
		annotations: annotations.NewParser(),
	}
}

// Discover returns the annotated elements of every loaded package, in
// package, file name and source order. Malformed annotations are collected
// into the returned error while discovery continues.
func (p *Parser) Discover() ([]delegate.Element, error) {
	errs := errors.NewMultipleErrors()
	var elements []delegate.Element
	for _, pkg := range p.graph.Packages {
		found := p.DiscoverPackage(pkg, errs)
		elements = append(elements, found...)
	}
	return elements, errs.ErrOrNil()
}

// DiscoverPackage returns the annotated elements of one package
func (p *Parser) DiscoverPackage(pkg *packages.Package, errs *errors.MultipleErrors) []delegate.Element {
	if pkg.TypesInfo == nil || len(pkg.Syntax) == 0 {
		return nil
	}

	files := append([]*ast.File(nil), pkg.Syntax...)
	sort.SliceStable(files, func(i, j int) bool {
		return p.fileName(files[i]) < p.fileName(files[j])
	})

	d := &discovery{
		parser: p,
		pkg:    pkg,
		errs:   errs,
		types:  make(map[*types.TypeName]*delegate.Element),
	}
	for _, file := range files {
		d.indexTypes(file)
	}
	for _, file := range files {
		d.walkFile(file)
	}
	return d.elements
}

func (p *Parser) fileName(file *ast.File) string {
	return p.graph.Fset.File(file.Pos()).Name()
}

// discovery is the state of walking one package
type discovery struct {
	parser   *Parser
	pkg      *packages.Package
	errs     *errors.MultipleErrors
	types    map[*types.TypeName]*delegate.Element
	elements []delegate.Element
}

// indexTypes records every type declaration so methods, constructors and
// fields can refer to their enclosing type
func (d *discovery) indexTypes(file *ast.File) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			obj, ok := d.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
			if !ok {
				continue
			}
			element := &delegate.Element{
				Kind:    typeKind(ts, obj),
				Name:    ts.Name.Name,
				Object:  obj,
				Pos:     ts.Name.Pos(),
				EvalPos: ts.End() - 1,
			}
			if parsed := d.parse(typeDoc(gen, ts)); len(parsed) > 0 {
				element.Annotation = parsed[0].Name
				element.Parameters = parsed[0].Parameters
			}
			d.types[obj] = element
		}
	}
}

func (d *discovery) walkFile(file *ast.File) {
	for _, parsed := range d.parse(file.Doc) {
		d.add(delegate.Element{Kind: delegate.KindPackage, Name: d.pkg.Name, Pos: file.Package}, parsed)
	}

	for _, decl := range file.Decls {
		switch node := decl.(type) {
		case *ast.GenDecl:
			d.walkGenDecl(node)
		case *ast.FuncDecl:
			d.walkFunc(node)
		}
	}
}

func (d *discovery) walkGenDecl(gen *ast.GenDecl) {
	for _, spec := range gen.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			obj, _ := d.pkg.TypesInfo.Defs[s.Name].(*types.TypeName)
			typeElement := d.types[obj]
			if typeElement == nil {
				typeElement = &delegate.Element{Kind: delegate.KindClass, Name: s.Name.Name, Pos: s.Name.Pos(), EvalPos: s.End() - 1}
			}
			for _, parsed := range d.parse(typeDoc(gen, s)) {
				d.add(*typeElement, parsed)
			}
			d.walkMembers(s, typeElement)

		case *ast.ValueSpec:
			kind := delegate.KindVariable
			if gen.Tok == token.CONST {
				kind = delegate.KindConstant
			}
			doc := s.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			parsed := d.parse(doc)
			for _, name := range s.Names {
				for _, annotation := range parsed {
					d.add(delegate.Element{
						Kind:   kind,
						Name:   name.Name,
						Object: d.pkg.TypesInfo.Defs[name],
						Pos:    name.Pos(),
					}, annotation)
				}
			}
		}
	}
}

// walkMembers finds annotated struct fields and interface methods
func (d *discovery) walkMembers(ts *ast.TypeSpec, enclosing *delegate.Element) {
	var fields *ast.FieldList
	kind := delegate.KindField
	switch t := ts.Type.(type) {
	case *ast.StructType:
		fields = t.Fields
	case *ast.InterfaceType:
		fields, kind = t.Methods, delegate.KindMethod
	default:
		return
	}

	for _, field := range fields.List {
		parsed := d.parse(field.Doc)
		if len(parsed) == 0 {
			continue
		}
		names := field.Names
		if len(names) == 0 {
			// embedded field or interface
			names = []*ast.Ident{{Name: types.ExprString(field.Type), NamePos: field.Type.Pos()}}
		}
		for _, name := range names {
			elementKind := kind
			if kind == delegate.KindMethod && len(field.Names) == 0 {
				elementKind = delegate.KindField
			}
			for _, annotation := range parsed {
				d.add(delegate.Element{
					Kind:      elementKind,
					Name:      enclosing.Name + "." + name.Name,
					Object:    d.pkg.TypesInfo.Defs[name],
					Enclosing: enclosing,
					Pos:       name.Pos(),
				}, annotation)
			}
		}
	}
}

func (d *discovery) walkFunc(fn *ast.FuncDecl) {
	parsed := d.parse(fn.Doc)
	if len(parsed) == 0 {
		return
	}

	obj, _ := d.pkg.TypesInfo.Defs[fn.Name].(*types.Func)
	element := delegate.Element{
		Kind:   delegate.KindFunction,
		Name:   fn.Name.Name,
		Object: obj,
		Pos:    fn.Name.Pos(),
	}

	if obj != nil {
		sig := obj.Type().(*types.Signature)
		if recv := sig.Recv(); recv != nil {
			element.Kind = delegate.KindMethod
			element.Enclosing = d.enclosingType(recv.Type())
		} else if enclosing := d.constructedType(sig); enclosing != nil {
			element.Kind = delegate.KindConstructor
			element.Enclosing = enclosing
		}
		if element.Enclosing != nil {
			element.Name = element.Enclosing.Name + "." + fn.Name.Name
		}
	}

	for _, annotation := range parsed {
		d.add(element, annotation)
	}
}

// enclosingType resolves T and *T, including instantiated generic receivers
func (d *discovery) enclosingType(t types.Type) *delegate.Element {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}
	return d.types[named.Origin().Obj()]
}

// constructedType returns the package type a function constructs: the type
// of its first result, when that is a type declared in the same package
func (d *discovery) constructedType(sig *types.Signature) *delegate.Element {
	if sig.Results().Len() == 0 {
		return nil
	}
	return d.enclosingType(sig.Results().At(0).Type())
}

// parse extracts the delegate annotations of a doc comment
func (d *discovery) parse(doc *ast.CommentGroup) []*annotations.ParsedAnnotation {
	if doc == nil {
		return nil
	}
	var parsed []*annotations.ParsedAnnotation
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		position := d.parser.graph.Position(comment.Pos())
		loc := annotations.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}
		annotation, err := d.parser.annotations.Parse(comment.Text, loc)
		if err != nil {
			if d.errs != nil {
				d.errs.Add(errors.WrapParseError("annotation", err).WithLocation(errors.SourceLocation{
					File:   loc.File,
					Line:   loc.Line,
					Column: loc.Column,
				}))
			}
			continue
		}
		parsed = append(parsed, annotation)
	}
	return parsed
}

func (d *discovery) add(element delegate.Element, annotation *annotations.ParsedAnnotation) {
	element.Annotation = annotation.Name
	element.Parameters = annotation.Parameters
	d.elements = append(d.elements, element)
}

func typeKind(ts *ast.TypeSpec, obj *types.TypeName) delegate.ElementKind {
	switch {
	case ts.Assign.IsValid():
		return delegate.KindAlias
	case typegraph.IsInterface(obj.Type()):
		return delegate.KindInterface
	default:
		return delegate.KindClass
	}
}

// typeDoc is the doc comment of a type spec, falling back to the declaration
// for ungrouped declarations
func typeDoc(gen *ast.GenDecl, ts *ast.TypeSpec) *ast.CommentGroup {
	if ts.Doc != nil {
		return ts.Doc
	}
	if len(gen.Specs) == 1 {
		return gen.Doc
	}
	return nil
}
