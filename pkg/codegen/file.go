package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

// File is a generated Go source file holding one type.
type File struct {
	Name        string // base file name
	Dir         string // output directory
	PackageName string
	PackagePath string
	Header      []string
	Type        *TypeSpec
}

var fileTemplate = template.Must(template.New("file").Parse(
	`{{range .Header}}// {{.}}
{{end}}
package {{.Package}}

{{.Imports}}
{{.Body}}`))

type fileData struct {
	Header  []string
	Package string
	Imports string
	Body    string
}

// Render renders and formats the file
func (f *File) Render() ([]byte, error) {
	if f.Type == nil {
		return nil, fmt.Errorf("file %s has no type", f.Name)
	}

	im := NewImportManager(f.PackagePath)
	im.Reserve(f.Type.Name)
	for _, param := range f.Type.TypeParams {
		im.Reserve(param.Name)
	}
	// parameters shadow imports inside function bodies
	for _, fn := range append(append([]*FuncSpec(nil), f.Type.Methods...), f.Type.Funcs...) {
		im.Reserve(fn.Receiver)
		for _, param := range fn.Params {
			im.Reserve(param.Name)
		}
	}

	body, err := renderType(f.Type, im)
	if err != nil {
		return nil, fmt.Errorf("failed to render type %s: %w", f.Type.Name, err)
	}

	var buf bytes.Buffer
	err = fileTemplate.Execute(&buf, fileData{
		Header:  f.Header,
		Package: f.PackageName,
		Imports: im.GenerateImports(),
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute file template: %w", err)
	}

	formatted, err := imports.Process(f.Name, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generated code for %s is not valid Go: %w\n%s", f.Type.Name, err, numbered(buf.String()))
	}
	return formatted, nil
}

func renderType(t *TypeSpec, im *ImportManager) (string, error) {
	var b strings.Builder

	writeDoc(&b, t.Doc)
	b.WriteString("type " + t.Name)
	if len(t.TypeParams) > 0 {
		b.WriteString("[" + renderTypeParams(t.TypeParams, im) + "]")
	}
	b.WriteString(" struct {\n")
	for _, field := range t.Fields {
		b.WriteString("\t" + field.Name + " " + field.Type.render(im) + "\n")
	}
	b.WriteString("}\n\n")

	if len(t.Implements) > 0 && len(t.TypeParams) == 0 {
		b.WriteString("var (\n")
		for _, iface := range t.Implements {
			fmt.Fprintf(&b, "\t_ %s = (*%s)(nil)\n", iface.render(im), t.Name)
		}
		b.WriteString(")\n\n")
	}

	self := t.TypeName().render(im)
	for _, fn := range t.Funcs {
		if err := renderFunc(&b, fn, "", im); err != nil {
			return "", err
		}
	}
	for _, method := range t.Methods {
		if err := renderFunc(&b, method, self, im); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func renderFunc(b *strings.Builder, fn *FuncSpec, receiverType string, im *ImportManager) error {
	body, err := fn.Body.Render(im)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", fn.Name, err)
	}

	writeDoc(b, fn.Doc)
	b.WriteString("func ")
	if fn.Receiver != "" {
		if receiverType == "" {
			return fmt.Errorf("function %s has a receiver but is not a method", fn.Name)
		}
		fmt.Fprintf(b, "(%s *%s) ", fn.Receiver, receiverType)
	}
	b.WriteString(fn.Name)
	if len(fn.TypeParams) > 0 {
		b.WriteString("[" + renderTypeParams(fn.TypeParams, im) + "]")
	}
	b.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		typ := param.Type.render(im)
		if fn.Variadic && i == len(fn.Params)-1 {
			typ = "..." + typ
		}
		b.WriteString(param.Name + " " + typ)
	}
	b.WriteString(")")
	switch len(fn.Results) {
	case 0:
	case 1:
		b.WriteString(" " + fn.Results[0].render(im))
	default:
		b.WriteString(" (" + renderList(fn.Results, im) + ")")
	}
	b.WriteString(" {\n")
	b.WriteString(body)
	b.WriteString("}\n\n")
	return nil
}

func renderTypeParams(params []*TypeVariable, im *ImportManager) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Name + " " + param.Constraint(im)
	}
	return strings.Join(parts, ", ")
}

func writeDoc(b *strings.Builder, doc []string) {
	for _, line := range doc {
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// " + line + "\n")
	}
}

func numbered(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = fmt.Sprintf("%4d  %s", i+1, line)
	}
	return strings.Join(lines, "\n")
}

// NilCheck returns the expression testing expr against nil for values of typ,
// or "" when typ cannot hold nil
func NilCheck(typ TypeName, expr string) string {
	return typ.nilCheck(expr)
}
