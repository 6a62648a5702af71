package codegen

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportManager_Qualify(t *testing.T) {
	im := NewImportManager("example.com/app/greet")

	assert.Equal(t, "", im.Qualify("example.com/app/greet", "greet"))
	assert.Equal(t, "io", im.Qualify("io", "io"))
	assert.Equal(t, "io", im.Qualify("io", ""))
	assert.Equal(t, "echo", im.Qualify("github.com/labstack/echo/v4", ""))
}

func TestImportManager_Conflicts(t *testing.T) {
	im := NewImportManager("example.com/app")
	im.Reserve("Printing")

	assert.Equal(t, "rand", im.Qualify("math/rand", "rand"))
	assert.Equal(t, "rand2", im.Qualify("crypto/rand", "rand"))
	assert.Equal(t, "Printing2", im.Qualify("example.com/Printing", "Printing"))

	assert.Equal(t,
		"import (\n\trand2 \"crypto/rand\"\n\t\"math/rand\"\n\n\tPrinting2 \"example.com/Printing\"\n)\n",
		im.GenerateImports())
}

func TestImportManager_GenerateImports(t *testing.T) {
	im := NewImportManager("example.com/app")
	assert.Equal(t, "", im.GenerateImports())

	im.Qualify("fmt", "fmt")
	assert.Equal(t, "import \"fmt\"\n", im.GenerateImports())

	im.Qualify("gopkg.in/yaml.v3", "yaml")
	im.Qualify("github.com/labstack/echo/v4", "echo")
	assert.Equal(t,
		"import (\n\t\"fmt\"\n\n\t\"github.com/labstack/echo/v4\"\n\t\"gopkg.in/yaml.v3\"\n)\n",
		im.GenerateImports())
}

func TestImportManager_Qualifier(t *testing.T) {
	im := NewImportManager("example.com/app")
	pkg := types.NewPackage("example.com/store", "store")
	named := types.NewNamed(types.NewTypeName(0, pkg, "Cache", nil), types.NewStruct(nil, nil), nil)

	assert.Equal(t, "*store.Cache", types.TypeString(types.NewPointer(named), im.Qualifier()))
	assert.Equal(t, []string{"example.com/store"}, im.Paths())
}

func TestDefaultPackageName(t *testing.T) {
	assert.Equal(t, "echo", DefaultPackageName("github.com/labstack/echo/v4"))
	assert.Equal(t, "yaml", DefaultPackageName("gopkg.in/yaml.v3"))
	assert.Equal(t, "gocmp", DefaultPackageName("github.com/x/go-cmp"))
	assert.Equal(t, "slog", DefaultPackageName("log/slog"))
}
