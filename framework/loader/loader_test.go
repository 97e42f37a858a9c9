package loader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-spring/framework/container"
	"github.com/km-arc/go-spring/framework/loader"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type repository struct {
	Table string
}

type catalog struct {
	Repo     *repository
	PageSize int
}

func newCatalog(repo *repository, pageSize int) *catalog {
	return &catalog{Repo: repo, PageSize: pageSize}
}

type lister interface {
	List() []string
}

func (c *catalog) List() []string { return nil }

func fixtures() (*container.Container, *loader.TypeRegistry) {
	c := container.New()
	types := loader.NewTypeRegistry()
	loader.RegisterType[repository](types, "Repository")
	loader.RegisterType[catalog](types, "Catalog", newCatalog)
	loader.RegisterType[lister](types, "Lister")
	return c, types
}

// ── loading ───────────────────────────────────────────────────────────────────

const definitions = `
components:
  - name: userRepository
    type: Repository
    properties:
      - name: table
        value: users
  - name: catalog
    type: Catalog
    scope: singleton
    constructorArgs:
      - ref: userRepository
      - value: "25"
`

func TestLoad_RegistersAndResolves(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	require.NoError(t, r.Load(strings.NewReader(definitions)))
	assert.True(t, c.Known("userRepository"))
	assert.True(t, c.Known("catalog"))

	resolved, err := container.ResolveAs[*catalog](c, "catalog")
	require.NoError(t, err)
	assert.Equal(t, 25, resolved.PageSize)
	require.NotNil(t, resolved.Repo)
	assert.Equal(t, "users", resolved.Repo.Table)

	// the referenced singleton is shared
	repo, err := c.Resolve("userRepository")
	require.NoError(t, err)
	assert.Same(t, repo, resolved.Repo)
}

func TestLoad_PrototypeScopeMapsToTransient(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	doc := `
components:
  - name: userRepository
    type: Repository
    scope: prototype
`
	require.NoError(t, r.Load(strings.NewReader(doc)))

	first, err := c.Resolve("userRepository")
	require.NoError(t, err)
	second, err := c.Resolve("userRepository")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestLoad_InterfaceComponentWithImplementor(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	doc := `
components:
  - name: userRepository
    type: Repository
  - name: catalog
    type: Catalog
    constructorArgs:
      - ref: userRepository
      - value: "10"
  - name: lister
    type: Lister
    implementor: catalog
`
	require.NoError(t, r.Load(strings.NewReader(doc)))

	resolved, err := container.ResolveAs[lister](c, "lister")
	require.NoError(t, err)
	direct, err := c.Resolve("catalog")
	require.NoError(t, err)
	assert.Same(t, direct, resolved)
}

// ── rejection ─────────────────────────────────────────────────────────────────

func TestLoad_UnknownType(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	doc := `
components:
  - name: x
    type: Nonexistent
`
	err := r.Load(strings.NewReader(doc))
	require.ErrorIs(t, err, loader.ErrUnknownType)
}

func TestLoad_ValidationFailures(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	for name, doc := range map[string]string{
		"missing name":  "components:\n  - type: Repository\n",
		"missing type":  "components:\n  - name: x\n",
		"bad scope":     "components:\n  - name: x\n    type: Repository\n    scope: request\n",
		"no components": "components:\n",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, r.Load(strings.NewReader(doc)))
		})
	}
}

func TestLoad_ValueXorRef(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	both := `
components:
  - name: userRepository
    type: Repository
    properties:
      - name: table
        value: users
        ref: other
`
	err := r.Load(strings.NewReader(both))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both value and ref")

	neither := `
components:
  - name: userRepository
    type: Repository
    properties:
      - name: table
`
	err = r.Load(strings.NewReader(neither))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value or ref")
}

func TestLoad_MalformedYAML(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	err := r.Load(strings.NewReader("components: [\n"))
	require.Error(t, err)
}

// ── files ─────────────────────────────────────────────────────────────────────

func TestLoadFile(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	path := filepath.Join(t.TempDir(), "components.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definitions), 0o644))

	require.NoError(t, r.LoadFile(path))
	assert.True(t, c.Known("catalog"))
}

func TestLoadFile_MissingFile(t *testing.T) {
	c, types := fixtures()
	r := loader.NewReader(c, types)

	err := r.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
