package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersys/tableside/internal/domain"
)

func writeMenu(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeMenu(t, `[
		{"id": 1, "name": "Burger", "price": 9.5, "type": "food"},
		{"id": 2, "name": "Cola", "price": 2.5, "type": "drink"}
	]`)

	svc, err := Load(path)
	require.NoError(t, err)

	items := svc.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, 9.5, items[0].Price)
	assert.Equal(t, domain.CategoryDrink, items[1].Category)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeMenu(t, `{"not": "an array"}`)

	_, err := Load(path)
	assert.Error(t, err)
}
