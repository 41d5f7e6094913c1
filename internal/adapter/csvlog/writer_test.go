package csvlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersys/tableside/internal/domain"
)

func TestAppendWritesOneRowPerItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	w := NewWriter(path)

	order := &domain.Order{
		Timestamp:   1700000000,
		TableNumber: 4,
		Comment:     "no onions",
		User:        &domain.UserInfo{Username: "alice"},
		Items: []domain.LineItem{
			{Name: "Burger", Category: domain.CategoryFood, Price: 9.5, Quantity: 2},
			{Name: "Cola", Category: domain.CategoryDrink, Price: 2.5, Quantity: 1},
		},
	}
	require.NoError(t, w.Append(order))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"1700000000", "4", "Burger", "food", "9.50", "2", "no onions", "alice"}, rows[0])
	assert.Equal(t, []string{"1700000000", "4", "Cola", "drink", "2.50", "1", "no onions", "alice"}, rows[1])
}

func TestAppendAccumulatesAcrossOrders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	w := NewWriter(path)

	first := &domain.Order{
		Timestamp:   1,
		TableNumber: 1,
		Items:       []domain.LineItem{{Name: "Burger", Category: domain.CategoryFood, Price: 9.5, Quantity: 1}},
	}
	second := &domain.Order{
		Timestamp:   2,
		TableNumber: 2,
		Items:       []domain.LineItem{{Name: "Cola", Category: domain.CategoryDrink, Price: 2.5, Quantity: 1}},
	}

	require.NoError(t, w.Append(first))
	require.NoError(t, w.Append(second))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Burger", rows[0][2])
	assert.Equal(t, "Cola", rows[1][2])
}

func TestAppendFailsOnUnwritablePath(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "no", "such", "dir", "orders.csv"))

	err := w.Append(&domain.Order{
		Timestamp:   1,
		TableNumber: 1,
		Items:       []domain.LineItem{{Name: "Burger", Category: domain.CategoryFood, Price: 9.5, Quantity: 1}},
	})
	assert.Error(t, err)
}
