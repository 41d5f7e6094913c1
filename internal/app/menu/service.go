package menu

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ordersys/tableside/internal/interfaces"
)

// Service serves the menu loaded once at startup from a JSON file.
type Service struct {
	items []interfaces.MenuItem
}

// Load reads the menu file. The file is a JSON array of items:
// [{"id":1,"name":"Burger","price":9.5,"type":"food"}, ...]
func Load(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}

	var items []interfaces.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse menu file: %w", err)
	}

	return &Service{items: items}, nil
}

func (s *Service) Items() []interfaces.MenuItem {
	return s.items
}
