package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guttosm/scaffold-service/internal/domain/model"
)

var errUnsupportedStockFile = errors.New("stock file must be .yaml, .yml or .json")

// stockFileItem is one entry of a stock snapshot file.
type stockFileItem struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Category string   `yaml:"category" json:"category"`
	Length   *float64 `yaml:"length" json:"length"`
	Width    *float64 `yaml:"width" json:"width"`
	Height   *float64 `yaml:"height" json:"height"`
	Weight   *float64 `yaml:"weight" json:"weight"`
	Quantity int      `yaml:"quantity" json:"quantity"`
}

// stockFile is the document layout: a list of items under "items".
type stockFile struct {
	Items []stockFileItem `yaml:"items" json:"items"`
}

// loadStockFile reads a stock snapshot. Items without an id get a
// positional one so allocation lines stay traceable.
func loadStockFile(path string) ([]model.StockItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock file: %w", err)
	}

	var doc stockFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedStockFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse stock file %s: %w", path, err)
	}

	items := make([]model.StockItem, 0, len(doc.Items))
	for i, entry := range doc.Items {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("stock item %d: name is required", i+1)
		}
		if entry.Quantity < 0 {
			return nil, fmt.Errorf("stock item %d (%s): quantity must not be negative", i+1, entry.Name)
		}
		id := entry.ID
		if id == "" {
			id = fmt.Sprintf("item-%d", i+1)
		}
		items = append(items, model.StockItem{
			ID:       id,
			Name:     entry.Name,
			Category: entry.Category,
			Length:   entry.Length,
			Width:    entry.Width,
			Height:   entry.Height,
			Weight:   entry.Weight,
			Quantity: entry.Quantity,
		})
	}
	return items, nil
}
