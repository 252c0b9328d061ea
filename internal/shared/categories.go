package shared

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Categories double as search queries and classification buckets.
var Categories = []string{
	"Electricals_Power_Backup",
	"Home_Appliances",
	"Kitchen_Appliances",
	"Furniture",
	"Home_Storage_Organization",
	"Computers_Tablets",
	"Mobile_Accessories",
	"Wearables",
	"TV_Audio_Entertainment",
	"Networking_Devices",
	"Toys_Kids",
	"Gardening_Outdoor",
	"Kitchen_Dining",
	"Mens_Clothing",
	"Footwear",
	"Beauty_Personal_Care",
	"Security_Surveillance",
	"Office_Printer_Supplies",
	"Software",
	"Fashion_Accessories",
}

type categoriesFile struct {
	Categories []string `yaml:"categories"`
}

// LoadCategories reads a YAML file of the form `categories: [a, b]`.
// Blank and repeated labels are dropped.
func LoadCategories(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories %s: %w", path, err)
	}
	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(f.Categories))
	out := make([]string, 0, len(f.Categories))
	for _, c := range f.Categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, errors.New("categories file lists no labels")
	}
	return out, nil
}

// Query turns a label into the free-text search query ("Home_Appliances" -> "Home Appliances").
func Query(label string) string { return strings.ReplaceAll(label, "_", " ") }
