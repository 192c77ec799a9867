package config

import (
	"os"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Catalog holds CLI flags for the seed food catalog
type Catalog struct {
	path string
}

// SeedFood is one seed catalog entry in the TOML file
type SeedFood struct {
	Name string  `toml:"name"`
	Unit string  `toml:"unit"`
	Kcal float64 `toml:"kcal"`
}

// Validate checks if the seed entry is valid
func (f *SeedFood) Validate() error {
	if f.Name == "" {
		return goerr.New("seed food name is required")
	}
	if !types.Unit(f.Unit).IsValid() {
		return goerr.New("invalid seed food unit", goerr.V("name", f.Name), goerr.V("unit", f.Unit))
	}
	if f.Kcal < 0 {
		return goerr.New("seed food kcal must be non-negative", goerr.V("name", f.Name), goerr.V("kcal", f.Kcal))
	}
	return nil
}

// SeedCatalog is the parsed seed catalog file
type SeedCatalog struct {
	Foods []SeedFood `toml:"food"`
}

// Validate checks the seed catalog for invalid or duplicate entries
func (c *SeedCatalog) Validate() error {
	seen := make(map[types.FoodID]bool)
	for _, food := range c.Foods {
		if err := food.Validate(); err != nil {
			return goerr.Wrap(err, "invalid seed catalog")
		}
		id := model.NormalizeFoodName(food.Name)
		if seen[id] {
			return goerr.New("duplicate seed food name", goerr.V("name", food.Name))
		}
		seen[id] = true
	}
	return nil
}

// Items converts the seed catalog to catalog entries
func (c *SeedCatalog) Items() []*model.FoodItem {
	items := make([]*model.FoodItem, 0, len(c.Foods))
	for _, food := range c.Foods {
		items = append(items, model.NewFoodItem(food.Name, types.Unit(food.Unit), food.Kcal))
	}
	return items
}

// defaultSeed is used when no catalog file is configured
var defaultSeed = SeedCatalog{
	Foods: []SeedFood{
		{Name: "apple", Unit: "piece", Kcal: 95},
		{Name: "banana", Unit: "piece", Kcal: 105},
		{Name: "brown rice", Unit: "100g", Kcal: 111},
		{Name: "egg", Unit: "piece", Kcal: 78},
		{Name: "oats", Unit: "100g", Kcal: 389},
	},
}

// Flags returns CLI flags for seed catalog configuration
func (x *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog-file",
			Usage:       "Seed catalog TOML file (default: built-in seed set)",
			Category:    "Catalog",
			Sources:     cli.EnvVars("DEMETER_CATALOG_FILE"),
			Destination: &x.path,
		},
	}
}

// Load reads and validates the seed catalog. Without a configured file the
// built-in seed set is returned.
func (x *Catalog) Load() (*SeedCatalog, error) {
	if x.path == "" {
		seed := defaultSeed
		return &seed, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", x.path))
	}

	var seed SeedCatalog
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse catalog TOML", goerr.V("path", x.path))
	}

	if err := seed.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", x.path))
	}

	return &seed, nil
}
