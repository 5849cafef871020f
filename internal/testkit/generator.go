package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"wrangler/domain/table"
)

// ClientGeneratorConfig configures the synthetic client sheet generator
type ClientGeneratorConfig struct {
	Rows            int       `json:"rows"`
	MissingRate     float64   `json:"missing_rate"`     // share of cells left missing
	PlaceholderRate float64   `json:"placeholder_rate"` // share of numeric cells replaced by "?"
	OutlierRate     float64   `json:"outlier_rate"`     // share of incomes multiplied by 50
	StartDate       time.Time `json:"start_date"`
	Seed            int64     `json:"seed"`
}

// DefaultClientConfig returns sensible defaults for client data generation
func DefaultClientConfig() ClientGeneratorConfig {
	return ClientGeneratorConfig{
		Rows:            200,
		MissingRate:     0.05,
		PlaceholderRate: 0.02,
		OutlierRate:     0.01,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:            42,
	}
}

// ClientGenerator produces a deterministic, deliberately messy client sheet
type ClientGenerator struct {
	config ClientGeneratorConfig
	rng    *rand.Rand
}

// NewClientGenerator creates a new client data generator
func NewClientGenerator(config ClientGeneratorConfig) *ClientGenerator {
	return &ClientGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var (
	cities   = []string{"Bogotá", "Medellín", "Cali", "bogota ", "MEDELLIN", "Cartagena"}
	statuses = []string{"Active", "Inactive", "active ", "", "NA", "Pending"}
)

// Generate builds the table. The same seed always yields the same table.
func (g *ClientGenerator) Generate() *table.Table {
	n := g.config.Rows
	id := &table.Column{Name: "client_id", Storage: table.StorageInteger}
	age := &table.Column{Name: "age", Storage: table.StorageFloat}
	income := &table.Column{Name: "income", Storage: table.StorageFloat}
	city := &table.Column{Name: "city", Storage: table.StorageText}
	status := &table.Column{Name: "status", Storage: table.StorageCategorical}
	joined := &table.Column{Name: "joined", Storage: table.StorageTimestamp}
	vip := &table.Column{Name: "vip", Storage: table.StorageBoolean}

	for i := 0; i < n; i++ {
		id.Values = append(id.Values, table.Int(int64(i+1)))
		age.Values = append(age.Values, g.numeric(float64(18+g.rng.Intn(60))))

		base := 1500 + g.rng.NormFloat64()*400
		if g.rng.Float64() < g.config.OutlierRate {
			base *= 50
		}
		income.Values = append(income.Values, g.numeric(base))

		city.Values = append(city.Values, g.maybeMissing(table.Text(cities[g.rng.Intn(len(cities))])))
		status.Values = append(status.Values, g.maybeMissing(table.Category(statuses[g.rng.Intn(len(statuses))])))
		joined.Values = append(joined.Values, g.maybeMissing(table.Time(g.config.StartDate.AddDate(0, 0, g.rng.Intn(365)))))
		vip.Values = append(vip.Values, g.maybeMissing(table.Bool(g.rng.Intn(5) == 0)))
	}

	return table.MustTable(fmt.Sprintf("clients_%d", g.config.Seed), id, age, income, city, status, joined, vip)
}

func (g *ClientGenerator) numeric(v float64) table.Value {
	r := g.rng.Float64()
	switch {
	case r < g.config.MissingRate:
		return table.Missing()
	case r < g.config.MissingRate+g.config.PlaceholderRate:
		return table.Text("?")
	}
	return table.Float(v)
}

func (g *ClientGenerator) maybeMissing(v table.Value) table.Value {
	if g.rng.Float64() < g.config.MissingRate {
		return table.Missing()
	}
	return v
}
