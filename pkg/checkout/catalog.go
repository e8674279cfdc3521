// Package checkout creates hosted payment sessions for the premium plan.
package checkout

// Mode is how the provider charges for a price.
type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSubscription Mode = "subscription"
)

// Valid reports whether m is a mode the provider accepts.
func (m Mode) Valid() bool {
	return m == ModePayment || m == ModeSubscription
}

// Product is a purchasable plan.
type Product struct {
	ID          string `json:"id" yaml:"id"`
	PriceID     string `json:"priceId" yaml:"price_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Mode        Mode   `json:"mode" yaml:"mode"`
	// Price is in the currency's minor unit.
	Price    int64  `json:"price" yaml:"price"`
	Currency string `json:"currency" yaml:"currency"`
}

// Catalog lists every product on sale.
var Catalog = []Product{
	{
		ID:          "prod_SSNySQmfYiRzRt",
		PriceID:     "price_1RXTCFCccjvIDVoWl47Bdnw1",
		Name:        "Subscription",
		Description: "Premium LifeOS subscription with unlimited AI analysis and advanced features",
		Mode:        ModePayment,
		Price:       100,
		Currency:    "usd",
	},
}

// ProductByID finds a product by its product id.
func ProductByID(id string) (Product, bool) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductByPriceID finds a product by its price id.
func ProductByPriceID(priceID string) (Product, bool) {
	for _, p := range Catalog {
		if p.PriceID == priceID {
			return p, true
		}
	}
	return Product{}, false
}
