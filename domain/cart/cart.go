// Package cart provides the shopping cart value type and pure operations.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/growthlabpro/storefront/domain/catalog"
)

// ItemType distinguishes plans from add-ons.
type ItemType string

const (
	TypePlan  ItemType = "plan"
	TypeAddon ItemType = "addon"
)

// BillingCycle is the billing cycle chosen for a plan.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// Valid reports whether c is empty or a known cycle.
func (c BillingCycle) Valid() bool {
	return c == "" || c == CycleMonthly || c == CycleAnnual
}

// Item is a plan or add-on pending checkout. Quantity is always 1.
type Item struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Price        int64        `json:"price"` // whole USD
	Type         ItemType     `json:"type"`
	BillingCycle BillingCycle `json:"billingCycle,omitempty"`
}

// Cart is an ordered list of items (immutable value type).
// At most one plan is present and add-on ids are unique.
type Cart struct {
	items []Item
}

// New builds a cart by adding items in order, so the invariants hold.
func New(items ...Item) Cart {
	var c Cart
	for _, it := range items {
		c = c.Add(it)
	}
	return c
}

// Add returns a cart with item added.
// A plan replaces any existing plan; an add-on whose id is present is ignored.
// This is a PURE function.
func (c Cart) Add(item Item) Cart {
	out := make([]Item, 0, len(c.items)+1)
	switch item.Type {
	case TypePlan:
		for _, it := range c.items {
			if it.Type != TypePlan {
				out = append(out, it)
			}
		}
	default:
		for _, it := range c.items {
			if it.ID == item.ID {
				return c
			}
		}
		out = append(out, c.items...)
	}
	out = append(out, item)
	return Cart{items: out}
}

// Remove returns a cart without the item with the given id.
func (c Cart) Remove(id string) Cart {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return Cart{items: out}
}

// Count returns the number of items.
func (c Cart) Count() int {
	return len(c.items)
}

// Total returns the sum of item prices. Display only; the processor computes its own total.
func (c Cart) Total() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Price
	}
	return total
}

// Items returns a copy of the items.
func (c Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// HasPlan reports whether a plan is in the cart.
func (c Cart) HasPlan() bool {
	for _, it := range c.items {
		if it.Type == TypePlan {
			return true
		}
	}
	return false
}

// Plan returns the plan in the cart, if any.
func (c Cart) Plan() (Item, bool) {
	for _, it := range c.items {
		if it.Type == TypePlan {
			return it, true
		}
	}
	return Item{}, false
}

// MarshalJSON encodes the cart as its item list.
func (c Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

// UnmarshalJSON decodes an item list, re-applying the cart invariants.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = New(items...)
	return nil
}

// ItemFor builds the cart item for a pricing-page offering.
// Plans are priced per month; annual plans show the monthly equivalent.
func ItemFor(o catalog.Offering, p catalog.Product, cycle BillingCycle) (Item, error) {
	switch o.Kind {
	case catalog.KindPlan:
		if cycle == "" {
			cycle = CycleMonthly
		}
		if !cycle.Valid() {
			return Item{}, fmt.Errorf("invalid billing cycle %q", cycle)
		}
		price := o.MonthlyPrice
		if cycle == CycleAnnual {
			price = catalog.MonthlyEquivalent(o.AnnualPrice)
		}
		return Item{
			ID:           fmt.Sprintf("plan-%d", o.Index),
			Name:         p.Name,
			Price:        price,
			Type:         TypePlan,
			BillingCycle: cycle,
		}, nil
	case catalog.KindAddon:
		return Item{
			ID:    fmt.Sprintf("addon-%d", o.Index),
			Name:  p.Name,
			Price: o.MonthlyPrice,
			Type:  TypeAddon,
		}, nil
	default:
		return Item{}, fmt.Errorf("unknown offering kind %q", o.Kind)
	}
}
