package cart_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/catalog"
)

var (
	starter = cart.Item{ID: "plan-0", Name: "Growth Starter", Price: 297, Type: cart.TypePlan, BillingCycle: cart.CycleMonthly}
	pro     = cart.Item{ID: "plan-1", Name: "Growth Pro", Price: 563, Type: cart.TypePlan, BillingCycle: cart.CycleAnnual}
	landing = cart.Item{ID: "addon-0", Name: "Custom Landing Pages", Price: 497, Type: cart.TypeAddon}
	social  = cart.Item{ID: "addon-1", Name: "Social Media Management", Price: 297, Type: cart.TypeAddon}
)

func TestAdd_PlanReplacesPlan(t *testing.T) {
	c := cart.New(starter, landing).Add(pro)

	if c.Count() != 2 {
		t.Fatalf("count = %d, want 2", c.Count())
	}
	plan, ok := c.Plan()
	if !ok || plan.ID != "plan-1" {
		t.Errorf("plan = %+v, want plan-1", plan)
	}
	items := c.Items()
	if items[0].ID != "addon-0" || items[1].ID != "plan-1" {
		t.Errorf("order = %s,%s; want addon-0,plan-1", items[0].ID, items[1].ID)
	}
}

func TestAdd_DuplicateAddonIgnored(t *testing.T) {
	c := cart.New(landing)
	again := landing
	again.Price = 1

	c = c.Add(again)
	if c.Count() != 1 {
		t.Fatalf("count = %d, want 1", c.Count())
	}
	if c.Items()[0].Price != 497 {
		t.Error("existing add-on should be kept unchanged")
	}
}

func TestAdd_DoesNotMutate(t *testing.T) {
	base := cart.New(landing)
	_ = base.Add(social)

	if base.Count() != 1 {
		t.Errorf("base count = %d, want 1", base.Count())
	}
}

func TestRemove(t *testing.T) {
	c := cart.New(starter, landing, social)

	tests := []struct {
		name  string
		id    string
		count int
	}{
		{"plan", "plan-0", 2},
		{"addon", "addon-1", 2},
		{"absent", "addon-9", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Remove(tt.id).Count(); got != tt.count {
				t.Errorf("count = %d, want %d", got, tt.count)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	c := cart.New(starter, landing, social)
	if c.Total() != 297+497+297 {
		t.Errorf("total = %d", c.Total())
	}
	if !cart.New().IsEmpty() || cart.New().Total() != 0 {
		t.Error("empty cart should have zero total")
	}
	if cart.New(landing).HasPlan() {
		t.Error("add-on only cart has no plan")
	}
}

func TestJSON_ReappliesInvariants(t *testing.T) {
	raw := `[{"id":"plan-0","name":"Growth Starter","price":297,"type":"plan"},
		{"id":"plan-1","name":"Growth Pro","price":750,"type":"plan"},
		{"id":"addon-0","name":"Custom Landing Pages","price":497,"type":"addon"},
		{"id":"addon-0","name":"Custom Landing Pages","price":497,"type":"addon"}]`

	var c cart.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Count() != 2 {
		t.Fatalf("count = %d, want 2", c.Count())
	}
	if p, _ := c.Plan(); p.ID != "plan-1" {
		t.Errorf("plan = %s, want plan-1", p.ID)
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if out[0] != '[' {
		t.Errorf("cart should encode as a list, got %s", out)
	}
}

func TestItemFor(t *testing.T) {
	products := catalog.Default()
	supreme, _ := catalog.FindOffering(catalog.KeySupreme)
	video, _ := catalog.FindOffering(catalog.KeyVideo)

	tests := []struct {
		name      string
		offering  catalog.Offering
		cycle     cart.BillingCycle
		wantID    string
		wantPrice int64
		wantCycle cart.BillingCycle
		wantErr   bool
	}{
		{"plan default monthly", supreme, "", "plan-1", 750, cart.CycleMonthly, false},
		{"plan annual", supreme, cart.CycleAnnual, "plan-1", 563, cart.CycleAnnual, false},
		{"plan bad cycle", supreme, "weekly", "", 0, "", true},
		{"addon ignores cycle", video, cart.CycleAnnual, "addon-2", 497, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := cart.ItemFor(tt.offering, products[tt.offering.Key], tt.cycle)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ItemFor failed: %v", err)
			}
			if item.ID != tt.wantID || item.Price != tt.wantPrice || item.BillingCycle != tt.wantCycle {
				t.Errorf("item = %+v", item)
			}
			if item.Name != products[tt.offering.Key].Name {
				t.Errorf("name = %q", item.Name)
			}
		})
	}
}

// checkInvariants verifies the cart properties that must hold after any operation.
func checkInvariants(t *testing.T, step int, c cart.Cart) {
	t.Helper()
	items := c.Items()

	plans := 0
	seen := map[string]bool{}
	var sum int64
	for _, it := range items {
		if it.Type == cart.TypePlan {
			plans++
		} else if seen[it.ID] {
			t.Errorf("step %d: duplicate add-on %s", step, it.ID)
		}
		seen[it.ID] = true
		sum += it.Price
	}
	if plans > 1 {
		t.Errorf("step %d: %d plans in cart", step, plans)
	}
	if c.Count() != len(items) {
		t.Errorf("step %d: Count() = %d, len(items) = %d", step, c.Count(), len(items))
	}
	if c.Total() != sum {
		t.Errorf("step %d: Total() = %d, sum = %d", step, c.Total(), sum)
	}
	if c.HasPlan() != (plans == 1) {
		t.Errorf("step %d: HasPlan() = %v with %d plans", step, c.HasPlan(), plans)
	}
}

func TestOperationSequences_KeepInvariants(t *testing.T) {
	pool := []cart.Item{
		starter, pro,
		{ID: "plan-2", Name: "Growth Enterprise", Price: 1500, Type: cart.TypePlan, BillingCycle: cart.CycleMonthly},
		landing, social,
		{ID: "addon-2", Name: "Video Marketing Package", Price: 497, Type: cart.TypeAddon},
	}

	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		var c cart.Cart
		for step := 0; step < 40; step++ {
			it := pool[rng.Intn(len(pool))]
			if rng.Intn(4) == 0 {
				c = c.Remove(it.ID)
			} else {
				c = c.Add(it)
			}
			checkInvariants(t, step, c)
		}
		if t.Failed() {
			t.Fatalf("invariants broken with seed %d", seed)
		}
	}
}
