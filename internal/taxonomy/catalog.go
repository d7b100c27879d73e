package taxonomy

// Customer is a tenant with the ordered set of tags its emails may receive.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tags []Tag  `json:"tags"`
}

// Catalog maps customer identifiers to their allowed tags.
// It is built once with NewCatalog and never mutated afterwards.
type Catalog struct {
	customers []Customer
	byID      map[string]int
}

// NewCatalog returns the fixed three-customer catalog.
func NewCatalog() *Catalog {
	return newCatalog([]Customer{
		{
			ID:   "customer_A",
			Name: "Acme Corp",
			Tags: []Tag{Billing, TechnicalSupport, FeatureRequest},
		},
		{
			ID:   "customer_B",
			Name: "Beta Industries",
			Tags: []Tag{AccountIssue, BugReport, GeneralInquiry},
		},
		{
			ID:   "customer_C",
			Name: "Gamma Tech",
			Tags: []Tag{Billing, BugReport, FeatureRequest, TechnicalSupport},
		},
	})
}

func newCatalog(customers []Customer) *Catalog {
	c := &Catalog{
		customers: customers,
		byID:      make(map[string]int, len(customers)),
	}
	for i, cust := range customers {
		c.byID[cust.ID] = i
	}
	return c
}

// Customers returns a copy of all customers in catalog order.
func (c *Catalog) Customers() []Customer {
	out := make([]Customer, len(c.customers))
	for i, cust := range c.customers {
		out[i] = cust
		out[i].Tags = append([]Tag(nil), cust.Tags...)
	}
	return out
}

// Customer looks up a customer by identifier.
func (c *Catalog) Customer(id string) (Customer, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Customer{}, false
	}
	cust := c.customers[i]
	cust.Tags = append([]Tag(nil), cust.Tags...)
	return cust, true
}

// TagsFor returns the ordered tags the customer is allowed to receive.
// The returned slice is a copy.
func (c *Catalog) TagsFor(customerID string) ([]Tag, bool) {
	cust, ok := c.Customer(customerID)
	if !ok {
		return nil, false
	}
	return cust.Tags, true
}

// Allows reports whether tag is permitted for the customer.
func (c *Catalog) Allows(customerID string, tag Tag) bool {
	i, ok := c.byID[customerID]
	if !ok {
		return false
	}
	return Contains(c.customers[i].Tags, tag)
}
