package plan

// Plan represents a subscription plan. Price is an integer amount in
// a single currency with no minor units. Names are not unique.
type Plan struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
