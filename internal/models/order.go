package models

// Action is a raw purchase-action record as stored by the shopping-cart
// integration. One document per cart action; only "buy_product" actions
// are relevant to attribution.
type Action struct {
	Action                 string        `json:"action"`
	RoasUserID             string        `json:"roas_user_id"`
	CreatedAtUnixTimestamp int64         `json:"created_at_unix_timestamp"`
	Email                  string        `json:"email,omitempty"`
	IP                     string        `json:"ip,omitempty"`
	FirstName              string        `json:"first_name,omitempty"`
	LastName               string        `json:"last_name,omitempty"`
	Lead                   Lead          `json:"lead"`
	ActionDetails          ActionDetails `json:"action_details"`
}

// Lead carries the contact fields embedded in a cart action.
type Lead struct {
	Email     string `json:"email,omitempty"`
	IP        string `json:"ip,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type ActionDetails struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
}

// TransactionDetails is the payment payload of a buy_product action.
// Monetary amounts arrive as strings and are kept as strings until the
// cart projection converts them.
type TransactionDetails struct {
	LeadIP                string `json:"lead_ip,omitempty"`
	LeadEmail             string `json:"lead_email,omitempty"`
	GdprLeadStatusIP      string `json:"gdpr_lead_status_ip,omitempty"`
	BuyerEmail            string `json:"buyer_email,omitempty"`
	Price                 string `json:"price,omitempty"`
	ProductName           string `json:"product_name,omitempty"`
	TransactionAmount     string `json:"transaction_amount,omitempty"`
	TransactionBaseAmount string `json:"transaction_base_amount,omitempty"`
	TransactionFullAmount string `json:"transaction_full_amount,omitempty"`
	TransactionID         string `json:"transaction_id,omitempty"`
	TransactionQuantity   int    `json:"transaction_quantity,omitempty"`
}

// Order is one completed purchase, flattened from an Action: the lead
// fields, the action envelope and the transaction details merged into a
// single record. Orders are read-only inputs for a single report run.
type Order struct {
	TransactionID          string `json:"transaction_id"`
	Email                  string `json:"email,omitempty"`
	IP                     string `json:"ip,omitempty"`
	RoasUserID             string `json:"roas_user_id"`
	FirstName              string `json:"first_name,omitempty"`
	LastName               string `json:"last_name,omitempty"`
	CreatedAtUnixTimestamp int64  `json:"created_at_unix_timestamp"`
	LeadIP                 string `json:"lead_ip,omitempty"`
	LeadEmail              string `json:"lead_email,omitempty"`
	GdprLeadStatusIP       string `json:"gdpr_lead_status_ip,omitempty"`
	BuyerEmail             string `json:"buyer_email,omitempty"`
	Price                  string `json:"price,omitempty"`
	ProductName            string `json:"product_name,omitempty"`
	TransactionAmount      string `json:"transaction_amount,omitempty"`
	TransactionBaseAmount  string `json:"transaction_base_amount,omitempty"`
	TransactionFullAmount  string `json:"transaction_full_amount,omitempty"`
	TransactionQuantity    int    `json:"transaction_quantity,omitempty"`
}

// LineItem is an Order projected to the fields the report keeps per
// purchase.
type LineItem struct {
	Price                  string `json:"price,omitempty"`
	ProductName            string `json:"product_name,omitempty"`
	TransactionAmount      string `json:"transaction_amount,omitempty"`
	TransactionBaseAmount  string `json:"transaction_base_amount,omitempty"`
	TransactionID          string `json:"transaction_id"`
	TransactionQuantity    int    `json:"transaction_quantity,omitempty"`
	CreatedAtUnixTimestamp int64  `json:"created_at_unix_timestamp"`
	TransactionFullAmount  string `json:"transaction_full_amount,omitempty"`
}

// Customer is the canonical identity derived from all Orders sharing an
// email. Exactly one Customer exists per distinct raw email upstream;
// case-variant duplicates may still merge at report assembly.
type Customer struct {
	Email          string     `json:"email"`
	LowerCaseEmail string     `json:"lower_case_email"`
	IPAddress      string     `json:"ip_address,omitempty"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	RoasUserID     string     `json:"roas_user_id"`
	GeoCountry     string     `json:"geo_country,omitempty"`
	LineItems      []LineItem `json:"line_items"`
	Cart           []CartItem `json:"cart"`
	Stats          Stats      `json:"stats"`
}

// CartItem is a purchased product with its charged amount.
type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Stats summarizes a cart.
type Stats struct {
	SalesCount int     `json:"sales_count"`
	RevenueSum float64 `json:"revenue_sum"`
}
