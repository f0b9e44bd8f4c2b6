package invoiceservice

// InvoiceItemInput is one line of a create/update request. Amount and
// quantity are text at this boundary; C1 (money package) converts them.
type InvoiceItemInput struct {
	Name      string `validate:"required,max=255"`
	Quantity  string `validate:"required"`
	Unit      string `validate:"required,max=32"`
	UnitPrice string `validate:"required"`
	VATRate   string `validate:"required,vatrate"`
}

// CreateInvoiceInput is the service-facing DTO for Create, struct-tag
// validated with go-playground/validator/v10 before any domain logic runs
// (§10.4), the direct generalisation of the donor's per-field
// `binding:"required"` request-struct convention.
type CreateInvoiceInput struct {
	IssueDate       string `validate:"required,yyyymmdd"`
	SaleDate        string `validate:"required,yyyymmdd"`
	ClientID        uint   `validate:"required"`
	Status          string `validate:"omitempty,invoicestatus"`
	PaymentMethod   string `validate:"required,paymentmethod"`
	PaymentDeadline string `validate:"omitempty,yyyymmdd"`
	Currency        string `validate:"required,currencycode"`
	ExchangeRate    string
	Notes           string `validate:"max=2000"`
	InvoiceNumber   string // optional explicit override, §4.4's alternative path

	Items []InvoiceItemInput `validate:"required,min=1,dive"`
}

// UpdateInvoiceInput is the service-facing DTO for Update; every field is
// applied wholesale (items are always replaced, per §4.5).
type UpdateInvoiceInput struct {
	ID              uint   `validate:"required"`
	IssueDate       string `validate:"required,yyyymmdd"`
	SaleDate        string `validate:"required,yyyymmdd"`
	ClientID        uint   `validate:"required"`
	PaymentMethod   string `validate:"required,paymentmethod"`
	PaymentDeadline string `validate:"omitempty,yyyymmdd"`
	Currency        string `validate:"required,currencycode"`
	ExchangeRate    string
	Notes           string `validate:"max=2000"`
	InvoiceNumber   string // optional: change the number, subject to §3's uniqueness/immutability rules

	Items []InvoiceItemInput `validate:"required,min=1,dive"`
}
