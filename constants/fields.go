package constants

// BillFields is the fixed set of attributes the extraction prompt asks for.
// The order is stable so prompts stay byte-identical across model variants;
// changing this list changes the output schema for every model at once.
var BillFields = []string{
	"account_number",
	"consumer_number",
	"bill_number",
	"invoice_date",
	"due_date",
	"billing_period_start",
	"billing_period_end",
	"billing_month",
	"customer_name",
	"customer_address",
	"service_address",
	"city",
	"state",
	"postal_code",
	"utility_provider",
	"service_type",
	"tariff_category",
	"sanctioned_load_kw",
	"connected_load_kw",
	"meter_number",
	"previous_reading",
	"current_reading",
	"reading_date",
	"units_consumed",
	"consumption_unit",
	"energy_charges",
	"fixed_charges",
	"fuel_surcharge",
	"electricity_duty",
	"tax_amount",
	"arrears",
	"adjustments",
	"subsidy_amount",
	"late_payment_fee",
	"previous_balance",
	"payments_received",
	"security_deposit",
	"total_amount_due",
	"amount_after_due_date",
	"payment_status",
}
