package dataset

// Source fields of the airline flights dataset
const (
	FieldAirline         = "airline"
	FieldSourceCity      = "source_city"
	FieldDestinationCity = "destination_city"
	FieldClass           = "class"
	FieldStops           = "stops"
	FieldDaysLeft        = "days_left"
	FieldPrice           = "price"
)

// Fields added by the currency conversion
const (
	FieldPriceINR         = "price_inr"
	FieldPriceUSD         = "price_usd"
	FieldCurrency         = "currency"
	FieldExchangeRateUsed = "exchange_rate_used"
	FieldConversionDate   = "conversion_date"
)

// DerivedFields lists the conversion fields in output order. They are placed
// directly after FieldPrice.
var DerivedFields = []string{
	FieldPriceINR,
	FieldPriceUSD,
	FieldCurrency,
	FieldExchangeRateUsed,
	FieldConversionDate,
}
