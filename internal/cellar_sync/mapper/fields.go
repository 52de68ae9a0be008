package mapper

// Coercion kinds routing a source column to its target field type.
type coercion int

const (
	coerceRaw    coercion = iota // string, nil when empty
	coerceKey                    // natural key, verbatim
	coerceNumber                 // nullable float
	coerceInt                    // nullable integer
	coerceDate                   // M/D/YYYY -> ISO, nullable
	coerceState                  // integer flag, defaults to 1
)

type fieldMapping struct {
	Source string
	Target string
	Kind   coercion
}

// wineFields maps the List export columns to wine fields. Adding a column is
// a data change here, not a code change in the mapper.
var wineFields = []fieldMapping{
	{"iWine", "ct_wine_id", coerceKey},
	{"Wine", "wine_name", coerceRaw},
	{"Vintage", "vintage", coerceRaw},
	{"Producer", "producer", coerceRaw},
	{"SortProducer", "sort_producer", coerceRaw},
	{"Varietal", "varietal", coerceRaw},
	{"MasterVarietal", "master_varietal", coerceRaw},
	{"Designation", "designation", coerceRaw},
	{"Vineyard", "vineyard", coerceRaw},
	{"Country", "country", coerceRaw},
	{"Region", "region", coerceRaw},
	{"SubRegion", "sub_region", coerceRaw},
	{"Appellation", "appellation", coerceRaw},
	{"Locale", "locale", coerceRaw},
	{"Type", "type", coerceRaw},
	{"Color", "color", coerceRaw},
	{"Category", "category", coerceRaw},
	{"Size", "bottle_size", coerceRaw},
	{"Location", "location", coerceRaw},
	{"Bin", "bin", coerceRaw},
	{"Price", "price", coerceNumber},
	{"Valuation", "valuation", coerceNumber},
	{"Currency", "currency", coerceRaw},
	{"ExchangeRate", "exchange_rate", coerceNumber},
	{"NativePrice", "native_price", coerceNumber},
	{"NativePriceCurrency", "native_price_currency", coerceRaw},
	{"StoreName", "store_name", coerceRaw},
	{"PurchaseDate", "purchase_date", coerceDate},
	{"BeginConsume", "drink_date_min", coerceRaw},
	{"EndConsume", "drink_date_max", coerceRaw},
	{"Note", "personal_note", coerceRaw},
	{"MY", "my_score", coerceRaw},
	{"CT", "ct_score", coerceNumber},
	{"CNotes", "ct_notes_count", coerceInt},
	{"PNotes", "personal_notes_count", coerceInt},
}

// bottleFields maps the Bottles export columns to bottle fields.
var bottleFields = []fieldMapping{
	{"Barcode", "ct_bottle_id", coerceKey},
	{"iWine", "wine_id", coerceKey},
	{"BottleState", "bottle_state", coerceState},
	{"Location", "location", coerceRaw},
	{"Bin", "bin", coerceRaw},
	{"Size", "bottle_size", coerceRaw},
	{"Price", "price", coerceNumber},
	{"StoreName", "store_name", coerceRaw},
	{"PurchaseDate", "purchase_date", coerceDate},
	{"ConsumeDate", "consumed_date", coerceDate},
	{"ConsumeNote", "consumed_note", coerceRaw},
}

// criticScoreColumns are the fixed critic-code columns of the List export.
// Parsed scores land in the critic_scores map keyed by these codes.
var criticScoreColumns = []string{
	"WA", "WS", "IWC", "BH", "AG", "WE", "JR", "RH", "JG", "GV",
	"JK", "LD", "CW", "WFW", "PR", "SJ", "WD", "RR", "JH", "MFW",
	"WWR", "IWR", "CHG", "TT", "TWF", "DR", "FP", "JM", "PG", "WAL", "JS",
}
