package model

// Row is one uploaded record, column name to loosely typed value.
// Uploads arrive as parsed CSV/JSON where everything may still be a
// string; typed loaders coerce at the boundary.
type Row map[string]interface{}

// Table is an ordered sequence of rows for one dataset kind.
type Table []Row

// Dataset kinds accepted by the engine.
const (
	DatasetInfluencers = "influencers"
	DatasetPosts       = "posts"
	DatasetTracking    = "tracking"
	DatasetPayouts     = "payouts"
)

// Column value types enforced by the validator.
const (
	ColumnTypeString  = "string"
	ColumnTypeInteger = "integer"
	ColumnTypeDecimal = "decimal"
	ColumnTypeDate    = "date"
)

// Payout basis values.
const (
	PayoutBasisPost  = "post"
	PayoutBasisOrder = "order"
)

// ColumnSpec is the contract for one required column.
type ColumnSpec struct {
	Name        string
	Type        string
	NonNegative bool
	Enum        []string
}

// requiredColumns is the per-kind required column contract. Extra
// unexpected columns are ignored for forward compatibility.
var requiredColumns = map[string][]ColumnSpec{
	DatasetInfluencers: {
		{Name: "id", Type: ColumnTypeString},
		{Name: "name", Type: ColumnTypeString},
		{Name: "category", Type: ColumnTypeString},
		{Name: "gender", Type: ColumnTypeString},
		{Name: "follower_count", Type: ColumnTypeInteger, NonNegative: true},
		{Name: "platform", Type: ColumnTypeString},
	},
	DatasetPosts: {
		{Name: "influencer_id", Type: ColumnTypeString},
		{Name: "platform", Type: ColumnTypeString},
		{Name: "date", Type: ColumnTypeDate},
		{Name: "url", Type: ColumnTypeString},
		{Name: "caption", Type: ColumnTypeString},
		{Name: "reach", Type: ColumnTypeInteger, NonNegative: true},
		{Name: "likes", Type: ColumnTypeInteger, NonNegative: true},
		{Name: "comments", Type: ColumnTypeInteger, NonNegative: true},
	},
	DatasetTracking: {
		{Name: "source", Type: ColumnTypeString},
		{Name: "campaign", Type: ColumnTypeString},
		{Name: "influencer_id", Type: ColumnTypeString},
		{Name: "user_id", Type: ColumnTypeString},
		{Name: "product", Type: ColumnTypeString},
		{Name: "date", Type: ColumnTypeDate},
		{Name: "orders", Type: ColumnTypeInteger, NonNegative: true},
		{Name: "revenue", Type: ColumnTypeDecimal, NonNegative: true},
	},
	DatasetPayouts: {
		{Name: "influencer_id", Type: ColumnTypeString},
		{Name: "basis", Type: ColumnTypeString, Enum: []string{PayoutBasisPost, PayoutBasisOrder}},
		{Name: "total_payout", Type: ColumnTypeDecimal, NonNegative: true},
	},
}

// IsValidDatasetKind reports whether kind is one of the four dataset kinds.
func IsValidDatasetKind(kind string) bool {
	_, exists := requiredColumns[kind]
	return exists
}

// RequiredColumnsForKind returns a copy of the column contract for kind.
func RequiredColumnsForKind(kind string) []ColumnSpec {
	specs := requiredColumns[kind]
	out := make([]ColumnSpec, len(specs))
	copy(out, specs)
	return out
}
