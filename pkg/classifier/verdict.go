package classifier

// Category identifies the kind of threat a verdict reports.
type Category string

const (
	CategorySafe             Category = "safe"
	CategoryXSS              Category = "xss"
	CategorySQLInjection     Category = "sql-injection"
	CategoryCommandInjection Category = "command-injection"
	CategoryPathTraversal    Category = "path-traversal"
	CategoryOther            Category = "other"
	CategoryError            Category = "error"
)

// Verdict is the result of classifying a single text value. Confidence is
// always within [0,100]: safety confidence when the input is safe, risk
// confidence when it is not.
type Verdict struct {
	IsSafe      bool     `json:"isSafe"`
	Confidence  int      `json:"confidence"`
	Category    Category `json:"category"`
	Explanation string   `json:"explanation"`
}

// FieldResult pairs a verdict with the form field it was produced for.
type FieldResult struct {
	Field  string  `json:"field"`
	Result Verdict `json:"result"`
}

// AggregateVerdict is the record-level decision derived from all per-field
// verdicts. Field names the field responsible for the verdict.
type AggregateVerdict struct {
	IsSafe     bool   `json:"isSafe"`
	Confidence int    `json:"confidence"`
	Field      string `json:"field"`
	Message    string `json:"message"`
	Category   string `json:"category"`
}

// Field is a single named value of a submitted record. Records are passed as
// ordered slices because the reduction rule depends on field order.
type Field struct {
	Name  string
	Value string
}
