package classifier

import "regexp"

// signature is a fixed pattern rule that detects a known attack category
// without consulting the scoring oracle.
type signature struct {
	category    Category
	pattern     *regexp.Regexp
	confidence  int
	explanation string
}

// signatures are evaluated in priority order with first match winning. XSS
// and SQL patterns run before the broader command-injection and
// path-traversal character classes so that a specific attack is never
// reported under a weaker category it happens to also match.
var signatures = []signature{
	{
		category:    CategoryXSS,
		pattern:     regexp.MustCompile(`(?i)<script>|javascript:|on\w+\s*=|alert\s*\(|document\.cookie`),
		confidence:  95,
		explanation: "Contains patterns commonly used in Cross-Site Scripting (XSS) attacks.",
	},
	{
		category:    CategorySQLInjection,
		pattern:     regexp.MustCompile(`(?i)(\b(SELECT|INSERT|UPDATE|DELETE|DROP|ALTER)\b.*\b(FROM|INTO|TABLE)\b)|('|").*(\s|\+)(\b(OR|AND)\b).*('|")|--.*$`),
		confidence:  90,
		explanation: "Contains SQL syntax that could be used for SQL Injection attacks.",
	},
	{
		category:    CategoryCommandInjection,
		pattern:     regexp.MustCompile(";|\\||\\$\\(|`|&"),
		confidence:  85,
		explanation: "Contains characters commonly used for Command Injection attacks.",
	},
	{
		category:    CategoryPathTraversal,
		pattern:     regexp.MustCompile(`\.\./`),
		confidence:  80,
		explanation: "Contains directory traversal patterns that could be used to access unauthorized files.",
	},
}

// matchSignatures applies the signature table to text, short-circuiting on
// the first match. The second return value reports whether any signature
// matched.
func matchSignatures(text string) (Verdict, bool) {
	for _, sig := range signatures {
		if sig.pattern.MatchString(text) {
			return Verdict{
				IsSafe:      false,
				Confidence:  sig.confidence,
				Category:    sig.category,
				Explanation: sig.explanation,
			}, true
		}
	}
	return Verdict{}, false
}
