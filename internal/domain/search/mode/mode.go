package mode

// Match is the token combination strategy.
type Match string

// Match mode constants.
const (
	// All requires every query token to appear in a document.
	All Match = "all"
	// Any requires at least one query token to appear. This is the
	// default; it maps the `search_option=partial` request value.
	Any Match = "any"
)

// IsValid checks if the match mode is one of the supported values.
func (m Match) IsValid() bool {
	return m == All || m == Any
}

// Field is the field target of a query plan.
type Field string

// Field target constants.
const (
	// Title matches against the company-name field only.
	Title Field = "title"
	// TitleContent matches against title and page content (the `auto`
	// request value).
	TitleContent Field = "auto"
)

// IsValid checks if the field target is one of the supported values.
func (f Field) IsValid() bool {
	return f == Title || f == TitleContent
}
