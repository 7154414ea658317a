package schema

// Kind identifies how a field cleans and renders its value.
type Kind string

const (
	NullBoolean          Kind = "nullboolean"
	Boolean              Kind = "boolean"
	Integer              Kind = "integer"
	Float                Kind = "float"
	Decimal              Kind = "decimal"
	DateTime             Kind = "datetime"
	Date                 Kind = "date"
	Time                 Kind = "time"
	Duration             Kind = "duration"
	UUID                 Kind = "uuid"
	Text                 Kind = "text"
	RichText             Kind = "richtext"
	Email                Kind = "email"
	URL                  Kind = "url"
	IP                   Kind = "ip"
	Slug                 Kind = "slug"
	Pattern              Kind = "pattern"
	SingleChoice         Kind = "choice"
	MultipleChoice       Kind = "multiplechoice"
	EntityChoice         Kind = "entitychoice"
	EntityMultipleChoice Kind = "entitymultiplechoice"
	AssetChoice          Kind = "assetchoice"
)

// Multiple reports whether values of this kind are lists.
func (k Kind) Multiple() bool {
	return k == MultipleChoice || k == EntityMultipleChoice
}

// Selectable reports whether the kind offers a fixed set of options.
func (k Kind) Selectable() bool {
	switch k {
	case SingleChoice, MultipleChoice, EntityChoice, EntityMultipleChoice, AssetChoice:
		return true
	default:
		return false
	}
}

// Widget is the HTML input used to edit values of this kind.
func (k Kind) Widget() string {
	switch k {
	case Boolean:
		return "checkbox"
	case NullBoolean:
		return "nullboolean"
	case Integer, Float, Decimal:
		return "number"
	case Date:
		return "date"
	case Time:
		return "time"
	case DateTime:
		return "datetime"
	case Email:
		return "email"
	case URL:
		return "url"
	case RichText:
		return "textarea"
	case SingleChoice, EntityChoice, AssetChoice:
		return "select"
	case MultipleChoice, EntityMultipleChoice:
		return "selectmultiple"
	default:
		return "text"
	}
}

// requiredByDefault mirrors the usual form behaviour where a checkbox or tri-state
// input can always be left alone.
func (k Kind) requiredByDefault() bool {
	switch k {
	case Boolean, NullBoolean, Pattern:
		return false
	default:
		return true
	}
}
