package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"github.com/xhit/go-str2duration/v2"
)

// webURLTag validates absolute http, https, ftp and ftps URLs with a host.
const webURLTag = "weburl"

var webSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

var (
	validate = newValidator()

	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	integralRe = regexp.MustCompile(`\.0*$`)
	durationRe = regexp.MustCompile(
		`^(?:(-?\d+) (?:days?, )?)?(-?)(?:(\d+):)?(?:(\d+):)?(\d+)(?:[.,](\d{1,6})\d{0,6})?$`,
	)

	richTextPolicy = bluemonday.UGCPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(webURLTag, isWebURL); err != nil {
		panic(err)
	}

	return v
}

// isWebURL rejects the scheme:opaque strings the url tag accepts, such as
// "en:US" or "localhost:8080".
func isWebURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return webSchemes[strings.ToLower(u.Scheme)] && u.Hostname() != ""
}

// Accepted textual input formats, tried in order.
var (
	timeFormats = []string{"15:04:05", "15:04"}

	dateFormats = []string{
		"2006-1-2", "1/2/2006", "1/2/06",
		"Jan 2 2006", "Jan 2, 2006", "2 Jan 2006", "2 Jan, 2006",
		"January 2 2006", "January 2, 2006", "2 January 2006", "2 January, 2006",
	}

	dateTimeFormats = []string{
		time.RFC3339Nano,
		"2006-1-2 15:04:05Z07:00",
		"2006-1-2 15:04:05", "2006-1-2 15:04", "2006-1-2T15:04:05", "2006-1-2T15:04",
		"1/2/2006 15:04:05", "1/2/2006 15:04",
		"1/2/06 15:04:05", "1/2/06 15:04",
	}
)

// Clean converts a raw input (form text, decoded JSON or a native Go value) to
// the field's value type.
func (f *Field) Clean(raw any) (any, error) {
	raw = Resolve(raw)

	switch f.Kind {
	case Boolean:
		return f.cleanBoolean(raw)
	case NullBoolean:
		return cleanNullBoolean(raw), nil
	}

	if isEmpty(raw) {
		if f.Required {
			return nil, invalid(msgRequired)
		}

		return f.emptyValue(), nil
	}

	switch f.Kind {
	case Integer:
		return f.cleanInteger(raw)
	case Float:
		return cleanFloat(raw)
	case Decimal:
		return cleanDecimal(raw)
	case DateTime:
		return f.cleanDateTime(raw)
	case Date:
		return f.cleanDate(raw)
	case Time:
		return cleanTime(raw)
	case Duration:
		return cleanDuration(raw)
	case UUID:
		return cleanUUID(raw)
	case Email:
		return cleanTagged(raw, "email", msgEmail)
	case URL:
		return cleanTagged(raw, webURLTag, msgURL)
	case IP:
		return cleanTagged(raw, "ip", msgIP)
	case Slug:
		return cleanMatching(raw, slugRe, msgSlug)
	case Pattern:
		return f.cleanPattern(raw)
	case RichText:
		s, ok := stringOf(raw)
		if !ok {
			return nil, invalid(msgValue)
		}

		return richTextPolicy.Sanitize(s), nil
	case SingleChoice, AssetChoice:
		return f.cleanChoice(raw)
	case MultipleChoice:
		return f.cleanMultipleChoice(raw)
	case EntityChoice:
		return f.cleanEntity(raw)
	case EntityMultipleChoice:
		return f.cleanEntities(raw)
	default:
		s, ok := stringOf(raw)
		if !ok {
			return nil, invalid(msgValue)
		}

		return strings.TrimSpace(s), nil
	}
}

func (f *Field) emptyValue() any {
	switch f.Kind {
	case Text, RichText, Email, URL, IP, Slug, Pattern, SingleChoice, AssetChoice:
		return ""
	case MultipleChoice:
		return []string{}
	case EntityMultipleChoice:
		return []Entity{}
	default:
		return nil
	}
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	default:
		return false
	}
}

// stringOf renders scalar inputs as text.
func stringOf(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case fmt.Stringer:
		return v.String(), true
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.String:
		return rv.String(), true
	default:
		return "", false
	}
}

func (f *Field) cleanBoolean(raw any) (any, error) {
	var v bool

	switch b := raw.(type) {
	case nil:
	case bool:
		v = b
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		v = s != "" && s != "false" && s != "0"
	case json.Number:
		v = b.String() != "0"
	case float64:
		v = b != 0
	default:
		v = !isEmpty(raw)
	}

	if f.Required && !v {
		return nil, invalid(msgRequired)
	}

	return v, nil
}

func cleanNullBoolean(raw any) any {
	switch raw {
	case true, "true", "True", "2", "on":
		return true
	case false, "false", "False", "3":
		return false
	default:
		return nil
	}
}

func (f *Field) cleanInteger(raw any) (any, error) {
	var n int64

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, invalid(msgInteger)
		}

		n = int64(v)
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return nil, invalid(msgInteger)
		}

		n = int64(v)
	case bool:
		return nil, invalid(msgInteger)
	default:
		s, ok := stringOf(raw)
		if !ok {
			return nil, invalid(msgInteger)
		}

		parsed, err := strconv.ParseInt(integralRe.ReplaceAllString(strings.TrimSpace(s), ""), 10, 64)
		if err != nil {
			return nil, invalid(msgInteger)
		}

		n = parsed
	}

	if f.Min != nil && n < *f.Min {
		return nil, invalid(fmt.Sprintf(msgMinValue, *f.Min))
	}

	if f.Max != nil && n > *f.Max {
		return nil, invalid(fmt.Sprintf(msgMaxValue, *f.Max))
	}

	return n, nil
}

func cleanFloat(raw any) (any, error) {
	var v float64

	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case bool:
		return nil, invalid(msgNumber)
	default:
		s, ok := stringOf(raw)
		if !ok {
			return nil, invalid(msgNumber)
		}

		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, invalid(msgNumber)
		}

		v = parsed
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, invalid(msgNumber)
	}

	return v, nil
}

func cleanDecimal(raw any) (any, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalid(msgNumber)
		}

		return decimal.NewFromFloat(v), nil
	case bool:
		return nil, invalid(msgNumber)
	}

	s, ok := stringOf(raw)
	if !ok {
		return nil, invalid(msgNumber)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, invalid(msgNumber)
	}

	return d, nil
}

func (f *Field) cleanDateTime(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case civil.DateTime:
		return v.In(f.location()), nil
	case civil.Date:
		return v.In(f.location()), nil
	case string:
		s := strings.TrimSpace(v)
		if t, ok := parseDateTime(s, f.location()); ok {
			return t, nil
		}

		if d, ok := parseDate(s); ok {
			return d.In(f.location()), nil
		}
	}

	return nil, invalid(msgDateTime)
}

func (f *Field) cleanDate(raw any) (any, error) {
	switch v := raw.(type) {
	case civil.Date:
		return v, nil
	case civil.DateTime:
		return v.Date, nil
	case time.Time:
		return civil.DateOf(v.In(f.location())), nil
	case string:
		if d, ok := parseDate(strings.TrimSpace(v)); ok {
			return d, nil
		}
	}

	return nil, invalid(msgDate)
}

func cleanTime(raw any) (any, error) {
	switch v := raw.(type) {
	case civil.Time:
		return v, nil
	case civil.DateTime:
		return v.Time, nil
	case time.Time:
		return civil.TimeOf(v), nil
	case string:
		if t, ok := parseTime(strings.TrimSpace(v)); ok {
			return t, nil
		}
	}

	return nil, invalid(msgTime)
}

func cleanDuration(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case float64:
		return secondsToDuration(v), nil
	case bool:
		return nil, invalid(msgDuration)
	}

	s, ok := stringOf(raw)
	if !ok {
		return nil, invalid(msgDuration)
	}

	if d, ok := parseDuration(strings.TrimSpace(s)); ok {
		return d, nil
	}

	return nil, invalid(msgDuration)
}

func cleanUUID(raw any) (any, error) {
	if v, ok := raw.(uuid.UUID); ok {
		return v, nil
	}

	s, ok := stringOf(raw)
	if !ok {
		return nil, invalid(msgUUID)
	}

	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, invalid(msgUUID)
	}

	return id, nil
}

func cleanTagged(raw any, tag, msg string) (any, error) {
	s, ok := stringOf(raw)
	if !ok {
		return nil, invalid(msg)
	}

	s = strings.TrimSpace(s)
	if err := validate.Var(s, tag); err != nil {
		return nil, invalid(msg)
	}

	return s, nil
}

func cleanMatching(raw any, re *regexp.Regexp, msg string) (any, error) {
	s, ok := stringOf(raw)
	if !ok {
		return nil, invalid(msg)
	}

	s = strings.TrimSpace(s)
	if !re.MatchString(s) {
		return nil, invalid(msg)
	}

	return s, nil
}

func (f *Field) cleanPattern(raw any) (any, error) {
	if f.Pattern == nil {
		return nil, invalid(msgPatternSyntax)
	}

	return cleanMatching(raw, f.Pattern, msgValue)
}

func (f *Field) cleanChoice(raw any) (any, error) {
	s, ok := stringOf(raw)
	if !ok {
		return nil, invalid(fmt.Sprintf(msgChoice, fmt.Sprint(raw)))
	}

	options, err := f.Options()
	if err != nil {
		return nil, err
	}

	if !options.Has(s) {
		return nil, invalid(fmt.Sprintf(msgChoice, s))
	}

	return s, nil
}

func (f *Field) cleanMultipleChoice(raw any) (any, error) {
	values, ok := listOf(raw)
	if !ok {
		return nil, invalid(msgList)
	}

	options, err := f.Options()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		if !options.Has(v) {
			return nil, invalid(fmt.Sprintf(msgChoice, v))
		}
	}

	return values, nil
}

func (f *Field) cleanEntity(raw any) (any, error) {
	id, ok := entityIDOf(raw)
	if !ok {
		return nil, invalid(fmt.Sprintf(msgChoice, fmt.Sprint(raw)))
	}

	if f.Collection == nil {
		return nil, invalid(fmt.Sprintf(msgChoice, id))
	}

	found, err := f.Collection.Find(id)
	if err != nil {
		return nil, err
	}

	if len(found) != 1 {
		return nil, invalid(fmt.Sprintf(msgChoice, id))
	}

	return found[0], nil
}

func (f *Field) cleanEntities(raw any) (any, error) {
	var ids []string

	switch v := raw.(type) {
	case []Entity:
		for _, e := range v {
			ids = append(ids, e.EntityID())
		}
	case EntitySet:
		all, err := v.Identities()
		if err != nil {
			return nil, err
		}

		ids = all
	default:
		list, ok := listOf(raw)
		if !ok {
			return nil, invalid(msgList)
		}

		ids = list
	}

	if f.Collection == nil {
		return nil, invalid(fmt.Sprintf(msgChoice, strings.Join(ids, ", ")))
	}

	found, err := f.Collection.Find(ids...)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]Entity, len(found))
	for _, e := range found {
		seen[e.EntityID()] = e
	}

	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		e, ok := seen[id]
		if !ok {
			return nil, invalid(fmt.Sprintf(msgChoice, id))
		}

		out = append(out, e)
	}

	return out, nil
}

func entityIDOf(raw any) (string, bool) {
	if e, ok := raw.(Entity); ok {
		return e.EntityID(), true
	}

	return stringOf(raw)
}

// listOf accepts a single scalar or any slice of scalars.
func listOf(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case string:
		return []string{v}, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]string, 0, rv.Len())
	for i := range rv.Len() {
		s, ok := stringOf(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}

		out = append(out, s)
	}

	return out, true
}

func parseTime(s string) (civil.Time, bool) {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.TimeOf(t), true
		}
	}

	return civil.Time{}, false
}

func parseDate(s string) (civil.Date, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}

	return civil.Date{}, false
}

func parseDateTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateTimeFormats {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// parseDuration accepts plain seconds ("840.0"), "[DD ]HH:MM:SS[.ffffff]" and
// unit strings such as "1h30m" or "2d".
func parseDuration(s string) (time.Duration, bool) {
	if seconds, err := strconv.ParseFloat(s, 64); err == nil {
		return secondsToDuration(seconds), true
	}

	if m := durationRe.FindStringSubmatch(s); m != nil {
		days, hours, minutes := m[1], m[3], m[4]
		if minutes == "" {
			hours, minutes = "", hours
		}

		d := time.Duration(atoi(hours))*time.Hour +
			time.Duration(atoi(minutes))*time.Minute +
			time.Duration(atoi(m[5]))*time.Second

		if frac := m[6]; frac != "" {
			d += time.Duration(atoi(frac+strings.Repeat("0", 6-len(frac)))) * time.Microsecond
		}

		if m[2] == "-" {
			d = -d
		}

		return d + time.Duration(atoi(days))*24*time.Hour, true
	}

	if d, err := str2duration.ParseDuration(s); err == nil {
		return d, true
	}

	return 0, false
}

func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
