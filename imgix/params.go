package imgix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// error messages
var rangeError = "must be within [%v, %v]"
var enumError = "must be one of %s"
var kindError = "must be a valid %s"
var countError = "must contain exactly %d items"
var reservedError = "`%s` is set by %s"

// Kind is the type of value a parameter accepts.
type Kind int

// Kinds of parameter values.
const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindEnum
	KindBoolean
	KindList
	KindRatio
	KindColor
	KindBase64
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindInteger: "integer",
	KindFloat:   "float",
	KindEnum:    "enum",
	KindBoolean: "boolean",
	KindList:    "list",
	KindRatio:   "ratio",
	KindColor:   "color",
	KindBase64:  "base64",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets the kind show up by name in the JSON profile.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Range is an inclusive numeric range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r *Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r *Range) String() string {
	return fmt.Sprintf(rangeError, r.Min, r.Max)
}

// Parameter describes how a single key is validated.
//
// For a KindList, Enum restricts every item, Range turns every item into an
// integer within the range and Items fixes the number of items.
type Parameter struct {
	Kind        Kind     `json:"kind"`
	Description string   `json:"description"`
	Range       *Range   `json:"range,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Items       int      `json:"items,omitempty"`
	Excludes    []string `json:"excludes,omitempty"`
}

// Conflict is a cross-key rule checked at render time. It is violated when
// every key in Keys is present and, for the keys listed in Values, the
// current value is one of the listed ones.
type Conflict struct {
	Keys   []string            `json:"keys"`
	Values map[string][]string `json:"values,omitempty"`
	Reason string              `json:"reason"`
}

var (
	dimension  = &Range{1, 8192}
	percent    = &Range{0, 100}
	adjustment = &Range{-100, 100}
	unit       = &Range{0, 1}
	degrees    = &Range{0, 359}

	alignments = []string{"top", "middle", "bottom", "left", "center", "right"}
	fitModes   = []string{"clamp", "clip", "crop", "facearea", "fill", "fillmax", "max", "min", "scale"}
	notCrop    = []string{"clamp", "clip", "facearea", "fill", "fillmax", "max", "min", "scale"}
)

// Parameters is the closed set of known keys. It mirrors the rendering API
// reference and is the only place a new key needs to be declared.
var Parameters = map[string]Parameter{
	// Size
	"w":     {Kind: KindInteger, Range: dimension, Description: "output width"},
	"h":     {Kind: KindInteger, Range: dimension, Description: "output height"},
	"ar":    {Kind: KindRatio, Description: "aspect ratio W:H, with fit=crop"},
	"fit":   {Kind: KindEnum, Enum: fitModes, Description: "resize fit mode"},
	"crop":  {Kind: KindList, Enum: []string{"top", "bottom", "left", "right", "faces", "focalpoint", "edges", "entropy"}, Description: "crop mode"},
	"rect":  {Kind: KindList, Range: &Range{0, 65535}, Items: 4, Description: "source rectangle x,y,w,h"},
	"min-w": {Kind: KindInteger, Range: dimension, Description: "minimum width"},
	"min-h": {Kind: KindInteger, Range: dimension, Description: "minimum height"},
	"max-w": {Kind: KindInteger, Range: dimension, Description: "maximum width"},
	"max-h": {Kind: KindInteger, Range: dimension, Description: "maximum height"},

	// Format
	"fm":       {Kind: KindEnum, Enum: []string{"avif", "blurhash", "gif", "jp2", "jpg", "json", "jxr", "mp4", "pjpg", "png", "png8", "png32", "webm", "webp"}, Description: "output format"},
	"q":        {Kind: KindInteger, Range: percent, Description: "output quality"},
	"dpr":      {Kind: KindFloat, Range: &Range{0.1, 10}, Description: "device pixel ratio"},
	"auto":     {Kind: KindList, Enum: []string{"compress", "enhance", "format", "redeye"}, Description: "automatic optimizations"},
	"lossless": {Kind: KindBoolean, Description: "lossless compression"},
	"cs":       {Kind: KindEnum, Enum: []string{"adobergb1998", "srgb", "strip", "tinysrgb"}, Description: "color space"},
	"ch":       {Kind: KindList, Enum: []string{"DPR", "Save-Data", "Width"}, Description: "client hints"},
	"dl":       {Kind: KindString, Description: "download file name"},
	"expires":  {Kind: KindInteger, Range: &Range{0, 1 << 53}, Description: "expiration unix timestamp"},

	// Rotation
	"rot":    {Kind: KindFloat, Range: degrees, Description: "rotation in degrees"},
	"flip":   {Kind: KindEnum, Enum: []string{"h", "hv", "v"}, Description: "flip axis"},
	"orient": {Kind: KindEnum, Enum: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "90", "180", "270"}, Description: "orientation"},

	// Adjustment
	"bri":        {Kind: KindInteger, Range: adjustment, Description: "brightness"},
	"con":        {Kind: KindInteger, Range: adjustment, Description: "contrast"},
	"exp":        {Kind: KindInteger, Range: adjustment, Description: "exposure"},
	"gam":        {Kind: KindInteger, Range: adjustment, Description: "gamma"},
	"high":       {Kind: KindInteger, Range: &Range{-100, 0}, Description: "highlight"},
	"hue":        {Kind: KindInteger, Range: degrees, Description: "hue shift"},
	"sat":        {Kind: KindInteger, Range: adjustment, Description: "saturation"},
	"shad":       {Kind: KindInteger, Range: percent, Description: "shadow"},
	"vib":        {Kind: KindInteger, Range: adjustment, Description: "vibrance"},
	"sharp":      {Kind: KindFloat, Range: percent, Description: "sharpen"},
	"blur":       {Kind: KindInteger, Range: &Range{0, 2000}, Description: "gaussian blur"},
	"px":         {Kind: KindInteger, Range: percent, Description: "pixellate"},
	"invert":     {Kind: KindBoolean, Description: "invert colors"},
	"sepia":      {Kind: KindInteger, Range: percent, Description: "sepia tone"},
	"monochrome": {Kind: KindColor, Description: "monochrome tint"},
	"bg":         {Kind: KindColor, Description: "background color"},
	"pad":        {Kind: KindInteger, Range: &Range{0, 5000}, Description: "padding"},
	"trim":       {Kind: KindEnum, Enum: []string{"auto", "color"}, Description: "trim mode"},

	// Focal point
	"fp-x":     {Kind: KindFloat, Range: unit, Description: "focal point x"},
	"fp-y":     {Kind: KindFloat, Range: unit, Description: "focal point y"},
	"fp-z":     {Kind: KindFloat, Range: &Range{1, 100}, Description: "focal point zoom"},
	"fp-debug": {Kind: KindBoolean, Description: "focal point debug overlay"},

	// Text, watermark and blend
	"txt":        {Kind: KindString, Excludes: []string{"txt64"}, Description: "text overlay"},
	"txt64":      {Kind: KindBase64, Excludes: []string{"txt"}, Description: "text overlay (base64)"},
	"txt-color":  {Kind: KindColor, Description: "text color"},
	"txt-size":   {Kind: KindInteger, Range: &Range{1, 1000}, Description: "text size"},
	"txt-font":   {Kind: KindString, Description: "text font"},
	"txt-align":  {Kind: KindList, Enum: alignments, Description: "text alignment"},
	"mark":       {Kind: KindString, Excludes: []string{"mark64"}, Description: "watermark image"},
	"mark64":     {Kind: KindBase64, Excludes: []string{"mark"}, Description: "watermark image (base64)"},
	"mark-align": {Kind: KindList, Enum: alignments, Description: "watermark alignment"},
	"mark-alpha": {Kind: KindInteger, Range: percent, Description: "watermark alpha"},
	"blend":      {Kind: KindString, Excludes: []string{"blend64"}, Description: "blend image or color"},
	"blend64":    {Kind: KindBase64, Excludes: []string{"blend"}, Description: "blend image (base64)"},
}

// Conflicts lists the rules involving more than a pair of keys or their
// values.
var Conflicts = []Conflict{
	{
		Keys:   []string{"ar", "h", "w"},
		Reason: "`ar` is already implied by an explicit `w` and `h`",
	},
	{
		Keys:   []string{"ar", "fit"},
		Values: map[string][]string{"fit": notCrop},
		Reason: "`ar` only applies with fit=crop",
	},
	{
		Keys:   []string{"crop", "fit"},
		Values: map[string][]string{"fit": notCrop},
		Reason: "`crop` only applies with fit=crop",
	},
}

// Reserved keys cannot be set as parameters.
var Reserved = map[string]string{
	"s":     "WithSigningKey",
	"ixlib": "WithLib",
}

// Validate checks a value against the parameter table.
func Validate(key, value string) error {
	if by, ok := Reserved[key]; ok {
		return &ParamError{ErrReservedKey, key, value, fmt.Sprintf(reservedError, key, by)}
	}

	p, ok := Parameters[key]
	if !ok {
		return &ParamError{Err: ErrUnknownKey, Key: key, Value: value}
	}

	if value == "" {
		return &ParamError{Err: ErrEmptyValue, Key: key}
	}

	if reason := p.check(value); reason != "" {
		return &ParamError{ErrInvalidValue, key, value, reason}
	}

	return nil
}

// validation tags, values are never signed with a leading +
const (
	integerTag  = "numeric,excludes=+,excludes=."
	floatTag    = "numeric,excludes=+"
	positiveTag = "numeric,excludes=+,excludes=-"
	colorTag    = "hexadecimal,excludesall=xX,len=3|len=4|len=6|len=8"
	base64Tag   = "base64rawurl"
	booleanTag  = "oneof=true false 1 0"
)

var validate = validator.New()

// check returns why the value is refused, or an empty string.
func (p Parameter) check(value string) string {
	switch p.Kind {
	case KindInteger:
		return p.checkInteger(value)
	case KindFloat:
		if validate.Var(value, floatTag) != nil {
			return fmt.Sprintf(kindError, p.Kind)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Sprintf(kindError, p.Kind)
		}
		if p.Range != nil && !p.Range.contains(f) {
			return p.Range.String()
		}
	case KindEnum:
		if !p.inEnum(value) {
			return fmt.Sprintf(enumError, strings.Join(p.Enum, ", "))
		}
	case KindBoolean:
		if validate.Var(value, booleanTag) != nil {
			return fmt.Sprintf(kindError, p.Kind)
		}
	case KindList:
		items := strings.Split(value, ",")
		if p.Items > 0 && len(items) != p.Items {
			return fmt.Sprintf(countError, p.Items)
		}
		for _, item := range items {
			if reason := p.checkItem(item); reason != "" {
				return reason
			}
		}
	case KindRatio:
		if !isRatio(value) {
			return fmt.Sprintf(kindError, p.Kind) + " W:H"
		}
	case KindColor:
		if validate.Var(value, colorTag) != nil {
			return fmt.Sprintf(kindError, p.Kind) + " (3, 4, 6 or 8 hex digits)"
		}
	case KindBase64:
		if validate.Var(value, base64Tag) != nil {
			return fmt.Sprintf(kindError, p.Kind) + " (URL-safe, unpadded)"
		}
	}

	return ""
}

func (p Parameter) checkInteger(value string) string {
	if validate.Var(value, integerTag) != nil {
		return fmt.Sprintf(kindError, KindInteger)
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Sprintf(kindError, KindInteger)
	}
	if p.Range != nil && !p.Range.contains(float64(i)) {
		return p.Range.String()
	}
	return ""
}

func (p Parameter) inEnum(value string) bool {
	return validate.Var(value, "oneof="+strings.Join(p.Enum, " ")) == nil
}

func (p Parameter) checkItem(item string) string {
	if item == "" {
		return "list items cannot be empty"
	}

	if len(p.Enum) > 0 && !p.inEnum(item) {
		return fmt.Sprintf(enumError, strings.Join(p.Enum, ", "))
	}

	if p.Range != nil {
		if reason := p.checkInteger(item); reason != "" {
			return reason
		}
	}

	return ""
}

func isRatio(value string) bool {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return false
	}

	for _, part := range parts {
		if validate.Var(part, positiveTag) != nil {
			return false
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil || f <= 0 {
			return false
		}
	}

	return true
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
