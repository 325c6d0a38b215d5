package tzlookup

// Panel identifies one of the two result panels.
type Panel string

const (
	// Current is the panel for the user's own position.
	Current Panel = "current"
	// Address is the panel for the address form.
	Address Panel = "address"
)

// Fields rendered into every panel. The slot id is the panel prefix plus the field.
const (
	FieldName         = "name"
	FieldLat          = "lat"
	FieldLon          = "lon"
	FieldOffsetSTD    = "offset-std"
	FieldOffsetSTDSec = "offset-std-sec"
	FieldOffsetDST    = "offset-dst"
	FieldOffsetDSTSec = "offset-dst-sec"
	FieldCountry      = "country"
	FieldPostcode     = "postcode"
	FieldCity         = "city"
	FieldLocalTime    = "local-time"
)

// Fields lists every field in display order.
var Fields = []string{
	FieldName, FieldLat, FieldLon,
	FieldOffsetSTD, FieldOffsetSTDSec, FieldOffsetDST, FieldOffsetDSTSec,
	FieldCountry, FieldPostcode, FieldCity, FieldLocalTime,
}

// Blocks toggled for the address panel. BlockError is also a text slot.
const (
	BlockResultTitle = "address-result-title"
	BlockResultData  = "address-timezone-data"
	BlockError       = "error-message"
)

// User-visible messages.
const (
	Placeholder        = "N/A"
	MsgRequestFailed   = "An error occurred during the API request."
	MsgAddressNotFound = "Timezone or location could not be found for the entered address!"
	MsgEmptyAddress    = "Please enter an address!"
	MsgCurrentFailed   = "Error fetching data."
	MsgGeoUnsupported  = "Geolocation not supported by this browser."
	MsgGeoUnavailable  = "Geolocation Denied/Unavailable."
)

// Prefix returns the slot id prefix, e.g. "address-tz-".
func (p Panel) Prefix() string {
	return string(p) + "-tz-"
}

// Slot returns the slot id for a field of the panel.
func (p Panel) Slot(field string) string {
	return p.Prefix() + field
}

// Valid reports whether p is a known panel.
func (p Panel) Valid() bool {
	return p == Current || p == Address
}

// Target is the presentation surface a Service writes into.
// Implementations must be safe for concurrent use: both panels may be
// written at the same time.
type Target interface {
	SetText(slot, value string)
	SetVisible(block string, visible bool)
}
