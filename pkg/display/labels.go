package display

import "github.com/codeGROOVE-dev/geotz/pkg/tzlookup"

var labels = map[string]string{
	tzlookup.FieldName:         "Timezone",
	tzlookup.FieldLat:          "Latitude",
	tzlookup.FieldLon:          "Longitude",
	tzlookup.FieldOffsetSTD:    "Standard offset",
	tzlookup.FieldOffsetSTDSec: "Standard offset (seconds)",
	tzlookup.FieldOffsetDST:    "DST offset",
	tzlookup.FieldOffsetDSTSec: "DST offset (seconds)",
	tzlookup.FieldCountry:      "Country",
	tzlookup.FieldPostcode:     "Postcode",
	tzlookup.FieldCity:         "Place",
	tzlookup.FieldLocalTime:    "Local time",
}

// Title returns the heading of a panel.
func Title(p tzlookup.Panel) string {
	if p == tzlookup.Address {
		return "Timezone for your address"
	}
	return "Your current timezone"
}

// Row is one labelled slot of a panel.
type Row struct {
	Slot  string
	Label string
	Value string
}

// Rows returns the labelled slots of panel p in display order.
func Rows(p tzlookup.Panel, snap Snapshot) []Row {
	rows := make([]Row, 0, len(tzlookup.Fields))
	for _, field := range tzlookup.Fields {
		slot := p.Slot(field)
		rows = append(rows, Row{Slot: slot, Label: labels[field], Value: snap.Get(slot)})
	}
	return rows
}

// resultShown reports whether the panel's result block is visible.
// The current panel has no toggles and is always shown.
func resultShown(p tzlookup.Panel, snap Snapshot) bool {
	return p != tzlookup.Address || snap.Shown(tzlookup.BlockResultData)
}
