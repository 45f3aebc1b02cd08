// Package domain holds the storefront entities and the error taxonomy shared
// by every layer.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents).
type Money int64

// Color is a selectable product color.
type Color struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Storage is a selectable storage capacity.
type Storage struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Options are the choices offered when adding a product to the cart.
type Options struct {
	Colors   []Color   `json:"colors"`
	Storages []Storage `json:"storages"`
}

// Specs is the subset of product fields shown on the detail view.
type Specs struct {
	CPU               string `json:"cpu"`
	RAM               string `json:"ram"`
	OS                string `json:"os"`
	DisplayResolution string `json:"displayResolution"`
	Battery           string `json:"battery"`
	PrimaryCamera     string `json:"primaryCamera"`
	SecondaryCamera   string `json:"secondaryCamera"`
	Dimensions        string `json:"dimensions"`
	Weight            string `json:"weight"`
}

// Product is a catalog entry. Values are built by the product mapper and
// must not be mutated afterwards.
type Product struct {
	ID                string   `json:"id"`
	Brand             string   `json:"brand"`
	Model             string   `json:"model"`
	Price             Money    `json:"price"`
	ImgURL            string   `json:"imgUrl"`
	NetworkTechnology string   `json:"networkTechnology"`
	NetworkSpeed      string   `json:"networkSpeed"`
	GPRS              string   `json:"gprs"`
	EDGE              string   `json:"edge"`
	Announced         string   `json:"announced"`
	Status            string   `json:"status"`
	Dimensions        string   `json:"dimensions"`
	Weight            string   `json:"weight"`
	SIM               string   `json:"sim"`
	DisplayType       string   `json:"displayType"`
	DisplayResolution string   `json:"displayResolution"`
	DisplaySize       string   `json:"displaySize"`
	OS                string   `json:"os"`
	CPU               string   `json:"cpu"`
	Chipset           string   `json:"chipset"`
	GPU               string   `json:"gpu"`
	ExternalMemory    string   `json:"externalMemory"`
	InternalMemory    []string `json:"internalMemory"`
	RAM               string   `json:"ram"`
	PrimaryCamera     string   `json:"primaryCamera"`
	SecondaryCamera   string   `json:"secondaryCamera"`
	Speaker           string   `json:"speaker"`
	AudioJack         string   `json:"audioJack"`
	WLAN              []string `json:"wlan"`
	Bluetooth         string   `json:"bluetooth"`
	GPS               string   `json:"gps"`
	NFC               string   `json:"nfc"`
	Radio             string   `json:"radio"`
	USB               string   `json:"usb"`
	Sensors           string   `json:"sensors"`
	Battery           string   `json:"battery"`
	Colors            []Color  `json:"colors"`
	Options           Options  `json:"options"`
}

// MatchesSearch reports whether query is a case-insensitive substring of the
// brand or the model. A blank query matches every product.
func (p Product) MatchesSearch(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	term := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Brand), term) ||
		strings.Contains(strings.ToLower(p.Model), term)
}

// FormattedPrice renders the price for display.
func (p Product) FormattedPrice() string {
	if p.Price == 0 {
		return "Price: Not Known"
	}
	return "Price: €" + decimal.New(int64(p.Price), -2).StringFixed(2)
}

// Specifications returns the detail-view spec sheet.
func (p Product) Specifications() Specs {
	return Specs{
		CPU:               p.CPU,
		RAM:               p.RAM,
		OS:                p.OS,
		DisplayResolution: p.DisplayResolution,
		Battery:           p.Battery,
		PrimaryCamera:     p.PrimaryCamera,
		SecondaryCamera:   p.SecondaryCamera,
		Dimensions:        p.Dimensions,
		Weight:            p.Weight,
	}
}

// DefaultColor returns the first color option.
func (p Product) DefaultColor() (Color, bool) {
	if len(p.Options.Colors) == 0 {
		return Color{}, false
	}
	return p.Options.Colors[0], true
}

// DefaultStorage returns the first storage option.
func (p Product) DefaultStorage() (Storage, bool) {
	if len(p.Options.Storages) == 0 {
		return Storage{}, false
	}
	return p.Options.Storages[0], true
}

// FindColorByCode looks up a color option by code.
func (p Product) FindColorByCode(code int) (Color, bool) {
	for _, c := range p.Options.Colors {
		if c.Code == code {
			return c, true
		}
	}
	return Color{}, false
}

// FindStorageByCode looks up a storage option by code.
func (p Product) FindStorageByCode(code int) (Storage, bool) {
	for _, s := range p.Options.Storages {
		if s.Code == code {
			return s, true
		}
	}
	return Storage{}, false
}
