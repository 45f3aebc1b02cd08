package product

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ColorDTO is a color option as sent by the API.
type ColorDTO struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// StorageDTO is a storage option as sent by the API.
type StorageDTO struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// OptionsDTO groups the selectable options. A value that is not a JSON
// object decodes as empty options.
type OptionsDTO struct {
	Colors   List[ColorDTO]   `json:"colors"`
	Storages List[StorageDTO] `json:"storages"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionsDTO) UnmarshalJSON(data []byte) error {
	type plain OptionsDTO
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		*o = OptionsDTO{}
		return nil
	}
	*o = OptionsDTO(v)
	return nil
}

// ProductDTO is a product as sent by the API. The misspelled JSON names
// ("dimentions", "secondaryCmera") are part of the API contract.
type ProductDTO struct {
	ID                string         `json:"id"`
	Brand             string         `json:"brand"`
	Model             string         `json:"model"`
	Price             Price          `json:"price"`
	ImgURL            string         `json:"imgUrl"`
	NetworkTechnology string         `json:"networkTechnology"`
	NetworkSpeed      string         `json:"networkSpeed"`
	GPRS              string         `json:"gprs"`
	EDGE              string         `json:"edge"`
	Announced         string         `json:"announced"`
	Status            string         `json:"status"`
	Dimensions        string         `json:"dimentions"`
	Weight            string         `json:"weight"`
	SIM               string         `json:"sim"`
	DisplayType       string         `json:"displayType"`
	DisplayResolution string         `json:"displayResolution"`
	DisplaySize       string         `json:"displaySize"`
	OS                string         `json:"os"`
	CPU               string         `json:"cpu"`
	Chipset           string         `json:"chipset"`
	GPU               string         `json:"gpu"`
	ExternalMemory    string         `json:"externalMemory"`
	InternalMemory    List[string]   `json:"internalMemory"`
	RAM               string         `json:"ram"`
	PrimaryCamera     Text           `json:"primaryCamera"`
	SecondaryCamera   Text           `json:"secondaryCmera"`
	Speaker           string         `json:"speaker"`
	AudioJack         string         `json:"audioJack"`
	WLAN              List[string]   `json:"wlan"`
	Bluetooth         string         `json:"bluetooth"`
	GPS               string         `json:"gps"`
	NFC               string         `json:"nfc"`
	Radio             string         `json:"radio"`
	USB               string         `json:"usb"`
	Sensors           string         `json:"sensors"`
	Battery           string         `json:"battery"`
	Colors            List[ColorDTO] `json:"colors"`
	Options           *OptionsDTO    `json:"options"`
}

// List is a JSON array field that decodes anything other than a well-formed
// array (null, a string, an object) as an empty list.
type List[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// Price is the raw price field. The API sends a formatted string such as
// "€1,199.00"; a bare JSON number is accepted too.
type Price string

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Price(n.String())
		return nil
	}
	*p = ""
	return nil
}

// Text is a free-form spec field. Some products send a list of strings
// instead of a single string; the entries are joined with ", ".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err == nil {
		*t = Text(strings.Join(parts, ", "))
		return nil
	}
	*t = ""
	return nil
}
