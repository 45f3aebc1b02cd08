package product

import (
	"regexp"
	"strings"

	"github.com/Sternrassler/storefront-core/pkg/domain"
	"github.com/shopspring/decimal"
)

var (
	// priceNoise matches currency symbols, thousands separators and spaces.
	priceNoise = regexp.MustCompile(`[€$,\s]`)

	// leadingDecimal matches the numeric prefix of a cleaned price. Trailing
	// garbage after the prefix is ignored ("799.00EUR" is 799.00).
	leadingDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

	hundred = decimal.NewFromInt(100)
)

// ParsePrice converts a formatted price into minor units. It strips currency
// symbols and separators, parses the remaining decimal, multiplies by 100 and
// rounds to the nearest integer. Unparseable input yields 0, and so does an
// amount that is negative or does not fit in an int64.
func ParsePrice(raw string) domain.Money {
	cleaned := priceNoise.ReplaceAllString(raw, "")
	match := leadingDecimal.FindString(cleaned)
	if match == "" {
		return 0
	}
	match = strings.TrimPrefix(match, "+")
	if strings.HasPrefix(match, ".") || strings.HasPrefix(match, "-.") {
		match = strings.Replace(match, ".", "0.", 1)
	}

	amount, err := decimal.NewFromString(match)
	if err != nil {
		return 0
	}

	cents := amount.Mul(hundred).Round(0)
	if cents.IsNegative() || !cents.BigInt().IsInt64() {
		return 0
	}
	return domain.Money(cents.IntPart())
}

// ToDomain converts a ProductDTO into a domain.Product.
func ToDomain(dto ProductDTO) domain.Product {
	var options OptionsDTO
	if dto.Options != nil {
		options = *dto.Options
	}

	return domain.Product{
		ID:                dto.ID,
		Brand:             dto.Brand,
		Model:             dto.Model,
		Price:             ParsePrice(string(dto.Price)),
		ImgURL:            dto.ImgURL,
		NetworkTechnology: dto.NetworkTechnology,
		NetworkSpeed:      dto.NetworkSpeed,
		GPRS:              dto.GPRS,
		EDGE:              dto.EDGE,
		Announced:         dto.Announced,
		Status:            dto.Status,
		Dimensions:        dto.Dimensions,
		Weight:            dto.Weight,
		SIM:               dto.SIM,
		DisplayType:       dto.DisplayType,
		DisplayResolution: dto.DisplayResolution,
		DisplaySize:       dto.DisplaySize,
		OS:                dto.OS,
		CPU:               dto.CPU,
		Chipset:           dto.Chipset,
		GPU:               dto.GPU,
		ExternalMemory:    dto.ExternalMemory,
		InternalMemory:    copyStrings(dto.InternalMemory),
		RAM:               dto.RAM,
		PrimaryCamera:     string(dto.PrimaryCamera),
		SecondaryCamera:   string(dto.SecondaryCamera),
		Speaker:           dto.Speaker,
		AudioJack:         dto.AudioJack,
		WLAN:              copyStrings(dto.WLAN),
		Bluetooth:         dto.Bluetooth,
		GPS:               dto.GPS,
		NFC:               dto.NFC,
		Radio:             dto.Radio,
		USB:               dto.USB,
		Sensors:           dto.Sensors,
		Battery:           dto.Battery,
		Colors:            mapColors(dto.Colors),
		Options: domain.Options{
			Colors:   mapColors(options.Colors),
			Storages: mapStorages(options.Storages),
		},
	}
}

// ToDomainList converts every DTO. A nil list yields an empty, non-nil slice.
func ToDomainList(dtos []ProductDTO) []domain.Product {
	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, ToDomain(dto))
	}
	return products
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func mapColors(dtos []ColorDTO) []domain.Color {
	colors := make([]domain.Color, 0, len(dtos))
	for _, dto := range dtos {
		colors = append(colors, domain.Color{Code: dto.Code, Name: dto.Name})
	}
	return colors
}

func mapStorages(dtos []StorageDTO) []domain.Storage {
	storages := make([]domain.Storage, 0, len(dtos))
	for _, dto := range dtos {
		storages = append(storages, domain.Storage{Code: dto.Code, Name: dto.Name})
	}
	return storages
}
