package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
)

// NormalizeDrafts coerces loosely typed draft products into DraftProduct
// values. Incomplete drafts are kept: a missing name becomes "" and numbers
// that cannot be read are left unset. Entries that are neither objects nor
// text become empty drafts, so the result has one draft per entry.
func NormalizeDrafts(raw []any) []models.DraftProduct {
	drafts := make([]models.DraftProduct, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case map[string]any:
			drafts = append(drafts, normalizeDraft(v))
		case string:
			drafts = append(drafts, normalizeDraft(map[string]any{"name": v}))
		default:
			drafts = append(drafts, normalizeDraft(map[string]any{}))
		}
	}
	return drafts
}

func normalizeDraft(m map[string]any) models.DraftProduct {
	currency := strings.ToUpper(toText(m["currency"]))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	hsCode := toText(m["hscCode"])
	if hsCode == "" {
		hsCode = toText(m["hsCode"])
	}

	return models.DraftProduct{
		Name:                 toText(m["name"]),
		CurrentPrice:         toNumber(m["currentPrice"]),
		Currency:             currency,
		Unit:                 toText(m["unit"]),
		MinimumOrderQuantity: toNumber(m["minimumOrderQuantity"]),
		LeadTime:             toNumber(m["leadTime"]),
		HSCode:               hsCode,
		AdditionalComment:    toText(m["additionalComment"]),
		PackagingOptions:     normalizePackaging(m["packagingOptions"]),
		CertificationFiles:   toTextList(m["certificationFiles"]),
	}
}

// normalizePackaging accepts a list whose entries are {option, pricePerOption}
// objects or bare option values.
func normalizePackaging(v any) []models.PackagingOption {
	options := []models.PackagingOption{}
	list, ok := v.([]any)
	if !ok {
		return options
	}

	for _, item := range list {
		var opt models.PackagingOption
		if m, ok := item.(map[string]any); ok {
			opt = models.PackagingOption{
				Option:         optionText(m["option"]),
				PricePerOption: toNumber(m["pricePerOption"]),
			}
		} else {
			opt = models.PackagingOption{Option: toText(item)}
		}
		if opt.Option == "" && opt.PricePerOption == nil {
			continue
		}
		options = append(options, opt)
	}
	return options
}

// optionText reads a packaging option label sent either as text or as an
// object carrying value and label.
func optionText(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return toText(v)
	}
	if s := toText(m["value"]); s != "" {
		return s
	}
	return toText(m["label"])
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// toNumber reads a number from JSON number or numeric text. Anything else,
// including blank text, yields nil.
func toNumber(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func toTextList(v any) []string {
	out := []string{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		if s := toText(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
