package services

import (
	"bytes"
	"encoding/csv"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"

	"github.com/pkg/errors"
)

var (
	CategoryColumns = []string{"name", "description", "parentCategory"}
	ProductColumns  = []string{
		"name", "description", "shortDescription", "category", "origin",
		"specifications", "certifications", "packagingOptions",
	}
)

var categorySamples = [][]string{
	{"Spices", "Aromatic spices from around the world", ""},
	{"Textiles", "High-quality fabrics and textiles", ""},
	{"Handicrafts", "Hand-made decorative items", ""},
}

var productSamples = [][]string{
	{
		"Premium Kashmiri Saffron",
		"Highest grade saffron from Kashmir valley with distinct aroma and flavor",
		"Premium grade Kashmiri saffron",
		"Spices",
		"Kashmir, India",
		`{"Grade": "Premium", "Color": "Deep Red", "Packaging Size": "1g, 5g, 10g"}`,
		"ISO 22000:2018, FSSAI, Organic Certified",
		"Premium Glass Bottle, Vacuum Sealed Pouch, Bulk Packaging",
	},
	{
		"Handwoven Pashmina Shawl",
		"Exquisitely handwoven Pashmina shawls made from the finest Cashmere wool",
		"Traditional Kashmiri Pashmina shawl",
		"Textiles",
		"Kashmir, India",
		`{"Material": "100% Pashmina", "Weave": "Hand Woven", "Size": "200x100 cm"}`,
		"Handmade Certified, Woolmark",
		"Premium Box, Tissue Wrapped, Gift Packaging",
	},
}

func (s *bulkService) CategoryTemplate() (*models.CSVTemplate, error) {
	return buildTemplate("categories_template.csv", CategoryColumns, categorySamples)
}

func (s *bulkService) ProductTemplate() (*models.CSVTemplate, error) {
	return buildTemplate("products_template.csv", ProductColumns, productSamples)
}

func buildTemplate(filename string, header []string, rows [][]string) (*models.CSVTemplate, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "write template header")
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "write template rows")
	}

	return &models.CSVTemplate{
		Filename:    filename,
		ContentType: "text/csv",
		Body:        buf.Bytes(),
	}, nil
}
