package domain

import (
	"fmt"
	"strings"
)

type Product struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Maker    string `db:"maker" json:"maker"`
	Price    int64  `db:"price" json:"price"`
	ImageURL string `db:"image_url" json:"imageUrl"`
}

// ChangeWith returns p with every mutable field taken from data. The id
// is kept.
func (p Product) ChangeWith(data ProductData) Product {
	changed := data.ToProduct()
	changed.ID = p.ID
	return changed
}

// ProductData is the request payload for creating or changing a product.
type ProductData struct {
	Name     string `json:"name"`
	Maker    string `json:"maker"`
	Price    *int64 `json:"price"`
	ImageURL string `json:"imageUrl"`
}

func (d ProductData) Validate() []error {
	var errs []error

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, fmt.Errorf("invalid Name: '%s'", d.Name))
	}

	if strings.TrimSpace(d.Maker) == "" {
		errs = append(errs, fmt.Errorf("invalid Maker: '%s'", d.Maker))
	}

	switch {
	case d.Price == nil:
		errs = append(errs, fmt.Errorf("invalid Price: required"))
	case *d.Price < 0:
		errs = append(errs, fmt.Errorf("invalid Price: %d", *d.Price))
	}

	return errs
}

// ToProduct maps the payload onto a new product without an id.
func (d ProductData) ToProduct() Product {
	var price int64
	if d.Price != nil {
		price = *d.Price
	}

	return Product{
		Name:     d.Name,
		Maker:    d.Maker,
		Price:    price,
		ImageURL: d.ImageURL,
	}
}
