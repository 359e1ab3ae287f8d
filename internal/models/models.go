package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrValidation marks input rejected before it reaches storage.
var ErrValidation = errors.New("validation failed")

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Category codes used by the product form.
const (
	CategoryEarring  = "E"
	CategoryRing     = "R"
	CategoryNecklace = "N"
	CategoryBracelet = "B"
	CategoryOther    = "O"
)

const DefaultKarat = "14K"

type Product struct {
	ID             int64           `db:"id" json:"id"`
	Category       string          `db:"category" json:"category"`
	Name           string          `db:"name" json:"name"`
	SupplierName   string          `db:"supplier_name" json:"supplier_name"`
	SupplierItemNo string          `db:"supplier_item_no" json:"supplier_item_no"`
	ProductCode    string          `db:"product_code" json:"product_code"`
	Karat          string          `db:"karat" json:"karat"`
	WeightG        decimal.Decimal `db:"weight_g" json:"weight_g"`
	Size           string          `db:"size" json:"size"`
	TotalQBQty     string          `db:"total_qb_qty" json:"total_qb_qty"`
	BasicExtra     string          `db:"basic_extra" json:"basic_extra"`
	MidBackBulim   string          `db:"mid_back_bulim" json:"mid_back_bulim"`
	MidBackLabor   string          `db:"mid_back_labor" json:"mid_back_labor"`
	CubicLabor     string          `db:"cubic_labor" json:"cubic_labor"`
	TotalLabor     string          `db:"total_labor" json:"total_labor"`
	Discontinued   bool            `db:"discontinued" json:"discontinued"`
	StockQty       int             `db:"stock_qty" json:"stock_qty"`
	ImagePath      string          `db:"image_path" json:"image_path"`
	ExtraImages    ImageList       `db:"extra_images" json:"extra_images"`
	Notes          string          `db:"notes" json:"notes"`
	IsFavorite     bool            `db:"is_favorite" json:"is_favorite"`
}

// Validate trims the name and rejects a product without one.
func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return validationError("product name is required")
	}
	if p.Karat == "" {
		p.Karat = DefaultKarat
	}
	if p.ExtraImages == nil {
		p.ExtraImages = ImageList{}
	}
	return nil
}

// Patch returns a patch that overwrites every mutable column with p's values.
func (p Product) Patch() ProductPatch {
	extra := p.ExtraImages
	if extra == nil {
		extra = ImageList{}
	}
	return ProductPatch{
		Category:       &p.Category,
		Name:           &p.Name,
		SupplierName:   &p.SupplierName,
		SupplierItemNo: &p.SupplierItemNo,
		ProductCode:    &p.ProductCode,
		Karat:          &p.Karat,
		WeightG:        &p.WeightG,
		Size:           &p.Size,
		TotalQBQty:     &p.TotalQBQty,
		BasicExtra:     &p.BasicExtra,
		MidBackBulim:   &p.MidBackBulim,
		MidBackLabor:   &p.MidBackLabor,
		CubicLabor:     &p.CubicLabor,
		TotalLabor:     &p.TotalLabor,
		Discontinued:   &p.Discontinued,
		StockQty:       &p.StockQty,
		ImagePath:      &p.ImagePath,
		ExtraImages:    &extra,
		Notes:          &p.Notes,
		IsFavorite:     &p.IsFavorite,
	}
}

// Sale types. The desktop form used the Korean labels, which ParseSaleType still accepts.
const (
	SaleTypeSale   = "sale"
	SaleTypeReturn = "return"
)

func ParseSaleType(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", SaleTypeSale, "판매":
		return SaleTypeSale, nil
	case SaleTypeReturn, "반품":
		return SaleTypeReturn, nil
	}
	return "", validationError("unknown sale type %q", s)
}

// SalesRecord snapshots product fields at sale time; it does not reference products by id.
type SalesRecord struct {
	ID                     int64  `db:"id" json:"id"`
	CustomerName           string `db:"customer_name" json:"customer_name"`
	SaleType               string `db:"sale_type" json:"sale_type"`
	ReturnReason           string `db:"return_reason" json:"return_reason"`
	PurchaseMarketPrice    Amount `db:"purchase_market_price" json:"purchase_market_price"`
	SaleMarketPrice        Amount `db:"sale_market_price" json:"sale_market_price"`
	FinalSalePrice         Amount `db:"final_sale_price" json:"final_sale_price"`
	ProductSupplier        string `db:"product_supplier" json:"product_supplier"`
	ProductName            string `db:"product_name" json:"product_name"`
	KaratUnit              string `db:"karat_unit" json:"karat_unit"`
	KaratG                 string `db:"karat_g" json:"karat_g"`
	Quantity               Amount `db:"quantity" json:"quantity"`
	Color                  string `db:"color" json:"color"`
	Size                   string `db:"size" json:"size"`
	MainStoneType          string `db:"main_stone_type" json:"main_stone_type"`
	MainStoneQuantity      Amount `db:"main_stone_quantity" json:"main_stone_quantity"`
	MainStonePurchasePrice Amount `db:"main_stone_purchase_price" json:"main_stone_purchase_price"`
	MainStoneSalePrice     Amount `db:"main_stone_sale_price" json:"main_stone_sale_price"`
	AuxStoneType           string `db:"aux_stone_type" json:"aux_stone_type"`
	AuxStoneQuantity       Amount `db:"aux_stone_quantity" json:"aux_stone_quantity"`
	AuxStonePurchasePrice  Amount `db:"aux_stone_purchase_price" json:"aux_stone_purchase_price"`
	AuxStoneSalePrice      Amount `db:"aux_stone_sale_price" json:"aux_stone_sale_price"`
	BasicExtra             string `db:"basic_extra" json:"basic_extra"`
	MidBackBulim           string `db:"mid_back_bulim" json:"mid_back_bulim"`
	Notes                  string `db:"notes" json:"notes"`
	SaleDate               Date   `db:"sale_date" json:"sale_date"`
}

// Validate normalizes the sale type and fills the sale date with today when unset.
func (r *SalesRecord) Validate() error {
	saleType, err := ParseSaleType(r.SaleType)
	if err != nil {
		return err
	}
	r.SaleType = saleType
	if r.SaleDate.IsZero() {
		r.SaleDate = Today()
	}
	return nil
}

// Patch returns a patch that overwrites every mutable column with r's values.
func (r SalesRecord) Patch() SalesRecordPatch {
	return SalesRecordPatch{
		CustomerName:           &r.CustomerName,
		SaleType:               &r.SaleType,
		ReturnReason:           &r.ReturnReason,
		PurchaseMarketPrice:    &r.PurchaseMarketPrice,
		SaleMarketPrice:        &r.SaleMarketPrice,
		FinalSalePrice:         &r.FinalSalePrice,
		ProductSupplier:        &r.ProductSupplier,
		ProductName:            &r.ProductName,
		KaratUnit:              &r.KaratUnit,
		KaratG:                 &r.KaratG,
		Quantity:               &r.Quantity,
		Color:                  &r.Color,
		Size:                   &r.Size,
		MainStoneType:          &r.MainStoneType,
		MainStoneQuantity:      &r.MainStoneQuantity,
		MainStonePurchasePrice: &r.MainStonePurchasePrice,
		MainStoneSalePrice:     &r.MainStoneSalePrice,
		AuxStoneType:           &r.AuxStoneType,
		AuxStoneQuantity:       &r.AuxStoneQuantity,
		AuxStonePurchasePrice:  &r.AuxStonePurchasePrice,
		AuxStoneSalePrice:      &r.AuxStoneSalePrice,
		BasicExtra:             &r.BasicExtra,
		MidBackBulim:           &r.MidBackBulim,
		Notes:                  &r.Notes,
		SaleDate:               &r.SaleDate,
	}
}

// SaleFromProduct copies the product fields a sale keeps into record wherever
// record leaves them blank, so later product edits don't rewrite sales history.
func SaleFromProduct(p *Product, record SalesRecord) SalesRecord {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&record.ProductSupplier, p.SupplierName)
	fill(&record.ProductName, p.Name)
	fill(&record.BasicExtra, p.BasicExtra)
	fill(&record.MidBackBulim, p.MidBackBulim)
	fill(&record.KaratUnit, p.Karat)
	fill(&record.Size, p.Size)
	return record
}
