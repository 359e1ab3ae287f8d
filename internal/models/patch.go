package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column string
	Value  interface{}
}

// ProductPatch lists the product columns an update may overwrite.
// A nil field leaves the column untouched.
type ProductPatch struct {
	Category       *string          `json:"category,omitempty"`
	Name           *string          `json:"name,omitempty"`
	SupplierName   *string          `json:"supplier_name,omitempty"`
	SupplierItemNo *string          `json:"supplier_item_no,omitempty"`
	ProductCode    *string          `json:"product_code,omitempty"`
	Karat          *string          `json:"karat,omitempty"`
	WeightG        *decimal.Decimal `json:"weight_g,omitempty"`
	Size           *string          `json:"size,omitempty"`
	TotalQBQty     *string          `json:"total_qb_qty,omitempty"`
	BasicExtra     *string          `json:"basic_extra,omitempty"`
	MidBackBulim   *string          `json:"mid_back_bulim,omitempty"`
	MidBackLabor   *string          `json:"mid_back_labor,omitempty"`
	CubicLabor     *string          `json:"cubic_labor,omitempty"`
	TotalLabor     *string          `json:"total_labor,omitempty"`
	Discontinued   *bool            `json:"discontinued,omitempty"`
	StockQty       *int             `json:"stock_qty,omitempty"`
	ImagePath      *string          `json:"image_path,omitempty"`
	ExtraImages    *ImageList       `json:"extra_images,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	IsFavorite     *bool            `json:"is_favorite,omitempty"`
}

func (p *ProductPatch) Validate() error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return validationError("product name is required")
		}
		p.Name = &name
	}
	return nil
}

// Assignments returns the set fields in column order.
func (p ProductPatch) Assignments() []Assignment {
	var out []Assignment
	str := func(col string, v *string) {
		if v != nil {
			out = append(out, Assignment{col, *v})
		}
	}
	flag := func(col string, v *bool) {
		if v != nil {
			out = append(out, Assignment{col, *v})
		}
	}

	str("category", p.Category)
	str("name", p.Name)
	str("supplier_name", p.SupplierName)
	str("supplier_item_no", p.SupplierItemNo)
	str("product_code", p.ProductCode)
	str("karat", p.Karat)
	if p.WeightG != nil {
		out = append(out, Assignment{"weight_g", *p.WeightG})
	}
	str("size", p.Size)
	str("total_qb_qty", p.TotalQBQty)
	str("basic_extra", p.BasicExtra)
	str("mid_back_bulim", p.MidBackBulim)
	str("mid_back_labor", p.MidBackLabor)
	str("cubic_labor", p.CubicLabor)
	str("total_labor", p.TotalLabor)
	flag("discontinued", p.Discontinued)
	if p.StockQty != nil {
		out = append(out, Assignment{"stock_qty", *p.StockQty})
	}
	str("image_path", p.ImagePath)
	if p.ExtraImages != nil {
		out = append(out, Assignment{"extra_images", *p.ExtraImages})
	}
	str("notes", p.Notes)
	flag("is_favorite", p.IsFavorite)
	return out
}

// SalesRecordPatch lists the sales record columns an update may overwrite.
type SalesRecordPatch struct {
	CustomerName           *string `json:"customer_name,omitempty"`
	SaleType               *string `json:"sale_type,omitempty"`
	ReturnReason           *string `json:"return_reason,omitempty"`
	PurchaseMarketPrice    *Amount `json:"purchase_market_price,omitempty"`
	SaleMarketPrice        *Amount `json:"sale_market_price,omitempty"`
	FinalSalePrice         *Amount `json:"final_sale_price,omitempty"`
	ProductSupplier        *string `json:"product_supplier,omitempty"`
	ProductName            *string `json:"product_name,omitempty"`
	KaratUnit              *string `json:"karat_unit,omitempty"`
	KaratG                 *string `json:"karat_g,omitempty"`
	Quantity               *Amount `json:"quantity,omitempty"`
	Color                  *string `json:"color,omitempty"`
	Size                   *string `json:"size,omitempty"`
	MainStoneType          *string `json:"main_stone_type,omitempty"`
	MainStoneQuantity      *Amount `json:"main_stone_quantity,omitempty"`
	MainStonePurchasePrice *Amount `json:"main_stone_purchase_price,omitempty"`
	MainStoneSalePrice     *Amount `json:"main_stone_sale_price,omitempty"`
	AuxStoneType           *string `json:"aux_stone_type,omitempty"`
	AuxStoneQuantity       *Amount `json:"aux_stone_quantity,omitempty"`
	AuxStonePurchasePrice  *Amount `json:"aux_stone_purchase_price,omitempty"`
	AuxStoneSalePrice      *Amount `json:"aux_stone_sale_price,omitempty"`
	BasicExtra             *string `json:"basic_extra,omitempty"`
	MidBackBulim           *string `json:"mid_back_bulim,omitempty"`
	Notes                  *string `json:"notes,omitempty"`
	SaleDate               *Date   `json:"sale_date,omitempty"`
}

func (p *SalesRecordPatch) Validate() error {
	if p.SaleType != nil {
		saleType, err := ParseSaleType(*p.SaleType)
		if err != nil {
			return err
		}
		p.SaleType = &saleType
	}
	if p.SaleDate != nil && p.SaleDate.IsZero() {
		today := Today()
		p.SaleDate = &today
	}
	return nil
}

func (p SalesRecordPatch) Assignments() []Assignment {
	var out []Assignment
	str := func(col string, v *string) {
		if v != nil {
			out = append(out, Assignment{col, *v})
		}
	}
	amt := func(col string, v *Amount) {
		if v != nil {
			out = append(out, Assignment{col, int64(*v)})
		}
	}

	str("customer_name", p.CustomerName)
	str("sale_type", p.SaleType)
	str("return_reason", p.ReturnReason)
	amt("purchase_market_price", p.PurchaseMarketPrice)
	amt("sale_market_price", p.SaleMarketPrice)
	amt("final_sale_price", p.FinalSalePrice)
	str("product_supplier", p.ProductSupplier)
	str("product_name", p.ProductName)
	str("karat_unit", p.KaratUnit)
	str("karat_g", p.KaratG)
	amt("quantity", p.Quantity)
	str("color", p.Color)
	str("size", p.Size)
	str("main_stone_type", p.MainStoneType)
	amt("main_stone_quantity", p.MainStoneQuantity)
	amt("main_stone_purchase_price", p.MainStonePurchasePrice)
	amt("main_stone_sale_price", p.MainStoneSalePrice)
	str("aux_stone_type", p.AuxStoneType)
	amt("aux_stone_quantity", p.AuxStoneQuantity)
	amt("aux_stone_purchase_price", p.AuxStonePurchasePrice)
	amt("aux_stone_sale_price", p.AuxStoneSalePrice)
	str("basic_extra", p.BasicExtra)
	str("mid_back_bulim", p.MidBackBulim)
	str("notes", p.Notes)
	if p.SaleDate != nil {
		out = append(out, Assignment{"sale_date", *p.SaleDate})
	}
	return out
}
