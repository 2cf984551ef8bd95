package models

import "github.com/shopspring/decimal"

const (
	SectionRestaurant = "Restaurant"
	SectionLounge     = "Lounge"
	SectionBar        = "Bar"
)

// CatalogItem is an entry of the shared food catalog (menuBase.json).
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MenuItem is a catalog item priced for one section.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

type BarItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Restaurant decimal.Decimal `json:"restaurant"`
	Lounge     decimal.Decimal `json:"lounge"`
	Type       string          `json:"type"`
}

type Menus struct {
	Restaurant []MenuItem `json:"Restaurant"`
	Lounge     []MenuItem `json:"Lounge"`
	Bar        []BarItem  `json:"Bar"`
}

// PriceOverrides maps section -> item id -> price.
type PriceOverrides map[string]map[string]decimal.Decimal
