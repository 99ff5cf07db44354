package tables

import "github.com/uptrace/bun"

type MenuPage string

const (
	MenuPageMain          MenuPage = "menu"
	MenuPageFarmersMarket MenuPage = "farmers_market"
	MenuPageSeasonal      MenuPage = "seasonal_menu"
)

func (p MenuPage) Valid() bool {
	switch p {
	case MenuPageMain, MenuPageFarmersMarket, MenuPageSeasonal:
		return true
	}
	return false
}

// MenuItem is the trusted catalog row. The first entry of Prices is the unit
// price charged at checkout; prices are display text such as "$12.50".
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`
	Id            string   `bun:"id,pk" json:"id"`
	Page          MenuPage `bun:"page,notnull" json:"page"`
	Section       string   `bun:"section,notnull" json:"section"`
	Name          string   `bun:"name,notnull" json:"name"`
	Description   string   `bun:"description,nullzero" json:"description,omitempty"`
	Prices        []string `bun:"prices,type:jsonb" json:"prices"`
	SortOrder     int      `bun:"sort_order,notnull" json:"sort_order"`
	IsActive      bool     `bun:"is_active,notnull" json:"is_active"`
	ImageURL      string   `bun:"image_url,nullzero" json:"image_url,omitempty"`
}

// UnitPriceText returns the price text used for checkout, or "" when none is listed.
func (m *MenuItem) UnitPriceText() string {
	if len(m.Prices) == 0 {
		return ""
	}
	return m.Prices[0]
}
