package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"resort-backend/models"
	"resort-backend/utils"
)

const (
	menuBaseFile   = "menuBase.json"
	menuPricesFile = "menuPrices.json"
	barMenuFile    = "barMenu.json"

	defaultBarType = "Alcoholic"
	otherCategory  = "Others"
)

type menuCategory struct {
	name     string
	keywords []string
}

// checked in order; first match wins
var menuCategories = []menuCategory{
	{"Breakfasts", []string{"bread", "oat", "noodles", "egg", "coffee", "tea"}},
	{"Rice Dishes", []string{"rice", "jollof", "fried", "spaghetti"}},
	{"Swallows & Soups", []string{"garri", "semo", "pounded", "soup", "egusi", "yam", "portage"}},
	{"Pepper Meals", []string{"pepper", "gizzard", "meat", "fish", "assorted", "isi ewu", "cowtail"}},
	{"Salads & Light Meals", []string{"salad", "vegetable"}},
}

func CategoryFor(name string) string {
	lower := strings.ToLower(name)
	for _, c := range menuCategories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return otherCategory
}

type menuBase struct {
	Restaurant []models.CatalogItem `json:"Restaurant"`
}

type barMenu struct {
	Bar []models.BarItem `json:"Bar"`
}

type MenuService struct {
	DataDir string
	mu      sync.Mutex
}

func NewMenuService(dataDir string) *MenuService {
	return &MenuService{DataDir: dataDir}
}

// Menus prices the shared catalog for the restaurant and the lounge and
// returns the bar list. Missing data files read as empty.
func (s *MenuService) Menus() (models.Menus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var base menuBase
	if err := s.readJSON(menuBaseFile, &base); err != nil {
		return models.Menus{}, err
	}
	prices, err := s.readPrices()
	if err != nil {
		return models.Menus{}, err
	}
	var bar barMenu
	if err := s.readJSON(barMenuFile, &bar); err != nil {
		return models.Menus{}, err
	}

	out := models.Menus{
		Restaurant: priceCatalog(base.Restaurant, prices[models.SectionRestaurant]),
		Lounge:     priceCatalog(base.Restaurant, prices[models.SectionLounge]),
		Bar:        make([]models.BarItem, 0, len(bar.Bar)),
	}
	for _, item := range bar.Bar {
		if item.Type == "" {
			item.Type = defaultBarType
		}
		out.Bar = append(out.Bar, item)
	}
	return out, nil
}

func priceCatalog(items []models.CatalogItem, prices map[string]decimal.Decimal) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.MenuItem{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       prices[it.ID], // zero value when unpriced
			Category:    CategoryFor(it.Name),
		})
	}
	return out
}

// UpdatePrices merges overrides into menuPrices.json. Only the restaurant
// and lounge sections are priced here; ids must exist in the catalog. Bar
// and empty sections are skipped, so the admin page can post back the whole
// menu it loaded.
func (s *MenuService) UpdatePrices(overrides models.PriceOverrides) (models.PriceOverrides, error) {
	if len(overrides) == 0 {
		return nil, models.Invalid("prices", "prices are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var base menuBase
	if err := s.readJSON(menuBaseFile, &base); err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(base.Restaurant))
	for _, it := range base.Restaurant {
		known[it.ID] = true
	}

	edits := models.PriceOverrides{}
	for section, items := range overrides {
		if section == models.SectionBar || len(items) == 0 {
			continue
		}
		if section != models.SectionRestaurant && section != models.SectionLounge {
			return nil, models.Invalid("section", fmt.Sprintf("Unknown menu section %q", section))
		}
		edits[section] = items
		for id, price := range items {
			if !known[id] {
				return nil, models.Invalid("id", fmt.Sprintf("Unknown menu item %q", id))
			}
			if price.IsNegative() {
				return nil, models.Invalid("price", fmt.Sprintf("Price for %q cannot be negative", id))
			}
		}
	}

	current, err := s.readPrices()
	if err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		return current, nil
	}
	for section, items := range edits {
		if current[section] == nil {
			current[section] = map[string]decimal.Decimal{}
		}
		for id, price := range items {
			current[section][id] = price
		}
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := utils.WriteFileAtomic(filepath.Join(s.DataDir, menuPricesFile), data); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return current, nil
}

func (s *MenuService) readPrices() (models.PriceOverrides, error) {
	prices := models.PriceOverrides{}
	if err := s.readJSON(menuPricesFile, &prices); err != nil {
		return nil, err
	}
	if prices == nil {
		prices = models.PriceOverrides{}
	}
	return prices, nil
}

func (s *MenuService) readJSON(name string, dst any) error {
	raw, err := os.ReadFile(filepath.Join(s.DataDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", models.ErrStorageUnavailable, name, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrStorageCorrupted, name, err)
	}
	return nil
}
