package resources

import (
	"fmt"
	"os"
	"sort"

	"cabins/pkg/model"
	"cabins/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Catalog is the immutable set of bookable cabins. Safe for concurrent use.
type Catalog struct {
	byID  map[string]model.Resource
	order []string
}

type catalogFile struct {
	Cabins []cabinEntry `yaml:"cabins"`
}

type cabinEntry struct {
	ID                   string  `yaml:"id" validate:"required,max=64"`
	Name                 string  `yaml:"name" validate:"required,max=100"`
	Description          string  `yaml:"description" validate:"max=500"`
	RatePerMinute        float64 `yaml:"rate_per_minute" validate:"gte=0"`
	AvailabilityEndpoint string  `yaml:"availability_endpoint" validate:"omitempty,url"`
	NotificationEndpoint string  `yaml:"notification_endpoint" validate:"omitempty,url"`
}

// Defaults mirrors the three cabins of the original deployment.
func Defaults() []model.Resource {
	return []model.Resource{
		{ID: "standing-1", Name: "Standing cabin 1", Description: "Vertical tanning cabin", RatePerMinute: 1.00},
		{ID: "lying-1", Name: "Lying cabin 1", Description: "Horizontal tanning bed", RatePerMinute: 0.90},
		{ID: "lying-2", Name: "Lying cabin 2", Description: "Horizontal tanning bed", RatePerMinute: 0.90},
	}
}

func New(cabins []model.Resource) (*Catalog, error) {
	if len(cabins) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one cabin")
	}

	c := &Catalog{byID: make(map[string]model.Resource, len(cabins))}
	for _, r := range cabins {
		r.ID = sanitizer.SanitizeIdentifier(r.ID)
		if r.ID == "" {
			return nil, fmt.Errorf("cabin %q has an empty id", r.Name)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate cabin id %q", r.ID)
		}
		r.AvailabilityEndpoint = sanitizer.SanitizeURL(r.AvailabilityEndpoint)
		r.NotificationEndpoint = sanitizer.SanitizeURL(r.NotificationEndpoint)
		c.byID[r.ID] = r
		c.order = append(c.order, r.ID)
	}
	return c, nil
}

// Load reads the catalog from a YAML file, or returns the defaults when path
// is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(Defaults())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resources file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parse resources file: %w", err)
	}

	v := validator.New()
	cabins := make([]model.Resource, 0, len(file.Cabins))
	for i, entry := range file.Cabins {
		if err := v.Struct(entry); err != nil {
			return nil, fmt.Errorf("cabin #%d (%q): %w", i+1, entry.ID, err)
		}
		cabins = append(cabins, model.Resource{
			ID:                   entry.ID,
			Name:                 entry.Name,
			Description:          entry.Description,
			RatePerMinute:        entry.RatePerMinute,
			AvailabilityEndpoint: entry.AvailabilityEndpoint,
			NotificationEndpoint: entry.NotificationEndpoint,
		})
	}
	return New(cabins)
}

func (c *Catalog) Get(id string) (model.Resource, bool) {
	r, ok := c.byID[sanitizer.SanitizeIdentifier(id)]
	return r, ok
}

// List returns the cabins in configuration order.
func (c *Catalog) List() []model.Resource {
	out := make([]model.Resource, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the cabin ids sorted alphabetically.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	sort.Strings(ids)
	return ids
}
