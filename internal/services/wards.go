package services

import (
	"fmt"
	"os"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// DefaultWards is the seed ward list.
var DefaultWards = []models.Ward{
	{Name: "Ward 151: Koramangala", Councillor: "Govinda Raju", Area: "South Bengaluru"},
	{Name: "Ward 80: Indiranagar", Councillor: "Anand Kumar", Area: "East Bengaluru"},
	{Name: "Ward 149: Varthur", Councillor: "Pushpa G.", Area: "Mahadevapura"},
	{Name: "Ward 18: Radhakrishna Temple", Councillor: "M. Anand", Area: "Hebbal"},
	{Name: "Ward 174: HSR Layout", Councillor: "Gurumurthy Reddy", Area: "Bommanahalli"},
	{Name: "Ward 160: RR Nagar", Councillor: "Mamatha L.", Area: "RR Nagar"},
	{Name: "Ward 112: Domlur", Councillor: "C.R. Lakshminarayan", Area: "Shanti Nagar"},
	{Name: "Ward 44: Marappana Palya", Councillor: "Mahadev M.", Area: "Mahalakshmi Layout"},
}

// WardDirectory is the read-only list of wards.
type WardDirectory struct {
	wards  []models.Ward
	bySlug map[string]int
	byName map[string]int
}

// NewWardDirectory builds a directory from wards, deriving URL slugs.
func NewWardDirectory(wards []models.Ward) *WardDirectory {
	d := &WardDirectory{
		wards:  make([]models.Ward, len(wards)),
		bySlug: make(map[string]int, len(wards)),
		byName: make(map[string]int, len(wards)),
	}
	for i, w := range wards {
		w.Slug = slug.Make(w.Name)
		d.wards[i] = w
		d.bySlug[w.Slug] = i
		d.byName[w.Name] = i
	}
	return d
}

// LoadWardDirectory reads a YAML list of wards from path, or returns the
// seed list when path is empty.
func LoadWardDirectory(path string) (*WardDirectory, error) {
	if path == "" {
		return NewWardDirectory(DefaultWards), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wards file: %w", err)
	}
	var file struct {
		Wards []models.Ward `yaml:"wards"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse wards file: %w", err)
	}
	if len(file.Wards) == 0 {
		return nil, fmt.Errorf("wards file %s lists no wards", path)
	}
	return NewWardDirectory(file.Wards), nil
}

// All returns every ward in directory order.
func (d *WardDirectory) All() []models.Ward {
	out := make([]models.Ward, len(d.wards))
	copy(out, d.wards)
	return out
}

func (d *WardDirectory) ByName(name string) (models.Ward, bool) {
	i, ok := d.byName[name]
	if !ok {
		return models.Ward{}, false
	}
	return d.wards[i], true
}

func (d *WardDirectory) BySlug(s string) (models.Ward, bool) {
	i, ok := d.bySlug[s]
	if !ok {
		return models.Ward{}, false
	}
	return d.wards[i], true
}
