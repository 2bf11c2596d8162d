package roster

import (
	"io"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/academia/core"
)

var ErrNotFound = errors.New("department not found")

// Department is one organisational unit of the roster. Read-only.
type Department struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	HeadName    string `yaml:"hod_name" json:"hod_name"`
	MemberCount int    `yaml:"total_students" json:"total_students"`
	ActionLabel string `yaml:"action_label" json:"action"`
}

type rosterFile struct {
	Departments []Department `yaml:"departments"`
}

// Service serves the fixed department list.
type Service struct {
	departments []Department
	byID        map[string]int
	// search targets, same order as departments
	names []string
	heads []string
}

func NewService(departments []Department) *Service {
	svc := &Service{
		departments: make([]Department, len(departments)),
		byID:        make(map[string]int, len(departments)),
		names:       make([]string, len(departments)),
		heads:       make([]string, len(departments)),
	}
	copy(svc.departments, departments)
	for i, d := range svc.departments {
		svc.byID[d.ID] = i
		svc.names[i] = d.Name
		svc.heads[i] = d.HeadName
	}
	return svc
}

// Load decodes a YAML roster. IDs must be unique and names not blank.
func Load(r io.Reader) ([]Department, error) {
	var file rosterFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding roster")
	}
	seen := make(map[string]bool, len(file.Departments))
	for i, d := range file.Departments {
		if core.CleanString(d.ID) == "" || core.CleanString(d.Name) == "" {
			return nil, errors.Errorf("department #%d: id and name are required", i)
		}
		if seen[d.ID] {
			return nil, errors.Errorf("department #%d: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = true
	}
	return file.Departments, nil
}

// List returns the departments in roster order.
func (svc *Service) List() []Department {
	out := make([]Department, len(svc.departments))
	copy(out, svc.departments)
	return out
}

func (svc *Service) Get(id string) (Department, error) {
	i, ok := svc.byID[id]
	if !ok {
		return Department{}, ErrNotFound
	}
	return svc.departments[i], nil
}

// Search fuzzy-matches `q` against department and head names (case-insensitive), best matches first.
// A blank query returns the whole list.
func (svc *Service) Search(q string) []Department {
	q = core.CleanString(q)
	if q == "" {
		return svc.List()
	}

	best := make(map[int]int) // department index -> lowest distance
	collect := func(ranks fuzzy.Ranks) {
		for _, r := range ranks {
			if d, ok := best[r.OriginalIndex]; !ok || r.Distance < d {
				best[r.OriginalIndex] = r.Distance
			}
		}
	}
	collect(fuzzy.RankFindNormalizedFold(q, svc.names))
	collect(fuzzy.RankFindNormalizedFold(q, svc.heads))

	idxs := make([]int, 0, len(best))
	for i := range best {
		idxs = append(idxs, i)
	}
	sort.Slice(idxs, func(a, b int) bool {
		if best[idxs[a]] != best[idxs[b]] {
			return best[idxs[a]] < best[idxs[b]]
		}
		return idxs[a] < idxs[b]
	})

	out := make([]Department, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, svc.departments[i])
	}
	return out
}

// Totals returns the number of departments and their total member count.
func (svc *Service) Totals() (departments, members int) {
	for _, d := range svc.departments {
		members += d.MemberCount
	}
	return len(svc.departments), members
}
