// Package content holds the portfolio text rendered by the site. Content is
// data: it is loaded from YAML and injected into the templates, so editing the
// site never touches Go code.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// AllCategories is the project filter that matches every project.
const AllCategories = "All"

var ErrInvalid = errors.New("invalid portfolio content")

//go:embed default.yaml
var defaultYAML []byte

type Portfolio struct {
	Hero           Hero            `yaml:"hero"`
	About          string          `yaml:"about"`
	Experience     []Position      `yaml:"experience"`
	Education      []Degree        `yaml:"education"`
	Certifications []Certification `yaml:"certifications"`
	Projects       []Project       `yaml:"projects"`
	Skills         []SkillGroup    `yaml:"skills"`
	Contact        ContactInfo     `yaml:"contact"`
}

type Hero struct {
	Name      string `yaml:"name"`
	Title     string `yaml:"title"`
	Tagline   string `yaml:"tagline"`
	ResumeURL string `yaml:"resume_url"`
}

type Position struct {
	Title       string   `yaml:"title"`
	Company     string   `yaml:"company"`
	Period      string   `yaml:"period"`
	Logo        string   `yaml:"logo"`
	Description string   `yaml:"description"`
	Highlights  []string `yaml:"highlights"`
}

type Degree struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type Certification struct {
	Title  string `yaml:"title"`
	Issuer string `yaml:"issuer"`
	Year   string `yaml:"year"`
	URL    string `yaml:"url"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Tags        []string `yaml:"tags"`
	SourceURL   string   `yaml:"source_url"`
	DemoURL     string   `yaml:"demo_url"`
}

type SkillGroup struct {
	Name   string  `yaml:"name"`
	Skills []Skill `yaml:"skills"`
}

// Skill level is a percentage in [0, 100].
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

type ContactInfo struct {
	Intro    string `yaml:"intro"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
	Links    []Link `yaml:"links"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Load reads a portfolio from path, or the embedded default when path is empty.
func Load(path string) (*Portfolio, error) {
	data := defaultYAML
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes YAML content. Unknown keys are rejected so typos surface at
// startup instead of as missing sections.
func Parse(data []byte) (*Portfolio, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Portfolio
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Portfolio) Validate() error {
	if strings.TrimSpace(p.Hero.Name) == "" {
		return fmt.Errorf("%w: hero.name is required", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(p.Projects))
	for i, proj := range p.Projects {
		title := strings.TrimSpace(proj.Title)
		if title == "" {
			return fmt.Errorf("%w: projects[%d].title is required", ErrInvalid, i)
		}
		if _, dup := seen[title]; dup {
			return fmt.Errorf("%w: duplicate project %q", ErrInvalid, title)
		}
		seen[title] = struct{}{}
		if proj.Category == AllCategories {
			return fmt.Errorf("%w: project %q uses reserved category %q", ErrInvalid, title, AllCategories)
		}
	}
	for _, g := range p.Skills {
		for _, s := range g.Skills {
			if s.Level < 0 || s.Level > 100 {
				return fmt.Errorf("%w: skill %q level %d out of range", ErrInvalid, s.Name, s.Level)
			}
		}
	}
	return nil
}

// Categories lists the project filters, AllCategories first and the rest
// sorted.
func (p *Portfolio) Categories() []string {
	set := make(map[string]struct{})
	for _, proj := range p.Projects {
		if proj.Category != "" {
			set[proj.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set)+1)
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return append([]string{AllCategories}, out...)
}

// ProjectsIn filters projects by category. An empty category or AllCategories
// returns every project.
func (p *Portfolio) ProjectsIn(category string) []Project {
	if category == "" || category == AllCategories {
		return p.Projects
	}
	var out []Project
	for _, proj := range p.Projects {
		if proj.Category == category {
			out = append(out, proj)
		}
	}
	return out
}
