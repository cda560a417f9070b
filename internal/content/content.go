package content

import (
	_ "embed"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// HomeSection is the section that hosts the slideshow and the animated chart.
const HomeSection = "home"

//go:embed site.yaml
var siteYAML []byte

// Slide is one image of the home page slideshow.
type Slide struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Block is a headed paragraph and/or bullet list inside a section.
type Block struct {
	Heading string   `yaml:"heading"`
	Body    string   `yaml:"body"`
	Items   []string `yaml:"items"`
	Source  string   `yaml:"source"`
}

// Section is one page of the site.
type Section struct {
	Name    string  `yaml:"name"`
	Title   string  `yaml:"title"`
	Intro   string  `yaml:"intro"`
	Lead    string  `yaml:"lead"`
	Blocks  []Block `yaml:"blocks"`
	Closing *Block  `yaml:"closing"`
}

// ChartCopy holds the text around the animated chart.
type ChartCopy struct {
	Title string  `yaml:"title"`
	Intro string  `yaml:"intro"`
	Facts []Block `yaml:"facts"`
}

// Site is the static content of the whole site.
type Site struct {
	Name     string    `yaml:"name"`
	Tagline  string    `yaml:"tagline"`
	Footer   []string  `yaml:"footer"`
	Slides   []Slide   `yaml:"slides"`
	Chart    ChartCopy `yaml:"chart"`
	Sections []Section `yaml:"sections"`
}

// Parse decodes site content and checks that section names are unique and
// that the home section exists.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}

	seen := make(map[string]bool, len(site.Sections))
	for _, s := range site.Sections {
		if s.Name == "" {
			return nil, fmt.Errorf("section %q has no name", s.Title)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate section %q", s.Name)
		}
		seen[s.Name] = true
	}
	if !seen[HomeSection] {
		return nil, fmt.Errorf("site content has no %q section", HomeSection)
	}
	return &site, nil
}

// Load parses the embedded site content.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// MustLoad is Load for program startup.
func MustLoad() *Site {
	site, err := Load()
	if err != nil {
		panic(err)
	}
	return site
}

// Section returns the named section.
func (s *Site) Section(name string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// Names returns the section names in navigation order.
func (s *Site) Names() []string {
	names := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		names[i] = sec.Name
	}
	return names
}

var titleCaser = cases.Title(language.English)

// Label returns the navigation label for a section name ("microplastics" -> "Microplastics").
func Label(name string) string {
	return titleCaser.String(name)
}
