// Package articles loads the long-form posts shown in the site's article modal.
package articles

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.md
var content embed.FS

// DefaultSlug is the article opened from the landing page hero.
const DefaultSlug = "ai-in-medicine"

const publishedLayout = "2006-01-02"

var (
	// ErrNotFound indicates no article exists for a slug.
	ErrNotFound = errors.New("articles: not found")
	// ErrFrontMatter indicates a file without a valid front matter block.
	ErrFrontMatter = errors.New("articles: invalid front matter")
)

var md = goldmark.New(
	goldmark.WithRendererOptions(goldmarkHTML.WithXHTML()),
)

// Chart is the data series that accompanies an article.
type Chart struct {
	Title  string    `yaml:"title"`
	Labels []string  `yaml:"labels"`
	Values []float64 `yaml:"values"`
}

// Article is a parsed post with its body rendered to HTML.
type Article struct {
	Slug      string
	Title     string
	Summary   string
	Published time.Time
	Chart     Chart
	Body      template.HTML
}

type frontMatter struct {
	Slug      string `yaml:"slug"`
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Published string `yaml:"published"`
	Chart     Chart  `yaml:"chart"`
}

// Library is an immutable set of articles keyed by slug.
type Library struct {
	bySlug map[string]Article
	sorted []Article
}

// Load parses the embedded articles.
func Load() (*Library, error) {
	return LoadFS(content, "content")
}

// LoadFS parses every .md file in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("articles: read %s: %w", dir, err)
	}
	lib := &Library{bySlug: make(map[string]Article)}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("articles: read %s: %w", entry.Name(), err)
		}
		a, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if a.Slug == "" {
			a.Slug = strings.TrimSuffix(entry.Name(), ".md")
		}
		if _, dup := lib.bySlug[a.Slug]; dup {
			return nil, fmt.Errorf("articles: duplicate slug %q", a.Slug)
		}
		lib.bySlug[a.Slug] = a
		lib.sorted = append(lib.sorted, a)
	}
	sort.SliceStable(lib.sorted, func(i, j int) bool {
		return lib.sorted[i].Published.After(lib.sorted[j].Published)
	})
	return lib, nil
}

// Parse splits a document into YAML front matter and a markdown body.
func Parse(raw []byte) (Article, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return Article{}, ErrFrontMatter
	}
	head, body, ok := strings.Cut(text[len("---\n"):], "\n---\n")
	if !ok {
		return Article{}, ErrFrontMatter
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return Article{}, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	if fm.Title == "" {
		return Article{}, fmt.Errorf("%w: missing title", ErrFrontMatter)
	}
	if len(fm.Chart.Labels) != len(fm.Chart.Values) {
		return Article{}, fmt.Errorf("%w: chart has %d labels and %d values", ErrFrontMatter, len(fm.Chart.Labels), len(fm.Chart.Values))
	}
	var published time.Time
	if fm.Published != "" {
		t, err := time.Parse(publishedLayout, fm.Published)
		if err != nil {
			return Article{}, fmt.Errorf("%w: published: %v", ErrFrontMatter, err)
		}
		published = t
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return Article{}, fmt.Errorf("articles: render markdown: %w", err)
	}
	return Article{
		Slug:      fm.Slug,
		Title:     fm.Title,
		Summary:   fm.Summary,
		Published: published,
		Chart:     fm.Chart,
		Body:      template.HTML(buf.String()),
	}, nil
}

// Get returns the article for slug.
func (l *Library) Get(slug string) (Article, error) {
	if l == nil {
		return Article{}, ErrNotFound
	}
	a, ok := l.bySlug[slug]
	if !ok {
		return Article{}, ErrNotFound
	}
	return a, nil
}

// List returns all articles, newest first.
func (l *Library) List() []Article {
	if l == nil {
		return nil
	}
	out := make([]Article, len(l.sorted))
	copy(out, l.sorted)
	return out
}
