package sites

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ramkansal/recipe-scrapers/internal/ingredients"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// Definition declares a selector-driven site in YAML.
type Definition struct {
	Host         string                 `yaml:"host"`
	Name         string                 `yaml:"name"`
	SiteName     string                 `yaml:"site_name"`
	Ingredients  *ingredients.Selectors `yaml:"ingredients"`
	Instructions *struct {
		Selector string `yaml:"selector"`
		Remove   string `yaml:"remove"`
		Split    bool   `yaml:"split"`
	} `yaml:"instructions"`
	Author *struct {
		Selector string `yaml:"selector"`
	} `yaml:"author"`
}

type definitionFile struct {
	Sites []Definition `yaml:"sites"`
}

// Site turns the definition into an override table.
func (d Definition) Site() (*plugin.Site, error) {
	if d.Host == "" {
		return nil, errors.New("site definition requires a host")
	}
	name := d.Name
	if name == "" {
		name = NormalizeHost(d.Host)
	}

	overrides := make(map[plugin.Field]plugin.OverrideFunc)
	if d.SiteName != "" {
		overrides[plugin.FieldSiteName] = Constant(d.SiteName)
	}
	if d.Ingredients != nil {
		if d.Ingredients.Heading == "" || d.Ingredients.Item == "" {
			return nil, errors.Newf("site %s: ingredients needs heading and item selectors", d.Host)
		}
		overrides[plugin.FieldIngredients] = GroupIngredients(*d.Ingredients)
	}
	if in := d.Instructions; in != nil && in.Selector != "" {
		if in.Split {
			overrides[plugin.FieldInstructions] = SplitInstructionBlock(in.Selector, in.Remove)
		} else {
			overrides[plugin.FieldInstructions] = SelectInstructions(in.Selector, in.Remove)
		}
	}
	if d.Author != nil && d.Author.Selector != "" {
		overrides[plugin.FieldAuthor] = SelectText(plugin.FieldAuthor, d.Author.Selector)
	}
	return newSite(name, NormalizeHost(d.Host), overrides), nil
}

// Load decodes a `sites:` document into site tables.
func Load(r io.Reader) ([]*plugin.Site, error) {
	var file definitionFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decode site definitions")
	}

	out := make([]*plugin.Site, 0, len(file.Sites))
	for i, d := range file.Sites {
		site, err := d.Site()
		if err != nil {
			return nil, errors.Wrapf(err, "site #%d", i+1)
		}
		out = append(out, site)
	}
	return out, nil
}

// LoadFile reads site definitions from path.
func LoadFile(path string) ([]*plugin.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	sites, err := Load(f)
	return sites, errors.Wrapf(err, "load %s", path)
}

// WithFile returns the built-in sites plus those declared in path. YAML
// entries replace built-in ones for the same host.
func WithFile(path string) (*Catalog, error) {
	c := NewCatalog(builtinSites()...)
	if path == "" {
		return c, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, s := range extra {
		c.Add(s)
	}
	return c, nil
}

// Digest returns a hex sha256 of the site definitions file at path, or ""
// when path is empty. Caches use it to tell definition versions apart.
func Digest(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
