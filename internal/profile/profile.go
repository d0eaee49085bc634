package profile

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Profile is a named format/quality preset for compress calls.
type Profile struct {
	Name    string `yaml:"name"`
	Format  string `yaml:"format"`  // format token passed to compress, e.g. "jpeg", "png"
	Quality int    `yaml:"quality"` // 1-100; ignored by png
}

// DefaultName is used when a requested profile is unknown.
const DefaultName = "balanced"

var (
	mu       sync.RWMutex
	profiles = map[string]Profile{
		"balanced": {Name: "balanced", Format: "jpeg", Quality: 80},
		"small":    {Name: "small", Format: "jpeg", Quality: 60},
		"high":     {Name: "high", Format: "jpeg", Quality: 92},
		"lossless": {Name: "lossless", Format: "png", Quality: 100},
	}
)

// Get returns a profile by name. Falls back to balanced if unknown.
func Get(name string) Profile {
	mu.RLock()
	defer mu.RUnlock()
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names returns all registered profile names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	return names
}

type file struct {
	Profiles []Profile `yaml:"profiles"`
}

// Load reads extra profiles from a YAML file and registers them, replacing
// built-ins with the same name.
//
//	profiles:
//	  - name: thumbs
//	    format: jpeg
//	    quality: 55
func Load(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	mu.RLock()
	defaultQuality := profiles[DefaultName].Quality
	mu.RUnlock()

	for i, p := range f.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile[%d]: missing name", i)
		}
		if p.Format == "" {
			p.Format = "jpeg"
		}
		if p.Quality == 0 {
			p.Quality = defaultQuality
		}
		if p.Quality < 0 || p.Quality > 255 {
			return nil, fmt.Errorf("profile %q: quality %d out of range 0-255", p.Name, p.Quality)
		}
		f.Profiles[i] = p
	}

	mu.Lock()
	for _, p := range f.Profiles {
		profiles[p.Name] = p
	}
	mu.Unlock()
	return f.Profiles, nil
}
