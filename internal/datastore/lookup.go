package datastore

import (
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// lookupCache maps natural keys (category code, project code, company
// name) to their surrogate ids so bulk ingest can resolve keys without a
// query per row. It is a derived, rebuildable read-through cache: refreshes
// replace a map wholesale from the store and reference-data writes
// invalidate all maps. It is never a source of truth.
type lookupCache struct {
	mu sync.Mutex

	categories *gocache.Cache
	projects   *gocache.Cache
	companies  *gocache.Cache

	// warm flags track whether a map has been loaded since the last
	// invalidation; an empty table would otherwise look like a cold cache.
	warmCategories bool
	warmProjects   bool
	warmCompanies  bool
}

func newLookupCache() *lookupCache {
	return &lookupCache{
		categories: gocache.New(gocache.NoExpiration, 0),
		projects:   gocache.New(gocache.NoExpiration, 0),
		companies:  gocache.New(gocache.NoExpiration, 0),
	}
}

// invalidate drops every map; the next lookup reloads from the store.
func (lc *lookupCache) invalidate() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.categories.Flush()
	lc.projects.Flush()
	lc.companies.Flush()
	lc.warmCategories = false
	lc.warmProjects = false
	lc.warmCompanies = false
}

// replace swaps a map's contents wholesale.
func replace(c *gocache.Cache, entries map[string]uint) {
	c.Flush()
	for key, id := range entries {
		c.Set(key, id, gocache.NoExpiration)
	}
}

// resolve returns the id for a natural key, or false when the key is
// absent from the map.
func resolve(c *gocache.Cache, key string) (uint, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// RefreshCategories reloads the category code -> id map from the store and
// returns its new contents.
func (ds *DataStore) RefreshCategories() (map[string]uint, error) {
	var categories []Category
	if err := ds.DB.Find(&categories).Error; err != nil {
		return nil, dbError(err, "refresh_categories", "", "resource", "category")
	}

	entries := make(map[string]uint, len(categories))
	for i := range categories {
		entries[categories[i].Code] = categories[i].ID
	}

	ds.lookup.mu.Lock()
	replace(ds.lookup.categories, entries)
	ds.lookup.warmCategories = true
	ds.lookup.mu.Unlock()

	return entries, nil
}

// RefreshProjects reloads the project code -> id map from the store and
// returns its new contents.
func (ds *DataStore) RefreshProjects() (map[string]uint, error) {
	var projects []Project
	if err := ds.DB.Find(&projects).Error; err != nil {
		return nil, dbError(err, "refresh_projects", "", "resource", "project")
	}

	entries := make(map[string]uint, len(projects))
	for i := range projects {
		entries[projects[i].Code] = projects[i].ID
	}

	ds.lookup.mu.Lock()
	replace(ds.lookup.projects, entries)
	ds.lookup.warmProjects = true
	ds.lookup.mu.Unlock()

	return entries, nil
}

// RefreshCompanies reloads the company name -> id map from the store and
// returns its new contents.
func (ds *DataStore) RefreshCompanies() (map[string]uint, error) {
	var companies []Company
	if err := ds.DB.Find(&companies).Error; err != nil {
		return nil, dbError(err, "refresh_companies", "", "resource", "company")
	}

	entries := make(map[string]uint, len(companies))
	for i := range companies {
		entries[companies[i].Name] = companies[i].ID
	}

	ds.lookup.mu.Lock()
	replace(ds.lookup.companies, entries)
	ds.lookup.warmCompanies = true
	ds.lookup.mu.Unlock()

	return entries, nil
}

// ensureLookupsWarm refreshes any map that has not been loaded since the
// last invalidation.
func (ds *DataStore) ensureLookupsWarm() error {
	ds.lookup.mu.Lock()
	warmCategories := ds.lookup.warmCategories
	warmProjects := ds.lookup.warmProjects
	warmCompanies := ds.lookup.warmCompanies
	ds.lookup.mu.Unlock()

	if !warmCategories {
		if _, err := ds.RefreshCategories(); err != nil {
			return err
		}
	}
	if !warmProjects {
		if _, err := ds.RefreshProjects(); err != nil {
			return err
		}
	}
	if !warmCompanies {
		if _, err := ds.RefreshCompanies(); err != nil {
			return err
		}
	}
	return nil
}

// resolveCategoryID maps a category code to its id, falling back to the
// sentinel category when the code is empty or unresolvable.
func (ds *DataStore) resolveCategoryID(code string) *uint {
	if code != "" {
		if id, ok := resolve(ds.lookup.categories, code); ok {
			return &id
		}
	}
	if id, ok := resolve(ds.lookup.categories, SentinelCategoryCode); ok {
		return &id
	}
	return nil
}

// resolveProjectID maps a project code to its id; nil when unresolved.
func (ds *DataStore) resolveProjectID(code string) *uint {
	if code == "" {
		return nil
	}
	if id, ok := resolve(ds.lookup.projects, code); ok {
		return &id
	}
	return nil
}

// resolveCompanyID maps a company name to its id; nil when unresolved.
func (ds *DataStore) resolveCompanyID(name string) *uint {
	if name == "" {
		return nil
	}
	if id, ok := resolve(ds.lookup.companies, name); ok {
		return &id
	}
	return nil
}

// invalidateLookups is the invalidate-on-write hook called by every
// reference-data mutation.
func (ds *DataStore) invalidateLookups() {
	if ds.lookup != nil {
		ds.lookup.invalidate()
	}
}
