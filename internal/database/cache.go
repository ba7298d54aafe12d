package database

import (
	"sync"
)

// CachedRepository wraps Repository with caching for the get-or-create
// lookups that the ingest pipeline hits for nearly every row.
type CachedRepository struct {
	*Repository

	authorCache   map[string]int64
	authorCacheMu sync.RWMutex

	genreCache   map[string]int64
	genreCacheMu sync.RWMutex
}

// NewCachedRepository creates a new cached repository
func NewCachedRepository(repo *Repository) *CachedRepository {
	return &CachedRepository{
		Repository:  repo,
		authorCache: make(map[string]int64),
		genreCache:  make(map[string]int64),
	}
}

// GetOrCreateAuthor gets or creates an author with caching
func (r *CachedRepository) GetOrCreateAuthor(name string) (int64, error) {
	// Try to get from cache first
	r.authorCacheMu.RLock()
	if id, ok := r.authorCache[name]; ok {
		r.authorCacheMu.RUnlock()
		return id, nil
	}
	r.authorCacheMu.RUnlock()

	// Not in cache, get from database
	id, err := r.Repository.GetOrCreateAuthor(name)
	if err != nil {
		return 0, err
	}

	r.authorCacheMu.Lock()
	r.authorCache[name] = id
	r.authorCacheMu.Unlock()

	return id, nil
}

// GetOrCreateGenre gets or creates a genre with caching
func (r *CachedRepository) GetOrCreateGenre(name string) (int64, error) {
	r.genreCacheMu.RLock()
	if id, ok := r.genreCache[name]; ok {
		r.genreCacheMu.RUnlock()
		return id, nil
	}
	r.genreCacheMu.RUnlock()

	id, err := r.Repository.GetOrCreateGenre(name)
	if err != nil {
		return 0, err
	}

	r.genreCacheMu.Lock()
	r.genreCache[name] = id
	r.genreCacheMu.Unlock()

	return id, nil
}

// ClearCache clears all caches
func (r *CachedRepository) ClearCache() {
	r.authorCacheMu.Lock()
	r.authorCache = make(map[string]int64)
	r.authorCacheMu.Unlock()

	r.genreCacheMu.Lock()
	r.genreCache = make(map[string]int64)
	r.genreCacheMu.Unlock()
}

// GetCacheStats returns statistics about cache usage
func (r *CachedRepository) GetCacheStats() map[string]int {
	r.authorCacheMu.RLock()
	authorCount := len(r.authorCache)
	r.authorCacheMu.RUnlock()

	r.genreCacheMu.RLock()
	genreCount := len(r.genreCache)
	r.genreCacheMu.RUnlock()

	return map[string]int{
		"authors": authorCount,
		"genres":  genreCount,
	}
}
