package texture

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the number of goroutines decoding images in LoadAll.
// The default is one per CPU minus one, with a floor of one.
//
// Parameters:
//   - workers: the decode worker count, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a loader
func WithWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(workers, 1)
	}
}

// WithTextureOptions sets texture options applied to every texture the loader
// creates, e.g. WithFormat to load a directory of masks.
//
// Parameters:
//   - options: the texture options to apply on every load
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture options to a loader
func WithTextureOptions(options ...TextureBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.textureOptions = options
	}
}

// WithTexture pre-populates the loader's cache. Useful for procedural
// textures that should resolve by name next to file-loaded ones.
//
// Parameters:
//   - key: the cache key, taking the place of a file path
//   - tex: the texture to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cached texture option to a loader
func WithTexture(key string, tex *Texture) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[key] = tex
	}
}
