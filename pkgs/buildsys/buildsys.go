package buildsys

import "context"

// BuildSystem captures shared capabilities of build helpers.
// It keeps the common lifecycle and dependency/env setup; implementations add their own extras.
type BuildSystem interface {
	// Use injects an installed dependency rooted at root into the environment.
	Use(root string)

	// Cache definitions.
	Define(key, value string)
	DefineBool(key string, value bool)

	// Lifecycle.
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error
	Install(ctx context.Context, args ...string) error
}

// VersionChecker is implemented by build systems that can verify the
// installed tool before configuring.
type VersionChecker interface {
	CheckVersion(ctx context.Context, min string) error
}
