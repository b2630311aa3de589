package version

// Version is a canonical marketing site version identity.
type Version string

const (
	VersionEphemeral  Version = "ephemeral"
	VersionKubernetes Version = "kubernetes"
	VersionCloud      Version = "cloud"
	VersionGitLab     Version = "gitlab"
	VersionReplicated Version = "replicated"
	VersionCloudDev   Version = "cloud-dev"
	VersionReleaseAI  Version = "release-ai"
)

// DefaultVersion is the identity used when nothing else resolves.
const DefaultVersion = VersionEphemeral

// Definition describes one canonical identity: its landing path, the
// aliases that normalize to it, and the content payload used by
// rendering (opaque to the resolver).
type Definition struct {
	ID       Version
	Path     string
	Aliases  []string
	Title    string
	Benefits []string
}

// Registry is a read-only lookup table over the closed version set.
// It is built once at startup and passed to callers; there is no
// package-level mutable state.
type Registry struct {
	definitions map[Version]Definition
	aliases     map[string]Version
	paths       map[string]Version
}

// NewRegistry builds the registry for the current marketing site.
func NewRegistry() *Registry {
	return newRegistry([]Definition{
		{
			ID:    VersionEphemeral,
			Path:  "/",
			Title: "Ephemeral environments",
			Benefits: []string{
				"Preview every pull request",
				"Tear down automatically",
			},
		},
		{
			ID:      VersionKubernetes,
			Path:    "/kubernetes-management",
			Aliases: []string{"k8s"},
			Title:   "Kubernetes management",
			Benefits: []string{
				"Manage clusters without YAML sprawl",
			},
		},
		{
			ID:      VersionCloud,
			Path:    "/platform-as-a-service",
			Aliases: []string{"heroku", "paas"},
			Title:   "Cloud platform",
			Benefits: []string{
				"Deploy from git in minutes",
			},
		},
		{
			ID:    VersionGitLab,
			Path:  "/gitlab",
			Title: "GitLab integration",
		},
		{
			ID:    VersionReplicated,
			Path:  "/replicated",
			Title: "Self-hosted distribution",
		},
		{
			ID:    VersionCloudDev,
			Path:  "/cloud-development",
			Title: "Cloud development environments",
		},
		{
			ID:      VersionReleaseAI,
			Path:    "/release-ai",
			Aliases: []string{"ai"},
			Title:   "Release AI",
		},
	})
}

func newRegistry(defs []Definition) *Registry {
	r := &Registry{
		definitions: make(map[Version]Definition, len(defs)),
		aliases:     make(map[string]Version),
		paths:       make(map[string]Version, len(defs)),
	}
	for _, d := range defs {
		r.definitions[d.ID] = d
		// Every canonical identity maps to itself.
		r.aliases[string(d.ID)] = d.ID
		for _, a := range d.Aliases {
			r.aliases[a] = d.ID
		}
		r.paths[d.Path] = d.ID
	}
	return r
}

// Definition returns the definition for a canonical identity.
func (r *Registry) Definition(v Version) (Definition, bool) {
	d, ok := r.definitions[v]
	return d, ok
}

// IsValid reports whether s is a canonical identity or a registered alias.
func (r *Registry) IsValid(s string) bool {
	_, ok := r.aliases[s]
	return ok
}

// Canonical normalizes an alias to its canonical identity. Canonical
// identities map to themselves. Invalid input is returned unchanged;
// callers are expected to guard with IsValid first.
func (r *Registry) Canonical(s string) Version {
	if v, ok := r.aliases[s]; ok {
		return v
	}
	return Version(s)
}

// FromPath maps a URL path to its version identity. "/" and any
// unregistered path map to the default identity; this is a total
// function, unknown paths are not an error.
func (r *Registry) FromPath(path string) Version {
	if v, ok := r.paths[path]; ok {
		return v
	}
	return DefaultVersion
}
