package version

import "testing"

func TestCanonical_Identity(t *testing.T) {
	r := NewRegistry()

	canonical := []Version{
		VersionEphemeral,
		VersionKubernetes,
		VersionCloud,
		VersionGitLab,
		VersionReplicated,
		VersionCloudDev,
		VersionReleaseAI,
	}

	for _, v := range canonical {
		if got := r.Canonical(string(v)); got != v {
			t.Errorf("Canonical(%q) = %q, want %q", v, got, v)
		}
		if !r.IsValid(string(v)) {
			t.Errorf("IsValid(%q) = false, want true", v)
		}
	}
}

func TestCanonical_Aliases(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		alias string
		want  Version
	}{
		{"k8s", VersionKubernetes},
		{"heroku", VersionCloud},
		{"paas", VersionCloud},
		{"ai", VersionReleaseAI},
	}

	for _, tt := range tests {
		if !r.IsValid(tt.alias) {
			t.Errorf("IsValid(%q) = false, want true", tt.alias)
		}
		if got := r.Canonical(tt.alias); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.alias, got, tt.want)
		}
	}
}

func TestIsValid_UnknownStrings(t *testing.T) {
	r := NewRegistry()

	for _, s := range []string{"", "azure", "Kubernetes", "k8s ", "cloud2"} {
		if r.IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}

func TestCanonical_InvalidReturnsInput(t *testing.T) {
	r := NewRegistry()

	if got := r.Canonical("azure"); got != Version("azure") {
		t.Errorf("Canonical(\"azure\") = %q, want input unchanged", got)
	}
}

func TestFromPath(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		path string
		want Version
	}{
		{"/", VersionEphemeral},
		{"/kubernetes-management", VersionKubernetes},
		{"/platform-as-a-service", VersionCloud},
		{"/release-ai", VersionReleaseAI},
		{"/unknown-path", VersionEphemeral},
		{"", VersionEphemeral},
	}

	for _, tt := range tests {
		if got := r.FromPath(tt.path); got != tt.want {
			t.Errorf("FromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolve_Priority(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name                                   string
		urlVersion, pathVersion, storedVersion string
		want                                   Version
	}{
		{"url wins", "gitlab", "kubernetes", "cloud", VersionGitLab},
		{"path wins over stored", "", "kubernetes", "cloud", VersionKubernetes},
		{"stored wins over default", "", "", "cloud", VersionCloud},
		{"default", "", "", "", VersionEphemeral},
		{"url alias normalized", "heroku", "", "", VersionCloud},
		{"invalid url falls through to path", "nope", "kubernetes", "", VersionKubernetes},
		{"invalid url and path fall through to stored", "nope", "nope", "replicated", VersionReplicated},
		{"all invalid falls to default", "nope", "nope", "nope", VersionEphemeral},
		{"stored alias normalized", "", "", "k8s", VersionKubernetes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.urlVersion, tt.pathVersion, tt.storedVersion)
			if got != tt.want {
				t.Errorf("Resolve(%q, %q, %q) = %q, want %q",
					tt.urlVersion, tt.pathVersion, tt.storedVersion, got, tt.want)
			}
		})
	}
}
