package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/compozy/ghrelease/internal/domain"
	"github.com/spf13/viper"
)

// DefaultArtifactsDir is where the CI artifact download step leaves artifacts.
const DefaultArtifactsDir = ".build/artifacts"

// Config is the resolved input of a single release run.
type Config struct {
	Token      string `mapstructure:"token"`
	Ref        string `mapstructure:"ref"`
	Repository string `mapstructure:"repository"`
	APIURL     string `mapstructure:"api_url"`

	Name                   string   `mapstructure:"name"`
	TagName                string   `mapstructure:"tag_name"`
	Body                   string   `mapstructure:"body"`
	BodyPath               string   `mapstructure:"body_path"`
	TargetCommitish        string   `mapstructure:"target_commitish"`
	DiscussionCategoryName string   `mapstructure:"discussion_category_name"`
	Files                  []string `mapstructure:"files"`
	Artifacts              []string `mapstructure:"artifacts"`
	ArtifactsDir           string   `mapstructure:"artifacts_dir"`

	// Draft and Prerelease are nil when the input was not provided, so an
	// update can keep the release's current value.
	Draft                *bool `mapstructure:"draft"`
	Prerelease           *bool `mapstructure:"prerelease"`
	FailOnUnmatchedFiles bool  `mapstructure:"fail_on_unmatched_files"`
	GenerateReleaseNotes bool  `mapstructure:"generate_release_notes"`
	AppendBody           bool  `mapstructure:"append_body"`
}

// envKey maps a config key to the environment variables that may carry it,
// in order of precedence.
type envKey struct {
	key  string
	envs []string
}

var envKeys = []envKey{
	{key: "token", envs: []string{"INPUT_TOKEN", "GITHUB_TOKEN"}},
	{key: "ref", envs: []string{"GITHUB_REF"}},
	{key: "repository", envs: []string{"INPUT_REPOSITORY", "GITHUB_REPOSITORY"}},
	{key: "api_url", envs: []string{"GITHUB_API_URL"}},
	{key: "name", envs: []string{"INPUT_NAME"}},
	{key: "tag_name", envs: []string{"INPUT_TAG_NAME"}},
	{key: "body", envs: []string{"INPUT_BODY"}},
	{key: "body_path", envs: []string{"INPUT_BODY_PATH"}},
	{key: "files", envs: []string{"INPUT_FILES"}},
	{key: "artifacts", envs: []string{"INPUT_ARTIFACTS"}},
	{key: "artifacts_dir", envs: []string{"INPUT_ARTIFACTS_DIR"}},
	{key: "draft", envs: []string{"INPUT_DRAFT"}},
	{key: "prerelease", envs: []string{"INPUT_PRERELEASE"}},
	{key: "fail_on_unmatched_files", envs: []string{"INPUT_FAIL_ON_UNMATCHED_FILES"}},
	{key: "target_commitish", envs: []string{"INPUT_TARGET_COMMITISH"}},
	{key: "discussion_category_name", envs: []string{"INPUT_DISCUSSION_CATEGORY_NAME"}},
	{key: "generate_release_notes", envs: []string{"INPUT_GENERATE_RELEASE_NOTES"}},
	{key: "append_body", envs: []string{"INPUT_APPEND_BODY"}},
}

// FromEnv maps raw environment values onto a Config. Present-but-empty
// values are treated as absent. It never fails; see Parse for validation.
func FromEnv(env map[string]string) *Config {
	raw := make(map[string]string, len(envKeys))
	for _, k := range envKeys {
		for _, name := range k.envs {
			if v := env[name]; v != "" {
				raw[k.key] = v
				break
			}
		}
	}
	return fromValues(raw)
}

// Parse maps env onto a Config and validates the result.
func Parse(env map[string]string) (*Config, error) {
	cfg := FromEnv(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func fromValues(raw map[string]string) *Config {
	return &Config{
		Token:                  raw["token"],
		Ref:                    raw["ref"],
		Repository:             raw["repository"],
		APIURL:                 raw["api_url"],
		Name:                   raw["name"],
		TagName:                strings.TrimSpace(raw["tag_name"]),
		Body:                   raw["body"],
		BodyPath:               raw["body_path"],
		TargetCommitish:        raw["target_commitish"],
		DiscussionCategoryName: raw["discussion_category_name"],
		Files:                  parseMultiInput(raw["files"]),
		Artifacts:              parseMultiInput(raw["artifacts"]),
		ArtifactsDir:           domain.FirstNonEmpty(raw["artifacts_dir"], DefaultArtifactsDir),
		Draft:                  parseOptionalBool(raw["draft"]),
		Prerelease:             parseOptionalBool(raw["prerelease"]),
		FailOnUnmatchedFiles:   raw["fail_on_unmatched_files"] == "true",
		GenerateReleaseNotes:   raw["generate_release_notes"] != "false",
		AppendBody:             raw["append_body"] == "true",
	}
}

// parseOptionalBool returns nil for "", otherwise whether s is "true".
func parseOptionalBool(s string) *bool {
	if s == "" {
		return nil
	}
	return domain.Ptr(s == "true")
}

// parseMultiInput splits a list input on newlines and commas.
func parseMultiInput(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ','
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Owner returns the owner half of Repository.
func (c *Config) Owner() string {
	owner, _, _ := strings.Cut(c.Repository, "/")
	return owner
}

// RepoName returns the name half of Repository.
func (c *Config) RepoName() string {
	_, name, _ := strings.Cut(c.Repository, "/")
	return name
}

// Tag returns the explicit tag input, falling back to the tag of the current ref.
func (c *Config) Tag() string {
	return domain.FirstNonEmpty(c.TagName, domain.TagFromRef(c.Ref))
}

// String renders the config for debug logs with the token redacted.
func (c *Config) String() string {
	redacted := *c
	if redacted.Token != "" {
		redacted.Token = "***"
	}
	return fmt.Sprintf("%+v", redacted)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("github token is required")
	}
	if strings.Count(c.Repository, "/") != 1 {
		return fmt.Errorf("invalid repository %q: expected owner/name", c.Repository)
	}
	if err := ValidateGitHubOwnerRepo(c.Owner(), c.RepoName()); err != nil {
		return fmt.Errorf("invalid github configuration: %w", err)
	}
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid api_url: %s", c.APIURL)
		}
	}
	if strings.Contains(c.ArtifactsDir, "..") {
		return fmt.Errorf("artifacts_dir contains invalid path traversal")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// LoadConfig resolves the configuration from the environment, an optional
// .ghrelease.yaml in the working directory, and the local git checkout.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".ghrelease")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	// BindEnv allows multiple env vars - it will check them in order
	for _, k := range envKeys {
		if err := v.BindEnv(append([]string{k.key}, k.envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", k.key, err)
		}
	}
	v.SetDefault("artifacts_dir", DefaultArtifactsDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	raw := make(map[string]string, len(envKeys))
	for _, k := range envKeys {
		if v.IsSet(k.key) {
			raw[k.key] = stringValue(v.Get(k.key))
		}
	}
	cfg := fromValues(raw)
	if err := populateRepositoryDefaults(cfg); err != nil {
		return nil, fmt.Errorf("failed to resolve repository: %w", err)
	}
	if err := populateRefDefault(cfg); err != nil {
		return nil, fmt.Errorf("failed to resolve ref: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// stringValue flattens a viper value; YAML lists become newline separated.
func stringValue(val any) string {
	switch t := val.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, "\n")
	case []string:
		return strings.Join(t, "\n")
	default:
		return fmt.Sprint(t)
	}
}
