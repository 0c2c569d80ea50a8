package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultGitHubAPI     = "https://api.github.com"
	defaultGitHubTimeout = 10 * time.Second
	userAgent            = "hiring-backend"
	maxRepoSummaries     = 10
)

// GitHubValidator checks handles against the GitHub users API.
type GitHubValidator struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewGitHubValidator builds a validator. An empty token uses anonymous requests,
// which GitHub rate limits heavily.
func NewGitHubValidator(baseURL, token string, timeout time.Duration) *GitHubValidator {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultGitHubAPI
	}
	if timeout <= 0 {
		timeout = defaultGitHubTimeout
	}

	client := &http.Client{}
	if token = strings.TrimSpace(token); token != "" {
		client = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	client.Timeout = timeout

	return &GitHubValidator{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: client,
	}
}

type githubUser struct {
	Login       string `json:"login"`
	HTMLURL     string `json:"html_url"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	CreatedAt   string `json:"created_at"`
}

type githubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stargazers_count"`
	Fork        bool   `json:"fork"`
	PushedAt    string `json:"pushed_at"`
}

// Validate normalizes identifier and confirms the profile exists.
func (v *GitHubValidator) Validate(ctx context.Context, identifier string) (Identity, error) {
	handle, err := Normalize(identifier)
	if err != nil {
		return Identity{}, err
	}

	var user githubUser
	if err := v.getJSON(ctx, "/users/"+url.PathEscape(handle), &user); err != nil {
		if errors.Is(err, ErrIdentifierNotFound) {
			return Identity{Exists: false, Canonical: handle}, fmt.Errorf("%w: %s", ErrIdentifierNotFound, handle)
		}
		return Identity{}, err
	}

	canonical := strings.TrimSpace(user.Login)
	if canonical == "" {
		canonical = handle
	}
	profileURL := strings.TrimSpace(user.HTMLURL)
	if profileURL == "" {
		profileURL = ProfileURL(canonical)
	}
	return Identity{Exists: true, Canonical: canonical, ProfileURL: profileURL}, nil
}

// FetchProfile gathers public facts about a validated handle for the analysis prompt.
func (v *GitHubValidator) FetchProfile(ctx context.Context, handle string) (Profile, error) {
	var user githubUser
	if err := v.getJSON(ctx, "/users/"+url.PathEscape(handle), &user); err != nil {
		return Profile{}, err
	}

	var repos []githubRepo
	reposPath := "/users/" + url.PathEscape(handle) + "/repos?sort=pushed&per_page=30&type=owner"
	if err := v.getJSON(ctx, reposPath, &repos); err != nil {
		return Profile{}, err
	}

	profile := Profile{
		Login:       user.Login,
		Name:        user.Name,
		Bio:         user.Bio,
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
		CreatedAt:   user.CreatedAt,
	}
	for _, r := range repos {
		if r.Fork {
			continue
		}
		profile.Repositories = append(profile.Repositories, RepoSummary{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.Stars,
			PushedAt:    r.PushedAt,
		})
	}
	sort.SliceStable(profile.Repositories, func(i, j int) bool {
		return profile.Repositories[i].Stars > profile.Repositories[j].Stars
	})
	if len(profile.Repositories) > maxRepoSummaries {
		profile.Repositories = profile.Repositories[:maxRepoSummaries]
	}
	return profile, nil
}

func (v *GitHubValidator) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrValidatorUnavailable, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	client := v.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultGitHubTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidatorUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return ErrIdentifierNotFound
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: github rate limited (status %d)", ErrValidatorUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: github status %d: %s", ErrValidatorUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode github response: %v", ErrValidatorUnavailable, err)
	}
	return nil
}

var _ Validator = (*GitHubValidator)(nil)
var _ ProfileFetcher = (*GitHubValidator)(nil)
