package identity

import (
	"context"
	"fmt"
	"strings"
)

// Profile is a compact set of public facts used to ground profile analysis.
type Profile struct {
	Login        string        `json:"login"`
	Name         string        `json:"name,omitempty"`
	Bio          string        `json:"bio,omitempty"`
	PublicRepos  int           `json:"public_repos"`
	Followers    int           `json:"followers"`
	CreatedAt    string        `json:"created_at,omitempty"`
	Repositories []RepoSummary `json:"repositories,omitempty"`
}

type RepoSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	PushedAt    string `json:"pushed_at,omitempty"`
}

// ProfileFetcher loads public facts for an already validated handle.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, handle string) (Profile, error)
}

// Summary renders the profile as plain text for a prompt.
func (p Profile) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Login: %s\n", p.Login)
	if p.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
	}
	if p.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", p.Bio)
	}
	fmt.Fprintf(&b, "Public repositories: %d\nFollowers: %d\n", p.PublicRepos, p.Followers)
	if p.CreatedAt != "" {
		fmt.Fprintf(&b, "Account created: %s\n", p.CreatedAt)
	}
	if len(p.Repositories) > 0 {
		b.WriteString("Repositories (own, most starred first):\n")
		for _, r := range p.Repositories {
			lang := r.Language
			if lang == "" {
				lang = "unknown"
			}
			fmt.Fprintf(&b, "- %s [%s, %d stars, last push %s]", r.Name, lang, r.Stars, r.PushedAt)
			if r.Description != "" {
				fmt.Fprintf(&b, ": %s", r.Description)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}
