package github

import "time"

type apiUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	HTMLURL   string `json:"html_url"`
}

type apiEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Actor     struct {
		Login string `json:"login"`
	} `json:"actor"`
	Repo struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"repo"`
	Payload apiPayload `json:"payload"`
}

type apiPayload struct {
	Issue       *apiIssue `json:"issue"`
	PullRequest *apiIssue `json:"pull_request"`
	Commits     []apiPush `json:"commits"`
	Action      string    `json:"action"`
}

// apiIssue covers both issues and pull requests; the fields we read are
// identical.
type apiIssue struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

type apiPush struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

type apiRepo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}
