package ciutil

import "os"

// Environment variables inspected by this package.
const (
	EnvCI              = "CI"
	EnvGitHubActions   = "GITHUB_ACTIONS"
	EnvGitHubWorkspace = "GITHUB_WORKSPACE"
	EnvGitLabCI        = "GITLAB_CI"
	EnvGitLabProject   = "CI_PROJECT_DIR"
	EnvJenkinsURL      = "JENKINS_URL"
	EnvTravisCI        = "TRAVIS"
	EnvCircleCI        = "CIRCLECI"

	// EnvNoColor follows https://no-color.org: any non-empty value disables color.
	EnvNoColor = "NO_COLOR"
)

var ciVariables = []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvTravisCI, EnvCircleCI}

// IsCI reports whether a known CI provider variable is set.
func IsCI() bool {
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// IsGitHubActions reports whether the process runs in GitHub Actions.
func IsGitHubActions() bool {
	return os.Getenv(EnvGitHubActions) != "" && os.Getenv(EnvGitHubWorkspace) != ""
}

// IsGitLabCI reports whether the process runs in GitLab CI.
func IsGitLabCI() bool {
	return os.Getenv(EnvGitLabCI) != "" && os.Getenv(EnvGitLabProject) != ""
}

// PlainOutput reports whether console output should carry no ANSI styling.
func PlainOutput() bool {
	return os.Getenv(EnvNoColor) != "" || IsCI()
}
