package git

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/waabox/deploybot/internal/domain"
)

// ErrNoRepository is returned when no .git directory is found in dir or its parents.
var ErrNoRepository = errors.New("not inside a git repository")

// DetectRepository locates the enclosing checkout of dir, reads its .git/config
// and returns a Repository built from the origin remote URL.
func DetectRepository(dir string) (domain.Repository, error) {
	root, err := findRoot(dir)
	if err != nil {
		return domain.Repository{}, err
	}
	remote, err := originURL(filepath.Join(root, ".git", "config"))
	if err != nil {
		return domain.Repository{}, err
	}
	return ParseRemoteURL(remote)
}

func findRoot(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		if info, err := os.Stat(filepath.Join(current, ".git")); err == nil && info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNoRepository
		}
		current = parent
	}
}

func originURL(configPath string) (string, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return "", fmt.Errorf("could not open .git/config: %w", err)
	}
	defer f.Close()

	var inOrigin bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `[remote "origin"]` {
			inOrigin = true
			continue
		}
		if inOrigin && strings.HasPrefix(line, "[") {
			break
		}
		if inOrigin && strings.HasPrefix(line, "url") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[1]), nil
			}
		}
	}
	return "", errors.New("no origin remote found in .git/config")
}

// ParseRemoteURL parses a git remote URL and returns a Repository.
// Supports HTTPS (https://github.com/owner/repo.git) and SSH (git@github.com:owner/repo.git).
// Nested group paths (gitlab.com/group/sub/repo) keep everything but the last
// segment as the owner. RemoteURL holds the browsable https form of the remote,
// without any credentials embedded in the original URL.
func ParseRemoteURL(rawURL string) (domain.Repository, error) {
	normalized := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")

	var host, path string
	switch {
	case strings.HasPrefix(normalized, "git@"):
		parts := strings.SplitN(strings.TrimPrefix(normalized, "git@"), ":", 2)
		if len(parts) != 2 {
			return domain.Repository{}, fmt.Errorf("invalid SSH remote URL: %s", rawURL)
		}
		host, path = parts[0], parts[1]
	case strings.HasPrefix(normalized, "https://") || strings.HasPrefix(normalized, "http://"):
		withoutScheme := strings.TrimPrefix(normalized, "https://")
		withoutScheme = strings.TrimPrefix(withoutScheme, "http://")
		parts := strings.SplitN(withoutScheme, "/", 2)
		if len(parts) != 2 {
			return domain.Repository{}, fmt.Errorf("invalid HTTPS remote URL: %s", rawURL)
		}
		host, path = parts[0], parts[1]
	default:
		return domain.Repository{}, fmt.Errorf("unsupported remote URL format: %s", rawURL)
	}

	if at := strings.LastIndexByte(host, '@'); at >= 0 {
		host = host[at+1:]
	}
	if host == "" {
		return domain.Repository{}, fmt.Errorf("remote URL has no host: %s", rawURL)
	}
	path = strings.Trim(path, "/")
	i := strings.LastIndexByte(path, '/')
	if i <= 0 || i == len(path)-1 {
		return domain.Repository{}, fmt.Errorf("remote URL has no owner/name path: %s", rawURL)
	}
	return domain.Repository{
		Owner:     path[:i],
		Name:      path[i+1:],
		RemoteURL: "https://" + host + "/" + path,
	}, nil
}
