// Package browser hands share links to the desktop's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Command returns the program and arguments that open link on goos.
func Command(goos, link string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{link}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{link}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}, nil
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

// Open opens link in the user's default browser. Only http and https links
// are accepted.
func Open(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q: not an http(s) link", link)
	}
	name, args, err := Command(runtime.GOOS, link)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}
