// Package open launches resolved media URLs with the system handler or a configured application.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"github.com/vidresolve/vidresolve/constant"
	"github.com/vidresolve/vidresolve/key"
)

// URL starts the application configured under open.with, or the system
// handler when it is empty, and returns without waiting for it to exit.
func URL(rawURL string) error {
	cmd, err := Command(runtime.GOOS, rawURL, viper.GetString(key.OpenWith))
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the process that opens rawURL on goos.
// Only absolute http and https URLs are accepted.
func Command(goos, rawURL, app string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("refusing to open %q: not an http(s) url", rawURL)
	}

	var cmd *exec.Cmd
	if app == "" {
		cmd = systemHandler(goos, rawURL)
	} else {
		cmd = withApp(goos, rawURL, app)
	}

	if cmd == nil {
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
	return cmd, nil
}

func systemHandler(goos, input string) *exec.Cmd {
	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input)
	case constant.Darwin:
		return exec.Command("open", input)
	case constant.Linux:
		return exec.Command("xdg-open", input)
	case constant.Android:
		return exec.Command("termux-open", input)
	default:
		return nil
	}
}

func withApp(goos, input, app string) *exec.Cmd {
	switch goos {
	case constant.Windows:
		// start treats & as a command separator
		escaped := strings.ReplaceAll(input, "&", "^&")
		return exec.Command("cmd", "/C", "start", "", app, escaped)
	case constant.Darwin:
		return exec.Command("open", "-a", app, input)
	case constant.Linux:
		return exec.Command(app, input)
	case constant.Android:
		return exec.Command("termux-open", "--choose", input)
	default:
		return nil
	}
}
